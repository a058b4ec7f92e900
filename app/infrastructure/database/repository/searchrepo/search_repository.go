package searchrepo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	domain "leadgen.ai/leadgen-api/app/domain/discovery"
	"leadgen.ai/leadgen-api/app/domain/query"
	"leadgen.ai/leadgen-api/app/infrastructure/database/dbschema"
	"leadgen.ai/leadgen-api/app/infrastructure/database/repository/transaction"
	"leadgen.ai/leadgen-api/app/utils/functional"
)

const saveBatchSize = 100

type SearchGormRepository struct {
	db *transaction.Database
}

var _ domain.SearchRepository = (*SearchGormRepository)(nil)

func (repo *SearchGormRepository) CreateQueries(ctx context.Context, queries []*domain.SearchQuery) error {
	if len(queries) == 0 {
		return nil
	}
	models := functional.Map(queries, dbschema.NewSchemaSearchQuery)
	if err := repo.db.GetQuery(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		queries[i].ID = m.ID
		queries[i].CreatedAt = m.CreatedAt
	}
	return nil
}

func (repo *SearchGormRepository) FindQueries(ctx context.Context, projectID uint, p *query.Pagination) ([]*domain.SearchQuery, error) {
	sql := repo.db.GetQuery(ctx).Model(&dbschema.SearchQuery{}).Where("project_id = ?", projectID)
	sql = transaction.Paginate(sql, "id", p)
	var rows []*dbschema.SearchQuery
	if err := sql.Find(&rows).Error; err != nil {
		return nil, err
	}
	return functional.Map(rows, func(item *dbschema.SearchQuery) *domain.SearchQuery {
		return item.EtoD()
	}), nil
}

func (repo *SearchGormRepository) CountQueries(ctx context.Context, projectID uint) (int64, error) {
	var count int64
	err := repo.db.GetQuery(ctx).Model(&dbschema.SearchQuery{}).Where("project_id = ?", projectID).Count(&count).Error
	return count, err
}

// SaveResults skips links already stored for the project so their
// processing status is kept.
func (repo *SearchGormRepository) SaveResults(ctx context.Context, results []*domain.StoredResult) (int, error) {
	if len(results) == 0 {
		return 0, nil
	}
	models := functional.Map(results, dbschema.NewSchemaSearchResult)
	result := repo.db.GetQuery(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}, {Name: "link"}},
		DoNothing: true,
	}).CreateInBatches(&models, saveBatchSize)
	if result.Error != nil {
		return 0, result.Error
	}
	for i, m := range models {
		results[i].ID = m.ID
	}
	return int(result.RowsAffected), nil
}

// applyFilter applies conditions dynamically to the query.
func (repo *SearchGormRepository) applyFilter(sql *gorm.DB, filter domain.SearchResultFilter) *gorm.DB {
	if filter.ProjectID != nil {
		sql = sql.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.Status != nil {
		sql = sql.Where("status = ?", *filter.Status)
	}
	if filter.Links != nil {
		sql = sql.Where("link IN ?", *filter.Links)
	}
	return sql
}

func (repo *SearchGormRepository) FindResults(ctx context.Context, filter domain.SearchResultFilter, p *query.Pagination) ([]*domain.StoredResult, error) {
	sql := repo.applyFilter(repo.db.GetQuery(ctx).Model(&dbschema.SearchResult{}), filter)
	sql = transaction.Paginate(sql, "id", p)
	var rows []*dbschema.SearchResult
	if err := sql.Find(&rows).Error; err != nil {
		return nil, err
	}
	return functional.Map(rows, func(item *dbschema.SearchResult) *domain.StoredResult {
		return item.EtoD()
	}), nil
}

func (repo *SearchGormRepository) CountResults(ctx context.Context, filter domain.SearchResultFilter) (int64, error) {
	var count int64
	err := repo.applyFilter(repo.db.GetQuery(ctx).Model(&dbschema.SearchResult{}), filter).Count(&count).Error
	return count, err
}

// UpdateResult writes the processing status and scraped content.
func (repo *SearchGormRepository) UpdateResult(ctx context.Context, r *domain.StoredResult) error {
	return repo.db.GetQuery(ctx).
		Model(&dbschema.SearchResult{}).
		Where("id = ?", r.ID).
		Updates(map[string]any{
			"status":  string(r.Status),
			"content": r.Content,
		}).Error
}

func NewSearchGormRepository(db *transaction.Database) domain.SearchRepository {
	return &SearchGormRepository{
		db: db,
	}
}
