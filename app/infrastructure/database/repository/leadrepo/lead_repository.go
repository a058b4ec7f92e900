package leadrepo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	domain "leadgen.ai/leadgen-api/app/domain/lead"
	"leadgen.ai/leadgen-api/app/domain/query"
	"leadgen.ai/leadgen-api/app/infrastructure/database/dbschema"
	"leadgen.ai/leadgen-api/app/infrastructure/database/repository/transaction"
	"leadgen.ai/leadgen-api/app/utils/functional"
)

type LeadGormRepository struct {
	db *transaction.Database
}

var _ domain.LeadRepository = (*LeadGormRepository)(nil)

// applyFilter applies conditions dynamically to the query.
func (repo *LeadGormRepository) applyFilter(sql *gorm.DB, filter domain.LeadFilter) *gorm.DB {
	if filter.ProjectID != nil {
		sql = sql.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.PublicID != nil {
		sql = sql.Where("public_id = ?", *filter.PublicID)
	}
	if filter.PublicIDs != nil {
		sql = sql.Where("public_id IN ?", *filter.PublicIDs)
	}
	if filter.NormalizedNames != nil {
		sql = sql.Where("normalized_name IN ?", *filter.NormalizedNames)
	}
	if filter.Source != nil {
		sql = sql.Where("source = ?", *filter.Source)
	}
	if filter.MissingAttribute != nil {
		sql = sql.Where("btrim(coalesce(attributes ->> ?, '')) IN ('', ?)", *filter.MissingAttribute, domain.UnknownValue)
	}
	if filter.Search != nil {
		sql = sql.Where("normalized_name LIKE ?", "%"+strings.ToLower(*filter.Search)+"%")
	}
	return sql
}

func (repo *LeadGormRepository) Create(ctx context.Context, l *domain.Lead) error {
	model := dbschema.NewSchemaLead(l)
	if err := repo.db.GetQuery(ctx).Create(model).Error; err != nil {
		return err
	}
	l.ID = model.ID
	l.CreatedAt = model.CreatedAt
	l.UpdatedAt = model.UpdatedAt
	return nil
}

// CreateIfAbsent relies on the (project_id, normalized_name) unique index so
// concurrent inserts of the same company cannot both succeed.
func (repo *LeadGormRepository) CreateIfAbsent(ctx context.Context, l *domain.Lead) (bool, error) {
	model := dbschema.NewSchemaLead(l)
	result := repo.db.GetQuery(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}, {Name: "normalized_name"}},
		DoNothing: true,
	}).Create(model)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	l.ID = model.ID
	l.CreatedAt = model.CreatedAt
	l.UpdatedAt = model.UpdatedAt
	return true, nil
}

func (repo *LeadGormRepository) Update(ctx context.Context, l *domain.Lead) error {
	model := dbschema.NewSchemaLead(l)
	if err := repo.db.GetQuery(ctx).Save(model).Error; err != nil {
		return err
	}
	l.UpdatedAt = model.UpdatedAt
	return nil
}

// modify re-reads the row with FOR UPDATE, lets fn change it and writes back
// only the named column, so concurrent writers to other keys are not lost.
func (repo *LeadGormRepository) modify(ctx context.Context, id uint, column string, fn func(l *domain.Lead) bool) (*domain.Lead, error) {
	var out *domain.Lead
	err := repo.db.GetQuery(ctx).Transaction(func(tx *gorm.DB) error {
		var model dbschema.Lead
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&model).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		entity := model.EtoD()
		if fn(entity) {
			updated := dbschema.NewSchemaLead(entity)
			var value any
			switch column {
			case "attributes":
				value = updated.Attributes
			case "context":
				value = updated.Context
			}
			result := tx.Model(&dbschema.Lead{}).Where("id = ?", id).Updates(map[string]any{
				column:       value,
				"updated_at": gorm.Expr("now()"),
			})
			if result.Error != nil {
				return result.Error
			}
			if err := tx.Where("id = ?", id).First(&model).Error; err != nil {
				return err
			}
			entity = model.EtoD()
		}
		out = entity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (repo *LeadGormRepository) SetAttributes(ctx context.Context, id uint, attrs map[string]string, overwrite bool) (*domain.Lead, error) {
	return repo.modify(ctx, id, "attributes", func(l *domain.Lead) bool {
		return l.ApplyAttributes(attrs, overwrite)
	})
}

func (repo *LeadGormRepository) AppendCitations(ctx context.Context, id uint, citations []domain.Citation) (*domain.Lead, error) {
	return repo.modify(ctx, id, "context", func(l *domain.Lead) bool {
		return l.AddCitations(citations...)
	})
}

func (repo *LeadGormRepository) DeleteByID(ctx context.Context, id uint) error {
	return repo.db.GetQuery(ctx).Delete(&dbschema.Lead{}, id).Error
}

func (repo *LeadGormRepository) findOne(ctx context.Context, column string, value any) (*domain.Lead, error) {
	var model dbschema.Lead
	err := repo.db.GetQuery(ctx).Where(column+" = ?", value).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.EtoD(), nil
}

func (repo *LeadGormRepository) FindByID(ctx context.Context, id uint) (*domain.Lead, error) {
	return repo.findOne(ctx, "id", id)
}

func (repo *LeadGormRepository) FindByPublicID(ctx context.Context, publicID string) (*domain.Lead, error) {
	return repo.findOne(ctx, "public_id", publicID)
}

func (repo *LeadGormRepository) FindByFilter(ctx context.Context, filter domain.LeadFilter, p *query.Pagination) ([]*domain.Lead, error) {
	sql := repo.applyFilter(repo.db.GetQuery(ctx).Model(&dbschema.Lead{}), filter)
	sql = transaction.Paginate(sql, "id", p)
	var rows []*dbschema.Lead
	if err := sql.Find(&rows).Error; err != nil {
		return nil, err
	}
	return functional.Map(rows, func(item *dbschema.Lead) *domain.Lead {
		return item.EtoD()
	}), nil
}

func (repo *LeadGormRepository) Count(ctx context.Context, filter domain.LeadFilter) (int64, error) {
	var count int64
	err := repo.applyFilter(repo.db.GetQuery(ctx).Model(&dbschema.Lead{}), filter).Count(&count).Error
	return count, err
}

func NewLeadGormRepository(db *transaction.Database) domain.LeadRepository {
	return &LeadGormRepository{
		db: db,
	}
}
