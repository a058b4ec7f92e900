package projectrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	domain "leadgen.ai/leadgen-api/app/domain/project"
	"leadgen.ai/leadgen-api/app/domain/query"
	"leadgen.ai/leadgen-api/app/infrastructure/database/dbschema"
	"leadgen.ai/leadgen-api/app/infrastructure/database/repository/transaction"
	"leadgen.ai/leadgen-api/app/utils/functional"
)

type ProjectGormRepository struct {
	db *transaction.Database
}

var _ domain.ProjectRepository = (*ProjectGormRepository)(nil)

const refreshStatsSQL = `UPDATE project SET
	leads_collected = (SELECT COUNT(*) FROM lead WHERE lead.project_id = project.id),
	datasets_added = (SELECT COUNT(*) FROM dataset WHERE dataset.project_id = project.id),
	updated_at = NOW()`

// applyFilter applies conditions dynamically to the query.
func (repo *ProjectGormRepository) applyFilter(sql *gorm.DB, filter domain.ProjectFilter) *gorm.DB {
	if filter.PublicID != nil {
		sql = sql.Where("public_id = ?", *filter.PublicID)
	}
	if filter.Name != nil {
		sql = sql.Where("name = ?", *filter.Name)
	}
	if filter.Status != nil {
		sql = sql.Where("status = ?", *filter.Status)
	}
	if filter.PublicIDs != nil {
		sql = sql.Where("public_id IN ?", *filter.PublicIDs)
	}
	return sql
}

// Create persists a new project to the database.
func (repo *ProjectGormRepository) Create(ctx context.Context, p *domain.Project) error {
	model := dbschema.NewSchemaProject(p)
	if err := repo.db.GetQuery(ctx).Create(model).Error; err != nil {
		return err
	}
	p.ID = model.ID
	p.CreatedAt = model.CreatedAt
	p.UpdatedAt = model.UpdatedAt
	return nil
}

// Update modifies an existing project.
func (repo *ProjectGormRepository) Update(ctx context.Context, p *domain.Project) error {
	model := dbschema.NewSchemaProject(p)
	if err := repo.db.GetQuery(ctx).Save(model).Error; err != nil {
		return err
	}
	p.UpdatedAt = model.UpdatedAt
	return nil
}

// DeleteByID removes a project. Owned leads, results and datasets cascade.
func (repo *ProjectGormRepository) DeleteByID(ctx context.Context, id uint) error {
	return repo.db.GetQuery(ctx).Delete(&dbschema.Project{}, id).Error
}

// FindByID retrieves a project by its primary key.
func (repo *ProjectGormRepository) FindByID(ctx context.Context, id uint) (*domain.Project, error) {
	var model dbschema.Project
	err := repo.db.GetQuery(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.EtoD(), nil
}

// FindByPublicID retrieves a project by its public ID.
func (repo *ProjectGormRepository) FindByPublicID(ctx context.Context, publicID string) (*domain.Project, error) {
	var model dbschema.Project
	err := repo.db.GetQuery(ctx).Where("public_id = ?", publicID).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.EtoD(), nil
}

// FindByFilter retrieves a list of projects matching filter + pagination.
func (repo *ProjectGormRepository) FindByFilter(ctx context.Context, filter domain.ProjectFilter, p *query.Pagination) ([]*domain.Project, error) {
	sql := repo.applyFilter(repo.db.GetQuery(ctx).Model(&dbschema.Project{}), filter)
	sql = transaction.Paginate(sql, "id", p)
	var rows []*dbschema.Project
	if err := sql.Find(&rows).Error; err != nil {
		return nil, err
	}
	return functional.Map(rows, func(item *dbschema.Project) *domain.Project {
		return item.EtoD()
	}), nil
}

// Count returns number of projects that match filter.
func (repo *ProjectGormRepository) Count(ctx context.Context, filter domain.ProjectFilter) (int64, error) {
	var count int64
	err := repo.applyFilter(repo.db.GetQuery(ctx).Model(&dbschema.Project{}), filter).Count(&count).Error
	return count, err
}

func (repo *ProjectGormRepository) RefreshStats(ctx context.Context, id uint) error {
	if id == 0 {
		return repo.db.GetQuery(ctx).Exec(refreshStatsSQL).Error
	}
	return repo.db.GetQuery(ctx).Exec(refreshStatsSQL+" WHERE project.id = ?", id).Error
}

// NewProjectGormRepository creates a new Project repo instance.
func NewProjectGormRepository(db *transaction.Database) domain.ProjectRepository {
	return &ProjectGormRepository{
		db: db,
	}
}
