package datasetrepo

import (
	"context"

	domain "leadgen.ai/leadgen-api/app/domain/dataset"
	"leadgen.ai/leadgen-api/app/domain/query"
	"leadgen.ai/leadgen-api/app/infrastructure/database/dbschema"
	"leadgen.ai/leadgen-api/app/infrastructure/database/repository/transaction"
	"leadgen.ai/leadgen-api/app/utils/functional"
)

type DatasetGormRepository struct {
	db *transaction.Database
}

var _ domain.DatasetRepository = (*DatasetGormRepository)(nil)

func (repo *DatasetGormRepository) Create(ctx context.Context, d *domain.Dataset) error {
	model := dbschema.NewSchemaDataset(d)
	if err := repo.db.GetQuery(ctx).Create(model).Error; err != nil {
		return err
	}
	d.ID = model.ID
	d.CreatedAt = model.CreatedAt
	return nil
}

func (repo *DatasetGormRepository) FindByProjectID(ctx context.Context, projectID uint, p *query.Pagination) ([]*domain.Dataset, error) {
	sql := repo.db.GetQuery(ctx).Model(&dbschema.Dataset{}).Where("project_id = ?", projectID)
	sql = transaction.Paginate(sql, "id", p)
	var rows []*dbschema.Dataset
	if err := sql.Find(&rows).Error; err != nil {
		return nil, err
	}
	return functional.Map(rows, func(item *dbschema.Dataset) *domain.Dataset {
		return item.EtoD()
	}), nil
}

func (repo *DatasetGormRepository) CountByProjectID(ctx context.Context, projectID uint) (int64, error) {
	var count int64
	err := repo.db.GetQuery(ctx).Model(&dbschema.Dataset{}).Where("project_id = ?", projectID).Count(&count).Error
	return count, err
}

func NewDatasetGormRepository(db *transaction.Database) domain.DatasetRepository {
	return &DatasetGormRepository{
		db: db,
	}
}
