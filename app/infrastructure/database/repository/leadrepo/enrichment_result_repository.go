package leadrepo

import (
	"context"

	domain "leadgen.ai/leadgen-api/app/domain/lead"
	"leadgen.ai/leadgen-api/app/infrastructure/database/dbschema"
	"leadgen.ai/leadgen-api/app/infrastructure/database/repository/transaction"
	"leadgen.ai/leadgen-api/app/utils/functional"
)

type EnrichmentResultGormRepository struct {
	db *transaction.Database
}

var _ domain.EnrichmentResultRepository = (*EnrichmentResultGormRepository)(nil)

func (repo *EnrichmentResultGormRepository) Create(ctx context.Context, r *domain.EnrichmentResult) error {
	model := dbschema.NewSchemaEnrichmentResult(r)
	if err := repo.db.GetQuery(ctx).Create(model).Error; err != nil {
		return err
	}
	r.ID = model.ID
	r.CreatedAt = model.CreatedAt
	return nil
}

// FindByLeadID returns the full history in the order it was recorded.
func (repo *EnrichmentResultGormRepository) FindByLeadID(ctx context.Context, leadID uint) ([]*domain.EnrichmentResult, error) {
	var rows []*dbschema.EnrichmentResult
	err := repo.db.GetQuery(ctx).
		Where("lead_id = ?", leadID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return functional.Map(rows, func(item *dbschema.EnrichmentResult) *domain.EnrichmentResult {
		return item.EtoD()
	}), nil
}

func NewEnrichmentResultGormRepository(db *transaction.Database) domain.EnrichmentResultRepository {
	return &EnrichmentResultGormRepository{
		db: db,
	}
}
