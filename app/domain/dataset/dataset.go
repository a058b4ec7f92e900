package dataset

import (
	"context"
	"time"

	"leadgen.ai/leadgen-api/app/domain/query"
)

// Dataset records one CSV import into a project.
type Dataset struct {
	ID               uint
	ProjectID        uint
	Name             string
	LeadColumn       string
	EnrichmentColumn string
	RowCount         int
	CreatedCount     int
	UpdatedCount     int
	SkippedCount     int
	CreatedAt        time.Time
}

type DatasetRepository interface {
	Create(ctx context.Context, d *Dataset) error
	FindByProjectID(ctx context.Context, projectID uint, p *query.Pagination) ([]*Dataset, error)
	CountByProjectID(ctx context.Context, projectID uint) (int64, error)
}
