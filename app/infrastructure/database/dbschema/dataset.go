package dbschema

import (
	"time"

	"leadgen.ai/leadgen-api/app/domain/dataset"
	"leadgen.ai/leadgen-api/app/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Dataset{})
}

type Dataset struct {
	ID               uint      `gorm:"primarykey"`
	ProjectID        uint      `gorm:"not null;index"`
	Name             string    `gorm:"size:255;not null"`
	LeadColumn       string    `gorm:"size:128;not null"`
	EnrichmentColumn string    `gorm:"size:128"`
	RowCount         int       `gorm:"not null;default:0"`
	CreatedCount     int       `gorm:"not null;default:0"`
	UpdatedCount     int       `gorm:"not null;default:0"`
	SkippedCount     int       `gorm:"not null;default:0"`
	CreatedAt        time.Time `gorm:"not null"`
}

func NewSchemaDataset(d *dataset.Dataset) *Dataset {
	return &Dataset{
		ID:               d.ID,
		ProjectID:        d.ProjectID,
		Name:             d.Name,
		LeadColumn:       d.LeadColumn,
		EnrichmentColumn: d.EnrichmentColumn,
		RowCount:         d.RowCount,
		CreatedCount:     d.CreatedCount,
		UpdatedCount:     d.UpdatedCount,
		SkippedCount:     d.SkippedCount,
		CreatedAt:        d.CreatedAt,
	}
}

func (d *Dataset) EtoD() *dataset.Dataset {
	return &dataset.Dataset{
		ID:               d.ID,
		ProjectID:        d.ProjectID,
		Name:             d.Name,
		LeadColumn:       d.LeadColumn,
		EnrichmentColumn: d.EnrichmentColumn,
		RowCount:         d.RowCount,
		CreatedCount:     d.CreatedCount,
		UpdatedCount:     d.UpdatedCount,
		SkippedCount:     d.SkippedCount,
		CreatedAt:        d.CreatedAt,
	}
}
