package dbschema

import (
	"time"

	"github.com/shopspring/decimal"
	"leadgen.ai/leadgen-api/app/domain/lead"
	"leadgen.ai/leadgen-api/app/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(EnrichmentResult{})
}

type EnrichmentResult struct {
	ID         uint            `gorm:"primarykey"`
	LeadID     uint            `gorm:"not null;index:idx_enrichment_lead_attribute"`
	Attribute  string          `gorm:"size:128;not null;index:idx_enrichment_lead_attribute"`
	Value      string          `gorm:"type:text"`
	Status     string          `gorm:"type:varchar(20);not null"`
	Confidence decimal.Decimal `gorm:"type:numeric(3,2);not null;default:0"`
	Citation   string          `gorm:"type:text"`
	SourceURL  string          `gorm:"type:text"`
	Reasoning  string          `gorm:"type:text"`
	CreatedAt  time.Time       `gorm:"not null;index"`
}

func NewSchemaEnrichmentResult(r *lead.EnrichmentResult) *EnrichmentResult {
	return &EnrichmentResult{
		ID:         r.ID,
		LeadID:     r.LeadID,
		Attribute:  r.Attribute,
		Value:      r.Value,
		Status:     string(r.Status),
		Confidence: r.Confidence,
		Citation:   r.Citation,
		SourceURL:  r.SourceURL,
		Reasoning:  r.Reasoning,
		CreatedAt:  r.CreatedAt,
	}
}

func (r *EnrichmentResult) EtoD() *lead.EnrichmentResult {
	return &lead.EnrichmentResult{
		ID:         r.ID,
		LeadID:     r.LeadID,
		Attribute:  r.Attribute,
		Value:      r.Value,
		Status:     lead.EnrichmentStatus(r.Status),
		Confidence: r.Confidence,
		Citation:   r.Citation,
		SourceURL:  r.SourceURL,
		Reasoning:  r.Reasoning,
		CreatedAt:  r.CreatedAt,
	}
}
