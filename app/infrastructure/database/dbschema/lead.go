package dbschema

import (
	"fmt"

	"gorm.io/datatypes"
	"leadgen.ai/leadgen-api/app/domain/lead"
	"leadgen.ai/leadgen-api/app/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Lead{})
}

type Lead struct {
	BaseModel
	PublicID          string                              `gorm:"type:varchar(50);uniqueIndex;not null"`
	ProjectID         uint                                `gorm:"not null;uniqueIndex:idx_lead_project_name"`
	CompanyName       string                              `gorm:"size:255;not null"`
	NormalizedName    string                              `gorm:"size:255;not null;uniqueIndex:idx_lead_project_name"`
	Source            string                              `gorm:"type:varchar(20);not null;index"`
	Attributes        datatypes.JSONMap                   `gorm:"type:jsonb"`
	Context           datatypes.JSONType[[]lead.Citation] `gorm:"type:jsonb"`
	EnrichmentResults []EnrichmentResult                  `gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE"`
}

func NewSchemaLead(l *lead.Lead) *Lead {
	attributes := datatypes.JSONMap{}
	for k, v := range l.Attributes {
		attributes[k] = v
	}
	return &Lead{
		BaseModel: BaseModel{
			ID:        l.ID,
			CreatedAt: l.CreatedAt,
		},
		PublicID:       l.PublicID,
		ProjectID:      l.ProjectID,
		CompanyName:    l.CompanyName,
		NormalizedName: l.NormalizedName,
		Source:         string(l.Source),
		Attributes:     attributes,
		Context:        datatypes.NewJSONType(l.Context),
	}
}

func (l *Lead) EtoD() *lead.Lead {
	attributes := make(map[string]string, len(l.Attributes))
	for k, v := range l.Attributes {
		switch value := v.(type) {
		case nil:
		case string:
			attributes[k] = value
		default:
			attributes[k] = fmt.Sprint(value)
		}
	}
	return &lead.Lead{
		ID:             l.ID,
		PublicID:       l.PublicID,
		ProjectID:      l.ProjectID,
		CompanyName:    l.CompanyName,
		NormalizedName: l.NormalizedName,
		Attributes:     attributes,
		Source:         lead.Source(l.Source),
		Context:        l.Context.Data(),
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}
