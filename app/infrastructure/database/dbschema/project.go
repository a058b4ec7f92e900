package dbschema

import (
	"leadgen.ai/leadgen-api/app/domain/project"
	"leadgen.ai/leadgen-api/app/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Project{})
}

type Project struct {
	BaseModel
	Name            string         `gorm:"size:128;not null;uniqueIndex"`
	PublicID        string         `gorm:"type:varchar(50);uniqueIndex;not null"`
	GoalDescription string         `gorm:"type:text"`
	Status          string         `gorm:"type:varchar(20);not null;default:'draft';index"`
	LeadsCollected  int            `gorm:"not null;default:0"`
	DatasetsAdded   int            `gorm:"not null;default:0"`
	Leads           []Lead         `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	SearchQueries   []SearchQuery  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	SearchResults   []SearchResult `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Datasets        []Dataset      `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

func NewSchemaProject(p *project.Project) *Project {
	return &Project{
		BaseModel: BaseModel{
			ID:        p.ID,
			CreatedAt: p.CreatedAt,
		},
		Name:            p.Name,
		PublicID:        p.PublicID,
		GoalDescription: p.GoalDescription,
		Status:          string(p.Status),
		LeadsCollected:  p.LeadsCollected,
		DatasetsAdded:   p.DatasetsAdded,
	}
}

func (p *Project) EtoD() *project.Project {
	return &project.Project{
		ID:              p.ID,
		PublicID:        p.PublicID,
		Name:            p.Name,
		GoalDescription: p.GoalDescription,
		Status:          project.ProjectStatus(p.Status),
		LeadsCollected:  p.LeadsCollected,
		DatasetsAdded:   p.DatasetsAdded,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
