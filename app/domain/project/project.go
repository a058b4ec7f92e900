package project

import (
	"context"
	"time"

	"leadgen.ai/leadgen-api/app/domain/query"
)

type Project struct {
	ID              uint
	PublicID        string
	Name            string
	GoalDescription string
	Status          ProjectStatus
	LeadsCollected  int
	DatasetsAdded   int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type ProjectFilter struct {
	PublicID  *string
	Name      *string
	Status    *string
	PublicIDs *[]string
}

type ProjectStatus string

const (
	ProjectStatusDraft      ProjectStatus = "draft"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusDraft, ProjectStatusInProgress, ProjectStatusCompleted:
		return true
	}
	return false
}

type ProjectRepository interface {
	Create(ctx context.Context, p *Project) error
	Update(ctx context.Context, p *Project) error
	DeleteByID(ctx context.Context, id uint) error

	FindByID(ctx context.Context, id uint) (*Project, error)
	FindByPublicID(ctx context.Context, publicID string) (*Project, error)
	FindByFilter(ctx context.Context, filter ProjectFilter, p *query.Pagination) ([]*Project, error)
	Count(ctx context.Context, filter ProjectFilter) (int64, error)

	// RefreshStats recomputes leads_collected and datasets_added from the
	// owned rows. A zero id refreshes every project.
	RefreshStats(ctx context.Context, id uint) error
}
