package project

import (
	"context"
	"fmt"
	"strings"

	"leadgen.ai/leadgen-api/app/domain/common"
	"leadgen.ai/leadgen-api/app/domain/query"
	"leadgen.ai/leadgen-api/app/utils/idgen"
)

// ProjectService provides business logic for managing projects.
type ProjectService struct {
	repo ProjectRepository
}

func NewService(repo ProjectRepository) *ProjectService {
	return &ProjectService{
		repo: repo,
	}
}

func (s *ProjectService) createPublicID() (string, error) {
	return idgen.NewPublicID("proj")
}

func (s *ProjectService) ensureNameAvailable(ctx context.Context, name string, exceptID uint) error {
	existing, err := s.repo.FindByFilter(ctx, ProjectFilter{Name: &name}, nil)
	if err != nil {
		return err
	}
	for _, p := range existing {
		if p.ID != exceptID {
			return common.NewValidationError("3c7f9d0e-2b8a-4f61-a5d4-7e0c1b9a6f32", "project name %q already exists", name)
		}
	}
	return nil
}

// CreateProjectWithPublicID validates the project, assigns a public ID and saves it.
func (s *ProjectService) CreateProjectWithPublicID(ctx context.Context, p *Project) (*Project, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return nil, common.NewValidationError("a1d3e5f7-0b2c-4d6e-8f10-2a4c6e8a0b1d", "project name is required")
	}
	if p.Status == "" {
		p.Status = ProjectStatusDraft
	}
	if !p.Status.Valid() {
		return nil, common.NewValidationError("b7e2c4a6-1d3f-4a5b-9c8d-0e1f2a3b4c5d", "invalid project status %q", p.Status)
	}
	if err := s.ensureNameAvailable(ctx, p.Name, 0); err != nil {
		return nil, err
	}
	publicID, err := s.createPublicID()
	if err != nil {
		return nil, err
	}
	p.PublicID = publicID

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create project in repository: %w", err)
	}
	return p, nil
}

// ProjectUpdate carries optional field changes.
type ProjectUpdate struct {
	Name            *string
	GoalDescription *string
	Status          *string
}

func (s *ProjectService) UpdateProject(ctx context.Context, p *Project, update ProjectUpdate) (*Project, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("cannot update project with an ID of 0")
	}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, common.NewValidationError("a1d3e5f7-0b2c-4d6e-8f10-2a4c6e8a0b1d", "project name is required")
		}
		if name != p.Name {
			if err := s.ensureNameAvailable(ctx, name, p.ID); err != nil {
				return nil, err
			}
		}
		p.Name = name
	}
	if update.GoalDescription != nil {
		p.GoalDescription = *update.GoalDescription
	}
	if update.Status != nil {
		status := ProjectStatus(*update.Status)
		if !status.Valid() {
			return nil, common.NewValidationError("b7e2c4a6-1d3f-4a5b-9c8d-0e1f2a3b4c5d", "invalid project status %q", status)
		}
		p.Status = status
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return p, nil
}

// MarkInProgress moves a draft project forward once work has started on it.
func (s *ProjectService) MarkInProgress(ctx context.Context, p *Project) error {
	if p.Status != ProjectStatusDraft {
		return nil
	}
	p.Status = ProjectStatusInProgress
	return s.repo.Update(ctx, p)
}

func (s *ProjectService) DeleteProject(ctx context.Context, p *Project) error {
	if err := s.repo.DeleteByID(ctx, p.ID); err != nil {
		return fmt.Errorf("failed to delete project by ID: %w", err)
	}
	return nil
}

func (s *ProjectService) FindProjectByID(ctx context.Context, id uint) (*Project, error) {
	return s.repo.FindByID(ctx, id)
}

// GetProjectByPublicID returns a not_found error when the project does not exist.
func (s *ProjectService) GetProjectByPublicID(ctx context.Context, publicID string) (*Project, error) {
	p, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, common.NewNotFoundError("9a4e1c2d-6b8f-4e0a-b3c5-d7f9e1a3c5b7", "project %s not found", publicID)
	}
	return p, nil
}

func (s *ProjectService) Find(ctx context.Context, filter ProjectFilter, pagination *query.Pagination) ([]*Project, error) {
	return s.repo.FindByFilter(ctx, filter, pagination)
}

func (s *ProjectService) CountProjects(ctx context.Context, filter ProjectFilter) (int64, error) {
	return s.repo.Count(ctx, filter)
}

// RefreshStats recomputes the counters and reloads p in place.
func (s *ProjectService) RefreshStats(ctx context.Context, p *Project) error {
	if err := s.repo.RefreshStats(ctx, p.ID); err != nil {
		return fmt.Errorf("failed to refresh project stats: %w", err)
	}
	fresh, err := s.repo.FindByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if fresh != nil {
		*p = *fresh
	}
	return nil
}

func (s *ProjectService) RefreshAllStats(ctx context.Context) error {
	return s.repo.RefreshStats(ctx, 0)
}
