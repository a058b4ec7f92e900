// Package projecttest provides an in-memory project repository for tests.
package projecttest

import (
	"context"
	"sort"
	"sync"
	"time"

	"leadgen.ai/leadgen-api/app/domain/project"
	"leadgen.ai/leadgen-api/app/domain/query"
)

type ProjectRepository struct {
	mu       sync.Mutex
	nextID   uint
	projects map[uint]*project.Project
	// Stats, when set, supplies the counters written by RefreshStats.
	Stats     func(id uint) (leads int, datasets int)
	Refreshed []uint
}

var _ project.ProjectRepository = (*ProjectRepository)(nil)

func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{nextID: 1, projects: map[uint]*project.Project{}}
}

func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextID
	r.nextID++
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	c := *p
	r.projects[p.ID] = &c
	return nil
}

func (r *ProjectRepository) Update(ctx context.Context, p *project.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.UpdatedAt = time.Now()
	c := *p
	r.projects[p.ID] = &c
	return nil
}

func (r *ProjectRepository) DeleteByID(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.projects, id)
	return nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id uint) (*project.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r *ProjectRepository) FindByPublicID(ctx context.Context, publicID string) (*project.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.projects {
		if p.PublicID == publicID {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (r *ProjectRepository) FindByFilter(ctx context.Context, filter project.ProjectFilter, p *query.Pagination) ([]*project.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*project.Project{}
	for _, proj := range r.projects {
		if filter.Name != nil && proj.Name != *filter.Name {
			continue
		}
		if filter.PublicID != nil && proj.PublicID != *filter.PublicID {
			continue
		}
		if filter.Status != nil && string(proj.Status) != *filter.Status {
			continue
		}
		c := *proj
		out = append(out, &c)
	}
	desc := p != nil && p.Order == "desc"
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[i].ID > out[j].ID
		}
		return out[i].ID < out[j].ID
	})
	if p == nil {
		return out, nil
	}
	if p.After != nil {
		kept := out[:0]
		for _, proj := range out {
			if (!desc && proj.ID > *p.After) || (desc && proj.ID < *p.After) {
				kept = append(kept, proj)
			}
		}
		out = kept
	}
	if p.Offset != nil {
		if *p.Offset >= len(out) {
			return []*project.Project{}, nil
		}
		out = out[*p.Offset:]
	}
	if p.Limit != nil && *p.Limit < len(out) {
		out = out[:*p.Limit]
	}
	return out, nil
}

func (r *ProjectRepository) Count(ctx context.Context, filter project.ProjectFilter) (int64, error) {
	out, err := r.FindByFilter(ctx, filter, nil)
	return int64(len(out)), err
}

func (r *ProjectRepository) RefreshStats(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Refreshed = append(r.Refreshed, id)
	if r.Stats == nil {
		return nil
	}
	for pid, p := range r.projects {
		if id != 0 && pid != id {
			continue
		}
		p.LeadsCollected, p.DatasetsAdded = r.Stats(pid)
	}
	return nil
}
