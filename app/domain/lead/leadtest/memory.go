// Package leadtest provides in-memory lead repositories for tests.
package leadtest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"leadgen.ai/leadgen-api/app/domain/lead"
	"leadgen.ai/leadgen-api/app/domain/query"
)

type LeadRepository struct {
	mu     sync.Mutex
	nextID uint
	leads  map[uint]*lead.Lead
}

var _ lead.LeadRepository = (*LeadRepository)(nil)

func NewLeadRepository() *LeadRepository {
	return &LeadRepository{nextID: 1, leads: map[uint]*lead.Lead{}}
}

func cloneLead(l *lead.Lead) *lead.Lead {
	if l == nil {
		return nil
	}
	c := *l
	c.Attributes = make(map[string]string, len(l.Attributes))
	for k, v := range l.Attributes {
		c.Attributes[k] = v
	}
	c.Context = append([]lead.Citation(nil), l.Context...)
	return &c
}

func (r *LeadRepository) Create(ctx context.Context, l *lead.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insert(l)
	return nil
}

func (r *LeadRepository) insert(l *lead.Lead) {
	l.ID = r.nextID
	r.nextID++
	now := time.Now()
	l.CreatedAt = now
	l.UpdatedAt = now
	r.leads[l.ID] = cloneLead(l)
}

func (r *LeadRepository) CreateIfAbsent(ctx context.Context, l *lead.Lead) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.leads {
		if existing.ProjectID == l.ProjectID && existing.NormalizedName == l.NormalizedName {
			return false, nil
		}
	}
	r.insert(l)
	return true, nil
}

func (r *LeadRepository) Update(ctx context.Context, l *lead.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l.UpdatedAt = time.Now()
	r.leads[l.ID] = cloneLead(l)
	return nil
}

func (r *LeadRepository) modify(id uint, fn func(l *lead.Lead) bool) *lead.Lead {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.leads[id]
	if !ok {
		return nil
	}
	if fn(stored) {
		stored.UpdatedAt = time.Now()
	}
	return cloneLead(stored)
}

func (r *LeadRepository) SetAttributes(ctx context.Context, id uint, attrs map[string]string, overwrite bool) (*lead.Lead, error) {
	return r.modify(id, func(l *lead.Lead) bool {
		return l.ApplyAttributes(attrs, overwrite)
	}), nil
}

func (r *LeadRepository) AppendCitations(ctx context.Context, id uint, citations []lead.Citation) (*lead.Lead, error) {
	return r.modify(id, func(l *lead.Lead) bool {
		return l.AddCitations(citations...)
	}), nil
}

func (r *LeadRepository) DeleteByID(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.leads, id)
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id uint) (*lead.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneLead(r.leads[id]), nil
}

func (r *LeadRepository) FindByPublicID(ctx context.Context, publicID string) (*lead.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.leads {
		if l.PublicID == publicID {
			return cloneLead(l), nil
		}
	}
	return nil, nil
}

func matches(l *lead.Lead, f lead.LeadFilter) bool {
	if f.ProjectID != nil && l.ProjectID != *f.ProjectID {
		return false
	}
	if f.PublicID != nil && l.PublicID != *f.PublicID {
		return false
	}
	if f.PublicIDs != nil && !contains(*f.PublicIDs, l.PublicID) {
		return false
	}
	if f.NormalizedNames != nil && !contains(*f.NormalizedNames, l.NormalizedName) {
		return false
	}
	if f.Source != nil && string(l.Source) != *f.Source {
		return false
	}
	if f.MissingAttribute != nil && l.HasAttribute(*f.MissingAttribute) {
		return false
	}
	if f.Search != nil && !strings.Contains(l.NormalizedName, strings.ToLower(*f.Search)) {
		return false
	}
	return true
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func (r *LeadRepository) FindByFilter(ctx context.Context, filter lead.LeadFilter, p *query.Pagination) ([]*lead.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*lead.Lead
	for _, l := range r.leads {
		if matches(l, filter) {
			out = append(out, cloneLead(l))
		}
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
		for _, l := range out {
			if (!desc && l.ID > *p.After) || (desc && l.ID < *p.After) {
				kept = append(kept, l)
			}
		}
		out = kept
	}
	if p.Offset != nil {
		if *p.Offset >= len(out) {
			return []*lead.Lead{}, nil
		}
		out = out[*p.Offset:]
	}
	if p.Limit != nil && *p.Limit < len(out) {
		out = out[:*p.Limit]
	}
	return out, nil
}

func (r *LeadRepository) Count(ctx context.Context, filter lead.LeadFilter) (int64, error) {
	leads, err := r.FindByFilter(ctx, filter, nil)
	return int64(len(leads)), err
}

type EnrichmentResultRepository struct {
	mu      sync.Mutex
	nextID  uint
	results []*lead.EnrichmentResult
}

var _ lead.EnrichmentResultRepository = (*EnrichmentResultRepository)(nil)

func NewEnrichmentResultRepository() *EnrichmentResultRepository {
	return &EnrichmentResultRepository{nextID: 1}
}

func (r *EnrichmentResultRepository) Create(ctx context.Context, res *lead.EnrichmentResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res.ID = r.nextID
	r.nextID++
	res.CreatedAt = time.Now()
	c := *res
	r.results = append(r.results, &c)
	return nil
}

func (r *EnrichmentResultRepository) FindByLeadID(ctx context.Context, leadID uint) ([]*lead.EnrichmentResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*lead.EnrichmentResult
	for _, res := range r.results {
		if res.LeadID == leadID {
			c := *res
			out = append(out, &c)
		}
	}
	return out, nil
}

// NewService returns a lead service backed by fresh in-memory repositories.
func NewService() (*lead.LeadService, *LeadRepository, *EnrichmentResultRepository) {
	leads := NewLeadRepository()
	results := NewEnrichmentResultRepository()
	return lead.NewService(leads, results), leads, results
}
