package lead

import (
	"context"
	"fmt"

	"leadgen.ai/leadgen-api/app/domain/common"
	"leadgen.ai/leadgen-api/app/domain/query"
	"leadgen.ai/leadgen-api/app/utils/idgen"
)

type LeadService struct {
	repo        LeadRepository
	enrichments EnrichmentResultRepository
}

func NewService(repo LeadRepository, enrichments EnrichmentResultRepository) *LeadService {
	return &LeadService{
		repo:        repo,
		enrichments: enrichments,
	}
}

// NewLead is a candidate for insertion into a project.
type NewLead struct {
	CompanyName string
	Source      Source
	Attributes  map[string]string
	Context     []Citation
}

// AddResult reports what AddLeads did with each candidate.
type AddResult struct {
	Created  []*Lead
	Existing []*Lead
	Skipped  int
}

// AddLeads inserts candidates into a project. A candidate whose normalized
// name already exists contributes only its citations to the stored lead.
func (s *LeadService) AddLeads(ctx context.Context, projectID uint, candidates []NewLead) (*AddResult, error) {
	result := &AddResult{}
	for _, c := range candidates {
		display := CleanDisplayName(c.CompanyName)
		normalized := NormalizeName(display)
		if normalized == "" {
			result.Skipped++
			continue
		}
		publicID, err := idgen.NewPublicID("lead")
		if err != nil {
			return nil, err
		}
		attrs := c.Attributes
		if attrs == nil {
			attrs = map[string]string{}
		}
		entity := &Lead{
			PublicID:       publicID,
			ProjectID:      projectID,
			CompanyName:    display,
			NormalizedName: normalized,
			Attributes:     attrs,
			Source:         c.Source,
			Context:        c.Context,
		}
		created, err := s.repo.CreateIfAbsent(ctx, entity)
		if err != nil {
			return nil, fmt.Errorf("failed to create lead %q: %w", display, err)
		}
		if created {
			result.Created = append(result.Created, entity)
			continue
		}
		existing, err := s.findByName(ctx, projectID, normalized)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			result.Skipped++
			continue
		}
		if len(c.Context) > 0 {
			fresh, err := s.repo.AppendCitations(ctx, existing.ID, c.Context)
			if err != nil {
				return nil, fmt.Errorf("failed to update lead context: %w", err)
			}
			if fresh != nil {
				existing = fresh
			}
		}
		result.Existing = append(result.Existing, existing)
	}
	return result, nil
}

func (s *LeadService) findByName(ctx context.Context, projectID uint, normalized string) (*Lead, error) {
	names := []string{normalized}
	leads, err := s.repo.FindByFilter(ctx, LeadFilter{ProjectID: &projectID, NormalizedNames: &names}, nil)
	if err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		return nil, nil
	}
	return leads[0], nil
}

func (s *LeadService) CreateLead(ctx context.Context, l *Lead) error {
	return s.repo.Create(ctx, l)
}

func (s *LeadService) UpdateLead(ctx context.Context, l *Lead) error {
	if l.ID == 0 {
		return fmt.Errorf("cannot update lead with an ID of 0")
	}
	return s.repo.Update(ctx, l)
}

func (s *LeadService) DeleteLead(ctx context.Context, l *Lead) error {
	return s.repo.DeleteByID(ctx, l.ID)
}

// GetProjectLead returns the lead only if it belongs to the project.
func (s *LeadService) GetProjectLead(ctx context.Context, projectID uint, publicID string) (*Lead, error) {
	entity, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if entity == nil || entity.ProjectID != projectID {
		return nil, common.NewNotFoundError("0f2b8e61-5a0d-4d8e-8c3c-9b6d1d4f7a21", "lead %s not found", publicID)
	}
	return entity, nil
}

func (s *LeadService) Find(ctx context.Context, filter LeadFilter, p *query.Pagination) ([]*Lead, error) {
	return s.repo.FindByFilter(ctx, filter, p)
}

func (s *LeadService) Count(ctx context.Context, filter LeadFilter) (int64, error) {
	return s.repo.Count(ctx, filter)
}

// FindAllByProject loads every lead of a project in insertion order.
func (s *LeadService) FindAllByProject(ctx context.Context, projectID uint) ([]*Lead, error) {
	return s.repo.FindByFilter(ctx, LeadFilter{ProjectID: &projectID}, &query.Pagination{Order: "asc"})
}

func (s *LeadService) FindByID(ctx context.Context, id uint) (*Lead, error) {
	return s.repo.FindByID(ctx, id)
}

// RecordEnrichment stores the result in the history and applies it to the
// lead. The latest known value wins. An unknown result only fills an absent
// attribute so earlier findings are not erased. Only the enriched key is
// written, l is refreshed from the stored row.
func (s *LeadService) RecordEnrichment(ctx context.Context, l *Lead, r *EnrichmentResult) error {
	r.LeadID = l.ID
	if err := s.enrichments.Create(ctx, r); err != nil {
		return fmt.Errorf("failed to store enrichment result: %w", err)
	}
	value, overwrite := r.Value, r.Status == EnrichmentStatusSucceeded
	if !overwrite {
		value = UnknownValue
	}
	return s.setAttributes(ctx, l, map[string]string{r.Attribute: value}, overwrite)
}

// FillAttributes writes the attributes the stored lead has no value for and
// refreshes l.
func (s *LeadService) FillAttributes(ctx context.Context, l *Lead, attrs map[string]string) error {
	return s.setAttributes(ctx, l, attrs, false)
}

func (s *LeadService) setAttributes(ctx context.Context, l *Lead, attrs map[string]string, overwrite bool) error {
	fresh, err := s.repo.SetAttributes(ctx, l.ID, attrs, overwrite)
	if err != nil {
		return fmt.Errorf("failed to update lead attributes: %w", err)
	}
	if fresh == nil {
		return common.NewNotFoundError("5c1e7a93-2f4b-4d06-9e8a-3b7d0c6f1a52", "lead %s not found", l.PublicID)
	}
	*l = *fresh
	return nil
}

func (s *LeadService) FindEnrichments(ctx context.Context, l *Lead) ([]*EnrichmentResult, error) {
	return s.enrichments.FindByLeadID(ctx, l.ID)
}
