package enrichment

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"leadgen.ai/leadgen-api/app/domain/common"
	"leadgen.ai/leadgen-api/app/domain/lead"
	"leadgen.ai/leadgen-api/app/utils/logger"
)

const DefaultConcurrency = 4

type EnrichmentService struct {
	enricher    *Enricher
	leads       *lead.LeadService
	concurrency int
}

func NewService(enricher *Enricher, leads *lead.LeadService, concurrency int) *EnrichmentService {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &EnrichmentService{enricher: enricher, leads: leads, concurrency: concurrency}
}

// EnrichCompany runs the enricher without touching the store.
func (s *EnrichmentService) EnrichCompany(ctx context.Context, company string, spec AttributeSpec) (*lead.EnrichmentResult, error) {
	return s.enricher.Enrich(ctx, company, spec)
}

// EnrichLead enriches one lead and records the result.
func (s *EnrichmentService) EnrichLead(ctx context.Context, l *lead.Lead, spec AttributeSpec) (*lead.EnrichmentResult, error) {
	result, err := s.enricher.Enrich(ctx, l.CompanyName, spec)
	if err != nil {
		return nil, err
	}
	// a finished result is kept even if the caller has gone away
	if err := s.leads.RecordEnrichment(context.WithoutCancel(ctx), l, result); err != nil {
		return nil, err
	}
	return result, nil
}

type BatchRequest struct {
	Spec AttributeSpec
	// LeadIDs restricts the batch to these public ids.
	LeadIDs     []string
	OnlyMissing bool
}

type ItemStatus string

const (
	ItemStatusSucceeded ItemStatus = "succeeded"
	ItemStatusUnknown   ItemStatus = "unknown"
	ItemStatusFailed    ItemStatus = "failed"
	ItemStatusSkipped   ItemStatus = "skipped"
)

type ItemOutcome struct {
	LeadID  string
	Company string
	Status  ItemStatus
	Value   string
	Error   string
	Kind    common.ErrorKind
}

type BatchSummary struct {
	Attribute string
	Total     int
	Succeeded int
	Unknown   int
	Failed    int
	Skipped   int
	Outcomes  []ItemOutcome
}

// EnrichProject enriches the selected leads of a project in parallel.
// One lead failing never stops the others. Once ctx is done the leads
// that have not started are skipped.
func (s *EnrichmentService) EnrichProject(ctx context.Context, projectID uint, req BatchRequest) (*BatchSummary, error) {
	if err := req.Spec.Validate(); err != nil {
		return nil, err
	}
	filter := lead.LeadFilter{ProjectID: &projectID}
	if len(req.LeadIDs) > 0 {
		ids := req.LeadIDs
		filter.PublicIDs = &ids
	}
	if req.OnlyMissing {
		filter.MissingAttribute = &req.Spec.Name
	}
	leads, err := s.leads.Find(ctx, filter, nil)
	if err != nil {
		return nil, err
	}

	summary := &BatchSummary{Attribute: req.Spec.Name, Total: len(leads), Outcomes: make([]ItemOutcome, len(leads))}
	g := errgroup.Group{}
	g.SetLimit(s.concurrency)
	for i, l := range leads {
		i, l := i, l
		g.Go(func() error {
			summary.Outcomes[i] = s.enrichItem(ctx, l, req.Spec)
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range summary.Outcomes {
		switch o.Status {
		case ItemStatusSucceeded:
			summary.Succeeded++
		case ItemStatusUnknown:
			summary.Unknown++
		case ItemStatusFailed:
			summary.Failed++
		case ItemStatusSkipped:
			summary.Skipped++
		}
	}
	logger.GetLogger().WithFields(logrus.Fields{
		"attribute": summary.Attribute,
		"total":     summary.Total,
		"succeeded": summary.Succeeded,
		"unknown":   summary.Unknown,
		"failed":    summary.Failed,
		"skipped":   summary.Skipped,
	}).Info("enrichment batch finished")
	return summary, nil
}

func (s *EnrichmentService) enrichItem(ctx context.Context, l *lead.Lead, spec AttributeSpec) ItemOutcome {
	outcome := ItemOutcome{LeadID: l.PublicID, Company: l.CompanyName}
	if ctx.Err() != nil {
		outcome.Status = ItemStatusSkipped
		return outcome
	}
	result, err := s.EnrichLead(ctx, l, spec)
	if err != nil {
		if ctx.Err() != nil {
			outcome.Status = ItemStatusSkipped
			return outcome
		}
		outcome.Status = ItemStatusFailed
		outcome.Error = err.Error()
		outcome.Kind = common.KindOf(err)
		return outcome
	}
	outcome.Value = result.Value
	if result.Status == lead.EnrichmentStatusUnknown {
		outcome.Status = ItemStatusUnknown
	} else {
		outcome.Status = ItemStatusSucceeded
	}
	return outcome
}
