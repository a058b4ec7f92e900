package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"leadgen.ai/leadgen-api/app/domain/common"
	"leadgen.ai/leadgen-api/app/domain/lead"
	"leadgen.ai/leadgen-api/app/domain/project"
	"leadgen.ai/leadgen-api/app/domain/query"
	"leadgen.ai/leadgen-api/app/utils/logger"
)

type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatZIP ExportFormat = "zip"
)

type DatasetService struct {
	repo     DatasetRepository
	leads    *lead.LeadService
	projects *project.ProjectService
}

func NewService(repo DatasetRepository, leads *lead.LeadService, projects *project.ProjectService) *DatasetService {
	return &DatasetService{repo: repo, leads: leads, projects: projects}
}

type ImportRequest struct {
	Name    string
	CSV     io.Reader
	Options MergeOptions
}

type ImportResult struct {
	Dataset *Dataset
	Summary MergeSummary
}

// Import merges a CSV into the project's leads and records the dataset.
func (s *DatasetService) Import(ctx context.Context, p *project.Project, req ImportRequest) (*ImportResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, common.NewValidationError("a2c4e6a8-0c2e-4a4c-b6e8-0c2e4a6c8e0a", "dataset name is required")
	}
	header, rows, err := ParseCSV(req.CSV)
	if err != nil {
		return nil, err
	}
	if err := req.Options.Validate(header); err != nil {
		return nil, err
	}
	existing, err := s.leads.FindAllByProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	merged := Merge(existing, rows, req.Options)
	for _, l := range merged.Updated {
		if err := s.leads.FillAttributes(ctx, l, l.Attributes); err != nil {
			return nil, err
		}
	}
	candidates := make([]lead.NewLead, 0, len(merged.Created))
	for _, l := range merged.Created {
		candidates = append(candidates, lead.NewLead{
			CompanyName: l.CompanyName,
			Source:      lead.SourceImported,
			Attributes:  l.Attributes,
		})
	}
	if _, err := s.leads.AddLeads(ctx, p.ID, candidates); err != nil {
		return nil, err
	}

	record := &Dataset{
		ProjectID:        p.ID,
		Name:             name,
		LeadColumn:       req.Options.LeadColumn,
		EnrichmentColumn: req.Options.EnrichmentColumn,
		RowCount:         merged.Summary.Rows,
		CreatedCount:     merged.Summary.Created,
		UpdatedCount:     merged.Summary.Updated,
		SkippedCount:     merged.Summary.Skipped,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to store dataset: %w", err)
	}
	if err := s.projects.MarkInProgress(ctx, p); err != nil {
		return nil, err
	}
	if err := s.projects.RefreshStats(ctx, p); err != nil {
		return nil, err
	}
	logger.GetLogger().WithFields(logrus.Fields{
		"project_id": p.PublicID,
		"dataset":    name,
	}).Infof("dataset imported: %s", merged.Summary)
	return &ImportResult{Dataset: record, Summary: merged.Summary}, nil
}

func (s *DatasetService) Find(ctx context.Context, p *project.Project, pagination *query.Pagination) ([]*Dataset, error) {
	return s.repo.FindByProjectID(ctx, p.ID, pagination)
}

func (s *DatasetService) Count(ctx context.Context, p *project.Project) (int64, error) {
	return s.repo.CountByProjectID(ctx, p.ID)
}

type Export struct {
	Filename    string
	ContentType string
	Body        []byte
}

var unsafeFilename = regexp.MustCompile(`[^a-z0-9]+`)

func exportBaseName(p *project.Project) string {
	base := strings.Trim(unsafeFilename.ReplaceAllString(strings.ToLower(p.Name), "_"), "_")
	if base == "" {
		base = p.PublicID
	}
	return base + "_leads"
}

// Export renders every lead of the project as CSV or a ZIP holding the CSV.
func (s *DatasetService) Export(ctx context.Context, p *project.Project, format ExportFormat) (*Export, error) {
	leads, err := s.leads.FindAllByProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	base := exportBaseName(p)
	var buf bytes.Buffer
	switch format {
	case "", ExportFormatCSV:
		if err := WriteCSV(&buf, leads); err != nil {
			return nil, err
		}
		return &Export{Filename: base + ".csv", ContentType: "text/csv; charset=utf-8", Body: buf.Bytes()}, nil
	case ExportFormatZIP:
		if err := WriteZIP(&buf, base+".csv", leads, time.Now()); err != nil {
			return nil, err
		}
		return &Export{Filename: base + ".zip", ContentType: "application/zip", Body: buf.Bytes()}, nil
	}
	return nil, common.NewValidationError("c6e8a0c2-e4a6-4c8e-a0c2-4e6a8c0e2a4c", "unsupported export format %q", format)
}
