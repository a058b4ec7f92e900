package dataset

import (
	"fmt"
	"strings"

	"leadgen.ai/leadgen-api/app/domain/common"
	"leadgen.ai/leadgen-api/app/domain/lead"
)

// Row maps column name to cell value.
type Row map[string]string

type MergeOptions struct {
	LeadColumn string
	// EnrichmentColumn is an optional marker attribute for imported rows.
	EnrichmentColumn string
	// EnrichmentColumnExists means the column is already part of the CSV.
	// Otherwise it is added with value "true" to every row.
	EnrichmentColumnExists bool
}

func (o MergeOptions) Validate(header []string) error {
	if strings.TrimSpace(o.LeadColumn) == "" {
		return common.NewValidationError("b2d4f6a8-0c2e-4a6c-9e0a-2c4e6a8c0e2a", "lead column is required")
	}
	if !hasColumn(header, o.LeadColumn) {
		return common.NewValidationError("c4e6a8c0-2e4a-4c8e-a0c2-e4a6c8e0a2c4", "lead column %q is missing from the CSV header", o.LeadColumn)
	}
	if o.EnrichmentColumn != "" && o.EnrichmentColumnExists && !hasColumn(header, o.EnrichmentColumn) {
		return common.NewValidationError("c4e6a8c0-2e4a-4c8e-a0c2-e4a6c8e0a2c4", "enrichment column %q is missing from the CSV header", o.EnrichmentColumn)
	}
	return nil
}

func hasColumn(header []string, name string) bool {
	for _, h := range header {
		if h == name {
			return true
		}
	}
	return false
}

type RowAction string

const (
	RowCreated   RowAction = "created"
	RowUpdated   RowAction = "updated"
	RowUnchanged RowAction = "unchanged"
	RowSkipped   RowAction = "skipped"
)

type RowOutcome struct {
	// Row is the 1-based data row number, header excluded.
	Row     int
	Company string
	Action  RowAction
	Error   string
}

type MergeSummary struct {
	Rows      int
	Created   int
	Updated   int
	Unchanged int
	Skipped   int
	Outcomes  []RowOutcome
}

type MergeResult struct {
	// Leads is the full merged set, existing leads first.
	Leads   []*lead.Lead
	Created []*lead.Lead
	Updated []*lead.Lead
	Summary MergeSummary
}

// Merge folds CSV rows into the existing leads of one project. Rows are
// matched on the normalized company name. A matching row only fills
// attributes that are absent or empty on the lead. Rows without a key and
// rows repeating an earlier key of the batch are skipped. The inputs are
// not modified.
func Merge(existing []*lead.Lead, rows []Row, opts MergeOptions) *MergeResult {
	result := &MergeResult{Summary: MergeSummary{Rows: len(rows), Outcomes: make([]RowOutcome, 0, len(rows))}}
	byName := make(map[string]*lead.Lead, len(existing))
	for _, l := range existing {
		c := cloneLead(l)
		result.Leads = append(result.Leads, c)
		byName[c.NormalizedName] = c
	}

	seen := map[string]int{}
	updated := map[*lead.Lead]bool{}
	for i, row := range rows {
		outcome := RowOutcome{Row: i + 1}
		display := lead.CleanDisplayName(row[opts.LeadColumn])
		key := lead.NormalizeName(display)
		outcome.Company = display
		if key == "" {
			outcome.Action = RowSkipped
			outcome.Error = common.NewValidationError("d6f8a0c2-4e6a-4c8e-b0c2-e4a6c8e0a2c4", "row %d has an empty %q value", i+1, opts.LeadColumn).Error()
			result.Summary.add(outcome)
			continue
		}
		if first, dup := seen[key]; dup {
			outcome.Action = RowSkipped
			outcome.Error = common.NewValidationError("e8a0c2e4-6a8c-4e0a-c2e4-a6c8e0a2c4e6", "row %d duplicates row %d (%s)", i+1, first, display).Error()
			result.Summary.add(outcome)
			continue
		}
		seen[key] = i + 1

		attrs := rowAttributes(row, opts)
		if target, ok := byName[key]; ok {
			if fillAbsent(target, attrs) {
				outcome.Action = RowUpdated
				if !updated[target] && target.ID != 0 {
					updated[target] = true
					result.Updated = append(result.Updated, target)
				}
			} else {
				outcome.Action = RowUnchanged
			}
			result.Summary.add(outcome)
			continue
		}

		created := &lead.Lead{
			CompanyName:    display,
			NormalizedName: key,
			Attributes:     attrs,
			Source:         lead.SourceImported,
		}
		byName[key] = created
		result.Leads = append(result.Leads, created)
		result.Created = append(result.Created, created)
		outcome.Action = RowCreated
		result.Summary.add(outcome)
	}
	return result
}

func (s *MergeSummary) add(o RowOutcome) {
	switch o.Action {
	case RowCreated:
		s.Created++
	case RowUpdated:
		s.Updated++
	case RowUnchanged:
		s.Unchanged++
	case RowSkipped:
		s.Skipped++
	}
	s.Outcomes = append(s.Outcomes, o)
}

func rowAttributes(row Row, opts MergeOptions) map[string]string {
	attrs := make(map[string]string, len(row))
	for column, value := range row {
		if column == opts.LeadColumn || strings.TrimSpace(column) == "" {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		attrs[column] = value
	}
	if opts.EnrichmentColumn != "" && !opts.EnrichmentColumnExists {
		attrs[opts.EnrichmentColumn] = "true"
	}
	return attrs
}

// fillAbsent copies attributes the lead does not carry yet.
func fillAbsent(l *lead.Lead, attrs map[string]string) bool {
	return l.ApplyAttributes(attrs, false)
}

func cloneLead(l *lead.Lead) *lead.Lead {
	c := *l
	c.Attributes = make(map[string]string, len(l.Attributes))
	for k, v := range l.Attributes {
		c.Attributes[k] = v
	}
	c.Context = append([]lead.Citation(nil), l.Context...)
	return &c
}

func (s MergeSummary) String() string {
	return fmt.Sprintf("rows=%d created=%d updated=%d unchanged=%d skipped=%d", s.Rows, s.Created, s.Updated, s.Unchanged, s.Skipped)
}
