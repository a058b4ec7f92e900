package dataset

import (
	"testing"

	"leadgen.ai/leadgen-api/app/domain/lead"
)

func existingLead(id uint, name string, attrs map[string]string) *lead.Lead {
	if attrs == nil {
		attrs = map[string]string{}
	}
	return &lead.Lead{
		ID:             id,
		CompanyName:    name,
		NormalizedName: lead.NormalizeName(name),
		Attributes:     attrs,
		Source:         lead.SourceDiscovered,
	}
}

func TestMergeExtendsMatchingLead(t *testing.T) {
	existing := []*lead.Lead{existingLead(1, "acme corp", nil)}
	rows := []Row{{"company": "Acme Corp", "region": "EU"}}

	result := Merge(existing, rows, MergeOptions{LeadColumn: "company"})

	if len(result.Leads) != 1 {
		t.Fatalf("expected exactly one lead, got %d", len(result.Leads))
	}
	if result.Leads[0].Attributes["region"] != "EU" {
		t.Fatalf("expected region EU, got %v", result.Leads[0].Attributes)
	}
	if len(result.Updated) != 1 || len(result.Created) != 0 {
		t.Fatalf("expected one update and no creation, got %d/%d", len(result.Updated), len(result.Created))
	}
	if existing[0].Attributes["region"] != "" {
		t.Fatalf("expected the input lead to be left untouched")
	}
}

func TestMergeExistingValueWins(t *testing.T) {
	existing := []*lead.Lead{existingLead(1, "Acme Corp", map[string]string{"region": "APAC", "size": " "})}
	rows := []Row{{"company": "ACME CORP", "region": "EU", "size": "500"}}

	result := Merge(existing, rows, MergeOptions{LeadColumn: "company"})

	attrs := result.Leads[0].Attributes
	if attrs["region"] != "APAC" {
		t.Fatalf("expected existing region to win, got %q", attrs["region"])
	}
	if attrs["size"] != "500" {
		t.Fatalf("expected empty existing value to be filled, got %q", attrs["size"])
	}
}

func TestMergeCreatesImportedLeads(t *testing.T) {
	rows := []Row{{"company": " Beta  Ltd ", "region": "US", "notes": ""}}
	result := Merge(nil, rows, MergeOptions{LeadColumn: "company"})

	if len(result.Created) != 1 {
		t.Fatalf("expected one created lead, got %d", len(result.Created))
	}
	created := result.Created[0]
	if created.CompanyName != "Beta Ltd" || created.Source != lead.SourceImported {
		t.Fatalf("unexpected lead %+v", created)
	}
	if _, ok := created.Attributes["notes"]; ok {
		t.Fatalf("expected empty cells to be ignored")
	}
	if _, ok := created.Attributes["company"]; ok {
		t.Fatalf("expected the key column not to become an attribute")
	}
}

func TestMergeSkipsEmptyAndDuplicateRows(t *testing.T) {
	rows := []Row{
		{"company": "Acme", "region": "EU"},
		{"company": "  ", "region": "US"},
		{"company": "ACME", "region": "US"},
		{"region": "US"},
	}
	result := Merge(nil, rows, MergeOptions{LeadColumn: "company"})

	s := result.Summary
	if s.Rows != 4 || s.Created != 1 || s.Skipped != 3 {
		t.Fatalf("unexpected summary %s", s)
	}
	if result.Created[0].Attributes["region"] != "EU" {
		t.Fatalf("expected the first row to win within a batch")
	}
	for _, i := range []int{1, 2, 3} {
		if s.Outcomes[i].Action != RowSkipped || s.Outcomes[i].Error == "" {
			t.Fatalf("row %d: expected skipped with a reason, got %+v", i+1, s.Outcomes[i])
		}
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	existing := []*lead.Lead{existingLead(1, "acme corp", nil)}
	rows := []Row{
		{"company": "Acme Corp", "region": "EU"},
		{"company": "Beta Ltd", "region": "US"},
	}
	opts := MergeOptions{LeadColumn: "company"}

	first := Merge(existing, rows, opts)
	// persisted leads get ids
	for i, l := range first.Created {
		l.ID = uint(100 + i)
	}
	second := Merge(first.Leads, rows, opts)

	if len(second.Leads) != len(first.Leads) {
		t.Fatalf("expected %d leads, got %d", len(first.Leads), len(second.Leads))
	}
	if len(second.Created) != 0 || len(second.Updated) != 0 || second.Summary.Unchanged != 2 {
		t.Fatalf("expected a no-op second merge, got %s", second.Summary)
	}
	for i := range first.Leads {
		a, b := first.Leads[i], second.Leads[i]
		if a.NormalizedName != b.NormalizedName || len(a.Attributes) != len(b.Attributes) {
			t.Fatalf("lead %d differs: %+v vs %+v", i, a, b)
		}
		for k, v := range a.Attributes {
			if b.Attributes[k] != v {
				t.Fatalf("lead %d attribute %s differs: %q vs %q", i, k, v, b.Attributes[k])
			}
		}
	}
}

func TestMergeEnrichmentColumn(t *testing.T) {
	rows := []Row{{"company": "Acme"}, {"company": "Beta"}}
	result := Merge(nil, rows, MergeOptions{LeadColumn: "company", EnrichmentColumn: "b_corp"})
	for _, l := range result.Created {
		if l.Attributes["b_corp"] != "true" {
			t.Fatalf("expected marker column on %s, got %v", l.CompanyName, l.Attributes)
		}
	}

	existing := Merge(nil, []Row{{"company": "Acme", "b_corp": "false"}}, MergeOptions{LeadColumn: "company", EnrichmentColumn: "b_corp", EnrichmentColumnExists: true})
	if existing.Created[0].Attributes["b_corp"] != "false" {
		t.Fatalf("expected the CSV value to be kept, got %v", existing.Created[0].Attributes)
	}
}

func TestMergeOptionsValidate(t *testing.T) {
	header := []string{"company", "region"}
	if err := (MergeOptions{LeadColumn: "company"}).Validate(header); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := []MergeOptions{
		{},
		{LeadColumn: "name"},
		{LeadColumn: "company", EnrichmentColumn: "b_corp", EnrichmentColumnExists: true},
	}
	for _, opts := range bad {
		if err := opts.Validate(header); err == nil {
			t.Fatalf("expected error for %+v", opts)
		}
	}
}
