package lead

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"leadgen.ai/leadgen-api/app/domain/query"
)

type Source string

const (
	SourceDiscovered Source = "discovered"
	SourceImported   Source = "imported"
	SourcePlaces     Source = "places"
)

// UnknownValue is recorded when no supporting content could be found.
const UnknownValue = "unknown"

type Citation struct {
	Query   string `json:"query,omitempty"`
	Title   string `json:"title,omitempty"`
	Link    string `json:"link,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

type Lead struct {
	ID             uint
	PublicID       string
	ProjectID      uint
	CompanyName    string
	NormalizedName string
	Attributes     map[string]string
	Source         Source
	Context        []Citation
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasAttribute reports whether the lead carries a known, non-empty value.
func (l *Lead) HasAttribute(name string) bool {
	v, ok := l.Attributes[name]
	return ok && strings.TrimSpace(v) != "" && v != UnknownValue
}

// AddCitations appends citations whose link is not already recorded.
func (l *Lead) AddCitations(citations ...Citation) bool {
	seen := make(map[string]struct{}, len(l.Context))
	for _, c := range l.Context {
		seen[c.Link+"\x00"+c.Query] = struct{}{}
	}
	changed := false
	for _, c := range citations {
		key := c.Link + "\x00" + c.Query
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		l.Context = append(l.Context, c)
		changed = true
	}
	return changed
}

// ApplyAttributes writes attrs onto the lead. Without overwrite a key is only
// written when the lead has no non-blank value for it.
func (l *Lead) ApplyAttributes(attrs map[string]string, overwrite bool) bool {
	if l.Attributes == nil {
		l.Attributes = map[string]string{}
	}
	changed := false
	for k, v := range attrs {
		current, ok := l.Attributes[k]
		if !overwrite && ok && strings.TrimSpace(current) != "" {
			continue
		}
		if ok && current == v {
			continue
		}
		l.Attributes[k] = v
		changed = true
	}
	return changed
}

type EnrichmentStatus string

const (
	EnrichmentStatusSucceeded EnrichmentStatus = "succeeded"
	EnrichmentStatusUnknown   EnrichmentStatus = "unknown"
)

type EnrichmentResult struct {
	ID         uint
	LeadID     uint
	Attribute  string
	Value      string
	Status     EnrichmentStatus
	Confidence decimal.Decimal
	Citation   string
	SourceURL  string
	Reasoning  string
	CreatedAt  time.Time
}

type LeadFilter struct {
	ProjectID       *uint
	PublicID        *string
	PublicIDs       *[]string
	NormalizedNames *[]string
	Source          *string
	// MissingAttribute matches leads without a known value for the attribute.
	MissingAttribute *string
	Search           *string
}

type LeadRepository interface {
	Create(ctx context.Context, l *Lead) error
	// CreateIfAbsent inserts unless (project, normalized name) already exists.
	CreateIfAbsent(ctx context.Context, l *Lead) (bool, error)
	Update(ctx context.Context, l *Lead) error
	// SetAttributes applies attrs to the stored row under a row lock and
	// leaves every other key untouched. It returns the stored lead, or nil
	// when the lead no longer exists.
	SetAttributes(ctx context.Context, id uint, attrs map[string]string, overwrite bool) (*Lead, error)
	// AppendCitations adds unseen citations to the stored context under a
	// row lock.
	AppendCitations(ctx context.Context, id uint, citations []Citation) (*Lead, error)
	DeleteByID(ctx context.Context, id uint) error

	FindByID(ctx context.Context, id uint) (*Lead, error)
	FindByPublicID(ctx context.Context, publicID string) (*Lead, error)
	FindByFilter(ctx context.Context, filter LeadFilter, p *query.Pagination) ([]*Lead, error)
	Count(ctx context.Context, filter LeadFilter) (int64, error)
}

type EnrichmentResultRepository interface {
	Create(ctx context.Context, r *EnrichmentResult) error
	FindByLeadID(ctx context.Context, leadID uint) ([]*EnrichmentResult, error)
}
