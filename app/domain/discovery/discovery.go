package discovery

import (
	"context"
	"time"

	"leadgen.ai/leadgen-api/app/domain/query"
)

type SearchQuery struct {
	ID        uint
	ProjectID uint
	Text      string
	CreatedAt time.Time
}

// StoredResult is a search hit persisted for later extraction.
type StoredResult struct {
	ID        uint
	ProjectID uint
	Query     string
	Provider  string
	Title     string
	Link      string
	Snippet   string
	Source    string
	Status    ResultStatus
	Content   string
	CreatedAt time.Time
}

type SearchResultFilter struct {
	ProjectID *uint
	Status    *string
	Links     *[]string
}

type SearchRepository interface {
	CreateQueries(ctx context.Context, queries []*SearchQuery) error
	FindQueries(ctx context.Context, projectID uint, p *query.Pagination) ([]*SearchQuery, error)
	CountQueries(ctx context.Context, projectID uint) (int64, error)

	// SaveResults inserts results whose (project, link) is new and returns how many were inserted.
	SaveResults(ctx context.Context, results []*StoredResult) (int, error)
	FindResults(ctx context.Context, filter SearchResultFilter, p *query.Pagination) ([]*StoredResult, error)
	CountResults(ctx context.Context, filter SearchResultFilter) (int64, error)
	UpdateResult(ctx context.Context, r *StoredResult) error
}
