package dbschema

import (
	"time"

	"leadgen.ai/leadgen-api/app/domain/discovery"
	"leadgen.ai/leadgen-api/app/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(SearchQuery{})
	database.RegisterSchemaForAutoMigrate(SearchResult{})
}

type SearchQuery struct {
	ID        uint      `gorm:"primarykey"`
	ProjectID uint      `gorm:"not null;index"`
	Text      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func NewSchemaSearchQuery(q *discovery.SearchQuery) *SearchQuery {
	return &SearchQuery{
		ID:        q.ID,
		ProjectID: q.ProjectID,
		Text:      q.Text,
		CreatedAt: q.CreatedAt,
	}
}

func (q *SearchQuery) EtoD() *discovery.SearchQuery {
	return &discovery.SearchQuery{
		ID:        q.ID,
		ProjectID: q.ProjectID,
		Text:      q.Text,
		CreatedAt: q.CreatedAt,
	}
}

type SearchResult struct {
	BaseModel
	ProjectID uint   `gorm:"not null;uniqueIndex:idx_search_result_project_link;index:idx_search_result_project_status"`
	Query     string `gorm:"type:text"`
	Provider  string `gorm:"type:varchar(32)"`
	Title     string `gorm:"type:text"`
	Link      string `gorm:"type:text;not null;uniqueIndex:idx_search_result_project_link"`
	Snippet   string `gorm:"type:text"`
	Source    string `gorm:"type:text"`
	Status    string `gorm:"type:varchar(20);not null;default:'unprocessed';index:idx_search_result_project_status"`
	Content   string `gorm:"type:text"`
}

func NewSchemaSearchResult(r *discovery.StoredResult) *SearchResult {
	return &SearchResult{
		BaseModel: BaseModel{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
		},
		ProjectID: r.ProjectID,
		Query:     r.Query,
		Provider:  r.Provider,
		Title:     r.Title,
		Link:      r.Link,
		Snippet:   r.Snippet,
		Source:    r.Source,
		Status:    string(r.Status),
		Content:   r.Content,
	}
}

func (r *SearchResult) EtoD() *discovery.StoredResult {
	return &discovery.StoredResult{
		ID:        r.ID,
		ProjectID: r.ProjectID,
		Query:     r.Query,
		Provider:  r.Provider,
		Title:     r.Title,
		Link:      r.Link,
		Snippet:   r.Snippet,
		Source:    r.Source,
		Status:    discovery.ResultStatus(r.Status),
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
	}
}
