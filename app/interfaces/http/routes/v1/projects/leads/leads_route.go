package leads

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"leadgen.ai/leadgen-api/app/domain/dataset"
	"leadgen.ai/leadgen-api/app/domain/lead"
	"leadgen.ai/leadgen-api/app/domain/project"
	"leadgen.ai/leadgen-api/app/domain/query"
	"leadgen.ai/leadgen-api/app/interfaces/http/middleware"
	"leadgen.ai/leadgen-api/app/interfaces/http/responses"
	discoveryroute "leadgen.ai/leadgen-api/app/interfaces/http/routes/v1/projects/discovery"
	"leadgen.ai/leadgen-api/app/utils/functional"
	"leadgen.ai/leadgen-api/app/utils/ptr"
)

const LeadPathParam = "lead_id"

type LeadsRoute struct {
	leadService    *lead.LeadService
	projectService *project.ProjectService
	datasetService *dataset.DatasetService
}

func NewLeadsRoute(
	leadService *lead.LeadService,
	projectService *project.ProjectService,
	datasetService *dataset.DatasetService,
) *LeadsRoute {
	return &LeadsRoute{
		leadService,
		projectService,
		datasetService,
	}
}

func (route *LeadsRoute) RegisterRouter(router gin.IRouter) {
	leadsRouter := router.Group("/leads")
	leadsRouter.GET("", route.ListLeads)
	leadsRouter.GET("/export", route.ExportLeads)
	leadIdRouter := leadsRouter.Group(fmt.Sprintf("/:%s", LeadPathParam))
	leadIdRouter.GET("", route.GetLead)
	leadIdRouter.DELETE("", middleware.TransactionMiddleware(), route.DeleteLead)
}

type LeadResponse struct {
	ID          string                            `json:"id"`
	Object      string                            `json:"object"`
	CompanyName string                            `json:"company_name"`
	Source      string                            `json:"source"`
	Attributes  map[string]string                 `json:"attributes"`
	Context     []discoveryroute.CitationResponse `json:"context"`
	CreatedAt   int64                             `json:"created_at"`
	UpdatedAt   int64                             `json:"updated_at"`
}

func DomainToLeadResponse(l *lead.Lead) LeadResponse {
	attrs := l.Attributes
	if attrs == nil {
		attrs = map[string]string{}
	}
	return LeadResponse{
		ID:          l.PublicID,
		Object:      "lead",
		CompanyName: l.CompanyName,
		Source:      string(l.Source),
		Attributes:  attrs,
		Context:     functional.Map(l.Context, discoveryroute.DomainToCitationResponse),
		CreatedAt:   l.CreatedAt.Unix(),
		UpdatedAt:   l.UpdatedAt.Unix(),
	}
}

type EnrichmentResultResponse struct {
	Object     string `json:"object"`
	Attribute  string `json:"attribute"`
	Value      string `json:"value"`
	Status     string `json:"status"`
	Confidence string `json:"confidence"`
	Citation   string `json:"citation,omitempty"`
	SourceURL  string `json:"source_url,omitempty"`
	Reasoning  string `json:"reasoning,omitempty"`
	CreatedAt  int64  `json:"created_at"`
}

func DomainToEnrichmentResultResponse(r *lead.EnrichmentResult) EnrichmentResultResponse {
	return EnrichmentResultResponse{
		Object:     "enrichment_result",
		Attribute:  r.Attribute,
		Value:      r.Value,
		Status:     string(r.Status),
		Confidence: r.Confidence.StringFixed(2),
		Citation:   r.Citation,
		SourceURL:  r.SourceURL,
		Reasoning:  r.Reasoning,
		CreatedAt:  r.CreatedAt.Unix(),
	}
}

type LeadDetailResponse struct {
	LeadResponse
	Enrichments []EnrichmentResultResponse `json:"enrichments"`
}

func leadFilterFromQuery(reqCtx *gin.Context, projectID uint) lead.LeadFilter {
	filter := lead.LeadFilter{ProjectID: &projectID}
	if source := reqCtx.Query("source"); source != "" {
		filter.Source = &source
	}
	if missing := reqCtx.Query("missing_attribute"); missing != "" {
		filter.MissingAttribute = &missing
	}
	if search := reqCtx.Query("search"); search != "" {
		filter.Search = &search
	}
	return filter
}

// ListLeads godoc
// @Summary List leads
// @Description Retrieves a paginated list of the project's leads.
// @Tags Leads API
// @Param project_id path string true "Project ID"
// @Param limit query int false "The maximum number of items to return" default(20)
// @Param last query string false "The ID of the last lead from the previous page"
// @Param order query string false "asc or desc" default(asc)
// @Param source query string false "discovered, imported or places"
// @Param missing_attribute query string false "Only leads without a known value for this attribute"
// @Param search query string false "Substring of the company name"
// @Success 200 {object} responses.ListResponse[LeadResponse]
// @Failure 400 {object} responses.ErrorResponse
// @Router /v1/projects/{project_id}/leads [get]
func (route *LeadsRoute) ListLeads(reqCtx *gin.Context) {
	p, ok := middleware.GetProjectFromContext(reqCtx)
	if !ok {
		return
	}
	ctx := reqCtx.Request.Context()
	leadService := route.leadService
	pagination, err := query.GetCursorPaginationFromQuery(reqCtx, func(last string) (*uint, error) {
		entity, err := leadService.GetProjectLead(ctx, p.ID, last)
		if err != nil {
			return nil, err
		}
		return &entity.ID, nil
	})
	if err != nil {
		responses.AbortBadRequest(reqCtx, "24a0c8e1-3b5d-4f78-c4f3-2f0a4b6c8d1e", err.Error())
		return
	}
	filter := leadFilterFromQuery(reqCtx, p.ID)
	leads, err := leadService.Find(ctx, filter, pagination)
	if err != nil {
		responses.AbortWithError(reqCtx, err, "35b1d9f2-4c6e-4089-95a4-3a1b5c7d9e2f")
		return
	}
	pageCursor, err := responses.BuildCursorPage(
		leads,
		func(t *lead.Lead) *string {
			return &t.PublicID
		},
		func() ([]*lead.Lead, error) {
			return leadService.Find(ctx, filter, &query.Pagination{
				Order: pagination.Order,
				Limit: ptr.ToInt(1),
				After: &leads[len(leads)-1].ID,
			})
		},
		func() (int64, error) {
			return leadService.Count(ctx, filter)
		},
	)
	if err != nil {
		responses.AbortWithError(reqCtx, err, "46c2ea03-5d7f-419a-a6b5-4b2c6d8e0f3a")
		return
	}
	reqCtx.JSON(http.StatusOK, responses.NewListResponse(functional.Map(leads, DomainToLeadResponse), pageCursor))
}

// ExportLeads godoc
// @Summary Export leads
// @Description Downloads every lead of the project as CSV, or as a ZIP archive holding the CSV.
// @Tags Leads API
// @Param project_id path string true "Project ID"
// @Param format query string false "csv or zip" default(csv)
// @Produce text/csv
// @Produce application/zip
// @Success 200 {file} file
// @Failure 400 {object} responses.ErrorResponse
// @Router /v1/projects/{project_id}/leads/export [get]
func (route *LeadsRoute) ExportLeads(reqCtx *gin.Context) {
	p, ok := middleware.GetProjectFromContext(reqCtx)
	if !ok {
		return
	}
	format := dataset.ExportFormat(reqCtx.DefaultQuery("format", string(dataset.ExportFormatCSV)))
	export, err := route.datasetService.Export(reqCtx.Request.Context(), p, format)
	if err != nil {
		responses.AbortWithError(reqCtx, err, "57d3fb14-6e8a-42ab-b7c6-5c3d7e9f1a4b")
		return
	}
	reqCtx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename))
	reqCtx.Data(http.StatusOK, export.ContentType, export.Body)
}

// GetLead godoc
// @Summary Get lead
// @Description Returns the lead with its enrichment history, oldest first.
// @Tags Leads API
// @Param project_id path string true "Project ID"
// @Param lead_id path string true "Lead ID"
// @Success 200 {object} LeadDetailResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/projects/{project_id}/leads/{lead_id} [get]
func (route *LeadsRoute) GetLead(reqCtx *gin.Context) {
	p, ok := middleware.GetProjectFromContext(reqCtx)
	if !ok {
		return
	}
	ctx := reqCtx.Request.Context()
	entity, err := route.leadService.GetProjectLead(ctx, p.ID, reqCtx.Param(LeadPathParam))
	if err != nil {
		responses.AbortWithError(reqCtx, err, "68e40c25-7f9b-43bc-88d7-6d4e8f0a2b5c")
		return
	}
	history, err := route.leadService.FindEnrichments(ctx, entity)
	if err != nil {
		responses.AbortWithError(reqCtx, err, "79f51d36-80ac-44cd-99e8-7e5f9a1b3c6d")
		return
	}
	reqCtx.JSON(http.StatusOK, LeadDetailResponse{
		LeadResponse: DomainToLeadResponse(entity),
		Enrichments:  functional.Map(history, DomainToEnrichmentResultResponse),
	})
}

type DeletedResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// DeleteLead godoc
// @Summary Delete lead
// @Tags Leads API
// @Param project_id path string true "Project ID"
// @Param lead_id path string true "Lead ID"
// @Success 200 {object} DeletedResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/projects/{project_id}/leads/{lead_id} [delete]
func (route *LeadsRoute) DeleteLead(reqCtx *gin.Context) {
	p, ok := middleware.GetProjectFromContext(reqCtx)
	if !ok {
		return
	}
	ctx := reqCtx.Request.Context()
	entity, err := route.leadService.GetProjectLead(ctx, p.ID, reqCtx.Param(LeadPathParam))
	if err != nil {
		responses.AbortWithError(reqCtx, err, "8a062e47-91bd-45de-aaf9-8f6a0b2c4d7e")
		return
	}
	if err := route.leadService.DeleteLead(ctx, entity); err != nil {
		responses.AbortWithError(reqCtx, err, "9b173f58-a2ce-46ef-8b0a-9a7b1c3d5e8f")
		return
	}
	if err := route.projectService.RefreshStats(ctx, p); err != nil {
		responses.AbortWithError(reqCtx, err, "ac284069-b3df-47f0-9c1b-ab8c2d4e6f9a")
		return
	}
	reqCtx.JSON(http.StatusOK, DeletedResponse{ID: entity.PublicID, Object: "lead.deleted", Deleted: true})
}
