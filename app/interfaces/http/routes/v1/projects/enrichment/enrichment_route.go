package enrichment

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"leadgen.ai/leadgen-api/app/domain/common"
	"leadgen.ai/leadgen-api/app/domain/enrichment"
	"leadgen.ai/leadgen-api/app/domain/lead"
	"leadgen.ai/leadgen-api/app/interfaces/http/middleware"
	"leadgen.ai/leadgen-api/app/interfaces/http/responses"
	leadsroute "leadgen.ai/leadgen-api/app/interfaces/http/routes/v1/projects/leads"
	"leadgen.ai/leadgen-api/app/utils/functional"
)

type EnrichmentRoute struct {
	enrichmentService *enrichment.EnrichmentService
	leadService       *lead.LeadService
}

func NewEnrichmentRoute(enrichmentService *enrichment.EnrichmentService, leadService *lead.LeadService) *EnrichmentRoute {
	return &EnrichmentRoute{
		enrichmentService: enrichmentService,
		leadService:       leadService,
	}
}

// RegisterRouter mounts the enrichment triggers. Each result is written as
// soon as it is known, so there is no request transaction.
func (route *EnrichmentRoute) RegisterRouter(router gin.IRouter) {
	router.POST(fmt.Sprintf("/leads/:%s/enrichment", leadsroute.LeadPathParam), route.EnrichLead)
	router.POST("/enrichment", route.EnrichLeads)
}

type AttributeRequest struct {
	Attribute   string `json:"attribute" binding:"required"`
	Description string `json:"description" binding:"required"`
	// Since is an RFC 3339 date or YYYY-MM-DD.
	Since    string `json:"since"`
	Provider string `json:"provider"`
}

func (r AttributeRequest) toSpec() (enrichment.AttributeSpec, error) {
	spec := enrichment.AttributeSpec{
		Name:        r.Attribute,
		Description: r.Description,
		Provider:    r.Provider,
	}
	if r.Since != "" {
		since, err := parseSince(r.Since)
		if err != nil {
			return spec, err
		}
		spec.Since = &since
	}
	return spec, nil
}

func parseSince(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, common.NewValidationError("d3a5c7e9-1b2d-4f4a-8c6e-0a2b4c6d8e1f", "since must be a date like 2024-01-31")
	}
	return t, nil
}

// EnrichLead godoc
// @Summary Enrich one lead
// @Description Searches for content about the company and asks the language model for the attribute value. Missing content yields the value "unknown".
// @Tags Enrichment API
// @Accept json
// @Param project_id path string true "Project ID"
// @Param lead_id path string true "Lead ID"
// @Param body body AttributeRequest true "Attribute to derive"
// @Success 200 {object} leads.EnrichmentResultResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 502 {object} responses.ErrorResponse
// @Router /v1/projects/{project_id}/leads/{lead_id}/enrichment [post]
func (route *EnrichmentRoute) EnrichLead(reqCtx *gin.Context) {
	p, ok := middleware.GetProjectFromContext(reqCtx)
	if !ok {
		return
	}
	var req AttributeRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.AbortBadRequest(reqCtx, "e4b6d8fa-2c3e-4a5b-9d7f-1b3c5d7e9f2a", "invalid request body: attribute and description are required")
		return
	}
	spec, err := req.toSpec()
	if err != nil {
		responses.AbortWithError(reqCtx, err, "f5c7e90b-3d4f-4b6c-8e0a-2c4d6e8f0a3b")
		return
	}
	ctx := reqCtx.Request.Context()
	entity, err := route.leadService.GetProjectLead(ctx, p.ID, reqCtx.Param(leadsroute.LeadPathParam))
	if err != nil {
		responses.AbortWithError(reqCtx, err, "06d8fa1c-4e5a-4c7d-9f1b-3d5e7f9a1b4c")
		return
	}
	result, err := route.enrichmentService.EnrichLead(ctx, entity, spec)
	if err != nil {
		responses.AbortWithError(reqCtx, err, "17e90b2d-5f6b-4d8e-a02c-4e6f8a0b2c5d")
		return
	}
	reqCtx.JSON(http.StatusOK, leadsroute.DomainToEnrichmentResultResponse(result))
}

type BatchEnrichmentRequest struct {
	AttributeRequest
	LeadIDs     []string `json:"lead_ids"`
	OnlyMissing bool     `json:"only_missing"`
}

type ItemOutcomeResponse struct {
	LeadID  string `json:"lead_id"`
	Company string `json:"company"`
	Status  string `json:"status"`
	Value   string `json:"value,omitempty"`
	Error   string `json:"error,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

type BatchSummaryResponse struct {
	Object    string                `json:"object"`
	Attribute string                `json:"attribute"`
	Total     int                   `json:"total"`
	Succeeded int                   `json:"succeeded"`
	Unknown   int                   `json:"unknown"`
	Failed    int                   `json:"failed"`
	Skipped   int                   `json:"skipped"`
	Outcomes  []ItemOutcomeResponse `json:"outcomes"`
}

func domainToBatchSummaryResponse(s *enrichment.BatchSummary) BatchSummaryResponse {
	return BatchSummaryResponse{
		Object:    "enrichment.batch",
		Attribute: s.Attribute,
		Total:     s.Total,
		Succeeded: s.Succeeded,
		Unknown:   s.Unknown,
		Failed:    s.Failed,
		Skipped:   s.Skipped,
		Outcomes: functional.Map(s.Outcomes, func(o enrichment.ItemOutcome) ItemOutcomeResponse {
			resp := ItemOutcomeResponse{
				LeadID:  o.LeadID,
				Company: o.Company,
				Status:  string(o.Status),
				Value:   o.Value,
				Error:   o.Error,
			}
			if o.Status == enrichment.ItemStatusFailed {
				resp.Kind = string(o.Kind)
			}
			return resp
		}),
	}
}

// EnrichLeads godoc
// @Summary Enrich many leads
// @Description Enriches the selected leads of the project in parallel and returns per-lead outcomes. A failing lead never aborts the batch.
// @Tags Enrichment API
// @Accept json
// @Param project_id path string true "Project ID"
// @Param body body BatchEnrichmentRequest true "Attribute, optional lead ids and only_missing"
// @Success 200 {object} BatchSummaryResponse
// @Failure 400 {object} responses.ErrorResponse
// @Router /v1/projects/{project_id}/enrichment [post]
func (route *EnrichmentRoute) EnrichLeads(reqCtx *gin.Context) {
	p, ok := middleware.GetProjectFromContext(reqCtx)
	if !ok {
		return
	}
	var req BatchEnrichmentRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.AbortBadRequest(reqCtx, "28fa1c3e-6a7c-4e9f-b13d-5f7a9b1c3d6e", "invalid request body: attribute and description are required")
		return
	}
	spec, err := req.toSpec()
	if err != nil {
		responses.AbortWithError(reqCtx, err, "390b2d4f-7b8d-4f0a-824e-6a8b0c2d4e7f")
		return
	}
	summary, err := route.enrichmentService.EnrichProject(reqCtx.Request.Context(), p.ID, enrichment.BatchRequest{
		Spec:        spec,
		LeadIDs:     req.LeadIDs,
		OnlyMissing: req.OnlyMissing,
	})
	if err != nil {
		responses.AbortWithError(reqCtx, err, "4a1c3e5a-8c9e-4a1b-935f-7b9c1d3e5f8a")
		return
	}
	reqCtx.JSON(http.StatusOK, domainToBatchSummaryResponse(summary))
}
