package discovery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"leadgen.ai/leadgen-api/app/domain/discovery"
	"leadgen.ai/leadgen-api/app/domain/query"
	"leadgen.ai/leadgen-api/app/interfaces/http/middleware"
	"leadgen.ai/leadgen-api/app/interfaces/http/requests"
	"leadgen.ai/leadgen-api/app/interfaces/http/responses"
	"leadgen.ai/leadgen-api/app/utils/functional"
)

const defaultQueryCount = 5

type DiscoveryRoute struct {
	discoveryService *discovery.DiscoveryService
}

func NewDiscoveryRoute(discoveryService *discovery.DiscoveryService) *DiscoveryRoute {
	return &DiscoveryRoute{discoveryService: discoveryService}
}

// RegisterRouter mounts the pipeline endpoints. They call external providers
// and write per item, so they run outside the request transaction.
func (route *DiscoveryRoute) RegisterRouter(router gin.IRouter) {
	queriesRouter := router.Group("/queries")
	queriesRouter.GET("", route.ListQueries)
	queriesRouter.POST("/generate", route.GenerateQueries)

	discoveryRouter := router.Group("/discovery")
	discoveryRouter.POST("/search", route.Search)
	discoveryRouter.POST("/extract", route.Extract)
	discoveryRouter.POST("/run", route.Run)
	discoveryRouter.POST("/preview", route.Preview)
	discoveryRouter.POST("/places", route.Places)
}

// ListQueries godoc
// @Summary List generated search queries
// @Tags Discovery API
// @Param project_id path string true "Project ID"
// @Param limit query int false "The maximum number of items to return" default(20)
// @Param offset query int false "Number of items to skip"
// @Param order query string false "asc or desc" default(asc)
// @Success 200 {object} responses.ListResponse[SearchQueryResponse]
// @Failure 400 {object} responses.ErrorResponse
// @Router /v1/projects/{project_id}/queries [get]
func (route *DiscoveryRoute) ListQueries(reqCtx *gin.Context) {
	p, ok := middleware.GetProjectFromContext(reqCtx)
	if !ok {
		return
	}
	ctx := reqCtx.Request.Context()
	pagination, err := query.GetPaginationFromQuery(reqCtx)
	if err != nil {
		responses.AbortBadRequest(reqCtx, "3b5d7f91-a2c4-4e6f-8a1b-3c5d7e9f1a2b", err.Error())
		return
	}
	queries, err := route.discoveryService.FindQueries(ctx, p, pagination)
	if err != nil {
		responses.AbortWithError(reqCtx, err, "4c6e8a02-b3d5-4f7a-9b2c-4d6e8f0a2b3c")
		return
	}
	total, err := route.discoveryService.CountQueries(ctx, p)
	if err != nil {
		responses.AbortWithError(reqCtx, err, "5d7f9b13-c4e6-4a8b-8c3d-5e7f9a1b3c4d")
		return
	}
	cursor := &responses.PageCursor{Total: total}
	if len(queries) > 0 {
		offset := 0
		if pagination.Offset != nil {
			offset = *pagination.Offset
		}
		cursor.HasMore = int64(offset+len(queries)) < total
	}
	reqCtx.JSON(http.StatusOK, responses.NewListResponse(functional.Map(queries, DomainToSearchQueryResponse), cursor))
}

type GenerateQueriesRequest struct {
	Count int `json:"count"`
}

// GenerateQueries godoc
// @Summary Generate search queries
// @Description Asks the language model for distinct search queries derived from the project goal and stores them.
// @Tags Discovery API
// @Accept json
// @Param project_id path string true "Project ID"
// @Param body body GenerateQueriesRequest false "Number of queries, default 5"
// @Success 201 {object} responses.ListResponse[SearchQueryResponse]
// @Failure 400 {object} responses.ErrorResponse
// @Failure 502 {object} responses.ErrorResponse
// @Failure 503 {object} responses.ErrorResponse
// @Router /v1/projects/{project_id}/queries/generate [post]
func (route *DiscoveryRoute) GenerateQueries(reqCtx *gin.Context) {
	p, ok := middleware.GetProjectFromContext(reqCtx)
	if !ok {
		return
	}
	req := GenerateQueriesRequest{Count: defaultQueryCount}
	if err := requests.BindOptionalJSON(reqCtx, &req); err != nil {
		responses.AbortBadRequest(reqCtx, "6e8a0c24-d5f7-4b9c-9d4e-6f8a0b2c4d5e", "invalid request body")
		return
	}
	queries, err := route.discoveryService.GenerateQueries(reqCtx.Request.Context(), p, req.Count)
	if err != nil {
		responses.AbortWithError(reqCtx, err, "7f9b1d35-e6a8-4cad-8e5f-7a9b1c3d5e6f")
		return
	}
	data := functional.Map(queries, DomainToSearchQueryResponse)
	reqCtx.JSON(http.StatusCreated, responses.NewListResponse(data, &responses.PageCursor{Total: int64(len(data))}))
}

type SearchRequest struct {
	Queries  []string `json:"queries"`
	Provider string   `json:"provider"`
	Num      int      `json:"num"`
}

// Search godoc
// @Summary Search stored or given queries
// @Description Runs each query against a search provider and stores new results. Without queries every stored query of the project is searched.
// @Tags Discovery API
// @Accept json
// @Param project_id path string true "Project ID"
// @Param body body SearchRequest false "Queries, provider (tavily, serpapi, jina) and results per query"
// @Success 200 {object} SearchSummaryResponse
// @Failure 400 {object} responses.ErrorResponse
// @Router /v1/projects/{project_id}/discovery/search [post]
func (route *DiscoveryRoute) Search(reqCtx *gin.Context) {
	p, ok := middleware.GetProjectFromContext(reqCtx)
	if !ok {
		return
	}
	var req SearchRequest
	if err := requests.BindOptionalJSON(reqCtx, &req); err != nil {
		responses.AbortBadRequest(reqCtx, "8a0c2e46-f7b9-4dbe-af6a-8b0c2d4e6f7a", "invalid request body")
		return
	}
	summary, err := route.discoveryService.Search(reqCtx.Request.Context(), p, discovery.SearchRequest{
		Queries:  req.Queries,
		Provider: req.Provider,
		Num:      req.Num,
	})
	if err != nil {
		responses.AbortWithError(reqCtx, err, "9b1d3f57-a8ca-4ecf-b07b-9c1d3e5f7a8b")
		return
	}
	reqCtx.JSON(http.StatusOK, domainToSearchSummaryResponse(summary))
}

type ExtractRequest struct {
	Limit int `json:"limit"`
}

// Extract godoc
// @Summary Extract leads from stored results
// @Description Processes unprocessed search results, extracts company names and adds them as leads.
// @Tags Discovery API
// @Accept json
// @Param project_id path string true "Project ID"
// @Param body body ExtractRequest false "Maximum number of results to process"
// @Success 200 {object} ExtractSummaryResponse
// @Router /v1/projects/{project_id}/discovery/extract [post]
func (route *DiscoveryRoute) Extract(reqCtx *gin.Context) {
	p, ok := middleware.GetProjectFromContext(reqCtx)
	if !ok {
		return
	}
	var req ExtractRequest
	if err := requests.BindOptionalJSON(reqCtx, &req); err != nil {
		responses.AbortBadRequest(reqCtx, "ac2e4068-b9db-4fd0-8c7b-ad2e4f6a8b9c", "invalid request body")
		return
	}
	summary, err := route.discoveryService.Extract(reqCtx.Request.Context(), p, req.Limit)
	if err != nil {
		responses.AbortWithError(reqCtx, err, "bd3f5179-caec-4a01-9d8c-be3f5a7b9cad")
		return
	}
	reqCtx.JSON(http.StatusOK, domainToExtractSummaryResponse(summary))
}

type RunRequest struct {
	Count    int    `json:"count"`
	Provider string `json:"provider"`
	Num      int    `json:"num"`
}

// Run godoc
// @Summary Run the discovery pipeline
// @Description Generates queries, searches them and extracts leads in one call.
// @Tags Discovery API
// @Accept json
// @Param project_id path string true "Project ID"
// @Param body body RunRequest false "Query count, provider and results per query"
// @Success 200 {object} RunSummaryResponse
// @Router /v1/projects/{project_id}/discovery/run [post]
func (route *DiscoveryRoute) Run(reqCtx *gin.Context) {
	p, ok := middleware.GetProjectFromContext(reqCtx)
	if !ok {
		return
	}
	req := RunRequest{Count: defaultQueryCount}
	if err := requests.BindOptionalJSON(reqCtx, &req); err != nil {
		responses.AbortBadRequest(reqCtx, "ce4f628a-dbfd-4a12-ae9d-cf4a6b8c0dbe", "invalid request body")
		return
	}
	summary, err := route.discoveryService.Run(reqCtx.Request.Context(), p, discovery.RunRequest{
		Count:    req.Count,
		Provider: req.Provider,
		Num:      req.Num,
	})
	if err != nil {
		responses.AbortWithError(reqCtx, err, "df5a739b-ec0e-4b23-bfae-da5b7c9d1ecf")
		return
	}
	reqCtx.JSON(http.StatusOK, RunSummaryResponse{
		Object:  "discovery.run",
		Queries: summary.Queries,
		Search:  domainToSearchSummaryResponse(summary.Search),
		Extract: domainToExtractSummaryResponse(summary.Extract),
	})
}

type PreviewRequest struct {
	Query    string `json:"query" binding:"required"`
	Provider string `json:"provider"`
	Num      int    `json:"num"`
}

// Preview godoc
// @Summary Preview leads for a query
// @Description Searches one query and extracts company names without storing anything.
// @Tags Discovery API
// @Accept json
// @Param project_id path string true "Project ID"
// @Param body body PreviewRequest true "Query to preview"
// @Success 200 {object} ExtractionReportResponse
// @Router /v1/projects/{project_id}/discovery/preview [post]
func (route *DiscoveryRoute) Preview(reqCtx *gin.Context) {
	if _, ok := middleware.GetProjectFromContext(reqCtx); !ok {
		return
	}
	var req PreviewRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.AbortBadRequest(reqCtx, "e06b84ac-fd1f-4c34-80bf-eb6c8d0e2fda", "invalid request body: query is required")
		return
	}
	report, err := route.discoveryService.Preview(reqCtx.Request.Context(), discovery.PreviewRequest{
		Query:    req.Query,
		Provider: req.Provider,
		Num:      req.Num,
	})
	if err != nil {
		responses.AbortWithError(reqCtx, err, "f17c95bd-0e2a-4d45-91c0-fc7d9e1f3aeb")
		return
	}
	reqCtx.JSON(http.StatusOK, DomainToExtractionReportResponse(report))
}

type PlacesRequest struct {
	Query string `json:"query" binding:"required"`
}

// Places godoc
// @Summary Discover leads from a places search
// @Description Runs a Google Maps text search and adds each place as a lead.
// @Tags Discovery API
// @Accept json
// @Param project_id path string true "Project ID"
// @Param body body PlacesRequest true "Text search, e.g. 'solar installers in Perth'"
// @Success 200 {object} PlacesSummaryResponse
// @Router /v1/projects/{project_id}/discovery/places [post]
func (route *DiscoveryRoute) Places(reqCtx *gin.Context) {
	p, ok := middleware.GetProjectFromContext(reqCtx)
	if !ok {
		return
	}
	var req PlacesRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.AbortBadRequest(reqCtx, "028da6ce-1f3b-4e56-a2d1-0d8eaf2a4bfc", "invalid request body: query is required")
		return
	}
	summary, err := route.discoveryService.DiscoverPlaces(reqCtx.Request.Context(), p, req.Query)
	if err != nil {
		responses.AbortWithError(reqCtx, err, "139eb7df-2a4c-4f67-b3e2-1e9fba3b5c0d")
		return
	}
	reqCtx.JSON(http.StatusOK, PlacesSummaryResponse{
		Object:        "discovery.places",
		Query:         summary.Query,
		Places:        summary.Places,
		LeadsCreated:  summary.LeadsCreated,
		LeadsExisting: summary.LeadsExisting,
	})
}
