package datasets

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"leadgen.ai/leadgen-api/app/domain/dataset"
	"leadgen.ai/leadgen-api/app/domain/query"
	"leadgen.ai/leadgen-api/app/interfaces/http/middleware"
	"leadgen.ai/leadgen-api/app/interfaces/http/responses"
	"leadgen.ai/leadgen-api/app/utils/functional"
)

// uploads larger than this are rejected before parsing
const maxUploadBytes = 32 << 20

type DatasetsRoute struct {
	datasetService *dataset.DatasetService
}

func NewDatasetsRoute(datasetService *dataset.DatasetService) *DatasetsRoute {
	return &DatasetsRoute{datasetService: datasetService}
}

func (route *DatasetsRoute) RegisterRouter(router gin.IRouter) {
	datasetsRouter := router.Group("/datasets")
	datasetsRouter.GET("", route.ListDatasets)
	datasetsRouter.POST("", middleware.TransactionMiddleware(), route.ImportDataset)
}

type DatasetResponse struct {
	ID               uint   `json:"id"`
	Object           string `json:"object"`
	Name             string `json:"name"`
	LeadColumn       string `json:"lead_column"`
	EnrichmentColumn string `json:"enrichment_column,omitempty"`
	RowCount         int    `json:"row_count"`
	CreatedCount     int    `json:"created_count"`
	UpdatedCount     int    `json:"updated_count"`
	SkippedCount     int    `json:"skipped_count"`
	CreatedAt        int64  `json:"created_at"`
}

func domainToDatasetResponse(d *dataset.Dataset) DatasetResponse {
	return DatasetResponse{
		ID:               d.ID,
		Object:           "dataset",
		Name:             d.Name,
		LeadColumn:       d.LeadColumn,
		EnrichmentColumn: d.EnrichmentColumn,
		RowCount:         d.RowCount,
		CreatedCount:     d.CreatedCount,
		UpdatedCount:     d.UpdatedCount,
		SkippedCount:     d.SkippedCount,
		CreatedAt:        d.CreatedAt.Unix(),
	}
}

type RowOutcomeResponse struct {
	Row     int    `json:"row"`
	Company string `json:"company"`
	Action  string `json:"action"`
	Error   string `json:"error,omitempty"`
}

type ImportResponse struct {
	Object    string               `json:"object"`
	Dataset   DatasetResponse      `json:"dataset"`
	Rows      int                  `json:"rows"`
	Created   int                  `json:"created"`
	Updated   int                  `json:"updated"`
	Unchanged int                  `json:"unchanged"`
	Skipped   int                  `json:"skipped"`
	Outcomes  []RowOutcomeResponse `json:"outcomes"`
}

// ListDatasets godoc
// @Summary List imported datasets
// @Tags Datasets API
// @Param project_id path string true "Project ID"
// @Param limit query int false "The maximum number of items to return" default(20)
// @Param offset query int false "Number of items to skip"
// @Param order query string false "asc or desc" default(asc)
// @Success 200 {object} responses.ListResponse[DatasetResponse]
// @Router /v1/projects/{project_id}/datasets [get]
func (route *DatasetsRoute) ListDatasets(reqCtx *gin.Context) {
	p, ok := middleware.GetProjectFromContext(reqCtx)
	if !ok {
		return
	}
	ctx := reqCtx.Request.Context()
	pagination, err := query.GetPaginationFromQuery(reqCtx)
	if err != nil {
		responses.AbortBadRequest(reqCtx, "5b2d4f6b-9dae-4b2c-a46a-8c0d2e4f6a9b", err.Error())
		return
	}
	items, err := route.datasetService.Find(ctx, p, pagination)
	if err != nil {
		responses.AbortWithError(reqCtx, err, "6c3e5a7c-aebf-4c3d-b57b-9d1e3f5a7bac")
		return
	}
	total, err := route.datasetService.Count(ctx, p)
	if err != nil {
		responses.AbortWithError(reqCtx, err, "7d4f6b8d-bfc0-4d4e-868c-ae2f4a6b8cbd")
		return
	}
	offset := 0
	if pagination.Offset != nil {
		offset = *pagination.Offset
	}
	cursor := &responses.PageCursor{Total: total, HasMore: int64(offset+len(items)) < total}
	reqCtx.JSON(http.StatusOK, responses.NewListResponse(functional.Map(items, domainToDatasetResponse), cursor))
}

// ImportDataset godoc
// @Summary Import a CSV dataset
// @Description Merges the uploaded CSV into the project's leads. Rows match existing leads by normalized company name and only fill absent attributes. Skipped rows are reported per row.
// @Tags Datasets API
// @Accept multipart/form-data
// @Param project_id path string true "Project ID"
// @Param file formData file true "CSV file with a header row"
// @Param name formData string false "Dataset name, defaults to the file name"
// @Param lead_column formData string true "Column holding the company name"
// @Param enrichment_column formData string false "Marker attribute for imported rows"
// @Param enrichment_column_exists formData bool false "The marker column is already in the CSV"
// @Success 201 {object} ImportResponse
// @Failure 400 {object} responses.ErrorResponse
// @Router /v1/projects/{project_id}/datasets [post]
func (route *DatasetsRoute) ImportDataset(reqCtx *gin.Context) {
	p, ok := middleware.GetProjectFromContext(reqCtx)
	if !ok {
		return
	}
	reqCtx.Request.Body = http.MaxBytesReader(reqCtx.Writer, reqCtx.Request.Body, maxUploadBytes)
	fileHeader, err := reqCtx.FormFile("file")
	if err != nil {
		responses.AbortBadRequest(reqCtx, "8e5a7c9e-c0d1-4e5f-979d-bf3a5b7c9dce", "a CSV file is required in the \"file\" field")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		responses.AbortBadRequest(reqCtx, "9f6b8daf-d1e2-4f6a-88ae-c04b6c8daedf", "uploaded file cannot be read")
		return
	}
	defer file.Close()

	name := strings.TrimSpace(reqCtx.PostForm("name"))
	if name == "" {
		name = fileHeader.Filename
	}
	columnExists := false
	if raw := reqCtx.PostForm("enrichment_column_exists"); raw != "" {
		columnExists, err = strconv.ParseBool(raw)
		if err != nil {
			responses.AbortBadRequest(reqCtx, "a07c9eb0-e2f3-4a7b-99bf-d15c7d9ebfe0", "enrichment_column_exists must be true or false")
			return
		}
	}
	result, err := route.datasetService.Import(reqCtx.Request.Context(), p, dataset.ImportRequest{
		Name: name,
		CSV:  file,
		Options: dataset.MergeOptions{
			LeadColumn:             strings.TrimSpace(reqCtx.PostForm("lead_column")),
			EnrichmentColumn:       strings.TrimSpace(reqCtx.PostForm("enrichment_column")),
			EnrichmentColumnExists: columnExists,
		},
	})
	if err != nil {
		responses.AbortWithError(reqCtx, err, "b18dafc1-f3a4-4b8c-8ac0-e26d8eafc0f1")
		return
	}
	summary := result.Summary
	reqCtx.JSON(http.StatusCreated, ImportResponse{
		Object:    "dataset.import",
		Dataset:   domainToDatasetResponse(result.Dataset),
		Rows:      summary.Rows,
		Created:   summary.Created,
		Updated:   summary.Updated,
		Unchanged: summary.Unchanged,
		Skipped:   summary.Skipped,
		Outcomes: functional.Map(summary.Outcomes, func(o dataset.RowOutcome) RowOutcomeResponse {
			return RowOutcomeResponse{Row: o.Row, Company: o.Company, Action: string(o.Action), Error: o.Error}
		}),
	})
}
