package projects

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"leadgen.ai/leadgen-api/app/domain/project"
	"leadgen.ai/leadgen-api/app/domain/query"
	"leadgen.ai/leadgen-api/app/interfaces/http/middleware"
	"leadgen.ai/leadgen-api/app/interfaces/http/responses"
	datasetsroute "leadgen.ai/leadgen-api/app/interfaces/http/routes/v1/projects/datasets"
	discoveryroute "leadgen.ai/leadgen-api/app/interfaces/http/routes/v1/projects/discovery"
	enrichmentroute "leadgen.ai/leadgen-api/app/interfaces/http/routes/v1/projects/enrichment"
	leadsroute "leadgen.ai/leadgen-api/app/interfaces/http/routes/v1/projects/leads"
	"leadgen.ai/leadgen-api/app/utils/functional"
	"leadgen.ai/leadgen-api/app/utils/ptr"
)

type ProjectsRoute struct {
	projectService  *project.ProjectService
	discoveryRoute  *discoveryroute.DiscoveryRoute
	leadsRoute      *leadsroute.LeadsRoute
	enrichmentRoute *enrichmentroute.EnrichmentRoute
	datasetsRoute   *datasetsroute.DatasetsRoute
}

func NewProjectsRoute(
	projectService *project.ProjectService,
	discoveryRoute *discoveryroute.DiscoveryRoute,
	leadsRoute *leadsroute.LeadsRoute,
	enrichmentRoute *enrichmentroute.EnrichmentRoute,
	datasetsRoute *datasetsroute.DatasetsRoute,
) *ProjectsRoute {
	return &ProjectsRoute{
		projectService,
		discoveryRoute,
		leadsRoute,
		enrichmentRoute,
		datasetsRoute,
	}
}

func (projectsRoute *ProjectsRoute) RegisterRouter(router gin.IRouter) {
	projectsRouter := router.Group("/projects")
	projectsRouter.GET("", projectsRoute.GetProjects)
	projectsRouter.POST("", middleware.TransactionMiddleware(), projectsRoute.CreateProject)

	projectIdRouter := projectsRouter.Group(
		fmt.Sprintf("/:%s", middleware.ProjectPathParam),
		middleware.ProjectMiddleware(projectsRoute.projectService),
	)
	projectIdRouter.GET("", projectsRoute.GetProject)
	projectIdRouter.PATCH("", middleware.TransactionMiddleware(), projectsRoute.UpdateProject)
	projectIdRouter.DELETE("", middleware.TransactionMiddleware(), projectsRoute.DeleteProject)
	projectsRoute.discoveryRoute.RegisterRouter(projectIdRouter)
	projectsRoute.leadsRoute.RegisterRouter(projectIdRouter)
	projectsRoute.enrichmentRoute.RegisterRouter(projectIdRouter)
	projectsRoute.datasetsRoute.RegisterRouter(projectIdRouter)
}

type ProjectResponse struct {
	ID              string `json:"id"`
	Object          string `json:"object"`
	Name            string `json:"name"`
	GoalDescription string `json:"goal_description"`
	Status          string `json:"status"`
	LeadsCollected  int    `json:"leads_collected"`
	DatasetsAdded   int    `json:"datasets_added"`
	CreatedAt       int64  `json:"created_at"`
	UpdatedAt       int64  `json:"updated_at"`
}

func domainToProjectResponse(p *project.Project) ProjectResponse {
	return ProjectResponse{
		ID:              p.PublicID,
		Object:          "project",
		Name:            p.Name,
		GoalDescription: p.GoalDescription,
		Status:          string(p.Status),
		LeadsCollected:  p.LeadsCollected,
		DatasetsAdded:   p.DatasetsAdded,
		CreatedAt:       p.CreatedAt.Unix(),
		UpdatedAt:       p.UpdatedAt.Unix(),
	}
}

type CreateProjectRequest struct {
	Name            string `json:"name" binding:"required"`
	GoalDescription string `json:"goal_description"`
	Status          string `json:"status"`
}

type UpdateProjectRequest struct {
	Name            *string `json:"name"`
	GoalDescription *string `json:"goal_description"`
	Status          *string `json:"status"`
}

// GetProjects godoc
// @Summary List projects
// @Description Retrieves a paginated list of projects.
// @Tags Projects API
// @Param limit query int false "The maximum number of items to return" default(20)
// @Param last query string false "The ID of the last project from the previous page"
// @Param order query string false "asc or desc" default(asc)
// @Param status query string false "Filter by status: draft, in_progress or completed"
// @Success 200 {object} responses.ListResponse[ProjectResponse]
// @Failure 400 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/projects [get]
func (api *ProjectsRoute) GetProjects(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()
	projectService := api.projectService
	pagination, err := query.GetCursorPaginationFromQuery(reqCtx, func(last string) (*uint, error) {
		entity, err := projectService.GetProjectByPublicID(ctx, last)
		if err != nil {
			return nil, err
		}
		return &entity.ID, nil
	})
	if err != nil {
		responses.AbortBadRequest(reqCtx, "4434f5ed-89f4-4a62-9fef-8ca53336dcda", err.Error())
		return
	}
	filter := project.ProjectFilter{}
	if status := reqCtx.Query("status"); status != "" {
		filter.Status = &status
	}
	projects, err := projectService.Find(ctx, filter, pagination)
	if err != nil {
		responses.AbortWithError(reqCtx, err, "29d3d0b0-e587-4f20-9adb-1ab9aa666b38")
		return
	}
	pageCursor, err := responses.BuildCursorPage(
		projects,
		func(t *project.Project) *string {
			return &t.PublicID
		},
		func() ([]*project.Project, error) {
			return projectService.Find(ctx, filter, &query.Pagination{
				Order: pagination.Order,
				Limit: ptr.ToInt(1),
				After: &projects[len(projects)-1].ID,
			})
		},
		func() (int64, error) {
			return projectService.CountProjects(ctx, filter)
		},
	)
	if err != nil {
		responses.AbortWithError(reqCtx, err, "6a0ee74e-d6fd-4be8-91b3-03a594b8cd2e")
		return
	}
	result := functional.Map(projects, domainToProjectResponse)
	reqCtx.JSON(http.StatusOK, responses.NewListResponse(result, pageCursor))
}

// CreateProject godoc
// @Summary Create project
// @Description Creates a project with a name and a goal description used for query generation.
// @Tags Projects API
// @Accept json
// @Produce json
// @Param body body CreateProjectRequest true "Project payload"
// @Success 201 {object} ProjectResponse
// @Failure 400 {object} responses.ErrorResponse
// @Router /v1/projects [post]
func (api *ProjectsRoute) CreateProject(reqCtx *gin.Context) {
	var req CreateProjectRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.AbortBadRequest(reqCtx, "c6f4a1f1-2d7e-4b61-9a15-3e8d0b7f2c44", "invalid request body: name is required")
		return
	}
	p, err := api.projectService.CreateProjectWithPublicID(reqCtx.Request.Context(), &project.Project{
		Name:            req.Name,
		GoalDescription: req.GoalDescription,
		Status:          project.ProjectStatus(req.Status),
	})
	if err != nil {
		responses.AbortWithError(reqCtx, err, "e1a8b3c2-7f4d-4a9e-b5c6-1d2e3f4a5b6c")
		return
	}
	reqCtx.JSON(http.StatusCreated, domainToProjectResponse(p))
}

// GetProject godoc
// @Summary Get project
// @Tags Projects API
// @Param project_id path string true "Project ID"
// @Success 200 {object} ProjectResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/projects/{project_id} [get]
func (api *ProjectsRoute) GetProject(reqCtx *gin.Context) {
	p, ok := middleware.GetProjectFromContext(reqCtx)
	if !ok {
		return
	}
	reqCtx.JSON(http.StatusOK, domainToProjectResponse(p))
}

// UpdateProject godoc
// @Summary Update project
// @Tags Projects API
// @Accept json
// @Param project_id path string true "Project ID"
// @Param body body UpdateProjectRequest true "Fields to change"
// @Success 200 {object} ProjectResponse
// @Failure 400 {object} responses.ErrorResponse
// @Router /v1/projects/{project_id} [patch]
func (api *ProjectsRoute) UpdateProject(reqCtx *gin.Context) {
	p, ok := middleware.GetProjectFromContext(reqCtx)
	if !ok {
		return
	}
	var req UpdateProjectRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.AbortBadRequest(reqCtx, "0f8e7d6c-5b4a-4392-8170-6f5e4d3c2b1a", "invalid request body")
		return
	}
	updated, err := api.projectService.UpdateProject(reqCtx.Request.Context(), p, project.ProjectUpdate{
		Name:            req.Name,
		GoalDescription: req.GoalDescription,
		Status:          req.Status,
	})
	if err != nil {
		responses.AbortWithError(reqCtx, err, "9b8a7c6d-5e4f-4031-a2b3-c4d5e6f7a8b9")
		return
	}
	reqCtx.JSON(http.StatusOK, domainToProjectResponse(updated))
}

type DeletedResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// DeleteProject godoc
// @Summary Delete project
// @Description Deletes the project with its leads, search results and datasets.
// @Tags Projects API
// @Param project_id path string true "Project ID"
// @Success 200 {object} DeletedResponse
// @Router /v1/projects/{project_id} [delete]
func (api *ProjectsRoute) DeleteProject(reqCtx *gin.Context) {
	p, ok := middleware.GetProjectFromContext(reqCtx)
	if !ok {
		return
	}
	if err := api.projectService.DeleteProject(reqCtx.Request.Context(), p); err != nil {
		responses.AbortWithError(reqCtx, err, "7c6b5a49-3827-4165-9e8d-7c6b5a493827")
		return
	}
	reqCtx.JSON(http.StatusOK, DeletedResponse{ID: p.PublicID, Object: "project.deleted", Deleted: true})
}
