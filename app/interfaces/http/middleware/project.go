package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"leadgen.ai/leadgen-api/app/domain/project"
	"leadgen.ai/leadgen-api/app/interfaces/http/responses"
)

const (
	ProjectPathParam  = "project_id"
	projectContextKey = "leadgen.project"
)

// ProjectMiddleware resolves the :project_id path parameter and stores the
// project on the request context.
func ProjectMiddleware(projectService *project.ProjectService) gin.HandlerFunc {
	return func(reqCtx *gin.Context) {
		p, err := projectService.GetProjectByPublicID(reqCtx.Request.Context(), reqCtx.Param(ProjectPathParam))
		if err != nil {
			responses.AbortWithError(reqCtx, err, "5e1c7a3b-9d2f-4c8e-a6b0-3f7d1e9c5a2b")
			return
		}
		SetProject(reqCtx, p)
		reqCtx.Next()
	}
}

func SetProject(reqCtx *gin.Context, p *project.Project) {
	reqCtx.Set(projectContextKey, p)
}

// GetProjectFromContext returns the project set by ProjectMiddleware and
// aborts the request when it is missing.
func GetProjectFromContext(reqCtx *gin.Context) (*project.Project, bool) {
	value, ok := reqCtx.Get(projectContextKey)
	if ok {
		if p, cast := value.(*project.Project); cast {
			return p, true
		}
	}
	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
		Code:  "8d2e6b4f-1a3c-4e5d-9f7b-2c4a6e8d0f1b",
		Error: "project missing from request context",
	})
	return nil, false
}
