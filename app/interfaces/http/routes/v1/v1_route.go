package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"leadgen.ai/leadgen-api/app/interfaces/http/routes/v1/mcp"
	"leadgen.ai/leadgen-api/app/interfaces/http/routes/v1/projects"
	"leadgen.ai/leadgen-api/config"
)

type V1Route struct {
	projectsRoute *projects.ProjectsRoute
	mcpAPI        *mcp.MCPAPI
}

func NewV1Route(
	projectsRoute *projects.ProjectsRoute,
	mcpAPI *mcp.MCPAPI,
) *V1Route {
	return &V1Route{
		projectsRoute,
		mcpAPI,
	}
}

func (v1Route *V1Route) RegisterRouter(router gin.IRouter) {
	v1Router := router.Group("/v1")
	v1Router.GET("/version", GetVersion)
	v1Route.projectsRoute.RegisterRouter(v1Router)
	v1Route.mcpAPI.RegisterRouter(v1Router)
}

// GetVersion godoc
// @Summary     Get API build version
// @Description Returns the current build version of the API server.
// @Tags        Server API
// @Produce     json
// @Success     200 {object} map[string]string "version info"
// @Router      /v1/version [get]
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":         config.Version,
		"env_reloaded_at": config.EnvReloadedAt,
	})
}
