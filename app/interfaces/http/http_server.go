package http

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"leadgen.ai/leadgen-api/app/interfaces/http/middleware"
	v1 "leadgen.ai/leadgen-api/app/interfaces/http/routes/v1"
	"leadgen.ai/leadgen-api/app/utils/logger"
	"leadgen.ai/leadgen-api/config/environment_variables"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "leadgen.ai/leadgen-api/docs"
)

type HttpServer struct {
	engine  *gin.Engine
	v1Route *v1.V1Route
}

func (s *HttpServer) bindSwagger() {
	g := s.engine.Group("/")

	g.GET("/api/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func NewHttpServer(v1Route *v1.V1Route) *HttpServer {
	if os.Getenv("local_dev") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	server := HttpServer{
		gin.New(),
		v1Route,
	}
	server.engine.Use(gin.Recovery())
	server.engine.Use(middleware.CORS())
	server.engine.Use(middleware.LoggerMiddleware(logger.GetLogger()))
	server.engine.GET("/healthcheck", func(c *gin.Context) {
		c.JSON(http.StatusOK, "ok")
	})
	server.bindSwagger()
	root := server.engine.Group("/")
	server.v1Route.RegisterRouter(root)
	return &server
}

// Handler exposes the engine for in-process requests.
func (httpServer *HttpServer) Handler() http.Handler {
	return httpServer.engine
}

func (httpServer *HttpServer) Run() error {
	port := environment_variables.EnvironmentVariables.HTTP_PORT
	if err := httpServer.engine.Run(fmt.Sprintf(":%d", port)); err != nil {
		return err
	}
	return nil
}
