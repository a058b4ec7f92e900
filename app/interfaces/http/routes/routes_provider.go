package routes

import (
	"github.com/google/wire"
	v1 "leadgen.ai/leadgen-api/app/interfaces/http/routes/v1"
	"leadgen.ai/leadgen-api/app/interfaces/http/routes/v1/mcp"
	mcp_impl "leadgen.ai/leadgen-api/app/interfaces/http/routes/v1/mcp/mcp_impl"
	"leadgen.ai/leadgen-api/app/interfaces/http/routes/v1/projects"
	"leadgen.ai/leadgen-api/app/interfaces/http/routes/v1/projects/datasets"
	"leadgen.ai/leadgen-api/app/interfaces/http/routes/v1/projects/discovery"
	"leadgen.ai/leadgen-api/app/interfaces/http/routes/v1/projects/enrichment"
	"leadgen.ai/leadgen-api/app/interfaces/http/routes/v1/projects/leads"
)

var RouteProvider = wire.NewSet(
	discovery.NewDiscoveryRoute,
	leads.NewLeadsRoute,
	enrichment.NewEnrichmentRoute,
	datasets.NewDatasetsRoute,
	projects.NewProjectsRoute,
	mcp_impl.NewLeadgenMCP,
	mcp.NewMCPAPI,
	v1.NewV1Route,
)
