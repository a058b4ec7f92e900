package mcpimpl

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"leadgen.ai/leadgen-api/app/domain/discovery"
	"leadgen.ai/leadgen-api/app/domain/enrichment"
	discoveryroute "leadgen.ai/leadgen-api/app/interfaces/http/routes/v1/projects/discovery"
	leadsroute "leadgen.ai/leadgen-api/app/interfaces/http/routes/v1/projects/leads"
)

const (
	ToolGenerateQueries = "generate_queries"
	ToolPreviewLeads    = "preview_leads"
	ToolEnrichCompany   = "enrich_company"

	defaultToolQueryCount = 5
)

// LeadgenMCP exposes the stateless pipeline stages as MCP tools. None of the
// tools write to the project store.
type LeadgenMCP struct {
	generator         *discovery.QueryGenerator
	discoveryService  *discovery.DiscoveryService
	enrichmentService *enrichment.EnrichmentService
}

func NewLeadgenMCP(
	generator *discovery.QueryGenerator,
	discoveryService *discovery.DiscoveryService,
	enrichmentService *enrichment.EnrichmentService,
) *LeadgenMCP {
	return &LeadgenMCP{
		generator:         generator,
		discoveryService:  discoveryService,
		enrichmentService: enrichmentService,
	}
}

type GenerateQueriesArgs struct {
	Goal  string `json:"goal" jsonschema:"required,description=What kind of companies to find, e.g. 'mid-size manufacturers with published sustainability reports'"`
	Count *int   `json:"count,omitempty" jsonschema:"description=Number of distinct queries (default: 5)"`
}

type PreviewLeadsArgs struct {
	Query    string  `json:"query" jsonschema:"required,description=Search query whose results are scanned for company names"`
	Provider *string `json:"provider,omitempty" jsonschema:"description=Search provider: tavily, serpapi or jina"`
	Num      *int    `json:"num,omitempty" jsonschema:"description=Number of search results to scan (default: 10)"`
}

type EnrichCompanyArgs struct {
	Company     string  `json:"company" jsonschema:"required,description=Company name"`
	Attribute   string  `json:"attribute" jsonschema:"required,description=Attribute name, e.g. 'sustainability_report'"`
	Description string  `json:"description" jsonschema:"required,description=What to look for, e.g. 'has published a sustainability report'"`
	Provider    *string `json:"provider,omitempty" jsonschema:"description=Search provider: tavily, serpapi or jina"`
}

func (l *LeadgenMCP) RegisterTool(server *mcpserver.MCPServer) {
	server.AddTool(
		mcp.NewTool(ToolGenerateQueries,
			ReflectToMCPOptions(
				"Generates distinct web search queries that find companies matching a lead generation goal.",
				GenerateQueriesArgs{},
			)...,
		),
		l.GenerateQueries,
	)
	server.AddTool(
		mcp.NewTool(ToolPreviewLeads,
			ReflectToMCPOptions(
				"Runs one web search and extracts the company names mentioned in the results, with the page each name was seen on.",
				PreviewLeadsArgs{},
			)...,
		),
		l.PreviewLeads,
	)
	server.AddTool(
		mcp.NewTool(ToolEnrichCompany,
			ReflectToMCPOptions(
				"Researches one attribute of a company on the web and returns the value with a cited source. Returns 'unknown' when nothing relevant is found.",
				EnrichCompanyArgs{},
			)...,
		),
		l.EnrichCompany,
	)
}

func (l *LeadgenMCP) GenerateQueries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	goal, err := req.RequireString("goal")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	queries, err := l.generator.Generate(ctx, goal, req.GetInt("count", defaultToolQueryCount))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string][]string{"queries": queries})
}

func (l *LeadgenMCP) PreviewLeads(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	report, err := l.discoveryService.Preview(ctx, discovery.PreviewRequest{
		Query:    q,
		Provider: req.GetString("provider", ""),
		Num:      req.GetInt("num", 0),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(discoveryroute.DomainToExtractionReportResponse(report))
}

func (l *LeadgenMCP) EnrichCompany(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	company, err := req.RequireString("company")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	attribute, err := req.RequireString("attribute")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	description, err := req.RequireString("description")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := l.enrichmentService.EnrichCompany(ctx, company, enrichment.AttributeSpec{
		Name:        attribute,
		Description: description,
		Provider:    req.GetString("provider", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(leadsroute.DomainToEnrichmentResultResponse(result))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

