package mcp

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"leadgen.ai/leadgen-api/app/interfaces/http/responses"
	mcpimpl "leadgen.ai/leadgen-api/app/interfaces/http/routes/v1/mcp/mcp_impl"
	"leadgen.ai/leadgen-api/app/utils/ptr"
	"leadgen.ai/leadgen-api/config"
)

const maxActivityEntries = 200

func MCPMethodGuard(allowedMethods map[string]bool, api *MCPAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		// GET opens the server event stream and DELETE ends a session
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		var req struct {
			Method string                 `json:"method"`
			Params map[string]interface{} `json:"params"`
		}

		if err := json.Unmarshal(bodyBytes, &req); err != nil {
			responses.AbortBadRequest(c, "c2e4f6a8-1b3d-4e5f-a7c9-0b2d4f6a8c1e", "invalid MCP request body")
			return
		}

		if !allowedMethods[req.Method] {
			responses.AbortBadRequest(c, "d3f5a7b9-2c4e-4f6a-b8da-1c3e5a7b9d2f", "MCP method not allowed: "+req.Method)
			return
		}

		if api != nil {
			api.appendActivity(c.ClientIP(), req.Method, extractToolName(req.Method, req.Params))
		}

		c.Next()
	}
}

func extractToolName(method string, params map[string]interface{}) string {
	if method != "tools/call" {
		return ""
	}
	if params == nil {
		return ""
	}
	if raw, ok := params["name"]; ok {
		if value, okCast := raw.(string); okCast {
			return value
		}
	}
	if raw, ok := params["tool"]; ok {
		if value, okCast := raw.(string); okCast {
			return value
		}
	}
	return ""
}

type MCPAPI struct {
	LeadgenMCP  *mcpimpl.LeadgenMCP
	MCPServer   *mcpserver.MCPServer
	activityLog []*MCPActivityResponse
	activityMu  sync.Mutex
}

type MCPActivityResponse struct {
	Object    string  `json:"object"`
	Method    string  `json:"method"`
	Tool      *string `json:"tool,omitempty"`
	ClientIP  *string `json:"client_ip,omitempty"`
	CreatedAt int64   `json:"created_at"`
}

func NewMCPAPI(leadgenMCP *mcpimpl.LeadgenMCP) *MCPAPI {
	mcpSrv := mcpserver.NewMCPServer("leadgen", config.Version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)
	return &MCPAPI{
		LeadgenMCP: leadgenMCP,
		MCPServer:  mcpSrv,
	}
}

// MCPStream
// @Summary MCP streamable endpoint
// @Description Handles Model Context Protocol (MCP) requests over an HTTP stream. Tools: generate_queries, preview_leads, enrich_company.
// @Tags MCP API
// @Accept json
// @Produce text/event-stream
// @Param request body any true "MCP request payload"
// @Success 200 {string} string "Streamed response (SSE or chunked transfer)"
// @Router /v1/mcp [post]
func (mcpAPI *MCPAPI) RegisterRouter(router *gin.RouterGroup) {
	mcpAPI.LeadgenMCP.RegisterTool(mcpAPI.MCPServer)

	mcpHttpHandler := mcpserver.NewStreamableHTTPServer(mcpAPI.MCPServer)
	router.Any(
		"/mcp",
		MCPMethodGuard(map[string]bool{
			// Initialization / handshake
			"initialize":                true,
			"notifications/initialized": true,
			"ping":                      true,

			// Tools
			"tools/list": true,
			"tools/call": true,
		}, mcpAPI),
		gin.WrapH(mcpHttpHandler))

	router.GET("/mcp/activity", mcpAPI.GetActivity)
}

// GetActivity godoc
// @Summary List MCP activity
// @Description Returns recent Model Context Protocol calls, newest last.
// @Tags MCP API
// @Success 200 {object} responses.ListResponse[MCPActivityResponse]
// @Router /v1/mcp/activity [get]
func (mcpAPI *MCPAPI) GetActivity(reqCtx *gin.Context) {
	mcpAPI.activityMu.Lock()
	data := make([]*MCPActivityResponse, len(mcpAPI.activityLog))
	copy(data, mcpAPI.activityLog)
	mcpAPI.activityMu.Unlock()
	reqCtx.JSON(http.StatusOK, responses.NewListResponse(data, &responses.PageCursor{Total: int64(len(data))}))
}

func (mcpAPI *MCPAPI) appendActivity(clientIP string, method string, tool string) {
	entry := &MCPActivityResponse{
		Object:    "mcp.activity",
		Method:    method,
		CreatedAt: time.Now().Unix(),
	}
	if tool != "" {
		entry.Tool = ptr.ToString(tool)
	}
	if clientIP != "" {
		entry.ClientIP = ptr.ToString(clientIP)
	}
	mcpAPI.activityMu.Lock()
	defer mcpAPI.activityMu.Unlock()
	mcpAPI.activityLog = append(mcpAPI.activityLog, entry)
	if len(mcpAPI.activityLog) > maxActivityEntries {
		mcpAPI.activityLog = mcpAPI.activityLog[len(mcpAPI.activityLog)-maxActivityEntries:]
	}
}
