package mcp

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestMCPMethodGuardAppendsActivity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	api := &MCPAPI{}
	guard := MCPMethodGuard(map[string]bool{
		"ping":       true,
		"tools/call": true,
	}, api)

	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)
	req, _ := http.NewRequest(http.MethodPost, "/mcp", bytes.NewBufferString(`{"method":"ping"}`))
	req.Header.Set("Content-Type", "application/json")
	ctx.Request = req

	guard(ctx)

	if len(api.activityLog) != 1 {
		t.Fatalf("expected 1 activity entry, got %d", len(api.activityLog))
	}
	if api.activityLog[0].Method != "ping" {
		t.Fatalf("expected method ping, got %s", api.activityLog[0].Method)
	}
	if api.activityLog[0].ClientIP != nil {
		t.Fatalf("expected no client ip for synthetic request")
	}

	recorder2 := httptest.NewRecorder()
	ctx2, _ := gin.CreateTestContext(recorder2)
	req2, _ := http.NewRequest(http.MethodPost, "/mcp", bytes.NewBufferString(`{"method":"tools/call","params":{"name":"preview_leads"}}`))
	req2.Header.Set("Content-Type", "application/json")
	ctx2.Request = req2

	guard(ctx2)

	if len(api.activityLog) != 2 {
		t.Fatalf("expected 2 activity entries, got %d", len(api.activityLog))
	}
	if api.activityLog[1].Tool == nil || *api.activityLog[1].Tool != "preview_leads" {
		if api.activityLog[1].Tool == nil {
			t.Fatalf("expected tool preview_leads, got nil")
		}
		t.Fatalf("expected tool preview_leads, got %s", *api.activityLog[1].Tool)
	}
}

func TestMCPAPIGetActivity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	api := &MCPAPI{}
	api.appendActivity("10.0.0.1", "ping", "")
	api.appendActivity("", "tools/list", "")

	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)

	api.GetActivity(ctx)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}
}

func TestMCPMethodGuardRejects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	api := &MCPAPI{}
	guard := MCPMethodGuard(map[string]bool{"ping": true}, api)

	for _, body := range []string{`{"method":"resources/read"}`, `not json`} {
		recorder := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(recorder)
		req, _ := http.NewRequest(http.MethodPost, "/mcp", bytes.NewBufferString(body))
		ctx.Request = req

		guard(ctx)

		if recorder.Code != http.StatusBadRequest || !ctx.IsAborted() {
			t.Fatalf("expected 400 for %s, got %d", body, recorder.Code)
		}
	}
	if len(api.activityLog) != 0 {
		t.Fatalf("rejected calls must not be logged, got %d", len(api.activityLog))
	}
}

func TestMCPMethodGuardPassesStreamRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	guard := MCPMethodGuard(map[string]bool{}, nil)
	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)
	ctx.Request, _ = http.NewRequest(http.MethodGet, "/mcp", nil)

	guard(ctx)

	if ctx.IsAborted() {
		t.Fatalf("GET must reach the stream handler")
	}
}

func TestActivityLogIsBounded(t *testing.T) {
	api := &MCPAPI{}
	for i := 0; i < maxActivityEntries+10; i++ {
		api.appendActivity("", "ping", "")
	}
	if len(api.activityLog) != maxActivityEntries {
		t.Fatalf("expected %d entries, got %d", maxActivityEntries, len(api.activityLog))
	}
}
