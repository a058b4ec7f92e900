package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestIsAllowedOrigin(t *testing.T) {
	allowed := []string{"https://app.example.com", "*.leadgen.test", " "}
	cases := map[string]bool{
		"https://app.example.com":   true,
		"https://ui.leadgen.test":   true,
		"https://evil.example.com":  false,
		"https://leadgen.test.evil": false,
	}
	for origin, want := range cases {
		if got := IsAllowedOrigin(origin, allowed); got != want {
			t.Errorf("IsAllowedOrigin(%q) = %v, want %v", origin, got, want)
		}
	}
}

func TestLoggerMiddlewareSetsRequestIDAndSkipsUploads(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.InfoLevel)

	router := gin.New()
	router.Use(LoggerMiddleware(log))
	router.POST("/upload", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewBufferString("company\nAcme\n"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	router.ServeHTTP(recorder, req)

	if recorder.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected a request id header")
	}
	entry := hook.LastEntry()
	if entry == nil {
		t.Fatalf("expected a log entry")
	}
	if entry.Data["req_body"] != "" {
		t.Fatalf("multipart bodies must not be logged, got %v", entry.Data["req_body"])
	}
	if entry.Data["resp_body"] != `{"ok":true}` {
		t.Fatalf("unexpected response body %v", entry.Data["resp_body"])
	}
}
