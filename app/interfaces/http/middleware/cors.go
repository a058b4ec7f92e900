package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"leadgen.ai/leadgen-api/config"
	"leadgen.ai/leadgen-api/config/environment_variables"
)

func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		host := c.Request.Header.Get("Origin")
		if host != "" && (IsAllowedOrigin(host, environment_variables.EnvironmentVariables.ALLOWED_CORS_HOSTS) || config.IsDev()) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", host)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, accept, origin, Cache-Control, X-Requested-With, MCP-Protocol-Version, Mcp-Session-Id, MCP-Client-Id, X-Request-Id")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")
			c.Writer.Header().Set("Access-Control-Expose-Headers", "Mcp-Session-Id, Content-Disposition, X-Request-ID")
			c.Writer.Header().Set("Vary", "Origin")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// IsAllowedOrigin matches origin against exact hosts and "*suffix" wildcards.
func IsAllowedOrigin(origin string, allowed []string) bool {
	for _, allowedHost := range allowed {
		allowedHost = strings.TrimSpace(allowedHost)
		if allowedHost == "" {
			continue
		}
		if strings.HasPrefix(allowedHost, "*") && strings.HasSuffix(origin, strings.TrimPrefix(allowedHost, "*")) {
			return true
		}
		if allowedHost == origin {
			return true
		}
	}
	return false
}
