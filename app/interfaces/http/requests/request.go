package requests

import (
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
)

// BindOptionalJSON decodes the body into req when one was sent. An empty
// body leaves req at its defaults.
func BindOptionalJSON(reqCtx *gin.Context, req any) error {
	if reqCtx.Request.Body == nil || reqCtx.Request.ContentLength == 0 {
		return nil
	}
	if err := reqCtx.ShouldBindJSON(req); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// GetIntQuery reads an optional integer query parameter.
func GetIntQuery(reqCtx *gin.Context, name string, fallback int) (int, error) {
	raw := reqCtx.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
