package httpclients

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"leadgen.ai/leadgen-api/app/domain/common"
	"resty.dev/v3"
)

const maxErrorBody = 300

// CheckResponse turns a transport error or non-2xx status into a typed error.
// Network failures, timeouts, 429 and 5xx are retryable provider errors;
// rejected credentials are configuration errors.
func CheckResponse(clientName string, resp *resty.Response, err error) error {
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return common.NewProviderError(fmt.Errorf("%s request failed: %w", clientName, err), "3f5a1c8e-7d21-4b6f-9e0a-2c4d8b1f6a70")
	}
	if resp == nil || !resp.IsError() {
		return nil
	}
	status := resp.StatusCode()
	detail := truncate(resp.String(), maxErrorBody)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return common.NewKindError(common.KindConfiguration,
			fmt.Errorf("%s rejected the credentials: %s", clientName, resp.Status()),
			"b7e2d4a9-1c3f-4e58-8a6d-0f9b2c7e5d13")
	case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
		return common.NewProviderError(fmt.Errorf("%s returned %s: %s", clientName, resp.Status(), detail),
			"6c9d0e1f-2a3b-4c5d-8e7f-9a0b1c2d3e4f")
	default:
		return common.NewError(fmt.Errorf("%s returned %s: %s", clientName, resp.Status(), detail),
			"d1a4f7b2-8c3e-4d9a-b5f6-7e0c2a9d4b18")
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
