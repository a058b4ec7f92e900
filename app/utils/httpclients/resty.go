package httpclients

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"leadgen.ai/leadgen-api/app/utils/contextkeys"
	"leadgen.ai/leadgen-api/app/utils/logger"
	"resty.dev/v3"
)

var redactedHeaders = []string{"Authorization", "X-Api-Key", "X-Goog-Api-Key"}

// NewClient returns a resty client that logs every provider exchange.
// Credentials in headers or the query string never reach the log.
func NewClient(clientName string, timeout time.Duration) *resty.Client {
	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	client.AddRequestMiddleware(func(c *resty.Client, r *resty.Request) error {
		start := time.Now()
		ctx := context.WithValue(r.Context(), contextkeys.HttpClientStartsAt{}, start)
		r.SetContext(ctx)
		return nil
	})
	client.AddResponseMiddleware(func(c *resty.Client, r *resty.Response) error {
		log := logger.GetLogger()
		requestID := r.Request.Context().Value(contextkeys.RequestId{})
		startTime, _ := r.Request.Context().Value(contextkeys.HttpClientStartsAt{}).(time.Time)
		latency := time.Since(startTime)
		fields := logrus.Fields{
			"request_id": requestID,
			"client":     clientName,
			"status":     r.StatusCode(),
			"latency":    latency.String(),
		}
		if raw := r.Request.RawRequest; raw != nil {
			fields["method"] = raw.Method
			fields["host"] = raw.URL.Host
			fields["path"] = raw.URL.Path
			fields["headers"] = redact(raw.Header)
		}
		entry := log.WithFields(fields)
		if r.IsError() {
			entry.Warn("provider request failed")
			return nil
		}
		entry.Debug("provider request")
		return nil
	})
	return client
}

func redact(header http.Header) http.Header {
	clone := header.Clone()
	for _, key := range redactedHeaders {
		if clone.Get(key) != "" {
			clone.Set(key, "[redacted]")
		}
	}
	return clone
}
