// Package providers holds helpers shared by the external search, fetch and
// language model adapters.
package providers

import (
	"context"
	"strings"
	"time"

	"leadgen.ai/leadgen-api/app/domain/provider"
	"leadgen.ai/leadgen-api/app/utils/logger"
)

var dateLayouts = []string{
	time.RFC3339,
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Mon, 02 Jan 2006 15:04:05 MST",
}

// ParseDate reads the publication dates search providers return. Relative
// dates such as "3 days ago" are not supported and yield nil.
func ParseDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

// FallbackFetcher reads pages through primary and retries failures with
// secondary.
type FallbackFetcher struct {
	primary   provider.ContentFetcher
	secondary provider.ContentFetcher
}

var _ provider.ContentFetcher = (*FallbackFetcher)(nil)

func NewFallbackFetcher(primary, secondary provider.ContentFetcher) *FallbackFetcher {
	return &FallbackFetcher{primary: primary, secondary: secondary}
}

func (f *FallbackFetcher) Fetch(ctx context.Context, link string) (string, error) {
	content, err := f.primary.Fetch(ctx, link)
	if err == nil && strings.TrimSpace(content) != "" {
		return content, nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if err != nil {
		logger.GetLogger().Debugf("primary fetch of %s failed, falling back: %v", link, err)
	}
	return f.secondary.Fetch(ctx, link)
}
