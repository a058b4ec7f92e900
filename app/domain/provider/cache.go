package provider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"leadgen.ai/leadgen-api/app/utils/logger"
)

func cacheKey(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "leadgen:" + parts[0] + ":" + hex.EncodeToString(sum[:16])
}

// CachedSearcher serves repeated searches from the response cache.
// Cache failures fall through to the provider.
type CachedSearcher struct {
	inner Searcher
	cache ResponseCache
	ttl   time.Duration
}

func NewCachedSearcher(inner Searcher, cache ResponseCache, ttl time.Duration) Searcher {
	if cache == nil {
		return inner
	}
	return &CachedSearcher{inner: inner, cache: cache, ttl: ttl}
}

func (c *CachedSearcher) Name() string {
	return c.inner.Name()
}

func (c *CachedSearcher) Search(ctx context.Context, req SearchRequest) ([]SearchResult, error) {
	key := cacheKey("search", c.inner.Name(), req.Query, fmt.Sprint(req.Num), req.Location, req.Country)
	if raw, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		var results []SearchResult
		if err := json.Unmarshal([]byte(raw), &results); err == nil {
			return results, nil
		}
	} else if err != nil {
		logger.GetLogger().Warnf("search cache read failed: %v", err)
	}
	results, err := c.inner.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(results); err == nil {
		if err := c.cache.Set(ctx, key, string(payload), c.ttl); err != nil {
			logger.GetLogger().Warnf("search cache write failed: %v", err)
		}
	}
	return results, nil
}

type CachedFetcher struct {
	inner ContentFetcher
	cache ResponseCache
	ttl   time.Duration
}

func NewCachedFetcher(inner ContentFetcher, cache ResponseCache, ttl time.Duration) ContentFetcher {
	if cache == nil {
		return inner
	}
	return &CachedFetcher{inner: inner, cache: cache, ttl: ttl}
}

func (c *CachedFetcher) Fetch(ctx context.Context, link string) (string, error) {
	key := cacheKey("content", link)
	if content, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		return content, nil
	} else if err != nil {
		logger.GetLogger().Warnf("content cache read failed: %v", err)
	}
	content, err := c.inner.Fetch(ctx, link)
	if err != nil {
		return "", err
	}
	if content != "" {
		if err := c.cache.Set(ctx, key, content, c.ttl); err != nil {
			logger.GetLogger().Warnf("content cache write failed: %v", err)
		}
	}
	return content, nil
}
