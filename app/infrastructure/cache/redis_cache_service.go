package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"leadgen.ai/leadgen-api/app/domain/cron"
	"leadgen.ai/leadgen-api/app/domain/provider"
	"leadgen.ai/leadgen-api/app/utils/logger"
	"leadgen.ai/leadgen-api/config/environment_variables"
)

type RedisCacheService struct {
	client redis.UniversalClient
	rs     *redsync.Redsync
}

var (
	_ provider.ResponseCache = (*RedisCacheService)(nil)
	_ cron.JobLocker         = (*RedisCacheService)(nil)
)

// NewRedisFromEnv connects to Redis when REDIS_URL is set. Without it, or
// when Redis cannot be reached, it returns nil and callers run uncached and
// unlocked.
func NewRedisFromEnv() *RedisCacheService {
	redisURL := environment_variables.EnvironmentVariables.REDIS_URL
	if redisURL == "" {
		logger.GetLogger().Info("REDIS_URL not set, provider response cache disabled")
		return nil
	}
	service, err := NewRedisCacheService(redisURL)
	if err != nil {
		logger.GetLogger().Errorf("provider response cache disabled: %v", err)
		return nil
	}
	return service
}

func NewResponseCache(service *RedisCacheService) provider.ResponseCache {
	if service == nil {
		return nil
	}
	return service
}

func NewJobLocker(service *RedisCacheService) cron.JobLocker {
	if service == nil {
		return nil
	}
	return service
}

func NewRedisCacheService(redisURL string) (*RedisCacheService, error) {
	opts, err := buildUniversalOptions(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	if pwd := environment_variables.EnvironmentVariables.REDIS_PASSWORD; pwd != "" {
		opts.Password = pwd
	}

	if dbVal := environment_variables.EnvironmentVariables.REDIS_DB; dbVal != 0 {
		opts.DB = dbVal
	}

	if len(opts.Addrs) > 1 && opts.DB != 0 {
		logger.GetLogger().Warn("Ignoring non-zero REDIS_DB when using Redis Cluster configuration")
		opts.DB = 0
	}

	client := redis.NewUniversalClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.GetLogger().Info("Successfully connected to Redis")
	return &RedisCacheService{
		client: client,
		rs:     redsync.New(goredis.NewPool(client)),
	}, nil
}

// buildUniversalOptions accepts a comma separated list of redis:// URLs or
// host:port pairs. More than one address selects cluster mode.
func buildUniversalOptions(raw string) (*redis.UniversalOptions, error) {
	parts := strings.Split(raw, ",")
	opts := &redis.UniversalOptions{}

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if !strings.Contains(part, "://") {
			opts.Addrs = append(opts.Addrs, part)
			continue
		}
		parsed, err := redis.ParseURL(part)
		if err != nil {
			return nil, err
		}
		opts.Addrs = append(opts.Addrs, parsed.Addr)
		if opts.Username == "" {
			opts.Username = parsed.Username
		}
		if opts.Password == "" {
			opts.Password = parsed.Password
		}
		if opts.DB == 0 {
			opts.DB = parsed.DB
		}
		if opts.TLSConfig == nil {
			opts.TLSConfig = parsed.TLSConfig
		}
		if opts.DialTimeout == 0 {
			opts.DialTimeout = parsed.DialTimeout
		}
	}

	if len(opts.Addrs) == 0 {
		return nil, fmt.Errorf("no Redis addresses provided")
	}

	return opts, nil
}

func (r *RedisCacheService) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

func (r *RedisCacheService) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get value: %w", err)
	}
	return val, true, nil
}

// WithLock runs fn only if the named lock can be taken on the first try.
// It reports false when another holder owns the lock.
func (r *RedisCacheService) WithLock(ctx context.Context, name string, ttl time.Duration, fn func() error) (bool, error) {
	mutex := r.rs.NewMutex(name, redsync.WithExpiry(ttl), redsync.WithTries(1))
	if err := mutex.LockContext(ctx); err != nil {
		logger.GetLogger().Debugf("lock %s not acquired: %v", name, err)
		return false, nil
	}
	defer func() {
		if _, err := mutex.UnlockContext(ctx); err != nil {
			logger.GetLogger().Warnf("failed to release lock %s: %v", name, err)
		}
	}()
	return true, fn()
}

func (r *RedisCacheService) Close() error {
	return r.client.Close()
}
