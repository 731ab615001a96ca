package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/clinic-dashboard/internal/config"
	"github.com/wolfman30/clinic-dashboard/internal/session"
	"github.com/wolfman30/clinic-dashboard/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildSessionStore picks the session persistence named by cfg. An
// unreachable Redis falls back to the session file so a login still
// survives between commands.
func BuildSessionStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (session.Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	switch cfg.SessionStore {
	case appconfig.SessionStoreMemory:
		return session.NewMemoryStore(), nil
	case appconfig.SessionStoreRedis:
		if client := BuildRedisClient(ctx, cfg, logger, true); client != nil {
			logger.Info("session store ready", "backend", "redis", "addr", cfg.RedisAddr)
			return session.NewRedisStore(client, "", cfg.SessionTTL), nil
		}
		logger.Warn("falling back to file session store", "path", cfg.SessionFile)
	}
	return session.NewFileStore(cfg.SessionFile), nil
}
