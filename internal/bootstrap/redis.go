package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/steamlens/steamlens/config"
)

const redisPingTimeout = 5 * time.Second

// RedisConnectConfig contains configuration for the Redis connection.
type RedisConnectConfig struct {
	RedisConfig config.RedisConfig
	Logger      *slog.Logger
}

// ConnectRedis dials the profile cache's Redis and verifies it with a ping.
// A client that fails the ping is closed before returning.
func ConnectRedis(ctx context.Context, cfg RedisConnectConfig) (*redis.Client, error) {
	opts, err := redisOptions(cfg.RedisConfig)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if pingErr := client.Ping(pingCtx).Err(); pingErr != nil {
		if closeErr := client.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close redis client: %w", closeErr))
		}
		return nil, fmt.Errorf("ping redis: %w", pingErr)
	}

	if cfg.Logger != nil {
		// opts.Addr never carries credentials.
		cfg.Logger.Info("redis connected", "addr", opts.Addr, "db", opts.DB, "tls", opts.TLSConfig != nil)
	}
	return client, nil
}

// redisOptions builds client options from a host:port or redis(s):// URI.
// REDIS_PASSWORD and REDIS_DB fill in what a URL leaves out.
func redisOptions(cfg config.RedisConfig) (*redis.Options, error) {
	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return nil, errors.New("redis configuration requires a URI")
	}

	if !strings.HasPrefix(uri, "redis://") && !strings.HasPrefix(uri, "rediss://") {
		return &redis.Options{Addr: uri, Password: cfg.Password, DB: cfg.DB}, nil
	}

	opts, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if opts.Password == "" {
		opts.Password = cfg.Password
	}
	if opts.DB == 0 {
		opts.DB = cfg.DB
	}
	return opts, nil
}
