package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/steamlens/steamlens/config"
)

// Run builds every dependency from cfg and serves HTTP until ctx is done.
// Shutdown is graceful; the returned error is nil after a clean stop.
func Run(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (err error) {
	if cfg == nil {
		return errors.New("run requires an AppConfig")
	}
	if logger == nil {
		logger = slog.Default()
	}

	var redisClient redis.UniversalClient
	if cfg.Cache.Enabled {
		redisClient, err = ConnectRedis(ctx, RedisConnectConfig{RedisConfig: cfg.Redis, Logger: logger})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				err = errors.Join(err, fmt.Errorf("close redis: %w", cerr))
			}
		}()
	}

	services, err := NewServices(&ServiceDeps{Config: cfg, RedisClient: redisClient, Logger: logger})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := services.Metrics.Close(); cerr != nil {
			logger.Warn("close statsd client failed", "error", cerr)
		}
	}()

	server := NewHTTPServer(&HTTPServerConfig{Config: cfg, Services: services, Logger: logger})

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", server.Addr, err)
	}

	logger.InfoContext(ctx, "starting HTTP server",
		"addr", ln.Addr().String(),
		"cache", cfg.Cache.Enabled,
		"dev", cfg.IsDev,
	)
	return Serve(ctx, server, ln, logger)
}

// Serve runs server on ln until ctx is canceled or the server fails, then
// shuts it down.
func Serve(ctx context.Context, server *http.Server, ln net.Listener, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		// The parent context is already done; shutdown needs its own deadline.
		return ShutdownHTTPServer(context.WithoutCancel(gctx), server, logger)
	})

	return g.Wait()
}
