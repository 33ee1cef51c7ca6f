package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/steamlens/steamlens/config"
	"github.com/steamlens/steamlens/internal/core"
	"github.com/steamlens/steamlens/internal/data"
	"github.com/steamlens/steamlens/internal/observability/statsd"
	"github.com/steamlens/steamlens/internal/service"
	"github.com/steamlens/steamlens/internal/upstream"
)

// ServiceContainer holds the services served over HTTP.
type ServiceContainer struct {
	Profiles   *service.ProfileService
	Redirects  *service.RedirectService
	Projection *service.ProjectionService
	// Cache is nil when the profile cache is disabled.
	Cache *core.ProfileCacheService
	// Metrics is nil when metrics are disabled.
	Metrics *statsd.Client
}

// ServiceDeps contains dependencies for building services.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient // Optional: enables the profile cache
	Logger      *slog.Logger
}

// NewServices wires the profile API client, the optional cache and metrics
// into the domain services.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps require an AppConfig")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	api, err := upstream.NewClient(upstream.Config{
		BaseURL:   cfg.API.URL,
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build profile API client: %w", err)
	}

	metricsClient := buildMetrics(logger, cfg.Observability.Metrics)
	sink := metricsSink(metricsClient)

	var cache *core.ProfileCacheService
	opts := service.ProfileServiceOptions{
		API: api,
		Runtime: service.ProfileRuntime{
			Logger:  logger,
			Metrics: sink,
		},
	}
	if deps.RedisClient != nil {
		cache = core.NewProfileCacheService(core.ProfileCacheServiceOptions{
			Cache:  data.NewRedisCacheRepo(deps.RedisClient),
			Config: core.ProfileCacheConfig{TTL: cfg.Cache.TTL},
			Logger: logger,
		})
		opts.Cache = cache
	}

	profiles := service.NewProfileService(opts)
	redirects := service.NewRedirectService(service.RedirectServiceOptions{
		IDs:      profiles,
		Prefixes: cfg.Redirects.Prefixes(),
		Metrics:  sink,
	})

	return ServiceContainer{
		Profiles:   profiles,
		Redirects:  redirects,
		Projection: service.NewProjectionService(nil),
		Cache:      cache,
		Metrics:    metricsClient,
	}, nil
}

// buildMetrics dials the StatsD agent. Failures disable metrics rather than
// failing startup.
func buildMetrics(logger *slog.Logger, cfg config.ObservabilityMetricsConfig) *statsd.Client {
	if !cfg.IsEnabled() {
		return nil
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	logger.Info("metrics enabled", "addr", cfg.StatsdAddress, "prefix", cfg.Prefix)
	return client
}

// metricsSink avoids handing a typed nil to the services.
func metricsSink(c *statsd.Client) statsd.Sink {
	if c == nil {
		return nil
	}
	return c
}
