// Package core holds the ports and cache orchestration shared by the profile services.
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/steamlens/steamlens/internal/domain/model"
)

// CacheRepository defines the interface for caching operations.
// The data layer provides the Redis implementation.
type CacheRepository interface {
	// Set stores a value in the cache with the given key and TTL.
	// If TTL is 0, the key will not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value from the cache by key.
	// Returns nil if the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key from the cache.
	// Returns true if the key was deleted, false if it didn't exist.
	Delete(ctx context.Context, key string) (bool, error)

	// Health checks the health of the cache connection.
	Health(ctx context.Context) error
}

// ProfileCacheService caches profile payloads keyed by canonical Steam ID.
// Vanity resolutions are never cached.
type ProfileCacheService struct {
	cache  CacheRepository
	ttl    time.Duration
	logger *slog.Logger
}

// ProfileCacheConfig holds configuration for profile caching.
type ProfileCacheConfig struct {
	TTL time.Duration `json:"ttl"`
}

// ProfileCacheServiceOptions bundles dependencies for NewProfileCacheService.
type ProfileCacheServiceOptions struct {
	Cache  CacheRepository
	Config ProfileCacheConfig
	Logger *slog.Logger
}

// DefaultProfileCacheConfig returns a ProfileCacheConfig with sensible defaults.
func DefaultProfileCacheConfig() ProfileCacheConfig {
	return ProfileCacheConfig{
		TTL: 5 * time.Minute,
	}
}

// NewProfileCacheService creates a new ProfileCacheService.
func NewProfileCacheService(opts ProfileCacheServiceOptions) *ProfileCacheService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := opts.Config.TTL
	if ttl <= 0 {
		ttl = DefaultProfileCacheConfig().TTL
	}
	return &ProfileCacheService{
		cache:  opts.Cache,
		ttl:    ttl,
		logger: logger.With("component", "profile_cache"),
	}
}

// Get returns the cached profile for id. A miss returns nil without error.
// Entries that no longer decode are evicted and reported as a miss.
func (s *ProfileCacheService) Get(ctx context.Context, id string) (*model.Profile, error) {
	if s == nil || id == "" {
		return nil, nil
	}

	key := profileKey(id)
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("profile cache get: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	profile, err := model.DecodeProfile(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "evicting undecodable profile cache entry", "steam_id", id, "error", err)
		if _, delErr := s.cache.Delete(ctx, key); delErr != nil {
			s.logger.WarnContext(ctx, "profile cache delete failed", "steam_id", id, "error", delErr)
		}
		return nil, nil
	}
	return profile, nil
}

// Put stores profile under id, the canonical Steam ID it was fetched for.
// The key is the requested ID, not profile.SteamID, so Get(id) hits.
func (s *ProfileCacheService) Put(ctx context.Context, id string, profile *model.Profile) error {
	if s == nil || profile == nil || id == "" {
		return nil
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.cache.Set(ctx, profileKey(id), raw, s.ttl); err != nil {
		return fmt.Errorf("profile cache set: %w", err)
	}
	return nil
}

// Invalidate removes the cached profile for id.
func (s *ProfileCacheService) Invalidate(ctx context.Context, id string) error {
	if s == nil || id == "" {
		return nil
	}
	_, err := s.cache.Delete(ctx, profileKey(id))
	return err
}

// Health reports whether the cache backend is reachable.
func (s *ProfileCacheService) Health(ctx context.Context) error {
	if s == nil {
		return nil
	}
	return s.cache.Health(ctx)
}

// profileKey generates a cache key for a profile payload.
func profileKey(id string) string {
	return "profile:json:" + id
}
