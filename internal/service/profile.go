package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/steamlens/steamlens/internal/core"
	"github.com/steamlens/steamlens/internal/domain/model"
	apperrors "github.com/steamlens/steamlens/internal/errors"
	"github.com/steamlens/steamlens/internal/observability/metrics"
	"github.com/steamlens/steamlens/internal/observability/statsd"
	"github.com/steamlens/steamlens/internal/steamid"
)

// Messages shown to users for unusable profile references.
const (
	MsgMissingProfile = "Missing profile URL"
	MsgInvalidProfile = "Invalid profile URL"
)

// profileCache is the optional cache-aside store for profile payloads.
type profileCache interface {
	Get(ctx context.Context, id string) (*model.Profile, error)
	Put(ctx context.Context, id string, profile *model.Profile) error
}

// ProfileRuntime groups the ambient dependencies of ProfileService.
type ProfileRuntime struct {
	Logger    *slog.Logger
	Metrics   statsd.Sink
	Sanitizer *model.TextSanitizer
	Now       func() time.Time
}

// ProfileServiceOptions groups dependencies for ProfileService.
type ProfileServiceOptions struct {
	API     core.ProfileAPI // Required
	Cache   profileCache    // Optional
	Runtime ProfileRuntime
}

// ProfileResult is a resolved, fetched and sanitized profile.
type ProfileResult struct {
	SteamID string
	Profile *model.Profile
	// Source is metrics.SourceUpstream or metrics.SourceCache.
	Source string
	// Vanity is true when resolving the reference took a vanity lookup.
	Vanity    bool
	Elapsed   time.Duration
	FetchedAt time.Time
}

// ProfileService resolves profile references and fetches profile data.
type ProfileService struct {
	api       core.ProfileAPI
	resolver  *steamid.Resolver
	cache     profileCache
	logger    *slog.Logger
	metrics   statsd.Sink
	sanitizer *model.TextSanitizer
	now       func() time.Time
}

// NewProfileService constructs a new ProfileService.
func NewProfileService(opts ProfileServiceOptions) *ProfileService {
	if opts.API == nil {
		panic("ProfileAPI is required")
	}

	rt := opts.Runtime
	logger := rt.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sanitizer := rt.Sanitizer
	if sanitizer == nil {
		sanitizer = model.NewTextSanitizer()
	}
	now := rt.Now
	if now == nil {
		now = time.Now
	}

	return &ProfileService{
		api:       opts.API,
		resolver:  steamid.NewResolver(opts.API),
		cache:     opts.Cache,
		logger:    logger.With("component", "profile_service"),
		metrics:   rt.Metrics,
		sanitizer: sanitizer,
		now:       now,
	}
}

// ResolveID turns a profile reference into a canonical Steam ID.
//
// An empty reference and one that resolves to nothing canonical are
// validation errors. Upstream failures of the vanity lookup pass through.
func (s *ProfileService) ResolveID(ctx context.Context, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", apperrors.Validation(MsgMissingProfile)
	}

	id, ok, err := s.resolver.Resolve(ctx, path)
	if err != nil {
		return "", apperrors.FromContext(err)
	}
	if !ok || !steamid.IsCanonical(id) {
		return "", apperrors.Validation(MsgInvalidProfile)
	}
	return id, nil
}

// Lookup resolves path and returns the sanitized profile it references.
func (s *ProfileService) Lookup(ctx context.Context, path string) (*ProfileResult, error) {
	start := s.now()
	vanity := steamid.NeedsLookup(strings.TrimSpace(path))

	res, err := s.lookup(ctx, path, start)

	m := metrics.LookupMetric{Vanity: vanity}
	if err != nil {
		m.Result = metrics.ResultError
		m.Err = err
		if !apperrors.IsValidation(err) {
			s.logger.WarnContext(ctx, "profile lookup failed", "path", path, "error", err)
		}
	} else {
		res.Vanity = vanity
		m.Result = metrics.ResultSuccess
		m.Source = res.Source
		m.Duration = res.Elapsed
		s.logger.DebugContext(ctx, "profile lookup",
			"steam_id", res.SteamID,
			"source", res.Source,
			"vanity", vanity,
			"elapsed", res.Elapsed,
		)
	}
	metrics.EmitLookup(s.metrics, m)

	return res, err
}

func (s *ProfileService) lookup(ctx context.Context, path string, start time.Time) (*ProfileResult, error) {
	id, err := s.ResolveID(ctx, path)
	if err != nil {
		return nil, err
	}

	if cached := s.cached(ctx, id); cached != nil {
		return s.result(id, cached, metrics.SourceCache, start), nil
	}

	profile, err := s.api.FetchProfile(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch profile %s: %w", id, apperrors.FromContext(err))
	}
	profile.Sanitize(s.sanitizer)

	if s.cache != nil {
		if err := s.cache.Put(ctx, id, profile); err != nil {
			s.logger.WarnContext(ctx, "profile cache write failed", "steam_id", id, "error", err)
		}
	}
	return s.result(id, profile, metrics.SourceUpstream, start), nil
}

// cached returns the cached profile for id. Cache failures are logged and
// treated as a miss.
func (s *ProfileService) cached(ctx context.Context, id string) *model.Profile {
	if s.cache == nil {
		return nil
	}
	profile, err := s.cache.Get(ctx, id)
	if err != nil {
		s.logger.WarnContext(ctx, "profile cache read failed", "steam_id", id, "error", err)
		return nil
	}
	return profile
}

func (s *ProfileService) result(id string, p *model.Profile, source string, start time.Time) *ProfileResult {
	end := s.now()
	return &ProfileResult{
		SteamID:   id,
		Profile:   p,
		Source:    source,
		Elapsed:   end.Sub(start),
		FetchedAt: end,
	}
}
