package service

import (
	"context"
	"strings"

	apperrors "github.com/steamlens/steamlens/internal/errors"
	"github.com/steamlens/steamlens/internal/observability/metrics"
	"github.com/steamlens/steamlens/internal/observability/statsd"
)

// Redirect sites.
const (
	SiteFaceit  = "faceit"
	SiteLeetify = "leetify"
)

// DefaultRedirectPrefixes returns the profile URL prefix of each supported site.
func DefaultRedirectPrefixes() map[string]string {
	return map[string]string{
		SiteFaceit:  "https://www.faceit.com/en/search/player/",
		SiteLeetify: "https://leetify.com/public/profile/",
	}
}

// idResolver turns a profile reference into a canonical Steam ID.
type idResolver interface {
	ResolveID(ctx context.Context, path string) (string, error)
}

// RedirectServiceOptions groups dependencies for RedirectService.
type RedirectServiceOptions struct {
	IDs      idResolver        // Required
	Prefixes map[string]string // Optional: defaults to DefaultRedirectPrefixes
	Metrics  statsd.Sink       // Optional
}

// RedirectService builds third-party profile URLs for a profile reference.
type RedirectService struct {
	ids      idResolver
	prefixes map[string]string
	metrics  statsd.Sink
}

// NewRedirectService constructs a new RedirectService.
func NewRedirectService(opts RedirectServiceOptions) *RedirectService {
	if opts.IDs == nil {
		panic("idResolver is required")
	}

	prefixes := DefaultRedirectPrefixes()
	for site, prefix := range opts.Prefixes {
		if p := strings.TrimSpace(prefix); p != "" {
			prefixes[site] = p
		}
	}
	return &RedirectService{ids: opts.IDs, prefixes: prefixes, metrics: opts.Metrics}
}

// Target returns the URL of path's profile on site.
func (s *RedirectService) Target(ctx context.Context, site, path string) (string, error) {
	prefix, ok := s.prefixes[site]
	if !ok {
		return "", apperrors.NotFound("Unknown redirect site")
	}

	id, err := s.ids.ResolveID(ctx, path)
	if err != nil {
		metrics.EmitRedirect(s.metrics, site, metrics.ResultError)
		return "", err
	}
	metrics.EmitRedirect(s.metrics, site, metrics.ResultSuccess)
	return prefix + id, nil
}

// Sites lists the configured redirect sites.
func (s *RedirectService) Sites() []string {
	out := make([]string, 0, len(s.prefixes))
	for _, site := range []string{SiteFaceit, SiteLeetify} {
		if _, ok := s.prefixes[site]; ok {
			out = append(out, site)
		}
	}
	return out
}
