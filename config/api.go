package config

import (
	"strings"
	"time"
)

const (
	defaultAPITimeout   = 10 * time.Second
	defaultAPIUserAgent = "steamlens"
)

// APIConfig configures the client of the profile API.
type APIConfig struct {
	// URL is the API base, e.g. "https://api.example.com". Requests go to
	// <URL>/vanity/<name> and <URL>/json/<id>.
	URL string `env:"API_URL,required"`

	// Timeout bounds each API request.
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"10s"`

	UserAgent string `env:"API_USER_AGENT" envDefault:"steamlens"`
}

// Sanitize applies guardrails to API configuration values.
func (c *APIConfig) Sanitize() {
	c.URL = strings.TrimRight(strings.TrimSpace(c.URL), "/")
	if c.Timeout <= 0 {
		c.Timeout = defaultAPITimeout
	}
	if c.UserAgent = strings.TrimSpace(c.UserAgent); c.UserAgent == "" {
		c.UserAgent = defaultAPIUserAgent
	}
}

// RedirectConfig overrides the profile URL prefixes of third-party sites.
// Empty values keep the built-in prefix.
type RedirectConfig struct {
	FaceitPrefix  string `env:"FACEIT_PROFILE_PREFIX"`
	LeetifyPrefix string `env:"LEETIFY_PROFILE_PREFIX"`
}

// Sanitize trims whitespace from the prefixes.
func (c *RedirectConfig) Sanitize() {
	c.FaceitPrefix = strings.TrimSpace(c.FaceitPrefix)
	c.LeetifyPrefix = strings.TrimSpace(c.LeetifyPrefix)
}

// Prefixes returns the configured overrides keyed by site name.
func (c RedirectConfig) Prefixes() map[string]string {
	out := make(map[string]string, 2)
	if c.FaceitPrefix != "" {
		out["faceit"] = c.FaceitPrefix
	}
	if c.LeetifyPrefix != "" {
		out["leetify"] = c.LeetifyPrefix
	}
	return out
}
