package config

import "time"

const defaultProfileCacheTTL = 5 * time.Minute

// RedisConfig contains Redis configuration. URI is either host:port or a
// redis:// or rediss:// URL.
type RedisConfig struct {
	URI      string `env:"URI"      envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}

// CacheConfig controls the optional profile payload cache.
// Redis is only dialed when Enabled is true.
type CacheConfig struct {
	Enabled bool          `env:"PROFILE_CACHE_ENABLED" envDefault:"false"`
	TTL     time.Duration `env:"PROFILE_CACHE_TTL"     envDefault:"5m"`
}

// Sanitize applies guardrails to cache configuration values.
func (c *CacheConfig) Sanitize() {
	if c.TTL <= 0 {
		c.TTL = defaultProfileCacheTTL
	}
}
