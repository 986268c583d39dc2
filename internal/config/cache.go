package config

import (
	"strings"
	"time"
)

// CacheConfig configures the response cache applied to the public menu
// endpoints. The menu changes rarely and is read by every table in the
// restaurant, so even a short TTL removes most database traffic. Caching is
// disabled when no Redis client is available.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool // HTTP methods eligible for caching
	TTL          time.Duration   // lifetime of a cache entry
	Prefix       string          // Redis key namespace
	MaxBodyBytes int             // responses larger than this are not cached
}

// LoadCacheConfig reads CACHE_* variables with defaults suitable for the
// public menu (GET only, 30 second TTL, 1 MiB cap).
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      parseMethods(envStr("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(strings.ToUpper(p)); p != "" {
			m[p] = true
		}
	}
	return m
}
