package config

import (
    "net/http"
    "strings"
    "time"
)

// CacheConfig controls the Redis cache in front of the catalog endpoints.
// The catalog is compiled in, so entries only go stale on redeploy; TTL
// bounds that window.  Seat availability is never cached.
type CacheConfig struct {
    Enabled      bool
    Methods      map[string]bool // upper-case HTTP methods eligible for caching
    TTL          time.Duration
    KeyStrategy  string // route, method_route, method_route_query or route_query
    Prefix       string
    MaxBodyBytes int // larger responses are served but not stored
}

// LoadCacheConfig reads CACHE_* variables.
func LoadCacheConfig() CacheConfig {
    cfg := CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        Methods:      map[string]bool{},
        TTL:          envDur("CACHE_TTL", 5*time.Minute),
        KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
        Prefix:       envStr("CACHE_PREFIX", "catalog"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
    }
    for _, m := range strings.Split(envStr("CACHE_METHODS", http.MethodGet), ",") {
        if m = strings.ToUpper(strings.TrimSpace(m)); m != "" {
            cfg.Methods[m] = true
        }
    }
    return cfg
}
