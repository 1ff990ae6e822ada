package config

import "time"

// RateLimitConfig drives the token bucket in front of the booking endpoint.
// Each caller starts with Capacity tokens and gets RefillTokens back every
// RefillInterval.  Idle buckets expire after TTL.
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration
    KeyStrategy    string // ip, route or ip_route
    Prefix         string
    Debug          bool   // log Redis failures and expose the bucket key
}

// LoadRateLimitConfig reads RATE_LIMIT_* variables.  RATE_LIMIT_BURST is
// accepted as an alias of RATE_LIMIT_CAPACITY.
func LoadRateLimitConfig() RateLimitConfig {
    capacity := envInt("RATE_LIMIT_CAPACITY", 30)
    if burst := envInt("RATE_LIMIT_BURST", 0); burst > 0 {
        capacity = burst
    }
    cfg := RateLimitConfig{
        Enabled:        envBool("RATE_LIMIT_ENABLED", true),
        Capacity:       max(capacity, 1),
        RefillTokens:   max(envInt("RATE_LIMIT_REFILL_TOKENS", 1), 1),
        RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", 2*time.Second),
        TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
        KeyStrategy:    envStr("RATE_LIMIT_KEY_STRATEGY", "ip_route"),
        Prefix:         envStr("RATE_LIMIT_PREFIX", "rl"),
        Debug:          envBool("RATE_LIMIT_DEBUG", false),
    }
    if cfg.RefillInterval <= 0 {
        cfg.RefillInterval = time.Second
    }
    // A bucket must outlive several refills or it resets to full.
    cfg.TTL = max(cfg.TTL, 5*cfg.RefillInterval)
    return cfg
}
