package config

import (
    "strings"
    "time"
)

// PlaceholderURL is the default BOOKING_API_URL.  While it is in place the
// client runs against an in-process store instead of the network.
const PlaceholderURL = "YOUR_API_GATEWAY_URL"

// ClientConfig configures the booking service client.
type ClientConfig struct {
    BaseURL    string        // booking endpoint, e.g. https://host/v1/bookings
    Timeout    time.Duration // per attempt
    Retries    int           // additional attempts after the first
    RetryDelay time.Duration // fixed pause between attempts
}

// LoadClient reads BOOKING_API_* variables.
func LoadClient() ClientConfig {
    cfg := ClientConfig{
        BaseURL:    strings.TrimSpace(envStr("BOOKING_API_URL", PlaceholderURL)),
        Timeout:    envDur("BOOKING_API_TIMEOUT", 15*time.Second),
        Retries:    envInt("BOOKING_API_RETRIES", 2),
        RetryDelay: envDur("BOOKING_API_RETRY_DELAY", time.Second),
    }
    if cfg.Timeout <= 0 {
        cfg.Timeout = 15 * time.Second
    }
    if cfg.Retries < 0 {
        cfg.Retries = 0
    }
    if cfg.RetryDelay < 0 {
        cfg.RetryDelay = 0
    }
    return cfg
}

// MockMode reports whether the base URL is still unset.
func (c ClientConfig) MockMode() bool {
    return c.BaseURL == "" || c.BaseURL == PlaceholderURL
}
