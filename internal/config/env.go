package config

import (
    "os"
    "strconv"
    "strings"
    "time"
)

// Readers shared by every loader in this package.  Unset, blank or
// malformed values fall back to the default instead of aborting startup.

func lookup(k string) (string, bool) {
    v, ok := os.LookupEnv(k)
    v = strings.TrimSpace(v)
    return v, ok && v != ""
}

func envStr(k, d string) string {
    if v, ok := lookup(k); ok {
        return v
    }
    return d
}

// envBool accepts what strconv.ParseBool does plus yes/no and on/off.
func envBool(k string, d bool) bool {
    v, ok := lookup(k)
    if !ok {
        return d
    }
    switch strings.ToLower(v) {
    case "yes", "on":
        return true
    case "no", "off":
        return false
    }
    if b, err := strconv.ParseBool(v); err == nil {
        return b
    }
    return d
}

func envInt(k string, d int) int {
    if v, ok := lookup(k); ok {
        if n, err := strconv.Atoi(v); err == nil {
            return n
        }
    }
    return d
}

func envDur(k string, d time.Duration) time.Duration {
    if v, ok := lookup(k); ok {
        if dur, err := time.ParseDuration(v); err == nil {
            return dur
        }
    }
    return d
}
