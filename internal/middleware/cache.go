package middleware

import (
    "bytes"
    "crypto/sha1"
    "encoding/hex"
    "encoding/json"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/movie-ticket-booking/internal/config"
)

// cachedResponse is what a catalog cache entry holds.
type cachedResponse struct {
    Status int         `json:"status"`
    Header http.Header `json:"header"`
    Body   []byte      `json:"body"`
}

// recorder tees the response into a buffer until limit bytes have been
// written.  Beyond the limit it keeps counting but stops buffering.
type recorder struct {
    http.ResponseWriter
    status int
    buf    bytes.Buffer
    size   int64
    limit  int64
}

func (r *recorder) WriteHeader(code int) {
    r.status = code
    r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
    if r.limit <= 0 || r.size+int64(len(b)) <= r.limit {
        r.buf.Write(b)
    }
    r.size += int64(len(b))
    return r.ResponseWriter.Write(b)
}

func (r *recorder) overflow() bool { return r.limit > 0 && r.size > r.limit }

// cacheKeyFrom builds a stable key from the request path, so /movies/1
// and /movies/2 never share an entry.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
    r := c.Request()
    var parts []string
    switch strings.ToLower(cfg.KeyStrategy) {
    case "route":
        parts = []string{"route", r.URL.Path}
    case "method_route":
        parts = []string{"method", r.Method, "route", r.URL.Path}
    case "method_route_query":
        parts = []string{"method", r.Method, "route", r.URL.Path, "q", r.URL.RawQuery}
    default: // route_query
        parts = []string{"route", r.URL.Path, "q", r.URL.RawQuery}
    }
    sum := sha1.Sum([]byte(strings.Join(parts, ":")))
    return cfg.Prefix + ":" + hex.EncodeToString(sum[:])
}

// NewRedisCache caches successful catalog responses in Redis, headers
// included, so a hit is byte-identical to the original answer.  A request
// sent with "Cache-Control: no-cache" skips the lookup but still refreshes
// the entry.  Responses larger than MaxBodyBytes are not stored.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return passThrough
    }
    ttl := cfg.TTL
    if ttl <= 0 {
        ttl = 5 * time.Minute
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !cfg.Methods[c.Request().Method] {
                return next(c)
            }
            key := cacheKeyFrom(cfg, c)
            bypass := strings.Contains(strings.ToLower(c.Request().Header.Get("Cache-Control")), "no-cache")
            if !bypass && serveCached(c, rdb, key) {
                return nil
            }

            rec := &recorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: int64(cfg.MaxBodyBytes)}
            c.Response().Writer = rec
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }
            if rec.status != http.StatusOK || rec.overflow() {
                return nil
            }

            entry := cachedResponse{Status: rec.status, Header: storableHeader(c.Response().Header()), Body: rec.buf.Bytes()}
            bs, err := json.Marshal(entry)
            if err != nil {
                return nil
            }
            if err := rdb.Set(c.Request().Context(), key, bs, ttl).Err(); err != nil {
                c.Logger().Warnf("cache: store %s: %v", c.Request().URL.Path, err)
            }
            return nil
        }
    }
}

// perRequestHeaders are written by middleware ahead of the cache on every
// request, hit or miss, and never belong in an entry.
var perRequestHeaders = map[string]bool{
    "Content-Length": true,
    "Retry-After":    true,
    "Vary":           true,
    "X-Cache":        true,
    "X-Request-Id":   true,
}

// storableHeader copies h without CORS, rate limit and request id headers.
func storableHeader(h http.Header) http.Header {
    out := make(http.Header, len(h))
    for k, vals := range h {
        ck := http.CanonicalHeaderKey(k)
        if perRequestHeaders[ck] || strings.HasPrefix(ck, "Access-Control-") || strings.HasPrefix(ck, "X-Ratelimit-") {
            continue
        }
        out[ck] = append([]string(nil), vals...)
    }
    return out
}

// serveCached writes the entry stored under key, if any.
func serveCached(c echo.Context, rdb *redis.Client, key string) bool {
    bs, err := rdb.Get(c.Request().Context(), key).Bytes()
    if err != nil {
        if err != redis.Nil {
            c.Logger().Warnf("cache: lookup %s: %v", c.Request().URL.Path, err)
        }
        return false
    }
    var entry cachedResponse
    if err := json.Unmarshal(bs, &entry); err != nil || entry.Status == 0 {
        return false
    }
    h := c.Response().Header()
    for k, vals := range storableHeader(entry.Header) {
        h[k] = vals
    }
    h.Set("X-Cache", "HIT")
    c.Response().WriteHeader(entry.Status)
    _, _ = c.Response().Write(entry.Body)
    return true
}
