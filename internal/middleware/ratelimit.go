package middleware

import (
    "context"
    "errors"
    "math"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/movie-ticket-booking/internal/config"
)

// takeToken refills the bucket stored at KEYS[1] for the intervals elapsed
// since its last refill and takes one token.  It returns
// {allowed, remaining, wait_ms}.
var takeToken = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill = tonumber(ARGV[3])
local every = tonumber(ARGV[4])
local ttl = tonumber(ARGV[5])

local tokens = tonumber(redis.call('HGET', key, 'tokens'))
local stamp = tonumber(redis.call('HGET', key, 'stamp'))
if tokens == nil or stamp == nil then
  tokens, stamp = capacity, now
end

local n = math.floor(math.max(0, now - stamp) / every)
if n > 0 then
  tokens = math.min(capacity, tokens + n * refill)
  stamp = stamp + n * every
end

local allowed, wait = 0, 0
if tokens > 0 then
  allowed, tokens = 1, tokens - 1
else
  wait = math.max(0, every - (now - stamp))
end

redis.call('HSET', key, 'tokens', tokens, 'stamp', stamp)
redis.call('EXPIRE', key, ttl)
return {allowed, tokens, wait}
`)

var errBucketReply = errors.New("unexpected token bucket reply")

// bucketState is the outcome of one take.
type bucketState struct {
    allowed   bool
    remaining int64
    wait      time.Duration
}

type tokenBucket struct {
    cfg config.RateLimitConfig
    rdb *redis.Client
}

func (b *tokenBucket) take(ctx context.Context, key string, now time.Time) (bucketState, error) {
    res, err := takeToken.Run(ctx, b.rdb, []string{key},
        now.UnixMilli(),
        b.cfg.Capacity,
        b.cfg.RefillTokens,
        b.cfg.RefillInterval.Milliseconds(),
        int64(b.cfg.TTL/time.Second),
    ).Int64Slice()
    if err != nil {
        return bucketState{}, err
    }
    if len(res) != 3 {
        return bucketState{}, errBucketReply
    }
    return bucketState{
        allowed:   res[0] == 1,
        remaining: res[1],
        wait:      time.Duration(res[2]) * time.Millisecond,
    }, nil
}

// NewTokenBucket throttles the booking endpoint per caller with a token
// bucket kept in Redis, so every server instance draws from the same
// bucket.  Without Redis, or when Redis fails, requests pass through.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return passThrough
    }
    b := &tokenBucket{cfg: cfg, rdb: rdb}

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := buildRateKey(cfg, c)
            st, err := b.take(c.Request().Context(), key, time.Now())
            if err != nil {
                if cfg.Debug {
                    c.Logger().Warnf("ratelimit: key=%s: %v", key, err)
                }
                return next(c)
            }

            h := c.Response().Header()
            h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
            h.Set("X-RateLimit-Remaining", strconv.FormatInt(st.remaining, 10))
            if cfg.Debug {
                h.Set("X-RateLimit-Key", key)
            }
            if st.allowed {
                return next(c)
            }

            secs := int(math.Ceil(st.wait.Seconds()))
            h.Set("Retry-After", strconv.Itoa(secs))
            return c.JSON(http.StatusTooManyRequests, echo.Map{
                "success":     false,
                "message":     "Too many requests, please retry later",
                "retry_after": secs,
            })
        }
    }
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

// buildRateKey derives the bucket key from the caller identity and the
// route pattern.
func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
    who := clientID(c)
    route := c.Request().Method + " " + c.Path()

    switch strings.ToLower(cfg.KeyStrategy) {
    case "ip", "client":
        return strings.Join([]string{cfg.Prefix, "ip", who}, ":")
    case "route":
        return strings.Join([]string{cfg.Prefix, "route", route}, ":")
    }
    return strings.Join([]string{cfg.Prefix, "ip", who, "route", route}, ":")
}
