package middleware

// identity.go holds the helpers that tell callers and requests apart.
// Bookings are anonymous, so a caller is its gateway API key when one is
// sent and its address otherwise.

import (
    "crypto/sha256"
    "encoding/hex"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
)

// HeaderRequestID carries the correlation id the booking client sends and
// the server echoes back.
const HeaderRequestID = "X-Request-ID"

// clientID identifies the caller for rate limiting.  API keys are hashed
// so they never end up in Redis key names.
func clientID(c echo.Context) string {
    if key := c.Request().Header.Get("X-Api-Key"); key != "" {
        sum := sha256.Sum256([]byte(key))
        return "key-" + hex.EncodeToString(sum[:8])
    }
    if ip := c.RealIP(); ip != "" {
        return ip
    }
    return "unknown"
}

// RequestID keeps the caller's X-Request-ID, or assigns a fresh one, and
// echoes it on the response.  Retried client calls keep their id, so the
// request log shows every attempt of one submission under the same value.
func RequestID() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            id := c.Request().Header.Get(HeaderRequestID)
            if id == "" {
                id = uuid.NewString()
                c.Request().Header.Set(HeaderRequestID, id)
            }
            c.Response().Header().Set(HeaderRequestID, id)
            c.Set("request_id", id)
            return next(c)
        }
    }
}
