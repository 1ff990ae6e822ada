package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/alicebob/miniredis/v2"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/movie-ticket-booking/internal/config"
)

func newTestRedis(t *testing.T) *redis.Client {
    t.Helper()
    mr := miniredis.RunT(t)
    rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
    t.Cleanup(func() { _ = rdb.Close() })
    return rdb
}

func cachedCatalogServer(t *testing.T, calls *int) *echo.Echo {
    t.Helper()
    e := echo.New()
    e.Use(RequestID())
    e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: []string{"*"}}))
    cfg := config.CacheConfig{
        Enabled:      true,
        Methods:      map[string]bool{http.MethodGet: true},
        TTL:          time.Minute,
        Prefix:       "catalog",
        MaxBodyBytes: 1 << 20,
    }
    e.GET("/v1/movies", func(c echo.Context) error {
        *calls++
        return c.JSONBlob(http.StatusOK, []byte(`[{"id":1}]`))
    }, NewRedisCache(cfg, newTestRedis(t)))
    return e
}

func getMovies(e *echo.Echo) *httptest.ResponseRecorder {
    req := httptest.NewRequest(http.MethodGet, "/v1/movies", nil)
    req.Header.Set(echo.HeaderOrigin, "https://cinema.example")
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func TestRedisCache_HitReplaysBodyWithSingleHeaders(t *testing.T) {
    calls := 0
    e := cachedCatalogServer(t, &calls)

    first := getMovies(e)
    if first.Code != http.StatusOK || first.Header().Get("X-Cache") != "MISS" {
        t.Fatalf("expected 200 MISS, got %d %q", first.Code, first.Header().Get("X-Cache"))
    }
    second := getMovies(e)
    if second.Header().Get("X-Cache") != "HIT" {
        t.Fatalf("expected HIT, got %q", second.Header().Get("X-Cache"))
    }
    if calls != 1 {
        t.Fatalf("expected handler to run once, got %d", calls)
    }
    if second.Body.String() != first.Body.String() {
        t.Fatalf("expected cached body %q, got %q", first.Body.String(), second.Body.String())
    }
    if got, want := second.Header().Get(echo.HeaderContentType), first.Header().Get(echo.HeaderContentType); got != want {
        t.Fatalf("expected content type %q, got %q", want, got)
    }

    h := second.Header()
    if got := h.Values(echo.HeaderAccessControlAllowOrigin); len(got) != 1 || got[0] != "*" {
        t.Fatalf("expected a single allow-origin value, got %q", got)
    }
    if got := h.Values(echo.HeaderVary); len(got) != 1 {
        t.Fatalf("expected a single Vary value, got %q", got)
    }
    ids := h.Values(HeaderRequestID)
    if len(ids) != 1 {
        t.Fatalf("expected a single request id, got %q", ids)
    }
    if ids[0] == first.Header().Get(HeaderRequestID) {
        t.Fatal("expected the hit to carry its own request id")
    }
}

func TestRedisCache_NoCacheRefreshes(t *testing.T) {
    calls := 0
    e := cachedCatalogServer(t, &calls)
    getMovies(e)

    req := httptest.NewRequest(http.MethodGet, "/v1/movies", nil)
    req.Header.Set("Cache-Control", "no-cache")
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    if rec.Header().Get("X-Cache") != "MISS" || calls != 2 {
        t.Fatalf("expected bypass to reach the handler, got %q after %d calls", rec.Header().Get("X-Cache"), calls)
    }
}

func TestStorableHeader_DropsPerRequestHeaders(t *testing.T) {
    h := http.Header{}
    h.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    h.Set(echo.HeaderAccessControlAllowOrigin, "*")
    h.Add(echo.HeaderVary, echo.HeaderOrigin)
    h.Set(HeaderRequestID, "abc")
    h.Set("X-RateLimit-Remaining", "3")
    h.Set("X-Cache", "MISS")
    h.Set(echo.HeaderContentLength, "10")

    got := storableHeader(h)
    if len(got) != 1 || got.Get(echo.HeaderContentType) != echo.MIMEApplicationJSON {
        t.Fatalf("expected only Content-Type to survive, got %v", got)
    }
}
