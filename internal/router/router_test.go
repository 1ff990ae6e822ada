package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/bookingapi"
	"github.com/iliyamo/movie-ticket-booking/internal/catalog"
	"github.com/iliyamo/movie-ticket-booking/internal/config"
	"github.com/iliyamo/movie-ticket-booking/internal/handler"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

func newServer() *echo.Echo {
	e := echo.New()
	e.Use(CORS())
	store := repository.NewMemoryStore(repository.StoreOptions{})
	RegisterRoutes(e, nil)
	RegisterBooking(e, handler.NewBookingHandler(store, catalog.Default()))
	RegisterPublic(e, handler.NewPublicHandler(catalog.Default(), store))
	return e
}

func TestCORSPreflight(t *testing.T) {
	e := newServer()
	req := httptest.NewRequest(http.MethodOptions, "/v1/bookings", nil)
	req.Header.Set(echo.HeaderOrigin, "https://tickets.example.com")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	h := rec.Header()
	if got := h.Get(echo.HeaderAccessControlAllowOrigin); got != "*" {
		t.Fatalf("expected allow-origin *, got %q", got)
	}
	if got := h.Get(echo.HeaderAccessControlAllowMethods); got != "OPTIONS,POST,GET" {
		t.Fatalf("unexpected allow-methods %q", got)
	}
	if got := h.Get(echo.HeaderAccessControlAllowHeaders); got != strings.Join(corsHeaders, ",") {
		t.Fatalf("unexpected allow-headers %q", got)
	}
	if got := h.Get(echo.HeaderAccessControlMaxAge); got != "86400" {
		t.Fatalf("expected max-age 86400, got %q", got)
	}
}

func TestRoutesMounted(t *testing.T) {
	e := newServer()
	cases := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodPost, "/v1/bookings", `{"action":"getBookings"}`, http.StatusOK},
		{http.MethodPost, "/", `{"action":"getBookings"}`, http.StatusOK},
		{http.MethodGet, "/v1/movies", "", http.StatusOK},
		{http.MethodGet, "/v1/movies/genres", "", http.StatusOK},
		{http.MethodGet, "/v1/movies/1", "", http.StatusOK},
		{http.MethodGet, "/v1/movies/1/showtimes", "", http.StatusOK},
		{http.MethodGet, "/v1/theaters?date=2024-04-16", "", http.StatusOK},
		{http.MethodGet, "/v1/showtimes/1", "", http.StatusOK},
		{http.MethodGet, "/v1/showtimes/1/seats", "", http.StatusOK},
		{http.MethodGet, "/showtimes/1/seats", "", http.StatusOK},
		{http.MethodGet, "/readyz", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
		if tc.body != "" {
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.path, tc.want, rec.Code)
		}
	}
}

func TestClientAgainstMounts(t *testing.T) {
	srv := httptest.NewServer(newServer())
	defer srv.Close()

	for _, base := range []string{srv.URL + "/v1/bookings", srv.URL + "/", srv.URL} {
		c, err := bookingapi.NewClient(config.ClientConfig{BaseURL: base}, srv.Client())
		if err != nil {
			t.Fatalf("%s: %v", base, err)
		}
		av, err := c.GetSeatAvailability(context.Background(), 1)
		if err != nil {
			t.Fatalf("%s: seat availability: %v", base, err)
		}
		if av.ShowtimeID != 1 {
			t.Fatalf("%s: unexpected availability %+v", base, av)
		}
		res, err := c.GetBookings(context.Background())
		if err != nil || !res.Success {
			t.Fatalf("%s: expected bookings, got %+v (%v)", base, res, err)
		}
	}
}
