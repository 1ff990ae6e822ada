package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/movie-ticket-booking/internal/handler"
)

// corsHeaders are the request headers browsers may send cross-origin.
var corsHeaders = []string{
	"Content-Type",
	"X-Amz-Date",
	"Authorization",
	"X-Api-Key",
	"X-Amz-Security-Token",
	"Origin",
}

// CORS answers preflight requests for the booking endpoint and stamps the
// allow-origin header on every response.
func CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodOptions, http.MethodPost, http.MethodGet},
		AllowHeaders: corsHeaders,
		MaxAge:       86400,
	})
}

// RegisterRoutes registers the probes.  ready may be nil, in which case
// /readyz is not mounted.
func RegisterRoutes(e *echo.Echo, ready echo.HandlerFunc) {
	e.GET("/healthz", handler.Health)
	if ready != nil {
		e.GET("/readyz", ready)
	}
}

// RegisterBooking mounts the action-dispatched booking endpoint at
// /v1/bookings and at the root path, where gateway deployments post it.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, mw ...echo.MiddlewareFunc) {
	e.POST("/v1/bookings", h.Handle, mw...)
	e.POST("/", h.Handle, mw...)
}

// RegisterPublic registers the catalog browse endpoints.  cache wraps every
// catalog read except seat availability, which changes with each booking.
// Seat availability is also served at the root, next to the root booking
// endpoint, so a client pointed at "/" finds it.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache ...echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.GET("/movies", p.ListMovies, cache...)
	g.GET("/movies/genres", p.ListGenres, cache...)
	g.GET("/movies/:id", p.GetMovie, cache...)
	g.GET("/movies/:id/showtimes", p.GetMovieShowtimes, cache...)
	g.GET("/theaters", p.ListTheaters, cache...)
	g.GET("/showtimes/:id", p.GetShowtime, cache...)
	g.GET("/showtimes/:id/seats", p.GetShowtimeSeats)
	e.GET("/showtimes/:id/seats", p.GetShowtimeSeats)
}
