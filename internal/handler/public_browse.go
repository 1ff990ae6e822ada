// This file defines handlers for the public catalog API.  Movies, theaters
// and showtimes are compiled into the binary; seat availability is derived
// from the bookings held by the store.

package handler

import (
    "errors"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/movie-ticket-booking/internal/catalog"
    "github.com/iliyamo/movie-ticket-booking/internal/model"
    "github.com/iliyamo/movie-ticket-booking/internal/repository"
    "github.com/iliyamo/movie-ticket-booking/internal/seatmap"
)

const dateLayout = "2006-01-02"

// PublicHandler serves the unauthenticated browse endpoints.
type PublicHandler struct {
    Catalog *catalog.Catalog         // movies, theaters and showtimes
    Store   repository.BookingStore  // source of taken seats
    Now     func() time.Time         // "today" for the theater schedule
}

// NewPublicHandler returns a handler over cat and store.
func NewPublicHandler(cat *catalog.Catalog, store repository.BookingStore) *PublicHandler {
    if cat == nil || store == nil {
        panic("nil dependency passed to NewPublicHandler")
    }
    return &PublicHandler{Catalog: cat, Store: store, Now: time.Now}
}

// ShowtimeDetail is a showtime together with what it refers to.
type ShowtimeDetail struct {
    Showtime model.Showtime `json:"showtime"`
    Movie    model.Movie    `json:"movie"`
    Theater  model.Theater  `json:"theater"`
}

// ListMovies returns movies filtered by ?search=, ?genre= (comma separated
// or repeated, any-of) and ?status= (all, now-showing, coming-soon).  A
// search also yields up to five recommendations sharing a genre.
func (h *PublicHandler) ListMovies(c echo.Context) error {
    f := catalog.MovieFilter{Search: c.QueryParam("search")}
    for _, v := range c.QueryParams()["genre"] {
        for _, g := range strings.Split(v, ",") {
            if g = strings.TrimSpace(g); g != "" {
                f.Genres = append(f.Genres, g)
            }
        }
    }
    switch status := c.QueryParam("status"); status {
    case "", "all":
    case string(model.MovieNowShowing), string(model.MovieComingSoon):
        f.Status = model.MovieStatus(status)
    default:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
    }
    items := h.Catalog.FilterMovies(f)
    return c.JSON(http.StatusOK, echo.Map{
        "items":           items,
        "recommendations": h.Catalog.Recommend(f.Search, items),
    })
}

// ListGenres returns the distinct genres of the catalog.
func (h *PublicHandler) ListGenres(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{"items": h.Catalog.Genres()})
}

// GetMovie returns a movie and the dates on which it screens.
func (h *PublicHandler) GetMovie(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    m, err := h.Catalog.Movie(id)
    if err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
    }
    return c.JSON(http.StatusOK, echo.Map{"movie": m, "dates": h.Catalog.ShowtimeDates(id)})
}

// GetMovieShowtimes lists a movie's showtimes for ?date= grouped by
// theater.  Without a date, or with one the movie does not screen on, the
// first available date is used.
func (h *PublicHandler) GetMovieShowtimes(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if _, err := h.Catalog.Movie(id); err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
    }
    date := c.QueryParam("date")
    if date != "" {
        if _, err := time.Parse(dateLayout, date); err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
        }
    }
    dates := h.Catalog.ShowtimeDates(id)
    if len(dates) > 0 && !contains(dates, date) {
        date = dates[0]
    }
    return c.JSON(http.StatusOK, echo.Map{
        "movieId": id,
        "date":    date,
        "dates":   dates,
        "items":   h.Catalog.ShowtimesByTheater(id, date),
    })
}

// ListTheaters returns every theater with what it screens on ?date=,
// today (UTC) by default.
func (h *PublicHandler) ListTheaters(c echo.Context) error {
    date := c.QueryParam("date")
    if date == "" {
        date = h.Now().UTC().Format(dateLayout)
    } else if _, err := time.Parse(dateLayout, date); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
    }
    return c.JSON(http.StatusOK, echo.Map{"date": date, "items": h.Catalog.Schedule(date)})
}

// GetShowtime returns a showtime with its movie and theater.
func (h *PublicHandler) GetShowtime(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    st, mv, th, err := h.Catalog.Resolve(id)
    if err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
    }
    return c.JSON(http.StatusOK, ShowtimeDetail{Showtime: st, Movie: mv, Theater: th})
}

// GetShowtimeSeats returns the seat grid of a showtime.  A seat present
// in a confirmed booking for the showtime is booked; the rest are
// available.
func (h *PublicHandler) GetShowtimeSeats(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if _, err := h.Catalog.Showtime(id); err != nil {
        if errors.Is(err, catalog.ErrShowtimeNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "catalog error"})
    }
    taken, err := h.Store.TakenSeats(c.Request().Context(), id)
    if err != nil {
        c.Logger().Errorf("seats: showtime %d: %v", id, err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store error"})
    }
    return c.JSON(http.StatusOK, seatmap.Availability(id, taken))
}

func contains(list []string, s string) bool {
    for _, v := range list {
        if v == s {
            return true
        }
    }
    return false
}
