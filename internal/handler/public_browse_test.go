package handler

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/iliyamo/movie-ticket-booking/internal/catalog"
    "github.com/iliyamo/movie-ticket-booking/internal/model"
    "github.com/iliyamo/movie-ticket-booking/internal/repository"
)

func newPublic() (*PublicHandler, repository.BookingStore) {
    store := repository.NewMemoryStore(repository.StoreOptions{})
    h := NewPublicHandler(catalog.Default(), store)
    h.Now = func() time.Time { return time.Date(2024, 4, 16, 9, 0, 0, 0, time.UTC) }
    return h, store
}

func get(t *testing.T, fn echo.HandlerFunc, target string, params ...string) *httptest.ResponseRecorder {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, target, nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    if len(params) > 0 {
        c.SetParamNames("id")
        c.SetParamValues(params[0])
    }
    if err := fn(c); err != nil {
        t.Fatalf("handler returned error: %v", err)
    }
    return rec
}

func TestListMovies(t *testing.T) {
    h, _ := newPublic()

    rec := get(t, h.ListMovies, "/v1/movies?search=nolan")
    var body struct {
        Items           []model.Movie `json:"items"`
        Recommendations []model.Movie `json:"recommendations"`
    }
    if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if rec.Code != http.StatusOK || len(body.Items) != 1 || body.Items[0].ID != 4 {
        t.Fatalf("expected Oppenheimer, got %d %+v", rec.Code, body.Items)
    }
    if len(body.Recommendations) == 0 {
        t.Fatal("expected recommendations for a search")
    }

    rec = get(t, h.ListMovies, "/v1/movies?genre=Fantasy&genre=History")
    if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if len(body.Items) != 2 {
        t.Fatalf("expected 2 movies for repeated genre params, got %d", len(body.Items))
    }

    if rec := get(t, h.ListMovies, "/v1/movies?status=sold-out"); rec.Code != http.StatusBadRequest {
        t.Fatalf("expected 400 for unknown status, got %d", rec.Code)
    }
}

func TestGetMovie(t *testing.T) {
    h, _ := newPublic()
    if rec := get(t, h.GetMovie, "/v1/movies/1", "1"); rec.Code != http.StatusOK {
        t.Fatalf("expected 200, got %d", rec.Code)
    }
    if rec := get(t, h.GetMovie, "/v1/movies/99", "99"); rec.Code != http.StatusNotFound {
        t.Fatalf("expected 404, got %d", rec.Code)
    }
    if rec := get(t, h.GetMovie, "/v1/movies/x", "x"); rec.Code != http.StatusBadRequest {
        t.Fatalf("expected 400, got %d", rec.Code)
    }
}

func TestGetMovieShowtimes_FallsBackToFirstDate(t *testing.T) {
    h, _ := newPublic()
    rec := get(t, h.GetMovieShowtimes, "/v1/movies/1/showtimes?date=2030-01-01", "1")
    var body struct {
        Date  string                     `json:"date"`
        Items []catalog.TheaterShowtimes `json:"items"`
    }
    if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if body.Date != "2024-04-16" || len(body.Items) != 2 {
        t.Fatalf("expected fallback to 2024-04-16 with 2 theaters, got %q %d", body.Date, len(body.Items))
    }
    if rec := get(t, h.GetMovieShowtimes, "/v1/movies/1/showtimes?date=16-04-2024", "1"); rec.Code != http.StatusBadRequest {
        t.Fatalf("expected 400 for malformed date, got %d", rec.Code)
    }
}

func TestListTheaters_DefaultsToToday(t *testing.T) {
    h, _ := newPublic()
    rec := get(t, h.ListTheaters, "/v1/theaters")
    var body struct {
        Date  string                    `json:"date"`
        Items []catalog.TheaterSchedule `json:"items"`
    }
    if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if body.Date != "2024-04-16" || len(body.Items) != 4 {
        t.Fatalf("expected 4 theaters on 2024-04-16, got %q %d", body.Date, len(body.Items))
    }
}

func TestGetShowtime(t *testing.T) {
    h, _ := newPublic()
    rec := get(t, h.GetShowtime, "/v1/showtimes/1", "1")
    var d ShowtimeDetail
    if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if d.Movie.ID != 1 || d.Theater.ID != 1 || !d.Showtime.Price.Equal(decimal.RequireFromString("12.99")) {
        t.Fatalf("unexpected detail: %+v", d)
    }
    if rec := get(t, h.GetShowtime, "/v1/showtimes/999", "999"); rec.Code != http.StatusNotFound {
        t.Fatalf("expected 404, got %d", rec.Code)
    }
}

func TestGetShowtimeSeats_ReflectsBookings(t *testing.T) {
    h, store := newPublic()
    err := store.Create(context.Background(), &model.BookingData{
        MovieID: 1, ShowtimeID: 1, TheaterID: 1,
        Seats:        []string{"A1", "C5"},
        CustomerInfo: &model.CustomerInfo{Name: "Ann", Email: "ann@example.com", Phone: "5551234567"},
    })
    if err != nil {
        t.Fatalf("seed booking: %v", err)
    }

    rec := get(t, h.GetShowtimeSeats, "/v1/showtimes/1/seats", "1")
    var av model.SeatAvailability
    if err := json.Unmarshal(rec.Body.Bytes(), &av); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if av.Rows != 8 || av.Cols != 10 || len(av.Seats) != 8 {
        t.Fatalf("expected 8x10 grid, got %dx%d", av.Rows, av.Cols)
    }
    if len(av.Booked) != 2 || av.Booked[0] != "A1" || av.Booked[1] != "C5" {
        t.Fatalf("expected A1 and C5 booked, got %v", av.Booked)
    }
    if av.Seats[0][0].Status != model.SeatBooked || av.Seats[0][1].Status != model.SeatAvailable {
        t.Fatalf("unexpected statuses: %s %s", av.Seats[0][0].Status, av.Seats[0][1].Status)
    }

    rec = get(t, h.GetShowtimeSeats, "/v1/showtimes/2/seats", "2")
    if err := json.Unmarshal(rec.Body.Bytes(), &av); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if len(av.Booked) != 0 {
        t.Fatalf("expected other showtimes unaffected, got %v", av.Booked)
    }
    if rec := get(t, h.GetShowtimeSeats, "/v1/showtimes/999/seats", "999"); rec.Code != http.StatusNotFound {
        t.Fatalf("expected 404, got %d", rec.Code)
    }
}
