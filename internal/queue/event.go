// Package queue defines message payloads exchanged over the message broker.
package queue

import (
    "time"

    "github.com/google/uuid"

    "github.com/iliyamo/movie-ticket-booking/internal/model"
)

// BookingQueueName is the durable queue booking events are routed to.
const BookingQueueName = "booking.confirmed"

// BookingConfirmedEvent is published after a booking has been stored.  It
// carries enough of the catalog context for consumers to log or notify
// without looking anything up.  Total is a decimal string.
type BookingConfirmedEvent struct {
    EventID     string   `json:"event_id"`
    BookingID   string   `json:"booking_id"`
    MovieID     uint64   `json:"movie_id"`
    MovieTitle  string   `json:"movie_title"`
    ShowtimeID  uint64   `json:"showtime_id"`
    TheaterID   uint64   `json:"theater_id"`
    TheaterName string   `json:"theater_name"`
    Date        string   `json:"date"`
    Time        string   `json:"time"`
    Format      string   `json:"format"`
    SeatLabels  []string `json:"seats"`
    Total       string   `json:"total"`
    Customer    string   `json:"customer_email"`
    ConfirmedAt string   `json:"confirmed_at"`
}

// NewBookingConfirmedEvent builds the event for b.  Catalog fields are left
// empty when the showtime could not be resolved.
func NewBookingConfirmedEvent(b model.BookingData, st *model.Showtime, mv *model.Movie, th *model.Theater, now time.Time) BookingConfirmedEvent {
    ev := BookingConfirmedEvent{
        EventID:     uuid.NewString(),
        BookingID:   b.ID,
        MovieID:     b.MovieID,
        ShowtimeID:  b.ShowtimeID,
        TheaterID:   b.TheaterID,
        SeatLabels:  append([]string(nil), b.Seats...),
        Total:       b.TotalPrice.StringFixed(2),
        ConfirmedAt: now.UTC().Format(time.RFC3339),
    }
    if b.CustomerInfo != nil {
        ev.Customer = b.CustomerInfo.Email
    }
    if st != nil {
        ev.Date, ev.Time, ev.Format = st.Date, st.Time, string(st.Format)
    }
    if mv != nil {
        ev.MovieTitle = mv.Title
    }
    if th != nil {
        ev.TheaterName = th.Name
    }
    return ev
}
