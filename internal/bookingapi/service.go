// Package bookingapi is the client side of the booking endpoint.  Every
// operation returns (result, error): the error is a *Error for transport,
// protocol and decoding failures, while application-level failures such as
// an unknown booking id come back as a result with Success set to false.
package bookingapi

import (
	"context"
	"log"
	"net/http"

	"github.com/iliyamo/movie-ticket-booking/internal/config"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// Service is implemented by the HTTP Client and by the in-process Local.
type Service interface {
	CreateBooking(ctx context.Context, b *model.BookingData) (*model.CreateBookingResponse, error)
	GetBookings(ctx context.Context) (*model.GetBookingsResponse, error)
	GetBooking(ctx context.Context, id string) (*model.GetBookingResponse, error)
	GetSeatAvailability(ctx context.Context, showtimeID uint64) (*model.SeatAvailability, error)
}

// Messages shared with the server.
const (
	msgCreated        = "Booking created successfully"
	msgNotFound       = "Booking not found"
	msgEndpointAbsent = "API endpoint not found. Please check your configuration."
	msgBadResponse    = "Invalid response format from server"
)

// Error is a failure to obtain a usable answer from the booking service.
// StatusCode is zero when no HTTP response was received.
type Error struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e == nil {
		return "booking api error"
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New returns a Local service while cfg still points at the placeholder
// URL and an HTTP Client otherwise.  store backs the Local service; nil
// means a fresh in-memory store.
func New(cfg config.ClientConfig, store repository.BookingStore) (Service, error) {
	if cfg.MockMode() {
		log.Printf("bookingapi: BOOKING_API_URL is the placeholder value, using the in-process store")
		if store == nil {
			store = repository.NewMemoryStore(repository.StoreOptions{})
		}
		return NewLocal(store), nil
	}
	return NewClient(cfg, &http.Client{})
}
