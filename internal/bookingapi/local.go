package bookingapi

import (
	"context"
	"errors"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
	"github.com/iliyamo/movie-ticket-booking/internal/seatmap"
)

// Local serves the booking operations from a store in the same process.
// It follows the same result convention as Client.
type Local struct {
	store repository.BookingStore
}

func NewLocal(store repository.BookingStore) *Local {
	return &Local{store: store}
}

func (l *Local) CreateBooking(ctx context.Context, b *model.BookingData) (*model.CreateBookingResponse, error) {
	rec := *b
	if err := l.store.Create(ctx, &rec); err != nil {
		if errors.Is(err, repository.ErrMissingFields) || errors.Is(err, repository.ErrInvalidField) || errors.Is(err, repository.ErrSeatTaken) {
			return &model.CreateBookingResponse{Success: false, Message: sentence(err)}, nil
		}
		return nil, &Error{Op: "createBooking", Message: err.Error(), Err: err}
	}
	return &model.CreateBookingResponse{
		Success:   true,
		BookingID: rec.ID,
		Message:   msgCreated + " (mock)",
		Data:      &rec,
	}, nil
}

func (l *Local) GetBookings(ctx context.Context) (*model.GetBookingsResponse, error) {
	all, err := l.store.List(ctx)
	if err != nil {
		return nil, &Error{Op: "getBookings", Message: err.Error(), Err: err}
	}
	return &model.GetBookingsResponse{Success: true, Bookings: all}, nil
}

func (l *Local) GetBooking(ctx context.Context, id string) (*model.GetBookingResponse, error) {
	b, err := l.store.Get(ctx, id)
	if errors.Is(err, repository.ErrBookingNotFound) {
		return &model.GetBookingResponse{Success: false, Message: msgNotFound}, nil
	}
	if err != nil {
		return nil, &Error{Op: "getBooking", Message: err.Error(), Err: err}
	}
	return &model.GetBookingResponse{Success: true, Booking: b}, nil
}

func (l *Local) GetSeatAvailability(ctx context.Context, showtimeID uint64) (*model.SeatAvailability, error) {
	taken, err := l.store.TakenSeats(ctx, showtimeID)
	if err != nil {
		return nil, &Error{Op: "getSeatAvailability", Message: err.Error(), Err: err}
	}
	av := seatmap.Availability(showtimeID, taken)
	return &av, nil
}

// sentence upper-cases the first letter of an error message.
func sentence(err error) string {
	s := err.Error()
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
