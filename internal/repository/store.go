package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/utils"
)

// maxIDAttempts bounds identifier regeneration after a collision.
const maxIDAttempts = 5

// Field limits, in characters, matching the MySQL column widths.  Every
// store applies them so backends accept the same bookings.
const (
	maxSeatLabelLen = 8
	maxTimestampLen = 40
	maxNameLen      = 255
	maxEmailLen     = 255
	maxPhoneLen     = 64
)

// timestampLayout matches the ISO 8601 form produced by browsers
// (millisecond precision, UTC "Z" suffix).
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// BookingStore is the persistence boundary for booking documents.
// Implementations own the canonical copy of every booking they create.
type BookingStore interface {
	// Create validates b, assigns a fresh identifier and stores it.  On
	// success the identifier, status and timestamp are written back to b.
	Create(ctx context.Context, b *model.BookingData) error
	// List returns every stored booking, unfiltered and unpaginated.
	List(ctx context.Context) ([]model.BookingData, error)
	// Get returns the booking with the given identifier or
	// ErrBookingNotFound.
	Get(ctx context.Context, id string) (*model.BookingData, error)
	// TakenSeats returns the seat labels claimed by confirmed bookings for
	// a showtime, sorted.
	TakenSeats(ctx context.Context, showtimeID uint64) ([]string, error)
}

// StoreOptions tunes the behaviour shared by every BookingStore.
type StoreOptions struct {
	// EnforceSeats rejects a booking whose seats overlap a confirmed
	// booking of the same showtime.  Off by default: resubmitting the same
	// payload then yields two independent records.
	EnforceSeats bool
	// Now and NewID default to time.Now and utils.NewBookingID.
	Now   func() time.Time
	NewID func(time.Time) string
}

func (o StoreOptions) withDefaults() StoreOptions {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = utils.NewBookingID
	}
	return o
}

// ValidateForCreate checks the fields every store requires before a
// booking can be created.  Zero identifiers and empty seat lists count as
// absent; over-long strings fail with ErrInvalidField.  It does not check
// that the showtime exists, that the seats are free or that the price
// matches.
func ValidateForCreate(b *model.BookingData) error {
	var missing []string
	if b.MovieID == 0 {
		missing = append(missing, "movieId")
	}
	if b.ShowtimeID == 0 {
		missing = append(missing, "showtimeId")
	}
	if b.TheaterID == 0 {
		missing = append(missing, "theaterId")
	}
	if len(b.Seats) == 0 {
		missing = append(missing, "seats")
	}
	if b.CustomerInfo == nil {
		missing = append(missing, "customerInfo")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}
	for _, l := range b.Seats {
		if utf8.RuneCountInString(l) > maxSeatLabelLen {
			return fmt.Errorf("%w: seat label %q exceeds %d characters", ErrInvalidField, l, maxSeatLabelLen)
		}
	}
	limits := []struct {
		name  string
		value string
		max   int
	}{
		{"timestamp", b.Timestamp, maxTimestampLen},
		{"customerInfo.name", b.CustomerInfo.Name, maxNameLen},
		{"customerInfo.email", b.CustomerInfo.Email, maxEmailLen},
		{"customerInfo.phone", b.CustomerInfo.Phone, maxPhoneLen},
	}
	for _, f := range limits {
		if utf8.RuneCountInString(f.value) > f.max {
			return fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidField, f.name, f.max)
		}
	}
	return nil
}

// prepare stamps server-owned fields on a validated booking.  A timestamp
// supplied by the client is kept; status is always confirmed.
func prepare(b *model.BookingData, now time.Time) {
	b.Status = model.BookingConfirmed
	if strings.TrimSpace(b.Timestamp) == "" {
		b.Timestamp = now.UTC().Format(timestampLayout)
	}
}

func cloneBooking(b model.BookingData) model.BookingData {
	out := b
	out.Seats = append([]string(nil), b.Seats...)
	if b.CustomerInfo != nil {
		ci := *b.CustomerInfo
		out.CustomerInfo = &ci
	}
	return out
}

// uniqueLabels returns labels without duplicates, keeping first occurrence.
func uniqueLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

func sortedKeys(set map[string]string) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
