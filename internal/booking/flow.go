// Package booking drives one booking session: picking seats on a showtime,
// capturing customer details and submitting the booking.
package booking

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/movie-ticket-booking/internal/catalog"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/seatmap"
)

// Step is the position of a session in the booking flow.
type Step string

const (
	StepSeatSelection Step = "seat-selection"
	StepCheckout      Step = "checkout"
	StepConfirmed     Step = "confirmed"
	StepFailed        Step = "failed"
)

// Field names a checkout form field.
type Field string

const (
	FieldName  Field = "name"
	FieldEmail Field = "email"
	FieldPhone Field = "phone"
)

var (
	ErrNoSeatsSelected = errors.New("select at least one seat")
	ErrWrongStep       = errors.New("operation not allowed in the current step")
	ErrValidation      = errors.New("customer details are invalid")
	ErrBookingFailed   = errors.New("booking failed")
	ErrUnknownField    = errors.New("unknown field")
)

const (
	alertTitle         = "Booking Failed"
	defaultFailureText = "Failed to create booking"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s-]{10,}$`)
)

// Service is the part of the booking API a session needs.
type Service interface {
	CreateBooking(ctx context.Context, b *model.BookingData) (*model.CreateBookingResponse, error)
	GetSeatAvailability(ctx context.Context, showtimeID uint64) (*model.SeatAvailability, error)
}

// Alert is the dismissible notice shown after a failed submission.
type Alert struct {
	Title   string
	Message string
}

// Confirmation is the snapshot carried to the confirmation view.
type Confirmation struct {
	BookingID   string
	MovieTitle  string
	TheaterName string
	Date        string
	Time        string
	Format      model.ShowtimeFormat
	Seats       []string
	Total       decimal.Decimal
}

// Flow is a single booking session.  It is not safe for concurrent use.
type Flow struct {
	svc      Service
	showtime model.Showtime
	movie    model.Movie
	theater  model.Theater

	seats        *seatmap.Map
	step         Step
	customer     model.CustomerInfo
	fieldErrs    map[Field]string
	alert        *Alert
	confirmation *Confirmation

	now func() time.Time
}

// Start resolves showtimeID in cat, asks svc which seats are already taken
// and opens a session on the seat-selection step.
func Start(ctx context.Context, svc Service, cat *catalog.Catalog, showtimeID uint64) (*Flow, error) {
	st, mv, th, err := cat.Resolve(showtimeID)
	if err != nil {
		return nil, err
	}
	av, err := svc.GetSeatAvailability(ctx, showtimeID)
	if err != nil {
		return nil, fmt.Errorf("load seat availability: %w", err)
	}
	return &Flow{
		svc:       svc,
		showtime:  st,
		movie:     mv,
		theater:   th,
		seats:     seatmap.New(av.Booked),
		step:      StepSeatSelection,
		fieldErrs: map[Field]string{},
		now:       time.Now,
	}, nil
}

// SetClock replaces the clock used for booking timestamps.
func (f *Flow) SetClock(now func() time.Time) { f.now = now }

func (f *Flow) Step() Step                   { return f.step }
func (f *Flow) Movie() model.Movie           { return f.movie }
func (f *Flow) Theater() model.Theater       { return f.theater }
func (f *Flow) Showtime() model.Showtime     { return f.showtime }
func (f *Flow) Customer() model.CustomerInfo { return f.customer }

// Grid returns the current seat grid.
func (f *Flow) Grid() [][]model.Seat { return f.seats.Grid() }

func (f *Flow) Selected() []string { return f.seats.Selected() }

// Total is the price of the current selection.
func (f *Flow) Total() decimal.Decimal { return f.seats.Total(f.showtime.Price) }

// ToggleSeat selects or releases a seat.  Seats can only change while the
// session is on the seat-selection step.
func (f *Flow) ToggleSeat(label string) bool {
	if f.step != StepSeatSelection {
		return false
	}
	return f.seats.ToggleLabel(label)
}

// Proceed moves from seat selection to checkout.
func (f *Flow) Proceed() error {
	if f.step != StepSeatSelection {
		return ErrWrongStep
	}
	if f.seats.Count() == 0 {
		return ErrNoSeatsSelected
	}
	f.step = StepCheckout
	return nil
}

// Back returns to seat selection keeping the selection and form.
func (f *Flow) Back() error {
	switch f.step {
	case StepCheckout, StepFailed:
		f.step = StepSeatSelection
		f.alert = nil
		return nil
	}
	return ErrWrongStep
}

// SetField updates one form field and clears that field's error only.
func (f *Flow) SetField(field Field, value string) error {
	switch field {
	case FieldName:
		f.customer.Name = value
	case FieldEmail:
		f.customer.Email = value
	case FieldPhone:
		f.customer.Phone = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	delete(f.fieldErrs, field)
	return nil
}

// FieldErrors returns the errors of the last validation that have not
// been cleared by an edit.
func (f *Flow) FieldErrors() map[Field]string {
	out := make(map[Field]string, len(f.fieldErrs))
	for k, v := range f.fieldErrs {
		out[k] = v
	}
	return out
}

// Validate checks the form and records the field errors it finds.
func (f *Flow) Validate() map[Field]string {
	errs := validateCustomer(f.customer)
	f.fieldErrs = errs
	return f.FieldErrors()
}

func validateCustomer(ci model.CustomerInfo) map[Field]string {
	errs := map[Field]string{}
	if strings.TrimSpace(ci.Name) == "" {
		errs[FieldName] = "Name is required"
	}
	if !emailPattern.MatchString(ci.Email) {
		errs[FieldEmail] = "Please enter a valid email address"
	}
	if !phonePattern.MatchString(ci.Phone) {
		errs[FieldPhone] = "Please enter a valid phone number"
	}
	return errs
}

// Alert returns the pending failure notice, if any.
func (f *Flow) Alert() *Alert { return f.alert }

func (f *Flow) DismissAlert() { f.alert = nil }

// Confirmation is set once the session reaches the confirmed step.
func (f *Flow) Confirmation() *Confirmation { return f.confirmation }

// Submit validates the form and sends a new booking.  A failed attempt
// moves the session to the failed step with an alert; calling Submit again
// sends a fresh create request, so a retry after a lost response can
// produce a second booking.
func (f *Flow) Submit(ctx context.Context) (*Confirmation, error) {
	if f.step != StepCheckout && f.step != StepFailed {
		return nil, ErrWrongStep
	}
	if errs := f.Validate(); len(errs) > 0 {
		return nil, ErrValidation
	}

	seats := f.seats.Selected()
	total := f.Total()
	customer := f.customer
	b := &model.BookingData{
		MovieID:      f.movie.ID,
		ShowtimeID:   f.showtime.ID,
		TheaterID:    f.theater.ID,
		Seats:        seats,
		CustomerInfo: &customer,
		TotalPrice:   total,
		Status:       model.BookingConfirmed,
		Timestamp:    f.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}

	res, err := f.svc.CreateBooking(ctx, b)
	if err != nil {
		f.fail(err.Error())
		return nil, fmt.Errorf("%w: %w", ErrBookingFailed, err)
	}
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = defaultFailureText
		}
		f.fail(msg)
		return nil, fmt.Errorf("%w: %s", ErrBookingFailed, msg)
	}

	f.step = StepConfirmed
	f.alert = nil
	f.confirmation = &Confirmation{
		BookingID:   res.BookingID,
		MovieTitle:  f.movie.Title,
		TheaterName: f.theater.Name,
		Date:        f.showtime.Date,
		Time:        f.showtime.Time,
		Format:      f.showtime.Format,
		Seats:       seats,
		Total:       total,
	}
	return f.confirmation, nil
}

func (f *Flow) fail(msg string) {
	f.step = StepFailed
	f.alert = &Alert{Title: alertTitle, Message: msg}
}
