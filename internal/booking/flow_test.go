package booking

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/movie-ticket-booking/internal/bookingapi"
	"github.com/iliyamo/movie-ticket-booking/internal/catalog"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// fakeService records create calls and answers with canned results.
type fakeService struct {
	booked  []string
	results []*model.CreateBookingResponse
	errs    []error
	calls   []*model.BookingData
}

func (s *fakeService) CreateBooking(ctx context.Context, b *model.BookingData) (*model.CreateBookingResponse, error) {
	s.calls = append(s.calls, b)
	i := len(s.calls) - 1
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	if err != nil {
		return nil, err
	}
	if i < len(s.results) && s.results[i] != nil {
		return s.results[i], nil
	}
	return &model.CreateBookingResponse{Success: true, BookingID: "BK1"}, nil
}

func (s *fakeService) GetSeatAvailability(ctx context.Context, showtimeID uint64) (*model.SeatAvailability, error) {
	return &model.SeatAvailability{ShowtimeID: showtimeID, Booked: s.booked}, nil
}

func startFlow(t *testing.T, svc Service) *Flow {
	t.Helper()
	f, err := Start(context.Background(), svc, catalog.Default(), 1)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	return f
}

func fillValid(f *Flow) {
	_ = f.SetField(FieldName, "Jane Doe")
	_ = f.SetField(FieldEmail, "jane@example.com")
	_ = f.SetField(FieldPhone, "555-123-4567")
}

func TestStart_UnknownShowtime(t *testing.T) {
	_, err := Start(context.Background(), &fakeService{}, catalog.Default(), 999)
	if !errors.Is(err, catalog.ErrShowtimeNotFound) {
		t.Fatalf("expected ErrShowtimeNotFound, got %v", err)
	}
}

func TestStart_BookedSeatsCannotBeSelected(t *testing.T) {
	f := startFlow(t, &fakeService{booked: []string{"A1"}})
	if f.ToggleSeat("A1") {
		t.Fatal("expected booked seat to be unselectable")
	}
	if f.Grid()[0][0].Status != model.SeatBooked {
		t.Fatalf("expected A1 booked, got %s", f.Grid()[0][0].Status)
	}
}

func TestProceed_RequiresSeats(t *testing.T) {
	f := startFlow(t, &fakeService{})
	if err := f.Proceed(); !errors.Is(err, ErrNoSeatsSelected) {
		t.Fatalf("expected ErrNoSeatsSelected, got %v", err)
	}
	if f.Step() != StepSeatSelection {
		t.Fatalf("expected to stay on seat selection, got %s", f.Step())
	}
	f.ToggleSeat("B2")
	if err := f.Proceed(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if f.Step() != StepCheckout {
		t.Fatalf("expected checkout, got %s", f.Step())
	}
	if f.ToggleSeat("B3") {
		t.Fatal("expected seats to be frozen during checkout")
	}
}

func TestBack_PreservesSelection(t *testing.T) {
	f := startFlow(t, &fakeService{})
	f.ToggleSeat("C1")
	f.ToggleSeat("C2")
	_ = f.Proceed()
	if err := f.Back(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if f.Step() != StepSeatSelection {
		t.Fatalf("expected seat selection, got %s", f.Step())
	}
	if got := f.Selected(); len(got) != 2 || got[0] != "C1" || got[1] != "C2" {
		t.Fatalf("expected selection kept, got %v", got)
	}
	if err := f.Back(); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("expected ErrWrongStep, got %v", err)
	}
}

func TestValidate_Rules(t *testing.T) {
	cases := []struct {
		name  string
		ci    model.CustomerInfo
		field Field
		bad   bool
	}{
		{"blank name", model.CustomerInfo{Name: "   ", Email: "a@b.co", Phone: "5551234567"}, FieldName, true},
		{"plain email", model.CustomerInfo{Name: "A", Email: "not-an-email", Phone: "5551234567"}, FieldEmail, true},
		{"email without tld", model.CustomerInfo{Name: "A", Email: "a@b", Phone: "5551234567"}, FieldEmail, true},
		{"short phone", model.CustomerInfo{Name: "A", Email: "a@b.co", Phone: "555-1234"}, FieldPhone, true},
		{"letters in phone", model.CustomerInfo{Name: "A", Email: "a@b.co", Phone: "555-123-456x"}, FieldPhone, true},
		{"international phone", model.CustomerInfo{Name: "A", Email: "a@b.co", Phone: "+44 20 7946 0958"}, FieldPhone, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := validateCustomer(tc.ci)
			if _, got := errs[tc.field]; got != tc.bad {
				t.Fatalf("expected error on %s = %v, got %v", tc.field, tc.bad, errs)
			}
		})
	}
}

func TestSetField_ClearsOnlyThatError(t *testing.T) {
	f := startFlow(t, &fakeService{})
	f.Validate()
	if len(f.FieldErrors()) != 3 {
		t.Fatalf("expected 3 field errors, got %v", f.FieldErrors())
	}
	_ = f.SetField(FieldEmail, "x")
	errs := f.FieldErrors()
	if _, ok := errs[FieldEmail]; ok {
		t.Fatal("expected email error cleared")
	}
	if len(errs) != 2 {
		t.Fatalf("expected name and phone errors kept, got %v", errs)
	}
	if err := f.SetField("age", "3"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestSubmit_InvalidEmailNeverReachesService(t *testing.T) {
	svc := &fakeService{}
	f := startFlow(t, svc)
	f.ToggleSeat("A1")
	_ = f.Proceed()
	fillValid(f)
	_ = f.SetField(FieldEmail, "not-an-email")

	if _, err := f.Submit(context.Background()); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(svc.calls) != 0 {
		t.Fatalf("expected no service calls, got %d", len(svc.calls))
	}
	if _, ok := f.FieldErrors()[FieldEmail]; !ok {
		t.Fatal("expected email field error")
	}
	if f.Step() != StepCheckout {
		t.Fatalf("expected to stay on checkout, got %s", f.Step())
	}
}

func TestSubmit_OnlyFromCheckout(t *testing.T) {
	f := startFlow(t, &fakeService{})
	if _, err := f.Submit(context.Background()); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("expected ErrWrongStep, got %v", err)
	}
}

func TestSubmit_FailureRaisesAlertAndAllowsRetry(t *testing.T) {
	svc := &fakeService{
		results: []*model.CreateBookingResponse{{Success: false, Message: "Missing required fields: seats"}},
	}
	f := startFlow(t, svc)
	f.ToggleSeat("A1")
	_ = f.Proceed()
	fillValid(f)

	_, err := f.Submit(context.Background())
	if !errors.Is(err, ErrBookingFailed) {
		t.Fatalf("expected ErrBookingFailed, got %v", err)
	}
	if f.Step() != StepFailed {
		t.Fatalf("expected failed step, got %s", f.Step())
	}
	a := f.Alert()
	if a == nil || a.Title != "Booking Failed" || a.Message != "Missing required fields: seats" {
		t.Fatalf("unexpected alert: %+v", a)
	}
	f.DismissAlert()
	if f.Alert() != nil {
		t.Fatal("expected alert dismissed")
	}

	conf, err := f.Submit(context.Background())
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if conf.BookingID != "BK1" || f.Step() != StepConfirmed {
		t.Fatalf("unexpected confirmation: %+v (step %s)", conf, f.Step())
	}
	if len(svc.calls) != 2 {
		t.Fatalf("expected 2 create calls, got %d", len(svc.calls))
	}
}

func TestSubmit_TransportErrorRaisesAlert(t *testing.T) {
	svc := &fakeService{errs: []error{&bookingapi.Error{Op: "createBooking", Message: "HTTP error: status 503"}}}
	f := startFlow(t, svc)
	f.ToggleSeat("A1")
	_ = f.Proceed()
	fillValid(f)

	_, err := f.Submit(context.Background())
	var apiErr *bookingapi.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected wrapped *bookingapi.Error, got %v", err)
	}
	if a := f.Alert(); a == nil || a.Message != "HTTP error: status 503" {
		t.Fatalf("unexpected alert: %+v", a)
	}
}

func TestSubmit_EndToEnd(t *testing.T) {
	store := repository.NewMemoryStore(repository.StoreOptions{})
	svc := bookingapi.NewLocal(store)
	f := startFlow(t, svc)
	f.SetClock(func() time.Time { return time.Date(2024, 4, 16, 17, 30, 0, 0, time.UTC) })

	f.ToggleSeat("A1")
	f.ToggleSeat("A2")
	want := decimal.RequireFromString("25.98")
	if !f.Total().Equal(want) {
		t.Fatalf("expected total %s, got %s", want, f.Total())
	}
	if err := f.Proceed(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	fillValid(f)

	conf, err := f.Submit(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !regexp.MustCompile(`^BK\d+$`).MatchString(conf.BookingID) {
		t.Fatalf("expected BK<digits>, got %q", conf.BookingID)
	}
	if len(conf.Seats) != 2 || conf.Seats[0] != "A1" || conf.Seats[1] != "A2" {
		t.Fatalf("unexpected seats: %v", conf.Seats)
	}
	if !conf.Total.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, conf.Total)
	}
	if conf.MovieTitle != "Dune: Part Two" || conf.TheaterName != "Cineplex Grand" {
		t.Fatalf("unexpected snapshot: %+v", conf)
	}

	stored, err := store.Get(context.Background(), conf.BookingID)
	if err != nil {
		t.Fatalf("expected stored booking, got %v", err)
	}
	if stored.Timestamp != "2024-04-16T17:30:00.000Z" || stored.CustomerInfo.Email != "jane@example.com" {
		t.Fatalf("unexpected stored booking: %+v", stored)
	}

	// A new session for the same showtime sees the seats as booked.
	next := startFlow(t, svc)
	if next.ToggleSeat("A1") {
		t.Fatal("expected A1 booked for the next session")
	}
}

func TestSubmit_IdenticalResubmissionsCreateTwoRecords(t *testing.T) {
	store := repository.NewMemoryStore(repository.StoreOptions{})
	svc := bookingapi.NewLocal(store)
	var ids []string
	for i := 0; i < 2; i++ {
		f := startFlow(t, &seatsFree{svc})
		f.ToggleSeat("A1")
		_ = f.Proceed()
		fillValid(f)
		conf, err := f.Submit(context.Background())
		if err != nil {
			t.Fatalf("submission %d: %v", i, err)
		}
		ids = append(ids, conf.BookingID)
	}
	if ids[0] == ids[1] {
		t.Fatalf("expected distinct ids, got %v", ids)
	}
	all, _ := store.List(context.Background())
	if len(all) != 2 {
		t.Fatalf("expected 2 records, got %d", len(all))
	}
}

// seatsFree hides stored bookings from the seat map so a second session can
// pick the same seat, as a client holding a stale view would.
type seatsFree struct{ *bookingapi.Local }

func (s *seatsFree) GetSeatAvailability(ctx context.Context, showtimeID uint64) (*model.SeatAvailability, error) {
	return &model.SeatAvailability{ShowtimeID: showtimeID}, nil
}
