// booking-smoke runs one booking session against the configured booking
// service: it loads seat availability for a showtime, selects the given
// seats, fills in the checkout form and submits.  With BOOKING_API_URL
// left at its placeholder the session runs against an in-process store.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/iliyamo/movie-ticket-booking/internal/booking"
	"github.com/iliyamo/movie-ticket-booking/internal/bookingapi"
	"github.com/iliyamo/movie-ticket-booking/internal/catalog"
	"github.com/iliyamo/movie-ticket-booking/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		showtimeID uint64
		seats      []string
		name       string
		email      string
		phone      string
	)
	flagSet := pflag.NewFlagSet("booking-smoke", pflag.ContinueOnError)
	flagSet.Uint64Var(&showtimeID, "showtime", 1, "showtime to book")
	flagSet.StringSliceVar(&seats, "seats", []string{"A1"}, "seat labels to select (comma separated)")
	flagSet.StringVar(&name, "name", "Smoke Test", "customer name")
	flagSet.StringVar(&email, "email", "smoke@example.com", "customer email")
	flagSet.StringVar(&phone, "phone", "5551234567", "customer phone")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	svc, err := bookingapi.New(config.LoadClient(), nil)
	if err != nil {
		return err
	}
	flow, err := booking.Start(ctx, svc, catalog.Default(), showtimeID)
	if err != nil {
		return err
	}
	fmt.Printf("%s at %s, %s %s (%s)\n", flow.Movie().Title, flow.Theater().Name,
		flow.Showtime().Date, flow.Showtime().Time, flow.Showtime().Format)

	for _, label := range seats {
		if !flow.ToggleSeat(strings.ToUpper(strings.TrimSpace(label))) {
			return fmt.Errorf("seat %s cannot be selected", label)
		}
	}
	if err := flow.Proceed(); err != nil {
		return err
	}
	for field, value := range map[booking.Field]string{
		booking.FieldName:  name,
		booking.FieldEmail: email,
		booking.FieldPhone: phone,
	} {
		if err := flow.SetField(field, value); err != nil {
			return err
		}
	}
	if errs := flow.Validate(); len(errs) > 0 {
		for field, msg := range errs {
			fmt.Fprintf(os.Stderr, "%s: %s\n", field, msg)
		}
		return booking.ErrValidation
	}

	conf, err := flow.Submit(ctx)
	if err != nil {
		if a := flow.Alert(); a != nil {
			return fmt.Errorf("%s: %s", a.Title, a.Message)
		}
		return err
	}
	fmt.Printf("booking %s confirmed: seats %s, total $%s\n",
		conf.BookingID, strings.Join(conf.Seats, ", "), conf.Total.StringFixed(2))
	return nil
}
