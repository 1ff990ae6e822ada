package repository

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/iliyamo/movie-ticket-booking/internal/config"
	"github.com/iliyamo/movie-ticket-booking/internal/database"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// testStoreContract exercises the behaviour every BookingStore shares.
// newStore must return an empty store.
func testStoreContract(t *testing.T, newStore func(StoreOptions) BookingStore) {
	ctx := context.Background()

	t.Run("create list get", func(t *testing.T) {
		s := newStore(StoreOptions{})
		first, second := validBooking(), validBooking()
		second.Seats = []string{"C3", "B2"}
		for _, b := range []*model.BookingData{first, second} {
			if err := s.Create(ctx, b); err != nil {
				t.Fatalf("expected nil error, got %v", err)
			}
		}
		all, err := s.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(all) != 2 || all[0].ID != first.ID || all[1].ID != second.ID {
			t.Fatalf("expected both bookings in creation order, got %+v", all)
		}
		got, err := s.Get(ctx, second.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if len(got.Seats) != 2 || got.Seats[0] != "C3" || got.Seats[1] != "B2" {
			t.Fatalf("expected seats in selection order, got %v", got.Seats)
		}
		if !got.TotalPrice.Equal(second.TotalPrice) || got.CustomerInfo.Email != "jane@example.com" {
			t.Fatalf("unexpected stored booking: %+v", got)
		}
	})

	t.Run("get unknown", func(t *testing.T) {
		s := newStore(StoreOptions{})
		if _, err := s.Get(ctx, "BK1"); !errors.Is(err, ErrBookingNotFound) {
			t.Fatalf("expected ErrBookingNotFound, got %v", err)
		}
	})

	t.Run("taken seats", func(t *testing.T) {
		s := newStore(StoreOptions{})
		b := validBooking()
		if err := s.Create(ctx, b); err != nil {
			t.Fatalf("create: %v", err)
		}
		taken, err := s.TakenSeats(ctx, b.ShowtimeID)
		if err != nil {
			t.Fatalf("taken seats: %v", err)
		}
		if len(taken) != 2 || taken[0] != "A1" || taken[1] != "A2" {
			t.Fatalf("expected [A1 A2], got %v", taken)
		}
		if other, _ := s.TakenSeats(ctx, b.ShowtimeID+1); len(other) != 0 {
			t.Fatalf("expected no seats for another showtime, got %v", other)
		}
	})

	t.Run("oversized fields", func(t *testing.T) {
		s := newStore(StoreOptions{})
		long := validBooking()
		long.Seats = []string{"A1", "A123456789"}
		if err := s.Create(ctx, long); !errors.Is(err, ErrInvalidField) {
			t.Fatalf("expected ErrInvalidField for seat label, got %v", err)
		}
		stamp := validBooking()
		stamp.Timestamp = "2024-04-16T17:30:00.000000000000000000000000000Z"
		if err := s.Create(ctx, stamp); !errors.Is(err, ErrInvalidField) {
			t.Fatalf("expected ErrInvalidField for timestamp, got %v", err)
		}
		if long.ID != "" || stamp.ID != "" {
			t.Fatal("expected no id assigned")
		}
		if all, _ := s.List(ctx); len(all) != 0 {
			t.Fatalf("expected store to stay empty, got %d records", len(all))
		}
		edge := validBooking()
		edge.Seats = []string{"ABCDEFGH"}
		if err := s.Create(ctx, edge); err != nil {
			t.Fatalf("expected an 8 character label to be accepted, got %v", err)
		}
	})

	t.Run("enforced claims", func(t *testing.T) {
		s := newStore(StoreOptions{EnforceSeats: true})
		if err := s.Create(ctx, validBooking()); err != nil {
			t.Fatalf("create: %v", err)
		}
		dup := validBooking()
		dup.Seats = []string{"A5", "A2"}
		if err := s.Create(ctx, dup); !errors.Is(err, ErrSeatTaken) {
			t.Fatalf("expected ErrSeatTaken, got %v", err)
		}
		if dup.ID != "" {
			t.Fatalf("expected id cleared after a rejected create, got %q", dup.ID)
		}
		free := validBooking()
		free.Seats = []string{"A5"}
		if err := s.Create(ctx, free); err != nil {
			t.Fatalf("expected rolled back claim on A5 to be free, got %v", err)
		}
	})
}

func TestMemoryStore_Contract(t *testing.T) {
	testStoreContract(t, func(o StoreOptions) BookingStore { return NewMemoryStore(o) })
}

// TEST_REDIS_ADDR points the Redis contract at a live server; without it
// an in-process miniredis is used.  Each store gets its own key prefix.
func TestRedisBookingRepo_Contract(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = miniredis.RunT(t).Addr()
	}
	rdb, err := config.NewRedisClient(config.RedisConfig{Addr: addr})
	if err != nil {
		t.Fatalf("redis: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })

	n := 0
	testStoreContract(t, func(o StoreOptions) BookingStore {
		n++
		prefix := fmt.Sprintf("test-booking-%d-%d", time.Now().UnixNano(), n)
		t.Cleanup(func() {
			ctx := context.Background()
			keys, _ := rdb.Keys(ctx, prefix+":*").Result()
			if len(keys) > 0 {
				_ = rdb.Del(ctx, keys...).Err()
			}
		})
		return NewRedisBookingRepo(rdb, prefix, o)
	})
}

// TEST_MYSQL_ADDR, TEST_MYSQL_USER, TEST_MYSQL_PASS and TEST_MYSQL_DB point
// the MySQL contract at a scratch database.  Its booking tables are emptied.
func TestMySQLBookingRepo_Contract(t *testing.T) {
	addr := os.Getenv("TEST_MYSQL_ADDR")
	if addr == "" {
		t.Skip("TEST_MYSQL_ADDR not set")
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("TEST_MYSQL_ADDR: %v", err)
	}
	ctx := context.Background()
	db, err := database.Open(ctx, config.DBConfig{
		User: os.Getenv("TEST_MYSQL_USER"),
		Pass: os.Getenv("TEST_MYSQL_PASS"),
		Host: host,
		Port: port,
		Name: os.Getenv("TEST_MYSQL_DB"),
	})
	if err != nil {
		t.Fatalf("mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	testStoreContract(t, func(o StoreOptions) BookingStore {
		if _, err := db.ExecContext(ctx, "DELETE FROM bookings"); err != nil {
			t.Fatalf("reset: %v", err)
		}
		return NewMySQLBookingRepo(db, o)
	})
}
