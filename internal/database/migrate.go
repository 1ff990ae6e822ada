package database

import (
	"context"
	"database/sql"
	"fmt"
)

const createBookingsTableSQL = `
CREATE TABLE IF NOT EXISTS bookings (
    id             VARCHAR(32)     NOT NULL,
    seq            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
    movie_id       BIGINT UNSIGNED NOT NULL,
    showtime_id    BIGINT UNSIGNED NOT NULL,
    theater_id     BIGINT UNSIGNED NOT NULL,
    customer_name  VARCHAR(255)    NOT NULL,
    customer_email VARCHAR(255)    NOT NULL,
    customer_phone VARCHAR(64)     NOT NULL,
    total_price    DECIMAL(10,2)   NOT NULL,
    status         VARCHAR(16)     NOT NULL,
    booked_at      VARCHAR(40)     NOT NULL,
    created_at     DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (id),
    UNIQUE KEY uq_bookings_seq (seq),
    KEY idx_bookings_showtime (showtime_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// claim_key is "<showtime>:<label>" when seat claims are enforced and NULL
// otherwise; MySQL allows any number of NULLs under a unique index.
const createBookingSeatsTableSQL = `
CREATE TABLE IF NOT EXISTS booking_seats (
    booking_id  VARCHAR(32)     NOT NULL,
    position    INT UNSIGNED    NOT NULL,
    showtime_id BIGINT UNSIGNED NOT NULL,
    seat_label  VARCHAR(8)      NOT NULL,
    claim_key   VARCHAR(48)     NULL,
    PRIMARY KEY (booking_id, position),
    UNIQUE KEY uq_booking_seats_claim (claim_key),
    KEY idx_booking_seats_showtime (showtime_id, seat_label),
    CONSTRAINT fk_booking_seats_booking FOREIGN KEY (booking_id) REFERENCES bookings (id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// Migrate creates the booking tables when they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	steps := []struct {
		name string
		sql  string
	}{
		{"bookings", createBookingsTableSQL},
		{"booking_seats", createBookingSeatsTableSQL},
	}
	for _, s := range steps {
		if _, err := db.ExecContext(ctx, s.sql); err != nil {
			return fmt.Errorf("migrate %s: %w", s.name, err)
		}
	}
	return nil
}
