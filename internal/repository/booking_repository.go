package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "strings"

    "github.com/go-sql-driver/mysql"

    "github.com/iliyamo/movie-ticket-booking/internal/model"
)

// MySQL error number for duplicate entries on a unique index.
const mysqlDupEntry = 1062

// claimIndex names the unique index on booking_seats.claim_key.  It must
// match the schema created by database.Migrate.
const claimIndex = "uq_booking_seats_claim"

// MySQLBookingRepo persists bookings in MySQL.  Each booking is one row in the
// bookings table plus one booking_seats row per selected seat.  The seat
// rows carry a claim_key only when seat claims are enforced; the unique
// index on that column is what rejects double bookings.
type MySQLBookingRepo struct {
    db   *sql.DB
    opts StoreOptions
}

// NewMySQLBookingRepo returns a MySQLBookingRepo bound to db.
func NewMySQLBookingRepo(db *sql.DB, opts StoreOptions) *MySQLBookingRepo {
    return &MySQLBookingRepo{db: db, opts: opts.withDefaults()}
}

// Create inserts the booking and its seats in a single transaction.  A
// primary key collision on the generated identifier is retried with a new
// one; a claim collision maps to ErrSeatTaken.
func (r *MySQLBookingRepo) Create(ctx context.Context, b *model.BookingData) error {
    if err := ValidateForCreate(b); err != nil {
        return err
    }
    now := r.opts.Now()
    prepare(b, now)
    for i := 0; i < maxIDAttempts; i++ {
        b.ID = r.opts.NewID(now)
        err := r.insert(ctx, b)
        if err == nil {
            return nil
        }
        var me *mysql.MySQLError
        if !errors.As(err, &me) || me.Number != mysqlDupEntry {
            b.ID = ""
            return err
        }
        if strings.Contains(me.Message, claimIndex) {
            b.ID = ""
            return ErrSeatTaken
        }
    }
    b.ID = ""
    return ErrConflict
}

func (r *MySQLBookingRepo) insert(ctx context.Context, b *model.BookingData) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    defer tx.Rollback()

    const q = `INSERT INTO bookings (id, movie_id, showtime_id, theater_id, customer_name, customer_email, customer_phone, total_price, status, booked_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    ci := b.CustomerInfo
    if _, err := tx.ExecContext(ctx, q, b.ID, b.MovieID, b.ShowtimeID, b.TheaterID,
        ci.Name, ci.Email, ci.Phone, b.TotalPrice, string(b.Status), b.Timestamp); err != nil {
        return err
    }

    query := `INSERT INTO booking_seats (booking_id, position, showtime_id, seat_label, claim_key) VALUES `
    args := make([]interface{}, 0, len(b.Seats)*5)
    claimed := make(map[string]bool, len(b.Seats))
    for i, label := range b.Seats {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?, ?, ?)"
        var claim sql.NullString
        if r.opts.EnforceSeats && !claimed[label] {
            claim = sql.NullString{String: claimKey(b.ShowtimeID, label), Valid: true}
            claimed[label] = true
        }
        args = append(args, b.ID, i, b.ShowtimeID, label, claim)
    }
    if _, err := tx.ExecContext(ctx, query, args...); err != nil {
        return err
    }
    return tx.Commit()
}

const bookingColumns = `id, movie_id, showtime_id, theater_id, customer_name, customer_email, customer_phone, total_price, status, booked_at`

func scanBooking(sc interface{ Scan(...any) error }) (model.BookingData, error) {
    var b model.BookingData
    var ci model.CustomerInfo
    var status string
    err := sc.Scan(&b.ID, &b.MovieID, &b.ShowtimeID, &b.TheaterID,
        &ci.Name, &ci.Email, &ci.Phone, &b.TotalPrice, &status, &b.Timestamp)
    if err != nil {
        return b, err
    }
    b.CustomerInfo = &ci
    b.Status = model.BookingStatus(status)
    b.Seats = []string{}
    return b, nil
}

// List returns all bookings in insertion order.
func (r *MySQLBookingRepo) List(ctx context.Context) ([]model.BookingData, error) {
    rows, err := r.db.QueryContext(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY seq`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.BookingData, 0)
    index := make(map[string]int)
    for rows.Next() {
        b, err := scanBooking(rows)
        if err != nil {
            return nil, err
        }
        index[b.ID] = len(out)
        out = append(out, b)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    if len(out) == 0 {
        return out, nil
    }

    srows, err := r.db.QueryContext(ctx, `SELECT booking_id, seat_label FROM booking_seats ORDER BY booking_id, position`)
    if err != nil {
        return nil, err
    }
    defer srows.Close()
    for srows.Next() {
        var id, label string
        if err := srows.Scan(&id, &label); err != nil {
            return nil, err
        }
        if i, ok := index[id]; ok {
            out[i].Seats = append(out[i].Seats, label)
        }
    }
    return out, srows.Err()
}

func (r *MySQLBookingRepo) Get(ctx context.Context, id string) (*model.BookingData, error) {
    row := r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
    b, err := scanBooking(row)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrBookingNotFound
    }
    if err != nil {
        return nil, err
    }
    rows, err := r.db.QueryContext(ctx, `SELECT seat_label FROM booking_seats WHERE booking_id = ? ORDER BY position`, id)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    for rows.Next() {
        var label string
        if err := rows.Scan(&label); err != nil {
            return nil, err
        }
        b.Seats = append(b.Seats, label)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return &b, nil
}

func (r *MySQLBookingRepo) TakenSeats(ctx context.Context, showtimeID uint64) ([]string, error) {
    const q = `SELECT DISTINCT bs.seat_label
               FROM booking_seats bs
               JOIN bookings b ON b.id = bs.booking_id
               WHERE bs.showtime_id = ? AND b.status = ?
               ORDER BY bs.seat_label`
    rows, err := r.db.QueryContext(ctx, q, showtimeID, string(model.BookingConfirmed))
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]string, 0)
    for rows.Next() {
        var label string
        if err := rows.Scan(&label); err != nil {
            return nil, err
        }
        out = append(out, label)
    }
    return out, rows.Err()
}

// claimKey identifies a seat of a showtime across bookings.
func claimKey(showtimeID uint64, label string) string {
    return fmt.Sprintf("%d:%s", showtimeID, label)
}
