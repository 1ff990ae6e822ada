package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "os"
    "path/filepath"
    "strings"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer listens on the booking queue and appends one line per event to
// <LogDir>/booking.log, "logs" by default.
type Consumer struct {
    URL      string
    LogDir   string
    Prefetch int // unacknowledged deliveries in flight, 50 when zero
}

const maxBackoff = 30 * time.Second

// Run keeps a consumer attached until ctx is cancelled.  Dial failures back
// off exponentially; a closed delivery channel triggers a reconnect.
// Messages that cannot be handled are rejected without requeue.
func (c *Consumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(c.URL)
        if err != nil {
            log.Printf("booking-consumer: dial: %v; retrying in %s", err, backoff)
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            backoff = min(2*backoff, maxBackoff)
            continue
        }
        backoff = time.Second

        err = c.drain(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.Printf("booking-consumer: %v; reconnecting", err)
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}

// subscribe opens a channel on conn and starts consuming the booking queue.
func (c *Consumer) subscribe(conn *amqp.Connection) (*amqp.Channel, <-chan amqp.Delivery, error) {
    ch, err := conn.Channel()
    if err != nil {
        return nil, nil, fmt.Errorf("open channel: %w", err)
    }
    prefetch := c.Prefetch
    if prefetch <= 0 {
        prefetch = 50
    }
    if err := ch.Qos(prefetch, 0, false); err != nil {
        log.Printf("booking-consumer: qos: %v", err)
    }
    if _, err := ch.QueueDeclare(BookingQueueName, true, false, false, false, nil); err != nil {
        _ = ch.Close()
        return nil, nil, fmt.Errorf("declare %s: %w", BookingQueueName, err)
    }
    msgs, err := ch.Consume(BookingQueueName, "", false, false, false, false, nil)
    if err != nil {
        _ = ch.Close()
        return nil, nil, fmt.Errorf("consume %s: %w", BookingQueueName, err)
    }
    return ch, msgs, nil
}

// drain handles deliveries until ctx ends or the broker closes the stream.
func (c *Consumer) drain(ctx context.Context, conn *amqp.Connection) error {
    ch, msgs, err := c.subscribe(conn)
    if err != nil {
        return err
    }
    defer func() { _ = ch.Close() }()

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("delivery channel closed")
            }
            if err := c.handleMessage(d.Body); err != nil {
                log.Printf("booking-consumer: message %s: %v", d.MessageId, err)
                _ = d.Nack(false, false)
                continue
            }
            _ = d.Ack(false)
        }
    }
}

// handleMessage decodes one event and appends its log line.
func (c *Consumer) handleMessage(body []byte) error {
    var ev BookingConfirmedEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("decode event: %w", err)
    }
    if ev.BookingID == "" {
        return errors.New("event without booking id")
    }
    return appendLine(c.logPath(), FormatLogLine(ev))
}

func (c *Consumer) logPath() string {
    dir := c.LogDir
    if dir == "" {
        dir = "logs"
    }
    return filepath.Join(dir, "booking.log")
}

func appendLine(path, line string) error {
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
        return err
    }
    f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return err
    }
    if _, err := f.WriteString(line); err != nil {
        _ = f.Close()
        return err
    }
    return f.Close()
}

// FormatLogLine renders ev as a single newline-terminated log line.
func FormatLogLine(ev BookingConfirmedEvent) string {
    seats := "[]"
    if len(ev.SeatLabels) > 0 {
        seats = fmt.Sprintf("[%s]", strings.Join(ev.SeatLabels, ","))
    }
    return fmt.Sprintf("[%s] Booking confirmed | booking_id=%s | showtime_id=%d | theater=%q | movie=%q | when=\"%s %s\" | total=%s | seats=%s\n",
        ev.ConfirmedAt, ev.BookingID, ev.ShowtimeID, ev.TheaterName, ev.MovieTitle, ev.Date, ev.Time, ev.Total, seats)
}
