// Package queue_publisher publishes booking events to RabbitMQ.  Events are
// queued in memory and sent by a single worker, so the booking handler never
// waits on the broker.  Failures are logged and the event is dropped.
package queue_publisher

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "net"
    "sync"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    q "github.com/iliyamo/movie-ticket-booking/internal/queue"
)

const (
    defaultBuffer  = 256
    publishTimeout = 5 * time.Second
)

// ErrPublisherBusy is returned when the outgoing buffer is full.
var ErrPublisherBusy = errors.New("event buffer full")

// ErrPublisherClosed is returned after Close.
var ErrPublisherClosed = errors.New("publisher closed")

// AMQPPublisher keeps one channel open and redials after any failure.
// It is safe for concurrent use.
type AMQPPublisher struct {
    URL string

    events    chan q.BookingConfirmedEvent
    stop      chan struct{}
    done      chan struct{}
    closeOnce sync.Once

    // owned by the worker
    conn *amqp.Connection
    ch   *amqp.Channel
}

// NewAMQPPublisher returns a publisher for url and starts its worker.
// Nothing is dialed until the first event.
func NewAMQPPublisher(url string) *AMQPPublisher {
    p := newPublisher(url, defaultBuffer)
    go p.run()
    return p
}

func newPublisher(url string, size int) *AMQPPublisher {
    return &AMQPPublisher{
        URL:    url,
        events: make(chan q.BookingConfirmedEvent, size),
        stop:   make(chan struct{}),
        done:   make(chan struct{}),
    }
}

// PublishBookingConfirmed queues event for delivery.  It never blocks: a
// full buffer drops the event and reports ErrPublisherBusy.
func (p *AMQPPublisher) PublishBookingConfirmed(ctx context.Context, event q.BookingConfirmedEvent) error {
    if err := ctx.Err(); err != nil {
        return err
    }
    select {
    case <-p.stop:
        return ErrPublisherClosed
    default:
    }
    select {
    case p.events <- event:
        return nil
    default:
        log.Printf("rabbitmq: dropping event for %s: %v", event.BookingID, ErrPublisherBusy)
        return ErrPublisherBusy
    }
}

func (p *AMQPPublisher) run() {
    defer close(p.done)
    defer p.reset()
    for {
        select {
        case <-p.stop:
            return
        case ev := <-p.events:
            ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
            if err := p.send(ctx, ev); err != nil {
                log.Printf("rabbitmq: publish %s: %v", ev.BookingID, err)
            }
            cancel()
        }
    }
}

// send writes event to the booking queue as a persistent JSON message
// keyed by its event id.
func (p *AMQPPublisher) send(ctx context.Context, event q.BookingConfirmedEvent) error {
    body, err := json.Marshal(event)
    if err != nil {
        return fmt.Errorf("marshal event %s: %w", event.EventID, err)
    }
    ch, err := p.channel(ctx)
    if err != nil {
        return err
    }
    err = ch.PublishWithContext(ctx, "", q.BookingQueueName, false, false, amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        MessageId:    event.EventID,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    })
    if err != nil {
        p.reset()
        return err
    }
    return nil
}

// channel returns the open channel, dialing and declaring the durable
// booking queue when needed.  The dial and handshake end at ctx's deadline.
func (p *AMQPPublisher) channel(ctx context.Context) (*amqp.Channel, error) {
    if p.ch != nil && !p.ch.IsClosed() {
        return p.ch, nil
    }
    p.reset()
    conn, err := amqp.DialConfig(p.URL, amqp.Config{
        Heartbeat: 10 * time.Second,
        Locale:    "en_US",
        Dial:      dialContext(ctx),
    })
    if err != nil {
        return nil, fmt.Errorf("dial: %w", err)
    }
    ch, err := conn.Channel()
    if err != nil {
        _ = conn.Close()
        return nil, fmt.Errorf("open channel: %w", err)
    }
    if _, err := ch.QueueDeclare(q.BookingQueueName, true, false, false, false, nil); err != nil {
        _ = ch.Close()
        _ = conn.Close()
        return nil, fmt.Errorf("declare %s: %w", q.BookingQueueName, err)
    }
    p.conn, p.ch = conn, ch
    return ch, nil
}

// dialContext dials with ctx and carries its deadline onto the connection
// for the AMQP handshake.  The client clears it once the connection opens.
func dialContext(ctx context.Context) func(network, addr string) (net.Conn, error) {
    return func(network, addr string) (net.Conn, error) {
        var d net.Dialer
        conn, err := d.DialContext(ctx, network, addr)
        if err != nil {
            return nil, err
        }
        if deadline, ok := ctx.Deadline(); ok {
            if err := conn.SetDeadline(deadline); err != nil {
                _ = conn.Close()
                return nil, err
            }
        }
        return conn, nil
    }
}

func (p *AMQPPublisher) reset() {
    if p.ch != nil {
        _ = p.ch.Close()
    }
    if p.conn != nil {
        _ = p.conn.Close()
    }
    p.conn, p.ch = nil, nil
}

// Close stops the worker and releases the broker connection.  Events still
// buffered are discarded.
func (p *AMQPPublisher) Close() error {
    p.closeOnce.Do(func() {
        close(p.stop)
        <-p.done
    })
    return nil
}
