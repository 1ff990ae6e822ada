package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/movie-ticket-booking/internal/config"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 4 << 20

// Client talks to the booking endpoint over HTTP.  All booking operations
// are POSTed to one URL and told apart by the action field; seat
// availability is read from a sibling showtimes resource.
type Client struct {
	httpClient *http.Client
	endpoint   string
	seatsBase  string
	timeout    time.Duration
	retries    int
	retryDelay time.Duration
	newID      func() string
}

// NewClient builds a Client from cfg.  A nil httpClient means
// http.DefaultClient; the per-attempt timeout comes from cfg either way.
func NewClient(cfg config.ClientConfig, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("bookingapi: invalid base url %q", cfg.BaseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	seats := *u
	seats.RawQuery = ""
	seats.Path = strings.TrimSuffix(path.Dir(strings.TrimSuffix(u.Path, "/")), "/")
	if seats.Path == "." {
		seats.Path = ""
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: httpClient,
		endpoint:   u.String(),
		seatsBase:  seats.String(),
		timeout:    timeout,
		retries:    cfg.Retries,
		retryDelay: cfg.RetryDelay,
		newID:      uuid.NewString,
	}, nil
}

// CreateBooking submits b.  The returned BookingID falls back to the id of
// the echoed booking document when the server omits it.
func (c *Client) CreateBooking(ctx context.Context, b *model.BookingData) (*model.CreateBookingResponse, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, &Error{Op: "createBooking", Message: err.Error(), Err: err}
	}
	var out model.CreateBookingResponse
	if err := c.call(ctx, model.BookingRequest{Action: model.ActionCreateBooking, Data: data}, &out); err != nil {
		return nil, err
	}
	if out.Success {
		if out.BookingID == "" && out.Data != nil {
			out.BookingID = out.Data.ID
		}
		if out.BookingID == "" {
			return nil, &Error{Op: "createBooking", Message: msgBadResponse}
		}
		if out.Message == "" {
			out.Message = msgCreated
		}
	}
	return &out, nil
}

func (c *Client) GetBookings(ctx context.Context) (*model.GetBookingsResponse, error) {
	var out model.GetBookingsResponse
	if err := c.call(ctx, model.BookingRequest{Action: model.ActionGetBookings}, &out); err != nil {
		return nil, err
	}
	if out.Bookings == nil {
		out.Bookings = []model.BookingData{}
	}
	return &out, nil
}

func (c *Client) GetBooking(ctx context.Context, id string) (*model.GetBookingResponse, error) {
	data, _ := json.Marshal(model.BookingLookup{ID: id})
	var out model.GetBookingResponse
	if err := c.call(ctx, model.BookingRequest{Action: model.ActionGetBooking, Data: data}, &out); err != nil {
		return nil, err
	}
	if out.Success && out.Booking == nil {
		out.Success = false
		if out.Message == "" {
			out.Message = msgNotFound
		}
	}
	return &out, nil
}

// GetSeatAvailability reads the seat grid of a showtime.
func (c *Client) GetSeatAvailability(ctx context.Context, showtimeID uint64) (*model.SeatAvailability, error) {
	const op = "getSeatAvailability"
	endpoint := fmt.Sprintf("%s/showtimes/%d/seats", c.seatsBase, showtimeID)
	status, raw, err := c.send(ctx, op, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, statusError(op, status, raw)
	}
	var out model.SeatAvailability
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &Error{Op: op, StatusCode: status, Message: msgBadResponse, Err: err}
	}
	return &out, nil
}

// call POSTs req and decodes the (possibly enveloped) answer into out.  A
// 4xx answer that still carries a message is an application-level failure
// and decodes like a success; anything else outside 2xx is an *Error.
func (c *Client) call(ctx context.Context, req model.BookingRequest, out any) error {
	op := string(req.Action)
	body, err := json.Marshal(req)
	if err != nil {
		return &Error{Op: op, Message: err.Error(), Err: err}
	}
	status, raw, err := c.send(ctx, op, http.MethodPost, c.endpoint, body)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return &Error{Op: op, StatusCode: status, Message: msgEndpointAbsent}
	}
	payload, status, err := unwrap(raw, status)
	if err != nil {
		return &Error{Op: op, StatusCode: status, Message: msgBadResponse, Err: err}
	}
	if status < 200 || status >= 300 {
		if status >= 400 && status < 500 && hasMessage(payload) {
			return decode(op, status, payload, out)
		}
		return statusError(op, status, payload)
	}
	return decode(op, status, payload, out)
}

func decode(op string, status int, payload []byte, out any) error {
	if err := json.Unmarshal(payload, out); err != nil {
		return &Error{Op: op, StatusCode: status, Message: msgBadResponse, Err: err}
	}
	return nil
}

func hasMessage(payload []byte) bool {
	var doc struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
	}
	if json.Unmarshal(payload, &doc) != nil {
		return false
	}
	return doc.Success != nil && !*doc.Success && doc.Message != ""
}

func statusError(op string, status int, body []byte) *Error {
	msg := fmt.Sprintf("HTTP error: status %d", status)
	var doc struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &doc) == nil && doc.Message != "" {
		msg += ": " + doc.Message
	}
	return &Error{Op: op, StatusCode: status, Message: msg}
}

// send performs the request, retrying network failures, timeouts and 5xx
// answers up to c.retries times with a fixed delay.  Cancellation of ctx
// ends the loop immediately.
func (c *Client) send(ctx context.Context, op, method, endpoint string, body []byte) (int, []byte, error) {
	requestID := c.newID()
	attempts := c.retries + 1
	var lastErr *Error
	for attempt := 1; attempt <= attempts; attempt++ {
		status, raw, err := c.attempt(ctx, method, endpoint, body, requestID)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return 0, nil, &Error{Op: op, Message: ctx.Err().Error(), Err: ctx.Err()}
			}
			lastErr = &Error{Op: op, Message: err.Error(), Err: err}
		case status >= 500:
			lastErr = statusError(op, status, raw)
		default:
			return status, raw, nil
		}
		if attempt < attempts {
			if err := c.wait(ctx); err != nil {
				return 0, nil, &Error{Op: op, Message: err.Error(), Err: err}
			}
		}
	}
	return 0, nil, lastErr
}

func (c *Client) attempt(ctx context.Context, method, endpoint string, body []byte, requestID string) (int, []byte, error) {
	actx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(actx, method, endpoint, rd)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", requestID)

	res, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return 0, nil, fmt.Errorf("request timed out after %s", c.timeout)
		}
		return 0, nil, err
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return res.StatusCode, raw, nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.retryDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(c.retryDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
