package handler

import (
    "bytes"
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/movie-ticket-booking/internal/catalog"
    "github.com/iliyamo/movie-ticket-booking/internal/model"
    "github.com/iliyamo/movie-ticket-booking/internal/queue"
    "github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// EventPublisher delivers booking events to the broker.  It is called on
// the request path and must not block.
type EventPublisher interface {
    PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// BookingHandler serves the single booking endpoint.  The action field of
// the body selects createBooking, getBookings or getBooking.
type BookingHandler struct {
    Store    repository.BookingStore
    Catalog  *catalog.Catalog
    Events   EventPublisher // optional
    Envelope bool           // wrap answers in a gateway envelope
    Now      func() time.Time
}

// NewBookingHandler panics on a nil store, like the other constructors.
func NewBookingHandler(store repository.BookingStore, cat *catalog.Catalog) *BookingHandler {
    if store == nil {
        panic("nil store passed to NewBookingHandler")
    }
    if cat == nil {
        cat = catalog.Default()
    }
    return &BookingHandler{Store: store, Catalog: cat, Now: time.Now}
}

// Handle dispatches on the action of the request body.
func (h *BookingHandler) Handle(c echo.Context) error {
    var req model.BookingRequest
    if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
        return h.respond(c, http.StatusBadRequest, model.ErrorResponse{Message: "Invalid request body", Error: err.Error()})
    }
    switch req.Action {
    case "":
        return h.respond(c, http.StatusBadRequest, model.ErrorResponse{Message: "Missing action parameter"})
    case model.ActionCreateBooking:
        return h.create(c, req.Data)
    case model.ActionGetBookings:
        return h.list(c)
    case model.ActionGetBooking:
        return h.get(c, req.Data)
    }
    return h.respond(c, http.StatusBadRequest, model.ErrorResponse{Message: fmt.Sprintf("Invalid action: %s", req.Action)})
}

func (h *BookingHandler) create(c echo.Context, data json.RawMessage) error {
    if isAbsent(data) {
        return h.respond(c, http.StatusBadRequest, model.ErrorResponse{Message: "Missing booking data"})
    }
    var b model.BookingData
    if err := json.Unmarshal(data, &b); err != nil {
        return h.respond(c, http.StatusBadRequest, model.ErrorResponse{Message: "Invalid booking data", Error: err.Error()})
    }
    // The identifier is always assigned by the store.
    b.ID = ""

    ctx := c.Request().Context()
    if err := h.Store.Create(ctx, &b); err != nil {
        switch {
        case errors.Is(err, repository.ErrMissingFields), errors.Is(err, repository.ErrInvalidField):
            return h.respond(c, http.StatusBadRequest, model.ErrorResponse{Message: sentence(err.Error())})
        case errors.Is(err, repository.ErrSeatTaken):
            return h.respond(c, http.StatusConflict, model.ErrorResponse{Message: "One or more seats are already booked"})
        }
        return h.internal(c, "create booking", err)
    }

    h.publish(b)
    return h.respond(c, http.StatusOK, model.CreateBookingResponse{
        Success:   true,
        BookingID: b.ID,
        Message:   "Booking created successfully",
        Data:      &b,
    })
}

func (h *BookingHandler) list(c echo.Context) error {
    all, err := h.Store.List(c.Request().Context())
    if err != nil {
        return h.internal(c, "list bookings", err)
    }
    return h.respond(c, http.StatusOK, model.GetBookingsResponse{Success: true, Bookings: all})
}

func (h *BookingHandler) get(c echo.Context, data json.RawMessage) error {
    var lookup model.BookingLookup
    if !isAbsent(data) {
        if err := json.Unmarshal(data, &lookup); err != nil {
            return h.respond(c, http.StatusBadRequest, model.ErrorResponse{Message: "Invalid booking data", Error: err.Error()})
        }
    }
    if lookup.ID == "" {
        return h.respond(c, http.StatusBadRequest, model.ErrorResponse{Message: "Missing booking ID"})
    }
    b, err := h.Store.Get(c.Request().Context(), lookup.ID)
    if errors.Is(err, repository.ErrBookingNotFound) {
        return h.respond(c, http.StatusOK, model.GetBookingResponse{Success: false, Message: "Booking not found"})
    }
    if err != nil {
        return h.internal(c, "get booking", err)
    }
    return h.respond(c, http.StatusOK, model.GetBookingResponse{Success: true, Booking: b})
}

func (h *BookingHandler) internal(c echo.Context, op string, err error) error {
    c.Logger().Errorf("booking: %s: %v", op, err)
    return h.respond(c, http.StatusInternalServerError, model.ErrorResponse{Message: "Internal server error", Error: err.Error()})
}

// respond writes body with status, or wraps it in a gateway envelope
// answered with 200 when envelope mode is on.
func (h *BookingHandler) respond(c echo.Context, status int, body any) error {
    if !h.Envelope {
        return c.JSON(status, body)
    }
    bs, err := json.Marshal(body)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, model.GatewayEnvelope{
        StatusCode: status,
        Headers:    map[string]string{"Content-Type": "application/json"},
        Body:       string(bs),
    })
}

// publish hands the booking event to the publisher.  Failures are logged
// and never affect the response.
func (h *BookingHandler) publish(b model.BookingData) {
    if h.Events == nil {
        return
    }
    var stp *model.Showtime
    var mvp *model.Movie
    var thp *model.Theater
    if st, mv, th, err := h.Catalog.Resolve(b.ShowtimeID); err == nil {
        stp, mvp, thp = &st, &mv, &th
    }
    now := time.Now
    if h.Now != nil {
        now = h.Now
    }
    ev := queue.NewBookingConfirmedEvent(b, stp, mvp, thp, now())
    if err := h.Events.PublishBookingConfirmed(context.Background(), ev); err != nil {
        log.Printf("booking: event for %s not published: %v", ev.BookingID, err)
    }
}

func isAbsent(data json.RawMessage) bool {
    d := bytes.TrimSpace(data)
    return len(d) == 0 || bytes.Equal(d, []byte("null"))
}

// sentence upper-cases the first letter of msg.
func sentence(msg string) string {
    if msg == "" || msg[0] < 'a' || msg[0] > 'z' {
        return msg
    }
    return string(msg[0]-'a'+'A') + msg[1:]
}
