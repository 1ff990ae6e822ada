package model

import "encoding/json"

// Action selects the operation of the booking endpoint.
type Action string

const (
    ActionCreateBooking Action = "createBooking"
    ActionGetBookings   Action = "getBookings"
    ActionGetBooking    Action = "getBooking"
)

// BookingRequest is the body accepted by the booking endpoint.  Data is
// decoded according to Action.
type BookingRequest struct {
    Action Action          `json:"action"`
    Data   json.RawMessage `json:"data,omitempty"`
}

// BookingLookup is the Data payload of a getBooking request.
type BookingLookup struct {
    ID string `json:"id"`
}

// CreateBookingResponse answers createBooking.
type CreateBookingResponse struct {
    Success   bool         `json:"success"`
    BookingID string       `json:"bookingId,omitempty"`
    Message   string       `json:"message,omitempty"`
    Data      *BookingData `json:"data,omitempty"`
}

// GetBookingsResponse answers getBookings.
type GetBookingsResponse struct {
    Success  bool          `json:"success"`
    Bookings []BookingData `json:"bookings"`
    Message  string        `json:"message,omitempty"`
}

// GetBookingResponse answers getBooking.  Booking is nil when Success is
// false.
type GetBookingResponse struct {
    Success bool         `json:"success"`
    Booking *BookingData `json:"booking,omitempty"`
    Message string       `json:"message,omitempty"`
}

// ErrorResponse is written for malformed requests and internal failures.
type ErrorResponse struct {
    Success bool   `json:"success"`
    Message string `json:"message"`
    Error   string `json:"error,omitempty"`
}

// GatewayEnvelope mimics a function-as-a-service proxy response, where the
// real payload is serialized into Body.
type GatewayEnvelope struct {
    StatusCode int               `json:"statusCode"`
    Headers    map[string]string `json:"headers,omitempty"`
    Body       string            `json:"body"`
}
