package model

import "github.com/shopspring/decimal"

func init() {
    // Prices travel as JSON numbers on the booking wire format.
    decimal.MarshalJSONWithoutQuotes = true
}

// BookingStatus is the lifecycle state of a booking record.
type BookingStatus string

const (
    BookingConfirmed BookingStatus = "confirmed"
    BookingPending   BookingStatus = "pending"
    BookingCancelled BookingStatus = "cancelled"
)

// CustomerInfo holds the contact details captured at checkout.
type CustomerInfo struct {
    Name  string `json:"name"`
    Email string `json:"email"`
    Phone string `json:"phone"`
}

// BookingData is the booking document owned by the record store.  It is
// created once at submission time and never mutated afterwards.
//
// Fields:
//  ID           – identifier assigned by the store ("BK" followed by digits).
//  MovieID      – booked movie.
//  ShowtimeID   – booked showtime.
//  TheaterID    – theater of the showtime.
//  Seats        – seat labels in selection order.
//  CustomerInfo – contact details; nil when absent from the request.
//  TotalPrice   – seats × showtime price as computed by the client.
//  Status       – confirmed, pending or cancelled.
//  Timestamp    – creation time, ISO 8601.
type BookingData struct {
    ID           string          `json:"id,omitempty"`
    MovieID      uint64          `json:"movieId"`
    ShowtimeID   uint64          `json:"showtimeId"`
    TheaterID    uint64          `json:"theaterId"`
    Seats        []string        `json:"seats"`
    CustomerInfo *CustomerInfo   `json:"customerInfo"`
    TotalPrice   decimal.Decimal `json:"totalPrice"`
    Status       BookingStatus   `json:"status"`
    Timestamp    string          `json:"timestamp"`
}
