package model

// SeatStatus is the state of a seat inside a seat map.
type SeatStatus string

const (
    SeatAvailable SeatStatus = "available"
    SeatSelected  SeatStatus = "selected"
    SeatBooked    SeatStatus = "booked"
)

// Seat is a single cell of a seat map.  Seats are derived per showtime and
// never persisted on their own; Label combines the row letter and the
// 1-based column number (e.g. "A1").
type Seat struct {
    Label  string     `json:"id"`
    Row    int        `json:"row"`
    Col    int        `json:"col"`
    Status SeatStatus `json:"status"`
}

// SeatAvailability is the seat grid of one showtime as computed by the
// server from stored bookings.  Booked lists the labels already claimed.
type SeatAvailability struct {
    ShowtimeID uint64   `json:"showtimeId"`
    Rows       int      `json:"rows"`
    Cols       int      `json:"cols"`
    Booked     []string `json:"booked"`
    Seats      [][]Seat `json:"seats"`
}
