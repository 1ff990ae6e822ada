package model

import "github.com/shopspring/decimal"

// ShowtimeFormat is the projection format of a screening.
type ShowtimeFormat string

const (
    FormatStandard ShowtimeFormat = "standard"
    Format3D       ShowtimeFormat = "3D"
    FormatIMAX     ShowtimeFormat = "IMAX"
)

// Showtime represents a scheduled screening of a movie at a theater.
// MovieID and TheaterID must resolve to catalog entries.  Price is the
// per-seat price in the venue currency.
//
// Fields:
//  ID        – catalog identifier.
//  MovieID   – movie being screened.
//  TheaterID – theater hosting the screening.
//  Date      – ISO date (YYYY-MM-DD).
//  Time      – local start time (HH:MM).
//  Price     – price of a single seat.
//  Format    – standard, 3D or IMAX.
type Showtime struct {
    ID        uint64          `json:"id"`
    MovieID   uint64          `json:"movieId"`
    TheaterID uint64          `json:"theaterId"`
    Date      string          `json:"date"`
    Time      string          `json:"time"`
    Price     decimal.Decimal `json:"price"`
    Format    ShowtimeFormat  `json:"format"`
}
