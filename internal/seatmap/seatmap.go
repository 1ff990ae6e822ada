// Package seatmap models the 8x10 seat grid of one booking session and the
// rules for selecting seats on it.
package seatmap

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

const (
	Rows        = 8
	Cols        = 10
	MaxSelected = 10

	// LegacyBookedProbability is the share of seats NewRandom marks booked.
	LegacyBookedProbability = 0.2
)

// Map is the seat grid of one session.  It is not safe for concurrent use.
type Map struct {
	status   [Rows][Cols]model.SeatStatus
	selected []string
}

// New returns a map where the seats whose labels appear in booked are
// booked and every other seat is available.  Unknown labels are ignored.
func New(booked []string) *Map {
	m := &Map{}
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			m.status[r][c] = model.SeatAvailable
		}
	}
	for _, l := range booked {
		if r, c, ok := ParseLabel(l); ok {
			m.status[r][c] = model.SeatBooked
		}
	}
	return m
}

// NewRandom marks each seat booked with independent probability p.  It is
// a demo helper and has no relation to stored bookings.
func NewRandom(rng *rand.Rand, p float64) *Map {
	m := New(nil)
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			if rng.Float64() < p {
				m.status[r][c] = model.SeatBooked
			}
		}
	}
	return m
}

// Label returns the seat label for zero-based row and column, e.g. "A1".
func Label(row, col int) string {
	return fmt.Sprintf("%c%d", 'A'+row, col+1)
}

// ParseLabel is the inverse of Label.  Labels must be canonical: "A01"
// and "a1" are rejected.
func ParseLabel(label string) (row, col int, ok bool) {
	if len(label) < 2 {
		return 0, 0, false
	}
	row = int(label[0] - 'A')
	n, err := strconv.Atoi(label[1:])
	if err != nil || label[1] < '1' || label[1] > '9' {
		return 0, 0, false
	}
	col = n - 1
	if !inRange(row, col) {
		return 0, 0, false
	}
	return row, col, true
}

func inRange(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}

// Toggle flips the seat at row, col between available and selected and
// reports whether anything changed.  Booked and out-of-range seats are
// left alone, as is an available seat once MaxSelected seats are selected.
func (m *Map) Toggle(row, col int) bool {
	if !inRange(row, col) {
		return false
	}
	switch m.status[row][col] {
	case model.SeatAvailable:
		if len(m.selected) >= MaxSelected {
			return false
		}
		m.status[row][col] = model.SeatSelected
		m.selected = append(m.selected, Label(row, col))
		return true
	case model.SeatSelected:
		m.status[row][col] = model.SeatAvailable
		label := Label(row, col)
		for i, l := range m.selected {
			if l == label {
				m.selected = append(m.selected[:i], m.selected[i+1:]...)
				break
			}
		}
		return true
	}
	return false
}

// ToggleLabel is Toggle addressed by seat label.
func (m *Map) ToggleLabel(label string) bool {
	r, c, ok := ParseLabel(label)
	if !ok {
		return false
	}
	return m.Toggle(r, c)
}

// Status returns the status of a seat; ok is false for unknown labels.
func (m *Map) Status(label string) (status model.SeatStatus, ok bool) {
	r, c, ok := ParseLabel(label)
	if !ok {
		return "", false
	}
	return m.status[r][c], true
}

// Selected returns the selected labels in the order they were picked.
func (m *Map) Selected() []string {
	return append([]string(nil), m.selected...)
}

func (m *Map) Count() int { return len(m.selected) }

// Total is the number of selected seats times price.
func (m *Map) Total(price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(len(m.selected))))
}

// Booked returns the labels of booked seats in row-major order.
func (m *Map) Booked() []string {
	var out []string
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			if m.status[r][c] == model.SeatBooked {
				out = append(out, Label(r, c))
			}
		}
	}
	return out
}

// Grid returns a row-major snapshot of the map.
func (m *Map) Grid() [][]model.Seat {
	grid := make([][]model.Seat, Rows)
	for r := 0; r < Rows; r++ {
		grid[r] = make([]model.Seat, Cols)
		for c := 0; c < Cols; c++ {
			grid[r][c] = model.Seat{
				Label:  Label(r, c),
				Row:    r,
				Col:    c,
				Status: m.status[r][c],
			}
		}
	}
	return grid
}

// Availability builds the wire view of a showtime whose taken seats are
// known.  Labels outside the grid are dropped.
func Availability(showtimeID uint64, taken []string) model.SeatAvailability {
	m := New(taken)
	booked := m.Booked()
	if booked == nil {
		booked = []string{}
	}
	return model.SeatAvailability{
		ShowtimeID: showtimeID,
		Rows:       Rows,
		Cols:       Cols,
		Booked:     booked,
		Seats:      m.Grid(),
	}
}
