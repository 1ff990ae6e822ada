// Package repository defines the booking record store and its backing
// implementations.  The sentinel errors below are shared by every store so
// that handlers can map failures to HTTP statuses without knowing which
// backend is in use.
package repository

import "errors"

// ErrBookingNotFound is returned by Get when no booking carries the
// requested identifier.  It is a regular outcome, not a failure: handlers
// answer it with a success:false body rather than an error status.
var ErrBookingNotFound = errors.New("booking not found")

// ErrMissingFields is returned by Create when one of the required booking
// fields is absent.  The wrapped message lists the missing fields.
var ErrMissingFields = errors.New("missing required fields")

// ErrInvalidField is returned by Create when a field does not fit the
// stored record, such as an over-long seat label.
var ErrInvalidField = errors.New("invalid booking field")

// ErrSeatTaken is returned by Create when seat claims are enforced and a
// requested seat already belongs to a confirmed booking for the same
// showtime.  Handlers should translate this into an HTTP 409 response.
var ErrSeatTaken = errors.New("seat already booked")

// ErrConflict signals that a fresh identifier could not be allocated after
// several attempts.
var ErrConflict = errors.New("conflict")
