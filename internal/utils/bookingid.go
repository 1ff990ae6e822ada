package utils

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"time"
)

var bookingIDPattern = regexp.MustCompile(`^BK\d+$`)

// NewBookingID returns a booking identifier of the form "BK<millis><n>",
// where millis is the Unix time in milliseconds and n a random number
// below 1000.  Uniqueness is only probabilistic; stores must still reject
// an identifier they have already issued.
func NewBookingID(now time.Time) string {
	return fmt.Sprintf("BK%d%d", now.UnixMilli(), rand.IntN(1000))
}

// IsBookingID reports whether s has the shape produced by NewBookingID.
func IsBookingID(s string) bool {
	return bookingIDPattern.MatchString(s)
}
