package model

import "fmt"

// MovieStatus tells whether a movie is currently screening.
type MovieStatus string

const (
    MovieNowShowing MovieStatus = "now-showing"
    MovieComingSoon MovieStatus = "coming-soon"
)

// Movie is an immutable catalog entry.  Duration is expressed in minutes
// and Rating on a 0–10 scale; zero means unknown for both.
//
// Fields:
//  ID          – catalog identifier.
//  Poster      – poster image URL.
//  Backdrop    – wide backdrop image URL.
//  ReleaseDate – ISO date (YYYY-MM-DD).
//  Genres      – genre names, serialized as "genre" on the wire.
//  Status      – now-showing or coming-soon.
type Movie struct {
    ID          uint64      `json:"id"`
    Title       string      `json:"title"`
    Poster      string      `json:"poster"`
    Backdrop    string      `json:"backdrop"`
    ReleaseDate string      `json:"releaseDate"`
    Duration    int         `json:"duration"`
    Genres      []string    `json:"genre"`
    Rating      float64     `json:"rating"`
    Director    string      `json:"director"`
    Cast        []string    `json:"cast"`
    Synopsis    string      `json:"synopsis"`
    Status      MovieStatus `json:"status"`
}

// DurationLabel renders the running time as "2h 46m", or "TBA" when the
// duration is not known yet.
func (m Movie) DurationLabel() string {
    if m.Duration <= 0 {
        return "TBA"
    }
    return fmt.Sprintf("%dh %dm", m.Duration/60, m.Duration%60)
}

// HasGenre reports whether the movie is tagged with genre.
func (m Movie) HasGenre(genre string) bool {
    for _, g := range m.Genres {
        if g == genre {
            return true
        }
    }
    return false
}
