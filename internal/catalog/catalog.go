// Package catalog serves the read-only movie, theater and showtime data the
// booking flow is built on.  The data is compiled into the binary and never
// changes at runtime, so lookups need no locking.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

var (
	ErrMovieNotFound    = errors.New("movie not found")
	ErrTheaterNotFound  = errors.New("theater not found")
	ErrShowtimeNotFound = errors.New("showtime not found")
)

// maxRecommendations caps the list returned next to search results.
const maxRecommendations = 5

// Catalog indexes movies, theaters and showtimes by ID.
type Catalog struct {
	movies    []model.Movie
	theaters  []model.Theater
	showtimes []model.Showtime

	movieByID    map[uint64]int
	theaterByID  map[uint64]int
	showtimeByID map[uint64]int
}

// MovieFilter narrows a movie listing.  Empty fields match everything;
// Genres matches movies tagged with any of the listed genres.
type MovieFilter struct {
	Search string
	Genres []string
	Status model.MovieStatus
}

// TheaterShowtimes groups the showtimes of one movie at one theater.
type TheaterShowtimes struct {
	Theater   model.Theater    `json:"theater"`
	Showtimes []model.Showtime `json:"showtimes"`
}

// MovieShowtimes groups the showtimes of one movie inside a theater schedule.
type MovieShowtimes struct {
	Movie     model.Movie      `json:"movie"`
	Showtimes []model.Showtime `json:"showtimes"`
}

// TheaterSchedule lists what a theater screens on a given day.
type TheaterSchedule struct {
	Theater model.Theater    `json:"theater"`
	Movies  []MovieShowtimes `json:"movies"`
}

var defaultCatalog = mustNew(movies, theaters, showtimes)

// Default returns the catalog built from the bundled data.
func Default() *Catalog { return defaultCatalog }

func mustNew(m []model.Movie, t []model.Theater, s []model.Showtime) *Catalog {
	c, err := New(m, t, s)
	if err != nil {
		panic(err)
	}
	return c
}

// New indexes the given entities and verifies that every showtime refers
// to an existing movie and theater.
func New(m []model.Movie, t []model.Theater, s []model.Showtime) (*Catalog, error) {
	c := &Catalog{
		movies:       m,
		theaters:     t,
		showtimes:    s,
		movieByID:    make(map[uint64]int, len(m)),
		theaterByID:  make(map[uint64]int, len(t)),
		showtimeByID: make(map[uint64]int, len(s)),
	}
	for i, mv := range m {
		if _, dup := c.movieByID[mv.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate movie id %d", mv.ID)
		}
		c.movieByID[mv.ID] = i
	}
	for i, th := range t {
		if _, dup := c.theaterByID[th.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate theater id %d", th.ID)
		}
		c.theaterByID[th.ID] = i
	}
	for i, st := range s {
		if _, dup := c.showtimeByID[st.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate showtime id %d", st.ID)
		}
		if _, ok := c.movieByID[st.MovieID]; !ok {
			return nil, fmt.Errorf("catalog: showtime %d: %w (id %d)", st.ID, ErrMovieNotFound, st.MovieID)
		}
		if _, ok := c.theaterByID[st.TheaterID]; !ok {
			return nil, fmt.Errorf("catalog: showtime %d: %w (id %d)", st.ID, ErrTheaterNotFound, st.TheaterID)
		}
		c.showtimeByID[st.ID] = i
	}
	return c, nil
}

// Movies returns every movie in catalog order.
func (c *Catalog) Movies() []model.Movie {
	return append([]model.Movie(nil), c.movies...)
}

// Theaters returns every theater in catalog order.
func (c *Catalog) Theaters() []model.Theater {
	return append([]model.Theater(nil), c.theaters...)
}

// Showtimes returns every showtime in catalog order.
func (c *Catalog) Showtimes() []model.Showtime {
	return append([]model.Showtime(nil), c.showtimes...)
}

func (c *Catalog) Movie(id uint64) (model.Movie, error) {
	i, ok := c.movieByID[id]
	if !ok {
		return model.Movie{}, ErrMovieNotFound
	}
	return c.movies[i], nil
}

func (c *Catalog) Theater(id uint64) (model.Theater, error) {
	i, ok := c.theaterByID[id]
	if !ok {
		return model.Theater{}, ErrTheaterNotFound
	}
	return c.theaters[i], nil
}

func (c *Catalog) Showtime(id uint64) (model.Showtime, error) {
	i, ok := c.showtimeByID[id]
	if !ok {
		return model.Showtime{}, ErrShowtimeNotFound
	}
	return c.showtimes[i], nil
}

// Resolve returns a showtime together with the movie and theater it refers
// to.
func (c *Catalog) Resolve(showtimeID uint64) (model.Showtime, model.Movie, model.Theater, error) {
	st, err := c.Showtime(showtimeID)
	if err != nil {
		return model.Showtime{}, model.Movie{}, model.Theater{}, err
	}
	// New guarantees both references resolve.
	mv := c.movies[c.movieByID[st.MovieID]]
	th := c.theaters[c.theaterByID[st.TheaterID]]
	return st, mv, th, nil
}

// FilterMovies applies f to the catalog.  The search term is matched
// case-insensitively against title, director and cast members.
func (c *Catalog) FilterMovies(f MovieFilter) []model.Movie {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]model.Movie, 0, len(c.movies))
	for _, m := range c.movies {
		if term != "" && !matchesSearch(m, term) {
			continue
		}
		if len(f.Genres) > 0 && !hasAnyGenre(m, f.Genres) {
			continue
		}
		if f.Status != "" && m.Status != f.Status {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Recommend suggests up to five movies outside matched that share at least
// one genre with them.  Recommendations are only produced for searches.
func (c *Catalog) Recommend(search string, matched []model.Movie) []model.Movie {
	if strings.TrimSpace(search) == "" {
		return []model.Movie{}
	}
	seen := make(map[uint64]bool, len(matched))
	var genres []string
	for _, m := range matched {
		seen[m.ID] = true
		genres = append(genres, m.Genres...)
	}
	out := []model.Movie{}
	for _, m := range c.movies {
		if len(out) == maxRecommendations {
			break
		}
		if seen[m.ID] || !hasAnyGenre(m, genres) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Genres returns the distinct genres of the catalog in alphabetical order.
func (c *Catalog) Genres() []string {
	set := map[string]bool{}
	for _, m := range c.movies {
		for _, g := range m.Genres {
			set[g] = true
		}
	}
	out := make([]string, 0, len(set))
	for g := range set {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// ShowtimeDates returns the sorted distinct dates on which a movie screens.
func (c *Catalog) ShowtimeDates(movieID uint64) []string {
	set := map[string]bool{}
	for _, s := range c.showtimes {
		if s.MovieID == movieID {
			set[s.Date] = true
		}
	}
	out := make([]string, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// ShowtimesByTheater groups a movie's showtimes on date by theater.  Groups
// keep the order in which theaters first appear; showtimes inside a group
// are sorted by start time.
func (c *Catalog) ShowtimesByTheater(movieID uint64, date string) []TheaterShowtimes {
	out := []TheaterShowtimes{}
	idx := map[uint64]int{}
	for _, s := range c.showtimes {
		if s.MovieID != movieID || s.Date != date {
			continue
		}
		i, ok := idx[s.TheaterID]
		if !ok {
			i = len(out)
			idx[s.TheaterID] = i
			out = append(out, TheaterShowtimes{Theater: c.theaters[c.theaterByID[s.TheaterID]]})
		}
		out[i].Showtimes = append(out[i].Showtimes, s)
	}
	for i := range out {
		sortByTime(out[i].Showtimes)
	}
	return out
}

// Schedule lists every theater with the movies it screens on date.
// Theaters without screenings that day are included with no movies.
func (c *Catalog) Schedule(date string) []TheaterSchedule {
	out := make([]TheaterSchedule, 0, len(c.theaters))
	for _, th := range c.theaters {
		sched := TheaterSchedule{Theater: th, Movies: []MovieShowtimes{}}
		idx := map[uint64]int{}
		for _, s := range c.showtimes {
			if s.TheaterID != th.ID || s.Date != date {
				continue
			}
			i, ok := idx[s.MovieID]
			if !ok {
				i = len(sched.Movies)
				idx[s.MovieID] = i
				sched.Movies = append(sched.Movies, MovieShowtimes{Movie: c.movies[c.movieByID[s.MovieID]]})
			}
			sched.Movies[i].Showtimes = append(sched.Movies[i].Showtimes, s)
		}
		for i := range sched.Movies {
			sortByTime(sched.Movies[i].Showtimes)
		}
		out = append(out, sched)
	}
	return out
}

func matchesSearch(m model.Movie, term string) bool {
	if strings.Contains(strings.ToLower(m.Title), term) || strings.Contains(strings.ToLower(m.Director), term) {
		return true
	}
	for _, actor := range m.Cast {
		if strings.Contains(strings.ToLower(actor), term) {
			return true
		}
	}
	return false
}

func hasAnyGenre(m model.Movie, genres []string) bool {
	for _, g := range genres {
		if m.HasGenre(g) {
			return true
		}
	}
	return false
}

func sortByTime(s []model.Showtime) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Time < s[j].Time })
}
