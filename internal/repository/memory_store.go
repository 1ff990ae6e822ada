package repository

import (
	"context"
	"sync"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// MemoryStore keeps bookings in process memory.  It backs tests, the
// client's mock mode and single-instance deployments that accept losing
// bookings on restart.
type MemoryStore struct {
	opts StoreOptions

	mu     sync.RWMutex
	order  []string
	byID   map[string]model.BookingData
	claims map[uint64]map[string]string // showtime -> seat label -> booking id
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore(opts StoreOptions) *MemoryStore {
	return &MemoryStore{
		opts:   opts.withDefaults(),
		byID:   make(map[string]model.BookingData),
		claims: make(map[uint64]map[string]string),
	}
}

func (s *MemoryStore) Create(ctx context.Context, b *model.BookingData) error {
	if err := ValidateForCreate(b); err != nil {
		return err
	}
	now := s.opts.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	labels := uniqueLabels(b.Seats)
	taken := s.claims[b.ShowtimeID]
	if s.opts.EnforceSeats {
		for _, l := range labels {
			if _, ok := taken[l]; ok {
				return ErrSeatTaken
			}
		}
	}

	id := ""
	for i := 0; i < maxIDAttempts; i++ {
		cand := s.opts.NewID(now)
		if _, dup := s.byID[cand]; !dup {
			id = cand
			break
		}
	}
	if id == "" {
		return ErrConflict
	}

	b.ID = id
	prepare(b, now)
	s.byID[id] = cloneBooking(*b)
	s.order = append(s.order, id)

	if taken == nil {
		taken = make(map[string]string, len(labels))
		s.claims[b.ShowtimeID] = taken
	}
	for _, l := range labels {
		if _, ok := taken[l]; !ok {
			taken[l] = id
		}
	}
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]model.BookingData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.BookingData, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, cloneBooking(s.byID[id]))
	}
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*model.BookingData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.byID[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	out := cloneBooking(b)
	return &out, nil
}

func (s *MemoryStore) TakenSeats(ctx context.Context, showtimeID uint64) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.claims[showtimeID]), nil
}
