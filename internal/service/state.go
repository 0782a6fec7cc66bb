package service

import (
	"sync"

	"github.com/guttosm/forecastpulse/internal/domain/models"
)

// Store holds the committed dataset per ticker and orders concurrent loads.
//
// Every load takes a generation from Begin before fetching. A load may only
// publish its dataset if no load that started after it has published already,
// so a slow response can never overwrite fresher state.
type Store struct {
	mu      sync.Mutex
	next    uint64
	entries map[string]entry
}

type entry struct {
	gen uint64
	ds  models.Dataset
}

func NewStore() *Store {
	return &Store{entries: make(map[string]entry)}
}

// Begin returns a new, strictly increasing load generation.
func (s *Store) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

// Commit publishes ds for its ticker if gen is newer than the committed one.
//
// It returns the dataset now published and whether ds was accepted. When
// rejected, the returned dataset is the fresher one already in place.
func (s *Store) Commit(gen uint64, ds models.Dataset) (models.Dataset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.entries[ds.Ticker]; ok && cur.gen > gen {
		return cur.ds, false
	}
	s.entries[ds.Ticker] = entry{gen: gen, ds: ds}
	return ds, true
}

// Get returns the committed dataset for ticker.
func (s *Store) Get(ticker string) (models.Dataset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[ticker]
	return e.ds, ok
}
