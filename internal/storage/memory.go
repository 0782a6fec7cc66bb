package storage

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/guttosm/forecastpulse/internal/domain/models"
)

// MemoryRepository is an in-process SnapshotRepository used when
// SNAPSHOT_BACKEND=memory. Snapshots are lost on restart.
type MemoryRepository struct {
	mu        sync.RWMutex
	snapshots map[string]models.Dataset
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{snapshots: make(map[string]models.Dataset)}
}

func (m *MemoryRepository) SaveSnapshot(_ context.Context, ds models.Dataset) error {
	if ds.Ticker == "" {
		return errors.New("snapshot without ticker")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.snapshots[ds.Ticker]; ok && cur.FetchedAt.After(ds.FetchedAt) {
		return nil
	}
	m.snapshots[ds.Ticker] = ds
	return nil
}

func (m *MemoryRepository) LoadSnapshot(_ context.Context, ticker string) (*models.Dataset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ds, ok := m.snapshots[ticker]
	if !ok {
		return nil, nil
	}
	return &ds, nil
}

func (m *MemoryRepository) ListTickers(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.snapshots))
	for t := range m.snapshots {
		out = append(out, t)
	}
	slices.Sort(out)
	return out, nil
}

func (m *MemoryRepository) DeleteSnapshot(_ context.Context, ticker string) error {
	m.mu.Lock()
	delete(m.snapshots, ticker)
	m.mu.Unlock()
	return nil
}

func (m *MemoryRepository) PruneSnapshots(_ context.Context, keep []string) (int64, error) {
	if len(keep) == 0 {
		return 0, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for t := range m.snapshots {
		if !slices.Contains(keep, t) {
			delete(m.snapshots, t)
			n++
		}
	}
	return n, nil
}
