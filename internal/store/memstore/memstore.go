// Package memstore keeps values in process memory. Nothing survives a restart.
package memstore

import (
	"context"
	"sync"

	"github.com/Makepad-fr/taskflow/internal/store"
)

var _ store.KV = (*Store)(nil)

type Store struct {
	mtx    sync.RWMutex
	values map[string]string
	writes int
}

func New() *Store {
	return &Store{values: make(map[string]string)}
}

// NewWith seeds the store, as if a previous session had written values.
func NewWith(values map[string]string) *Store {
	s := New()
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.values[key] = value
	s.writes++
	return nil
}

func (s *Store) Close() error { return nil }

// Writes reports how many Set calls the store has served.
func (s *Store) Writes() int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.writes
}
