// Package memory provides an in-memory slot store used by tests and the
// ephemeral memory driver.
package memory

import (
	"context"
	"sync"

	"myersadmin/internal/slot/core"
)

// Store keeps slot values in a map guarded by a RWMutex. Values are copied
// on the way in and out so callers never share backing arrays.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New constructs an empty in-memory slot store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Driver() core.Driver { return core.DriverMemory }

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	if err := core.CheckKey(key); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	if err := core.CheckKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	s.data[key] = append([]byte(nil), value...)
	s.mu.Unlock()
	return nil
}

func (s *Store) Close() error { return nil }
