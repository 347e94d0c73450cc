package collection

import (
	"context"

	"myersadmin/pkg/domain"
)

// Store binds one entity collection to its slot key. It is the only writer of
// that key. Mutations read the full collection, compute a new one in memory
// and write it back with a single Set; there is no locking, so two Stores on
// the same key lose updates under concurrent use.
type Store[T domain.Record] struct {
	slot     domain.Slot
	key      string
	defaults []T
	logger   Logger
}

// NewStore constructs a Store for key, seeding it with defaults whenever the
// slot is empty or unreadable.
func NewStore[T domain.Record](slot domain.Slot, key string, defaults []T, logger Logger) *Store[T] {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Store[T]{slot: slot, key: key, defaults: clone(defaults), logger: logger}
}

// Key returns the slot key the store persists under.
func (s *Store[T]) Key() string { return s.key }

// All loads the current collection.
func (s *Store[T]) All(ctx context.Context) []T {
	return Load(ctx, s.slot, s.key, s.defaults, s.logger)
}

// Find loads the collection and returns the record carrying id.
func (s *Store[T]) Find(ctx context.Context, id string) (T, bool) {
	return FindByID(s.All(ctx), id)
}

// Replace overwrites the collection.
func (s *Store[T]) Replace(ctx context.Context, items []T) error {
	return Save(ctx, s.slot, s.key, items)
}

// Mutate applies fn to the current collection and persists the result. When
// fn returns an error nothing is written and the prior state is retained.
func (s *Store[T]) Mutate(ctx context.Context, fn func([]T) ([]T, error)) ([]T, error) {
	next, err := fn(s.All(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.Replace(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Upsert replaces or appends record.
func (s *Store[T]) Upsert(ctx context.Context, record T) error {
	_, err := s.Mutate(ctx, func(items []T) ([]T, error) {
		return UpsertByID(items, record), nil
	})
	return err
}

// Remove deletes the record carrying id. Removing an absent id is a no-op
// that still rewrites the unchanged collection.
func (s *Store[T]) Remove(ctx context.Context, id string) error {
	_, err := s.Mutate(ctx, func(items []T) ([]T, error) {
		return RemoveByID(items, id), nil
	})
	return err
}

// Value binds a single persisted value to its slot key.
type Value[T any] struct {
	slot   domain.Slot
	key    string
	def    T
	logger Logger
}

// NewValue constructs a Value for key with a fallback default.
func NewValue[T any](slot domain.Slot, key string, def T, logger Logger) *Value[T] {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Value[T]{slot: slot, key: key, def: def, logger: logger}
}

// Get loads the value, falling back to the default.
func (v *Value[T]) Get(ctx context.Context) T {
	return LoadValue(ctx, v.slot, v.key, v.def, v.logger)
}

// Set overwrites the value.
func (v *Value[T]) Set(ctx context.Context, value T) error {
	return SaveValue(ctx, v.slot, v.key, value)
}
