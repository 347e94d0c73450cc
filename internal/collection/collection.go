// Package collection provides persisted entity collections over a durable
// key-value slot. Each collection is stored as one JSON array under its key
// and every mutation rewrites the whole array.
package collection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"myersadmin/pkg/domain"
)

// Logger receives warnings about snapshots that could not be read or
// defaults that could not be persisted.
type Logger interface {
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}

var nullJSON = []byte("null")

// Load reads the collection stored under key. When the slot holds nothing,
// or holds bytes that do not decode into []T, the default is written back to
// the slot and returned. A slot read error yields the default without
// overwriting the slot. Load never fails.
func Load[T any](ctx context.Context, slot domain.Slot, key string, def []T, log Logger) []T {
	if log == nil {
		log = noopLogger{}
	}
	raw, ok, err := slot.Get(ctx, key)
	if err != nil {
		log.Warn("collection read failed, using defaults", "key", key, "error", err)
		return clone(def)
	}
	if ok {
		items, err := decode[[]T](raw)
		if err == nil && items != nil {
			return items
		}
		log.Warn("collection snapshot unreadable, resetting to defaults", "key", key, "error", err)
	}
	out := clone(def)
	if err := Save(ctx, slot, key, out); err != nil {
		log.Warn("persist default collection failed", "key", key, "error", err)
	}
	return out
}

// Save serializes items and overwrites the slot unconditionally.
func Save[T any](ctx context.Context, slot domain.Slot, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := slot.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// LoadValue is Load for a single persisted value such as the session or the
// theme preference.
func LoadValue[T any](ctx context.Context, slot domain.Slot, key string, def T, log Logger) T {
	if log == nil {
		log = noopLogger{}
	}
	raw, ok, err := slot.Get(ctx, key)
	if err != nil {
		log.Warn("value read failed, using default", "key", key, "error", err)
		return def
	}
	if ok {
		v, err := decode[T](raw)
		if err == nil {
			return v
		}
		log.Warn("value snapshot unreadable, resetting to default", "key", key, "error", err)
	}
	if err := SaveValue(ctx, slot, key, def); err != nil {
		log.Warn("persist default value failed", "key", key, "error", err)
	}
	return def
}

// SaveValue serializes v and overwrites the slot unconditionally.
func SaveValue[T any](ctx context.Context, slot domain.Slot, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := slot.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func decode[T any](raw []byte) (T, error) {
	var v T
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, nullJSON) {
		return v, fmt.Errorf("empty snapshot")
	}
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return v, err
	}
	return v, nil
}

// UpsertByID returns a new collection in which record replaces the item with
// the same id, or is appended when no item matches. items is not modified.
func UpsertByID[T domain.Record](items []T, record T) []T {
	id := record.RecordID()
	out := make([]T, 0, len(items)+1)
	replaced := false
	for _, it := range items {
		if !replaced && it.RecordID() == id {
			out = append(out, record)
			replaced = true
			continue
		}
		out = append(out, it)
	}
	if !replaced {
		out = append(out, record)
	}
	return out
}

// RemoveByID returns a new collection without the item carrying id. When no
// item matches, items itself is returned.
func RemoveByID[T domain.Record](items []T, id string) []T {
	idx := IndexByID(items, id)
	if idx < 0 {
		return items
	}
	out := make([]T, 0, len(items)-1)
	for _, it := range items {
		if it.RecordID() != id {
			out = append(out, it)
		}
	}
	return out
}

// IndexByID returns the position of the item carrying id, or -1.
func IndexByID[T domain.Record](items []T, id string) int {
	return slices.IndexFunc(items, func(it T) bool { return it.RecordID() == id })
}

// FindByID returns the item carrying id.
func FindByID[T domain.Record](items []T, id string) (T, bool) {
	if idx := IndexByID(items, id); idx >= 0 {
		return items[idx], true
	}
	var zero T
	return zero, false
}

// FilterBy returns the items matching pred in their original order. A nil
// predicate matches everything.
func FilterBy[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if pred == nil || pred(it) {
			out = append(out, it)
		}
	}
	return out
}

// SortBy returns a stably sorted copy of items.
func SortBy[T any](items []T, cmp func(a, b T) int) []T {
	out := clone(items)
	slices.SortStableFunc(out, cmp)
	return out
}

// Page is one slice of a paginated collection.
type Page[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

// Paginate slices items into 1-based pages of pageSize. pageSize is clamped
// to at least one. page is not clamped: a page outside 1..TotalPages yields
// no items.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if pageSize < 1 {
		pageSize = 1
	}
	n := len(items)
	res := Page[T]{
		Items:      []T{},
		Page:       page,
		PageSize:   pageSize,
		Total:      n,
		TotalPages: n / pageSize,
	}
	if n%pageSize != 0 {
		res.TotalPages++
	}
	if page < 1 || page > res.TotalPages {
		return res
	}
	start := (page - 1) * pageSize
	end := n
	if pageSize < n-start {
		end = start + pageSize
	}
	res.Items = clone(items[start:end])
	return res
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
