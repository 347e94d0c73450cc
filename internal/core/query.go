package core

import (
	"strings"

	"myersadmin/internal/collection"
)

// Query narrows and pages a list operation. Empty fields do not filter.
type Query struct {
	Search       string
	Status       string
	Role         string
	Category     string
	Priority     string
	DispensaryID string
	Page         int
	PageSize     int
}

// Page is one page of a filtered collection.
type Page[T any] = collection.Page[T]

func (q Query) window(defaultSize int) (page, size int) {
	page, size = q.Page, q.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultSize
	}
	return page, size
}

// matches reports whether value equals want, treating an empty want as a
// wildcard.
func matches[S ~string](want string, value S) bool {
	return want == "" || strings.EqualFold(want, string(value))
}

// contains reports whether any field contains needle, ignoring case.
func contains(needle string, fields ...string) bool {
	if needle == "" {
		return true
	}
	needle = strings.ToLower(needle)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// list filters, optionally sorts and pages items.
func list[T any](items []T, q Query, defaultSize int, keep func(T) bool, order func(a, b T) int) Page[T] {
	filtered := collection.FilterBy(items, keep)
	if order != nil {
		filtered = collection.SortBy(filtered, order)
	}
	page, size := q.window(defaultSize)
	return collection.Paginate(filtered, page, size)
}
