// Package listing is the one filterable, sortable, paginated collection
// shared by every listing page, parameterized by field accessors instead
// of copied per page.
package listing

import (
	"sort"
	"strings"
	"time"
)

const (
	SortLatest = "latest"
	SortAZ     = "az"
	SortZA     = "za"
	SortYear   = "year"
)

type Params struct {
	Query   string
	Sort    string
	Page    int
	PerPage int
}

type Page[T any] struct {
	Items      []T
	Total      int
	Number     int
	PerPage    int
	TotalPages int
}

// Fields supplies per-type accessors. Haystack feeds the substring
// filter; CreatedAt backs the "latest" sort; Year may be nil for types
// without a year sort.
type Fields[T any] struct {
	Title     func(T) string
	Haystack  func(T) []string
	CreatedAt func(T) time.Time
	Year      func(T) int
}

// Apply filters, sorts and paginates an already-fetched slice. The
// input is never mutated.
func Apply[T any](items []T, p Params, f Fields[T]) Page[T] {
	filtered := filter(items, p.Query, f)
	sortItems(filtered, p.Sort, f)

	perPage := p.PerPage
	if perPage <= 0 {
		perPage = 20
	}

	total := len(filtered)
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}

	page := p.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := start + perPage
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      filtered[start:end],
		Total:      total,
		Number:     page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}
}

func filter[T any](items []T, query string, f Fields[T]) []T {
	out := make([]T, 0, len(items))
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return append(out, items...)
	}

	for _, it := range items {
		hay := []string{f.Title(it)}
		if f.Haystack != nil {
			hay = f.Haystack(it)
		}
		for _, h := range hay {
			if strings.Contains(strings.ToLower(h), query) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

func sortItems[T any](items []T, by string, f Fields[T]) {
	switch by {
	case SortAZ:
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(f.Title(items[i])) < strings.ToLower(f.Title(items[j]))
		})
	case SortZA:
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(f.Title(items[i])) > strings.ToLower(f.Title(items[j]))
		})
	case SortYear:
		if f.Year == nil {
			sortLatest(items, f)
			return
		}
		sort.SliceStable(items, func(i, j int) bool {
			return f.Year(items[i]) > f.Year(items[j])
		})
	default:
		sortLatest(items, f)
	}
}

func sortLatest[T any](items []T, f Fields[T]) {
	if f.CreatedAt == nil {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		return f.CreatedAt(items[i]).After(f.CreatedAt(items[j]))
	})
}
