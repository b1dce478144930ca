// Package query derives the filtered and sorted product view from the
// canonical product list. Every function returns a fresh slice and never
// reorders its input.
package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/five82/stockroom/internal/catalog"
)

// Key identifies the product field a view is sorted by.
type Key string

const (
	KeyNone        Key = ""
	KeyID          Key = "id"
	KeyTitle       Key = "title"
	KeyPrice       Key = "price"
	KeyDescription Key = "description"
	KeyCategory    Key = "category"
	KeySlug        Key = "slug"
	KeyCreatedAt   Key = "creationAt"
	KeyUpdatedAt   Key = "updatedAt"
)

var keys = []Key{KeyID, KeyTitle, KeyPrice, KeyDescription, KeyCategory, KeySlug, KeyCreatedAt, KeyUpdatedAt}

// Keys returns the sortable keys in display order.
func Keys() []Key {
	return slices.Clone(keys)
}

// ParseKey resolves a user supplied key name, case-insensitively. An empty
// name yields KeyNone.
func ParseKey(name string) (Key, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return KeyNone, true
	}
	for _, k := range keys {
		if strings.EqualFold(string(k), name) {
			return k, true
		}
	}
	return KeyNone, false
}

// Direction is the sort order.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// NormalizeTerm lower-cases a search term. Surrounding whitespace is kept so
// the stored term mirrors what the user typed; matching trims it.
func NormalizeTerm(term string) string {
	return strings.ToLower(term)
}

// Filter keeps the products whose title, description or category name contain
// term, case-insensitively. A blank term returns a copy of the full list.
func Filter(products []catalog.Product, term string) []catalog.Product {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return slices.Clone(products)
	}
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if Matches(p, needle) {
			out = append(out, p)
		}
	}
	return out
}

// Matches reports whether p matches an already lower-cased, trimmed needle.
func Matches(p catalog.Product, needle string) bool {
	if strings.Contains(strings.ToLower(p.Title), needle) {
		return true
	}
	if p.Description != "" && strings.Contains(strings.ToLower(p.Description), needle) {
		return true
	}
	if p.Category != nil && strings.Contains(strings.ToLower(p.Category.Name), needle) {
		return true
	}
	return false
}

// Sort returns a stably sorted copy of list. KeyNone keeps the input order.
func Sort(list []catalog.Product, key Key, dir Direction) []catalog.Product {
	out := slices.Clone(list)
	if key == KeyNone {
		return out
	}
	slices.SortStableFunc(out, func(a, b catalog.Product) int {
		c := Compare(a, b, key)
		if dir == Descending {
			return -c
		}
		return c
	})
	return out
}

// Apply filters then sorts, producing the derived view.
func Apply(products []catalog.Product, term string, key Key, dir Direction) []catalog.Product {
	return Sort(Filter(products, term), key, dir)
}

// Compare is the ascending three-way comparison for key. Missing values sort
// before present ones.
func Compare(a, b catalog.Product, key Key) int {
	switch key {
	case KeyID:
		return cmp.Compare(a.ID, b.ID)
	case KeyTitle:
		return strings.Compare(a.Title, b.Title)
	case KeyPrice:
		return a.Price.Cmp(b.Price)
	case KeyDescription:
		return strings.Compare(a.Description, b.Description)
	case KeyCategory:
		return strings.Compare(a.CategoryName(), b.CategoryName())
	case KeySlug:
		return strings.Compare(a.Slug, b.Slug)
	case KeyCreatedAt:
		return a.ParsedCreatedAt().Compare(b.ParsedCreatedAt())
	case KeyUpdatedAt:
		return a.ParsedUpdatedAt().Compare(b.ParsedUpdatedAt())
	default:
		return 0
	}
}
