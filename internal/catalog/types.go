package catalog

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product mirrors a single entry returned by the products endpoint.
type Product struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	Category    *Category       `json:"category,omitempty"`
	Images      []string        `json:"images"`
	CreatedAt   string          `json:"creationAt,omitempty"`
	UpdatedAt   string          `json:"updatedAt,omitempty"`
}

// Category is the category reference embedded in a product.
type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug,omitempty"`
	Image string `json:"image,omitempty"`
}

// CategoryName returns the category name or an empty string when the product
// has no category.
func (p Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

// CategoryID returns the category id, zero when missing.
func (p Product) CategoryID() int64 {
	if p.Category == nil {
		return 0
	}
	return p.Category.ID
}

// FirstImage returns the first image URL, if any.
func (p Product) FirstImage() string {
	for _, img := range p.Images {
		if trimmed := strings.TrimSpace(img); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// ParsedCreatedAt returns the parsed creation timestamp.
func (p Product) ParsedCreatedAt() time.Time {
	return parseTime(p.CreatedAt)
}

// ParsedUpdatedAt returns the parsed update timestamp.
func (p Product) ParsedUpdatedAt() time.Time {
	return parseTime(p.UpdatedAt)
}

// Clone returns a deep copy so callers can hand products across the store
// boundary without sharing slices or category pointers.
func (p Product) Clone() Product {
	dup := p
	if p.Category != nil {
		cat := *p.Category
		dup.Category = &cat
	}
	if p.Images != nil {
		dup.Images = append([]string(nil), p.Images...)
	}
	return dup
}

// CloneAll deep-copies a product list. A nil or empty input yields nil.
func CloneAll(items []Product) []Product {
	if len(items) == 0 {
		return nil
	}
	dup := make([]Product, len(items))
	for i, item := range items {
		dup[i] = item.Clone()
	}
	return dup
}

// ProductInput is the write payload accepted by create and update.
type ProductInput struct {
	Title       string
	Price       decimal.Decimal
	Description string
	CategoryID  int64
	Images      []string
}

// MarshalJSON encodes the payload in the shape the API expects, with the
// price as a bare JSON number.
func (in ProductInput) MarshalJSON() ([]byte, error) {
	images := in.Images
	if images == nil {
		images = []string{}
	}
	return json.Marshal(struct {
		Title       string      `json:"title"`
		Price       json.Number `json:"price"`
		Description string      `json:"description"`
		CategoryID  int64       `json:"categoryId"`
		Images      []string    `json:"images"`
	}{
		Title:       in.Title,
		Price:       json.Number(in.Price.String()),
		Description: in.Description,
		CategoryID:  in.CategoryID,
		Images:      images,
	})
}

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
