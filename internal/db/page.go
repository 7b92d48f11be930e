package db

import (
	"strings"

	"gorm.io/gorm"
)

const (
	// DefaultPageSize is used when a list request carries no page size.
	DefaultPageSize = 25
	// MaxPageSize clamps the page size upper bound.
	MaxPageSize = 100
)

// ListOptions selects one page of a list, optionally filtered by a search term.
type ListOptions struct {
	Page     int    `json:"page"     query:"page"`
	PageSize int    `json:"pageSize" query:"pageSize"`
	Search   string `json:"search"   query:"search"`
}

// Page is one page of a list together with its pagination metadata.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

// HasPrev reports whether a previous page exists.
func (p Page[T]) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p Page[T]) HasNext() bool { return p.Page < p.TotalPages }

// Normalize fills defaults and clamps out of range values.
func (o ListOptions) Normalize() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}

	switch {
	case o.PageSize < 1:
		o.PageSize = DefaultPageSize
	case o.PageSize > MaxPageSize:
		o.PageSize = MaxPageSize
	}

	o.Search = strings.TrimSpace(o.Search)

	return o
}

// SearchPattern returns a lower-cased LIKE pattern for the search term.
func (o ListOptions) SearchPattern() string {
	return "%" + strings.ToLower(o.Search) + "%"
}

// Fetch counts the rows matched by q and loads the requested page, newest
// first. A page beyond the last one is clamped to the last page.
// Preloads and other non-filter clauses go in scopes so that they stay out of
// the count query.
func Fetch[T any](q *gorm.DB, opts ListOptions, scopes ...func(*gorm.DB) *gorm.DB) (Page[T], error) {
	opts = opts.Normalize()
	q = q.Session(&gorm.Session{})

	out := Page[T]{
		Items:    []T{},
		Page:     opts.Page,
		PageSize: opts.PageSize,
	}

	if err := q.Count(&out.TotalItems).Error; err != nil {
		return out, err
	}

	out.TotalPages = int((out.TotalItems + int64(opts.PageSize) - 1) / int64(opts.PageSize))
	if out.TotalPages < 1 {
		out.TotalPages = 1
	}

	if out.Page > out.TotalPages {
		out.Page = out.TotalPages
	}

	offset := (out.Page - 1) * out.PageSize

	err := q.Scopes(scopes...).
		Order("created_at DESC").
		Order("id DESC").
		Limit(out.PageSize).
		Offset(offset).
		Find(&out.Items).Error

	return out, err
}
