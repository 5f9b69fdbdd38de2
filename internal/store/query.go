// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// query.go translates post list parameters into a SQL filter and
// pagination metadata. The builder never mutates state; malformed
// category identifiers are ignored rather than rejected.
package store

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// ListOptions are the raw post list parameters as they arrive from the
// query string.
type ListOptions struct {
	Category    string // filter by category ID; ignored unless UUID-shaped
	Search      string // free-text search over title and content
	IsPublished *bool  // nil = no publication-state filter
	Page        int    // 1-based; values < 1 fall back to 1
	Limit       int    // values < 1 fall back to 10
}

// Pagination describes the page window of a list response.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Limit int `json:"limit"`
}

// NewPagination computes page metadata. Pages is ceil(total/limit),
// floored at 1 so an empty result set still reports one page.
func NewPagination(total, page, limit int) Pagination {
	pages := (total + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}
	return Pagination{Total: total, Page: page, Pages: pages, Limit: limit}
}

// normalize applies the page/limit defaults and floors.
func (o ListOptions) normalize() ListOptions {
	if o.Page < 1 {
		o.Page = defaultPage
	}
	if o.Limit < 1 {
		o.Limit = defaultLimit
	}
	return o
}

// offset returns the number of rows to skip for the current page.
func (o ListOptions) offset() int {
	return (o.Page - 1) * o.Limit
}

// buildPostFilter renders the WHERE clause and arguments for the options.
// Placeholders start at $1; the returned clause is empty when no filter
// applies. Column references are qualified with the posts alias "p" so the
// clause composes with joined list queries.
func buildPostFilter(o ListOptions) (string, []any) {
	var conds []string
	var args []any

	if o.Category != "" {
		if id, err := uuid.Parse(o.Category); err == nil {
			args = append(args, id)
			conds = append(conds, fmt.Sprintf("p.category_id = $%d", len(args)))
		}
		// Malformed category values are silently dropped.
	}

	if o.Search != "" {
		args = append(args, o.Search)
		conds = append(conds, fmt.Sprintf(
			"to_tsvector('english', p.title || ' ' || p.content) @@ plainto_tsquery('english', $%d)",
			len(args)))
	}

	if o.IsPublished != nil {
		args = append(args, *o.IsPublished)
		conds = append(conds, fmt.Sprintf("p.is_published = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}
