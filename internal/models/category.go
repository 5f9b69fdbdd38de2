// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups posts under a named topic. Categories are never hard
// deleted: archiving sets IsActive to false so existing posts keep their
// reference.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategorySummary is the minimal category representation embedded in
// post responses (name and slug only).
type CategorySummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// Summary returns the embeddable summary for this category.
func (c *Category) Summary() CategorySummary {
	return CategorySummary{ID: c.ID, Name: c.Name, Slug: c.Slug}
}
