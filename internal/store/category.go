// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"blogapi/internal/models"
)

// CategoryStore manages categories in the database. Categories are never
// removed: Archive flips is_active off so posts keep a valid reference.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, is_active, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns categories ordered by name. Archived categories are
// excluded unless includeInactive is set.
func (s *CategoryStore) List(includeInactive bool) ([]models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories`
	if !includeInactive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindByIDOrSlug resolves a path parameter that may be either a UUID or a
// slug. Returns nil if nothing matches.
func (s *CategoryStore) FindByIDOrSlug(idOrSlug string) (*models.Category, error) {
	if id, err := uuid.Parse(idOrSlug); err == nil {
		if c, err := s.FindByID(id); err != nil || c != nil {
			return c, err
		}
	}

	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, idOrSlug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO categories (name, slug, description, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.IsActive,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Update modifies an existing category.
func (s *CategoryStore) Update(c *models.Category) error {
	_, err := s.db.Exec(`
		UPDATE categories SET
			name = $1, slug = $2, description = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5
	`, c.Name, c.Slug, c.Description, c.IsActive, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Archive marks a category inactive instead of deleting it.
func (s *CategoryStore) Archive(id uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE categories SET is_active = FALSE, updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("archive category: %w", err)
	}
	return nil
}

// SlugTaken reports whether another category already uses the slug,
// excluding the record currently being saved.
func (s *CategoryStore) SlugTaken(slug string, exclude uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM categories WHERE slug = $1 AND id <> $2)
	`, slug, exclude).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("category slug taken: %w", err)
	}
	return exists, nil
}
