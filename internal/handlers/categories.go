// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"blogapi/internal/models"
	"blogapi/internal/slug"
	"blogapi/internal/store"
)

// Categories groups the category CRUD handlers. Deleting a category
// archives it: posts keep a valid reference and the record can be
// reactivated later.
type Categories struct {
	categories *store.CategoryStore
}

// NewCategories creates a new Categories handler group.
func NewCategories(categories *store.CategoryStore) *Categories {
	return &Categories{categories: categories}
}

// List returns categories ordered by name. Pass includeInactive=true to
// include archived ones.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("includeInactive") == "true"

	items, err := h.categories.List(includeInactive)
	if err != nil {
		respondInternal(w, "list categories failed", err)
		return
	}
	if items == nil {
		items = []models.Category{}
	}
	respondData(w, http.StatusOK, items)
}

// Get returns a single category by UUID or slug.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.FindByIDOrSlug(chi.URLParam(r, "idOrSlug"))
	if err != nil {
		respondInternal(w, "find category failed", err)
		return
	}
	if category == nil {
		respondError(w, http.StatusNotFound, "Category not found")
		return
	}
	respondData(w, http.StatusOK, category)
}

// Create makes a new category with a slug derived from its name.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeBody(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	clean, errs := categoryCreateSchema.Apply(payload)
	if errs != nil {
		respondValidation(w, errs)
		return
	}

	name := clean["name"].(string)
	unique, err := slug.Unique(slug.Generate(name), func(candidate string) (bool, error) {
		return h.categories.SlugTaken(candidate, uuid.Nil)
	})
	if err != nil {
		respondInternal(w, "slug generation failed", err)
		return
	}

	category := &models.Category{Name: name, Slug: unique, IsActive: true}
	if desc, ok := clean["description"].(string); ok && desc != "" {
		category.Description = &desc
	}

	created, err := h.categories.Create(category)
	if err != nil {
		if store.IsUniqueViolation(err) {
			respondError(w, http.StatusConflict, "A category with this slug already exists")
			return
		}
		respondInternal(w, "create category failed", err)
		return
	}
	respondData(w, http.StatusCreated, created)
}

// Update modifies a category. The slug is regenerated only when the name
// actually changes.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.FindByIDOrSlug(chi.URLParam(r, "idOrSlug"))
	if err != nil {
		respondInternal(w, "find category failed", err)
		return
	}
	if category == nil {
		respondError(w, http.StatusNotFound, "Category not found")
		return
	}

	payload, err := decodeBody(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	clean, errs := categoryUpdateSchema.Apply(payload)
	if errs != nil {
		respondValidation(w, errs)
		return
	}

	if name, ok := clean["name"].(string); ok && name != category.Name {
		category.Name = name
		unique, err := slug.Unique(slug.Generate(name), func(candidate string) (bool, error) {
			return h.categories.SlugTaken(candidate, category.ID)
		})
		if err != nil {
			respondInternal(w, "slug generation failed", err)
			return
		}
		category.Slug = unique
	}
	if _, present := clean["description"]; present {
		desc := clean["description"].(string)
		if desc == "" {
			category.Description = nil
		} else {
			category.Description = &desc
		}
	}
	if v, ok := clean["isActive"].(bool); ok {
		category.IsActive = v
	}

	if err := h.categories.Update(category); err != nil {
		if store.IsUniqueViolation(err) {
			respondError(w, http.StatusConflict, "A category with this slug already exists")
			return
		}
		respondInternal(w, "update category failed", err)
		return
	}
	respondData(w, http.StatusOK, category)
}

// Archive soft-deletes a category by flipping is_active off.
func (h *Categories) Archive(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.FindByIDOrSlug(chi.URLParam(r, "idOrSlug"))
	if err != nil {
		respondInternal(w, "find category failed", err)
		return
	}
	if category == nil {
		respondError(w, http.StatusNotFound, "Category not found")
		return
	}

	if err := h.categories.Archive(category.ID); err != nil {
		respondInternal(w, "archive category failed", err)
		return
	}
	respondData(w, http.StatusOK, map[string]any{"archived": true})
}
