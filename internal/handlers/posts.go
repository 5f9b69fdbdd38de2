// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"blogapi/internal/cache"
	"blogapi/internal/markdown"
	"blogapi/internal/middleware"
	"blogapi/internal/models"
	"blogapi/internal/slug"
	"blogapi/internal/store"
)

// Posts groups the post CRUD and comment handlers.
type Posts struct {
	posts      *store.PostStore
	categories *store.CategoryStore
	cache      *cache.PostCache
}

// NewPosts creates a new Posts handler group. cache may be nil when
// Valkey is not configured.
func NewPosts(posts *store.PostStore, categories *store.CategoryStore, postCache *cache.PostCache) *Posts {
	return &Posts{posts: posts, categories: categories, cache: postCache}
}

// postDetail decorates a post with its content rendered to HTML.
type postDetail struct {
	*models.Post
	ContentHTML string `json:"contentHtml"`
}

// List returns posts filtered by category, search, and publication state.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := store.ListOptions{
		Category: q.Get("category"),
		Search:   q.Get("q"),
	}
	if opts.Search == "" {
		opts.Search = q.Get("search")
	}
	if raw := q.Get("isPublished"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			opts.IsPublished = &v
		}
	}
	opts.Page, _ = strconv.Atoi(q.Get("page"))
	opts.Limit, _ = strconv.Atoi(q.Get("limit"))

	posts, pg, err := h.posts.List(opts)
	if err != nil {
		respondInternal(w, "list posts failed", err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	respondList(w, posts, pg)
}

// Get returns a single post by UUID or slug, with comments, summaries,
// and rendered HTML. Every fetch counts a view; the response body itself
// is cached in Valkey, so a cached hit may report a slightly stale count.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	idOrSlug := chi.URLParam(r, "idOrSlug")

	if body, ok := h.cache.Get(r.Context(), idOrSlug); ok {
		if err := h.posts.BumpViews(idOrSlug); err != nil {
			slog.Warn("view bump failed", "post", idOrSlug, "error", err)
		}
		writeBody(w, http.StatusOK, body)
		return
	}

	post, err := h.posts.FindByIDOrSlug(idOrSlug)
	if err != nil {
		respondInternal(w, "find post failed", err)
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "Post not found")
		return
	}

	count, err := h.posts.IncrementViewCount(post.ID)
	if err != nil {
		slog.Warn("view count increment failed", "post", post.ID, "error", err)
	} else {
		post.ViewCount = count
	}

	html, err := markdown.ToHTML(post.Content)
	if err != nil {
		respondInternal(w, "render post failed", err)
		return
	}

	body := marshalEnvelope(envelope{Success: true, Data: postDetail{Post: post, ContentHTML: html}})
	h.cache.Set(r.Context(), post.ID.String(), body)
	h.cache.Set(r.Context(), post.Slug, body)
	writeBody(w, http.StatusOK, body)
}

// Create makes a new post owned by the authenticated user. The slug is
// derived from the title and probed for uniqueness.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	payload, err := decodeBody(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	clean, errs := postCreateSchema.Apply(payload)
	if errs != nil {
		respondValidation(w, errs)
		return
	}

	categoryID := uuid.MustParse(clean["category"].(string))
	category, err := h.categories.FindByID(categoryID)
	if err != nil {
		respondInternal(w, "category lookup failed", err)
		return
	}
	if category == nil {
		respondError(w, http.StatusBadRequest, "Invalid category")
		return
	}

	title := clean["title"].(string)
	unique, err := slug.Unique(slug.Generate(title), func(candidate string) (bool, error) {
		return h.posts.SlugTaken(candidate, uuid.Nil)
	})
	if err != nil {
		respondInternal(w, "slug generation failed", err)
		return
	}

	post := &models.Post{
		Title:      title,
		Content:    clean["content"].(string),
		Slug:       unique,
		AuthorID:   user.ID,
		CategoryID: categoryID,
		Tags:       clean["tags"].([]string),
	}
	setOptionalString(&post.Excerpt, clean, "excerpt")
	setOptionalString(&post.FeaturedImage, clean, "featuredImage")
	if v, ok := clean["isPublished"].(bool); ok {
		post.IsPublished = v
	}
	post.ApplyExcerpt()
	post.ApplyPublish(time.Now().UTC())

	created, err := h.posts.Create(post)
	if err != nil {
		if store.IsUniqueViolation(err) {
			respondError(w, http.StatusConflict, "A post with this slug already exists")
			return
		}
		respondInternal(w, "create post failed", err)
		return
	}
	respondData(w, http.StatusCreated, created)
}

// Update modifies a post. Only its author may do so. The slug is
// regenerated only when the title actually changes; republishing a post
// never moves its original publication timestamp.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	post, err := h.posts.FindByIDOrSlug(chi.URLParam(r, "idOrSlug"))
	if err != nil {
		respondInternal(w, "find post failed", err)
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "Post not found")
		return
	}
	if user.ID.String() != post.AuthorID.String() {
		respondError(w, http.StatusForbidden, "Not allowed to modify this post")
		return
	}

	payload, err := decodeBody(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	clean, errs := postUpdateSchema.Apply(payload)
	if errs != nil {
		respondValidation(w, errs)
		return
	}

	oldSlug := post.Slug

	if title, ok := clean["title"].(string); ok && title != post.Title {
		post.Title = title
		unique, err := slug.Unique(slug.Generate(title), func(candidate string) (bool, error) {
			return h.posts.SlugTaken(candidate, post.ID)
		})
		if err != nil {
			respondInternal(w, "slug generation failed", err)
			return
		}
		post.Slug = unique
	}
	if content, ok := clean["content"].(string); ok {
		post.Content = content
	}
	if _, present := clean["excerpt"]; present {
		setOptionalString(&post.Excerpt, clean, "excerpt")
	}
	if _, present := clean["featuredImage"]; present {
		setOptionalString(&post.FeaturedImage, clean, "featuredImage")
	}
	if raw, ok := clean["category"].(string); ok {
		categoryID := uuid.MustParse(raw)
		category, err := h.categories.FindByID(categoryID)
		if err != nil {
			respondInternal(w, "category lookup failed", err)
			return
		}
		if category == nil {
			respondError(w, http.StatusBadRequest, "Invalid category")
			return
		}
		post.CategoryID = categoryID
	}
	if tags, ok := clean["tags"].([]string); ok {
		post.Tags = tags
	}
	if v, ok := clean["isPublished"].(bool); ok {
		post.IsPublished = v
	}
	post.ApplyExcerpt()
	post.ApplyPublish(time.Now().UTC())

	if err := h.posts.Update(post); err != nil {
		if store.IsUniqueViolation(err) {
			respondError(w, http.StatusConflict, "A post with this slug already exists")
			return
		}
		respondInternal(w, "update post failed", err)
		return
	}

	h.cache.Invalidate(r.Context(), post.ID.String(), oldSlug, post.Slug)

	updated, err := h.posts.FindByID(post.ID)
	if err != nil {
		respondInternal(w, "reload post failed", err)
		return
	}
	respondData(w, http.StatusOK, updated)
}

// Delete removes a post permanently. Only its author may do so.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	post, err := h.posts.FindByIDOrSlug(chi.URLParam(r, "idOrSlug"))
	if err != nil {
		respondInternal(w, "find post failed", err)
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "Post not found")
		return
	}
	if user.ID.String() != post.AuthorID.String() {
		respondError(w, http.StatusForbidden, "Not allowed to modify this post")
		return
	}

	if err := h.posts.Delete(post.ID); err != nil {
		respondInternal(w, "delete post failed", err)
		return
	}

	h.cache.Invalidate(r.Context(), post.ID.String(), post.Slug)
	respondData(w, http.StatusOK, map[string]any{"deleted": true})
}

// AddComment appends a comment to a post. Anonymous callers are allowed;
// a valid bearer token attaches the commenter's identity.
func (h *Posts) AddComment(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.FindByIDOrSlug(chi.URLParam(r, "idOrSlug"))
	if err != nil {
		respondInternal(w, "find post failed", err)
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "Post not found")
		return
	}

	payload, err := decodeBody(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	clean, errs := commentSchema.Apply(payload)
	if errs != nil {
		respondValidation(w, errs)
		return
	}

	var userID *uuid.UUID
	if user := middleware.UserFromCtx(r.Context()); user != nil {
		userID = &user.ID
	}

	comment, err := h.posts.AddComment(post.ID, userID, clean["content"].(string))
	if err != nil {
		respondInternal(w, "add comment failed", err)
		return
	}

	// Comments are embedded in the cached detail body.
	h.cache.Invalidate(r.Context(), post.ID.String(), post.Slug)
	respondData(w, http.StatusCreated, comment)
}

// setOptionalString assigns a validated string field to a nullable model
// field, mapping empty string to nil (clears the column).
func setOptionalString(dst **string, clean map[string]any, key string) {
	if v, ok := clean[key].(string); ok {
		if v == "" {
			*dst = nil
		} else {
			s := v
			*dst = &s
		}
	}
}
