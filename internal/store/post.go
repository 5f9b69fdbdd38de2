// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"blogapi/internal/models"
)

// PostStore handles all post-related database operations, including the
// comments owned by each post.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `p.id, p.title, p.content, p.slug, p.excerpt, p.featured_image,
	       p.author_id, p.category_id, p.tags, p.is_published, p.published_at,
	       p.view_count, p.created_at, p.updated_at`

// summaryJoin attaches the author and category summaries every post
// response embeds.
const summaryJoin = `
	FROM posts p
	JOIN users u ON u.id = p.author_id
	JOIN categories c ON c.id = p.category_id`

// scanPostRow scans a joined post row, decoding tags from JSONB and
// filling the author/category summaries.
func scanPostRow(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	p := &models.Post{}
	var tagsRaw []byte
	var author models.Summary
	var category models.CategorySummary

	err := scanner.Scan(
		&p.ID, &p.Title, &p.Content, &p.Slug, &p.Excerpt, &p.FeaturedImage,
		&p.AuthorID, &p.CategoryID, &tagsRaw, &p.IsPublished, &p.PublishedAt,
		&p.ViewCount, &p.CreatedAt, &p.UpdatedAt,
		&author.Name, &author.Email, &category.Name, &category.Slug,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tagsRaw, &p.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	author.ID = p.AuthorID
	category.ID = p.CategoryID
	p.Author = &author
	p.Category = &category
	return p, nil
}

// List returns the posts matching opts, newest-created first, together
// with the pagination metadata for the full (unpaged) match count.
func (s *PostStore) List(opts ListOptions) ([]models.Post, Pagination, error) {
	opts = opts.normalize()
	where, args := buildPostFilter(opts)

	var total int
	countQuery := `SELECT COUNT(*) FROM posts p ` + where
	if err := s.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, Pagination{}, fmt.Errorf("count posts: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, u.name, u.email, c.name, c.slug
		%s
		%s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d
	`, postColumns, summaryJoin, where, len(args)+1, len(args)+2)
	args = append(args, opts.Limit, opts.offset())

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPostRow(rows)
		if err != nil {
			return nil, Pagination{}, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, Pagination{}, err
	}

	return posts, NewPagination(total, opts.Page, opts.Limit), nil
}

// FindByID retrieves a post with its author/category summaries and
// comments. Returns nil if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	return s.findOne(`WHERE p.id = $1`, id)
}

// FindByIDOrSlug resolves a path parameter that may be either a UUID or
// a slug, preferring the UUID interpretation. Returns nil if nothing
// matches.
func (s *PostStore) FindByIDOrSlug(idOrSlug string) (*models.Post, error) {
	if id, err := uuid.Parse(idOrSlug); err == nil {
		if p, err := s.FindByID(id); err != nil || p != nil {
			return p, err
		}
	}
	return s.findOne(`WHERE p.slug = $1`, idOrSlug)
}

func (s *PostStore) findOne(where string, arg any) (*models.Post, error) {
	query := fmt.Sprintf(`SELECT %s, u.name, u.email, c.name, c.slug %s %s`,
		postColumns, summaryJoin, where)

	p, err := scanPostRow(s.db.QueryRow(query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}

	comments, err := s.commentsFor(p.ID)
	if err != nil {
		return nil, err
	}
	p.Comments = comments
	return p, nil
}

// Create inserts a new post and returns it with generated fields filled
// in. A slug race lost to a concurrent insert surfaces as a unique
// violation from the posts_slug unique index.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	tags, err := json.Marshal(tagsOrEmpty(p.Tags))
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}

	err = s.db.QueryRow(`
		INSERT INTO posts (title, content, slug, excerpt, featured_image,
		                   author_id, category_id, tags, is_published, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, view_count, created_at, updated_at
	`, p.Title, p.Content, p.Slug, p.Excerpt, p.FeaturedImage,
		p.AuthorID, p.CategoryID, tags, p.IsPublished, p.PublishedAt,
	).Scan(&p.ID, &p.ViewCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return s.FindByID(p.ID)
}

// Update modifies an existing post. The caller is responsible for slug
// regeneration and the publish timestamp transition.
func (s *PostStore) Update(p *models.Post) error {
	tags, err := json.Marshal(tagsOrEmpty(p.Tags))
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}

	_, err = s.db.Exec(`
		UPDATE posts SET
			title = $1, content = $2, slug = $3, excerpt = $4, featured_image = $5,
			category_id = $6, tags = $7, is_published = $8, published_at = $9,
			updated_at = NOW()
		WHERE id = $10
	`, p.Title, p.Content, p.Slug, p.Excerpt, p.FeaturedImage,
		p.CategoryID, tags, p.IsPublished, p.PublishedAt, p.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes a post permanently. Its comments go with it (cascade).
func (s *PostStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// IncrementViewCount bumps the view counter and returns the new value.
func (s *PostStore) IncrementViewCount(id uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`
		UPDATE posts SET view_count = view_count + 1 WHERE id = $1
		RETURNING view_count
	`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("increment view count: %w", err)
	}
	return count, nil
}

// BumpViews increments the view counter for a post addressed by UUID or
// slug. Used on cached detail hits where the full record isn't loaded.
func (s *PostStore) BumpViews(idOrSlug string) error {
	_, err := s.db.Exec(`
		UPDATE posts SET view_count = view_count + 1
		WHERE id::text = $1 OR slug = $1
	`, idOrSlug)
	if err != nil {
		return fmt.Errorf("bump views: %w", err)
	}
	return nil
}

// SlugTaken reports whether another post already uses the slug, excluding
// the record currently being saved.
func (s *PostStore) SlugTaken(slug string, exclude uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1 AND id <> $2)
	`, slug, exclude).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("post slug taken: %w", err)
	}
	return exists, nil
}

// AddComment appends a comment to a post. userID is nil for anonymous
// comments.
func (s *PostStore) AddComment(postID uuid.UUID, userID *uuid.UUID, content string) (*models.Comment, error) {
	cm := &models.Comment{PostID: postID, Content: content}
	err := s.db.QueryRow(`
		INSERT INTO comments (post_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, postID, userID, content).Scan(&cm.ID, &cm.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}

	if userID != nil {
		var author models.Summary
		err := s.db.QueryRow(`SELECT id, name, email FROM users WHERE id = $1`, *userID).
			Scan(&author.ID, &author.Name, &author.Email)
		if err != nil && err != sql.ErrNoRows {
			return nil, fmt.Errorf("comment author: %w", err)
		}
		if err == nil {
			cm.User = &author
		}
	}
	return cm, nil
}

// commentsFor loads a post's comments oldest first, with author
// summaries where the commenter was signed in.
func (s *PostStore) commentsFor(postID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT cm.id, cm.post_id, cm.content, cm.created_at, u.id, u.name, u.email
		FROM comments cm
		LEFT JOIN users u ON u.id = cm.user_id
		WHERE cm.post_id = $1
		ORDER BY cm.created_at
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var cm models.Comment
		var userID uuid.NullUUID
		var name, email sql.NullString
		if err := rows.Scan(&cm.ID, &cm.PostID, &cm.Content, &cm.CreatedAt,
			&userID, &name, &email); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		if userID.Valid {
			cm.User = &models.Summary{ID: userID.UUID, Name: name.String, Email: email.String}
		}
		comments = append(comments, cm)
	}
	return comments, rows.Err()
}

// tagsOrEmpty keeps the JSONB column an array even when no tags are set.
func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
