// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// excerptLength is how many characters of content are used when deriving
// an excerpt from the body.
const excerptLength = 150

// Post is a blog article. The slug is derived from the title and is
// globally unique; PublishedAt is set exactly once, on the first
// transition to published.
type Post struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Slug          string     `json:"slug"`
	Excerpt       *string    `json:"excerpt,omitempty"`
	FeaturedImage *string    `json:"featuredImage,omitempty"`
	AuthorID      uuid.UUID  `json:"author_id"`
	CategoryID    uuid.UUID  `json:"category_id"`
	Tags          []string   `json:"tags"`
	IsPublished   bool       `json:"isPublished"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
	ViewCount     int        `json:"viewCount"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Virtual fields populated by store methods.
	Author   *Summary         `json:"author,omitempty"`
	Category *CategorySummary `json:"category,omitempty"`
	Comments []Comment        `json:"comments,omitempty"`
}

// Comment belongs to exactly one post and has no independent lifecycle.
// User is nil for anonymous comments.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`

	// Virtual field populated by store methods; nil when anonymous.
	User *Summary `json:"user,omitempty"`
}

// ApplyPublish sets PublishedAt the first time the post becomes
// published. Later unpublish/republish cycles leave the original
// timestamp untouched.
func (p *Post) ApplyPublish(now time.Time) {
	if p.IsPublished && p.PublishedAt == nil {
		p.PublishedAt = &now
	}
}

// ApplyExcerpt trims an explicit excerpt, or derives one from the first
// excerptLength characters of the content when none is set.
func (p *Post) ApplyExcerpt() {
	if p.Excerpt != nil && strings.TrimSpace(*p.Excerpt) != "" {
		trimmed := strings.TrimSpace(*p.Excerpt)
		p.Excerpt = &trimmed
		return
	}
	if p.Content == "" {
		p.Excerpt = nil
		return
	}
	body := p.Content
	// Truncate on runes so multibyte content never yields a torn excerpt.
	if runes := []rune(body); len(runes) > excerptLength {
		body = string(runes[:excerptLength])
	}
	derived := strings.TrimSpace(body) + "..."
	p.Excerpt = &derived
}
