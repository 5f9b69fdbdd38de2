// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"blogapi/internal/database"
	"blogapi/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "blogapi")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "blogapi")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanUsers removes test users by email pattern. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

// cleanCategories removes test categories by slug pattern. Call in t.Cleanup().
func cleanCategories(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM categories WHERE slug = $1", slug)
	}
}

// cleanPosts removes test posts by slug pattern. Call in t.Cleanup().
func cleanPosts(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM posts WHERE slug = $1", slug)
	}
}

// testAuthor creates a throwaway author for post tests and registers
// cleanup for it.
func testAuthor(t *testing.T, db *sql.DB, email string) *models.User {
	t.Helper()
	u, err := NewUserStore(db).Create("Post Author", email, "pass", models.RoleUser)
	if err != nil {
		t.Fatalf("create test author: %v", err)
	}
	t.Cleanup(func() { cleanUsers(t, db, email) })
	return u
}

// testCategory creates a throwaway category for post tests and registers
// cleanup for it.
func testCategory(t *testing.T, db *sql.DB, slug string) *models.Category {
	t.Helper()
	c, err := NewCategoryStore(db).Create(&models.Category{
		Name:     "Test " + slug,
		Slug:     slug,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("create test category: %v", err)
	}
	t.Cleanup(func() { cleanCategories(t, db, slug) })
	return c
}

// testPost builds a minimal valid post referencing the given author and
// category. Callers adjust fields before Create.
func testPost(author *models.User, category *models.Category, slug string) *models.Post {
	return &models.Post{
		Title:      "Title for " + slug,
		Content:    "Content body for " + slug,
		Slug:       slug,
		AuthorID:   author.ID,
		CategoryID: category.ID,
		Tags:       []string{"test"},
	}
}
