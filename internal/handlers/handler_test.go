// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL is unavailable;
// the response cache is left nil so Valkey is never required.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"blogapi/internal/database"
	"blogapi/internal/middleware"
	"blogapi/internal/models"
	"blogapi/internal/store"
	"blogapi/internal/token"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "blogapi")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "blogapi")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB            *sql.DB
	UserStore     *store.UserStore
	PostStore     *store.PostStore
	CategoryStore *store.CategoryStore
	Tokens        *token.Manager
	Auth          *Auth
	Posts         *Posts
	Categories    *Categories
}

// newTestEnv creates a complete test environment with all handler
// dependencies except Valkey and S3 (both optional).
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	userStore := store.NewUserStore(db)
	postStore := store.NewPostStore(db)
	categoryStore := store.NewCategoryStore(db)
	tokens := token.NewManager("handler-test-secret", time.Hour)

	return &testEnv{
		DB:            db,
		UserStore:     userStore,
		PostStore:     postStore,
		CategoryStore: categoryStore,
		Tokens:        tokens,
		Auth:          NewAuth(userStore, tokens),
		Posts:         NewPosts(postStore, categoryStore, nil),
		Categories:    NewCategories(categoryStore),
	}
}

// newUser creates a user and registers cleanup for it.
func (e *testEnv) newUser(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()
	u, err := e.UserStore.Create("Handler Test", email, "password123", role)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() { e.DB.Exec("DELETE FROM users WHERE email = $1", email) })
	return u
}

// newCategory creates a category and registers cleanup for it.
func (e *testEnv) newCategory(t *testing.T, slug string) *models.Category {
	t.Helper()
	c, err := e.CategoryStore.Create(&models.Category{Name: "Cat " + slug, Slug: slug, IsActive: true})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	t.Cleanup(func() { e.DB.Exec("DELETE FROM categories WHERE slug = $1", slug) })
	return c
}

// cleanPostSlugs registers cleanup for posts created during a test. The
// prefix match catches probe suffixes like -1, -2.
func (e *testEnv) cleanPostSlugs(t *testing.T, prefix string) {
	t.Helper()
	t.Cleanup(func() { e.DB.Exec("DELETE FROM posts WHERE slug LIKE $1", prefix+"%") })
}

// jsonRequest builds a request with a JSON body.
func jsonRequest(t *testing.T, method, target string, payload map[string]any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// asUser attaches an authenticated user to the request context, the way
// the auth middleware would.
func asUser(r *http.Request, user *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.UserKey, user))
}

// withURLParam adds a chi URL parameter to a request.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeEnvelope unpacks a recorded response body.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rr.Body.String())
	}
	return body
}

// dataField extracts the data object from a decoded envelope.
func dataField(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object in envelope, got %v", body)
	}
	return data
}
