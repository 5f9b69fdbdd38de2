package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin user and a "General" category so posts can be created right away.
// It is a no-op when users already exist.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	// Hash the default admin password.
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
	`, "Admin", "admin@blogapi.local", string(hash), "admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO categories (name, slug, description)
		VALUES ($1, $2, $3)
		ON CONFLICT (slug) DO NOTHING
	`, "General", "general", "Default category")
	if err != nil {
		return fmt.Errorf("seed insert category: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@blogapi.local",
		"password", "admin123",
	)

	return nil
}
