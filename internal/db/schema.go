package db

import (
	"context"

	"github.com/danolu/userhub/internal/security"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the users table if it does not exist yet.
// The password column holds the bcrypt hash, never the plaintext.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			password TEXT NOT NULL
		)
	`)

	return err
}

// EnsureSampleUsers seeds a few well-known accounts for local development.
// It only runs against an empty table so restarts never duplicate rows.
func EnsureSampleUsers(ctx context.Context, pool *pgxpool.Pool) error {
	var count int

	err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)

	if err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	samples := []struct {
		name     string
		email    string
		password string
	}{
		{"John Doe", "john@example.com", "password123"},
		{"Jane Smith", "jane@example.com", "secret456"},
		{"Bob Johnson", "bob@example.com", "qwerty789"},
	}

	for _, s := range samples {
		hash, err := security.HashPassword(s.password)

		if err != nil {
			return err
		}

		_, err = pool.Exec(ctx,
			`INSERT INTO users (name, email, password) VALUES ($1, $2, $3)`,
			s.name, s.email, hash,
		)

		if err != nil {
			return err
		}
	}

	return nil
}
