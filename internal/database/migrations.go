package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunMigrations creates the database schema. Every statement is
// idempotent so this is safe to run on each boot.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			google_id TEXT UNIQUE,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL DEFAULT '',
			profile_pic TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_login TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS categories (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			parent_category TEXT NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'general',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS entries (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			category_id BIGINT NOT NULL,
			amount DECIMAL(12, 2) NOT NULL,
			date TIMESTAMPTZ NOT NULL,
			item_name TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			quantity DECIMAL(10, 3),
			price_per_litre DECIMAL(10, 2),
			morning_litres DECIMAL(10, 3),
			night_litres DECIMAL(10, 3),
			metadata JSONB,
			payment_mode TEXT NOT NULL DEFAULT 'Cash',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_categories_user_id ON categories(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_categories_user_parent ON categories(user_id, parent_category)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_user_id ON entries(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_category_id ON entries(category_id)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_date ON entries(date)`,
	}

	for i, migration := range migrations {
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}
