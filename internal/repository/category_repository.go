package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"paperless/internal/database"
	"paperless/internal/models"
	"paperless/internal/storage"
)

const categoryColumns = `id, user_id, parent_category, name, type, created_at`

// CategoryRepository handles category database operations.
type CategoryRepository struct {
	db database.PGXDB
	tx database.TxBeginner
}

var _ storage.CategoryStore = (*CategoryRepository)(nil)

// NewCategoryRepository creates a new CategoryRepository. The pool is
// needed (rather than a bare PGXDB) because seeding and cascade
// deletes run in their own transactions.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{db: pool, tx: pool}
}

// Create persists a new category. Duplicates are permitted.
func (r *CategoryRepository) Create(ctx context.Context, category models.Category) (models.Category, error) {
	if category.Type == "" {
		category.Type = models.CategoryTypeGeneral
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO categories (user_id, parent_category, name, type)
		VALUES ($1, $2, $3, $4)
		RETURNING `+categoryColumns,
		category.UserID, category.ParentCategory, category.Name, category.Type)

	created, err := scanCategory(row)
	if err != nil {
		return models.Category{}, fmt.Errorf("failed to create category: %w", err)
	}
	return created, nil
}

// List returns the user's categories ordered by creation time, after
// seeding any defaults the user is missing.
func (r *CategoryRepository) List(ctx context.Context, userID int64, filter storage.CategoryFilter) ([]models.Category, error) {
	if err := r.seedDefaults(ctx, userID); err != nil {
		return nil, err
	}
	return r.list(ctx, r.db, userID, filter)
}

// seedDefaults inserts missing default categories for the user. The
// check-then-insert runs under a per-user advisory lock so two
// concurrent first requests cannot both seed.
func (r *CategoryRepository) seedDefaults(ctx context.Context, userID int64) error {
	tx, err := r.tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin seeding transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, userID); err != nil {
		return fmt.Errorf("failed to take seeding lock: %w", err)
	}

	existing, err := r.list(ctx, tx, userID, storage.CategoryFilter{})
	if err != nil {
		return err
	}

	plan := models.SeedPlan(existing)
	if len(plan) == 0 {
		return nil
	}

	for _, d := range plan {
		_, err := tx.Exec(ctx, `
			INSERT INTO categories (user_id, parent_category, name, type)
			VALUES ($1, $2, $3, $4)
		`, userID, d.ParentCategory, d.Name, d.Type)
		if err != nil {
			return fmt.Errorf("failed to seed category %q: %w", d.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit seeded categories: %w", err)
	}
	return nil
}

func (r *CategoryRepository) list(ctx context.Context, db database.PGXDB, userID int64, filter storage.CategoryFilter) ([]models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = $1`
	args := []any{userID}

	switch {
	case filter.Parent != "":
		args = append(args, filter.Parent)
		query += fmt.Sprintf(` AND parent_category = $%d`, len(args))
	case len(filter.ExcludeParents) > 0:
		args = append(args, filter.ExcludeParents)
		query += fmt.Sprintf(` AND NOT (parent_category = ANY($%d))`, len(args))
	}

	query += ` ORDER BY created_at, id`

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

// Rename updates a category's name.
func (r *CategoryRepository) Rename(ctx context.Context, userID, categoryID int64, name string) (models.Category, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE categories SET name = $3
		WHERE id = $2 AND user_id = $1
		RETURNING `+categoryColumns,
		userID, categoryID, name)

	cat, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Category{}, storage.ErrNotFound
		}
		return models.Category{}, fmt.Errorf("failed to rename category: %w", err)
	}
	return cat, nil
}

// Delete removes a category and cascades to its entries, returning the
// number of entries removed.
func (r *CategoryRepository) Delete(ctx context.Context, userID, categoryID int64) (int64, error) {
	tx, err := r.tx.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	entriesTag, err := tx.Exec(ctx, `
		DELETE FROM entries WHERE category_id = $2 AND user_id = $1
	`, userID, categoryID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete category entries: %w", err)
	}

	catTag, err := tx.Exec(ctx, `
		DELETE FROM categories WHERE id = $2 AND user_id = $1
	`, userID, categoryID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete category: %w", err)
	}
	if catTag.RowsAffected() == 0 {
		return 0, storage.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit category delete: %w", err)
	}
	return entriesTag.RowsAffected(), nil
}

// FindMilk returns the user's milk-kind category.
func (r *CategoryRepository) FindMilk(ctx context.Context, userID int64) (models.Category, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE user_id = $1 AND type = $2
		ORDER BY created_at, id
		LIMIT 1
	`, userID, models.CategoryTypeMilk)

	cat, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Category{}, storage.ErrNotFound
		}
		return models.Category{}, fmt.Errorf("failed to find milk category: %w", err)
	}
	return cat, nil
}

func scanCategory(row pgx.Row) (models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.UserID, &c.ParentCategory, &c.Name, &c.Type, &c.CreatedAt)
	if err != nil {
		return models.Category{}, err
	}
	return c, nil
}
