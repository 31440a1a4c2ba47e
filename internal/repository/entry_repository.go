package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"paperless/internal/database"
	"paperless/internal/models"
	"paperless/internal/storage"
)

const entryColumns = `id, user_id, category_id, amount, date, item_name, notes,
	quantity, price_per_litre, morning_litres, night_litres, metadata, payment_mode,
	created_at, updated_at`

// EntryRepository handles entry database operations.
type EntryRepository struct {
	db database.PGXDB
}

var _ storage.EntryStore = (*EntryRepository)(nil)

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(db database.PGXDB) *EntryRepository {
	return &EntryRepository{db: db}
}

// Create persists a new entry. The category must exist and belong to
// the same user, otherwise storage.ErrNotFound is returned.
func (r *EntryRepository) Create(ctx context.Context, entry models.Entry) (models.Entry, error) {
	if entry.PaymentMode == "" {
		entry.PaymentMode = models.DefaultPaymentMode
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO entries (user_id, category_id, amount, date, item_name, notes,
			quantity, price_per_litre, morning_litres, night_litres, metadata, payment_mode)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		WHERE EXISTS (
			SELECT 1 FROM categories WHERE id = $2 AND user_id = $1
		)
		RETURNING `+entryColumns,
		entry.UserID, entry.CategoryID, entry.Amount, entry.Date.UTC(), entry.ItemName,
		entry.Notes, entry.Quantity, entry.PricePerLitre, entry.MorningLitres,
		entry.NightLitres, entry.Metadata, entry.PaymentMode)

	created, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Category missing or owned by someone else.
			return models.Entry{}, storage.ErrNotFound
		}
		return models.Entry{}, fmt.Errorf("failed to create entry: %w", err)
	}
	return created, nil
}

// Update replaces the supplied fields of an entry and returns the
// updated row. Nil fields in upd are left unchanged.
func (r *EntryRepository) Update(ctx context.Context, userID, entryID int64, upd storage.EntryUpdate) (models.Entry, error) {
	set := []string{"updated_at = NOW()"}
	args := []any{userID, entryID}
	assign := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Amount != nil {
		assign("amount", *upd.Amount)
	}
	if upd.Date != nil {
		assign("date", upd.Date.UTC())
	}
	if upd.ItemName != nil {
		assign("item_name", *upd.ItemName)
	}
	if upd.Notes != nil {
		assign("notes", *upd.Notes)
	}
	if upd.Quantity != nil {
		assign("quantity", *upd.Quantity)
	}
	if upd.PricePerLitre != nil {
		assign("price_per_litre", *upd.PricePerLitre)
	}
	if upd.MorningLitres != nil {
		assign("morning_litres", *upd.MorningLitres)
	}
	if upd.NightLitres != nil {
		assign("night_litres", *upd.NightLitres)
	}
	if upd.Metadata != nil {
		assign("metadata", upd.Metadata)
	}
	if upd.PaymentMode != nil {
		assign("payment_mode", *upd.PaymentMode)
	}

	row := r.db.QueryRow(ctx, `
		UPDATE entries SET `+strings.Join(set, ", ")+`
		WHERE user_id = $1 AND id = $2
		RETURNING `+entryColumns, args...)

	updated, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Entry{}, storage.ErrNotFound
		}
		return models.Entry{}, fmt.Errorf("failed to update entry: %w", err)
	}
	return updated, nil
}

// Delete removes an entry.
func (r *EntryRepository) Delete(ctx context.Context, userID, entryID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM entries WHERE user_id = $1 AND id = $2`, userID, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListByCategory returns the most recent entries for a category,
// descending by date.
func (r *EntryRepository) ListByCategory(ctx context.Context, userID, categoryID int64, limit int) ([]models.Entry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+entryColumns+` FROM entries
		WHERE user_id = $1 AND category_id = $2
		ORDER BY date DESC, id DESC
		LIMIT $3
	`, userID, categoryID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries by category: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListByCategoryRange returns a category's entries within [from, to),
// ascending by date.
func (r *EntryRepository) ListByCategoryRange(ctx context.Context, userID, categoryID int64, from, to *time.Time) ([]models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE user_id = $1 AND category_id = $2`
	args := []any{userID, categoryID}
	query, args = appendRange(query, args, "date", from, to)
	query += ` ORDER BY date, id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries by category range: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListByParent returns entries under every category of the given parent
// group, descending by date.
func (r *EntryRepository) ListByParent(ctx context.Context, userID int64, parent string, from, to *time.Time) ([]models.Entry, error) {
	query := `
		SELECT ` + prefixedEntryColumns("e") + `
		FROM entries e
		JOIN categories c ON c.id = e.category_id AND c.user_id = e.user_id
		WHERE e.user_id = $1 AND c.parent_category = $2`
	args := []any{userID, parent}
	query, args = appendRange(query, args, "e.date", from, to)
	query += ` ORDER BY e.date DESC, e.id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries by parent category: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListByRange returns all of a user's entries within [from, to),
// descending by date.
func (r *EntryRepository) ListByRange(ctx context.Context, userID int64, from, to *time.Time) ([]models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE user_id = $1`
	args := []any{userID}
	query, args = appendRange(query, args, "date", from, to)
	query += ` ORDER BY date DESC, id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries by range: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func appendRange(query string, args []any, column string, from, to *time.Time) (string, []any) {
	if from != nil {
		args = append(args, from.UTC())
		query += fmt.Sprintf(" AND %s >= $%d", column, len(args))
	}
	if to != nil {
		args = append(args, to.UTC())
		query += fmt.Sprintf(" AND %s < $%d", column, len(args))
	}
	return query, args
}

func prefixedEntryColumns(alias string) string {
	cols := strings.Split(entryColumns, ",")
	for i, col := range cols {
		cols[i] = alias + "." + strings.TrimSpace(col)
	}
	return strings.Join(cols, ", ")
}

func scanEntry(row pgx.Row) (models.Entry, error) {
	var e models.Entry
	var quantity, pricePerLitre, morningLitres, nightLitres decimal.NullDecimal
	err := row.Scan(&e.ID, &e.UserID, &e.CategoryID, &e.Amount, &e.Date, &e.ItemName,
		&e.Notes, &quantity, &pricePerLitre, &morningLitres, &nightLitres,
		&e.Metadata, &e.PaymentMode, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return models.Entry{}, err
	}
	e.Quantity = nullableDecimal(quantity)
	e.PricePerLitre = nullableDecimal(pricePerLitre)
	e.MorningLitres = nullableDecimal(morningLitres)
	e.NightLitres = nullableDecimal(nightLitres)
	return e, nil
}

func scanEntries(rows pgx.Rows) ([]models.Entry, error) {
	var entries []models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}
	return entries, nil
}

func nullableDecimal(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
