package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"paperless/internal/models"
)

// createTestUser inserts a unique user for a test to own data.
func createTestUser(t *testing.T, pool *pgxpool.Pool) models.User {
	t.Helper()

	repo := NewUserRepository(pool)
	email := fmt.Sprintf("test-%d@example.com", time.Now().UnixNano())
	user, err := repo.CreateUser(context.Background(), models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$2a$10$not-a-real-hash",
	})
	require.NoError(t, err)
	return user
}

// createTestCategory inserts a category owned by the user.
func createTestCategory(t *testing.T, pool *pgxpool.Pool, userID int64, parent, name, kind string) models.Category {
	t.Helper()

	repo := NewCategoryRepository(pool)
	cat, err := repo.Create(context.Background(), models.Category{
		UserID:         userID,
		ParentCategory: parent,
		Name:           name,
		Type:           kind,
	})
	require.NoError(t, err)
	return cat
}

// createTestEntry inserts an entry with the given amount and date.
func createTestEntry(t *testing.T, pool *pgxpool.Pool, userID, categoryID int64, amount string, date time.Time) models.Entry {
	t.Helper()

	repo := NewEntryRepository(pool)
	entry, err := repo.Create(context.Background(), models.Entry{
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     decimal.RequireFromString(amount),
		Date:       date,
		ItemName:   "test item",
	})
	require.NoError(t, err)
	return entry
}
