package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"paperless/internal/database"
	"paperless/internal/models"
	"paperless/internal/storage"
)

func TestCategoryRepository_Seeding(t *testing.T) {
	pool := database.TestDB(t)
	ctx := context.Background()
	database.CleanupTables(t, pool)

	repo := NewCategoryRepository(pool)

	t.Run("new user gets full default set exactly once", func(t *testing.T) {
		user := createTestUser(t, pool)

		cats, err := repo.List(ctx, user.ID, storage.CategoryFilter{})
		require.NoError(t, err)
		require.Len(t, cats, len(models.DefaultCategories))

		// Repeated calls do not duplicate the seed.
		cats, err = repo.List(ctx, user.ID, storage.CategoryFilter{})
		require.NoError(t, err)
		require.Len(t, cats, len(models.DefaultCategories))

		milk, err := repo.FindMilk(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, "Milk", milk.Name)
		require.Equal(t, "Daily Expenses", milk.ParentCategory)
	})

	t.Run("existing user only gets missing mandatory defaults", func(t *testing.T) {
		user := createTestUser(t, pool)
		createTestCategory(t, pool, user.ID, "Daily Expenses", "Milk", models.CategoryTypeMilk)

		cats, err := repo.List(ctx, user.ID, storage.CategoryFilter{})
		require.NoError(t, err)
		// 1 kept category + 4 Miscellaneous + 5 Savings defaults.
		require.Len(t, cats, 10)
		for _, c := range cats {
			if c.Name == "Newspaper" {
				t.Fatalf("generic default resurrected: %+v", c)
			}
		}
	})

	t.Run("concurrent first listings seed once", func(t *testing.T) {
		user := createTestUser(t, pool)

		var g errgroup.Group
		for range 4 {
			g.Go(func() error {
				_, err := repo.List(ctx, user.ID, storage.CategoryFilter{})
				return err
			})
		}
		require.NoError(t, g.Wait())

		cats, err := repo.List(ctx, user.ID, storage.CategoryFilter{})
		require.NoError(t, err)
		require.Len(t, cats, len(models.DefaultCategories))
	})
}

func TestCategoryRepository_Filters(t *testing.T) {
	pool := database.TestDB(t)
	ctx := context.Background()
	database.CleanupTables(t, pool)

	repo := NewCategoryRepository(pool)
	user := createTestUser(t, pool)

	_, err := repo.List(ctx, user.ID, storage.CategoryFilter{})
	require.NoError(t, err)

	t.Run("filters by parent group", func(t *testing.T) {
		cats, err := repo.List(ctx, user.ID, storage.CategoryFilter{Parent: "Savings"})
		require.NoError(t, err)
		require.Len(t, cats, 5)
		for _, c := range cats {
			require.Equal(t, "Savings", c.ParentCategory)
		}
	})

	t.Run("excludes dashboard-hidden groups", func(t *testing.T) {
		cats, err := repo.List(ctx, user.ID, storage.CategoryFilter{
			ExcludeParents: []string{"Miscellaneous", "Savings"},
		})
		require.NoError(t, err)
		require.Len(t, cats, 11)
		for _, c := range cats {
			require.NotEqual(t, "Miscellaneous", c.ParentCategory)
			require.NotEqual(t, "Savings", c.ParentCategory)
		}
	})

	t.Run("orders by creation time", func(t *testing.T) {
		cats, err := repo.List(ctx, user.ID, storage.CategoryFilter{})
		require.NoError(t, err)
		for i := 1; i < len(cats); i++ {
			require.False(t, cats[i].CreatedAt.Before(cats[i-1].CreatedAt))
		}
	})
}

func TestCategoryRepository_RenameDelete(t *testing.T) {
	pool := database.TestDB(t)
	ctx := context.Background()
	database.CleanupTables(t, pool)

	repo := NewCategoryRepository(pool)
	entryRepo := NewEntryRepository(pool)
	user := createTestUser(t, pool)
	other := createTestUser(t, pool)

	t.Run("renames own category", func(t *testing.T) {
		cat := createTestCategory(t, pool, user.ID, "Groceries", "Old Name", "")

		renamed, err := repo.Rename(ctx, user.ID, cat.ID, "New Name")
		require.NoError(t, err)
		require.Equal(t, "New Name", renamed.Name)
	})

	t.Run("cannot rename another user's category", func(t *testing.T) {
		cat := createTestCategory(t, pool, user.ID, "Groceries", "Private", "")

		_, err := repo.Rename(ctx, other.ID, cat.ID, "Hijacked")
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("delete cascades to entries", func(t *testing.T) {
		cat := createTestCategory(t, pool, user.ID, "Groceries", "Doomed", "")
		for range 3 {
			createTestEntry(t, pool, user.ID, cat.ID, "10.50", time.Now())
		}

		deleted, err := repo.Delete(ctx, user.ID, cat.ID)
		require.NoError(t, err)
		require.EqualValues(t, 3, deleted)

		entries, err := entryRepo.ListByCategory(ctx, user.ID, cat.ID, 10)
		require.NoError(t, err)
		require.Empty(t, entries)

		_, err = repo.Rename(ctx, user.ID, cat.ID, "Ghost")
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("delete of absent category is not found", func(t *testing.T) {
		_, err := repo.Delete(ctx, user.ID, 999999)
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}
