package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestDefaultCategories(t *testing.T) {
	require.Len(t, DefaultCategories, 20)

	parents := make(map[string]int)
	milkCount := 0
	for _, d := range DefaultCategories {
		parents[d.ParentCategory]++
		if d.Type == CategoryTypeMilk {
			milkCount++
		}
	}

	require.Len(t, parents, 5)
	require.Equal(t, 1, milkCount, "exactly one milk default")
	require.Equal(t, 5, parents["Savings"])
	require.Equal(t, 4, parents["Miscellaneous"])
}

func TestSeedPlan_NewUser(t *testing.T) {
	plan := SeedPlan(nil)
	require.Equal(t, DefaultCategories, plan)
}

func TestSeedPlan_ExistingUserMissingMandatory(t *testing.T) {
	// User kept one daily category, deleted the rest, and predates the
	// Savings/Miscellaneous groups entirely.
	existing := []Category{
		{ParentCategory: "Daily Expenses", Name: "Milk", Type: CategoryTypeMilk},
	}

	plan := SeedPlan(existing)
	require.Len(t, plan, 9)
	for _, d := range plan {
		require.Contains(t, MandatoryParents, d.ParentCategory)
	}
}

func TestSeedPlan_DoesNotResurrectDeletedGenerics(t *testing.T) {
	existing := []Category{
		{ParentCategory: "Daily Expenses", Name: "Milk"},
		{ParentCategory: "Miscellaneous", Name: "Travel"},
		{ParentCategory: "Miscellaneous", Name: "Function / Gift"},
		{ParentCategory: "Miscellaneous", Name: "Donations"},
		{ParentCategory: "Miscellaneous", Name: "Happy Plates"},
		{ParentCategory: "Savings", Name: "PPF"},
		{ParentCategory: "Savings", Name: "RD"},
		{ParentCategory: "Savings", Name: "LIC"},
		{ParentCategory: "Savings", Name: "GOLDCHIT"},
		{ParentCategory: "Savings", Name: "FD"},
	}

	// All mandatory defaults present: nothing to seed, even though the
	// user deleted Newspaper and the rest of the generic defaults.
	require.Empty(t, SeedPlan(existing))
}

func TestSeedPlan_MatchesOnParentAndName(t *testing.T) {
	// Same name under a different parent does not satisfy the default.
	existing := []Category{
		{ParentCategory: "Daily Expenses", Name: "Travel"},
	}

	plan := SeedPlan(existing)
	var names []string
	for _, d := range plan {
		names = append(names, d.ParentCategory+"/"+d.Name)
	}
	require.Contains(t, names, "Miscellaneous/Travel")
}

func TestSummarizeMilk(t *testing.T) {
	q2 := decimal.NewFromInt(2)
	q3 := decimal.NewFromInt(3)
	entries := []Entry{
		{Quantity: &q2, Amount: decimal.NewFromInt(100), Date: time.Now()},
		{Quantity: &q3, Amount: decimal.NewFromInt(150), Date: time.Now()},
	}

	s := SummarizeMilk(entries)
	require.True(t, s.TotalLitres.Equal(decimal.NewFromInt(5)), "litres: %s", s.TotalLitres)
	require.True(t, s.TotalAmount.Equal(decimal.NewFromInt(250)), "amount: %s", s.TotalAmount)
	require.True(t, s.AverageSpend.Equal(decimal.NewFromInt(125)), "average: %s", s.AverageSpend)
}

func TestSummarizeMilk_MissingQuantityCountsAsZero(t *testing.T) {
	q1 := decimal.NewFromInt(1)
	entries := []Entry{
		{Quantity: &q1, Amount: decimal.NewFromInt(50)},
		{Amount: decimal.NewFromInt(70)},
	}

	s := SummarizeMilk(entries)
	require.True(t, s.TotalLitres.Equal(decimal.NewFromInt(1)))
	require.True(t, s.TotalAmount.Equal(decimal.NewFromInt(120)))
	require.True(t, s.AverageSpend.Equal(decimal.NewFromInt(60)))
}

func TestSummarizeMilk_Empty(t *testing.T) {
	s := SummarizeMilk(nil)
	require.True(t, s.TotalLitres.IsZero())
	require.True(t, s.TotalAmount.IsZero())
	require.True(t, s.AverageSpend.IsZero())
}

func TestUserHasPassword(t *testing.T) {
	require.False(t, User{GoogleID: "g-123"}.HasPassword())
	require.True(t, User{PasswordHash: "$2a$10$abc"}.HasPassword())
}
