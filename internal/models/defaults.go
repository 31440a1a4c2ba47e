package models

// CategoryDefault describes one entry of the fixed default category set
// seeded for users.
type CategoryDefault struct {
	ParentCategory string
	Name           string
	Type           string
}

// MandatoryParents are the parent groups whose defaults are re-seeded
// for existing users when missing. Generic defaults the user deleted
// stay deleted.
var MandatoryParents = []string{"Miscellaneous", "Savings"}

// DefaultCategories is the full seed list for a brand-new user, in
// insertion order.
var DefaultCategories = []CategoryDefault{
	{ParentCategory: "Daily Expenses", Name: "Milk", Type: CategoryTypeMilk},
	{ParentCategory: "Daily Expenses", Name: "Newspaper", Type: CategoryTypeGeneral},
	{ParentCategory: "Daily Expenses", Name: "Fruits & Vegetables", Type: CategoryTypeGeneral},
	{ParentCategory: "Daily Expenses", Name: "Water Can", Type: CategoryTypeGeneral},
	{ParentCategory: "Utilities & Bills", Name: "EB Bill", Type: CategoryTypeGeneral},
	{ParentCategory: "Utilities & Bills", Name: "Mobile Recharge", Type: CategoryTypeGeneral},
	{ParentCategory: "Utilities & Bills", Name: "Internet/Wi-Fi", Type: CategoryTypeGeneral},
	{ParentCategory: "Utilities & Bills", Name: "Gas Cylinder", Type: CategoryTypeGeneral},
	{ParentCategory: "Groceries", Name: "Supermarket / Monthly Shopping", Type: CategoryTypeGeneral},
	{ParentCategory: "Groceries", Name: "Local Grocery Store", Type: CategoryTypeGeneral},
	{ParentCategory: "Groceries", Name: "Dairy Products", Type: CategoryTypeGeneral},
	{ParentCategory: "Miscellaneous", Name: "Travel", Type: CategoryTypeGeneral},
	{ParentCategory: "Miscellaneous", Name: "Function / Gift", Type: CategoryTypeGeneral},
	{ParentCategory: "Miscellaneous", Name: "Donations", Type: CategoryTypeGeneral},
	{ParentCategory: "Miscellaneous", Name: "Happy Plates", Type: CategoryTypeGeneral},
	{ParentCategory: "Savings", Name: "PPF", Type: CategoryTypeGeneral},
	{ParentCategory: "Savings", Name: "RD", Type: CategoryTypeGeneral},
	{ParentCategory: "Savings", Name: "LIC", Type: CategoryTypeGeneral},
	{ParentCategory: "Savings", Name: "GOLDCHIT", Type: CategoryTypeGeneral},
	{ParentCategory: "Savings", Name: "FD", Type: CategoryTypeGeneral},
}

// SeedPlan returns the defaults that should be inserted for a user who
// already owns the given categories. With no categories at all the full
// default set is returned. Otherwise only mandatory-group defaults that
// are missing by exact (parent, name) match are returned, so an
// upgraded default set reaches existing users without resurrecting
// generic defaults they deliberately deleted.
func SeedPlan(existing []Category) []CategoryDefault {
	if len(existing) == 0 {
		return DefaultCategories
	}

	have := make(map[[2]string]bool, len(existing))
	for _, c := range existing {
		have[[2]string{c.ParentCategory, c.Name}] = true
	}

	mandatory := make(map[string]bool, len(MandatoryParents))
	for _, p := range MandatoryParents {
		mandatory[p] = true
	}

	var missing []CategoryDefault
	for _, d := range DefaultCategories {
		if mandatory[d.ParentCategory] && !have[[2]string{d.ParentCategory, d.Name}] {
			missing = append(missing, d)
		}
	}
	return missing
}
