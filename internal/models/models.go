// Package models defines the domain entities for the expense tracker.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category kinds. Milk categories carry the litre-tracking fields on
// their entries; everything else is general.
const (
	CategoryTypeGeneral = "general"
	CategoryTypeMilk    = "milk"
)

// DefaultPaymentMode is applied when an entry does not specify one.
const DefaultPaymentMode = "Cash"

// User represents an account holder. PasswordHash is empty for
// Google-only accounts and GoogleID is empty for password accounts.
type User struct {
	ID           int64     `json:"id"`
	GoogleID     string    `json:"-"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	ProfilePic   string    `json:"profilePic"`
	CreatedAt    time.Time `json:"createdAt"`
	LastLogin    time.Time `json:"lastLogin"`
}

// HasPassword reports whether the account can log in with a password.
func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}

// Category is a named expense bucket owned by one user, filed under a
// free-text parent group like "Groceries".
type Category struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"userId"`
	ParentCategory string    `json:"parentCategory"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Entry is a single expense record. Quantity, PricePerLitre,
// MorningLitres and NightLitres are only meaningful when the owning
// category's type is milk.
type Entry struct {
	ID            int64            `json:"id"`
	UserID        int64            `json:"userId"`
	CategoryID    int64            `json:"categoryId"`
	Amount        decimal.Decimal  `json:"amount"`
	Date          time.Time        `json:"date"`
	ItemName      string           `json:"itemName"`
	Notes         string           `json:"notes,omitempty"`
	Quantity      *decimal.Decimal `json:"quantity,omitempty"`
	PricePerLitre *decimal.Decimal `json:"pricePerLitre,omitempty"`
	MorningLitres *decimal.Decimal `json:"morningLitres,omitempty"`
	NightLitres   *decimal.Decimal `json:"nightLitres,omitempty"`
	Metadata      map[string]any   `json:"metadata,omitempty"`
	PaymentMode   string           `json:"paymentMode"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// MilkSummary is the aggregate returned for milk-ledger queries.
type MilkSummary struct {
	Entries      []Entry         `json:"entries"`
	TotalLitres  decimal.Decimal `json:"totalLitres"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	AverageSpend decimal.Decimal `json:"averageSpend"`
	CategoryID   int64           `json:"categoryId,omitempty"`
}

// SummarizeMilk computes litre and spend totals over the given entries.
// Entries without a quantity count as zero litres. AverageSpend is the
// mean amount per entry, zero when there are none.
func SummarizeMilk(entries []Entry) MilkSummary {
	s := MilkSummary{
		Entries:      entries,
		TotalLitres:  decimal.Zero,
		TotalAmount:  decimal.Zero,
		AverageSpend: decimal.Zero,
	}
	for _, e := range entries {
		if e.Quantity != nil {
			s.TotalLitres = s.TotalLitres.Add(*e.Quantity)
		}
		s.TotalAmount = s.TotalAmount.Add(e.Amount)
	}
	if len(entries) > 0 {
		s.AverageSpend = s.TotalAmount.Div(decimal.NewFromInt(int64(len(entries))))
	}
	return s
}
