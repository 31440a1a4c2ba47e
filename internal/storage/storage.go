// Package storage declares the persistence interfaces consumed by the
// HTTP handlers, plus the sentinel errors they translate into responses.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"paperless/internal/models"
)

// ErrNotFound indicates a record does not exist (or is not owned by the
// requesting user, which callers must not be able to distinguish).
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures user persistence operations.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUserByID(ctx context.Context, id int64) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (models.User, error)
	TouchLastLogin(ctx context.Context, id int64) error
}

// CategoryFilter narrows a category listing. Parent restricts to one
// parent group; ExcludeParents hides the named groups. At most one of
// the two is set.
type CategoryFilter struct {
	Parent         string
	ExcludeParents []string
}

// CategoryStore captures category persistence operations. List carries
// the default-seeding side effect described on the categories endpoint.
type CategoryStore interface {
	Create(ctx context.Context, category models.Category) (models.Category, error)
	List(ctx context.Context, userID int64, filter CategoryFilter) ([]models.Category, error)
	Rename(ctx context.Context, userID, categoryID int64, name string) (models.Category, error)
	// Delete removes the category and all entries under it, returning
	// the number of entries removed.
	Delete(ctx context.Context, userID, categoryID int64) (int64, error)
	FindMilk(ctx context.Context, userID int64) (models.Category, error)
}

// EntryUpdate lists the fields an update may replace. Nil fields are
// left unchanged.
type EntryUpdate struct {
	Amount        *decimal.Decimal
	Date          *time.Time
	ItemName      *string
	Notes         *string
	Quantity      *decimal.Decimal
	PricePerLitre *decimal.Decimal
	MorningLitres *decimal.Decimal
	NightLitres   *decimal.Decimal
	Metadata      map[string]any
	PaymentMode   *string
}

// EntryStore captures entry persistence operations. Range bounds are
// half-open [from, to) in UTC; nil means unbounded.
type EntryStore interface {
	Create(ctx context.Context, entry models.Entry) (models.Entry, error)
	Update(ctx context.Context, userID, entryID int64, upd EntryUpdate) (models.Entry, error)
	Delete(ctx context.Context, userID, entryID int64) error
	// ListByCategory returns the most recent entries for one category,
	// descending by date.
	ListByCategory(ctx context.Context, userID, categoryID int64, limit int) ([]models.Entry, error)
	// ListByCategoryRange returns a category's entries within the range,
	// ascending by date. Used by the milk ledger.
	ListByCategoryRange(ctx context.Context, userID, categoryID int64, from, to *time.Time) ([]models.Entry, error)
	// ListByParent returns entries whose category sits under the given
	// parent group, descending by date.
	ListByParent(ctx context.Context, userID int64, parent string, from, to *time.Time) ([]models.Entry, error)
	// ListByRange returns all of a user's entries within the range,
	// descending by date.
	ListByRange(ctx context.Context, userID int64, from, to *time.Time) ([]models.Entry, error)
}
