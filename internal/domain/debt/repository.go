package debt

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository defines the interface for debt data access.
// GetByID, Update, ToggleStatus and Delete return apperr.ErrNotFound for
// missing rows.
type Repository interface {
	Create(ctx context.Context, userID int64, in Input, status Status) (*Debt, error)
	GetByID(ctx context.Context, id int64) (*Debt, error)
	List(ctx context.Context, filter Filter) ([]*Debt, error)
	// Update leaves the stored status untouched when status is nil.
	Update(ctx context.Context, id int64, in Input, status *Status) (*Debt, error)
	// ToggleStatus flips paid and unpaid in a single statement.
	ToggleStatus(ctx context.Context, id int64) (*Debt, error)
	// SetStatus updates every listed row in one statement. A non-zero
	// ownerID restricts the update to that user's rows.
	SetStatus(ctx context.Context, ids []int64, ownerID int64, status Status) (int64, error)
	Delete(ctx context.Context, id int64) error
	DeleteByUserID(ctx context.Context, userID int64) (int64, error)
	// SumUnpaid sums the user's unpaid amounts. An empty Type sums both types.
	SumUnpaid(ctx context.Context, userID int64, t Type) (decimal.Decimal, error)
}

// StatusStore is the persistence side of the status repair utility.
type StatusStore interface {
	// NormalizeStatuses rewrites NULL and empty statuses to unpaid.
	NormalizeStatuses(ctx context.Context) (int64, error)
	// CountByStatus returns row counts keyed by stored status.
	CountByStatus(ctx context.Context) (map[Status]int64, error)
}
