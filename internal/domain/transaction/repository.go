package transaction

import (
	"context"
)

// Repository defines the interface for transaction data access.
// GetByID, Update and Delete return apperr.ErrNotFound for missing rows.
type Repository interface {
	Create(ctx context.Context, userID int64, in Input) (*Transaction, error)
	GetByID(ctx context.Context, id int64) (*Transaction, error)
	List(ctx context.Context, filter Filter) ([]*Transaction, error)
	Update(ctx context.Context, id int64, in Input) (*Transaction, error)
	Delete(ctx context.Context, id int64) error
	// DeleteByUserID removes every transaction of the user in one statement.
	DeleteByUserID(ctx context.Context, userID int64) (int64, error)
	// SumByType sums amounts per type over all of the user's transactions.
	SumByType(ctx context.Context, userID int64) (Totals, error)
}
