package transaction

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"ledger/internal/domain/ownership"
	"ledger/internal/shared/apperr"
)

var (
	meter             = otel.Meter("ledger/transaction")
	mutationsTotal, _ = meter.Int64Counter("ledger.mutations.total",
		metric.WithDescription("Record mutations by entity and operation"))
)

func recordMutation(ctx context.Context, op string) {
	mutationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", "transaction"),
		attribute.String("op", op),
	))
}

// Service contains the business logic for transaction operations.
type Service struct {
	repo Repository
}

// NewService creates a new transaction service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) lookup(ctx context.Context, id int64) (*Transaction, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns the caller's transactions, newest first.
func (s *Service) List(ctx context.Context, caller ownership.Caller) ([]*Transaction, error) {
	if !caller.Valid() {
		return nil, apperr.ErrUnauthorized
	}
	return s.repo.List(ctx, Filter{UserID: caller.UserID})
}

// ListAll lists transactions across users for staff callers.
func (s *Service) ListAll(ctx context.Context, caller ownership.Caller, filter Filter) ([]*Transaction, error) {
	if !caller.Valid() || !caller.Staff {
		return nil, apperr.ErrUnauthorized
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, apperr.NewValidationError("type", "must be one of: income, expense")
	}
	return s.repo.List(ctx, filter)
}

// Get returns a single transaction the caller may access.
func (s *Service) Get(ctx context.Context, caller ownership.Caller, id int64) (*Transaction, error) {
	return ownership.Resolve(ctx, caller, id, s.lookup)
}

// Create records a new transaction for the caller.
func (s *Service) Create(ctx context.Context, caller ownership.Caller, in Input) (*Transaction, error) {
	return s.CreateFor(ctx, caller, caller.UserID, in)
}

// CreateFor records a transaction owned by ownerID. Only staff may create
// rows for another user.
func (s *Service) CreateFor(ctx context.Context, caller ownership.Caller, ownerID int64, in Input) (*Transaction, error) {
	if !caller.Valid() {
		return nil, apperr.ErrUnauthorized
	}
	if ownerID <= 0 {
		return nil, apperr.NewValidationError("userId", "is required")
	}
	if ownerID != caller.UserID && !caller.Staff {
		return nil, apperr.ErrUnauthorized
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.repo.Create(ctx, ownerID, in.normalized())
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	recordMutation(ctx, "create")
	return tx, nil
}

// Update overwrites every mutable field of a transaction.
func (s *Service) Update(ctx context.Context, caller ownership.Caller, id int64, in Input) (*Transaction, error) {
	if _, err := ownership.Resolve(ctx, caller, id, s.lookup); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.repo.Update(ctx, id, in.normalized())
	if err != nil {
		return nil, fmt.Errorf("update transaction %d: %w", id, err)
	}
	recordMutation(ctx, "update")
	return tx, nil
}

// Delete removes a transaction the caller may access.
func (s *Service) Delete(ctx context.Context, caller ownership.Caller, id int64) error {
	if _, err := ownership.Resolve(ctx, caller, id, s.lookup); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	recordMutation(ctx, "delete")
	return nil
}

// DeleteAll removes every transaction of the caller and returns the count.
func (s *Service) DeleteAll(ctx context.Context, caller ownership.Caller) (int64, error) {
	if !caller.Valid() {
		return 0, apperr.ErrUnauthorized
	}
	n, err := s.repo.DeleteByUserID(ctx, caller.UserID)
	if err != nil {
		return 0, fmt.Errorf("delete transactions of user %d: %w", caller.UserID, err)
	}
	recordMutation(ctx, "delete_all")
	return n, nil
}

// Balance is the sum of the caller's income minus the sum of expenses.
// It is recomputed from the stored rows on every call.
func (s *Service) Balance(ctx context.Context, caller ownership.Caller) (decimal.Decimal, error) {
	return s.BalanceOf(ctx, caller, caller.UserID)
}

// BalanceOf computes the balance of userID. Staff may query any user.
func (s *Service) BalanceOf(ctx context.Context, caller ownership.Caller, userID int64) (decimal.Decimal, error) {
	if !caller.Valid() {
		return decimal.Zero, apperr.ErrUnauthorized
	}
	if userID != caller.UserID && !caller.Staff {
		return decimal.Zero, apperr.ErrUnauthorized
	}
	totals, err := s.repo.SumByType(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum transactions of user %d: %w", userID, err)
	}
	return totals.Balance(), nil
}
