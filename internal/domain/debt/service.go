package debt

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"ledger/internal/domain/ownership"
	"ledger/internal/shared/apperr"
)

var (
	meter             = otel.Meter("ledger/debt")
	mutationsTotal, _ = meter.Int64Counter("ledger.mutations.total",
		metric.WithDescription("Record mutations by entity and operation"))
)

func recordMutation(ctx context.Context, op string) {
	mutationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", "debt"),
		attribute.String("op", op),
	))
}

// Service contains the business logic for debts and their aggregates.
type Service struct {
	repo Repository
}

// NewService creates a new debt service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) lookup(ctx context.Context, id int64) (*Debt, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns the caller's debts, newest first.
func (s *Service) List(ctx context.Context, caller ownership.Caller) ([]*Debt, error) {
	if !caller.Valid() {
		return nil, apperr.ErrUnauthorized
	}
	return s.repo.List(ctx, Filter{UserID: caller.UserID})
}

// ListAll lists debts across users for staff callers.
func (s *Service) ListAll(ctx context.Context, caller ownership.Caller, filter Filter) ([]*Debt, error) {
	if !caller.Valid() || !caller.Staff {
		return nil, apperr.ErrUnauthorized
	}
	verr := &apperr.ValidationError{}
	if filter.Status != "" && !filter.Status.Valid() {
		verr.Add("status", "must be one of: paid, unpaid")
	}
	if filter.Type != "" && !filter.Type.Valid() {
		verr.Add("type", "must be one of: debt, credit")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, filter)
}

// Get returns a single debt the caller may access.
func (s *Service) Get(ctx context.Context, caller ownership.Caller, id int64) (*Debt, error) {
	return ownership.Resolve(ctx, caller, id, s.lookup)
}

// Create records a new debt for the caller. New debts always start unpaid.
func (s *Service) Create(ctx context.Context, caller ownership.Caller, in Input) (*Debt, error) {
	return s.CreateFor(ctx, caller, caller.UserID, in, StatusUnpaid)
}

// CreateFor records a debt owned by ownerID. Only staff may create rows for
// another user or choose the initial status; everyone else gets unpaid.
func (s *Service) CreateFor(ctx context.Context, caller ownership.Caller, ownerID int64, in Input, status Status) (*Debt, error) {
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
	if !caller.Staff || status == "" {
		status = StatusUnpaid
	}
	if !status.Valid() {
		return nil, apperr.NewValidationError("status", "must be one of: paid, unpaid")
	}

	d, err := s.repo.Create(ctx, ownerID, in.normalized(), status)
	if err != nil {
		return nil, fmt.Errorf("create debt: %w", err)
	}
	recordMutation(ctx, "create")
	return d, nil
}

// Update overwrites the mutable fields of a debt. The stored status is kept
// unless the input carries one.
func (s *Service) Update(ctx context.Context, caller ownership.Caller, id int64, in UpdateInput) (*Debt, error) {
	if _, err := ownership.Resolve(ctx, caller, id, s.lookup); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	d, err := s.repo.Update(ctx, id, in.Input.normalized(), in.Status.Value)
	if err != nil {
		return nil, fmt.Errorf("update debt %d: %w", id, err)
	}
	recordMutation(ctx, "update")
	return d, nil
}

// ToggleStatus flips a debt between paid and unpaid.
func (s *Service) ToggleStatus(ctx context.Context, caller ownership.Caller, id int64) (*Debt, error) {
	if _, err := ownership.Resolve(ctx, caller, id, s.lookup); err != nil {
		return nil, err
	}
	d, err := s.repo.ToggleStatus(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("toggle debt %d: %w", id, err)
	}
	recordMutation(ctx, "toggle_status")
	return d, nil
}

// BulkSetStatus sets status on every listed debt and returns the number of
// rows changed. Regular callers only reach their own rows; ids owned by
// someone else are skipped.
func (s *Service) BulkSetStatus(ctx context.Context, caller ownership.Caller, ids []int64, status Status) (int64, error) {
	if !caller.Valid() {
		return 0, apperr.ErrUnauthorized
	}

	verr := &apperr.ValidationError{}
	if len(ids) == 0 {
		verr.Add("ids", "must contain at least 1 item")
	}
	for _, id := range ids {
		if id <= 0 {
			verr.Add("ids", "must contain only positive ids")
			break
		}
	}
	if !status.Valid() {
		verr.Add("status", "must be one of: paid, unpaid")
	}
	if err := verr.OrNil(); err != nil {
		return 0, err
	}

	ownerID := caller.UserID
	if caller.Staff {
		ownerID = 0
	}

	n, err := s.repo.SetStatus(ctx, uniqueIDs(ids), ownerID, status)
	if err != nil {
		return 0, fmt.Errorf("set status on %d debts: %w", len(ids), err)
	}
	recordMutation(ctx, "bulk_status")
	return n, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Delete removes a debt the caller may access.
func (s *Service) Delete(ctx context.Context, caller ownership.Caller, id int64) error {
	if _, err := ownership.Resolve(ctx, caller, id, s.lookup); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete debt %d: %w", id, err)
	}
	recordMutation(ctx, "delete")
	return nil
}

// DeleteAll removes every debt of the caller and returns the count.
func (s *Service) DeleteAll(ctx context.Context, caller ownership.Caller) (int64, error) {
	if !caller.Valid() {
		return 0, apperr.ErrUnauthorized
	}
	n, err := s.repo.DeleteByUserID(ctx, caller.UserID)
	if err != nil {
		return 0, fmt.Errorf("delete debts of user %d: %w", caller.UserID, err)
	}
	recordMutation(ctx, "delete_all")
	return n, nil
}

// TotalDebt sums what the caller still owes.
func (s *Service) TotalDebt(ctx context.Context, caller ownership.Caller) (decimal.Decimal, error) {
	return s.sumUnpaid(ctx, caller, caller.UserID, TypeDebt)
}

// TotalCredit sums what is still owed to the caller.
func (s *Service) TotalCredit(ctx context.Context, caller ownership.Caller) (decimal.Decimal, error) {
	return s.sumUnpaid(ctx, caller, caller.UserID, TypeCredit)
}

// Outstanding sums every unpaid debt of the caller regardless of type.
func (s *Service) Outstanding(ctx context.Context, caller ownership.Caller) (decimal.Decimal, error) {
	return s.sumUnpaid(ctx, caller, caller.UserID, "")
}

// SummaryOf computes all outstanding totals of userID. Staff may query any
// user.
func (s *Service) SummaryOf(ctx context.Context, caller ownership.Caller, userID int64) (Summary, error) {
	var (
		sum Summary
		err error
	)
	if sum.Debt, err = s.sumUnpaid(ctx, caller, userID, TypeDebt); err != nil {
		return Summary{}, err
	}
	if sum.Credit, err = s.sumUnpaid(ctx, caller, userID, TypeCredit); err != nil {
		return Summary{}, err
	}
	if sum.Outstanding, err = s.sumUnpaid(ctx, caller, userID, ""); err != nil {
		return Summary{}, err
	}
	return sum, nil
}

func (s *Service) sumUnpaid(ctx context.Context, caller ownership.Caller, userID int64, t Type) (decimal.Decimal, error) {
	if !caller.Valid() {
		return decimal.Zero, apperr.ErrUnauthorized
	}
	if userID != caller.UserID && !caller.Staff {
		return decimal.Zero, apperr.ErrUnauthorized
	}
	total, err := s.repo.SumUnpaid(ctx, userID, t)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum unpaid debts of user %d: %w", userID, err)
	}
	return total, nil
}
