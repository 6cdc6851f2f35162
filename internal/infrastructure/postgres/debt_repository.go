package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"ledger/internal/domain/debt"
	"ledger/internal/shared/apperr"
)

const debtColumns = `id, user_id, name, amount, type, status, note, due_date, created_at, updated_at`

type DebtRepository struct {
	db *DB
}

func NewDebtRepository(db *DB) *DebtRepository {
	return &DebtRepository{db: db}
}

func scanDebt(row scanner) (*debt.Debt, error) {
	var (
		d      debt.Debt
		status sql.NullString
	)
	err := row.Scan(
		&d.ID, &d.UserID, &d.Name, &d.Amount, &d.Type, &status,
		&d.Note, &d.DueDate, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.Status = debt.NormalizeStatus(status.String)
	return &d, nil
}

func (r *DebtRepository) queryOne(ctx context.Context, op, query string, args ...any) (*debt.Debt, error) {
	d, err := scanDebt(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to %s debt: %w", op, err)
	}
	return d, nil
}

func (r *DebtRepository) Create(ctx context.Context, userID int64, in debt.Input, status debt.Status) (*debt.Debt, error) {
	query := `
		INSERT INTO debts (user_id, name, amount, type, status, note, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + debtColumns

	return r.queryOne(ctx, "create", query,
		userID, in.Name, in.Amount, in.Type, status, in.Note, in.DueDate)
}

func (r *DebtRepository) GetByID(ctx context.Context, id int64) (*debt.Debt, error) {
	return r.queryOne(ctx, "get", `SELECT `+debtColumns+` FROM debts WHERE id = $1`, id)
}

func (r *DebtRepository) List(ctx context.Context, filter debt.Filter) ([]*debt.Debt, error) {
	var (
		where []string
		args  []any
	)
	if filter.UserID != 0 {
		args = append(args, filter.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	switch filter.Status {
	case debt.StatusPaid:
		where = append(where, "status = 'paid'")
	case debt.StatusUnpaid:
		where = append(where, "COALESCE(status, '') IN ('unpaid', '')")
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}

	query := `SELECT ` + debtColumns + ` FROM debts`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`
	query += limitClause(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	defer rows.Close()

	debts := make([]*debt.Debt, 0)
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		debts = append(debts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating debts: %w", err)
	}
	return debts, nil
}

func (r *DebtRepository) Update(ctx context.Context, id int64, in debt.Input, status *debt.Status) (*debt.Debt, error) {
	query := `
		UPDATE debts
		SET name = $2, amount = $3, type = $4, status = COALESCE($5::text, status),
			note = $6, due_date = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + debtColumns

	return r.queryOne(ctx, "update", query,
		id, in.Name, in.Amount, in.Type, status, in.Note, in.DueDate)
}

func (r *DebtRepository) ToggleStatus(ctx context.Context, id int64) (*debt.Debt, error) {
	query := `
		UPDATE debts
		SET status = CASE WHEN status = 'paid' THEN 'unpaid' ELSE 'paid' END, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + debtColumns

	return r.queryOne(ctx, "toggle", query, id)
}

func (r *DebtRepository) SetStatus(ctx context.Context, ids []int64, ownerID int64, status debt.Status) (int64, error) {
	query := `
		UPDATE debts
		SET status = $1, updated_at = NOW()
		WHERE id = ANY($2) AND ($3::bigint = 0 OR user_id = $3::bigint)
	`

	n, err := r.db.execCount(ctx, query, status, pq.Array(ids), ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to set debt status: %w", err)
	}
	return n, nil
}

func (r *DebtRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.db.execCount(ctx, `DELETE FROM debts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete debt: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *DebtRepository) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	n, err := r.db.execCount(ctx, `DELETE FROM debts WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete debts: %w", err)
	}
	return n, nil
}

// SumUnpaid only counts rows whose stored status is 'unpaid'. Legacy
// NULL rows join the totals once the status repair has run.
func (r *DebtRepository) SumUnpaid(ctx context.Context, userID int64, t debt.Type) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM debts
		WHERE user_id = $1 AND status = 'unpaid' AND ($2::text = '' OR type = $2::text)
	`

	var total decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, userID, string(t)).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum debts: %w", err)
	}
	return total, nil
}

func (r *DebtRepository) NormalizeStatuses(ctx context.Context) (int64, error) {
	n, err := r.db.execCount(ctx,
		`UPDATE debts SET status = 'unpaid' WHERE status IS NULL OR status = ''`)
	if err != nil {
		return 0, fmt.Errorf("failed to normalize debt statuses: %w", err)
	}
	return n, nil
}

func (r *DebtRepository) CountByStatus(ctx context.Context) (map[debt.Status]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT COALESCE(status, ''), COUNT(*) FROM debts GROUP BY 1`)
	if err != nil {
		return nil, fmt.Errorf("failed to count debts: %w", err)
	}
	defer rows.Close()

	counts := make(map[debt.Status]int64)
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan debt count: %w", err)
		}
		counts[debt.Status(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating debt counts: %w", err)
	}
	return counts, nil
}
