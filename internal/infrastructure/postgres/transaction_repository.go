package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"ledger/internal/domain/transaction"
	"ledger/internal/shared/apperr"
)

const transactionColumns = `id, user_id, type, category, amount, note, date, created_at, updated_at`

type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (*transaction.Transaction, error) {
	var t transaction.Transaction
	err := row.Scan(
		&t.ID, &t.UserID, &t.Type, &t.Category, &t.Amount,
		&t.Note, &t.Date, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) Create(ctx context.Context, userID int64, in transaction.Input) (*transaction.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, type, category, amount, note, date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + transactionColumns

	t, err := scanTransaction(r.db.QueryRowContext(ctx, query,
		userID, in.Type, in.Category, in.Amount, in.Note, in.Date,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return t, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*transaction.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

func (r *TransactionRepository) List(ctx context.Context, filter transaction.Filter) ([]*transaction.Transaction, error) {
	var (
		where []string
		args  []any
	)
	if filter.UserID != 0 {
		args = append(args, filter.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY date DESC, id DESC`
	query += limitClause(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]*transaction.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return transactions, nil
}

// limitClause appends LIMIT/OFFSET placeholders when a limit is set.
func limitClause(args *[]any, limit, offset int) string {
	if limit <= 0 {
		return ""
	}
	*args = append(*args, limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(*args)-1, len(*args))
}

func (r *TransactionRepository) Update(ctx context.Context, id int64, in transaction.Input) (*transaction.Transaction, error) {
	query := `
		UPDATE transactions
		SET type = $2, category = $3, amount = $4, note = $5, date = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + transactionColumns

	t, err := scanTransaction(r.db.QueryRowContext(ctx, query,
		id, in.Type, in.Category, in.Amount, in.Note, in.Date,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	return t, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id int64) error {
	n, err := r.db.execCount(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *TransactionRepository) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	n, err := r.db.execCount(ctx, `DELETE FROM transactions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete transactions: %w", err)
	}
	return n, nil
}

func (r *TransactionRepository) SumByType(ctx context.Context, userID int64) (transaction.Totals, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE user_id = $1
	`

	var totals transaction.Totals
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&totals.Income, &totals.Expense); err != nil {
		return transaction.Totals{}, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return totals, nil
}
