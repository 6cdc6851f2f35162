package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ledger/internal/shared/apperr"
)

// ResetCodeRepository stores password reset codes when Redis is not
// configured.
type ResetCodeRepository struct {
	db *DB
}

func NewResetCodeRepository(db *DB) *ResetCodeRepository {
	return &ResetCodeRepository{db: db}
}

func (r *ResetCodeRepository) Save(ctx context.Context, phone, code string, ttl time.Duration) error {
	query := `
		INSERT INTO password_reset_codes (phone, code, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (phone) DO UPDATE SET code = EXCLUDED.code, expires_at = EXCLUDED.expires_at
	`
	if _, err := r.db.ExecContext(ctx, query, phone, code, time.Now().Add(ttl)); err != nil {
		return fmt.Errorf("failed to save reset code: %w", err)
	}
	return nil
}

func (r *ResetCodeRepository) Get(ctx context.Context, phone string) (string, error) {
	var code string
	err := r.db.QueryRowContext(ctx,
		`SELECT code FROM password_reset_codes WHERE phone = $1 AND expires_at > NOW()`, phone,
	).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperr.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get reset code: %w", err)
	}
	return code, nil
}

func (r *ResetCodeRepository) Delete(ctx context.Context, phone string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM password_reset_codes WHERE phone = $1`, phone); err != nil {
		return fmt.Errorf("failed to delete reset code: %w", err)
	}
	return nil
}

// DeleteExpired removes codes whose validity window has passed.
func (r *ResetCodeRepository) DeleteExpired(ctx context.Context) (int64, error) {
	n, err := r.db.execCount(ctx, `DELETE FROM password_reset_codes WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired reset codes: %w", err)
	}
	return n, nil
}
