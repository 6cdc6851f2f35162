package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ledger/internal/domain/user"
	"ledger/internal/shared/apperr"
)

const userColumns = `id, name, email, phone, password_hash, is_admin, created_at, updated_at`

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row scanner) (*user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// uniqueFieldError turns a unique_violation on users into a field error.
func uniqueFieldError(err error) error {
	constraint, ok := uniqueConstraint(err)
	if !ok {
		return err
	}
	switch constraint {
	case "users_email_key":
		return apperr.NewValidationError("email", "has already been taken")
	case "users_phone_key":
		return apperr.NewValidationError("phone", "has already been taken")
	}
	return err
}

func (r *UserRepository) getBy(ctx context.Context, column string, value any) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, value))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, params user.CreateUserParams) (*user.User, error) {
	query := `
		INSERT INTO users (name, email, phone, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query, params.Name, params.Email, params.Phone, params.PasswordHash))
	if err != nil {
		if ferr := uniqueFieldError(err); ferr != err {
			return nil, ferr
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*user.User, error) {
	return r.getBy(ctx, "phone", phone)
}

func (r *UserRepository) List(ctx context.Context) ([]*user.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, params user.ProfileParams) (*user.User, error) {
	query := `
		UPDATE users
		SET name = $2, email = $3, phone = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id, params.Name, params.Email, params.Phone))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		if ferr := uniqueFieldError(err); ferr != err {
			return nil, ferr
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	n, err := r.db.execCount(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	n, err := r.db.execCount(ctx,
		`UPDATE users SET is_admin = $2, updated_at = NOW() WHERE id = $1`, id, isAdmin)
	if err != nil {
		return fmt.Errorf("failed to set admin flag: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *UserRepository) exists(ctx context.Context, column, value string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE ` + column + ` = $1 AND id <> $2)`
	var taken bool
	if err := r.db.QueryRowContext(ctx, query, value, excludeID).Scan(&taken); err != nil {
		return false, fmt.Errorf("failed to check %s: %w", column, err)
	}
	return taken, nil
}

func (r *UserRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.exists(ctx, "email", email, excludeID)
}

func (r *UserRepository) PhoneTaken(ctx context.Context, phone string, excludeID int64) (bool, error) {
	return r.exists(ctx, "phone", phone, excludeID)
}
