package user

import (
	"context"
	"time"
)

// Repository defines the interface for user data access.
// Lookups return apperr.ErrNotFound for missing rows. Create and
// UpdateProfile return an apperr.ValidationError when email or phone is
// already taken.
type Repository interface {
	Create(ctx context.Context, params CreateUserParams) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByPhone(ctx context.Context, phone string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	UpdateProfile(ctx context.Context, id int64, params ProfileParams) (*User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetAdmin(ctx context.Context, id int64, isAdmin bool) error
	// EmailTaken and PhoneTaken ignore the row with excludeID.
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	PhoneTaken(ctx context.Context, phone string, excludeID int64) (bool, error)
}

// SessionStore persists the sessions behind issued tokens.
type SessionStore interface {
	Create(ctx context.Context, s Session) error
	// Active reports whether the session exists, belongs to userID and has
	// not expired.
	Active(ctx context.Context, id string, userID int64) (bool, error)
	Delete(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID int64) (int64, error)
}

// CodeStore keeps password reset codes keyed by phone.
type CodeStore interface {
	Save(ctx context.Context, phone, code string, ttl time.Duration) error
	// Get returns apperr.ErrNotFound when no unexpired code exists.
	Get(ctx context.Context, phone string) (string, error)
	Delete(ctx context.Context, phone string) error
}

// CodeSender delivers a reset code to the user.
type CodeSender interface {
	SendResetCode(ctx context.Context, phone, code string) error
}
