// Package ownership scopes record access to the user that owns the record.
package ownership

import (
	"context"
	"errors"

	"ledger/internal/shared/apperr"
)

// Caller is the authenticated identity a service call runs on behalf of.
// Staff callers come from the admin API and may act on any user's records.
type Caller struct {
	UserID int64
	Staff  bool
}

// User returns a regular, non-staff caller.
func User(userID int64) Caller {
	return Caller{UserID: userID}
}

// Staff returns a caller acting through the admin API.
func Staff(userID int64) Caller {
	return Caller{UserID: userID, Staff: true}
}

// Valid reports whether the caller carries a usable identity.
func (c Caller) Valid() bool {
	return c.UserID > 0
}

// Owned is implemented by every user-scoped record.
type Owned interface {
	OwnerID() int64
}

// Lookup loads a record by id. It must return apperr.ErrNotFound (possibly
// wrapped) when the record does not exist.
type Lookup[T Owned] func(ctx context.Context, id int64) (T, error)

// Check fails with apperr.ErrUnauthorized unless caller may access rec.
func Check(caller Caller, rec Owned) error {
	if !caller.Valid() {
		return apperr.ErrUnauthorized
	}
	if caller.Staff {
		return nil
	}
	if rec.OwnerID() != caller.UserID {
		return apperr.ErrUnauthorized
	}
	return nil
}

// Resolve loads the record with the given id and returns it only if caller
// may access it.
func Resolve[T Owned](ctx context.Context, caller Caller, id int64, lookup Lookup[T]) (T, error) {
	var zero T

	if !caller.Valid() {
		return zero, apperr.ErrUnauthorized
	}
	if id <= 0 {
		return zero, apperr.ErrNotFound
	}

	rec, err := lookup(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return zero, apperr.ErrNotFound
		}
		return zero, err
	}

	if err := Check(caller, rec); err != nil {
		return zero, err
	}
	return rec, nil
}
