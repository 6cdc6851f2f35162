package ownership

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"ledger/internal/shared/apperr"
)

type record struct {
	id    int64
	owner int64
}

func (r *record) OwnerID() int64 { return r.owner }

func lookupFrom(records ...*record) Lookup[*record] {
	return func(ctx context.Context, id int64) (*record, error) {
		for _, r := range records {
			if r.id == id {
				return r, nil
			}
		}
		return nil, fmt.Errorf("get record %d: %w", id, apperr.ErrNotFound)
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	lookup := lookupFrom(&record{id: 1, owner: 10}, &record{id: 2, owner: 20})

	tests := []struct {
		name    string
		caller  Caller
		id      int64
		wantErr error
	}{
		{name: "Owner", caller: User(10), id: 1},
		{name: "Other User", caller: User(10), id: 2, wantErr: apperr.ErrUnauthorized},
		{name: "Missing Record", caller: User(10), id: 99, wantErr: apperr.ErrNotFound},
		{name: "Non Positive ID", caller: User(10), id: 0, wantErr: apperr.ErrNotFound},
		{name: "Anonymous Caller", caller: Caller{}, id: 1, wantErr: apperr.ErrUnauthorized},
		{name: "Staff Reads Any", caller: Staff(99), id: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Resolve(ctx, tt.caller, tt.id, lookup)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				if rec != nil {
					t.Error("Resolve() returned a record alongside an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() unexpected error: %v", err)
			}
			if rec.id != tt.id {
				t.Errorf("Resolve() id = %d, want %d", rec.id, tt.id)
			}
		})
	}
}

func TestResolve_PropagatesStoreErrors(t *testing.T) {
	boom := errors.New("connection reset")
	lookup := func(ctx context.Context, id int64) (*record, error) { return nil, boom }

	_, err := Resolve(context.Background(), User(1), 1, lookup)
	if !errors.Is(err, boom) {
		t.Errorf("Resolve() error = %v, want %v", err, boom)
	}
}
