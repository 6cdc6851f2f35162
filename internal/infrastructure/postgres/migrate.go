package postgres

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schema string

// Migrate applies the schema. Every statement is idempotent, so it is safe
// to run on each deploy.
func (db *DB) Migrate(ctx context.Context) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.Rollback()

	ctx, span := startSpan(ctx, "db.Migrate", "CREATE schema")
	defer span.End()

	if _, err := tx.ExecContext(ctx, schema); err != nil {
		recordSpanError(span, err)
		return fmt.Errorf("apply schema: %w", err)
	}
	return tx.Commit()
}
