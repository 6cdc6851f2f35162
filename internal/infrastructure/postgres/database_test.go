package postgres

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/lib/pq"
)

func TestSanitizeQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "placeholders kept",
			query: "SELECT id FROM debts WHERE user_id = $1 AND id = ANY($12)",
			want:  "SELECT id FROM debts WHERE user_id = $1 AND id = ANY($12)",
		},
		{
			name:  "string literals replaced",
			query: "UPDATE debts SET status = 'unpaid' WHERE status = ''",
			want:  "UPDATE debts SET status = '?' WHERE status = '?'",
		},
		{
			name:  "escaped quotes",
			query: "SELECT 'it''s' FROM x",
			want:  "SELECT '?' FROM x",
		},
		{
			name:  "numbers replaced",
			query: "SELECT * FROM t LIMIT 50 OFFSET 10.5",
			want:  "SELECT * FROM t LIMIT ? OFFSET ?",
		},
		{
			name:  "identifiers with digits untouched",
			query: "SELECT col1 FROM t2",
			want:  "SELECT col1 FROM t2",
		},
		{
			name:  "whitespace collapsed",
			query: "\n\t\tSELECT id\n\t\tFROM users\n",
			want:  "SELECT id FROM users",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeQuery(tt.query); got != tt.want {
				t.Errorf("sanitizeQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizeQuery_Truncates(t *testing.T) {
	got := sanitizeQuery("SELECT " + strings.Repeat("a, ", 200) + "b FROM t")
	if len(got) != 259 || !strings.HasSuffix(got, "...") {
		t.Errorf("expected truncated query, got len %d", len(got))
	}
}

func TestExtractSQLVerb(t *testing.T) {
	tests := map[string]string{
		"select 1":                   "SELECT",
		"\n  INSERT INTO users":      "INSERT",
		"update debts set x = 1":     "UPDATE",
		"":                           "",
		"\tDELETE\nFROM transactions": "DELETE",
	}
	for in, want := range tests {
		if got := extractSQLVerb(in); got != want {
			t.Errorf("extractSQLVerb(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUniqueConstraint(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: "users_email_key"})
	name, ok := uniqueConstraint(err)
	if !ok || name != "users_email_key" {
		t.Errorf("uniqueConstraint() = %q, %v", name, ok)
	}

	if _, ok := uniqueConstraint(&pq.Error{Code: "23503"}); ok {
		t.Error("foreign key violation reported as unique")
	}
	if _, ok := uniqueConstraint(errors.New("plain")); ok {
		t.Error("plain error reported as unique")
	}
}
