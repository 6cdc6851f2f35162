package money

import (
	"testing"

	"github.com/shopspring/decimal"

	"ledger/internal/shared/apperr"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"0", false},
		{"0.01", false},
		{"1500.50", false},
		{"9999999999999.99", false},
		{"10000000000000", true},
		{"-0.01", true},
		{"10.005", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			verr := &apperr.ValidationError{}
			Check(verr, "amount", decimal.RequireFromString(tt.in))
			if got := !verr.Empty(); got != tt.wantErr {
				t.Errorf("Check(%s) error = %v, want %v (%v)", tt.in, got, tt.wantErr, verr.Fields)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize(decimal.RequireFromString("12.5"))
	if got.StringFixed(2) != "12.50" {
		t.Errorf("Normalize = %s, want 12.50", got.StringFixed(2))
	}
}
