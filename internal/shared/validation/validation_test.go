package validation

import (
	"errors"
	"strings"
	"testing"

	"ledger/internal/shared/apperr"
)

type signupInput struct {
	Name                 string  `json:"name" validate:"required,max=10"`
	Email                string  `json:"email" validate:"required,email"`
	Kind                 string  `json:"kind" validate:"required,oneof=income expense"`
	Password             string  `json:"password" validate:"required,min=6"`
	PasswordConfirmation string  `json:"password_confirmation" validate:"required,eqfield=Password"`
	IDs                  []int64 `json:"ids" validate:"omitempty,min=1,dive,gt=0"`
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantFields []string
	}{
		{
			name: "Valid",
			body: `{"name":"Ana","email":"ana@example.com","kind":"income","password":"secret1","password_confirmation":"secret1"}`,
		},
		{
			name:       "Empty Body",
			body:       ``,
			wantFields: []string{"body"},
		},
		{
			name:       "Malformed JSON",
			body:       `{"name":`,
			wantFields: []string{"body"},
		},
		{
			name:       "Unknown Field",
			body:       `{"name":"Ana","admin":true}`,
			wantFields: []string{"admin"},
		},
		{
			name:       "Wrong Type",
			body:       `{"name":42}`,
			wantFields: []string{"name"},
		},
		{
			name:       "Trailing Data",
			body:       `{"name":"Ana","email":"ana@example.com","kind":"income","password":"secret1","password_confirmation":"secret1"} {}`,
			wantFields: []string{"body"},
		},
		{
			name:       "Rule Failures",
			body:       `{"name":"A very long name","email":"nope","kind":"gift","password":"123","password_confirmation":"321"}`,
			wantFields: []string{"name", "email", "kind", "password", "password_confirmation"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in signupInput
			err := Decode(strings.NewReader(tt.body), &in)

			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Decode() unexpected error: %v", err)
				}
				return
			}

			var verr *apperr.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Decode() error = %v, want ValidationError", err)
			}
			for _, f := range tt.wantFields {
				if _, ok := verr.Fields[f]; !ok {
					t.Errorf("expected message for field %q, got %v", f, verr.Fields)
				}
			}
		})
	}
}

func TestStruct_OneOfMessage(t *testing.T) {
	err := Struct(&signupInput{Name: "Ana", Email: "a@b.co", Kind: "x", Password: "secret1", PasswordConfirmation: "secret1"})

	var verr *apperr.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Struct() error = %v, want ValidationError", err)
	}
	if got := verr.Fields["kind"][0]; got != "must be one of income, expense" {
		t.Errorf("kind message = %q", got)
	}
}
