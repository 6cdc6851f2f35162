package debt

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"ledger/internal/domain/calendar"
	"ledger/internal/domain/money"
	"ledger/internal/shared/apperr"
)

// Type tells whether the user owes the counterparty (debt) or the
// counterparty owes the user (credit).
type Type string

const (
	TypeDebt   Type = "debt"
	TypeCredit Type = "credit"
)

func (t Type) Valid() bool {
	return t == TypeDebt || t == TypeCredit
}

// Status is the settlement state of a debt.
type Status string

const (
	StatusPaid   Status = "paid"
	StatusUnpaid Status = "unpaid"
)

func (s Status) Valid() bool {
	return s == StatusPaid || s == StatusUnpaid
}

// Toggled flips paid and unpaid.
func (s Status) Toggled() Status {
	if s == StatusPaid {
		return StatusUnpaid
	}
	return StatusPaid
}

// NormalizeStatus maps a stored value to a Status. Legacy rows hold NULL or
// an empty string, which read back as unpaid.
func NormalizeStatus(stored string) Status {
	if Status(stored) == StatusPaid {
		return StatusPaid
	}
	return StatusUnpaid
}

const maxNameLength = 255

// Debt is a payable or receivable owned by a user.
type Debt struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"userId"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Type      Type            `json:"type"`
	Status    Status          `json:"status"`
	Note      *string         `json:"note"`
	DueDate   calendar.Date   `json:"dueDate"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (d *Debt) OwnerID() int64 { return d.UserID }

// Input holds the mutable fields shared by create and update.
type Input struct {
	Name    string
	Amount  decimal.Decimal
	Type    Type
	Note    *string
	DueDate calendar.Date
}

// Validate checks the business rules for a debt.
func (p Input) Validate() error {
	return p.validate(&apperr.ValidationError{}).OrNil()
}

func (p Input) validate(verr *apperr.ValidationError) *apperr.ValidationError {
	if strings.TrimSpace(p.Name) == "" {
		verr.Add("name", "is required")
	} else if utf8.RuneCountInString(p.Name) > maxNameLength {
		verr.Add("name", "may not be greater than 255 characters")
	}
	money.Check(verr, "amount", p.Amount)
	if p.Type == "" {
		verr.Add("type", "is required")
	} else if !p.Type.Valid() {
		verr.Add("type", "must be one of: debt, credit")
	}
	return verr
}

func (p Input) normalized() Input {
	p.Name = strings.TrimSpace(p.Name)
	p.Amount = money.Normalize(p.Amount)
	if p.Note != nil {
		note := strings.TrimSpace(*p.Note)
		if note == "" {
			p.Note = nil
		} else {
			p.Note = &note
		}
	}
	return p
}

// OptionalStatus distinguishes an absent status field from an explicit
// null. Present is set by UnmarshalJSON only when the key appears in the
// payload.
type OptionalStatus struct {
	Present bool
	Value   *Status
}

// Set returns a present status with the given value.
func Set(s Status) OptionalStatus {
	return OptionalStatus{Present: true, Value: &s}
}

func (o *OptionalStatus) UnmarshalJSON(b []byte) error {
	o.Present = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	st := Status(s)
	o.Value = &st
	return nil
}

// UpdateInput is a full overwrite of Input plus an optional status. An
// absent status keeps the stored one.
type UpdateInput struct {
	Input
	Status OptionalStatus
}

func (p UpdateInput) Validate() error {
	verr := p.Input.validate(&apperr.ValidationError{})
	if p.Status.Present {
		switch {
		case p.Status.Value == nil:
			verr.Add("status", "may not be null")
		case !p.Status.Value.Valid():
			verr.Add("status", "must be one of: paid, unpaid")
		}
	}
	return verr.OrNil()
}

// Filter narrows listings. A zero UserID lists every user's rows and is only
// reachable by staff.
type Filter struct {
	UserID int64
	Status Status
	Type   Type
	Limit  int
	Offset int
}

// Summary groups the outstanding totals of a user.
type Summary struct {
	Debt        decimal.Decimal `json:"totalDebt"`
	Credit      decimal.Decimal `json:"totalCredit"`
	Outstanding decimal.Decimal `json:"outstanding"`
}
