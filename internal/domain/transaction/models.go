package transaction

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"ledger/internal/domain/calendar"
	"ledger/internal/domain/money"
	"ledger/internal/shared/apperr"
)

// Type is the direction of a transaction.
type Type string

const (
	Income  Type = "income"
	Expense Type = "expense"
)

func (t Type) Valid() bool {
	return t == Income || t == Expense
}

const maxCategoryLength = 255

// Transaction is a single income or expense entry owned by a user.
type Transaction struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"userId"`
	Type      Type            `json:"type"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Note      *string         `json:"note"`
	Date      calendar.Date   `json:"date"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (t *Transaction) OwnerID() int64 { return t.UserID }

// Signed returns the amount with the sign it contributes to the balance.
func (t *Transaction) Signed() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Input holds the mutable fields of a transaction. Create and update both
// overwrite every field.
type Input struct {
	Type     Type
	Category string
	Amount   decimal.Decimal
	Note     *string
	Date     calendar.Date
}

// Validate checks the business rules for a transaction.
func (p Input) Validate() error {
	verr := &apperr.ValidationError{}
	if p.Type == "" {
		verr.Add("type", "is required")
	} else if !p.Type.Valid() {
		verr.Add("type", "must be one of: income, expense")
	}
	if strings.TrimSpace(p.Category) == "" {
		verr.Add("category", "is required")
	} else if utf8.RuneCountInString(p.Category) > maxCategoryLength {
		verr.Add("category", "may not be greater than 255 characters")
	}
	money.Check(verr, "amount", p.Amount)
	if p.Date.IsZero() {
		verr.Add("date", "is required")
	}
	return verr.OrNil()
}

// normalized trims text fields and fixes the amount scale.
func (p Input) normalized() Input {
	p.Category = strings.TrimSpace(p.Category)
	if canonical, ok := LookupCategory(p.Category); ok {
		p.Category = canonical.Name
	}
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

// Filter narrows listings. A zero UserID lists every user's rows and is only
// reachable by staff.
type Filter struct {
	UserID int64
	Type   Type
	Limit  int
	Offset int
}

// Totals are the per-type sums of a user's transactions.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Balance is income minus expense.
func (t Totals) Balance() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}
