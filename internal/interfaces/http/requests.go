package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"ledger/internal/domain/calendar"
	"ledger/internal/domain/debt"
	"ledger/internal/domain/transaction"
	"ledger/internal/shared/apperr"
	"ledger/internal/shared/validation"
)

const maxRequestBodySize = 64 << 10

// decode caps the request body before decoding it into dst.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	return validation.Decode(r.Body, dst)
}

type transactionRequest struct {
	Type     string      `json:"type" validate:"required,oneof=income expense"`
	Category string      `json:"category" validate:"required,max=255"`
	Amount   json.Number `json:"amount" validate:"required"`
	Note     *string     `json:"note"`
	Date     string      `json:"date" validate:"required"`
}

func (req transactionRequest) input() (transaction.Input, error) {
	verr := &apperr.ValidationError{}
	amount := parseAmount(verr, req.Amount)
	date, err := calendar.Parse(req.Date)
	if err != nil {
		verr.Add("date", "must be a valid date (YYYY-MM-DD)")
	}
	if err := verr.OrNil(); err != nil {
		return transaction.Input{}, err
	}
	return transaction.Input{
		Type:     transaction.Type(req.Type),
		Category: req.Category,
		Amount:   amount,
		Note:     req.Note,
		Date:     date,
	}, nil
}

type adminTransactionRequest struct {
	UserID int64 `json:"userId" validate:"required,gt=0"`
	transactionRequest
}

type debtRequest struct {
	Name    string      `json:"name" validate:"required,max=255"`
	Amount  json.Number `json:"amount" validate:"required"`
	Type    string      `json:"type" validate:"required,oneof=debt credit"`
	Note    *string     `json:"note"`
	DueDate *string     `json:"dueDate"`
}

func (req debtRequest) input() (debt.Input, error) {
	verr := &apperr.ValidationError{}
	amount := parseAmount(verr, req.Amount)
	var due calendar.Date
	if req.DueDate != nil && strings.TrimSpace(*req.DueDate) != "" {
		d, err := calendar.Parse(*req.DueDate)
		if err != nil {
			verr.Add("dueDate", "must be a valid date (YYYY-MM-DD)")
		}
		due = d
	}
	if err := verr.OrNil(); err != nil {
		return debt.Input{}, err
	}
	return debt.Input{
		Name:    req.Name,
		Amount:  amount,
		Type:    debt.Type(req.Type),
		Note:    req.Note,
		DueDate: due,
	}, nil
}

// createDebtRequest tolerates a status field and ignores it: new debts
// always start unpaid.
type createDebtRequest struct {
	debtRequest
	Status *string `json:"status"`
}

type updateDebtRequest struct {
	debtRequest
	Status debt.OptionalStatus `json:"status"`
}

func (req updateDebtRequest) input() (debt.UpdateInput, error) {
	in, err := req.debtRequest.input()
	if err != nil {
		return debt.UpdateInput{}, err
	}
	return debt.UpdateInput{Input: in, Status: req.Status}, nil
}

// adminDebtRequest lets staff pick the initial status. Without one the debt
// starts unpaid.
type adminDebtRequest struct {
	UserID int64 `json:"userId" validate:"required,gt=0"`
	debtRequest
	Status *string `json:"status" validate:"omitempty,oneof=paid unpaid"`
}

func (req adminDebtRequest) status() debt.Status {
	if req.Status == nil {
		return ""
	}
	return debt.Status(*req.Status)
}

// adminUpdateDebtRequest requires the status, as the admin edit form
// always submits it.
type adminUpdateDebtRequest struct {
	debtRequest
	Status string `json:"status" validate:"required,oneof=paid unpaid"`
}

type bulkStatusRequest struct {
	IDs    []int64 `json:"ids" validate:"required,min=1,max=1000,dive,gt=0"`
	Status string  `json:"status" validate:"required,oneof=paid unpaid"`
}

type registerRequest struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Phone                string `json:"phone" validate:"required,max=20"`
	Password             string `json:"password" validate:"required,min=6"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type profileRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email,max=255"`
	Phone string `json:"phone" validate:"required,max=20"`
}

type changePasswordRequest struct {
	CurrentPassword         string `json:"current_password" validate:"required"`
	NewPassword             string `json:"new_password" validate:"required,min=6"`
	NewPasswordConfirmation string `json:"new_password_confirmation" validate:"required,eqfield=NewPassword"`
}

type forgotPasswordRequest struct {
	Phone string `json:"phone" validate:"required,max=20"`
}

type resetPasswordRequest struct {
	Phone                string `json:"phone" validate:"required,max=20"`
	OTP                  string `json:"otp" validate:"required,len=6,numeric"`
	Password             string `json:"password" validate:"required,min=6"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

func parseAmount(verr *apperr.ValidationError, n json.Number) decimal.Decimal {
	amount, err := decimal.NewFromString(n.String())
	if err != nil {
		verr.Add("amount", "must be a number")
		return decimal.Zero
	}
	return amount
}
