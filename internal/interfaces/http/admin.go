package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"ledger/internal/domain/debt"
	"ledger/internal/domain/ownership"
	"ledger/internal/domain/transaction"
	"ledger/internal/domain/user"
	"ledger/internal/shared/apperr"
	"ledger/internal/shared/logger"
)

const maxPageSize = 500

type UserDirectory interface {
	List(ctx context.Context, caller ownership.Caller) ([]*user.User, error)
}

// AdminTotalsService reports the aggregates of an arbitrary user.
type AdminTotalsService interface {
	BalanceOf(ctx context.Context, caller ownership.Caller, userID int64) (decimal.Decimal, error)
}

type DebtSummaryService interface {
	SummaryOf(ctx context.Context, caller ownership.Caller, userID int64) (debt.Summary, error)
}

// AdminHandler backs the admin panel. Every route runs behind
// middleware.RequireStaff, so the caller is built with staff rights.
type AdminHandler struct {
	users        UserDirectory
	transactions TransactionService
	balances     AdminTotalsService
	debts        DebtService
	summaries    DebtSummaryService
	log          *logger.Logger
}

func NewAdminHandler(users UserDirectory, transactions TransactionService, balances AdminTotalsService, debts DebtService, summaries DebtSummaryService, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		users:        users,
		transactions: transactions,
		balances:     balances,
		debts:        debts,
		summaries:    summaries,
		log:          log,
	}
}

// page reads ?limit and ?offset.
func page(r *http.Request) (limit, offset int, err error) {
	verr := &apperr.ValidationError{}
	q := r.URL.Query()
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > maxPageSize {
			verr.Add("limit", "must be between 1 and "+strconv.Itoa(maxPageSize))
		}
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			verr.Add("offset", "must be at least 0")
		}
	}
	if err := verr.OrNil(); err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

func (h *AdminHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	c, ok := staffCaller(r)
	if !ok {
		unauthenticated(w)
		return
	}

	list, err := h.users.List(r.Context(), c)
	if err != nil {
		writeError(w, r, h.log, err, "Failed to retrieve users")
		return
	}
	writeData(w, list)
}

// HandleUserTotals returns the balance and debt summary of one user.
func (h *AdminHandler) HandleUserTotals(w http.ResponseWriter, r *http.Request) {
	c, ok := staffCaller(r)
	if !ok {
		unauthenticated(w)
		return
	}
	id, ok := pathID(r)
	if !ok {
		notFound(w)
		return
	}

	balance, err := h.balances.BalanceOf(r.Context(), c, id)
	if err != nil {
		writeError(w, r, h.log, err, "Failed to calculate totals")
		return
	}
	summary, err := h.summaries.SummaryOf(r.Context(), c, id)
	if err != nil {
		writeError(w, r, h.log, err, "Failed to calculate totals")
		return
	}
	writeData(w, map[string]any{
		"userId":      id,
		"balance":     balance,
		"totalDebt":   summary.Debt,
		"totalCredit": summary.Credit,
		"outstanding": summary.Outstanding,
	})
}

// HandleListTransactions lists transactions, optionally for one ?userId.
func (h *AdminHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	c, ok := staffCaller(r)
	if !ok {
		unauthenticated(w)
		return
	}
	userID, err := queryInt64(r, "userId")
	if err != nil {
		writeError(w, r, h.log, err, "Failed to retrieve transactions")
		return
	}
	limit, offset, err := page(r)
	if err != nil {
		writeError(w, r, h.log, err, "Failed to retrieve transactions")
		return
	}

	list, err := h.transactions.ListAll(r.Context(), c, transaction.Filter{
		UserID: userID,
		Type:   transaction.Type(r.URL.Query().Get("type")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, r, h.log, err, "Failed to retrieve transactions")
		return
	}
	writeData(w, list)
}

func (h *AdminHandler) HandleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	c, ok := staffCaller(r)
	if !ok {
		unauthenticated(w)
		return
	}

	var req adminTransactionRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, h.log, err, "Failed to create transaction")
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, r, h.log, err, "Failed to create transaction")
		return
	}

	tx, err := h.transactions.CreateFor(r.Context(), c, req.UserID, in)
	if err != nil {
		writeError(w, r, h.log, err, "Failed to create transaction")
		return
	}
	writeMessage(w, http.StatusCreated, "Transaction created successfully", tx)
}

func (h *AdminHandler) HandleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	c, ok := staffCaller(r)
	if !ok {
		unauthenticated(w)
		return
	}
	id, ok := pathID(r)
	if !ok {
		notFound(w)
		return
	}

	var req transactionRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, h.log, err, "Failed to update transaction")
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, r, h.log, err, "Failed to update transaction")
		return
	}

	tx, err := h.transactions.Update(r.Context(), c, id, in)
	if err != nil {
		writeError(w, r, h.log, err, "Failed to update transaction")
		return
	}
	writeMessage(w, http.StatusOK, "Transaction updated successfully", tx)
}

func (h *AdminHandler) HandleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	c, ok := staffCaller(r)
	if !ok {
		unauthenticated(w)
		return
	}
	id, ok := pathID(r)
	if !ok {
		notFound(w)
		return
	}

	if err := h.transactions.Delete(r.Context(), c, id); err != nil {
		writeError(w, r, h.log, err, "Failed to delete transaction")
		return
	}
	writeMessage(w, http.StatusOK, "Transaction deleted successfully", nil)
}

// HandleListDebts lists debts filtered by ?userId, ?status and ?type.
func (h *AdminHandler) HandleListDebts(w http.ResponseWriter, r *http.Request) {
	c, ok := staffCaller(r)
	if !ok {
		unauthenticated(w)
		return
	}
	userID, err := queryInt64(r, "userId")
	if err != nil {
		writeError(w, r, h.log, err, "Failed to retrieve debts")
		return
	}
	limit, offset, err := page(r)
	if err != nil {
		writeError(w, r, h.log, err, "Failed to retrieve debts")
		return
	}

	q := r.URL.Query()
	list, err := h.debts.ListAll(r.Context(), c, debt.Filter{
		UserID: userID,
		Status: debt.Status(q.Get("status")),
		Type:   debt.Type(q.Get("type")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, r, h.log, err, "Failed to retrieve debts")
		return
	}
	writeData(w, list)
}

// HandleCreateDebt records a debt for the user named in the payload with the
// status staff picked, unpaid when none is given.
func (h *AdminHandler) HandleCreateDebt(w http.ResponseWriter, r *http.Request) {
	c, ok := staffCaller(r)
	if !ok {
		unauthenticated(w)
		return
	}

	var req adminDebtRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, h.log, err, "Failed to create debt")
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, r, h.log, err, "Failed to create debt")
		return
	}

	d, err := h.debts.CreateFor(r.Context(), c, req.UserID, in, req.status())
	if err != nil {
		writeError(w, r, h.log, err, "Failed to create debt")
		return
	}
	writeMessage(w, http.StatusCreated, "Debt created successfully", d)
}

func (h *AdminHandler) HandleUpdateDebt(w http.ResponseWriter, r *http.Request) {
	c, ok := staffCaller(r)
	if !ok {
		unauthenticated(w)
		return
	}
	id, ok := pathID(r)
	if !ok {
		notFound(w)
		return
	}

	var req adminUpdateDebtRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, h.log, err, "Failed to update debt")
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, r, h.log, err, "Failed to update debt")
		return
	}

	d, err := h.debts.Update(r.Context(), c, id, debt.UpdateInput{
		Input:  in,
		Status: debt.Set(debt.Status(req.Status)),
	})
	if err != nil {
		writeError(w, r, h.log, err, "Failed to update debt")
		return
	}
	writeMessage(w, http.StatusOK, "Debt updated successfully", d)
}

func (h *AdminHandler) HandleDeleteDebt(w http.ResponseWriter, r *http.Request) {
	c, ok := staffCaller(r)
	if !ok {
		unauthenticated(w)
		return
	}
	id, ok := pathID(r)
	if !ok {
		notFound(w)
		return
	}

	if err := h.debts.Delete(r.Context(), c, id); err != nil {
		writeError(w, r, h.log, err, "Failed to delete debt")
		return
	}
	writeMessage(w, http.StatusOK, "Debt deleted successfully", nil)
}

func (h *AdminHandler) HandleToggleDebtStatus(w http.ResponseWriter, r *http.Request) {
	c, ok := staffCaller(r)
	if !ok {
		unauthenticated(w)
		return
	}
	id, ok := pathID(r)
	if !ok {
		notFound(w)
		return
	}

	d, err := h.debts.ToggleStatus(r.Context(), c, id)
	if err != nil {
		writeError(w, r, h.log, err, "Failed to update debt status")
		return
	}
	writeMessage(w, http.StatusOK, "Debt marked as "+string(d.Status), d)
}

// HandleBulkDebtStatus sets one status on any set of debts.
func (h *AdminHandler) HandleBulkDebtStatus(w http.ResponseWriter, r *http.Request) {
	c, ok := staffCaller(r)
	if !ok {
		unauthenticated(w)
		return
	}
	bulkStatus(w, r, h.debts, h.log, c)
}
