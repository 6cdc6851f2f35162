package http

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"ledger/internal/domain/ownership"
	"ledger/internal/domain/transaction"
	"ledger/internal/shared/logger"
)

// TransactionService is the part of transaction.Service the handlers use.
type TransactionService interface {
	List(ctx context.Context, caller ownership.Caller) ([]*transaction.Transaction, error)
	ListAll(ctx context.Context, caller ownership.Caller, filter transaction.Filter) ([]*transaction.Transaction, error)
	Get(ctx context.Context, caller ownership.Caller, id int64) (*transaction.Transaction, error)
	Create(ctx context.Context, caller ownership.Caller, in transaction.Input) (*transaction.Transaction, error)
	CreateFor(ctx context.Context, caller ownership.Caller, ownerID int64, in transaction.Input) (*transaction.Transaction, error)
	Update(ctx context.Context, caller ownership.Caller, id int64, in transaction.Input) (*transaction.Transaction, error)
	Delete(ctx context.Context, caller ownership.Caller, id int64) error
	DeleteAll(ctx context.Context, caller ownership.Caller) (int64, error)
	Balance(ctx context.Context, caller ownership.Caller) (decimal.Decimal, error)
}

// OutstandingService reports the unpaid debts shown on the transactions
// screen.
type OutstandingService interface {
	Outstanding(ctx context.Context, caller ownership.Caller) (decimal.Decimal, error)
}

type TransactionHandler struct {
	transactions TransactionService
	debts        OutstandingService
	log          *logger.Logger
}

func NewTransactionHandler(transactions TransactionService, debts OutstandingService, log *logger.Logger) *TransactionHandler {
	return &TransactionHandler{transactions: transactions, debts: debts, log: log}
}

// HandleList returns the caller's transactions, newest first.
func (h *TransactionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(r)
	if !ok {
		unauthenticated(w)
		return
	}

	list, err := h.transactions.List(r.Context(), c)
	if err != nil {
		writeError(w, r, h.log, err, "Failed to retrieve transactions")
		return
	}
	writeData(w, list)
}

// HandleCreate records a transaction for the caller.
func (h *TransactionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(r)
	if !ok {
		unauthenticated(w)
		return
	}

	var req transactionRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, h.log, err, "Failed to create transaction")
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, r, h.log, err, "Failed to create transaction")
		return
	}

	tx, err := h.transactions.Create(r.Context(), c, in)
	if err != nil {
		writeError(w, r, h.log, err, "Failed to create transaction")
		return
	}
	writeMessage(w, http.StatusCreated, "Transaction created successfully", tx)
}

// HandleGet returns one transaction.
func (h *TransactionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(r)
	if !ok {
		unauthenticated(w)
		return
	}
	id, ok := pathID(r)
	if !ok {
		notFound(w)
		return
	}

	tx, err := h.transactions.Get(r.Context(), c, id)
	if err != nil {
		writeError(w, r, h.log, err, "Failed to retrieve transaction")
		return
	}
	writeData(w, tx)
}

// HandleUpdate overwrites a transaction.
func (h *TransactionHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(r)
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

// HandleDelete removes one transaction.
func (h *TransactionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(r)
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

// HandleDeleteAll removes every transaction of the caller.
func (h *TransactionHandler) HandleDeleteAll(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(r)
	if !ok {
		unauthenticated(w)
		return
	}

	n, err := h.transactions.DeleteAll(r.Context(), c)
	if err != nil {
		writeError(w, r, h.log, err, "Failed to delete transactions")
		return
	}
	writeMessage(w, http.StatusOK, "All transactions deleted successfully", map[string]int64{"deleted": n})
}

// HandleBalance returns income minus expense.
func (h *TransactionHandler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(r)
	if !ok {
		unauthenticated(w)
		return
	}

	balance, err := h.transactions.Balance(r.Context(), c)
	if err != nil {
		writeError(w, r, h.log, err, "Failed to calculate balance")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"balance": balance})
}

// HandleCredits returns the sum of every unpaid debt of the caller.
func (h *TransactionHandler) HandleCredits(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(r)
	if !ok {
		unauthenticated(w)
		return
	}

	total, err := h.debts.Outstanding(r.Context(), c)
	if err != nil {
		writeError(w, r, h.log, err, "Failed to calculate credits")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "total": total})
}

// HandleCategories returns the category catalogue grouped by type.
func HandleCategories(w http.ResponseWriter, r *http.Request) {
	writeData(w, transaction.Categories())
}
