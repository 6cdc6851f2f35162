package http

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"ledger/internal/domain/debt"
	"ledger/internal/domain/ownership"
	"ledger/internal/shared/logger"
)

// DebtService is the part of debt.Service the handlers use.
type DebtService interface {
	List(ctx context.Context, caller ownership.Caller) ([]*debt.Debt, error)
	ListAll(ctx context.Context, caller ownership.Caller, filter debt.Filter) ([]*debt.Debt, error)
	Get(ctx context.Context, caller ownership.Caller, id int64) (*debt.Debt, error)
	Create(ctx context.Context, caller ownership.Caller, in debt.Input) (*debt.Debt, error)
	CreateFor(ctx context.Context, caller ownership.Caller, ownerID int64, in debt.Input, status debt.Status) (*debt.Debt, error)
	Update(ctx context.Context, caller ownership.Caller, id int64, in debt.UpdateInput) (*debt.Debt, error)
	ToggleStatus(ctx context.Context, caller ownership.Caller, id int64) (*debt.Debt, error)
	BulkSetStatus(ctx context.Context, caller ownership.Caller, ids []int64, status debt.Status) (int64, error)
	Delete(ctx context.Context, caller ownership.Caller, id int64) error
	DeleteAll(ctx context.Context, caller ownership.Caller) (int64, error)
	TotalDebt(ctx context.Context, caller ownership.Caller) (decimal.Decimal, error)
	TotalCredit(ctx context.Context, caller ownership.Caller) (decimal.Decimal, error)
	Outstanding(ctx context.Context, caller ownership.Caller) (decimal.Decimal, error)
}

type DebtHandler struct {
	debts DebtService
	log   *logger.Logger
}

func NewDebtHandler(debts DebtService, log *logger.Logger) *DebtHandler {
	return &DebtHandler{debts: debts, log: log}
}

// HandleList returns the caller's debts.
func (h *DebtHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(r)
	if !ok {
		unauthenticated(w)
		return
	}

	list, err := h.debts.List(r.Context(), c)
	if err != nil {
		writeError(w, r, h.log, err, "Failed to retrieve debts")
		return
	}
	writeData(w, list)
}

// HandleCreate records a debt. Any status in the payload is ignored.
func (h *DebtHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(r)
	if !ok {
		unauthenticated(w)
		return
	}

	var req createDebtRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, h.log, err, "Failed to create debt")
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, r, h.log, err, "Failed to create debt")
		return
	}

	d, err := h.debts.Create(r.Context(), c, in)
	if err != nil {
		writeError(w, r, h.log, err, "Failed to create debt")
		return
	}
	writeMessage(w, http.StatusCreated, "Debt created successfully", d)
}

// HandleGet returns one debt.
func (h *DebtHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
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

	d, err := h.debts.Get(r.Context(), c, id)
	if err != nil {
		writeError(w, r, h.log, err, "Failed to retrieve debt")
		return
	}
	writeData(w, d)
}

// HandleUpdate overwrites a debt. A missing status keeps the stored one.
func (h *DebtHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
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

	var req updateDebtRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, h.log, err, "Failed to update debt")
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, r, h.log, err, "Failed to update debt")
		return
	}

	d, err := h.debts.Update(r.Context(), c, id, in)
	if err != nil {
		writeError(w, r, h.log, err, "Failed to update debt")
		return
	}
	writeMessage(w, http.StatusOK, "Debt updated successfully", d)
}

// HandleToggleStatus flips a debt between paid and unpaid.
func (h *DebtHandler) HandleToggleStatus(w http.ResponseWriter, r *http.Request) {
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

	d, err := h.debts.ToggleStatus(r.Context(), c, id)
	if err != nil {
		writeError(w, r, h.log, err, "Failed to update debt status")
		return
	}
	writeMessage(w, http.StatusOK, "Debt marked as "+string(d.Status), d)
}

// HandleBulkStatus sets one status on several of the caller's debts.
func (h *DebtHandler) HandleBulkStatus(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(r)
	if !ok {
		unauthenticated(w)
		return
	}
	bulkStatus(w, r, h.debts, h.log, c)
}

func bulkStatus(w http.ResponseWriter, r *http.Request, debts DebtService, log *logger.Logger, c ownership.Caller) {
	var req bulkStatusRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, log, err, "Failed to update debt status")
		return
	}

	n, err := debts.BulkSetStatus(r.Context(), c, req.IDs, debt.Status(req.Status))
	if err != nil {
		writeError(w, r, log, err, "Failed to update debt status")
		return
	}
	writeMessage(w, http.StatusOK, "Debt status updated", map[string]int64{"updated": n})
}

// HandleDelete removes one debt.
func (h *DebtHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.debts.Delete(r.Context(), c, id); err != nil {
		writeError(w, r, h.log, err, "Failed to delete debt")
		return
	}
	writeMessage(w, http.StatusOK, "Debt deleted successfully", nil)
}

// HandleDeleteAll removes every debt of the caller.
func (h *DebtHandler) HandleDeleteAll(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(r)
	if !ok {
		unauthenticated(w)
		return
	}

	n, err := h.debts.DeleteAll(r.Context(), c)
	if err != nil {
		writeError(w, r, h.log, err, "Failed to delete debts")
		return
	}
	writeMessage(w, http.StatusOK, "All debts deleted successfully", map[string]int64{"deleted": n})
}

// HandleTotal returns the unpaid amount the caller owes.
func (h *DebtHandler) HandleTotal(w http.ResponseWriter, r *http.Request) {
	h.total(w, r, h.debts.TotalDebt, "Failed to calculate total debt")
}

// HandleCredits returns the unpaid amount owed to the caller.
func (h *DebtHandler) HandleCredits(w http.ResponseWriter, r *http.Request) {
	h.total(w, r, h.debts.TotalCredit, "Failed to calculate total credit")
}

func (h *DebtHandler) total(w http.ResponseWriter, r *http.Request, sum func(context.Context, ownership.Caller) (decimal.Decimal, error), failMsg string) {
	c, ok := caller(r)
	if !ok {
		unauthenticated(w)
		return
	}

	total, err := sum(r.Context(), c)
	if err != nil {
		writeError(w, r, h.log, err, failMsg)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "total": total})
}
