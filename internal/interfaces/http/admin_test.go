package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"ledger/internal/domain/debt"
	"ledger/internal/domain/ownership"
	"ledger/internal/domain/transaction"
	"ledger/internal/shared/logger"
)

func newAdminHandler(txs *MockTransactionService, debts *MockDebtService) *AdminHandler {
	return NewAdminHandler(&MockUserService{}, txs, txs, debts, debts, logger.Nop())
}

func TestAdminListDebts_Filters(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectedStatus int
		wantFilter     debt.Filter
	}{
		{
			name:           "All Filters",
			query:          "?userId=7&status=unpaid&type=credit&limit=20&offset=40",
			expectedStatus: http.StatusOK,
			wantFilter:     debt.Filter{UserID: 7, Status: debt.StatusUnpaid, Type: debt.TypeCredit, Limit: 20, Offset: 40},
		},
		{name: "No Filters", expectedStatus: http.StatusOK},
		{name: "Bad User ID", query: "?userId=abc", expectedStatus: http.StatusUnprocessableEntity},
		{name: "Limit Too Large", query: "?limit=100000", expectedStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got debt.Filter
			var gotCaller ownership.Caller
			debts := &MockDebtService{
				ListAllFunc: func(ctx context.Context, caller ownership.Caller, filter debt.Filter) ([]*debt.Debt, error) {
					got, gotCaller = filter, caller
					return []*debt.Debt{}, nil
				},
			}
			handler := newAdminHandler(&MockTransactionService{}, debts)

			rr := httptest.NewRecorder()
			handler.HandleListDebts(rr, newRequest(t, http.MethodGet, "/admin/api/debts"+tt.query, 1, nil))

			if rr.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d: %s", rr.Code, tt.expectedStatus, rr.Body.String())
			}
			if rr.Code != http.StatusOK {
				return
			}
			if got != tt.wantFilter {
				t.Errorf("filter = %+v, want %+v", got, tt.wantFilter)
			}
			if !gotCaller.Staff {
				t.Error("admin listing ran without staff rights")
			}
			if env := decodeEnvelope(t, rr); string(env.Data) != "[]" {
				t.Errorf("data = %s, want []", env.Data)
			}
		})
	}
}

func TestAdminCreateTransaction_ForUser(t *testing.T) {
	var gotOwner int64
	txs := &MockTransactionService{
		CreateForFunc: func(ctx context.Context, caller ownership.Caller, ownerID int64, in transaction.Input) (*transaction.Transaction, error) {
			gotOwner = ownerID
			return &transaction.Transaction{ID: 1, UserID: ownerID}, nil
		},
	}
	handler := newAdminHandler(txs, &MockDebtService{})

	body := map[string]any{
		"userId":   12,
		"type":     "expense",
		"category": "Bills",
		"amount":   "80.10",
		"date":     "2024-02-01",
	}
	rr := httptest.NewRecorder()
	handler.HandleCreateTransaction(rr, newRequest(t, http.MethodPost, "/admin/api/transactions", 1, body))

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	if gotOwner != 12 {
		t.Errorf("owner = %d, want 12", gotOwner)
	}
}

func TestAdminCreateDebt_Status(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		wantStatus     debt.Status
	}{
		{name: "Paid", body: `{"userId":4,"name":"Bob","amount":"10","type":"debt","status":"paid"}`, expectedStatus: http.StatusCreated, wantStatus: debt.StatusPaid},
		{name: "Omitted", body: `{"userId":4,"name":"Bob","amount":"10","type":"debt"}`, expectedStatus: http.StatusCreated, wantStatus: ""},
		{name: "Invalid", body: `{"userId":4,"name":"Bob","amount":"10","type":"debt","status":"settled"}`, expectedStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			var got debt.Status
			debts := &MockDebtService{
				CreateForFunc: func(ctx context.Context, caller ownership.Caller, ownerID int64, in debt.Input, status debt.Status) (*debt.Debt, error) {
					called = true
					got = status
					return &debt.Debt{ID: 1, UserID: ownerID, Status: debt.StatusUnpaid}, nil
				},
			}
			handler := newAdminHandler(&MockTransactionService{}, debts)

			rr := httptest.NewRecorder()
			handler.HandleCreateDebt(rr, newRequest(t, http.MethodPost, "/admin/api/debts", 1, tt.body))

			if rr.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d: %s", rr.Code, tt.expectedStatus, rr.Body.String())
			}
			if tt.expectedStatus != http.StatusCreated {
				if called {
					t.Error("CreateFor called for an invalid status")
				}
				return
			}
			if got != tt.wantStatus {
				t.Errorf("CreateFor status = %q, want %q", got, tt.wantStatus)
			}
		})
	}
}

func TestAdminUpdateDebt_RequiresStatus(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{name: "With Status", body: `{"name":"Bob","amount":"10","type":"credit","status":"paid"}`, expectedStatus: http.StatusOK},
		{name: "Without Status", body: `{"name":"Bob","amount":"10","type":"credit"}`, expectedStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got debt.UpdateInput
			debts := &MockDebtService{
				UpdateFunc: func(ctx context.Context, caller ownership.Caller, id int64, in debt.UpdateInput) (*debt.Debt, error) {
					got = in
					return &debt.Debt{ID: id}, nil
				},
			}
			handler := newAdminHandler(&MockTransactionService{}, debts)

			req := newRequest(t, http.MethodPut, "/admin/api/debts/4", 1, tt.body)
			req.SetPathValue("id", "4")
			rr := httptest.NewRecorder()
			handler.HandleUpdateDebt(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d: %s", rr.Code, tt.expectedStatus, rr.Body.String())
			}
			if rr.Code == http.StatusOK && (!got.Status.Present || *got.Status.Value != debt.StatusPaid) {
				t.Errorf("status = %+v, want present paid", got.Status)
			}
		})
	}
}

func TestAdminUserTotals(t *testing.T) {
	txs := &MockTransactionService{
		BalanceOfFunc: func(ctx context.Context, caller ownership.Caller, userID int64) (decimal.Decimal, error) {
			return decimal.RequireFromString("749.50"), nil
		},
	}
	debts := &MockDebtService{
		SummaryOfFunc: func(ctx context.Context, caller ownership.Caller, userID int64) (debt.Summary, error) {
			return debt.Summary{Debt: decimal.NewFromInt(500), Credit: decimal.NewFromInt(200), Outstanding: decimal.NewFromInt(700)}, nil
		},
	}
	handler := newAdminHandler(txs, debts)

	req := newRequest(t, http.MethodGet, "/admin/api/users/5/totals", 1, nil)
	req.SetPathValue("id", "5")
	rr := httptest.NewRecorder()
	handler.HandleUserTotals(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	want := `{"balance":"749.5","outstanding":"700","totalCredit":"200","totalDebt":"500","userId":5}`
	if env := decodeEnvelope(t, rr); string(env.Data) != want {
		t.Errorf("data = %s, want %s", env.Data, want)
	}
}
