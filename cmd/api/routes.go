package main

import (
	"net/http"

	httphandlers "ledger/internal/interfaces/http"
	"ledger/internal/shared/config"
	"ledger/internal/shared/logger"
	"ledger/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config, log *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", httphandlers.HandleHealth)

	// Public auth routes
	mux.HandleFunc("POST /register", deps.AuthHandler.HandleRegister)
	mux.HandleFunc("POST /login", deps.AuthHandler.HandleLogin)
	mux.HandleFunc("POST /forgot-password", deps.AuthHandler.HandleForgotPassword)
	mux.HandleFunc("POST /reset-password", deps.AuthHandler.HandleResetPassword)

	// Protected routes
	authed := middleware.Auth(deps.UserService, log)
	protect := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, authed(h))
	}

	protect("POST /logout", deps.AuthHandler.HandleLogout)
	protect("GET /user", deps.UserHandler.HandleProfile)
	protect("PUT /user", deps.UserHandler.HandleUpdateProfile)
	protect("PUT /user/password", deps.UserHandler.HandleChangePassword)
	protect("GET /categories", httphandlers.HandleCategories)

	// Literal segments win over {id}, so /transactions/all never reaches HandleDelete.
	protect("GET /transactions", deps.TransactionHandler.HandleList)
	protect("POST /transactions", deps.TransactionHandler.HandleCreate)
	protect("GET /transactions/balance", deps.TransactionHandler.HandleBalance)
	protect("GET /transactions/credits", deps.TransactionHandler.HandleCredits)
	protect("DELETE /transactions/all", deps.TransactionHandler.HandleDeleteAll)
	protect("GET /transactions/{id}", deps.TransactionHandler.HandleGet)
	protect("PUT /transactions/{id}", deps.TransactionHandler.HandleUpdate)
	protect("DELETE /transactions/{id}", deps.TransactionHandler.HandleDelete)

	protect("GET /debts", deps.DebtHandler.HandleList)
	protect("POST /debts", deps.DebtHandler.HandleCreate)
	protect("GET /debts/total", deps.DebtHandler.HandleTotal)
	protect("GET /debts/credits", deps.DebtHandler.HandleCredits)
	protect("PATCH /debts/status", deps.DebtHandler.HandleBulkStatus)
	protect("DELETE /debts/all", deps.DebtHandler.HandleDeleteAll)
	protect("GET /debts/{id}", deps.DebtHandler.HandleGet)
	protect("PATCH /debts/{id}", deps.DebtHandler.HandleUpdate)
	protect("DELETE /debts/{id}", deps.DebtHandler.HandleDelete)
	protect("POST /debts/{id}/toggle-status", deps.DebtHandler.HandleToggleStatus)

	// Admin panel API
	staff := middleware.RequireStaff(deps.UserService, log)
	admin := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, authed(staff(h)))
	}
	a := deps.AdminHandler

	admin("GET /admin/api/users", a.HandleListUsers)
	admin("GET /admin/api/users/{id}/totals", a.HandleUserTotals)
	admin("GET /admin/api/transactions", a.HandleListTransactions)
	admin("POST /admin/api/transactions", a.HandleCreateTransaction)
	admin("PUT /admin/api/transactions/{id}", a.HandleUpdateTransaction)
	admin("DELETE /admin/api/transactions/{id}", a.HandleDeleteTransaction)
	admin("GET /admin/api/debts", a.HandleListDebts)
	admin("POST /admin/api/debts", a.HandleCreateDebt)
	admin("POST /admin/api/debts/bulk-status", a.HandleBulkDebtStatus)
	admin("PUT /admin/api/debts/{id}", a.HandleUpdateDebt)
	admin("DELETE /admin/api/debts/{id}", a.HandleDeleteDebt)
	admin("POST /admin/api/debts/{id}/toggle-status", a.HandleToggleDebtStatus)

	// Apply global middleware
	handler := middleware.SecurityHeaders(mux)
	handler = middleware.CORS(cfg.Server.AllowedHosts)(handler)
	handler = middleware.Logging(log)(handler)
	handler = middleware.Tracing(handler)

	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(cfg.Telemetry.ServiceName)(handler)
	}

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(handler)
		log.Info("TLS security middleware enabled (HSTS)")
	}

	return handler
}
