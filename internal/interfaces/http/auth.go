package http

import (
	"context"
	"errors"
	"net/http"

	"ledger/internal/domain/user"
	"ledger/internal/shared/apperr"
	"ledger/internal/shared/logger"
	"ledger/internal/shared/middleware"
)

// AuthService covers the unauthenticated account flows plus logout.
type AuthService interface {
	Register(ctx context.Context, params user.RegisterParams) (*user.AuthResult, error)
	Login(ctx context.Context, email, password string) (*user.AuthResult, error)
	Logout(ctx context.Context, sessionID string) error
	ForgotPassword(ctx context.Context, phone string) error
	ResetPassword(ctx context.Context, params user.ResetPasswordParams) error
}

type AuthHandler struct {
	users AuthService
	log   *logger.Logger
}

func NewAuthHandler(users AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{users: users, log: log}
}

// HandleRegister creates an account and returns a bearer token for it.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, h.log, err, "Registration failed")
		return
	}

	res, err := h.users.Register(r.Context(), user.RegisterParams{
		ProfileParams: user.ProfileParams{
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
		},
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	})
	if err != nil {
		writeError(w, r, h.log, err, "Registration failed")
		return
	}
	writeMessage(w, http.StatusCreated, "Registration successful", res)
}

// HandleLogin exchanges email and password for a bearer token.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, h.log, err, "Login failed")
		return
	}

	res, err := h.users.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, apperr.ErrAuthentication) {
		writeFailure(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		writeError(w, r, h.log, err, "Login failed")
		return
	}
	writeMessage(w, http.StatusOK, "Login successful", res)
}

// HandleLogout revokes the session behind the presented token.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Logout(r.Context(), middleware.SessionID(r.Context())); err != nil {
		writeError(w, r, h.log, err, "Logout failed")
		return
	}
	writeMessage(w, http.StatusOK, "Logged out successfully", nil)
}

// HandleForgotPassword sends a reset code to a registered phone.
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, h.log, err, "Failed to send reset code")
		return
	}

	if err := h.users.ForgotPassword(r.Context(), req.Phone); err != nil {
		writeError(w, r, h.log, err, "Failed to send reset code")
		return
	}
	writeMessage(w, http.StatusOK, "Reset code sent", nil)
}

// HandleResetPassword sets a new password using a reset code.
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, h.log, err, "Failed to reset password")
		return
	}

	err := h.users.ResetPassword(r.Context(), user.ResetPasswordParams{
		Phone:                req.Phone,
		OTP:                  req.OTP,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	})
	if err != nil {
		writeError(w, r, h.log, err, "Failed to reset password")
		return
	}
	writeMessage(w, http.StatusOK, "Password has been reset", nil)
}
