package http

import (
	"context"
	"errors"
	"net/http"

	"ledger/internal/domain/ownership"
	"ledger/internal/domain/user"
	"ledger/internal/shared/apperr"
	"ledger/internal/shared/logger"
)

type ProfileService interface {
	Profile(ctx context.Context, caller ownership.Caller) (*user.User, error)
	UpdateProfile(ctx context.Context, caller ownership.Caller, params user.ProfileParams) (*user.User, error)
	ChangePassword(ctx context.Context, caller ownership.Caller, params user.ChangePasswordParams) error
}

type UserHandler struct {
	users ProfileService
	log   *logger.Logger
}

func NewUserHandler(users ProfileService, log *logger.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// HandleProfile returns the authenticated user.
func (h *UserHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(r)
	if !ok {
		unauthenticated(w)
		return
	}

	u, err := h.users.Profile(r.Context(), c)
	if err != nil {
		writeError(w, r, h.log, err, "Failed to retrieve profile")
		return
	}
	writeData(w, u)
}

// HandleUpdateProfile overwrites name, email and phone.
func (h *UserHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(r)
	if !ok {
		unauthenticated(w)
		return
	}

	var req profileRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, h.log, err, "Failed to update profile")
		return
	}

	u, err := h.users.UpdateProfile(r.Context(), c, user.ProfileParams{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		writeError(w, r, h.log, err, "Failed to update profile")
		return
	}
	writeMessage(w, http.StatusOK, "Profile updated successfully", u)
}

// HandleChangePassword replaces the password after checking the current one.
func (h *UserHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(r)
	if !ok {
		unauthenticated(w)
		return
	}

	var req changePasswordRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, h.log, err, "Failed to change password")
		return
	}

	err := h.users.ChangePassword(r.Context(), c, user.ChangePasswordParams{
		CurrentPassword:         req.CurrentPassword,
		NewPassword:             req.NewPassword,
		NewPasswordConfirmation: req.NewPasswordConfirmation,
	})
	if errors.Is(err, apperr.ErrAuthentication) {
		writeFailure(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}
	if err != nil {
		writeError(w, r, h.log, err, "Failed to change password")
		return
	}
	writeMessage(w, http.StatusOK, "Password changed successfully", nil)
}
