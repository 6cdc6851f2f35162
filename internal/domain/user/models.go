package user

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"ledger/internal/shared/apperr"
	"ledger/internal/shared/auth"
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) OwnerID() int64 { return u.ID }

// Session backs an issued token. The token is accepted only while its
// session row exists and has not expired.
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User      *User     `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type CreateUserParams struct {
	Name         string
	Email        string
	Phone        string
	PasswordHash string
}

// ProfileParams is a full overwrite of the editable profile fields.
type ProfileParams struct {
	Name  string
	Email string
	Phone string
}

func (p ProfileParams) normalized() ProfileParams {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = normalizeEmail(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	return p
}

func (p ProfileParams) validate(verr *apperr.ValidationError) {
	if p.Name == "" {
		verr.Add("name", "is required")
	} else if utf8.RuneCountInString(p.Name) > 255 {
		verr.Add("name", "may not be greater than 255 characters")
	}
	if p.Email == "" {
		verr.Add("email", "is required")
	} else if _, err := mail.ParseAddress(p.Email); err != nil {
		verr.Add("email", "must be a valid email address")
	}
	if p.Phone == "" {
		verr.Add("phone", "is required")
	} else if len(p.Phone) > 20 {
		verr.Add("phone", "may not be greater than 20 characters")
	}
}

type RegisterParams struct {
	ProfileParams
	Password             string
	PasswordConfirmation string
}

func (p RegisterParams) Validate() error {
	verr := &apperr.ValidationError{}
	p.ProfileParams.normalized().validate(verr)
	validateNewPassword(verr, "password", p.Password, p.PasswordConfirmation)
	return verr.OrNil()
}

type ChangePasswordParams struct {
	CurrentPassword         string
	NewPassword             string
	NewPasswordConfirmation string
}

func (p ChangePasswordParams) Validate() error {
	verr := &apperr.ValidationError{}
	if p.CurrentPassword == "" {
		verr.Add("current_password", "is required")
	}
	validateNewPassword(verr, "new_password", p.NewPassword, p.NewPasswordConfirmation)
	return verr.OrNil()
}

type ResetPasswordParams struct {
	Phone                string
	OTP                  string
	Password             string
	PasswordConfirmation string
}

func (p ResetPasswordParams) Validate() error {
	verr := &apperr.ValidationError{}
	if strings.TrimSpace(p.Phone) == "" {
		verr.Add("phone", "is required")
	}
	if len(p.OTP) != codeLength {
		verr.Add("otp", "must be 6 digits")
	}
	validateNewPassword(verr, "password", p.Password, p.PasswordConfirmation)
	return verr.OrNil()
}

func validateNewPassword(verr *apperr.ValidationError, field, password, confirmation string) {
	switch {
	case password == "":
		verr.Add(field, "is required")
	case len(password) < auth.MinPasswordLength:
		verr.Add(field, "must be at least 6 characters")
	case password != confirmation:
		verr.Add(field, "confirmation does not match")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
