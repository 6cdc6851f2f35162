package user

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"ledger/internal/domain/ownership"
	"ledger/internal/shared/apperr"
	"ledger/internal/shared/auth"
)

const codeLength = 6

// DefaultCodeTTL is how long a password reset code stays valid.
const DefaultCodeTTL = 10 * time.Minute

// Service handles registration, authentication and profile management.
type Service struct {
	users    Repository
	sessions SessionStore
	codes    CodeStore
	sender   CodeSender
	tokens   *auth.JWT
	codeTTL  time.Duration
}

// NewService creates a new user service
func NewService(users Repository, sessions SessionStore, codes CodeStore, sender CodeSender, tokens *auth.JWT, codeTTL time.Duration) *Service {
	if codeTTL <= 0 {
		codeTTL = DefaultCodeTTL
	}
	return &Service{
		users:    users,
		sessions: sessions,
		codes:    codes,
		sender:   sender,
		tokens:   tokens,
		codeTTL:  codeTTL,
	}
}

// Register creates an account and signs the user in.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	profile := params.ProfileParams.normalized()
	if err := s.checkUnique(ctx, profile, 0); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, CreateUserParams{
		Name:         profile.Name,
		Email:        profile.Email,
		Phone:        profile.Phone,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return s.issue(ctx, u)
}

// Login verifies credentials and issues a new token.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	verr := &apperr.ValidationError{}
	if strings.TrimSpace(email) == "" {
		verr.Add("email", "is required")
	}
	if password == "" {
		verr.Add("password", "is required")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrAuthentication
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if err := auth.VerifyPassword(u.PasswordHash, password); err != nil {
		return nil, apperr.ErrAuthentication
	}
	return s.issue(ctx, u)
}

func (s *Service) issue(ctx context.Context, u *User) (*AuthResult, error) {
	sessionID := uuid.NewString()
	token, expiresAt, err := s.tokens.Generate(u.ID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	if err := s.sessions.Create(ctx, Session{ID: sessionID, UserID: u.ID, ExpiresAt: expiresAt}); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &AuthResult{User: u, Token: token, ExpiresAt: expiresAt}, nil
}

// Authenticate validates a bearer token and its backing session, returning
// the caller's user and session ids.
func (s *Service) Authenticate(ctx context.Context, token string) (int64, string, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return 0, "", apperr.ErrAuthentication
	}
	userID, err := claims.UserID()
	if err != nil {
		return 0, "", apperr.ErrAuthentication
	}
	active, err := s.sessions.Active(ctx, claims.SessionID(), userID)
	if err != nil {
		return 0, "", fmt.Errorf("check session: %w", err)
	}
	if !active {
		return 0, "", apperr.ErrAuthentication
	}
	return userID, claims.SessionID(), nil
}

// IsStaff reports whether userID may use the admin API.
func (s *Service) IsStaff(ctx context.Context, userID int64) (bool, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return u.IsAdmin, nil
}

// Profile returns the caller's own user record.
func (s *Service) Profile(ctx context.Context, caller ownership.Caller) (*User, error) {
	return ownership.Resolve(ctx, caller, caller.UserID, s.users.GetByID)
}

// UpdateProfile overwrites name, email and phone. Email and phone stay
// unique across users other than the caller.
func (s *Service) UpdateProfile(ctx context.Context, caller ownership.Caller, params ProfileParams) (*User, error) {
	if _, err := s.Profile(ctx, caller); err != nil {
		return nil, err
	}
	params = params.normalized()
	verr := &apperr.ValidationError{}
	params.validate(verr)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, params, caller.UserID); err != nil {
		return nil, err
	}

	u, err := s.users.UpdateProfile(ctx, caller.UserID, params)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

func (s *Service) checkUnique(ctx context.Context, p ProfileParams, excludeID int64) error {
	verr := &apperr.ValidationError{}
	taken, err := s.users.EmailTaken(ctx, p.Email, excludeID)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if taken {
		verr.Add("email", "has already been taken")
	}
	taken, err = s.users.PhoneTaken(ctx, p.Phone, excludeID)
	if err != nil {
		return fmt.Errorf("check phone: %w", err)
	}
	if taken {
		verr.Add("phone", "has already been taken")
	}
	return verr.OrNil()
}

// ChangePassword replaces the caller's password after verifying the
// current one.
func (s *Service) ChangePassword(ctx context.Context, caller ownership.Caller, params ChangePasswordParams) error {
	u, err := s.Profile(ctx, caller)
	if err != nil {
		return err
	}
	if err := params.Validate(); err != nil {
		return err
	}
	if err := auth.VerifyPassword(u.PasswordHash, params.CurrentPassword); err != nil {
		return apperr.ErrAuthentication
	}

	hash, err := auth.HashPassword(params.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// Logout revokes the session behind the current token.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperr.ErrAuthentication
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ForgotPassword generates a reset code for a registered phone and hands it
// to the code sender.
func (s *Service) ForgotPassword(ctx context.Context, phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return apperr.NewValidationError("phone", "is required")
	}
	if _, err := s.users.GetByPhone(ctx, phone); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.NewValidationError("phone", "is not registered")
		}
		return fmt.Errorf("get user by phone: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate reset code: %w", err)
	}
	if err := s.codes.Save(ctx, phone, code, s.codeTTL); err != nil {
		return fmt.Errorf("save reset code: %w", err)
	}
	if err := s.sender.SendResetCode(ctx, phone, code); err != nil {
		return fmt.Errorf("send reset code: %w", err)
	}
	return nil
}

// ResetPassword sets a new password when the code matches. The code is
// consumed and every session of the user is revoked.
func (s *Service) ResetPassword(ctx context.Context, params ResetPasswordParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	phone := strings.TrimSpace(params.Phone)

	u, err := s.users.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.NewValidationError("phone", "is not registered")
		}
		return fmt.Errorf("get user by phone: %w", err)
	}

	stored, err := s.codes.Get(ctx, phone)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return fmt.Errorf("get reset code: %w", err)
	}
	if err != nil || subtle.ConstantTimeCompare([]byte(stored), []byte(params.OTP)) != 1 {
		return apperr.NewValidationError("otp", "is invalid or expired")
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.codes.Delete(ctx, phone); err != nil {
		return fmt.Errorf("consume reset code: %w", err)
	}
	if _, err := s.sessions.DeleteByUserID(ctx, u.ID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	return nil
}

// List returns every user. Staff only.
func (s *Service) List(ctx context.Context, caller ownership.Caller) ([]*User, error) {
	if !caller.Valid() || !caller.Staff {
		return nil, apperr.ErrUnauthorized
	}
	return s.users.List(ctx)
}

// SetStaff grants or revokes admin API access for the user with email.
func (s *Service) SetStaff(ctx context.Context, email string, staff bool) (*User, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if err := s.users.SetAdmin(ctx, u.ID, staff); err != nil {
		return nil, fmt.Errorf("set admin flag: %w", err)
	}
	u.IsAdmin = staff
	return u, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeLength, n.Int64()), nil
}
