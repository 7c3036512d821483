package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/streamflix/streamflix/internal/domain"
)

// MinPasswordLength is the shortest password the backend accepts
const MinPasswordLength = 8

// SessionService manages user session operations
type SessionService struct {
	auth   domain.AuthRepository
	store  domain.SessionStore
	logger *slog.Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(auth domain.AuthRepository, store domain.SessionStore, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		auth:   auth,
		store:  store,
		logger: logger,
	}
}

// Login authenticates and stores the returned token
func (s *SessionService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	result, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.logger.Error("login failed", "error", err, "email", email)
		return nil, err
	}

	if err := s.store.SaveSession(result.Token, result.Username); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Info("logged in", "user", result.Username)
	return result, nil
}

// Logout clears the stored credentials
func (s *SessionService) Logout() error {
	if err := s.store.ClearSession(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.logger.Info("logged out")
	return nil
}

// Username returns the signed-in user's display name, "" when signed out
func (s *SessionService) Username() string {
	return s.store.Username()
}

// ValidateNewPassword checks a new password and its confirmation
func ValidateNewPassword(password, confirm string) error {
	if len(password) < MinPasswordLength {
		return domain.ErrPasswordTooShort
	}
	if password != confirm {
		return domain.ErrPasswordMismatch
	}
	return nil
}

// ResetPassword validates the new password, then redeems the reset token
func (s *SessionService) ResetPassword(ctx context.Context, token, password, confirm string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("reset token is required")
	}
	if err := ValidateNewPassword(password, confirm); err != nil {
		return err
	}

	if err := s.auth.ResetPassword(ctx, token, password); err != nil {
		s.logger.Error("password reset failed", "error", err)
		return err
	}

	s.logger.Info("password reset")
	return nil
}
