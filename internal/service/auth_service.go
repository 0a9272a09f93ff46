package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/parcattraction/internal/auth"
)

// AuthService checks admin credentials and issues and verifies tokens.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
// The JWT manager carries the signing secret; nothing is read from globals.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// EnsureAdmin provisions the administrator account if it does not exist yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	created, err := s.authenticator.Provision(ctx, name, email, password)
	if err != nil {
		return fmt.Errorf("provision admin %q: %w", name, err)
	}
	if created {
		s.logger.Info("Admin account created", "name", name)
	}
	return nil
}

// Login authenticates an admin and returns a token.
//
// Returns ErrBadRequest when name or password is absent and
// auth.ErrInvalidCredentials when no account matches.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	// Validate input
	if req.Name == nil || req.Password == nil {
		return nil, ErrBadRequest
	}
	name := *req.Name

	s.logger.Info("Login request", "name", name)

	// Authenticate user
	user, err := s.authenticator.Authenticate(ctx, name, *req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.Warn("Login failed", "name", name)
			return nil, auth.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate %q: %w", name, err)
	}

	// Generate JWT token
	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, err
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID, "name", user.Name)
	return &LoginResult{Token: token, Name: name}, nil
}

// VerifyToken checks an Authorization header value. Logout is a client-side
// discard, so there is no revocation list to consult.
func (s *AuthService) VerifyToken(authHeader string) auth.Verification {
	return s.jwtManager.Verify(authHeader)
}
