package auth

import (
	"context"

	"github.com/mmynk/parcattraction/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping the credential check without changing the
// service layer code.
type Authenticator interface {
	// Provision creates an account with the given name and credential unless
	// one already exists. Accounts are only created at initialization time.
	// Returns true when a new account was written.
	Provision(ctx context.Context, name, email, credential string) (bool, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	// Returns ErrInvalidCredentials if authentication fails.
	Authenticate(ctx context.Context, name, credential string) (*models.User, error)
}
