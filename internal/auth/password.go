package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/parcattraction/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid name or password")
	ErrEmptyPassword      = errors.New("password must not be empty")
)

// UserStorage defines the interface for user persistence operations.
// This allows the authenticator to be independent of the storage implementation.
type UserStorage interface {
	EnsureUser(ctx context.Context, user *models.User) (bool, error)
	GetUserByName(ctx context.Context, name string) (*models.User, error)
}

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	storage UserStorage
	cost    int

	// dummyHash is compared against for unknown names so that lookups of
	// missing and existing accounts take the same time.
	dummyOnce sync.Once
	dummyHash []byte
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(storage UserStorage) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		storage: storage,
		cost:    bcrypt.DefaultCost,
	}
}

// WithCost returns a copy of the authenticator hashing with the given bcrypt
// cost. Tests use bcrypt.MinCost to stay fast.
func (a *PasswordAuthenticator) WithCost(cost int) *PasswordAuthenticator {
	return &PasswordAuthenticator{storage: a.storage, cost: cost}
}

// Provision creates the account with a hashed password if the name is free.
func (a *PasswordAuthenticator) Provision(ctx context.Context, name, email, credential string) (bool, error) {
	if credential == "" {
		return false, ErrEmptyPassword
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(credential), a.cost)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := a.storage.EnsureUser(ctx, models.NewUser(name, email, string(hashedPassword)))
	if err != nil {
		return false, fmt.Errorf("failed to provision user: %w", err)
	}
	return created, nil
}

// Authenticate verifies the name and password, returning the user if valid.
// Storage failures are returned as-is so callers can tell them apart from
// bad credentials.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, name, credential string) (*models.User, error) {
	// Get user by name
	user, err := a.storage.GetUserByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(a.unknownUserHash(), []byte(credential))
		return nil, ErrInvalidCredentials
	}

	// Compare password hash
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// unknownUserHash returns a hash at the authenticator's cost that no password
// is expected to match.
func (a *PasswordAuthenticator) unknownUserHash() []byte {
	a.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("parc-unknown-user"), a.cost)
		if err == nil {
			a.dummyHash = hash
		}
	})
	return a.dummyHash
}
