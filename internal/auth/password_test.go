package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/parcattraction/internal/models"
)

type memoryUsers struct {
	users map[string]*models.User
	err   error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[string]*models.User)}
}

func (m *memoryUsers) EnsureUser(ctx context.Context, user *models.User) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.users[user.Name]; ok {
		return false, nil
	}
	user.ID = int64(len(m.users) + 1)
	m.users[user.Name] = user
	return true, nil
}

func (m *memoryUsers) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.users[name], nil
}

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()
	users := newMemoryUsers()
	a := NewPasswordAuthenticator(users).WithCost(bcrypt.MinCost)

	created, err := a.Provision(ctx, "admin", "admin@parcattraction.com", "admin123")
	require.NoError(t, err)
	assert.True(t, created)

	t.Run("password is stored hashed", func(t *testing.T) {
		stored := users.users["admin"]
		require.NotNil(t, stored)
		assert.NotEqual(t, "admin123", stored.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("admin123")))
	})

	t.Run("provision is idempotent", func(t *testing.T) {
		created, err := a.Provision(ctx, "admin", "", "changed")
		require.NoError(t, err)
		assert.False(t, created)

		_, err = a.Authenticate(ctx, "admin", "admin123")
		assert.NoError(t, err)
	})

	t.Run("valid credentials", func(t *testing.T) {
		user, err := a.Authenticate(ctx, "admin", "admin123")
		require.NoError(t, err)
		assert.Equal(t, "admin", user.Name)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := a.Authenticate(ctx, "admin", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := a.Authenticate(ctx, "nobody", "admin123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		// Unknown names still pay for a bcrypt comparison at the same cost.
		cost, err := bcrypt.Cost(a.dummyHash)
		require.NoError(t, err)
		assert.Equal(t, bcrypt.MinCost, cost)
	})

	t.Run("empty password is refused", func(t *testing.T) {
		_, err := a.Provision(ctx, "other", "", "")
		assert.ErrorIs(t, err, ErrEmptyPassword)
	})

	t.Run("storage failure is not a credential failure", func(t *testing.T) {
		boom := errors.New("database is gone")
		failing := NewPasswordAuthenticator(&memoryUsers{err: boom})
		_, err := failing.Authenticate(ctx, "admin", "admin123")
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}
