package models

import "time"

// User represents an administrator account.
//
// Accounts are provisioned when the database is initialized; there is no
// self-service registration.
type User struct {
	// ID is the store-generated identifier, embedded in issued tokens.
	ID int64

	// Name is the unique login name.
	Name string

	// PasswordHash is the bcrypt hash of the password. The plain password is
	// never stored.
	PasswordHash string

	// Email is optional contact information.
	Email string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// NewUser creates a user with the creation timestamp set to now.
func NewUser(name, email, passwordHash string) *User {
	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
