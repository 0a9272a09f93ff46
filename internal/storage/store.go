// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/parcattraction/internal/models"
)

// ErrConstraint is matched by store errors caused by a violated schema
// constraint (foreign key, CHECK, UNIQUE).
var ErrConstraint = errors.New("constraint violation")

// AttractionStore defines the persistence operations for attractions.
// Every method maps to exactly one SQL statement.
type AttractionStore interface {
	// CreateAttraction inserts a new attraction and returns the generated ID.
	CreateAttraction(ctx context.Context, a *models.Attraction) (int64, error)

	// UpdateAttraction overwrites name, description, difficulty and visibility
	// of the attraction with a.ID. Updating a missing ID is not an error.
	UpdateAttraction(ctx context.Context, a *models.Attraction) error

	// GetAttraction returns the attraction with the given ID, or nil if none.
	GetAttraction(ctx context.Context, id int64) (*models.Attraction, error)

	// ListAttractions returns every attraction, hidden ones included.
	ListAttractions(ctx context.Context) ([]models.Attraction, error)

	// ListVisibleAttractions returns attractions with visible = true.
	ListVisibleAttractions(ctx context.Context) ([]models.Attraction, error)

	// DeleteAttraction removes the attraction and, by cascade, its reviews.
	DeleteAttraction(ctx context.Context, id int64) error
}

// ReviewStore defines the persistence operations for reviews.
type ReviewStore interface {
	// CreateReview inserts a review and returns the generated ID.
	CreateReview(ctx context.Context, r *models.Review) (int64, error)

	// ListReviewsByAttraction returns reviews of one attraction, newest first.
	ListReviewsByAttraction(ctx context.Context, attractionID int64) ([]models.Review, error)
}

// UserStore defines the persistence operations for administrator accounts.
type UserStore interface {
	// EnsureUser inserts the user unless the name is already taken.
	// It reports whether a row was inserted.
	EnsureUser(ctx context.Context, user *models.User) (bool, error)

	// GetUserByName returns the user with the given name, or nil if none.
	GetUserByName(ctx context.Context, name string) (*models.User, error)
}

// Store groups every persistence operation behind one backend.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	AttractionStore
	ReviewStore
	UserStore

	// Close releases any resources held by the store.
	Close() error
}
