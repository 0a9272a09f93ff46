package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/parcattraction/internal/models"
	"github.com/mmynk/parcattraction/internal/storage"
)

// CatalogStore is the persistence the attraction service needs.
type CatalogStore interface {
	storage.AttractionStore
	storage.ReviewStore
}

// AttractionService validates catalogue payloads and maps them to single
// store statements.
type AttractionService struct {
	store  CatalogStore
	logger *slog.Logger
}

// NewAttractionService creates a new AttractionService with the given storage backend.
func NewAttractionService(store CatalogStore, logger *slog.Logger) *AttractionService {
	return &AttractionService{store: store, logger: logger}
}

// CreateOrUpdateAttraction inserts a new attraction, or overwrites an existing
// one when the payload carries a non-zero ID. It returns the attraction ID.
// Invalid payloads return 0 and a *ValidationError without touching the store.
func (s *AttractionService) CreateOrUpdateAttraction(ctx context.Context, p AttractionPayload) (int64, error) {
	if err := p.Validate(); err != nil {
		s.logger.Info("Attraction rejected", "error", err)
		return 0, err
	}

	a := &models.Attraction{
		Name:        p.Name,
		Description: p.Description,
		Difficulty:  *p.Difficulty,
		Visible:     true,
	}
	if p.Visible != nil {
		a.Visible = bool(*p.Visible)
	}

	if p.ID != nil && *p.ID != 0 {
		a.ID = *p.ID
		if err := s.store.UpdateAttraction(ctx, a); err != nil {
			return 0, fmt.Errorf("update attraction %d: %w", a.ID, err)
		}
		s.logger.Info("Attraction updated", "attraction_id", a.ID)
		return a.ID, nil
	}

	id, err := s.store.CreateAttraction(ctx, a)
	if err != nil {
		return 0, fmt.Errorf("create attraction: %w", err)
	}
	s.logger.Info("Attraction created", "attraction_id", id, "nom", a.Name)
	return id, nil
}

// ListAttractions returns every attraction, hidden ones included.
func (s *AttractionService) ListAttractions(ctx context.Context) ([]models.Attraction, error) {
	return s.store.ListAttractions(ctx)
}

// GetAttraction returns one attraction, or nil when id is zero or unknown.
func (s *AttractionService) GetAttraction(ctx context.Context, id int64) (*models.Attraction, error) {
	if id == 0 {
		return nil, nil
	}
	return s.store.GetAttraction(ctx, id)
}

// DeleteAttraction removes an attraction and its reviews. Success does not
// imply a row existed.
func (s *AttractionService) DeleteAttraction(ctx context.Context, id int64) error {
	if id == 0 {
		return &ValidationError{Field: "attraction_id", Reason: "is required"}
	}
	if err := s.store.DeleteAttraction(ctx, id); err != nil {
		return fmt.Errorf("delete attraction %d: %w", id, err)
	}
	s.logger.Info("Attraction deleted", "attraction_id", id)
	return nil
}

// ListVisibleAttractions returns only attractions flagged visible.
func (s *AttractionService) ListVisibleAttractions(ctx context.Context) ([]models.Attraction, error) {
	return s.store.ListVisibleAttractions(ctx)
}

// ListVisibleAttractionsWithReviews returns visible attractions, each with
// its reviews newest first.
//
// Reviews are fetched with one query per attraction. That is fine for a park
// catalogue of a few dozen rides and keeps each store call a single statement.
func (s *AttractionService) ListVisibleAttractionsWithReviews(ctx context.Context) ([]models.Attraction, error) {
	attractions, err := s.store.ListVisibleAttractions(ctx)
	if err != nil {
		return nil, err
	}

	for i := range attractions {
		reviews, err := s.store.ListReviewsByAttraction(ctx, attractions[i].ID)
		if err != nil {
			return nil, fmt.Errorf("reviews for attraction %d: %w", attractions[i].ID, err)
		}
		attractions[i].Reviews = reviews
	}

	return attractions, nil
}

// AddReview stores a visitor review and returns its ID.
// Invalid payloads, including a reference to a missing attraction, return 0
// and a *ValidationError.
func (s *AttractionService) AddReview(ctx context.Context, p ReviewPayload) (int64, error) {
	if err := p.Validate(); err != nil {
		s.logger.Info("Review rejected", "error", err)
		return 0, err
	}

	r := &models.Review{
		AttractionID: p.AttractionID,
		LastName:     models.AnonymousName,
		FirstName:    p.FirstName,
		Rating:       p.Rating,
		Comment:      p.Comment,
		Anonymous:    bool(p.Anonymous),
	}
	if p.LastName != nil {
		r.LastName = *p.LastName
	}

	id, err := s.store.CreateReview(ctx, r)
	if err != nil {
		if errors.Is(err, storage.ErrConstraint) {
			return 0, &ValidationError{Field: "attraction_id", Reason: "does not reference an attraction"}
		}
		return 0, fmt.Errorf("create review: %w", err)
	}

	s.logger.Info("Review created", "critique_id", id, "attraction_id", r.AttractionID)
	return id, nil
}

// ListReviewsForAttraction returns the reviews of one attraction, newest first.
// A zero ID yields an empty list.
func (s *AttractionService) ListReviewsForAttraction(ctx context.Context, attractionID int64) ([]models.Review, error) {
	if attractionID == 0 {
		return []models.Review{}, nil
	}
	return s.store.ListReviewsByAttraction(ctx, attractionID)
}
