package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/mmynk/parcattraction/internal/models"
)

const reviewTable = "critique"

// CreateReview inserts a review and returns the generated ID.
// Referencing a missing attraction fails on the foreign key.
func (s *SQLiteStore) CreateReview(ctx context.Context, r *models.Review) (int64, error) {
	if r.CreatedAt == 0 {
		r.CreatedAt = time.Now().Unix()
	}

	stmt := s.dialect.Insert(reviewTable).Prepared(true).Rows(goqu.Record{
		"attraction_id": r.AttractionID,
		"nom":           r.LastName,
		"prenom":        r.FirstName,
		"note":          r.Rating,
		"commentaire":   r.Comment,
		"est_anonyme":   boolToInt(r.Anonymous),
		"created_at":    r.CreatedAt,
	})

	id, err := s.lastInsertID(ctx, "insert review", stmt)
	if err != nil {
		return 0, err
	}
	r.ID = id
	return id, nil
}

// ListReviewsByAttraction returns the reviews of one attraction, newest ID first.
func (s *SQLiteStore) ListReviewsByAttraction(ctx context.Context, attractionID int64) ([]models.Review, error) {
	stmt := s.dialect.From(reviewTable).Prepared(true).
		Select("critique_id", "attraction_id", "nom", "prenom", "note", "commentaire", "est_anonyme", "created_at").
		Where(goqu.C("attraction_id").Eq(attractionID)).
		Order(goqu.C("critique_id").Desc())

	reviews := []models.Review{}
	err := s.query(ctx, "list reviews", stmt, func(rows *sql.Rows) error {
		var r models.Review
		if err := rows.Scan(
			&r.ID,
			&r.AttractionID,
			&r.LastName,
			&r.FirstName,
			&r.Rating,
			&r.Comment,
			&r.Anonymous,
			&r.CreatedAt,
		); err != nil {
			return err
		}
		reviews = append(reviews, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reviews, nil
}
