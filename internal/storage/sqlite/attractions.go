package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/mmynk/parcattraction/internal/models"
)

const attractionTable = "attraction"

var attractionColumns = []interface{}{
	"attraction_id", "nom", "description", "difficulte", "visible", "created_at", "updated_at",
}

// CreateAttraction inserts a new attraction and returns the generated ID.
func (s *SQLiteStore) CreateAttraction(ctx context.Context, a *models.Attraction) (int64, error) {
	now := time.Now().Unix()
	if a.CreatedAt == 0 {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	stmt := s.dialect.Insert(attractionTable).Prepared(true).Rows(goqu.Record{
		"nom":         a.Name,
		"description": a.Description,
		"difficulte":  a.Difficulty,
		"visible":     boolToInt(a.Visible),
		"created_at":  a.CreatedAt,
		"updated_at":  a.UpdatedAt,
	})

	id, err := s.lastInsertID(ctx, "insert attraction", stmt)
	if err != nil {
		return 0, err
	}
	a.ID = id
	return id, nil
}

// UpdateAttraction overwrites every editable field of the attraction with a.ID.
func (s *SQLiteStore) UpdateAttraction(ctx context.Context, a *models.Attraction) error {
	a.UpdatedAt = time.Now().Unix()

	stmt := s.dialect.Update(attractionTable).Prepared(true).
		Set(goqu.Record{
			"nom":         a.Name,
			"description": a.Description,
			"difficulte":  a.Difficulty,
			"visible":     boolToInt(a.Visible),
			"updated_at":  a.UpdatedAt,
		}).
		Where(goqu.C("attraction_id").Eq(a.ID))

	_, err := s.exec(ctx, "update attraction", stmt)
	return err
}

// GetAttraction retrieves an attraction by ID.
// Returns nil without error when no row matches.
func (s *SQLiteStore) GetAttraction(ctx context.Context, id int64) (*models.Attraction, error) {
	stmt := s.dialect.From(attractionTable).Prepared(true).
		Select(attractionColumns...).
		Where(goqu.C("attraction_id").Eq(id))

	var found *models.Attraction
	err := s.query(ctx, "get attraction", stmt, func(rows *sql.Rows) error {
		a, err := scanAttraction(rows)
		if err != nil {
			return err
		}
		found = &a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// ListAttractions returns every attraction ordered by ID.
func (s *SQLiteStore) ListAttractions(ctx context.Context) ([]models.Attraction, error) {
	stmt := s.dialect.From(attractionTable).Prepared(true).
		Select(attractionColumns...).
		Order(goqu.C("attraction_id").Asc())
	return s.listAttractions(ctx, "list attractions", stmt)
}

// ListVisibleAttractions returns attractions flagged visible, ordered by ID.
func (s *SQLiteStore) ListVisibleAttractions(ctx context.Context) ([]models.Attraction, error) {
	stmt := s.dialect.From(attractionTable).Prepared(true).
		Select(attractionColumns...).
		Where(goqu.C("visible").Eq(1)).
		Order(goqu.C("attraction_id").Asc())
	return s.listAttractions(ctx, "list visible attractions", stmt)
}

// DeleteAttraction removes an attraction. Its reviews go with it through the
// ON DELETE CASCADE foreign key.
func (s *SQLiteStore) DeleteAttraction(ctx context.Context, id int64) error {
	stmt := s.dialect.Delete(attractionTable).Prepared(true).
		Where(goqu.C("attraction_id").Eq(id))

	_, err := s.exec(ctx, "delete attraction", stmt)
	return err
}

func (s *SQLiteStore) listAttractions(ctx context.Context, op string, stmt statement) ([]models.Attraction, error) {
	attractions := []models.Attraction{}
	err := s.query(ctx, op, stmt, func(rows *sql.Rows) error {
		a, err := scanAttraction(rows)
		if err != nil {
			return err
		}
		attractions = append(attractions, a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return attractions, nil
}

func scanAttraction(rows *sql.Rows) (models.Attraction, error) {
	var a models.Attraction
	err := rows.Scan(
		&a.ID,
		&a.Name,
		&a.Description,
		&a.Difficulty,
		&a.Visible,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
