package sqlite

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"

	"github.com/mmynk/parcattraction/internal/models"
)

const userTable = "users"

// EnsureUser inserts a user unless one with the same name already exists.
// It reports whether a new row was written.
func (s *SQLiteStore) EnsureUser(ctx context.Context, user *models.User) (bool, error) {
	stmt := s.dialect.Insert(userTable).Prepared(true).
		Rows(goqu.Record{
			"name":          user.Name,
			"password_hash": user.PasswordHash,
			"email":         user.Email,
			"created_at":    user.CreatedAt,
		}).
		OnConflict(goqu.DoNothing())

	res, err := s.exec(ctx, "ensure user", stmt)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, &QueryError{Op: "ensure user", Err: err}
	}
	if n == 0 {
		return false, nil
	}

	if id, err := res.LastInsertId(); err == nil {
		user.ID = id
	}
	return true, nil
}

// GetUserByName retrieves a user by login name.
// Returns nil without error when the user does not exist.
func (s *SQLiteStore) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	stmt := s.dialect.From(userTable).Prepared(true).
		Select("user_id", "name", "password_hash", "email", "created_at").
		Where(goqu.C("name").Eq(name))

	var user *models.User
	err := s.query(ctx, "get user by name", stmt, func(rows *sql.Rows) error {
		u := &models.User{}
		if err := rows.Scan(
			&u.ID,
			&u.Name,
			&u.PasswordHash,
			&u.Email,
			&u.CreatedAt,
		); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
