package sqlite

import "context"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// IMPORTANT: attraction must be created BEFORE critique due to the foreign key constraint.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    user_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS attraction (
    attraction_id INTEGER PRIMARY KEY AUTOINCREMENT,
    nom TEXT NOT NULL CHECK (nom <> ''),
    description TEXT NOT NULL DEFAULT '',
    difficulte INTEGER NOT NULL CHECK (difficulte BETWEEN 1 AND 5),
    visible INTEGER NOT NULL DEFAULT 1,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS critique (
    critique_id INTEGER PRIMARY KEY AUTOINCREMENT,
    attraction_id INTEGER NOT NULL,
    nom TEXT NOT NULL DEFAULT '',
    prenom TEXT NOT NULL DEFAULT '',
    note INTEGER NOT NULL CHECK (note BETWEEN 1 AND 5),
    commentaire TEXT NOT NULL DEFAULT '',
    est_anonyme INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (attraction_id) REFERENCES attraction(attraction_id)
        ON DELETE CASCADE ON UPDATE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_attraction_visible ON attraction(visible);
CREATE INDEX IF NOT EXISTS idx_attraction_difficulte ON attraction(difficulte);
CREATE INDEX IF NOT EXISTS idx_critique_attraction_id ON critique(attraction_id);
CREATE INDEX IF NOT EXISTS idx_critique_note ON critique(note);
CREATE INDEX IF NOT EXISTS idx_critique_created_at ON critique(created_at);
`

const dropSchema = `
DROP TABLE IF EXISTS critique;
DROP TABLE IF EXISTS attraction;
DROP TABLE IF EXISTS users;
`

// rawSQL is a fixed statement without bound arguments, used for DDL.
type rawSQL string

func (r rawSQL) ToSQL() (string, []interface{}, error) {
	return string(r), nil, nil
}

// migrate executes the schema setup.
func (s *SQLiteStore) migrate(ctx context.Context) error {
	_, err := s.exec(ctx, "migrate", rawSQL(schema))
	return err
}

// Reset drops every table and recreates an empty schema.
// All existing data is lost.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	if _, err := s.exec(ctx, "drop schema", rawSQL(dropSchema)); err != nil {
		return err
	}
	return s.migrate(ctx)
}
