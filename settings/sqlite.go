package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Registers the "sqlite" driver.
	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS language_settings (
	id TEXT PRIMARY KEY,
	locale TEXT NOT NULL
)`

// SQLiteStore keeps locales in a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and ensures the settings table exists.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if _, err = db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create language_settings table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Locale reads the language_settings row of id.
func (s *SQLiteStore) Locale(ctx context.Context, id string) (string, bool, error) {
	var locale string
	err := s.db.QueryRowContext(ctx, `SELECT locale FROM language_settings WHERE id = ?`, id).Scan(&locale)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return locale, true, nil
}

// SetLocale upserts the language_settings row of id.
func (s *SQLiteStore) SetLocale(ctx context.Context, id, locale string) error {
	if err := checkID(id); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO language_settings (id, locale) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET locale = excluded.locale`,
		id, locale)
	return err
}

// DeleteLocale removes the row of id. A missing row is not an error.
func (s *SQLiteStore) DeleteLocale(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM language_settings WHERE id = ?`, id)
	return err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
