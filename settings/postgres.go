package settings

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS language_settings (
	id TEXT PRIMARY KEY,
	locale TEXT NOT NULL
)`

// PostgresStore keeps locales in a PostgreSQL table. Queries are traced with otelpgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to dsn, which may be a postgres:// url or a key=value dsn.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	cleaned, err := cleanPostgresDSN(dsn)
	if err != nil {
		return nil, err
	}

	cfg, err := pgxpool.ParseConfig(cleaned)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	cfg.ConnConfig.Tracer = otelpgx.NewTracer()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err = otelpgx.RecordStats(pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to record database stats: %w", err)
	}

	if _, err = pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create language_settings table: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Locale reads the language_settings row of id.
func (p *PostgresStore) Locale(ctx context.Context, id string) (string, bool, error) {
	var locale string
	err := p.pool.QueryRow(ctx, `SELECT locale FROM language_settings WHERE id = $1`, id).Scan(&locale)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return locale, true, nil
}

// SetLocale upserts the language_settings row of id.
func (p *PostgresStore) SetLocale(ctx context.Context, id, locale string) error {
	if err := checkID(id); err != nil {
		return err
	}

	_, err := p.pool.Exec(ctx,
		`INSERT INTO language_settings (id, locale) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET locale = EXCLUDED.locale`,
		id, locale)
	return err
}

// DeleteLocale removes the row of id. A missing row is not an error.
func (p *PostgresStore) DeleteLocale(ctx context.Context, id string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM language_settings WHERE id = $1`, id)
	return err
}

// Close closes the connection pool.
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

// cleanPostgresDSN checks if the input is already a DSN, otherwise converts a PostgreSQL URL to DSN.
func cleanPostgresDSN(pgString string) (string, error) {
	trimmed := strings.TrimSpace(pgString)
	lower := strings.ToLower(trimmed)
	if strings.Contains(trimmed, "=") && !strings.HasPrefix(lower, "postgres://") &&
		!strings.HasPrefix(lower, "postgresql://") {
		return trimmed, nil
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", err
	}

	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("invalid scheme: %s", u.Scheme)
	}

	user := ""
	password := ""
	if u.User != nil {
		user = u.User.Username()
		password, _ = u.User.Password()
	}
	port := u.Port()
	if port == "" {
		port = "5432"
	}

	dsn := []string{
		"host=" + u.Hostname(),
		"port=" + port,
		"user=" + user,
		"password=" + password,
		"dbname=" + strings.TrimPrefix(u.Path, "/"),
	}
	for k, vals := range u.Query() {
		for _, v := range vals {
			dsn = append(dsn, fmt.Sprintf("%s=%s", k, v))
		}
	}
	return strings.Join(dsn, " "), nil
}
