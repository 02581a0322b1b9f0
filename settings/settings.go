// Package settings persists the custom locale chosen for a guild or a user.
//
// Every Store satisfies localization.LanguageSettings and can be handed to
// localization.WithLanguageSettings.
package settings

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrUnsupportedScheme is returned by Open for an unknown uri scheme.
var ErrUnsupportedScheme = errors.New("unsupported language settings scheme")

// ErrEmptyID is returned when a guild or user id is empty.
var ErrEmptyID = errors.New("language settings id is empty")

// Store keeps custom locales by guild or user id.
type Store interface {
	// Locale returns the stored locale of id. The bool is false when nothing is stored.
	Locale(ctx context.Context, id string) (string, bool, error)
	SetLocale(ctx context.Context, id, locale string) error
	DeleteLocale(ctx context.Context, id string) error
	Close() error
}

// Open picks a backend by the scheme of uri:
//
//	mem://                               in process map
//	sqlite://<path>, file:<path>         SQLite database file
//	postgres://..., postgresql://...     PostgreSQL
//	redis://, rediss://, valkey://       Valkey or Redis
func Open(ctx context.Context, uri string) (Store, error) {
	trimmed := strings.TrimSpace(uri)
	if strings.HasPrefix(trimmed, "file:") {
		return openSQLite(ctx, trimmed)
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse language settings uri: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "mem", "memory":
		return NewMemoryStore(), nil
	case "sqlite", "sqlite3":
		path := strings.TrimPrefix(strings.TrimPrefix(trimmed, u.Scheme+":"), "//")
		return openSQLite(ctx, path)
	case "postgres", "postgresql":
		pg, pgErr := OpenPostgres(ctx, trimmed)
		if pgErr != nil {
			return nil, pgErr
		}
		return pg, nil
	case "redis", "rediss", "valkey", "valkeys":
		vk, vkErr := OpenValkey(ctx, trimmed)
		if vkErr != nil {
			return nil, vkErr
		}
		return vk, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

func openSQLite(ctx context.Context, path string) (Store, error) {
	s, err := OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func checkID(id string) error {
	if id == "" {
		return ErrEmptyID
	}
	return nil
}
