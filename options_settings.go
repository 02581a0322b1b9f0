package ezcord

import (
	"context"

	"github.com/tibue99/ezcord-sub000/config"
	"github.com/tibue99/ezcord-sub000/settings"
)

// WithLanguageSettings uses store for per guild and per user locales. The caller keeps ownership
// and closes it.
func WithLanguageSettings(store settings.Store) Option {
	return func(_ context.Context, e *Extension) {
		e.languageSettings = store
	}
}

// WithLanguageSettingsURI opens a settings.Store from uri, see settings.Open. The store is cached
// for the configured TTL and closed by Close.
func WithLanguageSettingsURI(uri string) Option {
	return func(_ context.Context, e *Extension) {
		e.languageSettingsURI = uri
	}
}

func (e *Extension) setupLanguageSettings(ctx context.Context) {
	if e.languageSettings != nil {
		return
	}

	uri := e.languageSettingsURI
	cfg, hasCfg := e.configuration.(config.ConfigurationLanguageSettings)
	if uri == "" && hasCfg {
		uri = cfg.LanguageSettingsURI()
	}
	if uri == "" {
		return
	}

	store, err := settings.Open(ctx, uri)
	if err != nil {
		e.addStartupError(ctx, err)
		return
	}

	if hasCfg && cfg.LanguageSettingsCacheTTL() > 0 {
		store = settings.NewCachedStore(store, cfg.LanguageSettingsCacheTTL())
	}

	e.languageSettings = store
	e.AddCleanupMethod(func(ctx context.Context) {
		if closeErr := store.Close(); closeErr != nil {
			e.Log(ctx).WithError(closeErr).Error("could not close language settings")
		}
	})
}
