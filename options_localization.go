package ezcord

import (
	"context"
	"fmt"
	"os"

	"github.com/tibue99/ezcord-sub000/config"
	"github.com/tibue99/ezcord-sub000/localization"
)

// WithLocalization registers the application localizations. Only one registration is accepted,
// a second one records ErrLocalizationInitialized. opts override the values taken from the config.
func WithLocalization(localizations localization.Localizations, opts ...localization.Option) Option {
	return func(ctx context.Context, e *Extension) {
		if e.localizationSet {
			e.addStartupError(ctx, ErrLocalizationInitialized)
			return
		}
		e.localizationSet = true
		e.localizations = localizations
		e.localeOpts = opts
	}
}

// WithLocalizationDir registers the localizations found in dir, one <locale>.json, .yaml or .toml
// file per locale.
func WithLocalizationDir(dir string, opts ...localization.Option) Option {
	return func(ctx context.Context, e *Extension) {
		if e.localizationSet {
			e.addStartupError(ctx, ErrLocalizationInitialized)
			return
		}
		e.localizationSet = true
		e.localizationDir = dir
		e.localeOpts = opts
	}
}

func (e *Extension) setupLocalization(ctx context.Context) {
	cfg, hasCfg := e.configuration.(config.ConfigurationLocalization)

	language := localization.DefaultFallbackLocale
	storeOpts := []localization.StoreOption{}
	if hasCfg {
		language = cfg.Language()
		if language != localization.AutoLanguage {
			storeOpts = append(storeOpts, localization.WithDefaultLanguage(language))
		}
	}
	e.languages = localization.NewStore(storeOpts...)
	e.catalog = e.languages.Catalog(language)

	localizations := e.localizations
	dir := e.localizationDir
	if !e.localizationSet && hasCfg {
		dir = cfg.LocalizationDir()
	}
	if localizations == nil && dir != "" {
		loaded, err := localization.LoadDir(os.DirFS(dir))
		if err != nil {
			e.addStartupError(ctx, fmt.Errorf("load localizations from %s: %w", dir, err))
			return
		}
		localizations = loaded
	}
	if len(localizations) == 0 {
		return
	}

	var opts []localization.Option
	if hasCfg {
		opts = append(opts,
			localization.WithFallbackLocale(cfg.FallbackLocale()),
			localization.WithPreferUserLocale(cfg.PreferUserLocale()),
			localization.WithDisabledTranslations(cfg.DisabledTranslations()...),
			localization.WithDebug(cfg.LocalizationDebug()),
			localization.WithLocalizedNumbers(cfg.LocalizeNumbers(), true))
	}
	if e.languageSettings != nil {
		opts = append(opts, localization.WithLanguageSettings(e.languageSettings))
	}
	if e.session != nil && e.session.State != nil {
		opts = append(opts, localization.WithGuildLocales(localization.StateLocales{State: e.session.State}))
	}
	opts = append(opts, e.localeOpts...)

	manager, err := localization.New(ctx, localizations, opts...)
	if err != nil {
		e.addStartupError(ctx, err)
		return
	}
	e.manager = manager
}
