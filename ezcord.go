// Package ezcord assembles localization, language settings, the outbound Messenger and embed
// templates for a discordgo bot.
package ezcord

import (
	"context"
	"errors"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/pitabwire/util"
	"go.opentelemetry.io/otel/trace"

	"github.com/tibue99/ezcord-sub000/config"
	"github.com/tibue99/ezcord-sub000/emb"
	"github.com/tibue99/ezcord-sub000/localization"
	"github.com/tibue99/ezcord-sub000/localization/interceptors/discord"
	"github.com/tibue99/ezcord-sub000/settings"
	"github.com/tibue99/ezcord-sub000/telemetry"
	"github.com/tibue99/ezcord-sub000/version"
)

type contextKey string

func (c contextKey) String() string {
	return "ezcord/" + string(c)
}

const ctxKeyExtension = contextKey("extensionKey")

// ErrLocalizationInitialized is recorded when localizations are registered a second time.
var ErrLocalizationInitialized = errors.New("localization already initialized")

// Extension holds the pieces ezcord adds to a bot. It lives for the lifetime of the application and
// travels through contexts.
type Extension struct {
	name    string
	version string

	configuration any
	logger        *util.LogEntry
	loggerOpts    []util.Option

	telemetryEnabled bool
	telemetryOpts    []telemetry.Option
	telemetryManager telemetry.Manager
	tracerProvider   trace.TracerProvider

	localizations   localization.Localizations
	localizationDir string
	localizationSet bool
	localeOpts      []localization.Option
	manager         *localization.Manager
	languages       *localization.Store
	catalog         *localization.Catalog

	languageSettings    settings.Store
	languageSettingsURI string

	session   *discordgo.Session
	messenger *discord.Messenger

	templateOpts []emb.TemplateOption
	embeds       *emb.Sender

	startupErrors []error
	cleanups      []func(ctx context.Context)
	closeOnce     sync.Once
	mu            sync.Mutex
}

// Option configures an Extension. Options only record their input; New assembles the pieces in the
// order config, logger, settings, localization, session.
type Option func(ctx context.Context, e *Extension)

// New creates an Extension with a background context.
func New(name string, opts ...Option) (context.Context, *Extension) {
	return NewWithContext(context.Background(), name, opts...)
}

// NewWithContext creates an Extension and returns a context carrying it, its config, its logger
// and its localization manager.
func NewWithContext(ctx context.Context, name string, opts ...Option) (context.Context, *Extension) {
	e := &Extension{
		name:    name,
		version: version.Get().Version,
		logger:  util.Log(ctx),
	}
	ctx = util.ContextWithLogger(ctx, e.logger)

	e.Init(ctx, opts...)

	e.setupConfig(ctx)
	e.setupTelemetry(ctx)
	e.setupLogger(ctx)
	ctx = util.ContextWithLogger(ctx, e.logger)
	e.setupLanguageSettings(ctx)
	e.setupLocalization(ctx)
	e.setupSession(ctx)

	ctx = ToContext(ctx, e)
	ctx = config.ToContext(ctx, e.configuration)
	if e.manager != nil {
		ctx = localization.ToContext(ctx, e.manager)
	}
	return ctx, e
}

// ToContext pushes an Extension into the supplied context.
func ToContext(ctx context.Context, e *Extension) context.Context {
	return context.WithValue(ctx, ctxKeyExtension, e)
}

// FromContext obtains the Extension propagated through the context.
func FromContext(ctx context.Context) *Extension {
	e, ok := ctx.Value(ctxKeyExtension).(*Extension)
	if !ok {
		return nil
	}
	return e
}

// Init applies opts.
func (e *Extension) Init(ctx context.Context, opts ...Option) {
	for _, opt := range opts {
		opt(ctx, e)
	}
}

// Name returns the name given to New, or the configured service name.
func (e *Extension) Name() string {
	return e.name
}

// Version returns the configured version, or the build version.
func (e *Extension) Version() string {
	return e.version
}

// Localization returns the localization manager, nil when no localizations were registered.
func (e *Extension) Localization() *localization.Manager {
	return e.manager
}

// Messenger returns the outbound pipeline, nil without a session.
func (e *Extension) Messenger() *discord.Messenger {
	return e.messenger
}

// LanguageSettings returns the custom locale store, nil when none is configured.
func (e *Extension) LanguageSettings() settings.Store {
	return e.languageSettings
}

// Embeds returns the embed template sender, nil without a session.
func (e *Extension) Embeds() *emb.Sender {
	return e.embeds
}

// Catalog returns the library strings in the configured language.
func (e *Extension) Catalog() *localization.Catalog {
	return e.catalog
}

// Languages returns the store of the bundled library languages.
func (e *Extension) Languages() *localization.Store {
	return e.languages
}

// Session returns the discordgo session given with WithSession.
func (e *Extension) Session() *discordgo.Session {
	return e.session
}

// StartupErrors returns the errors collected while assembling the extension.
func (e *Extension) StartupErrors() []error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]error(nil), e.startupErrors...)
}

func (e *Extension) addStartupError(ctx context.Context, err error) {
	e.mu.Lock()
	e.startupErrors = append(e.startupErrors, err)
	e.mu.Unlock()
	util.Log(ctx).WithError(err).Error("ezcord startup failed")
}

// AddCleanupMethod registers f to run on Close. Methods run in reverse registration order.
func (e *Extension) AddCleanupMethod(f func(ctx context.Context)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cleanups = append(e.cleanups, f)
}

// Close runs the cleanup methods once.
func (e *Extension) Close(ctx context.Context) {
	e.closeOnce.Do(func() {
		e.mu.Lock()
		cleanups := e.cleanups
		e.cleanups = nil
		e.mu.Unlock()

		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i](ctx)
		}
	})
}
