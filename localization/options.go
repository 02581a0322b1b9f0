package localization

import (
	"context"
)

// Entry point names accepted by WithDisabledTranslations.
const (
	EntrySend                 = "send"
	EntryEdit                 = "edit"
	EntryReply                = "reply"
	EntrySendMessage          = "send_message"
	EntrySendModal            = "send_modal"
	EntryEditMessage          = "edit_message"
	EntryEditOriginalResponse = "edit_original_response"
	EntryWebhookSend          = "webhook_send"
	EntryWebhookEditMessage   = "webhook_edit_message"
)

// DefaultFallbackLocale is used when a resolved locale has no table.
const DefaultFallbackLocale = "en"

// DefaultDoNotLocalize marks strings that must be sent verbatim.
const DefaultDoNotLocalize = ".."

// LanguageSettings returns a custom locale stored for a guild or user id.
type LanguageSettings interface {
	Locale(ctx context.Context, id string) (string, bool, error)
}

// LanguageSettingsFunc adapts a plain lookup function to LanguageSettings.
type LanguageSettingsFunc func(ctx context.Context, id string) (string, bool, error)

// Locale implements LanguageSettings.
func (f LanguageSettingsFunc) Locale(ctx context.Context, id string) (string, bool, error) {
	return f(ctx, id)
}

// GuildLocales looks up the preferred locale of a guild that is only known by id.
type GuildLocales interface {
	GuildLocale(guildID string) (string, bool)
}

type options struct {
	fallbackLocale  string
	preferUser      bool
	disabled        map[string]struct{}
	debug           bool
	variables       Vars
	processStrings  bool
	localizeNumbers bool
	ignoreIDs       bool
	doNotLocalize   string
	namespace       string
	settings        LanguageSettings
	guilds          GuildLocales
}

func defaultOptions() options {
	return options{
		fallbackLocale: DefaultFallbackLocale,
		disabled:       map[string]struct{}{},
		variables:      Vars{},
		processStrings: true,
		ignoreIDs:      true,
		doNotLocalize:  DefaultDoNotLocalize,
		namespace:      "{file}.{function}.{key}",
	}
}

// Option configures a Manager while it is being built.
type Option func(o *options)

// WithFallbackLocale sets the locale used when the resolved one has no table.
func WithFallbackLocale(locale string) Option {
	return func(o *options) {
		if locale != "" {
			o.fallbackLocale = locale
		}
	}
}

// WithPreferUserLocale makes the user's client locale win over the guild locale.
func WithPreferUserLocale(prefer bool) Option {
	return func(o *options) {
		o.preferUser = prefer
	}
}

// WithDisabledTranslations opts the named entry points out of automatic localization.
func WithDisabledTranslations(names ...string) Option {
	return func(o *options) {
		for _, name := range names {
			o.disabled[name] = struct{}{}
		}
	}
}

// WithDebug logs lookup misses at debug level and missing keys at build time.
func WithDebug(debug bool) Option {
	return func(o *options) {
		o.debug = debug
	}
}

// WithVariables adds general variables that are the same in every language.
func WithVariables(vars Vars) Option {
	return func(o *options) {
		for k, v := range vars {
			o.variables[k] = v
		}
	}
}

// WithProcessStrings toggles the load time replacement of general variables.
func WithProcessStrings(process bool) Option {
	return func(o *options) {
		o.processStrings = process
	}
}

// WithLocalizedNumbers prints integer variables with the thousands separator of the target locale.
// Numbers that look like snowflake ids are left alone unless ignoreIDs is false.
func WithLocalizedNumbers(localize, ignoreIDs bool) Option {
	return func(o *options) {
		o.localizeNumbers = localize
		o.ignoreIDs = ignoreIDs
	}
}

// WithDoNotLocalize changes the prefix that marks verbatim strings.
func WithDoNotLocalize(prefix string) Option {
	return func(o *options) {
		o.doNotLocalize = prefix
	}
}

// WithNamespace records the documented key pattern. Lookups always use the layered order.
func WithNamespace(pattern string) Option {
	return func(o *options) {
		o.namespace = pattern
	}
}

// WithLanguageSettings consults store for per guild and per user locale overrides.
func WithLanguageSettings(store LanguageSettings) Option {
	return func(o *options) {
		o.settings = store
	}
}

// WithGuildLocales resolves guild locales for sources that only carry a guild id.
func WithGuildLocales(guilds GuildLocales) Option {
	return func(o *options) {
		o.guilds = guilds
	}
}

// TextOption configures a single lookup.
type TextOption func(t *textOptions)

type textOptions struct {
	vars  Vars
	count *int
	site  *CallSite
}

// WithVars supplies substitution variables for a lookup.
func WithVars(vars Vars) TextOption {
	return func(t *textOptions) {
		if t.vars == nil {
			t.vars = Vars{}
		}
		for k, v := range vars {
			t.vars[k] = v
		}
	}
}

// WithVar supplies a single substitution variable.
func WithVar(name string, value any) TextOption {
	return WithVars(Vars{name: value})
}

// WithCount selects plural forms and exposes {count}.
func WithCount(count int) TextOption {
	return func(t *textOptions) {
		t.count = &count
	}
}

// WithSite sets the lookup namespace, overriding any site stored in the context.
func WithSite(site CallSite) TextOption {
	return func(t *textOptions) {
		t.site = &site
	}
}

func buildTextOptions(ctx context.Context, opts []TextOption) textOptions {
	t := textOptions{}
	for _, opt := range opts {
		opt(&t)
	}

	if t.site == nil {
		if site, ok := CallSiteFromContext(ctx); ok {
			t.site = &site
		} else {
			t.site = &CallSite{}
		}
	}

	if t.vars == nil {
		t.vars = Vars{}
	}

	return t
}
