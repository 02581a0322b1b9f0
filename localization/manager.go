package localization

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pitabwire/util"
)

// ErrUnknownLocale is returned when the configured fallback locale has no table.
var ErrUnknownLocale = errors.New("unknown locale")

var (
	placeholderPattern = regexp.MustCompile(`{(.*?)}`)
	localPattern       = regexp.MustCompile(`{\..*?}`)
)

// Manager holds the processed localization tables and the settings used to pick a locale.
// It is immutable once New returns and can be shared between goroutines.
type Manager struct {
	tables  Localizations
	locales []string
	opts    options
}

// New copies localizations, applies the general variable pass and returns a ready Manager.
// An "en" table also serves "en-GB" and "en-US" unless those are registered separately.
func New(ctx context.Context, localizations Localizations, opts ...Option) (*Manager, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(localizations) == 0 {
		return nil, errors.New("no localizations supplied")
	}

	tables := make(Localizations, len(localizations))
	for locale, table := range localizations {
		if cfg.processStrings {
			tables[locale] = processGeneral(table.Clone(), cfg.variables)
		} else {
			tables[locale] = table.Clone()
		}
	}

	if en, ok := tables["en"]; ok {
		for _, alias := range []string{"en-GB", "en-US"} {
			if _, exists := tables[alias]; !exists {
				tables[alias] = en
			}
		}
	}

	m := &Manager{tables: tables, opts: cfg}
	for locale := range tables {
		m.locales = append(m.locales, locale)
	}
	sort.Strings(m.locales)

	fallback, ok := m.match(cfg.fallbackLocale)
	if !ok {
		return nil, fmt.Errorf("%w: fallback %q", ErrUnknownLocale, cfg.fallbackLocale)
	}
	m.opts.fallbackLocale = fallback

	if cfg.debug {
		for _, missing := range m.CheckLocalizations() {
			util.Log(ctx).
				WithField("locale", missing.Locale).
				WithField("keys", missing.Keys).
				Warn("locale misses keys from the fallback locale")
		}
	}

	return m, nil
}

// Locales returns the registered locale codes, aliases included, sorted.
func (m *Manager) Locales() []string {
	return append([]string(nil), m.locales...)
}

// FallbackLocale returns the locale used when nothing better matches.
func (m *Manager) FallbackLocale() string {
	return m.opts.fallbackLocale
}

// Namespace returns the documented key pattern.
func (m *Manager) Namespace() string {
	return m.opts.namespace
}

// Disabled reports whether the entry point was opted out of automatic localization.
func (m *Manager) Disabled(entry string) bool {
	_, ok := m.opts.disabled[entry]
	return ok
}

// Table returns the processed table of locale. It must not be modified.
func (m *Manager) Table(locale string) (Table, bool) {
	t, ok := m.tables[locale]
	return t, ok
}

// T resolves key for the locale of src and substitutes the supplied variables.
func (m *Manager) T(ctx context.Context, src any, key string, opts ...TextOption) string {
	return m.Text(ctx, m.Locale(ctx, src), key, opts...)
}

// Text resolves key in locale, fills variables and expands nested {section.key} references.
func (m *Manager) Text(ctx context.Context, locale, key string, opts ...TextOption) string {
	if key == "" {
		return ""
	}

	t := buildTextOptions(ctx, opts)
	table := m.tableFor(locale)

	text := m.resolve(ctx, table, locale, *t.site, key, t.count)

	vars := t.vars
	if t.count != nil {
		vars = withVar(vars, "count", *t.count)
	}
	vars = m.prepareVars(locale, vars)

	text = SubstituteString(text, vars)
	if strings.Contains(text, "{") && strings.Contains(text, "}") {
		text = placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
			inner := match[1 : len(match)-1]
			resolved, found := m.lookup(table, *t.site, inner, t.count)
			if !found || resolved == inner {
				return match
			}
			return resolved
		})
	}

	return SubstituteString(text, vars)
}

// Resolve returns the raw string stored for key, or key itself when no lookup path matches.
func (m *Manager) Resolve(ctx context.Context, locale string, site CallSite, key string) string {
	return m.resolve(ctx, m.tableFor(locale), locale, site, key, nil)
}

func (m *Manager) resolve(ctx context.Context, table Table, locale string, site CallSite, key string, count *int) string {
	if m.opts.doNotLocalize != "" && strings.HasPrefix(key, m.opts.doNotLocalize) {
		return strings.Replace(key, m.opts.doNotLocalize, "", 1)
	}

	text, found := m.lookup(table, site, key, count)
	if !found && m.opts.debug {
		util.Log(ctx).
			WithField("key", key).
			WithField("locale", locale).
			WithField("file", site.File).
			WithField("function", site.Function).
			Debug("localization key not found")
	}
	return text
}

func (m *Manager) lookup(table Table, site CallSite, key string, count *int) (string, bool) {
	if key == "" || table == nil {
		return key, false
	}

	for _, path := range lookupPaths(site, key) {
		value, ok := table.Lookup(path...)
		if !ok {
			continue
		}
		if text, isLeaf := leafText(value, count); isLeaf {
			return text, true
		}
	}

	return key, false
}

func lookupPaths(site CallSite, key string) [][]string {
	var paths [][]string
	add := func(segments ...string) {
		for _, seg := range segments {
			if seg == "" {
				return
			}
		}
		paths = append(paths, segments)
	}

	if strings.Contains(key, ".") {
		parts := strings.Split(key, ".")
		add(parts...)
		add(append([]string{site.File}, parts...)...)
		return paths
	}

	add(site.File, site.Function, key)
	add(site.File, site.Class, key)
	add(site.File, GeneralSection, key)
	add(GeneralSection, key)
	add(site.File, key)
	for _, location := range site.Locations {
		add(site.File, location, key)
	}

	return paths
}

func leafText(value any, count *int) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case []any:
		if len(v) == 0 {
			return "", false
		}
		return leafText(v[rand.IntN(len(v))], count)
	case map[string]any:
		if count == nil {
			return "", false
		}
		for _, form := range pluralForms(*count) {
			if text, ok := v[form].(string); ok {
				return text, true
			}
		}
		return "", false
	default:
		return "", false
	}
}

func pluralForms(count int) []string {
	var forms []string
	switch {
	case count == 0:
		forms = append(forms, "zero")
	case count == 1:
		forms = append(forms, "one")
	case count > 1:
		forms = append(forms, "many")
	}
	return append(forms, strconv.Itoa(count), "other")
}

func (m *Manager) tableFor(locale string) Table {
	if t, ok := m.tables[locale]; ok {
		return t
	}
	if matched, ok := m.match(locale); ok {
		return m.tables[matched]
	}
	return m.tables[m.opts.fallbackLocale]
}

func withVar(vars Vars, name string, value any) Vars {
	out := make(Vars, len(vars)+1)
	for k, v := range vars {
		out[k] = v
	}
	out[name] = value
	return out
}

// processGeneral replaces {.name} and {name} references with general values once, at build time.
func processGeneral(table Table, variables Vars) Table {
	global := map[string]any{}
	for k, v := range table.Section(GeneralSection) {
		global[k] = v
	}
	for k, v := range variables {
		global[k] = v
	}

	return Table(replaceGeneral(map[string]any(table), global, nil).(map[string]any))
}

func replaceGeneral(value any, global, local map[string]any) any {
	switch v := value.(type) {
	case string:
		return replaceGeneralString(v, global, local)
	case map[string]any:
		if section, ok := v[GeneralSection].(map[string]any); ok {
			local = section
		}
		for k, item := range v {
			v[k] = replaceGeneral(item, global, local)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = replaceGeneral(item, global, local)
		}
		return v
	default:
		return v
	}
}

func replaceGeneralString(s string, global, local map[string]any) string {
	if !strings.Contains(s, "{") {
		return s
	}

	s = localPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := match[2 : len(match)-1]
		if value, ok := local[name]; ok {
			return render(value)
		}
		if value, ok := global[name]; ok {
			return render(value)
		}
		return name
	})

	return placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := match[1 : len(match)-1]
		if value, ok := global[name].(string); ok {
			return value
		}
		return match
	})
}
