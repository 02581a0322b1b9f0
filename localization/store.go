package localization

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pitabwire/util"
	"golang.org/x/text/language"
)

// AutoLanguage selects the store's default language.
const AutoLanguage = "auto"

//go:embed languages/*.json
var bundledLanguages embed.FS

// Store loads the library's own language tables. Every locale is read once: the result of the first
// successful Load is kept for the lifetime of the store.
type Store struct {
	bundle          fs.FS
	searchRoot      string
	defaultLanguage string

	mu       sync.Mutex
	cache    map[string]Table
	catalogs map[string]*Catalog
}

// StoreOption configures a Store.
type StoreOption func(s *Store)

// WithBundle replaces the embedded language files.
func WithBundle(bundle fs.FS) StoreOption {
	return func(s *Store) {
		s.bundle = bundle
	}
}

// WithSearchRoot sets the directory searched for ez_<locale> override files.
func WithSearchRoot(dir string) StoreOption {
	return func(s *Store) {
		s.searchRoot = dir
	}
}

// WithDefaultLanguage sets the language loaded for AutoLanguage.
func WithDefaultLanguage(language string) StoreOption {
	return func(s *Store) {
		if language != "" && language != AutoLanguage {
			s.defaultLanguage = language
		}
	}
}

// NewStore creates a store over the embedded language files and the working directory.
func NewStore(opts ...StoreOption) *Store {
	bundle, _ := fs.Sub(bundledLanguages, "languages")

	s := &Store{
		bundle:          bundle,
		defaultLanguage: DefaultFallbackLocale,
		cache:           map[string]Table{},
		catalogs:        map[string]*Catalog{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.searchRoot == "" {
		if wd, err := os.Getwd(); err == nil {
			s.searchRoot = wd
		}
	}

	return s
}

// Load returns the bundled table of locale with every ez_<locale> file under the search root merged
// on top, in walk order.
// A locale without a bundled file yields an empty table. The returned table must not be modified.
func (s *Store) Load(ctx context.Context, locale string) (Table, error) {
	requested := locale
	if locale == AutoLanguage || locale == "" {
		locale = s.defaultLanguage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if table, ok := s.cache[locale]; ok {
		return table, nil
	}

	table, err := s.readBundled(locale)
	if err != nil {
		return nil, err
	}

	for _, overridePath := range s.findOverrides(locale) {
		data, readErr := os.ReadFile(overridePath)
		if readErr != nil {
			return nil, fmt.Errorf("read %s: %w", overridePath, readErr)
		}
		override, decodeErr := Decode(overridePath, data)
		if decodeErr != nil {
			return nil, decodeErr
		}
		table = MergeSections(table, override)
	}

	if len(table) == 0 && requested != AutoLanguage {
		util.Log(ctx).WithField("language", locale).Warn("no language strings found for the requested language")
	}

	s.cache[locale] = table
	return table, nil
}

func (s *Store) readBundled(locale string) (Table, error) {
	if s.bundle == nil {
		return Table{}, nil
	}

	name := locale + ".json"
	data, err := fs.ReadFile(s.bundle, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Table{}, nil
		}
		return nil, err
	}

	return Decode(name, data)
}

func (s *Store) findOverrides(locale string) []string {
	if s.searchRoot == "" {
		return nil
	}

	wanted := map[string]struct{}{}
	for _, ext := range Extensions() {
		wanted["ez_"+locale+ext] = struct{}{}
	}

	var found []string
	_ = filepath.WalkDir(s.searchRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != s.searchRoot && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if _, ok := wanted[d.Name()]; ok {
			found = append(found, path)
		}
		return nil
	})

	return found
}

// Catalog binds the store to one language. Catalogs are shared per language.
func (s *Store) Catalog(language string) *Catalog {
	if language == "" || language == AutoLanguage {
		language = s.defaultLanguage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.catalogs[language]; ok {
		return c
	}
	c := &Catalog{store: s, language: language}
	s.catalogs[language] = c
	return c
}

// Catalog serves the library's internal strings for a single language, falling back to English.
// The section.key strings of the loaded tables are registered as messages of an i18n bundle on
// first use.
type Catalog struct {
	store    *Store
	language string

	once      sync.Once
	localizer *i18n.Localizer
}

// Language returns the catalog language.
func (c *Catalog) Language() string {
	return c.language
}

// Text returns the string stored at section.key with vars substituted, or key when it is missing.
func (c *Catalog) Text(ctx context.Context, section, key string, vars Vars) string {
	text, err := c.localize(ctx).Localize(&i18n.LocalizeConfig{MessageID: section + "." + key})
	if err != nil {
		return key
	}
	return SubstituteString(text, vars)
}

// Plural returns the string at section.key pluralized for count in the catalog language.
func (c *Catalog) Plural(ctx context.Context, section, key string, count int, relative bool) string {
	return Pluralize(c.language, count, c.Text(ctx, section, key, nil), relative)
}

func (c *Catalog) localize(ctx context.Context) *i18n.Localizer {
	c.once.Do(func() {
		bundle := i18n.NewBundle(language.English)

		languages := []string{DefaultFallbackLocale}
		if c.language != DefaultFallbackLocale {
			languages = append(languages, c.language)
		}

		for _, lang := range languages {
			log := util.Log(ctx).WithField("language", lang)

			tag, err := language.Parse(lang)
			if err != nil {
				log.WithError(err).Warn("unknown catalog language")
				continue
			}

			table, err := c.store.Load(ctx, lang)
			if err != nil {
				log.WithError(err).Error("could not load language file")
				continue
			}

			if err = bundle.AddMessages(tag, catalogMessages(table)...); err != nil {
				log.WithError(err).Error("could not register language strings")
			}
		}

		c.localizer = i18n.NewLocalizer(bundle, c.language, DefaultFallbackLocale)
	})
	return c.localizer
}

// catalogMessages turns the string leaves two levels down into section.key messages.
func catalogMessages(table Table) []*i18n.Message {
	var messages []*i18n.Message
	for section, value := range table {
		entries, ok := asMap(value)
		if !ok {
			continue
		}
		for key, leaf := range entries {
			if text, isString := leaf.(string); isString {
				messages = append(messages, &i18n.Message{ID: section + "." + key, Other: text})
			}
		}
	}
	return messages
}
