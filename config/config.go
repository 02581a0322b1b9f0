package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type contextKey string

func (c contextKey) String() string {
	return "ezcord/config/" + string(c)
}

const (
	ctxKeyConfiguration = contextKey("configurationKey")

	// DefaultSettingsCacheTTL applies when EZCORD_SETTINGS_CACHE_TTL is empty or invalid.
	DefaultSettingsCacheTTL = 5 * time.Minute
)

// ToContext adds the extension configuration to the current supplied context.
func ToContext(ctx context.Context, config any) context.Context {
	return context.WithValue(ctx, ctxKeyConfiguration, config)
}

// FromContext extracts the extension configuration from the supplied context if any exist.
func FromContext[T any](ctx context.Context) T {
	if cfg, ok := ctx.Value(ctxKeyConfiguration).(T); ok {
		return cfg
	}
	var zero T
	return zero
}

// FromEnv convenience method to process configs.
func FromEnv[T any]() (T, error) {
	return env.ParseAs[T]()
}

// FillEnv convenience method to fill a config object with environment data.
func FillEnv(v any) error {
	return env.Parse(v)
}

// LoadDotEnv loads .env files into the process environment. Variables that are already set win.
// Without paths ".env" in the working directory is read. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// LoadYAML fills v from the yaml document at path. Environment values should be applied
// afterwards with FillEnv when they are meant to override the file.
func LoadYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err = yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

type ConfigurationDefault struct {
	LogLevel      string `envDefault:"info"                      env:"LOG_LEVEL"       yaml:"log_level"`
	LogTimeFormat string `envDefault:"2006-01-02T15:04:05Z07:00" env:"LOG_TIME_FORMAT" yaml:"log_time_format"`
	LogColored    bool   `envDefault:"true"                      env:"LOG_COLORED"     yaml:"log_colored"`

	LogShowStackTrace bool `envDefault:"false" env:"LOG_SHOW_STACK_TRACE" yaml:"log_show_stack_trace"`

	OpenTelemetryDisable    bool    `envDefault:"false" env:"OPENTELEMETRY_DISABLE"        yaml:"opentelemetry_disable"`
	OpenTelemetryTraceRatio float64 `envDefault:"0.1"   env:"OPENTELEMETRY_TRACE_ID_RATIO" yaml:"opentelemetry_trace_id_ratio"`

	ServiceName    string `envDefault:"" env:"SERVICE_NAME"    yaml:"service_name"`
	ServiceVersion string `envDefault:"" env:"SERVICE_VERSION" yaml:"service_version"`

	LanguageValue         string   `envDefault:"en"    env:"EZCORD_LANGUAGE"             yaml:"language"`
	FallbackLocaleValue   string   `envDefault:"en"    env:"EZCORD_FALLBACK_LOCALE"      yaml:"fallback_locale"`
	PreferUserLocaleValue bool     `envDefault:"false" env:"EZCORD_PREFER_USER_LOCALE"   yaml:"prefer_user_locale"`
	DisableTranslations   []string `envSeparator:","   env:"EZCORD_DISABLE_TRANSLATIONS" yaml:"disable_translations"`
	Debug                 bool     `envDefault:"false" env:"EZCORD_DEBUG"                yaml:"debug"`
	LocalizeNumbersValue  bool     `envDefault:"false" env:"EZCORD_LOCALIZE_NUMBERS"     yaml:"localize_numbers"`
	LocalizationDirValue  string   `envDefault:""      env:"EZCORD_LOCALIZATION_DIR"     yaml:"localization_dir"`

	LanguageSettingsURIValue string `envDefault:""   env:"EZCORD_LANGUAGE_SETTINGS_URI" yaml:"language_settings_uri"`
	SettingsCacheTTL         string `envDefault:"5m" env:"EZCORD_SETTINGS_CACHE_TTL"    yaml:"settings_cache_ttl"`
}

type ConfigurationService interface {
	Name() string
	Version() string
}

var _ ConfigurationService = new(ConfigurationDefault)

func (c *ConfigurationDefault) Name() string {
	return c.ServiceName
}

func (c *ConfigurationDefault) Version() string {
	return c.ServiceVersion
}

type ConfigurationLogLevel interface {
	LoggingLevel() string
	LoggingTimeFormat() string
	LoggingShowStackTrace() bool
	LoggingColored() bool
	LoggingLevelIsDebug() bool
}

var _ ConfigurationLogLevel = new(ConfigurationDefault)

func (c *ConfigurationDefault) LoggingLevel() string {
	return c.LogLevel
}

func (c *ConfigurationDefault) LoggingTimeFormat() string {
	return c.LogTimeFormat
}

func (c *ConfigurationDefault) LoggingColored() bool {
	return c.LogColored
}

func (c *ConfigurationDefault) LoggingShowStackTrace() bool {
	return c.LogShowStackTrace
}

func (c *ConfigurationDefault) LoggingLevelIsDebug() bool {
	return c.LoggingLevel() == "debug" || c.LoggingLevel() == "trace"
}

type ConfigurationTelemetry interface {
	DisableOpenTelemetry() bool
	SamplingRatio() float64
}

var _ ConfigurationTelemetry = new(ConfigurationDefault)

func (c *ConfigurationDefault) DisableOpenTelemetry() bool {
	return c.OpenTelemetryDisable
}

func (c *ConfigurationDefault) SamplingRatio() float64 {
	return c.OpenTelemetryTraceRatio
}

// ConfigurationLocalization carries the settings of the localization manager and the internal catalog.
type ConfigurationLocalization interface {
	Language() string
	FallbackLocale() string
	PreferUserLocale() bool
	DisabledTranslations() []string
	LocalizationDebug() bool
	LocalizeNumbers() bool
	LocalizationDir() string
}

var _ ConfigurationLocalization = new(ConfigurationDefault)

func (c *ConfigurationDefault) Language() string {
	if c.LanguageValue == "" {
		return "en"
	}
	return c.LanguageValue
}

func (c *ConfigurationDefault) FallbackLocale() string {
	if c.FallbackLocaleValue == "" {
		return "en"
	}
	return c.FallbackLocaleValue
}

func (c *ConfigurationDefault) PreferUserLocale() bool {
	return c.PreferUserLocaleValue
}

func (c *ConfigurationDefault) DisabledTranslations() []string {
	return c.DisableTranslations
}

func (c *ConfigurationDefault) LocalizationDebug() bool {
	return c.Debug
}

func (c *ConfigurationDefault) LocalizeNumbers() bool {
	return c.LocalizeNumbersValue
}

func (c *ConfigurationDefault) LocalizationDir() string {
	return c.LocalizationDirValue
}

type ConfigurationLanguageSettings interface {
	LanguageSettingsURI() string
	LanguageSettingsCacheTTL() time.Duration
}

var _ ConfigurationLanguageSettings = new(ConfigurationDefault)

func (c *ConfigurationDefault) LanguageSettingsURI() string {
	return c.LanguageSettingsURIValue
}

func (c *ConfigurationDefault) LanguageSettingsCacheTTL() time.Duration {
	if c.SettingsCacheTTL != "" {
		duration, err := time.ParseDuration(c.SettingsCacheTTL)
		if err == nil {
			return duration
		}
	}

	return DefaultSettingsCacheTTL
}
