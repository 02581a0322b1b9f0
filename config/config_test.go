package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ConfigSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) TestContextHelpersAndKeyString() {
	ctx := context.Background()
	cfg := ConfigurationDefault{ServiceName: "bot"}

	s.Equal("ezcord/config/configurationKey", ctxKeyConfiguration.String())

	ctx = ToContext(ctx, cfg)
	fromCtx := FromContext[ConfigurationDefault](ctx)
	s.Equal("bot", fromCtx.ServiceName)

	missing := FromContext[*ConfigurationDefault](context.Background())
	s.Nil(missing)
}

func (s *ConfigSuite) TestFromEnvDefaults() {
	cfg, err := FromEnv[ConfigurationDefault]()
	s.Require().NoError(err)

	s.Equal("info", cfg.LoggingLevel())
	s.True(cfg.LoggingColored())
	s.Equal("en", cfg.Language())
	s.Equal("en", cfg.FallbackLocale())
	s.False(cfg.PreferUserLocale())
	s.Empty(cfg.DisabledTranslations())
	s.Empty(cfg.LanguageSettingsURI())
	s.Equal(5*time.Minute, cfg.LanguageSettingsCacheTTL())
	s.InDelta(0.1, cfg.SamplingRatio(), 1e-9)
}

func (s *ConfigSuite) TestFromEnvAndFillEnv() {
	s.T().Setenv("EZCORD_LANGUAGE", "de")
	s.T().Setenv("EZCORD_FALLBACK_LOCALE", "en-US")
	s.T().Setenv("EZCORD_PREFER_USER_LOCALE", "true")
	s.T().Setenv("EZCORD_DISABLE_TRANSLATIONS", "send,edit_message")
	s.T().Setenv("EZCORD_DEBUG", "true")
	s.T().Setenv("EZCORD_LOCALIZE_NUMBERS", "true")
	s.T().Setenv("EZCORD_LOCALIZATION_DIR", "lang")
	s.T().Setenv("EZCORD_LANGUAGE_SETTINGS_URI", "sqlite://bot.db")
	s.T().Setenv("EZCORD_SETTINGS_CACHE_TTL", "30s")

	cfg, err := FromEnv[ConfigurationDefault]()
	s.Require().NoError(err)

	s.Equal("de", cfg.Language())
	s.Equal("en-US", cfg.FallbackLocale())
	s.True(cfg.PreferUserLocale())
	s.Equal([]string{"send", "edit_message"}, cfg.DisabledTranslations())
	s.True(cfg.LocalizationDebug())
	s.True(cfg.LocalizeNumbers())
	s.Equal("lang", cfg.LocalizationDir())
	s.Equal("sqlite://bot.db", cfg.LanguageSettingsURI())
	s.Equal(30*time.Second, cfg.LanguageSettingsCacheTTL())

	var target ConfigurationDefault
	s.Require().NoError(FillEnv(&target))
	s.Equal("de", target.Language())
}

func (s *ConfigSuite) TestGettersTable() {
	testCases := []struct {
		name         string
		cfg          ConfigurationDefault
		wantLanguage string
		wantFallback string
		wantTTL      time.Duration
		wantDebugLog bool
	}{
		{
			name:         "empty values fall back",
			cfg:          ConfigurationDefault{SettingsCacheTTL: "invalid"},
			wantLanguage: "en",
			wantFallback: "en",
			wantTTL:      DefaultSettingsCacheTTL,
		},
		{
			name: "explicit values",
			cfg: ConfigurationDefault{
				LanguageValue:       "fr",
				FallbackLocaleValue: "de",
				SettingsCacheTTL:    "1h",
				LogLevel:            "trace",
			},
			wantLanguage: "fr",
			wantFallback: "de",
			wantTTL:      time.Hour,
			wantDebugLog: true,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.wantLanguage, tc.cfg.Language())
			s.Equal(tc.wantFallback, tc.cfg.FallbackLocale())
			s.Equal(tc.wantTTL, tc.cfg.LanguageSettingsCacheTTL())
			s.Equal(tc.wantDebugLog, tc.cfg.LoggingLevelIsDebug())
		})
	}
}

func (s *ConfigSuite) TestLoadDotEnv() {
	dir := s.T().TempDir()
	path := filepath.Join(dir, ".env")
	s.Require().NoError(os.WriteFile(path, []byte("EZCORD_DOTENV_TEST=from-file\nEZCORD_DOTENV_KEEP=file\n"), 0o600))

	s.T().Setenv("EZCORD_DOTENV_KEEP", "process")
	s.T().Setenv("EZCORD_DOTENV_TEST", "")
	s.Require().NoError(os.Unsetenv("EZCORD_DOTENV_TEST"))

	s.Require().NoError(LoadDotEnv(filepath.Join(dir, "missing.env"), path))
	s.Equal("from-file", os.Getenv("EZCORD_DOTENV_TEST"))
	s.Equal("process", os.Getenv("EZCORD_DOTENV_KEEP"))

	broken := filepath.Join(dir, "broken.env")
	s.Require().NoError(os.WriteFile(broken, []byte("NOT VALID ' LINE"), 0o600))
	s.Error(LoadDotEnv(broken))
}

func (s *ConfigSuite) TestLoadYAML() {
	dir := s.T().TempDir()
	path := filepath.Join(dir, "ezcord.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(
		"language: es\nfallback_locale: en-GB\ndisable_translations: [send, reply]\nsettings_cache_ttl: 10s\n"), 0o600))

	var cfg ConfigurationDefault
	s.Require().NoError(LoadYAML(path, &cfg))
	s.Equal("es", cfg.Language())
	s.Equal("en-GB", cfg.FallbackLocale())
	s.Equal([]string{"send", "reply"}, cfg.DisabledTranslations())
	s.Equal(10*time.Second, cfg.LanguageSettingsCacheTTL())

	s.Error(LoadYAML(filepath.Join(dir, "missing.yaml"), &cfg))

	s.Require().NoError(os.WriteFile(path, []byte("language: [unterminated"), 0o600))
	s.Error(LoadYAML(path, &cfg))
}
