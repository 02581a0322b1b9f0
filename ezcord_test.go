package ezcord_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/tibue99/ezcord-sub000"
	"github.com/tibue99/ezcord-sub000/config"
	"github.com/tibue99/ezcord-sub000/emb"
	"github.com/tibue99/ezcord-sub000/localization"
	"github.com/tibue99/ezcord-sub000/settings"
	"github.com/tibue99/ezcord-sub000/telemetry"
)

type ExtensionTestSuite struct {
	suite.Suite
}

func TestExtensionSuite(t *testing.T) {
	suite.Run(t, new(ExtensionTestSuite))
}

func defaultConfig() *config.ConfigurationDefault {
	cfg, _ := config.FromEnv[config.ConfigurationDefault]()
	cfg.OpenTelemetryDisable = true
	return &cfg
}

func greetings() localization.Localizations {
	return localization.Localizations{
		"en": {"greet": map[string]any{"hello": map[string]any{"msg": "Hello {name}"}}},
		"de": {"greet": map[string]any{"hello": map[string]any{"msg": "Hallo {name}"}}},
	}
}

func (s *ExtensionTestSuite) TestDefaults() {
	ctx, ext := ezcord.New("bot")
	defer ext.Close(ctx)

	s.Empty(ext.StartupErrors())
	s.Equal("bot", ext.Name())
	s.Nil(ext.Localization())
	s.Nil(ext.Messenger())
	s.Nil(ext.Embeds())
	s.Nil(ext.LanguageSettings())
	s.Nil(ext.Telemetry())
	s.Require().NotNil(ext.Catalog())
	s.Equal("en", ext.Catalog().Language())
	s.Same(ext, ezcord.FromContext(ctx))
	s.NotNil(config.FromContext[*config.ConfigurationDefault](ctx))
	s.NotNil(ext.Log(ctx))
	s.NotNil(ext.SLog(ctx))
}

func (s *ExtensionTestSuite) TestConfigNamesTheExtension() {
	cfg := defaultConfig()
	cfg.ServiceName = "ezbot"
	cfg.ServiceVersion = "1.2.3"
	cfg.LanguageValue = "de"

	ctx, ext := ezcord.New("bot", ezcord.WithConfig(cfg))
	defer ext.Close(ctx)

	s.Equal("ezbot", ext.Name())
	s.Equal("1.2.3", ext.Version())
	s.Same(cfg, ext.Config())
	s.Equal("de", ext.Catalog().Language())
	s.Equal("Sekunde", ext.Catalog().Text(ctx, "times", "sec", nil))
}

func (s *ExtensionTestSuite) TestLocalization() {
	cfg := defaultConfig()
	cfg.DisableTranslations = []string{localization.EntryReply}

	ctx, ext := ezcord.New("bot",
		ezcord.WithConfig(cfg),
		ezcord.WithLocalization(greetings(), localization.WithFallbackLocale("de")))
	defer ext.Close(ctx)

	s.Require().Empty(ext.StartupErrors())
	manager := ext.Localization()
	s.Require().NotNil(manager)
	s.Same(manager, localization.FromContext(ctx))
	s.Equal("de", manager.FallbackLocale())
	s.True(manager.Disabled(localization.EntryReply))

	site := localization.WithSite(localization.Site("greet", "hello"))
	s.Equal("Hallo Timo", localization.T(ctx, "fr", "msg", site, localization.WithVar("name", "Timo")))
}

func (s *ExtensionTestSuite) TestSecondLocalizationIsRejected() {
	ctx, ext := ezcord.New("bot",
		ezcord.WithConfig(defaultConfig()),
		ezcord.WithLocalization(greetings()),
		ezcord.WithLocalizationDir(s.T().TempDir()))
	defer ext.Close(ctx)

	errs := ext.StartupErrors()
	s.Require().Len(errs, 1)
	s.ErrorIs(errs[0], ezcord.ErrLocalizationInitialized)
	s.NotNil(ext.Localization())
}

func (s *ExtensionTestSuite) TestLocalizationDir() {
	dir := s.T().TempDir()
	s.Require().NoError(os.WriteFile(filepath.Join(dir, "en.json"),
		[]byte(`{"greet": {"hello": {"msg": "Hello"}}}`), 0o600))
	s.Require().NoError(os.WriteFile(filepath.Join(dir, "de.yaml"),
		[]byte("greet:\n  hello:\n    msg: Hallo\n"), 0o600))

	testCases := []struct {
		name string
		opts func() []ezcord.Option
	}{
		{
			name: "option",
			opts: func() []ezcord.Option {
				return []ezcord.Option{ezcord.WithConfig(defaultConfig()), ezcord.WithLocalizationDir(dir)}
			},
		},
		{
			name: "config",
			opts: func() []ezcord.Option {
				cfg := defaultConfig()
				cfg.LocalizationDirValue = dir
				return []ezcord.Option{ezcord.WithConfig(cfg)}
			},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			ctx, ext := ezcord.New("bot", tc.opts()...)
			defer ext.Close(ctx)

			s.Require().Empty(ext.StartupErrors())
			s.Require().NotNil(ext.Localization())
			s.Contains(ext.Localization().Locales(), "de")
			s.Equal("Hallo", ext.Localization().Text(ctx, "de", "greet.hello.msg"))
		})
	}

	ctx, ext := ezcord.New("bot", ezcord.WithConfig(defaultConfig()),
		ezcord.WithLocalizationDir(filepath.Join(dir, "missing")))
	defer ext.Close(ctx)
	s.Len(ext.StartupErrors(), 1)
}

func (s *ExtensionTestSuite) TestLanguageSettings() {
	store := settings.NewMemoryStore()
	s.Require().NoError(store.SetLocale(context.Background(), "g1", "de"))

	ctx, ext := ezcord.New("bot",
		ezcord.WithConfig(defaultConfig()),
		ezcord.WithLanguageSettings(store),
		ezcord.WithLocalization(greetings()))
	defer ext.Close(ctx)

	s.Same(store, ext.LanguageSettings())
	s.Equal("de", ext.Localization().Locale(ctx, &discordgo.Guild{ID: "g1"}))
}

func (s *ExtensionTestSuite) TestLanguageSettingsURI() {
	uri := "sqlite://" + filepath.Join(s.T().TempDir(), "settings.db")

	ctx, ext := ezcord.New("bot", ezcord.WithConfig(defaultConfig()), ezcord.WithLanguageSettingsURI(uri))
	s.Require().Empty(ext.StartupErrors())
	s.Require().NotNil(ext.LanguageSettings())
	s.Require().NoError(ext.LanguageSettings().SetLocale(ctx, "u1", "de"))
	ext.Close(ctx)

	ctx, ext = ezcord.New("bot", ezcord.WithConfig(defaultConfig()), ezcord.WithLanguageSettingsURI("mongodb://x"))
	defer ext.Close(ctx)
	s.Require().Len(ext.StartupErrors(), 1)
	s.ErrorIs(ext.StartupErrors()[0], settings.ErrUnsupportedScheme)
	s.Nil(ext.LanguageSettings())
}

func (s *ExtensionTestSuite) TestSession() {
	session, err := discordgo.New("Bot test-token")
	s.Require().NoError(err)

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	ctx, ext := ezcord.New("bot",
		ezcord.WithConfig(defaultConfig()),
		ezcord.WithSession(session),
		ezcord.WithTracerProvider(provider),
		ezcord.WithLocalization(greetings()),
		ezcord.WithEmbedTemplates(emb.WithTemplate("notice", emb.TextTemplate("Notice"))))
	defer ext.Close(ctx)

	s.Same(session, ext.Session())
	s.Require().NotNil(ext.Messenger())
	s.Same(ext.Localization(), ext.Messenger().Manager())
	s.Require().NotNil(ext.Embeds())
	s.Contains(ext.Embeds().Templates().Names(), "notice")
}

func (s *ExtensionTestSuite) TestTelemetry() {
	ctx, ext := ezcord.New("bot", ezcord.WithConfig(defaultConfig()), ezcord.WithTelemetry())
	defer ext.Close(ctx)

	s.Require().NotNil(ext.Telemetry())
	s.True(ext.Telemetry().Disabled())
	s.Empty(ext.StartupErrors())
}

func (s *ExtensionTestSuite) TestTelemetryEnabled() {
	for _, name := range []string{"OTEL_TRACES_EXPORTER", "OTEL_METRICS_EXPORTER", "OTEL_LOGS_EXPORTER"} {
		s.T().Setenv(name, "")
	}

	cfg := defaultConfig()
	cfg.OpenTelemetryDisable = false
	cfg.OpenTelemetryTraceRatio = 1
	cfg.LanguageValue = "de"
	exporter := tracetest.NewInMemoryExporter()

	ctx, ext := ezcord.New("bot",
		ezcord.WithConfig(cfg),
		ezcord.WithTelemetry(telemetry.WithTraceExporter(exporter)))

	s.Empty(ext.StartupErrors())
	s.Require().NotNil(ext.Telemetry())
	s.False(ext.Telemetry().Disabled())
	s.NotNil(ext.Telemetry().LogHandler())

	defer ext.Close(ctx)

	_, span := otel.Tracer("ezcord.test").Start(ctx, "ready")
	span.End()

	provider, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	s.Require().True(ok)
	s.Require().NoError(provider.ForceFlush(ctx))

	spans := exporter.GetSpans()
	s.Require().Len(spans, 1)
	name, ok := spans[0].Resource.Set().Value(attribute.Key("service.name"))
	s.Require().True(ok)
	s.Equal("bot", name.AsString())
	language, ok := spans[0].Resource.Set().Value(telemetry.AttrLanguageKey)
	s.Require().True(ok)
	s.Equal("de", language.AsString())
}

func (s *ExtensionTestSuite) TestCloseRunsCleanupsInReverseOnce() {
	ctx, ext := ezcord.New("bot", ezcord.WithConfig(defaultConfig()))

	var order []int
	ext.AddCleanupMethod(func(context.Context) { order = append(order, 1) })
	ext.AddCleanupMethod(func(context.Context) { order = append(order, 2) })
	ext.AddCleanupMethod(func(context.Context) { order = append(order, 3) })

	ext.Close(ctx)
	ext.Close(ctx)

	s.Equal([]int{3, 2, 1}, order)
}
