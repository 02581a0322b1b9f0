package times_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/tibue99/ezcord-sub000/localization"
	"github.com/tibue99/ezcord-sub000/times"
)

type TimesTestSuite struct {
	suite.Suite
	store *localization.Store
}

func TestTimesSuite(t *testing.T) {
	suite.Run(t, new(TimesTestSuite))
}

func (s *TimesTestSuite) SetupSuite() {
	s.store = localization.NewStore(localization.WithSearchRoot(s.T().TempDir()))
}

func (s *TimesTestSuite) TestConvertTime() {
	ctx := context.Background()

	testCases := []struct {
		name     string
		language string
		seconds  float64
		relative bool
		expected string
	}{
		{name: "one second", language: "en", seconds: 1, expected: "1 second"},
		{name: "seconds round to even", language: "en", seconds: 2.5, expected: "2 seconds"},
		{name: "minutes", language: "en", seconds: 90, expected: "2 minutes"},
		{name: "one hour", language: "en", seconds: 3600, expected: "1 hour"},
		{name: "hours", language: "en", seconds: 7200, expected: "2 hours"},
		{name: "days english ignore relative", language: "en", seconds: 450000, relative: true, expected: "5 days"},
		{name: "negative input", language: "en", seconds: -120, expected: "2 minutes"},
		{name: "german seconds", language: "de", seconds: 30, expected: "30 Sekunden"},
		{name: "german relative days", language: "de", seconds: 450000, relative: true, expected: "5 Tagen"},
		{name: "german absolute days", language: "de", seconds: 450000, expected: "5 Tage"},
		{name: "german single day", language: "de", seconds: 86400, expected: "1 Tag"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			got := times.ConvertTime(ctx, s.store.Catalog(tc.language), tc.seconds, tc.relative)
			s.Equal(tc.expected, got)
		})
	}

	s.Equal("2 hours", times.ConvertDuration(ctx, s.store.Catalog("en"), 2*time.Hour, false))
	s.Equal("1 minute", times.ConvertSince(ctx, s.store.Catalog("en"), time.Now().Add(-time.Minute), false))
}

func (s *TimesTestSuite) TestDiscordTimestamp() {
	moment := time.Unix(1700000000, 0)

	s.Equal("<t:1700000000:R>", times.DiscordTimestamp(moment, ""))
	s.Equal("<t:1700000000:F>", times.DiscordTimestamp(moment, times.StyleLongDateTime))
	s.Regexp(`^<t:\d+:t>$`, times.DiscordTimestampIn(60, times.StyleShortTime))
}

func (s *TimesTestSuite) TestSetUTC() {
	berlin := time.FixedZone("CET", 3600)
	local := time.Date(2024, 5, 1, 12, 30, 0, 0, berlin)

	utc := times.SetUTC(local)
	s.Equal(time.UTC, utc.Location())
	s.Equal(12, utc.Hour())
	s.Equal(30, utc.Minute())
}

func (s *TimesTestSuite) TestConvertToSeconds() {
	testCases := []struct {
		input    string
		expected int
		wantErr  bool
	}{
		{input: "1m 9s", expected: 69},
		{input: "1.5m", expected: 90},
		{input: "1,5 min", expected: 90},
		{input: "1h 5m 10s", expected: 3910},
		{input: "2d", expected: 172800},
		{input: "1T", expected: 86400},
		{input: "1w", expected: 604800},
		{input: "45", expected: 45},
		{input: "1m 2m", expected: 120},
		{input: "soon", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tc := range testCases {
		s.Run(tc.input, func() {
			got, err := times.ConvertToSeconds(tc.input)
			if tc.wantErr {
				s.Require().ErrorIs(err, times.ErrNoDuration)
				return
			}
			s.Require().NoError(err)
			s.Equal(tc.expected, got)
		})
	}
}
