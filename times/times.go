// Package times converts durations to localised text and parses short duration strings.
package times

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tibue99/ezcord-sub000/localization"
)

// ErrNoDuration is returned by ConvertToSeconds when the input holds no number.
var ErrNoDuration = errors.New("no duration found")

const catalogSection = "times"

// Timestamp styles understood by the Discord client.
const (
	StyleShortTime     = "t"
	StyleLongTime      = "T"
	StyleShortDate     = "d"
	StyleLongDate      = "D"
	StyleShortDateTime = "f"
	StyleLongDateTime  = "F"
	StyleRelative      = "R"
)

var durationPattern = regexp.MustCompile(`(?i)(\d+([.,]\d+)?) *([smhdtw]?)`)

var unitSeconds = map[string]float64{
	"":  1,
	"s": 1,
	"m": 60,
	"h": 60 * 60,
	"d": 24 * 60 * 60,
	"t": 24 * 60 * 60,
	"w": 7 * 24 * 60 * 60,
}

// ConvertTime renders seconds as "<n> <unit>" using the largest unit below the next threshold.
// relative only changes the day form, e.g. German "5 Tagen" against "5 Tage".
func ConvertTime(ctx context.Context, catalog *localization.Catalog, seconds float64, relative bool) string {
	seconds = math.Abs(seconds)

	if seconds < 60 {
		return unitText(ctx, catalog, "sec", seconds, true)
	}
	minutes := seconds / 60
	if minutes < 60 {
		return unitText(ctx, catalog, "min", minutes, true)
	}
	hours := minutes / 60
	if hours < 24 {
		return unitText(ctx, catalog, "hour", hours, true)
	}
	return unitText(ctx, catalog, "day", hours/24, relative)
}

// ConvertDuration is ConvertTime for a time.Duration.
func ConvertDuration(ctx context.Context, catalog *localization.Catalog, d time.Duration, relative bool) string {
	return ConvertTime(ctx, catalog, d.Seconds(), relative)
}

// ConvertSince renders the distance between t and now.
func ConvertSince(ctx context.Context, catalog *localization.Catalog, t time.Time, relative bool) string {
	return ConvertDuration(ctx, catalog, time.Since(t), relative)
}

func unitText(ctx context.Context, catalog *localization.Catalog, key string, value float64, relative bool) string {
	amount := int(math.RoundToEven(value))
	return fmt.Sprintf("%d %s", amount, catalog.Plural(ctx, catalogSection, key, amount, relative))
}

// DiscordTimestamp formats t as a Discord timestamp markup. An empty style means relative.
func DiscordTimestamp(t time.Time, style string) string {
	if style == "" {
		style = StyleRelative
	}
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}

// DiscordTimestampIn formats the moment seconds from now.
func DiscordTimestampIn(seconds float64, style string) string {
	return DiscordTimestamp(time.Now().Add(time.Duration(seconds*float64(time.Second))), style)
}

// SetUTC returns t with its location replaced by UTC, keeping the wall clock.
func SetUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// ConvertToSeconds parses strings such as "1h 5m 10s", "1.5m" or "1,5 min".
// A number without a unit counts as seconds. A repeated unit replaces the earlier value.
func ConvertToSeconds(s string) (int, error) {
	matches := durationPattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("%w in %q", ErrNoDuration, s)
	}

	found := make(map[float64]float64, len(matches))
	for _, match := range matches {
		value, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", "."), 64)
		if err != nil {
			return 0, fmt.Errorf("parse duration value %q: %w", match[1], err)
		}
		found[unitSeconds[strings.ToLower(match[3])]] = value
	}

	var total float64
	for factor, value := range found {
		total += factor * value
	}
	return int(total), nil
}
