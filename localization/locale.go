package localization

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/pitabwire/util"
)

// StateLocales resolves guild locales from the session state cache.
type StateLocales struct {
	State *discordgo.State
}

// GuildLocale implements GuildLocales.
func (s StateLocales) GuildLocale(guildID string) (string, bool) {
	if s.State == nil || guildID == "" {
		return "", false
	}
	guild, err := s.State.Guild(guildID)
	if err != nil || guild.PreferredLocale == "" {
		return "", false
	}
	return guild.PreferredLocale, true
}

// Locale determines the table locale for src. The guild locale wins unless the manager prefers user
// locales or there is no guild. Custom language settings override both, and a locale without a table
// falls back to the configured fallback.
//
// Supported sources are string, discordgo.Locale, *discordgo.Interaction, *discordgo.InteractionCreate,
// *discordgo.Guild, *discordgo.Member, *discordgo.Message, *discordgo.Channel and *discordgo.User.
func (m *Manager) Locale(ctx context.Context, src any) string {
	locale, guildID, userID := m.sourceLocale(src)

	if m.opts.settings != nil {
		if custom, ok := m.customLocale(ctx, guildID); ok {
			locale = custom
		}
		if custom, ok := m.customLocale(ctx, userID); ok {
			locale = custom
		}
	}

	if matched, ok := m.match(locale); ok {
		return matched
	}
	return m.opts.fallbackLocale
}

// CleanLocale returns the locale of src without its region, "en" instead of "en-US".
func (m *Manager) CleanLocale(ctx context.Context, src any) string {
	return BaseLanguage(m.Locale(ctx, src))
}

func (m *Manager) sourceLocale(src any) (locale, guildID, userID string) {
	switch v := src.(type) {
	case string:
		return v, "", ""
	case discordgo.Locale:
		return string(v), "", ""
	case *discordgo.InteractionCreate:
		if v == nil {
			return "", "", ""
		}
		return m.interactionLocale(v.Interaction)
	case *discordgo.Interaction:
		return m.interactionLocale(v)
	case *discordgo.Guild:
		if v == nil {
			return "", "", ""
		}
		return v.PreferredLocale, v.ID, ""
	case *discordgo.Member:
		if v == nil {
			return "", "", ""
		}
		if v.User != nil {
			userID = v.User.ID
		}
		return m.guildLocale(v.GuildID), v.GuildID, userID
	case *discordgo.Message:
		if v == nil || v.GuildID == "" {
			return "", "", ""
		}
		return m.guildLocale(v.GuildID), v.GuildID, ""
	case *discordgo.Channel:
		if v == nil || v.GuildID == "" {
			return "", "", ""
		}
		return m.guildLocale(v.GuildID), v.GuildID, ""
	case *discordgo.User:
		if v == nil {
			return "", "", ""
		}
		// The client locale of a user is only known inside an interaction.
		return m.opts.fallbackLocale, "", v.ID
	default:
		return "", "", ""
	}
}

func (m *Manager) interactionLocale(i *discordgo.Interaction) (locale, guildID, userID string) {
	if i == nil {
		return "", "", ""
	}

	if i.GuildID != "" && !m.opts.preferUser {
		if i.GuildLocale != nil {
			return string(*i.GuildLocale), i.GuildID, ""
		}
		return m.guildLocale(i.GuildID), i.GuildID, ""
	}

	switch {
	case i.Member != nil && i.Member.User != nil:
		userID = i.Member.User.ID
	case i.User != nil:
		userID = i.User.ID
	}
	return string(i.Locale), "", userID
}

func (m *Manager) guildLocale(guildID string) string {
	if m.opts.guilds == nil || guildID == "" {
		return ""
	}
	locale, _ := m.opts.guilds.GuildLocale(guildID)
	return locale
}

func (m *Manager) customLocale(ctx context.Context, id string) (string, bool) {
	if id == "" {
		return "", false
	}

	locale, ok, err := m.opts.settings.Locale(ctx, id)
	if err != nil {
		util.Log(ctx).WithError(err).WithField("id", id).Error("could not load custom language setting")
		return "", false
	}
	return locale, ok && locale != ""
}

// match finds the registered table for locale: exact, then case and separator insensitive, then by
// base language.
func (m *Manager) match(locale string) (string, bool) {
	if locale == "" {
		return "", false
	}
	if _, ok := m.tables[locale]; ok {
		return locale, true
	}

	normalized := strings.ReplaceAll(locale, "_", "-")
	for _, candidate := range m.locales {
		if strings.EqualFold(candidate, normalized) {
			return candidate, true
		}
	}

	base := BaseLanguage(locale)
	if base == "" {
		return "", false
	}
	if _, ok := m.tables[base]; ok {
		return base, true
	}
	for _, candidate := range m.locales {
		if BaseLanguage(candidate) == base {
			return candidate, true
		}
	}

	return "", false
}
