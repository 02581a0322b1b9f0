package localization

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/pitabwire/util"
)

// MissingEmbedColor is the colour of the placeholder embed built for an unknown embed key.
const MissingEmbedColor = 0x5865F2

var skippedEmbedKeys = map[string]struct{}{
	"color":     {},
	"colour":    {},
	"type":      {},
	"url":       {},
	"timestamp": {},
	"image":     {},
	"thumbnail": {},
	"video":     {},
	"provider":  {},
}

// Embed returns a localized copy of embed. Titles, descriptions, field names and values, footer text
// and author names are resolved as keys, then variables are substituted.
func (m *Manager) Embed(ctx context.Context, locale string, embed *discordgo.MessageEmbed, opts ...TextOption) *discordgo.MessageEmbed {
	if embed == nil {
		return nil
	}

	raw, err := json.Marshal(embed)
	if err != nil {
		util.Log(ctx).WithError(err).Error("could not encode embed for localization")
		return embed
	}

	var content map[string]any
	if err = json.Unmarshal(raw, &content); err != nil {
		util.Log(ctx).WithError(err).Error("could not decode embed for localization")
		return embed
	}

	localized, err := decodeEmbed(m.localizeMap(ctx, locale, content, embedTextOptions(opts)))
	if err != nil {
		util.Log(ctx).WithError(err).Error("could not rebuild localized embed")
		return embed
	}
	return localized
}

// Embeds localizes every embed of the slice.
func (m *Manager) Embeds(ctx context.Context, locale string, embeds []*discordgo.MessageEmbed, opts ...TextOption) []*discordgo.MessageEmbed {
	if embeds == nil {
		return nil
	}
	out := make([]*discordgo.MessageEmbed, len(embeds))
	for i, embed := range embeds {
		out[i] = m.Embed(ctx, locale, embed, opts...)
	}
	return out
}

// EmbedFromKey builds an embed from a mapping stored under key. Lookups use the call site's file with
// its function or class, or the file alone. A key with no mapping yields a placeholder embed showing
// the key.
func (m *Manager) EmbedFromKey(ctx context.Context, locale, key string, opts ...TextOption) *discordgo.MessageEmbed {
	t := buildTextOptions(ctx, opts)
	table := m.tableFor(locale)
	site := *t.site

	var paths [][]string
	if strings.Contains(key, ".") {
		parts := strings.Split(key, ".")
		paths = append(paths, parts)
		if site.File != "" {
			paths = append(paths, append([]string{site.File}, parts...))
		}
	} else if site.File != "" {
		for _, middle := range []string{site.Function, site.Class} {
			if middle != "" {
				paths = append(paths, []string{site.File, middle, key})
			}
		}
		paths = append(paths, []string{site.File, key})
	}

	for _, path := range paths {
		value, ok := table.Lookup(path...)
		if !ok {
			continue
		}
		section, isMap := asMap(value)
		if !isMap || len(section) == 0 {
			continue
		}

		embed, err := decodeEmbed(deepCopy(section).(map[string]any))
		if err != nil {
			util.Log(ctx).WithError(err).WithField("key", key).Error("embed mapping is not a valid embed")
			continue
		}
		return m.Embed(ctx, locale, embed, opts...)
	}

	return &discordgo.MessageEmbed{Description: key, Color: MissingEmbedColor}
}

// Components returns a localized copy of message components. Button labels, select placeholders and
// options, and text input labels, placeholders and values are resolved. Rows are walked recursively.
func (m *Manager) Components(ctx context.Context, locale string, components []discordgo.MessageComponent, opts ...TextOption) []discordgo.MessageComponent {
	if components == nil {
		return nil
	}

	out := make([]discordgo.MessageComponent, len(components))
	for i, component := range components {
		out[i] = m.component(ctx, locale, component, opts)
	}
	return out
}

func (m *Manager) component(ctx context.Context, locale string, component discordgo.MessageComponent, opts []TextOption) discordgo.MessageComponent {
	text := func(s string) string {
		return m.Text(ctx, locale, s, opts...)
	}

	switch c := component.(type) {
	case discordgo.ActionsRow:
		c.Components = m.Components(ctx, locale, c.Components, opts...)
		return c
	case *discordgo.ActionsRow:
		cp := *c
		cp.Components = m.Components(ctx, locale, c.Components, opts...)
		return &cp
	case discordgo.Button:
		c.Label = text(c.Label)
		return c
	case *discordgo.Button:
		cp := *c
		cp.Label = text(c.Label)
		return &cp
	case discordgo.SelectMenu:
		return selectMenu(c, text)
	case *discordgo.SelectMenu:
		cp := selectMenu(*c, text)
		return &cp
	case discordgo.TextInput:
		return textInput(c, text)
	case *discordgo.TextInput:
		cp := textInput(*c, text)
		return &cp
	default:
		return component
	}
}

func selectMenu(menu discordgo.SelectMenu, text func(string) string) discordgo.SelectMenu {
	menu.Placeholder = text(menu.Placeholder)
	if menu.Options != nil {
		options := make([]discordgo.SelectMenuOption, len(menu.Options))
		for i, option := range menu.Options {
			option.Label = text(option.Label)
			option.Description = text(option.Description)
			options[i] = option
		}
		menu.Options = options
	}
	return menu
}

func textInput(input discordgo.TextInput, text func(string) string) discordgo.TextInput {
	input.Label = text(input.Label)
	input.Placeholder = text(input.Placeholder)
	input.Value = text(input.Value)
	return input
}

func (m *Manager) localizeMap(ctx context.Context, locale string, content map[string]any, opts []TextOption) map[string]any {
	out := make(map[string]any, len(content))
	for key, value := range content {
		if _, skip := skippedEmbedKeys[key]; skip || strings.HasSuffix(key, "icon_url") {
			out[key] = value
			continue
		}
		out[key] = m.localizeValue(ctx, locale, value, opts)
	}
	return out
}

func (m *Manager) localizeValue(ctx context.Context, locale string, value any, opts []TextOption) any {
	switch v := value.(type) {
	case string:
		return m.Text(ctx, locale, v, opts...)
	case map[string]any:
		return m.localizeMap(ctx, locale, v, opts)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = m.localizeValue(ctx, locale, item, opts)
		}
		return out
	default:
		return v
	}
}

// embedTextOptions promotes a "count" variable to the plural count, as embeds carry no count of their own.
func embedTextOptions(opts []TextOption) []TextOption {
	t := textOptions{}
	for _, opt := range opts {
		opt(&t)
	}
	if t.count != nil {
		return opts
	}
	if count, ok := asInt64(t.vars["count"]); ok {
		return append(append([]TextOption(nil), opts...), WithCount(int(count)))
	}
	return opts
}

func decodeEmbed(content map[string]any) (*discordgo.MessageEmbed, error) {
	raw, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}
	embed := &discordgo.MessageEmbed{}
	if err = json.Unmarshal(raw, embed); err != nil {
		return nil, err
	}
	return embed, nil
}
