package localization_test

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tibue99/ezcord-sub000/localization"
)

func embedManager(t *testing.T) *localization.Manager {
	t.Helper()

	m, err := localization.New(context.Background(), localization.Localizations{
		"en": {
			"shop": map[string]any{
				"buy": map[string]any{
					"title":  "Shop",
					"button": "Buy now",
					"menu":   "Pick an item",
					"apple":  "Apple",
					"hint":   "A red fruit",
				},
				"receipt": map[string]any{
					"title":       "Receipt for {user}",
					"description": "You bought {count} items",
					"color":       0x00FF00,
					"url":         "title",
					"fields": []any{
						map[string]any{"name": "Total", "value": "{total} coins", "inline": true},
					},
					"footer": map[string]any{"text": "Thanks", "icon_url": "title"},
				},
				"Feedback": map[string]any{
					"label": "Your feedback",
					"hint":  "Type here",
				},
				"banner": map[string]any{"title": "Welcome"},
			},
			"title": "Not a url",
		},
		"de": {
			"shop": map[string]any{
				"buy": map[string]any{
					"title":  "Laden",
					"button": "Jetzt kaufen",
					"menu":   "Wähle etwas",
				},
			},
		},
	})
	require.NoError(t, err)
	return m
}

func TestEmbed(t *testing.T) {
	ctx := context.Background()
	m := embedManager(t)
	site := localization.WithSite(localization.Site("shop", "buy"))

	original := &discordgo.MessageEmbed{
		Title:       "title",
		Description: "Hello {user}",
		URL:         "title",
		Color:       0xFF0000,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "button", Value: "..button", Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "menu", IconURL: "title"},
		Author: &discordgo.MessageEmbedAuthor{Name: "apple"},
	}

	localized := m.Embed(ctx, "de", original, site, localization.WithVar("user", "Timo"))
	require.NotNil(t, localized)

	assert.Equal(t, "Laden", localized.Title)
	assert.Equal(t, "Hello Timo", localized.Description)
	assert.Equal(t, "title", localized.URL)
	assert.Equal(t, 0xFF0000, localized.Color)
	assert.Equal(t, "Jetzt kaufen", localized.Fields[0].Name)
	assert.Equal(t, "button", localized.Fields[0].Value)
	assert.True(t, localized.Fields[0].Inline)
	assert.Equal(t, "Wähle etwas", localized.Footer.Text)
	assert.Equal(t, "title", localized.Footer.IconURL)
	// Keys missing from the target locale are not looked up in other locales.
	assert.Equal(t, "apple", localized.Author.Name)

	// The input is not touched.
	assert.Equal(t, "title", original.Title)
	assert.Equal(t, "button", original.Fields[0].Name)

	assert.Nil(t, m.Embed(ctx, "en", nil))
	assert.Nil(t, m.Embeds(ctx, "en", nil))
	assert.Len(t, m.Embeds(ctx, "en", []*discordgo.MessageEmbed{original, original}, site), 2)
}

func TestEmbedFromKey(t *testing.T) {
	ctx := context.Background()
	m := embedManager(t)

	receipt := m.EmbedFromKey(ctx, "en", "receipt",
		localization.WithSite(localization.Site("shop", "checkout")),
		localization.WithVars(localization.Vars{"user": "Ana", "count": 3, "total": 12}),
	)
	assert.Equal(t, "Receipt for Ana", receipt.Title)
	assert.Equal(t, "You bought 3 items", receipt.Description)
	assert.Equal(t, 0x00FF00, receipt.Color)
	assert.Equal(t, "title", receipt.URL)
	require.Len(t, receipt.Fields, 1)
	assert.Equal(t, "12 coins", receipt.Fields[0].Value)
	assert.True(t, receipt.Fields[0].Inline)
	assert.Equal(t, "Thanks", receipt.Footer.Text)
	assert.Equal(t, "title", receipt.Footer.IconURL)

	dotted := m.EmbedFromKey(ctx, "en", "shop.banner")
	assert.Equal(t, "Welcome", dotted.Title)

	relative := m.EmbedFromKey(ctx, "en", "banner", localization.WithSite(localization.Site("shop", "")))
	assert.Equal(t, "Welcome", relative.Title)

	byClass := m.EmbedFromKey(ctx, "en", "title",
		localization.WithSite(localization.Site("shop", "missing").WithClass("buy")))
	assert.Equal(t, localization.MissingEmbedColor, byClass.Color)
	assert.Equal(t, "title", byClass.Description)

	missing := m.EmbedFromKey(ctx, "en", "nope", localization.WithSite(localization.Site("shop", "buy")))
	assert.Equal(t, &discordgo.MessageEmbed{Description: "nope", Color: localization.MissingEmbedColor}, missing)
}

func TestComponents(t *testing.T) {
	ctx := context.Background()
	m := embedManager(t)

	button := discordgo.Button{Label: "button", CustomID: "buy"}
	menu := &discordgo.SelectMenu{
		CustomID:    "items",
		Placeholder: "menu",
		Options: []discordgo.SelectMenuOption{
			{Label: "apple", Value: "apple", Description: "hint"},
		},
	}
	input := discordgo.TextInput{CustomID: "feedback", Label: "label", Placeholder: "hint"}

	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{button}},
		&discordgo.ActionsRow{Components: []discordgo.MessageComponent{menu}},
	}

	localized := m.Components(ctx, "en", components, localization.WithSite(localization.Site("shop", "buy")))
	require.Len(t, localized, 2)

	row, ok := localized[0].(discordgo.ActionsRow)
	require.True(t, ok)
	assert.Equal(t, "Buy now", row.Components[0].(discordgo.Button).Label)
	assert.Equal(t, "buy", row.Components[0].(discordgo.Button).CustomID)

	pointerRow, ok := localized[1].(*discordgo.ActionsRow)
	require.True(t, ok)
	localizedMenu := pointerRow.Components[0].(*discordgo.SelectMenu)
	assert.Equal(t, "Pick an item", localizedMenu.Placeholder)
	assert.Equal(t, "Apple", localizedMenu.Options[0].Label)
	assert.Equal(t, "A red fruit", localizedMenu.Options[0].Description)
	assert.Equal(t, "apple", localizedMenu.Options[0].Value)

	// The originals are untouched.
	assert.Equal(t, "menu", menu.Placeholder)
	assert.Equal(t, "apple", menu.Options[0].Label)

	modal := m.Components(ctx, "en", []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{input}},
	}, localization.WithSite(localization.Site("shop", "").WithClass("Feedback")))
	field := modal[0].(discordgo.ActionsRow).Components[0].(discordgo.TextInput)
	assert.Equal(t, "Your feedback", field.Label)
	assert.Equal(t, "Type here", field.Placeholder)
	assert.Empty(t, field.Value)

	assert.Nil(t, m.Components(ctx, "en", nil))
}

func TestLocalizeCommand(t *testing.T) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "ping",
		Description: "Sends pong",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "mode",
				Description: "Reply mode",
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "fast", Value: "fast"},
					{Name: "slow", Value: "slow"},
				},
			},
			{
				Name:        "admin",
				Description: "Admin tools",
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Options: []*discordgo.ApplicationCommandOption{
					{Name: "target", Description: "Target user"},
				},
			},
		},
	}

	localization.LocalizeCommands([]*discordgo.ApplicationCommand{cmd}, localization.CommandLocalizations{
		"de": {
			"ping": map[string]any{
				"name":        "pingen",
				"description": "Sendet Pong",
				"options": map[string]any{
					"mode": map[string]any{
						"name":    "modus",
						"choices": map[string]any{"fast": "schnell"},
					},
					"admin": map[string]any{
						"options": map[string]any{
							"target": map[string]any{"description": "Zielnutzer"},
						},
					},
				},
			},
		},
		"en": {
			"ping": map[string]any{
				"name":        "pong",
				"description": "Replies with pong",
				"options": map[string]any{
					"mode": map[string]any{"name": "speed"},
				},
			},
		},
		"fr": {
			"other": map[string]any{"name": "autre"},
		},
	}, "en")

	assert.Equal(t, "pong", cmd.Name)
	assert.Equal(t, "Replies with pong", cmd.Description)
	require.NotNil(t, cmd.NameLocalizations)
	assert.Equal(t, map[discordgo.Locale]string{discordgo.German: "pingen"}, *cmd.NameLocalizations)
	assert.Equal(t, map[discordgo.Locale]string{discordgo.German: "Sendet Pong"}, *cmd.DescriptionLocalizations)

	mode := cmd.Options[0]
	assert.Equal(t, "speed", mode.Name)
	assert.Equal(t, "Reply mode", mode.Description)
	assert.Equal(t, map[discordgo.Locale]string{discordgo.German: "modus"}, mode.NameLocalizations)
	assert.Nil(t, mode.DescriptionLocalizations)
	assert.Equal(t, map[discordgo.Locale]string{discordgo.German: "schnell"}, mode.Choices[0].NameLocalizations)
	assert.Nil(t, mode.Choices[1].NameLocalizations)

	target := cmd.Options[1].Options[0]
	assert.Equal(t, map[discordgo.Locale]string{discordgo.German: "Zielnutzer"}, target.DescriptionLocalizations)

	localization.LocalizeCommand(nil, nil, "en")
}
