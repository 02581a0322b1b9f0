// Package emb sends the error, success, warn and info embed templates, plus custom ones, to
// interactions and channels.
package emb

import (
	"encoding/json"
	"errors"
	"maps"

	"github.com/bwmarrin/discordgo"
)

// Names of the built in templates.
const (
	Error   = "error"
	Success = "success"
	Warn    = "warn"
	Info    = "info"
)

// Colours of the built in templates.
const (
	ColorRed   = 0xE74C3C
	ColorGreen = 0x2ECC71
	ColorGold  = 0xF1C40F
	ColorBlue  = 0x3498DB
)

// ErrTemplateNotFound is returned for an unregistered template name.
var ErrTemplateNotFound = errors.New("embed template not found")

// Template is either an embed or, when Embed is nil, plain text. An empty Text takes the text of the call.
type Template struct {
	Embed *discordgo.MessageEmbed
	Text  string
}

// EmbedTemplate returns a template sending embed.
func EmbedTemplate(embed *discordgo.MessageEmbed) Template {
	return Template{Embed: embed}
}

// TextTemplate returns a template sending content instead of an embed.
func TextTemplate(text string) Template {
	return Template{Text: text}
}

// IsText reports whether the template sends content instead of an embed.
func (t Template) IsText() bool {
	return t.Embed == nil
}

// Templates is an immutable set of named templates.
type Templates struct {
	templates map[string]Template
}

// TemplateOption adds or replaces a template.
type TemplateOption func(t map[string]Template)

// WithTemplate registers template under name. The built in names may be overridden.
func WithTemplate(name string, template Template) TemplateOption {
	return func(t map[string]Template) {
		t[name] = template
	}
}

// DefaultTemplates returns the four built in templates.
func DefaultTemplates() map[string]Template {
	return map[string]Template{
		Error:   EmbedTemplate(&discordgo.MessageEmbed{Color: ColorRed}),
		Success: EmbedTemplate(&discordgo.MessageEmbed{Color: ColorGreen}),
		Warn:    EmbedTemplate(&discordgo.MessageEmbed{Color: ColorGold}),
		Info:    EmbedTemplate(&discordgo.MessageEmbed{Color: ColorBlue}),
	}
}

// NewTemplates starts from the defaults and applies opts.
func NewTemplates(opts ...TemplateOption) *Templates {
	templates := DefaultTemplates()
	for _, opt := range opts {
		opt(templates)
	}
	return &Templates{templates: templates}
}

// Get returns a copy of the named template.
func (t *Templates) Get(name string) (Template, bool) {
	template, ok := t.templates[name]
	if !ok {
		return Template{}, false
	}
	if template.Embed != nil {
		template.Embed = copyEmbed(template.Embed)
	}
	return template, true
}

// Names returns the registered template names.
func (t *Templates) Names() []string {
	names := make([]string, 0, len(t.templates))
	for name := range maps.Keys(t.templates) {
		names = append(names, name)
	}
	return names
}

func copyEmbed(embed *discordgo.MessageEmbed) *discordgo.MessageEmbed {
	raw, err := json.Marshal(embed)
	if err != nil {
		cp := *embed
		return &cp
	}
	out := &discordgo.MessageEmbed{}
	if err = json.Unmarshal(raw, out); err != nil {
		cp := *embed
		return &cp
	}
	return out
}
