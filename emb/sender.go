package emb

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/pitabwire/util"

	"github.com/tibue99/ezcord-sub000/localization"
	"github.com/tibue99/ezcord-sub000/localization/interceptors/discord"
)

// Messenger is the part of the outbound pipeline the Sender delivers through.
type Messenger interface {
	Send(ctx context.Context, channelID string, data *discordgo.MessageSend,
		opts ...discord.CallOption) (*discordgo.Message, error)
	Respond(ctx context.Context, interaction *discordgo.Interaction, resp *discordgo.InteractionResponse,
		opts ...discord.CallOption) error
	EditOriginal(ctx context.Context, interaction *discordgo.Interaction, data *discordgo.WebhookEdit,
		opts ...discord.CallOption) (*discordgo.Message, error)
	Followup(ctx context.Context, interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams,
		opts ...discord.CallOption) (*discordgo.Message, error)
}

var _ Messenger = (*discord.Messenger)(nil)

// Target is where a template is sent: an interaction or a plain channel.
type Target struct {
	Interaction *discordgo.Interaction
	ChannelID   string
	// Responded marks an interaction that was already answered, so the message becomes a followup.
	Responded bool
}

// ForInteraction targets the response of interaction.
func ForInteraction(interaction *discordgo.Interaction) Target {
	return Target{Interaction: interaction}
}

// ForChannel targets a channel by id.
func ForChannel(channelID string) Target {
	return Target{ChannelID: channelID}
}

// Sender renders templates and hands them to the Messenger.
type Sender struct {
	messenger Messenger
	templates *Templates
	catalog   *localization.Catalog
	state     *discordgo.State
}

// SenderOption configures a Sender.
type SenderOption func(s *Sender)

// WithCatalog sets the catalog of the library messages, such as the unknown template error.
func WithCatalog(catalog *localization.Catalog) SenderOption {
	return func(s *Sender) {
		s.catalog = catalog
	}
}

// WithState provides guild and bot user data for the placeholders.
func WithState(state *discordgo.State) SenderOption {
	return func(s *Sender) {
		s.state = state
	}
}

// NewSender creates a Sender. Nil templates mean the defaults.
func NewSender(messenger Messenger, templates *Templates, opts ...SenderOption) *Sender {
	if templates == nil {
		templates = NewTemplates()
	}
	s := &Sender{messenger: messenger, templates: templates}
	for _, opt := range opts {
		opt(s)
	}
	if s.catalog == nil {
		s.catalog = localization.NewStore().Catalog(localization.DefaultFallbackLocale)
	}
	return s
}

// Templates returns the template set.
func (s *Sender) Templates() *Templates {
	return s.templates
}

// SendOption configures a single Send.
type SendOption func(o *sendOptions)

type sendOptions struct {
	title     *string
	edit      bool
	followup  bool
	ephemeral bool
	vars      localization.Vars
	call      []discord.CallOption
}

// WithTitle replaces the template title.
func WithTitle(title string) SendOption {
	return func(o *sendOptions) {
		o.title = &title
	}
}

// WithEdit edits the original interaction response instead of answering.
func WithEdit() SendOption {
	return func(o *sendOptions) {
		o.edit = true
	}
}

// WithFollowup sends a followup to an interaction that was already answered.
func WithFollowup() SendOption {
	return func(o *sendOptions) {
		o.followup = true
	}
}

// WithEphemeral sets whether an interaction answer is only visible to the user. Defaults to true.
func WithEphemeral(ephemeral bool) SendOption {
	return func(o *sendOptions) {
		o.ephemeral = ephemeral
	}
}

// WithVars adds placeholder and localization variables.
func WithVars(vars localization.Vars) SendOption {
	return func(o *sendOptions) {
		for k, v := range vars {
			o.vars[k] = v
		}
	}
}

// WithCallOptions forwards options to the Messenger call.
func WithCallOptions(opts ...discord.CallOption) SendOption {
	return func(o *sendOptions) {
		o.call = append(o.call, opts...)
	}
}

// Error sends the error template.
func (s *Sender) Error(ctx context.Context, target Target, text string, opts ...SendOption) error {
	return s.Send(ctx, target, Error, text, opts...)
}

// Success sends the success template.
func (s *Sender) Success(ctx context.Context, target Target, text string, opts ...SendOption) error {
	return s.Send(ctx, target, Success, text, opts...)
}

// Warn sends the warn template.
func (s *Sender) Warn(ctx context.Context, target Target, text string, opts ...SendOption) error {
	return s.Send(ctx, target, Warn, text, opts...)
}

// Info sends the info template.
func (s *Sender) Info(ctx context.Context, target Target, text string, opts ...SendOption) error {
	return s.Send(ctx, target, Info, text, opts...)
}

// Send renders the named template with text as description and delivers it to target.
// An empty text keeps the template description.
func (s *Sender) Send(ctx context.Context, target Target, template, text string, opts ...SendOption) error {
	o := sendOptions{ephemeral: true, vars: localization.Vars{}}
	for _, opt := range opts {
		opt(&o)
	}

	tmpl, ok := s.templates.Get(template)
	if !ok {
		msg := s.catalog.Text(ctx, "emb", "no_template", localization.Vars{"name": template})
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, msg)
	}

	vars := Placeholders(target.Interaction, s.state)
	for k, v := range o.vars {
		vars[k] = v
	}

	var content string
	var embeds []*discordgo.MessageEmbed
	if tmpl.IsText() {
		content = tmpl.Text
		if content == "" {
			content = text
		}
		if target.Interaction != nil {
			content = replaceString(content, vars)
		}
	} else {
		embed := tmpl.Embed
		if text != "" {
			embed.Description = text
		}
		if o.title != nil {
			embed.Title = *o.title
		}
		if target.Interaction != nil {
			embed = replacePlaceholders(embed, vars)
		}
		embeds = []*discordgo.MessageEmbed{embed}
	}

	call := append([]discord.CallOption{discord.WithVars(vars)}, o.call...)

	log := util.Log(ctx).WithField("template", template)
	err := s.deliver(ctx, target, o, content, embeds, call)
	if err != nil {
		log.WithError(err).Error("could not send embed template")
	}
	return err
}

func (s *Sender) deliver(ctx context.Context, target Target, o sendOptions, content string,
	embeds []*discordgo.MessageEmbed, call []discord.CallOption) error {
	if target.Interaction == nil {
		_, err := s.messenger.Send(ctx, target.ChannelID,
			&discordgo.MessageSend{Content: content, Embeds: embeds}, call...)
		return err
	}

	var flags discordgo.MessageFlags
	if o.ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}

	switch {
	case o.edit:
		_, err := s.messenger.EditOriginal(ctx, target.Interaction,
			&discordgo.WebhookEdit{Content: &content, Embeds: &embeds}, call...)
		return err
	case o.followup || target.Responded:
		_, err := s.messenger.Followup(ctx, target.Interaction, true,
			&discordgo.WebhookParams{Content: content, Embeds: embeds, Flags: flags}, call...)
		return err
	default:
		return s.messenger.Respond(ctx, target.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{Content: content, Embeds: embeds, Flags: flags},
		}, call...)
	}
}
