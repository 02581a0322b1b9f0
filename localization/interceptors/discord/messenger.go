// Package discord funnels outbound discordgo traffic through a localization Manager.
//
// Every send and edit path of the Messenger resolves message content, embeds and components as
// localization keys for the locale of the target before the payload reaches Discord.
package discord

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"
	"github.com/pitabwire/util"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/tibue99/ezcord-sub000/localization"
	"github.com/tibue99/ezcord-sub000/telemetry"
)

// Session is the subset of *discordgo.Session the Messenger sends through.
type Session interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend,
		options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit,
		options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse,
		options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit,
		options ...discordgo.RequestOption) (*discordgo.Message, error)
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams,
		options ...discordgo.RequestOption) (*discordgo.Message, error)
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams,
		options ...discordgo.RequestOption) (*discordgo.Message, error)
	WebhookMessageEdit(webhookID, token, messageID string, data *discordgo.WebhookEdit,
		options ...discordgo.RequestOption) (*discordgo.Message, error)
}

var _ Session = (*discordgo.Session)(nil)

// ErrNoMessage is returned by Reply without a message to reply to.
var ErrNoMessage = errors.New("reply needs the message it answers")

// Messenger is the outbound pipeline. It is safe for concurrent use.
type Messenger struct {
	session Session
	manager *localization.Manager
	state   *discordgo.State

	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	tracer         telemetry.Tracer
}

// Option configures a Messenger.
type Option func(m *Messenger)

// WithState lets the Messenger find the guild of a channel id, so plain channel sends use the guild locale.
func WithState(state *discordgo.State) Option {
	return func(m *Messenger) {
		m.state = state
	}
}

// WithTracerProvider sets the provider of the per call spans.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(m *Messenger) {
		m.tracerProvider = provider
	}
}

// WithMeterProvider sets the provider of the latency histogram.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(m *Messenger) {
		m.meterProvider = provider
	}
}

// New creates a Messenger. A nil manager turns every method into a plain pass through.
func New(session Session, manager *localization.Manager, opts ...Option) *Messenger {
	m := &Messenger{session: session, manager: manager}
	for _, opt := range opts {
		opt(m)
	}

	if m.state == nil {
		if s, ok := session.(*discordgo.Session); ok && s.State != nil {
			m.state = s.State
		}
	}

	var tracerOpts []telemetry.TracerOption
	if m.tracerProvider != nil {
		tracerOpts = append(tracerOpts, telemetry.WithTracerProvider(m.tracerProvider))
	}
	if m.meterProvider != nil {
		tracerOpts = append(tracerOpts, telemetry.WithMeterProvider(m.meterProvider))
	}
	m.tracer = telemetry.NewTracer(telemetry.InstrumentationName, tracerOpts...)

	return m
}

// Manager returns the localization manager, nil when none was given.
func (m *Messenger) Manager() *localization.Manager {
	return m.manager
}

// Session returns the wrapped session.
func (m *Messenger) Session() Session {
	return m.session
}

// Send posts data to a channel, using the locale of the channel's guild.
func (m *Messenger) Send(ctx context.Context, channelID string, data *discordgo.MessageSend,
	opts ...CallOption) (msg *discordgo.Message, err error) {
	call := buildCallOptions(opts)
	ctx, span := m.start(ctx, localization.EntrySend)
	defer func() { m.tracer.End(ctx, span, err) }()

	if m.active(localization.EntrySend) && data != nil {
		data = m.localizeSend(ctx, span, m.channelSource(channelID), data, call)
	}
	return m.session.ChannelMessageSendComplex(channelID, data, call.request...)
}

// Reply answers msg in its channel, referencing it.
func (m *Messenger) Reply(ctx context.Context, msg *discordgo.Message, data *discordgo.MessageSend,
	opts ...CallOption) (sent *discordgo.Message, err error) {
	call := buildCallOptions(opts)
	ctx, span := m.start(ctx, localization.EntryReply)
	defer func() { m.tracer.End(ctx, span, err) }()

	if msg == nil {
		return nil, ErrNoMessage
	}
	if data == nil {
		data = &discordgo.MessageSend{}
	}
	if m.active(localization.EntryReply) {
		data = m.localizeSend(ctx, span, msg, data, call)
	} else {
		cp := *data
		data = &cp
	}
	data.Reference = msg.Reference()

	return m.session.ChannelMessageSendComplex(msg.ChannelID, data, call.request...)
}

func (m *Messenger) localizeSend(ctx context.Context, span trace.Span, src any,
	data *discordgo.MessageSend, call callOptions) *discordgo.MessageSend {
	locale, textOpts := m.prepare(ctx, span, src, call)

	out := *data
	out.Content = m.text(ctx, locale, data.Content, textOpts)
	out.Embeds = m.embeds(ctx, locale, data.Embeds, call, textOpts)
	out.Components = m.manager.Components(ctx, locale, data.Components, textOpts...)
	return &out
}

// Edit changes a channel message.
func (m *Messenger) Edit(ctx context.Context, data *discordgo.MessageEdit,
	opts ...CallOption) (msg *discordgo.Message, err error) {
	call := buildCallOptions(opts)
	ctx, span := m.start(ctx, localization.EntryEdit)
	defer func() { m.tracer.End(ctx, span, err) }()

	if m.active(localization.EntryEdit) && data != nil {
		locale, textOpts := m.prepare(ctx, span, m.channelSource(data.Channel), call)

		out := *data
		out.Content = m.textPtr(ctx, locale, data.Content, textOpts)
		out.Embeds = m.embedsPtr(ctx, locale, data.Embeds, call, textOpts)
		out.Components = m.componentsPtr(ctx, locale, data.Components, textOpts)
		data = &out
	}
	return m.session.ChannelMessageEditComplex(data, call.request...)
}

// Respond answers an interaction. The entry point follows the response type: modals are send_modal,
// message updates are edit_message and everything else is send_message.
func (m *Messenger) Respond(ctx context.Context, interaction *discordgo.Interaction,
	resp *discordgo.InteractionResponse, opts ...CallOption) (err error) {
	entry := responseEntry(resp)
	call := buildCallOptions(opts)
	ctx, span := m.start(ctx, entry)
	defer func() { m.tracer.End(ctx, span, err) }()

	if m.active(entry) && resp != nil && resp.Data != nil {
		if entry == localization.EntrySendModal && resp.Data.CustomID != "" {
			call.site = siteWithClass(ctx, call.site, resp.Data.CustomID)
		}
		locale, textOpts := m.prepare(ctx, span, interaction, call)

		data := *resp.Data
		data.Content = m.text(ctx, locale, resp.Data.Content, textOpts)
		data.Title = m.text(ctx, locale, resp.Data.Title, textOpts)
		data.Embeds = m.embeds(ctx, locale, resp.Data.Embeds, call, textOpts)
		data.Components = m.manager.Components(ctx, locale, resp.Data.Components, textOpts...)

		out := *resp
		out.Data = &data
		resp = &out
	}
	return m.session.InteractionRespond(interaction, resp, call.request...)
}

func responseEntry(resp *discordgo.InteractionResponse) string {
	if resp == nil {
		return localization.EntrySendMessage
	}
	switch resp.Type {
	case discordgo.InteractionResponseModal:
		return localization.EntrySendModal
	case discordgo.InteractionResponseUpdateMessage:
		return localization.EntryEditMessage
	default:
		return localization.EntrySendMessage
	}
}

// EditOriginal edits the original interaction response.
func (m *Messenger) EditOriginal(ctx context.Context, interaction *discordgo.Interaction,
	data *discordgo.WebhookEdit, opts ...CallOption) (msg *discordgo.Message, err error) {
	call := buildCallOptions(opts)
	ctx, span := m.start(ctx, localization.EntryEditOriginalResponse)
	defer func() { m.tracer.End(ctx, span, err) }()

	if m.active(localization.EntryEditOriginalResponse) && data != nil {
		data = m.localizeWebhookEdit(ctx, span, interaction, data, call)
	}
	return m.session.InteractionResponseEdit(interaction, data, call.request...)
}

// Followup sends a followup message for an interaction.
func (m *Messenger) Followup(ctx context.Context, interaction *discordgo.Interaction, wait bool,
	data *discordgo.WebhookParams, opts ...CallOption) (msg *discordgo.Message, err error) {
	call := buildCallOptions(opts)
	ctx, span := m.start(ctx, localization.EntryWebhookSend)
	defer func() { m.tracer.End(ctx, span, err) }()

	if m.active(localization.EntryWebhookSend) && data != nil {
		data = m.localizeWebhookParams(ctx, span, interaction, data, call)
	}
	return m.session.FollowupMessageCreate(interaction, wait, data, call.request...)
}

// WebhookSend executes a webhook. Webhooks carry no locale, so WithLocaleFrom selects it.
func (m *Messenger) WebhookSend(ctx context.Context, webhookID, token string, wait bool,
	data *discordgo.WebhookParams, opts ...CallOption) (msg *discordgo.Message, err error) {
	call := buildCallOptions(opts)
	ctx, span := m.start(ctx, localization.EntryWebhookSend)
	defer func() { m.tracer.End(ctx, span, err) }()

	if m.active(localization.EntryWebhookSend) && data != nil {
		data = m.localizeWebhookParams(ctx, span, nil, data, call)
	}
	return m.session.WebhookExecute(webhookID, token, wait, data, call.request...)
}

// WebhookEdit edits a message sent by a webhook.
func (m *Messenger) WebhookEdit(ctx context.Context, webhookID, token, messageID string,
	data *discordgo.WebhookEdit, opts ...CallOption) (msg *discordgo.Message, err error) {
	call := buildCallOptions(opts)
	ctx, span := m.start(ctx, localization.EntryWebhookEditMessage)
	defer func() { m.tracer.End(ctx, span, err) }()

	if m.active(localization.EntryWebhookEditMessage) && data != nil {
		data = m.localizeWebhookEdit(ctx, span, nil, data, call)
	}
	return m.session.WebhookMessageEdit(webhookID, token, messageID, data, call.request...)
}

func (m *Messenger) localizeWebhookParams(ctx context.Context, span trace.Span, src any,
	data *discordgo.WebhookParams, call callOptions) *discordgo.WebhookParams {
	locale, textOpts := m.prepare(ctx, span, src, call)

	out := *data
	out.Content = m.text(ctx, locale, data.Content, textOpts)
	out.Embeds = m.embeds(ctx, locale, data.Embeds, call, textOpts)
	out.Components = m.manager.Components(ctx, locale, data.Components, textOpts...)
	return &out
}

func (m *Messenger) localizeWebhookEdit(ctx context.Context, span trace.Span, src any,
	data *discordgo.WebhookEdit, call callOptions) *discordgo.WebhookEdit {
	locale, textOpts := m.prepare(ctx, span, src, call)

	out := *data
	out.Content = m.textPtr(ctx, locale, data.Content, textOpts)
	out.Embeds = m.embedsPtr(ctx, locale, data.Embeds, call, textOpts)
	out.Components = m.componentsPtr(ctx, locale, data.Components, textOpts)
	return &out
}

func (m *Messenger) start(ctx context.Context, entry string) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, entry, trace.WithAttributes(telemetry.AttrEntryKey.String(entry)))
}

func (m *Messenger) active(entry string) bool {
	return m.manager != nil && !m.manager.Disabled(entry)
}

// prepare picks the locale of the call and the lookup options shared by all parts of the payload.
func (m *Messenger) prepare(ctx context.Context, span trace.Span, src any,
	call callOptions) (string, []localization.TextOption) {
	if call.localeFrom != nil {
		src = call.localeFrom
	}
	locale := m.manager.Locale(ctx, src)
	span.SetAttributes(telemetry.AttrLocaleKey.String(locale))

	util.Log(ctx).WithField("locale", locale).Debug("localizing outbound message")

	return locale, call.textOptions()
}

// channelSource returns the cached channel so its guild locale applies. Without state the
// fallback locale is used.
func (m *Messenger) channelSource(channelID string) any {
	if m.state == nil || channelID == "" {
		return nil
	}
	channel, err := m.state.Channel(channelID)
	if err != nil {
		return nil
	}
	return channel
}

func (m *Messenger) text(ctx context.Context, locale, content string, textOpts []localization.TextOption) string {
	if content == "" {
		return content
	}
	return m.manager.Text(ctx, locale, content, textOpts...)
}

func (m *Messenger) textPtr(ctx context.Context, locale string, content *string,
	textOpts []localization.TextOption) *string {
	if content == nil {
		return nil
	}
	localized := m.text(ctx, locale, *content, textOpts)
	return &localized
}

func (m *Messenger) embeds(ctx context.Context, locale string, embeds []*discordgo.MessageEmbed,
	call callOptions, textOpts []localization.TextOption) []*discordgo.MessageEmbed {
	out := m.manager.Embeds(ctx, locale, embeds, textOpts...)
	for _, key := range call.embedKeys {
		out = append(out, m.manager.EmbedFromKey(ctx, locale, key, textOpts...))
	}
	return out
}

func (m *Messenger) embedsPtr(ctx context.Context, locale string, embeds *[]*discordgo.MessageEmbed,
	call callOptions, textOpts []localization.TextOption) *[]*discordgo.MessageEmbed {
	if embeds == nil && len(call.embedKeys) == 0 {
		return nil
	}
	var current []*discordgo.MessageEmbed
	if embeds != nil {
		current = *embeds
	}
	out := m.embeds(ctx, locale, current, call, textOpts)
	return &out
}

func (m *Messenger) componentsPtr(ctx context.Context, locale string, components *[]discordgo.MessageComponent,
	textOpts []localization.TextOption) *[]discordgo.MessageComponent {
	if components == nil {
		return nil
	}
	out := m.manager.Components(ctx, locale, *components, textOpts...)
	return &out
}
