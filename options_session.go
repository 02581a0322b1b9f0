package ezcord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/tibue99/ezcord-sub000/emb"
	"github.com/tibue99/ezcord-sub000/localization/interceptors/discord"
)

// WithSession routes outbound messages of session through the Messenger.
func WithSession(session *discordgo.Session) Option {
	return func(_ context.Context, e *Extension) {
		e.session = session
	}
}

// WithEmbedTemplates adds or replaces embed templates used by Embeds.
func WithEmbedTemplates(opts ...emb.TemplateOption) Option {
	return func(_ context.Context, e *Extension) {
		e.templateOpts = append(e.templateOpts, opts...)
	}
}

func (e *Extension) setupSession(ctx context.Context) {
	if e.session == nil {
		return
	}

	var opts []discord.Option
	if e.session.State != nil {
		opts = append(opts, discord.WithState(e.session.State))
	}
	if e.tracerProvider != nil {
		opts = append(opts, discord.WithTracerProvider(e.tracerProvider))
	}
	e.messenger = discord.New(e.session, e.manager, opts...)

	e.embeds = emb.NewSender(e.messenger, emb.NewTemplates(e.templateOpts...),
		emb.WithCatalog(e.catalog), emb.WithState(e.session.State))

	e.Log(ctx).WithField("localized", e.manager != nil).Debug("messenger ready")
}
