package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/tibue99/ezcord-sub000/localization"
)

// CallOption configures a single Messenger call. Substitution variables only travel here and are
// never forwarded to Discord.
type CallOption func(c *callOptions)

type callOptions struct {
	vars       localization.Vars
	count      *int
	site       *localization.CallSite
	localeFrom any
	embedKeys  []string
	request    []discordgo.RequestOption
}

func buildCallOptions(opts []CallOption) callOptions {
	c := callOptions{}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c callOptions) textOptions() []localization.TextOption {
	opts := []localization.TextOption{localization.WithVars(c.vars)}
	if c.count != nil {
		opts = append(opts, localization.WithCount(*c.count))
	}
	if c.site != nil {
		opts = append(opts, localization.WithSite(*c.site))
	}
	return opts
}

// WithVars adds substitution variables.
func WithVars(vars localization.Vars) CallOption {
	return func(c *callOptions) {
		if c.vars == nil {
			c.vars = localization.Vars{}
		}
		for k, v := range vars {
			c.vars[k] = v
		}
	}
}

// WithVar adds one substitution variable.
func WithVar(name string, value any) CallOption {
	return WithVars(localization.Vars{name: value})
}

// WithCount selects plural forms and exposes {count}.
func WithCount(count int) CallOption {
	return func(c *callOptions) {
		c.count = &count
	}
}

// WithSite sets the lookup namespace. Without it the site stored in the context is used.
func WithSite(site localization.CallSite) CallOption {
	return func(c *callOptions) {
		c.site = &site
	}
}

// WithLocaleFrom takes the locale from src instead of the call target. Useful for DMs and webhooks.
func WithLocaleFrom(src any) CallOption {
	return func(c *callOptions) {
		c.localeFrom = src
	}
}

// WithEmbedKey appends the embed stored under key in the locale table.
func WithEmbedKey(key string) CallOption {
	return func(c *callOptions) {
		c.embedKeys = append(c.embedKeys, key)
	}
}

// WithRequestOptions forwards discordgo request options unchanged.
func WithRequestOptions(options ...discordgo.RequestOption) CallOption {
	return func(c *callOptions) {
		c.request = append(c.request, options...)
	}
}

func siteWithClass(ctx context.Context, site *localization.CallSite, class string) *localization.CallSite {
	var base localization.CallSite
	switch {
	case site != nil:
		base = *site
	default:
		base, _ = localization.CallSiteFromContext(ctx)
	}
	withClass := base.WithClass(class)
	return &withClass
}
