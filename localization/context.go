package localization

import (
	"context"
)

type contextKey string

func (c contextKey) String() string {
	return "ezcord/localization/" + string(c)
}

const (
	ctxKeyManager  = contextKey("managerKey")
	ctxKeyCallSite = contextKey("callSiteKey")
)

// ToContext adds the localization manager to the supplied context.
func ToContext(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, ctxKeyManager, m)
}

// FromContext extracts the localization manager from the supplied context if one exists.
func FromContext(ctx context.Context) *Manager {
	m, ok := ctx.Value(ctxKeyManager).(*Manager)
	if !ok {
		return nil
	}
	return m
}

// T looks key up with the manager stored in ctx. Without one the key is returned as is.
func T(ctx context.Context, src any, key string, opts ...TextOption) string {
	m := FromContext(ctx)
	if m == nil {
		return key
	}
	return m.T(ctx, src, key, opts...)
}

// CallSite identifies where a lookup originates. File is usually the stem of the source file or the
// cog name, Function the command or handler name.
type CallSite struct {
	File      string
	Function  string
	Class     string
	Locations []string
}

// Site is shorthand for a CallSite with a file and function.
func Site(file, function string) CallSite {
	return CallSite{File: file, Function: function}
}

// WithClass returns a copy of the site with the class segment set, used for views and modals.
func (c CallSite) WithClass(class string) CallSite {
	c.Class = class
	return c
}

// WithLocations returns a copy of the site with extra lookup sections appended.
func (c CallSite) WithLocations(locations ...string) CallSite {
	c.Locations = append(append([]string(nil), c.Locations...), locations...)
	return c
}

// IsZero reports whether no namespace was set.
func (c CallSite) IsZero() bool {
	return c.File == "" && c.Function == "" && c.Class == "" && len(c.Locations) == 0
}

// WithCallSite attaches site to ctx so that lookups further down the call chain use its namespace.
func WithCallSite(ctx context.Context, site CallSite) context.Context {
	return context.WithValue(ctx, ctxKeyCallSite, site)
}

// CallSiteFromContext returns the site stored by WithCallSite.
func CallSiteFromContext(ctx context.Context) (CallSite, bool) {
	site, ok := ctx.Value(ctxKeyCallSite).(CallSite)
	return site, ok
}
