package ezcord

import (
	"context"

	"github.com/tibue99/ezcord-sub000/config"
)

// WithConfig specifies the configuration object. Without it config.ConfigurationDefault is read
// from the environment.
func WithConfig(cfg any) Option {
	return func(_ context.Context, e *Extension) {
		e.configuration = cfg
	}
}

// Config returns the configuration object.
func (e *Extension) Config() any {
	return e.configuration
}

func (e *Extension) setupConfig(ctx context.Context) {
	if e.configuration == nil {
		cfg, err := config.FromEnv[config.ConfigurationDefault]()
		if err != nil {
			e.addStartupError(ctx, err)
		}
		e.configuration = &cfg
	}

	if serviceCfg, ok := e.configuration.(config.ConfigurationService); ok {
		if serviceCfg.Name() != "" {
			e.name = serviceCfg.Name()
		}
		if serviceCfg.Version() != "" {
			e.version = serviceCfg.Version()
		}
	}
}
