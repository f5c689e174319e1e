package authstate

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Module("authstate",
	fx.Provide(NewProvider),
	fx.Invoke(func(lc fx.Lifecycle, p *Provider) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error { return p.Start(ctx) },
			OnStop:  func(ctx context.Context) error { return p.Stop(ctx) },
		})
	}),
)
