package backend

import "go.uber.org/fx"

var Module = fx.Module("backend",
	fx.Provide(Resolve),
)
