package docstore

import (
	"github.com/cadetops/corpshq/internal/backend"
	"github.com/cadetops/corpshq/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// New picks the implementation once, at construction time, from the
// resolved backend handles.
func New(h *backend.Handles, clk clock.Clock, log *zap.Logger) Store {
	if h.Demo || h.DB == nil {
		return NewMemory(clk)
	}
	return NewGorm(h.DB, clk, log)
}

var Module = fx.Module("docstore",
	fx.Provide(New),
)
