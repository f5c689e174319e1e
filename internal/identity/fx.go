// Package identity wires the session store implementation chosen by the
// backend resolver.
package identity

import (
	"path/filepath"

	"github.com/bwmarrin/snowflake"
	"github.com/cadetops/corpshq/internal/backend"
	"github.com/cadetops/corpshq/internal/clock"
	"github.com/cadetops/corpshq/internal/config"
	"github.com/cadetops/corpshq/internal/docstore"
	"github.com/cadetops/corpshq/internal/identity/demo"
	"github.com/cadetops/corpshq/internal/identity/domain"
	"github.com/cadetops/corpshq/internal/identity/live"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// SlotFile holds the demo identity between runs, under the data dir.
const SlotFile = "demo_user.json"

func New(h *backend.Handles, cfg config.Config, log *zap.Logger, clk clock.Clock, docs docstore.Store, genID *snowflake.Node) domain.Service {
	if h.Demo || h.DB == nil {
		return demo.New(log, clk, filepath.Join(cfg.DataDir, SlotFile), demo.DefaultLatency)
	}
	return live.New(log, h.DB, h.Redis, docs, genID)
}

var Module = fx.Module("identity",
	fx.Provide(New),
)
