package blobstore

import (
	"github.com/cadetops/corpshq/internal/backend"
	"github.com/cadetops/corpshq/internal/clock"
	"github.com/cadetops/corpshq/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func New(h *backend.Handles, cfg config.Config, log *zap.Logger, clk clock.Clock) Service {
	if h.Demo || h.BucketDir == "" {
		return NewDemo(log, clk, DemoLatency)
	}
	return NewDisk(log, clk, h.BucketDir, cfg.PublicBaseURL)
}

var Module = fx.Module("blobstore",
	fx.Provide(New),
)
