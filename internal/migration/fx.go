package migration

import (
	"github.com/cadetops/corpshq/internal/backend"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(h *backend.Handles, log *zap.Logger) error {
		if h.Demo || h.DB == nil {
			return nil
		}
		sqlDB, err := h.DB.DB()
		if err != nil {
			return err
		}
		if err := Run(sqlDB); err != nil {
			return err
		}
		log.Info("database schema up to date")
		return nil
	}),
)
