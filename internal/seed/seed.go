// Package seed populates empty personnel collections with sample data so
// a fresh demo deployment has something to show.
package seed

import (
	"context"

	"github.com/cadetops/corpshq/internal/award"
	"github.com/cadetops/corpshq/internal/backend"
	"github.com/cadetops/corpshq/internal/cadet"
	"github.com/cadetops/corpshq/internal/docstore"
	"github.com/cadetops/corpshq/internal/unit"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Seeder struct {
	log   *zap.Logger
	store docstore.Store
}

func New(log *zap.Logger, store docstore.Store) *Seeder {
	return &Seeder{log: log.Named("seed"), store: store}
}

// Run seeds each personnel collection that is currently empty. Non-empty
// collections are left untouched so operator data survives restarts.
func (s *Seeder) Run(ctx context.Context) error {
	if err := seedCollection(ctx, s, cadet.CollectionName, sampleCadets); err != nil {
		return err
	}
	if err := seedCollection(ctx, s, unit.CollectionName, sampleUnits); err != nil {
		return err
	}
	return seedCollection(ctx, s, award.CollectionName, sampleAwards)
}

func seedCollection[T any](ctx context.Context, s *Seeder, name string, records []T) error {
	existing, err := s.store.List(ctx, name)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	coll := docstore.NewCollection[T](s.store, name)
	// Reverse insertion keeps listing order (creation time descending)
	// matching the declared sample order.
	for i := len(records) - 1; i >= 0; i-- {
		if _, err := coll.Create(ctx, records[i]); err != nil {
			return err
		}
	}
	s.log.Info("seeded collection", zap.String("collection", name), zap.Int("records", len(records)))
	return nil
}

// Module seeds on startup in demo mode only; live deployments manage
// their own data.
var Module = fx.Module("seed",
	fx.Provide(New),
	fx.Invoke(func(lc fx.Lifecycle, h *backend.Handles, s *Seeder) {
		if !h.Demo {
			return
		}
		lc.Append(fx.Hook{OnStart: func(ctx context.Context) error {
			return s.Run(ctx)
		}})
	}),
)
