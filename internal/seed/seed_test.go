package seed

import (
	"context"
	"testing"
	"time"

	"github.com/cadetops/corpshq/internal/award"
	"github.com/cadetops/corpshq/internal/cadet"
	"github.com/cadetops/corpshq/internal/clock"
	"github.com/cadetops/corpshq/internal/docstore"
	"github.com/cadetops/corpshq/internal/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunSeedsEmptyCollections(t *testing.T) {
	store := docstore.NewMemory(clock.NewFakeClock(time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)))
	s := New(zap.NewNop(), store)
	ctx := context.Background()

	require.NoError(t, s.Run(ctx))

	cadets, err := store.List(ctx, cadet.CollectionName)
	require.NoError(t, err)
	assert.Len(t, cadets, 4)
	assert.Equal(t, "Sarah Johnson", cadets[0].Fields["name"])

	units, err := store.List(ctx, unit.CollectionName)
	require.NoError(t, err)
	assert.Len(t, units, 5)
	assert.Equal(t, "Alpha Company", units[0].Fields["name"])

	awards, err := store.List(ctx, award.CollectionName)
	require.NoError(t, err)
	assert.Len(t, awards, 5)
	assert.Equal(t, "Academic Excellence Ribbon", awards[0].Fields["name"])
}

func TestRunSkipsNonEmptyCollections(t *testing.T) {
	store := docstore.NewMemory(clock.NewFakeClock(time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)))
	ctx := context.Background()

	_, err := store.Create(ctx, cadet.CollectionName, docstore.Fields{"name": "Existing Cadet"})
	require.NoError(t, err)

	require.NoError(t, New(zap.NewNop(), store).Run(ctx))

	cadets, err := store.List(ctx, cadet.CollectionName)
	require.NoError(t, err)
	assert.Len(t, cadets, 1)

	units, err := store.List(ctx, unit.CollectionName)
	require.NoError(t, err)
	assert.Len(t, units, 5)
}

func TestRunIsIdempotent(t *testing.T) {
	store := docstore.NewMemory(clock.NewFakeClock(time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)))
	s := New(zap.NewNop(), store)
	ctx := context.Background()

	require.NoError(t, s.Run(ctx))
	require.NoError(t, s.Run(ctx))

	cadets, err := store.List(ctx, cadet.CollectionName)
	require.NoError(t, err)
	assert.Len(t, cadets, 4)
}
