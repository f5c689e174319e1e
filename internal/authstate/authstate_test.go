package authstate

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/cadetops/corpshq/internal/clock"
	"github.com/cadetops/corpshq/internal/identity/demo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newProvider(t *testing.T) (*Provider, *demo.Store) {
	t.Helper()
	clk := clock.NewFakeClock(time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC))
	sessions := demo.New(zap.NewNop(), clk, filepath.Join(t.TempDir(), "slot.json"), 0)
	return NewProvider(zap.NewNop(), sessions), sessions
}

func recvState(t *testing.T, ch <-chan State) State {
	t.Helper()
	select {
	case st := <-ch:
		return st
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for state")
		return State{}
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition never held")
}

func TestLoadingFlipsOnFirstDelivery(t *testing.T) {
	p, _ := newProvider(t)

	assert.True(t, p.Current().Loading)

	require.NoError(t, p.Start(context.Background()))
	defer func() { _ = p.Stop(context.Background()) }()

	waitFor(t, func() bool { return !p.Current().Loading })
	st := p.Current()
	assert.Nil(t, st.User)
	assert.NoError(t, st.Err)
}

func TestWatchSeesTransitions(t *testing.T) {
	p, sessions := newProvider(t)
	require.NoError(t, p.Start(context.Background()))
	defer func() { _ = p.Stop(context.Background()) }()

	waitFor(t, func() bool { return !p.Current().Loading })

	sub := p.Watch()
	defer sub.Cancel()
	first := recvState(t, sub.C)
	assert.False(t, first.Loading)
	assert.Nil(t, first.User)

	signed, err := sessions.SignInWithPassword(context.Background(), "a@b.c", "123456")
	require.NoError(t, err)
	next := recvState(t, sub.C)
	require.NotNil(t, next.User)
	assert.Equal(t, signed.ID, next.User.ID)

	require.NoError(t, sessions.SignOut(context.Background()))
	assert.Nil(t, recvState(t, sub.C).User)
}

func TestRecordErrorClearsOnNextDelivery(t *testing.T) {
	p, sessions := newProvider(t)
	require.NoError(t, p.Start(context.Background()))
	defer func() { _ = p.Stop(context.Background()) }()

	waitFor(t, func() bool { return !p.Current().Loading })

	boom := errors.New("sign-in failed")
	p.RecordError(boom)
	assert.ErrorIs(t, p.Current().Err, boom)

	_, err := sessions.SignInWithPassword(context.Background(), "a@b.c", "123456")
	require.NoError(t, err)
	waitFor(t, func() bool { return p.Current().Err == nil && p.Current().User != nil })
}

func TestStartIsIdempotent(t *testing.T) {
	p, sessions := newProvider(t)
	ctx := context.Background()
	require.NoError(t, p.Start(ctx))
	require.NoError(t, p.Start(ctx))
	defer func() { _ = p.Stop(ctx) }()

	waitFor(t, func() bool { return !p.Current().Loading })

	_, err := sessions.SignInWithPassword(ctx, "a@b.c", "123456")
	require.NoError(t, err)
	waitFor(t, func() bool { return p.Current().User != nil })
}

func TestStopCancelsSubscription(t *testing.T) {
	p, sessions := newProvider(t)
	ctx := context.Background()
	require.NoError(t, p.Start(ctx))
	waitFor(t, func() bool { return !p.Current().Loading })
	require.NoError(t, p.Stop(ctx))

	_, err := sessions.SignInWithPassword(ctx, "a@b.c", "123456")
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	assert.Nil(t, p.Current().User, "no delivery after stop")
}
