package demo

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cadetops/corpshq/internal/clock"
	"github.com/cadetops/corpshq/internal/identity/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*Store, *clock.FakeClock) {
	t.Helper()
	clk := clock.NewFakeClock(time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC))
	slot := filepath.Join(t.TempDir(), "demo_user.json")
	return New(zap.NewNop(), clk, slot, 0), clk
}

func recv(t *testing.T, ch <-chan *domain.Identity) *domain.Identity {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for identity event")
		return nil
	}
}

func TestSignUpSynthesizesIdentity(t *testing.T) {
	s, clk := newTestStore(t)

	id, err := s.SignUpWithPassword(context.Background(), "sarah@corps.example", "hunter22", "Sarah Johnson")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(id.ID, "demo-user-"), "id %q", id.ID)
	assert.Len(t, strings.TrimPrefix(id.ID, "demo-user-"), 9)
	assert.Equal(t, "sarah@corps.example", id.Email)
	assert.Equal(t, "Sarah Johnson", id.DisplayName)
	assert.Equal(t, clk.Now(), id.CreatedAt)
	assert.Equal(t, clk.Now(), id.UpdatedAt)
}

func TestSignInDerivesDisplayNameFromEmail(t *testing.T) {
	s, _ := newTestStore(t)

	id, err := s.SignInWithPassword(context.Background(), "cadet.ops@corps.example", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "cadet.ops", id.DisplayName)
}

func TestPasswordLengthBoundary(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.SignInWithPassword(context.Background(), "a@b.c", "12345")
	assert.ErrorIs(t, err, domain.ErrInvalidCredential)

	_, err = s.SignInWithPassword(context.Background(), "a@b.c", "123456")
	assert.NoError(t, err)

	_, err = s.SignUpWithPassword(context.Background(), "a@b.c", "short", "A")
	assert.ErrorIs(t, err, domain.ErrInvalidCredential)
}

func TestProviderSignIn(t *testing.T) {
	s, _ := newTestStore(t)

	google, err := s.SignInWithProvider(context.Background(), domain.ProviderGoogle)
	require.NoError(t, err)
	assert.Equal(t, "demo@google.com", google.Email)
	assert.Equal(t, "Demo Google User", google.DisplayName)

	github, err := s.SignInWithProvider(context.Background(), domain.ProviderGithub)
	require.NoError(t, err)
	assert.Equal(t, "demo@github.com", github.Email)
	assert.Equal(t, "Demo GitHub User", github.DisplayName)

	_, err = s.SignInWithProvider(context.Background(), domain.Provider("facebook"))
	assert.Error(t, err)
}

func TestSubscribeSeesEveryTransition(t *testing.T) {
	s, _ := newTestStore(t)

	sub := s.Subscribe()
	defer sub.Cancel()

	assert.Nil(t, recv(t, sub.C), "initial state is signed out")

	signed, err := s.SignInWithPassword(context.Background(), "a@b.c", "123456")
	require.NoError(t, err)
	got := recv(t, sub.C)
	require.NotNil(t, got)
	assert.Equal(t, signed.ID, got.ID)

	require.NoError(t, s.SignOut(context.Background()))
	assert.Nil(t, recv(t, sub.C))
}

func TestSignOutWhenSignedOutIsSilent(t *testing.T) {
	s, _ := newTestStore(t)

	sub := s.Subscribe()
	defer sub.Cancel()
	assert.Nil(t, recv(t, sub.C))

	require.NoError(t, s.SignOut(context.Background()))
	require.NoError(t, s.SignOut(context.Background()))

	select {
	case v := <-sub.C:
		t.Fatalf("unexpected event %+v", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSessionTokenTracksSession(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Empty(t, s.SessionToken())

	_, err := s.SignInWithPassword(context.Background(), "a@b.c", "123456")
	require.NoError(t, err)
	assert.Equal(t, SessionToken, s.SessionToken())

	id, err := s.Authenticate(context.Background(), SessionToken)
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", id.Email)

	_, err = s.Authenticate(context.Background(), "bogus")
	assert.ErrorIs(t, err, domain.ErrInvalidSession)

	require.NoError(t, s.SignOut(context.Background()))
	assert.Empty(t, s.SessionToken())
	_, err = s.Authenticate(context.Background(), SessionToken)
	assert.ErrorIs(t, err, domain.ErrInvalidSession)
}

func TestSlotSurvivesRestart(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC))
	slot := filepath.Join(t.TempDir(), "demo_user.json")

	first := New(zap.NewNop(), clk, slot, 0)
	signed, err := first.SignUpWithPassword(context.Background(), "sarah@corps.example", "123456", "Sarah Johnson")
	require.NoError(t, err)

	second := New(zap.NewNop(), clk, slot, 0)
	restored, err := second.Authenticate(context.Background(), SessionToken)
	require.NoError(t, err)
	assert.Equal(t, signed.ID, restored.ID)
	assert.Equal(t, signed.Email, restored.Email)
	assert.Equal(t, signed.DisplayName, restored.DisplayName)

	require.NoError(t, second.SignOut(context.Background()))
	third := New(zap.NewNop(), clk, slot, 0)
	assert.Empty(t, third.SessionToken())
}

func TestLatencyHonorsContextCancel(t *testing.T) {
	clk := clock.NewFakeClock(time.Now())
	s := New(zap.NewNop(), clk, filepath.Join(t.TempDir(), "slot.json"), time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.SignInWithPassword(ctx, "a@b.c", "123456")
	assert.ErrorIs(t, err, context.Canceled)
}
