// Package demo implements the session store without a live backend.
// Identities are synthesized from the supplied email and persisted to a
// single durable slot file so a restart stays signed in.
package demo

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cadetops/corpshq/internal/clock"
	"github.com/cadetops/corpshq/internal/identity/domain"
	"github.com/cadetops/corpshq/pkg/stream"
	"go.uber.org/zap"
)

const (
	minPasswordLength = 6

	// DefaultLatency approximates a backend round trip so the demo feels
	// like the real thing. Tests pass zero.
	DefaultLatency = time.Second

	// SessionToken is the fixed transport token: demo mode has exactly
	// one logical session.
	SessionToken = "demo-session"
)

type Store struct {
	log      *zap.Logger
	clk      clock.Clock
	slotPath string
	latency  time.Duration

	mu      sync.Mutex
	current *domain.Identity
	bc      *stream.Broadcaster[*domain.Identity]
}

func New(log *zap.Logger, clk clock.Clock, slotPath string, latency time.Duration) *Store {
	s := &Store{
		log:      log.Named("identity.demo"),
		clk:      clk,
		slotPath: slotPath,
		latency:  latency,
		bc:       stream.New[*domain.Identity](),
	}
	s.restoreSlot()
	return s
}

func (s *Store) SignInWithPassword(ctx context.Context, email, password string) (*domain.Identity, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, domain.ErrInvalidCredential
	}
	return s.establish(synthesize(email, "", s.clk.Now()))
}

func (s *Store) SignUpWithPassword(ctx context.Context, email, password, displayName string) (*domain.Identity, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, domain.ErrInvalidCredential
	}
	return s.establish(synthesize(email, displayName, s.clk.Now()))
}

func (s *Store) SignInWithProvider(ctx context.Context, provider domain.Provider) (*domain.Identity, error) {
	if err := s.simulateLatency(ctx); err != nil {
		return nil, err
	}

	var identity *domain.Identity
	switch provider {
	case domain.ProviderGoogle:
		identity = synthesize("demo@google.com", "Demo Google User", s.clk.Now())
	case domain.ProviderGithub:
		identity = synthesize("demo@github.com", "Demo GitHub User", s.clk.Now())
	default:
		return nil, fmt.Errorf("unknown sign-in provider %q", provider)
	}
	return s.establish(identity)
}

func (s *Store) SignOut(ctx context.Context) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}

	if err := os.Remove(s.slotPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.log.Warn("failed to clear demo identity slot", zap.Error(err))
	}
	s.current = nil
	s.bc.Publish(nil)
	return nil
}

func (s *Store) RequestPasswordReset(ctx context.Context, email string) error {
	if err := s.simulateLatency(ctx); err != nil {
		return err
	}
	s.log.Info("password reset email would be sent", zap.String("email", email))
	return nil
}

func (s *Store) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != SessionToken || s.current == nil {
		return nil, domain.ErrInvalidSession
	}
	snapshot := *s.current
	return &snapshot, nil
}

func (s *Store) SessionToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return SessionToken
}

func (s *Store) Subscribe() *stream.Subscription[*domain.Identity] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bc.Subscribe(s.current)
}

func (s *Store) establish(identity *domain.Identity) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.persistSlot(identity)
	s.current = identity
	s.bc.Publish(identity)

	snapshot := *identity
	return &snapshot, nil
}

// persistSlot writes the identity JSON to the durable slot. Timestamps
// serialize as RFC3339 strings and parse back on restore.
func (s *Store) persistSlot(identity *domain.Identity) {
	raw, err := json.MarshalIndent(identity, "", "  ")
	if err != nil {
		s.log.Warn("failed to encode demo identity", zap.Error(err))
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.slotPath), 0o755); err != nil {
		s.log.Warn("failed to create demo state dir", zap.Error(err))
		return
	}
	if err := os.WriteFile(s.slotPath, raw, 0o600); err != nil {
		s.log.Warn("failed to persist demo identity", zap.Error(err))
	}
}

func (s *Store) restoreSlot() {
	raw, err := os.ReadFile(s.slotPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("failed to read demo identity slot", zap.Error(err))
		}
		return
	}

	var identity domain.Identity
	if err := json.Unmarshal(raw, &identity); err != nil {
		s.log.Warn("discarding corrupt demo identity slot", zap.Error(err))
		_ = os.Remove(s.slotPath)
		return
	}
	s.current = &identity
}

func (s *Store) simulateLatency(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	select {
	case <-time.After(s.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func synthesize(email, displayName string, now time.Time) *domain.Identity {
	if displayName == "" {
		displayName = domain.DisplayNameFromEmail(email)
	}
	return &domain.Identity{
		ID:          "demo-user-" + randomTag(9),
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

const tagAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomTag(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	for i, b := range buf {
		buf[i] = tagAlphabet[int(b)%len(tagAlphabet)]
	}
	return string(buf)
}
