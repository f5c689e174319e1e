// Package authstate maintains the application-scoped view of the current
// identity. Exactly one subscription to the session store is opened for
// the process; everything that needs the signed-in user reads or watches
// this provider instead of subscribing itself.
package authstate

import (
	"context"
	"sync"

	"github.com/cadetops/corpshq/internal/identity/domain"
	"github.com/cadetops/corpshq/pkg/stream"
	"go.uber.org/zap"
)

// State is one consistent snapshot. Loading is true only before the first
// delivery from the session store; it never becomes true again.
type State struct {
	User    *domain.Identity
	Loading bool
	Err     error
}

type Provider struct {
	log      *zap.Logger
	sessions domain.Service

	mu      sync.Mutex
	state   State
	started bool
	sub     *stream.Subscription[*domain.Identity]
	done    chan struct{}

	bc *stream.Broadcaster[State]
}

func NewProvider(log *zap.Logger, sessions domain.Service) *Provider {
	return &Provider{
		log:      log.Named("authstate"),
		sessions: sessions,
		state:    State{Loading: true},
		bc:       stream.New[State](),
	}
}

// Start opens the single session-store subscription and pumps its
// deliveries into the provider. Calling Start twice is a no-op.
func (p *Provider) Start(ctx context.Context) error {
	_ = ctx
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return nil
	}
	p.started = true
	p.sub = p.sessions.Subscribe()
	p.done = make(chan struct{})
	go p.pump(p.sub, p.done)
	return nil
}

// Stop cancels the session-store subscription and waits for the pump to
// drain.
func (p *Provider) Stop(ctx context.Context) error {
	p.mu.Lock()
	sub, done := p.sub, p.done
	p.mu.Unlock()
	if sub == nil {
		return nil
	}
	sub.Cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Current returns the latest snapshot.
func (p *Provider) Current() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Watch streams snapshots: the current one immediately, then one per
// change.
func (p *Provider) Watch() *stream.Subscription[State] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bc.Subscribe(p.state)
}

// RecordError surfaces a failed auth operation in the state. The error
// clears on the next identity delivery.
func (p *Provider) RecordError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Err = err
	p.bc.Publish(p.state)
}

func (p *Provider) pump(sub *stream.Subscription[*domain.Identity], done chan struct{}) {
	defer close(done)
	for identity := range sub.C {
		p.mu.Lock()
		p.state = State{User: identity}
		p.bc.Publish(p.state)
		p.mu.Unlock()
	}
}
