package domain

import (
	"context"

	"github.com/cadetops/corpshq/pkg/stream"
)

// Service is the session store: it issues, persists, and invalidates the
// current identity and streams every transition to subscribers. The live
// and demo implementations are chosen once at startup.
type Service interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Identity, error)
	SignUpWithPassword(ctx context.Context, email, password, displayName string) (*Identity, error)
	SignInWithProvider(ctx context.Context, provider Provider) (*Identity, error)
	// SignOut succeeds with no effect when nobody is signed in.
	SignOut(ctx context.Context) error
	RequestPasswordReset(ctx context.Context, email string) error

	// Authenticate resolves a transport token to its identity without
	// changing the current session.
	Authenticate(ctx context.Context, token string) (*Identity, error)
	// SessionToken returns the transport token bound to the current
	// session, or "" when signed out.
	SessionToken() string

	// Subscribe streams identity snapshots: the current identity (or nil)
	// immediately, then one element per transition, in transition order.
	Subscribe() *stream.Subscription[*Identity]
}
