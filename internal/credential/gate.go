// Package credential tracks whether a usable backend credential exists.
//
// The state is optimistic: after a selection flow runs the gate assumes it
// succeeded, because the host cannot confirm completion synchronously. Only
// an authoritative rejection from the backend (Invalidate) sets it back to
// false. The gate never re-probes after construction.
package credential

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Prober reports whether a credential is currently available.
type Prober interface {
	Probe(ctx context.Context) bool
}

// Selector runs the credential selection flow. It may be interactive.
type Selector interface {
	Select(ctx context.Context) error
}

// Gate owns the process-wide "credential available" flag.
type Gate struct {
	mu        sync.RWMutex
	available bool
	selector  Selector
}

// NewGate probes once to initialise the flag.
func NewGate(ctx context.Context, prober Prober, selector Selector) *Gate {
	available := prober != nil && prober.Probe(ctx)
	log.Debug().Bool("available", available).Msg("Credential probed at startup")
	return &Gate{available: available, selector: selector}
}

// HasCredential returns the cached flag. It has no side effects.
func (g *Gate) HasCredential() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.available
}

// EnsureCredential runs the selection flow only when no credential is
// recorded, then marks the credential available. It never fails: a bad
// credential surfaces on the caller's next backend call.
func (g *Gate) EnsureCredential(ctx context.Context) {
	if g.HasCredential() {
		return
	}
	g.Connect(ctx)
}

// Connect runs the selection flow unconditionally and marks the credential
// available regardless of the flow's outcome.
func (g *Gate) Connect(ctx context.Context) {
	g.ConnectWith(ctx, g.selector)
}

// ConnectWith is Connect with a caller-supplied selection flow.
func (g *Gate) ConnectWith(ctx context.Context, selector Selector) {
	if selector != nil {
		if err := selector.Select(ctx); err != nil {
			log.Warn().Err(err).Msg("Credential selection reported an error; continuing optimistically")
		}
	}
	g.set(true)
}

// Invalidate records that the backend rejected the credential.
func (g *Gate) Invalidate() {
	g.set(false)
}

func (g *Gate) set(v bool) {
	g.mu.Lock()
	g.available = v
	g.mu.Unlock()
	log.Debug().Bool("available", v).Msg("Credential state updated")
}
