package session

import (
	"context"
	"sync"
)

// IdentityProvider is an external source of identity.
//
// Subscribe must call fn once with the current identity (nil when signed
// out) and again after every change, until the returned func is called.
type IdentityProvider interface {
	Subscribe(fn func(*Identity)) (unsubscribe func())
	SignOut(ctx context.Context) error
}

// ManualProvider is an IdentityProvider whose identity is set by the host
// program. It backs the console client and tests.
type ManualProvider struct {
	mu      sync.Mutex
	current *Identity
	nextID  int
	subs    map[int]func(*Identity)
}

var _ IdentityProvider = (*ManualProvider)(nil)

// NewManualProvider creates a provider holding current (nil for signed out).
func NewManualProvider(current *Identity) *ManualProvider {
	return &ManualProvider{current: current, subs: make(map[int]func(*Identity))}
}

func (p *ManualProvider) Subscribe(fn func(*Identity)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	current := p.current
	p.mu.Unlock()

	fn(current)

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

// Set replaces the identity and notifies subscribers.
func (p *ManualProvider) Set(id *Identity) {
	p.mu.Lock()
	p.current = id
	subs := make([]func(*Identity), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	for _, fn := range subs {
		fn(id)
	}
}

func (p *ManualProvider) SignOut(context.Context) error {
	p.Set(nil)
	return nil
}

// Subscribers returns the number of active subscriptions.
func (p *ManualProvider) Subscribers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}
