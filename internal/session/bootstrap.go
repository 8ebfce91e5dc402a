package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"newsdesk/internal/client"
	"newsdesk/internal/model"
)

// ProfileLookup fetches the application profile for an identity.
// It returns client.ErrNotFound when the identity has no profile yet.
type ProfileLookup interface {
	GetUserByUID(ctx context.Context, uid string) (*model.User, error)
}

// Option customizes a Bootstrapper.
type Option func(*Bootstrapper)

// WithLogger sets the logger used for bootstrap warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Bootstrapper) { b.logger = logger }
}

// WithClock overrides the clock used to check override session expiry.
func WithClock(now func() time.Time) Option {
	return func(b *Bootstrapper) { b.now = now }
}

// Bootstrapper drives Initializing -> Resolving -> Ready for every identity
// change and publishes each state to its listeners.
type Bootstrapper struct {
	provider IdentityProvider
	lookup   ProfileLookup
	store    OverrideStore
	logger   *zap.Logger
	now      func() time.Time

	mu          sync.Mutex
	idle        *sync.Cond
	state       State
	gen         uint64
	started     bool
	closed      bool
	ctx         context.Context
	cancel      context.CancelFunc
	cancelFetch context.CancelFunc
	subscribed  bool
	unsubscribe func()
	listeners   []func(State)
	changed     chan struct{}

	// pending holds published states not yet handed to listeners. Only the
	// goroutine that set draining calls listeners, in publish order.
	pending  []State
	draining bool
}

// New creates a Bootstrapper. Nothing happens until Start.
func New(provider IdentityProvider, lookup ProfileLookup, store OverrideStore, opts ...Option) *Bootstrapper {
	b := &Bootstrapper{
		provider: provider,
		lookup:   lookup,
		store:    store,
		logger:   zap.NewNop(),
		now:      time.Now,
		state:    State{Phase: PhaseInitializing},
		changed:  make(chan struct{}),
	}
	b.idle = sync.NewCond(&b.mu)
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// State returns the current snapshot.
func (b *Bootstrapper) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// OnChange registers a listener called after every transition, in order.
// Listeners run without internal locks held and may call SignOut, Adopt or
// State; a transition they cause is delivered after they return. They must
// not call Close.
func (b *Bootstrapper) OnChange(fn func(State)) {
	b.mu.Lock()
	b.listeners = append(b.listeners, fn)
	b.mu.Unlock()
}

// Start consults the override store and then either adopts the override
// identity or subscribes to the provider. ctx bounds every profile lookup.
func (b *Bootstrapper) Start(ctx context.Context) {
	b.mu.Lock()
	if b.started || b.closed {
		b.mu.Unlock()
		return
	}
	b.started = true
	b.ctx, b.cancel = context.WithCancel(ctx)
	b.mu.Unlock()

	if override := b.loadOverride(); override != nil {
		b.resolve(override.Identity())
		return
	}
	b.subscribe()
}

// loadOverride returns a usable override or nil. Anything unusable is
// cleared so the next start does not trip over it again.
func (b *Bootstrapper) loadOverride() *Override {
	if b.store == nil {
		return nil
	}
	o, err := b.store.Load()
	if err == nil && o != nil {
		err = o.Validate(b.now())
	}
	if err == nil {
		return o
	}
	b.logger.Warn("discarding override session", zap.Error(err))
	if clearErr := b.store.Clear(); clearErr != nil {
		b.logger.Warn("clear override session", zap.Error(clearErr))
	}
	return nil
}

func (b *Bootstrapper) subscribe() {
	if b.provider == nil {
		b.resolve(nil)
		return
	}
	b.mu.Lock()
	if b.closed || b.subscribed {
		b.mu.Unlock()
		return
	}
	b.subscribed = true
	b.mu.Unlock()

	unsubscribe := b.provider.Subscribe(b.resolve)

	// Close or Adopt may have detached us while Subscribe ran.
	b.mu.Lock()
	if b.closed || !b.subscribed {
		b.mu.Unlock()
		unsubscribe()
		return
	}
	b.unsubscribe = unsubscribe
	b.mu.Unlock()
}

// detachLocked drops the provider subscription. b.mu must be held; the returned
// func must be called after b.mu is released.
func (b *Bootstrapper) detachLocked() func() {
	unsubscribe := b.unsubscribe
	b.unsubscribe = nil
	b.subscribed = false
	if unsubscribe == nil {
		return func() {}
	}
	return unsubscribe
}

// Adopt validates and persists an override session, detaches from the
// provider and resolves the override identity.
func (b *Bootstrapper) Adopt(o Override) error {
	if err := o.Validate(b.now()); err != nil {
		return err
	}
	if b.store != nil {
		if err := b.store.Save(o); err != nil {
			return err
		}
	}
	b.mu.Lock()
	unsubscribe := b.detachLocked()
	b.mu.Unlock()
	unsubscribe()
	b.resolve(o.Identity())
	return nil
}

// SignOut clears the override session, signs out of the provider and
// settles on Ready with no identity. Later provider sign-ins are picked up.
func (b *Bootstrapper) SignOut(ctx context.Context) error {
	var errs []error
	if b.store != nil {
		if err := b.store.Clear(); err != nil {
			errs = append(errs, err)
		}
	}
	if b.provider != nil {
		if err := b.provider.SignOut(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	b.resolve(nil)
	b.subscribe()
	return errors.Join(errs...)
}

// Close stops the bootstrap. After Close returns no listener is called and
// the state no longer changes; in-flight lookups are cancelled.
func (b *Bootstrapper) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	if b.cancel != nil {
		b.cancel()
	}
	unsubscribe := b.detachLocked()
	close(b.changed)
	b.pending = nil
	// Wait out a listener call that started before closed was set.
	for b.draining {
		b.idle.Wait()
	}
	b.mu.Unlock()

	unsubscribe()
}

// WaitReady blocks until the bootstrap reaches PhaseReady, ctx is done or
// the bootstrap is closed.
func (b *Bootstrapper) WaitReady(ctx context.Context) (State, error) {
	for {
		b.mu.Lock()
		state, changed, closed := b.state, b.changed, b.closed
		b.mu.Unlock()

		if state.Phase == PhaseReady {
			return state, nil
		}
		if closed {
			return state, errors.New("bootstrap closed")
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return state, ctx.Err()
		}
	}
}

// resolve starts a new cycle for id. Lookups belonging to an older cycle are
// cancelled and their results dropped.
func (b *Bootstrapper) resolve(id *Identity) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.gen++
	gen := b.gen
	if b.cancelFetch != nil {
		b.cancelFetch()
		b.cancelFetch = nil
	}

	if id == nil {
		b.setLocked(State{Phase: PhaseReady})
		b.mu.Unlock()
		b.drain()
		return
	}

	parent := b.ctx
	if parent == nil {
		parent = context.Background()
	}
	fetchCtx, cancel := context.WithCancel(parent)
	b.cancelFetch = cancel
	b.setLocked(State{Phase: PhaseResolving, Identity: id})
	b.mu.Unlock()
	b.drain()

	go b.fetch(fetchCtx, cancel, gen, id)
}

func (b *Bootstrapper) fetch(ctx context.Context, cancel context.CancelFunc, gen uint64, id *Identity) {
	defer cancel()

	profile, err := b.lookup.GetUserByUID(ctx, id.UID)
	if err != nil {
		profile = nil
		if !errors.Is(err, client.ErrNotFound) && ctx.Err() == nil {
			b.logger.Warn("profile lookup failed", zap.String("uid", id.UID), zap.Error(err))
		}
	}

	b.mu.Lock()
	if b.closed || gen != b.gen {
		b.mu.Unlock()
		return
	}
	b.cancelFetch = nil
	b.setLocked(State{Phase: PhaseReady, Identity: id, Profile: profile})
	b.mu.Unlock()
	b.drain()
}

// setLocked stores a new state, queues it for listeners and wakes waiters.
// b.mu must be held.
func (b *Bootstrapper) setLocked(s State) {
	b.state = s
	b.pending = append(b.pending, s)
	close(b.changed)
	b.changed = make(chan struct{})
}

// drain hands queued states to the listeners. If another call is already
// draining, including an outer call on this goroutine from a listener, it
// picks the new states up and drain returns immediately.
func (b *Bootstrapper) drain() {
	b.mu.Lock()
	if b.draining {
		b.mu.Unlock()
		return
	}
	b.draining = true
	defer func() {
		b.draining = false
		b.idle.Broadcast()
		b.mu.Unlock()
	}()

	for !b.closed && len(b.pending) > 0 {
		s := b.pending[0]
		b.pending = b.pending[1:]
		listeners := append([]func(State){}, b.listeners...)
		b.mu.Unlock()
		for _, fn := range listeners {
			fn(s)
		}
		b.mu.Lock()
	}
	b.pending = nil
}
