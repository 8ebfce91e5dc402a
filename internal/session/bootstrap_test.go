package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/auth"
	"newsdesk/internal/client"
	"newsdesk/internal/model"
)

type fakeLookup struct {
	mu       sync.Mutex
	profiles map[string]*model.User
	errs     map[string]error
	gates    map[string]chan struct{}
	calls    []string
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		profiles: map[string]*model.User{},
		errs:     map[string]error{},
		gates:    map[string]chan struct{}{},
	}
}

func (f *fakeLookup) GetUserByUID(ctx context.Context, uid string) (*model.User, error) {
	f.mu.Lock()
	f.calls = append(f.calls, uid)
	gate := f.gates[uid]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[uid]; err != nil {
		return nil, err
	}
	if p, ok := f.profiles[uid]; ok {
		return p, nil
	}
	return nil, client.ErrNotFound
}

func (f *fakeLookup) gate(uid string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[uid] = ch
	return ch
}

// recorder collects every published state.
type recorder struct {
	mu     sync.Mutex
	states []State
}

func (r *recorder) record(s State) {
	r.mu.Lock()
	r.states = append(r.states, s)
	r.mu.Unlock()
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

func waitReady(t *testing.T, b *Bootstrapper) State {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s, err := b.WaitReady(ctx)
	require.NoError(t, err)
	return s
}

func tempStore(t *testing.T) *FileOverrideStore {
	t.Helper()
	return NewFileOverrideStore(filepath.Join(t.TempDir(), "session.json"))
}

func TestBootstrap_NoIdentity(t *testing.T) {
	provider := NewManualProvider(nil)
	b := New(provider, newFakeLookup(), tempStore(t))
	defer b.Close()

	assert.True(t, b.State().Loading())
	b.Start(context.Background())

	s := waitReady(t, b)
	assert.Nil(t, s.Identity)
	assert.Nil(t, s.Profile)
	assert.False(t, s.Loading())
	assert.Equal(t, 1, provider.Subscribers())
}

func TestBootstrap_ProviderIdentity(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(*fakeLookup)
		wantProfile bool
	}{
		{
			name: "profile found",
			setup: func(f *fakeLookup) {
				f.profiles["u1"] = &model.User{UID: "u1", Role: model.RoleReporter, ProfileComplete: true}
			},
			wantProfile: true,
		},
		{
			name:  "profile not found",
			setup: func(*fakeLookup) {},
		},
		{
			name: "transport failure fails open",
			setup: func(f *fakeLookup) {
				f.errs["u1"] = errors.New("connection refused")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := newFakeLookup()
			tt.setup(lookup)
			rec := &recorder{}
			b := New(NewManualProvider(&Identity{UID: "u1"}), lookup, tempStore(t))
			b.OnChange(rec.record)
			defer b.Close()

			b.Start(context.Background())
			s := waitReady(t, b)

			require.NotNil(t, s.Identity)
			assert.Equal(t, "u1", s.Identity.UID)
			assert.Equal(t, tt.wantProfile, s.Profile != nil)
			assert.Equal(t, tt.wantProfile, s.Flags().IsReporter)

			require.Eventually(t, func() bool { return rec.count() == 2 }, time.Second, time.Millisecond)
			rec.mu.Lock()
			defer rec.mu.Unlock()
			assert.Equal(t, PhaseResolving, rec.states[0].Phase)
			assert.Equal(t, PhaseReady, rec.states[1].Phase)
		})
	}
}

func TestBootstrap_OverrideSession(t *testing.T) {
	store := tempStore(t)
	require.NoError(t, store.Save(Override{
		DemoMode: true,
		Session:  OverrideSession{UID: "reporter_user", DisplayName: "Sarah Reporter", Email: "sarah@demo.com"},
	}))
	lookup := newFakeLookup()
	lookup.profiles["reporter_user"] = &model.User{UID: "reporter_user", Role: model.RoleReporter, ProfileComplete: true}
	provider := NewManualProvider(&Identity{UID: "someone-else"})

	b := New(provider, lookup, store)
	defer b.Close()
	b.Start(context.Background())

	s := waitReady(t, b)
	require.NotNil(t, s.Identity)
	assert.Equal(t, "reporter_user", s.Identity.UID)
	assert.True(t, s.Identity.Demo)
	require.NotNil(t, s.Profile)
	assert.Equal(t, 0, provider.Subscribers())
}

func TestBootstrap_MalformedOverrideFallsBack(t *testing.T) {
	tokens := auth.NewSessionTokenService("s", time.Hour)
	otherToken, _, err := tokens.Issue(auth.Identity{UID: "other"})
	require.NoError(t, err)

	expiredTokens := auth.NewSessionTokenService("s", time.Millisecond)
	expiredToken, _, err := expiredTokens.Issue(auth.Identity{UID: "u1"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		write func(t *testing.T, path string)
	}{
		{name: "invalid json", write: func(t *testing.T, path string) {
			require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
		}},
		{name: "demo mode off", write: func(t *testing.T, path string) {
			require.NoError(t, NewFileOverrideStore(path).Save(Override{Session: OverrideSession{UID: "u1"}}))
		}},
		{name: "missing uid", write: func(t *testing.T, path string) {
			require.NoError(t, NewFileOverrideStore(path).Save(Override{DemoMode: true}))
		}},
		{name: "token for another subject", write: func(t *testing.T, path string) {
			require.NoError(t, NewFileOverrideStore(path).Save(Override{DemoMode: true, Session: OverrideSession{UID: "u1", Token: otherToken}}))
		}},
		{name: "expired token", write: func(t *testing.T, path string) {
			require.NoError(t, NewFileOverrideStore(path).Save(Override{DemoMode: true, Session: OverrideSession{UID: "u1", Token: expiredToken}}))
		}},
		{name: "garbage token", write: func(t *testing.T, path string) {
			require.NoError(t, NewFileOverrideStore(path).Save(Override{DemoMode: true, Session: OverrideSession{UID: "u1", Token: "x.y"}}))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := tempStore(t)
			tt.write(t, store.Path())

			provider := NewManualProvider(nil)
			b := New(provider, newFakeLookup(), store, WithClock(func() time.Time { return time.Now().Add(time.Minute) }))
			defer b.Close()
			b.Start(context.Background())

			s := waitReady(t, b)
			assert.Nil(t, s.Identity)
			assert.Equal(t, 1, provider.Subscribers())

			_, err := os.Stat(store.Path())
			assert.True(t, errors.Is(err, os.ErrNotExist), "override should be cleared")
		})
	}
}

func TestBootstrap_LatestIdentityWins(t *testing.T) {
	lookup := newFakeLookup()
	lookup.profiles["a"] = &model.User{UID: "a", Role: model.RoleAdmin}
	lookup.profiles["b"] = &model.User{UID: "b", Role: model.RoleCameraman}
	gateA := lookup.gate("a")
	gateB := lookup.gate("b")

	provider := NewManualProvider(&Identity{UID: "a"})
	b := New(provider, lookup, nil)
	defer b.Close()
	b.Start(context.Background())

	provider.Set(&Identity{UID: "b"})
	close(gateB)
	s := waitReady(t, b)
	require.NotNil(t, s.Profile)
	assert.Equal(t, "b", s.Profile.UID)

	// The first lookup was cancelled; releasing it must not matter.
	close(gateA)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, "b", b.State().Identity.UID)
	assert.Equal(t, model.RoleCameraman, b.State().Profile.Role)
}

func TestBootstrap_NoUpdatesAfterClose(t *testing.T) {
	lookup := newFakeLookup()
	lookup.profiles["u1"] = &model.User{UID: "u1"}
	gate := lookup.gate("u1")

	rec := &recorder{}
	provider := NewManualProvider(&Identity{UID: "u1"})
	b := New(provider, lookup, nil)
	b.OnChange(rec.record)
	b.Start(context.Background())

	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, time.Millisecond)
	b.Close()
	before := rec.count()

	close(gate)
	provider.Set(&Identity{UID: "u2"})
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, before, rec.count())
	assert.Equal(t, PhaseResolving, b.State().Phase)
	assert.Equal(t, 0, provider.Subscribers())

	_, err := b.WaitReady(context.Background())
	assert.Error(t, err)
}

func TestBootstrap_SignOutAndAdopt(t *testing.T) {
	store := tempStore(t)
	lookup := newFakeLookup()
	lookup.profiles["editor_user"] = &model.User{UID: "editor_user", Role: model.RoleAssignmentEditor, ProfileComplete: true}
	provider := NewManualProvider(nil)

	b := New(provider, lookup, store)
	defer b.Close()
	b.Start(context.Background())
	waitReady(t, b)

	tokens := auth.NewSessionTokenService("s", time.Hour)
	token, _, err := tokens.Issue(auth.Identity{UID: "editor_user"})
	require.NoError(t, err)

	require.NoError(t, b.Adopt(Override{DemoMode: true, Session: OverrideSession{UID: "editor_user", Token: token}}))
	assert.Equal(t, 0, provider.Subscribers())
	s := waitReady(t, b)
	require.NotNil(t, s.Profile)
	assert.True(t, s.Flags().IsAdmin)
	assert.True(t, s.Flags().CanManageUsers)

	stored, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "editor_user", stored.Session.UID)

	assert.Error(t, b.Adopt(Override{DemoMode: true}))

	require.NoError(t, b.SignOut(context.Background()))
	s = waitReady(t, b)
	assert.Nil(t, s.Identity)
	assert.Equal(t, 1, provider.Subscribers())
	stored, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, stored)

	// A later provider sign-in restarts the cycle.
	provider.Set(&Identity{UID: "editor_user"})
	require.Eventually(t, func() bool {
		st := b.State()
		return st.Phase == PhaseReady && st.Identity != nil && st.Profile != nil
	}, time.Second, time.Millisecond)
}

func TestBootstrap_ListenerCanSignOut(t *testing.T) {
	lookup := newFakeLookup()
	lookup.profiles["u1"] = &model.User{UID: "u1", Role: model.RoleReporter, ProfileComplete: true, IsActive: false}
	provider := NewManualProvider(&Identity{UID: "u1"})
	b := New(provider, lookup, tempStore(t))
	defer b.Close()

	signedOut := make(chan error, 1)
	rec := &recorder{}
	b.OnChange(rec.record)
	b.OnChange(func(s State) {
		if s.Phase == PhaseReady && s.Profile != nil && !s.Profile.IsActive {
			signedOut <- b.SignOut(context.Background())
		}
	})
	b.Start(context.Background())

	select {
	case err := <-signedOut:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatalf("SignOut from a listener did not return; state=%v", b.State().Phase)
	}

	require.Eventually(t, func() bool {
		st := b.State()
		return st.Phase == PhaseReady && st.Identity == nil
	}, time.Second, time.Millisecond)
	assert.Equal(t, 1, provider.Subscribers())

	// Listeners saw the inactive profile first, then the signed-out state.
	require.Eventually(t, func() bool {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		last := rec.states[len(rec.states)-1]
		return last.Phase == PhaseReady && last.Identity == nil
	}, time.Second, time.Millisecond)
	rec.mu.Lock()
	assert.Equal(t, PhaseResolving, rec.states[0].Phase)
	assert.NotNil(t, rec.states[1].Profile)
	rec.mu.Unlock()
}

func TestBootstrap_ListenerCanAdopt(t *testing.T) {
	lookup := newFakeLookup()
	lookup.profiles["reporter_user"] = &model.User{UID: "reporter_user", Role: model.RoleReporter, ProfileComplete: true}
	b := New(NewManualProvider(nil), lookup, tempStore(t))
	defer b.Close()

	var once sync.Once
	b.OnChange(func(s State) {
		if s.Phase == PhaseReady && s.Identity == nil {
			once.Do(func() {
				assert.NoError(t, b.Adopt(Override{DemoMode: true, Session: OverrideSession{UID: "reporter_user"}}))
			})
		}
	})
	b.Start(context.Background())

	require.Eventually(t, func() bool {
		st := b.State()
		return st.Phase == PhaseReady && st.Profile != nil
	}, 2*time.Second, time.Millisecond)
	assert.True(t, b.State().Identity.Demo)
}

func TestFlagsFor(t *testing.T) {
	tests := []struct {
		role model.Role
		want RoleFlags
	}{
		{model.RoleAdmin, RoleFlags{IsAdmin: true, CanManageUsers: true, CanCreateTasks: true}},
		{model.RoleAssignmentEditor, RoleFlags{IsAdmin: true, CanManageUsers: true, CanCreateTasks: true}},
		{model.RoleHeadOfDepartment, RoleFlags{IsAdmin: true, CanManageUsers: true, CanCreateTasks: true}},
		{model.RoleReporter, RoleFlags{IsReporter: true, CanCreateTasks: true}},
		{model.RoleCameraman, RoleFlags{IsCameraman: true, CanCreateTasks: true}},
		{model.Role("Intern"), RoleFlags{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, FlagsFor(&model.User{Role: tt.role}))
		})
	}
	assert.Equal(t, RoleFlags{}, FlagsFor(nil))
}
