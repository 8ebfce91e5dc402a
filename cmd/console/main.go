// Command console is a terminal front end for newsdesk. It resolves the
// current session the same way the web client does and reports which view a
// path leads to.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"newsdesk/internal/client"
	"newsdesk/internal/logging"
	"newsdesk/internal/routing"
	"newsdesk/internal/session"
)

const usage = `usage: console [-api URL] [-session FILE] <command> [args]

commands:
  personas          list demo personas
  demo <persona>    sign in as a demo persona
  whoami            show the resolved session
  route [path]      show what the session sees at path (default "/")
  signout           end the session
`

type app struct {
	api   *client.Client
	store *session.FileOverrideStore
	log   *zap.Logger
	out   io.Writer
}

func main() {
	fs := flag.NewFlagSet("console", flag.ExitOnError)
	apiURL := fs.String("api", envOr("NEWSDESK_API", "http://localhost:8080"), "newsdesk server base URL")
	sessionFile := fs.String("session", defaultSessionFile(), "override session file")
	verbose := fs.Bool("v", false, "log bootstrap details")
	fs.Usage = func() { fmt.Fprint(fs.Output(), usage) }
	_ = fs.Parse(os.Args[1:])

	level := "error"
	if *verbose {
		level = "debug"
	}
	logger := logging.Must(level, true)
	defer func() { _ = logger.Sync() }()

	a := &app{
		api:   client.New(*apiURL),
		store: session.NewFileOverrideStore(*sessionFile),
		log:   logger,
		out:   os.Stdout,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := a.run(ctx, fs.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("missing command\n" + usage)
	}
	switch cmd, rest := args[0], args[1:]; cmd {
	case "personas":
		return a.personas(ctx)
	case "demo":
		if len(rest) != 1 {
			return errors.New("demo needs a persona id")
		}
		return a.demo(ctx, rest[0])
	case "whoami":
		return a.whoami(ctx)
	case "route":
		path := "/"
		if len(rest) > 0 {
			path = rest[0]
		}
		return a.route(ctx, path)
	case "signout":
		return a.signOut(ctx)
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

// bootstrap starts a session bootstrapper and waits for it to settle. The
// console has no external identity provider, so without an override the
// session is signed out.
func (a *app) bootstrap(ctx context.Context) (*session.Bootstrapper, session.State, error) {
	b := session.New(session.NewManualProvider(nil), a.api, a.store, session.WithLogger(a.log))
	b.OnChange(func(s session.State) {
		a.log.Debug("session state", zap.Stringer("phase", s.Phase), zap.Bool("identity", s.Identity != nil), zap.Bool("profile", s.Profile != nil))
	})
	b.Start(ctx)
	state, err := b.WaitReady(ctx)
	if err != nil {
		b.Close()
		return nil, state, err
	}
	return b, state, nil
}

func (a *app) personas(ctx context.Context) error {
	personas, err := a.api.ListDemoPersonas(ctx)
	if err != nil {
		return err
	}
	for _, p := range personas {
		fmt.Fprintf(a.out, "%-16s %-20s %s\n", p.ID, p.Role, p.Name)
	}
	return nil
}

func (a *app) demo(ctx context.Context, personaID string) error {
	issued, err := a.api.IssueDemoSession(ctx, personaID)
	if err != nil {
		return err
	}

	b, _, err := a.bootstrap(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	if err := b.Adopt(session.Override{
		DemoMode: true,
		Session: session.OverrideSession{
			UID:         issued.Persona.ID,
			DisplayName: issued.Persona.Name,
			Email:       issued.Persona.Email,
			Token:       issued.Token,
		},
	}); err != nil {
		return err
	}
	state, err := b.WaitReady(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "signed in as %s (%s), session expires %s\n", issued.Persona.Name, issued.Persona.Role, issued.ExpiresAt.Local().Format(time.RFC1123))
	fmt.Fprintln(a.out, routing.Decide(routing.InputFrom(state), routing.PathRoot))
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	b, state, err := a.bootstrap(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	if state.Identity == nil {
		fmt.Fprintln(a.out, "signed out")
		return nil
	}
	fmt.Fprintf(a.out, "uid:     %s\n", state.Identity.UID)
	fmt.Fprintf(a.out, "name:    %s\n", state.Identity.DisplayName)
	fmt.Fprintf(a.out, "demo:    %t\n", state.Identity.Demo)
	if state.Profile == nil {
		fmt.Fprintln(a.out, "profile: none")
		return nil
	}
	flags := state.Flags()
	fmt.Fprintf(a.out, "role:    %s\n", state.Profile.Role)
	fmt.Fprintf(a.out, "complete: %t\n", state.Profile.ProfileComplete)
	fmt.Fprintf(a.out, "can manage users: %t, can create tasks: %t\n", flags.CanManageUsers, flags.CanCreateTasks)
	return nil
}

func (a *app) route(ctx context.Context, path string) error {
	b, state, err := a.bootstrap(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	fmt.Fprintf(a.out, "%s: %s\n", routing.Normalize(path), routing.Decide(routing.InputFrom(state), path))
	return nil
}

func (a *app) signOut(ctx context.Context) error {
	o, err := a.store.Load()
	if err != nil && !errors.Is(err, session.ErrMalformedOverride) {
		return err
	}
	if o != nil && o.Session.Token != "" {
		if err := a.api.RevokeSession(ctx, o.Session.Token); err != nil {
			a.log.Warn("revoke session", zap.Error(err))
		}
	}

	b, _, err := a.bootstrap(ctx)
	if err != nil {
		return err
	}
	defer b.Close()
	if err := b.SignOut(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "signed out")
	return nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "newsdesk", "session.json")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
