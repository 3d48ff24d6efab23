// Package app wires the worker, the queues and the Bubble Tea program into a
// running dashboard.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/atomicstack/tuiporal/internal/audit"
	"github.com/atomicstack/tuiporal/internal/backend"
	"github.com/atomicstack/tuiporal/internal/config"
	"github.com/atomicstack/tuiporal/internal/logging"
	"github.com/atomicstack/tuiporal/internal/logging/events"
	"github.com/atomicstack/tuiporal/internal/remote"
	"github.com/atomicstack/tuiporal/internal/state"
	"github.com/atomicstack/tuiporal/internal/temporal"
	"github.com/atomicstack/tuiporal/internal/ui"
	"github.com/atomicstack/tuiporal/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

// Runtime is an assembled dashboard that has not started yet.
type Runtime struct {
	Model    *ui.Model
	Worker   *backend.Worker
	commands *backend.Queue[backend.Envelope]
	results  *backend.Queue[backend.Result]
	store    *audit.Store
}

// New assembles the dashboard for cfg. dial opens the remote capability on
// each connect attempt. A failure to open the audit store is logged and the
// dashboard runs without it.
func New(cfg config.Config, dial remote.Dialer) *Runtime {
	r := &Runtime{
		commands: backend.NewQueue[backend.Envelope](),
		results:  backend.NewQueue[backend.Result](),
	}
	if !cfg.Audit.Disabled {
		store, err := audit.Open(cfg.Audit.Path)
		if err != nil {
			logging.Error(fmt.Errorf("audit disabled: %w", err))
		} else {
			r.store = store
		}
	}

	session := sessionFor(cfg)
	workerOpts := backend.Options{
		PageSize:        cfg.Runtime.PageSize,
		HistoryPageSize: cfg.Runtime.HistoryPageSize,
		MinCallInterval: cfg.Runtime.MinCallInterval,
		Profile:         session.Profile,
	}
	modelOpts := ui.Options{
		Session:         session,
		Bus:             command.New(r.commands),
		Results:         r.results,
		AutoRefresh:     cfg.Runtime.AutoRefresh,
		RefreshInterval: cfg.Runtime.RefreshInterval,
		Width:           cfg.Runtime.Width,
		Height:          cfg.Runtime.Height,
	}
	// Interfaces stay nil rather than holding a nil *audit.Store.
	if r.store != nil {
		workerOpts.Auditor = r.store
		modelOpts.History = r.store
	}
	r.Worker = backend.NewWorker(r.commands, r.results, dial, workerOpts)
	r.Model = ui.NewModel(modelOpts)
	return r
}

// Run starts the worker and the program and blocks until the user quits or
// ctx ends. extra options are passed to tea.NewProgram after the defaults.
func (r *Runtime) Run(ctx context.Context, opts ...tea.ProgramOption) error {
	defer r.close()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r.Model.Start()
	programOpts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	program := tea.NewProgram(r.Model, programOpts...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		_, err := program.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		if err != nil {
			return &RenderSurfaceError{Err: err}
		}
		return nil
	})
	g.Go(func() error {
		return r.Worker.Run(gctx)
	})
	err := g.Wait()
	events.App.Stop(err)
	return err
}

func (r *Runtime) close() {
	r.Worker.Stop()
	r.Worker.Wait()
	r.commands.Close()
	r.results.Close()
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			logging.Error(fmt.Errorf("close audit store: %w", err))
		}
	}
}

// RenderSurfaceError reports that the terminal program could not run.
type RenderSurfaceError struct {
	Err error
}

func (e *RenderSurfaceError) Error() string {
	return fmt.Sprintf("terminal: %v", e.Err)
}

func (e *RenderSurfaceError) Unwrap() error {
	return e.Err
}

// Run bootstraps and executes the dashboard against Temporal.
func Run(ctx context.Context, cfg config.Config) error {
	return New(cfg, Dialer(cfg)).Run(ctx)
}

// sessionFor seeds the session from the selected profile. A profile that
// cannot be resolved still yields a session; the dialer reports the error
// when the first connect runs.
func sessionFor(cfg config.Config) *state.Session {
	p, err := config.ResolveProfile(cfg.Connection)
	if err != nil {
		logging.Error(fmt.Errorf("resolve profile: %w", err))
		ns := cfg.Connection.Namespace
		if ns == "" {
			ns = config.DefaultNamespace
		}
		return state.NewSession(cfg.Connection.Profile, "", ns)
	}
	return state.NewSession(p.Name, p.Address, p.Namespace)
}

// Dialer returns a remote.Dialer that re-reads the profiles file and dials
// Temporal on every connect, so edits to the file apply on reconnect.
func Dialer(cfg config.Config) remote.Dialer {
	return func(ctx context.Context) (remote.Capability, string, error) {
		p, err := config.ResolveProfile(cfg.Connection)
		if err != nil {
			return nil, "", err
		}
		events.Connection.Dial(p.Name, p.Address, p.TLSEnabled(), p.APIKey != "")
		client, err := temporal.Dial(ctx, clientOptions(cfg, p))
		if err != nil {
			return nil, "", err
		}
		return client, p.Namespace, nil
	}
}

func clientOptions(cfg config.Config, p config.Profile) temporal.Options {
	opts := temporal.Options{
		Address:        p.Address,
		APIKey:         p.APIKey,
		ConnectTimeout: cfg.Runtime.ConnectTimeout,
		RequestTimeout: cfg.Runtime.RequestTimeout,
	}
	if p.TLS != nil {
		opts.TLS = &temporal.TLSOptions{
			Enabled:  p.TLS.Enabled,
			CertPath: p.TLS.CertPath,
			KeyPath:  p.TLS.KeyPath,
			CAPath:   p.TLS.CAPath,
		}
	}
	return opts
}
