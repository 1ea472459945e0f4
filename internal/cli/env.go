package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/memento/internal/clock"
	"github.com/roach88/memento/internal/config"
	"github.com/roach88/memento/internal/engine"
	"github.com/roach88/memento/internal/store"
)

// env is the resolved runtime of one command: configuration with flag
// overrides applied, the open store, the clock and the engine.
type env struct {
	cfg    config.Config
	owner  string
	loc    *time.Location
	store  *store.Store
	clock  *clock.Clock
	engine *engine.Engine
	out    *OutputFormatter
}

// openEnv loads configuration, applies flag overrides and opens the store.
// Callers must call close.
func openEnv(opts *RootOptions, cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.DB != "" {
		cfg.DB = opts.DB
	}
	if opts.Owner != "" {
		cfg.Owner = opts.Owner
	}
	if opts.Timezone != "" {
		cfg.Timezone = opts.Timezone
	}
	if cfg.Owner == "" {
		return nil, NewExitError(ExitCommandError, "owner is required: pass --owner or set owner in the config file")
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid timezone", err)
	}
	p, err := cfg.NewPolicy()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid scheduling policy", err)
	}

	slog.Debug("opening database", "path", cfg.DB)
	st, err := store.Open(cfg.DB)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	clk := clock.New(clock.WithLocation(loc), clock.WithWallClock(opts.WallClock))

	var engineOpts []engine.Option
	if opts.SessionIDs != nil {
		engineOpts = append(engineOpts, engine.WithSessionIDs(opts.SessionIDs))
	}
	engineOpts = append(engineOpts, engine.WithLogger(slog.Default()))

	return &env{
		cfg:    cfg,
		owner:  cfg.Owner,
		loc:    loc,
		store:  st,
		clock:  clk,
		engine: engine.New(st, clk, p, engineOpts...),
		out: &OutputFormatter{
			Format:    opts.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
			Verbose:   opts.Verbose,
		},
	}, nil
}

func (e *env) close() {
	if err := e.store.Close(); err != nil {
		slog.Warn("failed to close database", "error", err)
	}
}

// applyAt overrides the clock from an --at flag value. An empty value
// leaves the clock on real time.
func (e *env) applyAt(at string) error {
	if at == "" {
		return nil
	}
	t, err := e.clock.Apply(at)
	if err != nil {
		return e.out.EngineError("invalid --at", err)
	}
	slog.Debug("clock override", "now", t, "overridden", e.clock.IsOverridden())
	return nil
}

// formatTime renders an instant in the configured location.
// A nil instant renders as "-".
func (e *env) formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.In(e.loc).Format("2006-01-02 15:04")
}

// commandContext returns the context the command was executed with, so that
// cancellation from the caller reaches the store.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
