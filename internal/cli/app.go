package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/tutorbook/internal/backend"
	"github.com/roach88/tutorbook/internal/config"
	"github.com/roach88/tutorbook/internal/ledger"
	"github.com/roach88/tutorbook/internal/model"
	"github.com/roach88/tutorbook/internal/seed"
	"github.com/roach88/tutorbook/internal/store"
)

// app is the per-invocation wiring of config, database, store and ledger.
type app struct {
	cfg    config.Config
	db     *backend.DB
	store  *store.Store
	ledger *ledger.Engine
	out    *OutputFormatter
	logger *slog.Logger
}

// openApp loads configuration, configures logging and opens the store.
// Failures here are command errors.
func openApp(cmd *cobra.Command, opts *RootOptions) (*app, error) {
	cfg, err := config.Load(config.LoadOptions{Path: opts.ConfigPath})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.DBPath != "" {
		cfg.DBPath = opts.DBPath
	}

	logLevel := cfg.SlogLevel()
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	logger.Debug("opening database", "path", cfg.DBPath)
	db, err := backend.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	clock := opts.Clock
	if clock == nil {
		clock = model.SystemClock{}
	}
	ids := opts.IDs
	if ids == nil {
		ids = model.UUIDGenerator{}
	}

	sel := backend.NewSelector(db, backend.Options{
		FileHandles: cfg.FileHandles,
		Seed:        seed.Aggregate,
		Logger:      logger,
	})
	st := store.New(sel, store.Options{Clock: clock, IDs: ids, Logger: logger})

	return &app{
		cfg:   cfg,
		db:    db,
		store: st,
		ledger: ledger.New(st, ledger.Options{
			Currency: cfg.Currency,
			Locale:   cfg.Language(),
			Logger:   logger,
		}),
		out: &OutputFormatter{
			Format:    opts.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
			Verbose:   opts.Verbose,
		},
		logger: logger,
	}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.logger.Error("error closing database", "error", err)
	}
}

// fail reports a store or ledger error and converts it to an ExitError.
// In json mode the error is also rendered as a CLIResponse.
func (a *app) fail(message string, err error) error {
	if a.out.Format == "json" {
		_ = a.out.Error(errorCode(err), err.Error(), nil)
	}
	return WrapExitError(ExitFailure, message, err)
}

// errorCode returns the domain error code of err, or ERROR.
func errorCode(err error) string {
	if code := model.CodeOf(err); code != "" {
		return string(code)
	}
	return "ERROR"
}

// withApp opens the app for the duration of fn.
func withApp(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, a *app) error) error {
	a, err := openApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, a)
}
