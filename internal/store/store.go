package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/tutorbook/internal/backend"
	"github.com/roach88/tutorbook/internal/model"
)

// Options configures a Store.
type Options struct {
	Clock  model.Clock
	IDs    model.IDGenerator
	Logger *slog.Logger
}

// Store is the handle every store operation goes through. Construct one per
// process; durability belongs to the backend, so there is nothing to close.
type Store struct {
	sel    *backend.Selector
	clock  model.Clock
	ids    model.IDGenerator
	logger *slog.Logger
}

// New returns a Store persisting through sel.
func New(sel *backend.Selector, opts Options) *Store {
	s := &Store{sel: sel, clock: opts.Clock, ids: opts.IDs, logger: opts.Logger}
	if s.clock == nil {
		s.clock = model.SystemClock{}
	}
	if s.ids == nil {
		s.ids = model.UUIDGenerator{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Clock returns the clock used to stamp dates.
func (s *Store) Clock() model.Clock { return s.clock }

// IDs returns the generator used for new record ids.
func (s *Store) IDs() model.IDGenerator { return s.ids }

// Logger returns the store's logger.
func (s *Store) Logger() *slog.Logger { return s.logger }

// Today returns the current date in model.DateLayout.
func (s *Store) Today() string { return model.FormatDate(s.clock.Now()) }

// Load returns the current aggregate. The result is a private copy; changes
// to it are not persisted.
func (s *Store) Load(ctx context.Context) (*model.Aggregate, error) {
	agg, _, err := s.sel.Read(ctx)
	return agg, err
}

// Update loads the aggregate, applies fn and writes the result back. If fn
// returns an error nothing is written and the error is returned unchanged.
func (s *Store) Update(ctx context.Context, fn func(agg *model.Aggregate) error) error {
	agg, rev, err := s.sel.Read(ctx)
	if err != nil {
		return err
	}
	if err := fn(agg); err != nil {
		return err
	}
	if _, err := s.sel.Write(ctx, agg, rev); err != nil {
		return err
	}
	return nil
}

// Backend reports which backend currently serves the store.
func (s *Store) Backend(ctx context.Context) (backend.Resolution, error) {
	return s.sel.Resolve(ctx)
}

// MigrateToFile moves storage to the data file at path.
func (s *Store) MigrateToFile(ctx context.Context, path string) error {
	return s.sel.MigrateToFile(ctx, path)
}

// MigrateToFallback moves storage back to the key-value fallback.
func (s *Store) MigrateToFallback(ctx context.Context) error {
	return s.sel.MigrateToFallback(ctx)
}

// Reset clears both backends and reseeds the sample dataset.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.sel.Reset(ctx); err != nil {
		return err
	}
	s.logger.Info("store reset to sample data")
	return nil
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
