package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/tutorbook/internal/model"
)

// SeedFunc returns the sample dataset written on first use.
type SeedFunc func() (*model.Aggregate, error)

// Options configures a Selector.
type Options struct {
	// FileHandles reports whether the platform can hold file handles. When
	// false every access goes to the fallback store; a handle recorded
	// earlier makes reads and writes fail until it is migrated back.
	FileHandles bool

	// Authorizer answers file permission checks. Defaults to OSAuthorizer.
	Authorizer Authorizer

	// Seed supplies the dataset for an empty store. Defaults to an empty
	// aggregate.
	Seed SeedFunc

	Logger *slog.Logger
}

// Resolution is the outcome of choosing a backend for one access.
type Resolution struct {
	Kind   Kind
	Handle string // data file path when Kind is KindFileHandle
}

// Selector fronts the file and fallback backends. It holds no cached
// permission or document state; every call resolves and verifies afresh.
type Selector struct {
	kv          *KV
	handles     *HandleRegistry
	auth        Authorizer
	fileCapable bool
	seed        SeedFunc
	logger      *slog.Logger
}

// NewSelector builds a Selector over the database holding the fallback store
// and the handle registry.
func NewSelector(db *DB, opts Options) *Selector {
	s := &Selector{
		kv:          NewKV(db),
		handles:     NewHandleRegistry(db),
		auth:        opts.Authorizer,
		fileCapable: opts.FileHandles,
		seed:        opts.Seed,
		logger:      opts.Logger,
	}
	if s.auth == nil {
		s.auth = OSAuthorizer{}
	}
	if s.seed == nil {
		s.seed = func() (*model.Aggregate, error) { return model.NewAggregate(), nil }
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Resolve reports which backend the next access will use. A handle recorded
// while file handles are unavailable is a PERMISSION_DENIED error; the
// fallback store is never used in its place.
func (s *Selector) Resolve(ctx context.Context) (Resolution, error) {
	path, ok, err := s.handles.Get(ctx, HandleKey)
	if err != nil {
		return Resolution{}, fmt.Errorf("resolve backend: %w", err)
	}
	if !ok {
		return Resolution{Kind: KindFallback}, nil
	}
	if !s.fileCapable {
		return Resolution{}, model.NewPermissionError(
			fmt.Sprintf("data lives in %s but file handles are disabled; enable file_handles or move the data back to the local database", path),
			ErrFileHandlesUnsupported)
	}
	return Resolution{Kind: KindFileHandle, Handle: path}, nil
}

func (s *Selector) backend(ctx context.Context) (Backend, error) {
	res, err := s.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("backend resolved", "kind", res.Kind, "handle", res.Handle)
	if res.Kind == KindFileHandle {
		return NewFile(res.Handle, s.auth), nil
	}
	return s.kv, nil
}

// Read loads the aggregate. An empty store is seeded and the seed persisted
// before it is returned, so callers never observe an empty store.
func (s *Selector) Read(ctx context.Context) (*model.Aggregate, Revision, error) {
	b, err := s.backend(ctx)
	if err != nil {
		return nil, "", err
	}
	data, err := b.Read(ctx)
	if err != nil {
		return nil, "", err
	}
	if data == nil {
		return s.seedInto(ctx, b)
	}
	agg, err := model.Decode(data)
	if err != nil {
		return nil, "", err
	}
	return agg, RevisionOf(data), nil
}

func (s *Selector) seedInto(ctx context.Context, b Backend) (*model.Aggregate, Revision, error) {
	agg, err := s.seed()
	if err != nil {
		return nil, "", fmt.Errorf("build seed data: %w", err)
	}
	data, err := model.Encode(agg)
	if err != nil {
		return nil, "", err
	}
	if err := b.Write(ctx, data); err != nil {
		return nil, "", fmt.Errorf("persist seed data: %w", err)
	}
	s.logger.Info("seeded empty store", "kind", b.Kind())
	return agg, RevisionOf(data), nil
}

// Write persists the whole aggregate. When expected is non-empty the stored
// document must still be at that revision, otherwise the write fails with a
// CONFLICT error and nothing is written.
func (s *Selector) Write(ctx context.Context, agg *model.Aggregate, expected Revision) (Revision, error) {
	data, err := model.Encode(agg)
	if err != nil {
		return "", err
	}
	b, err := s.backend(ctx)
	if err != nil {
		return "", err
	}
	if expected != "" {
		current, err := b.Read(ctx)
		if err != nil {
			return "", err
		}
		if actual := RevisionOf(current); actual != expected {
			return "", model.NewConflictError(string(expected), string(actual))
		}
	}
	if err := b.Write(ctx, data); err != nil {
		return "", err
	}
	rev := RevisionOf(data)
	s.logger.Debug("aggregate written", "kind", b.Kind(), "revision", rev)
	return rev, nil
}

// ErrFileHandlesUnsupported is returned by MigrateToFile when the platform
// cannot hold file handles.
var ErrFileHandlesUnsupported = errors.New("file handles are not supported on this platform")

// MigrateToFile writes the current aggregate to path, records path as the
// data file handle and clears the fallback store.
func (s *Selector) MigrateToFile(ctx context.Context, path string) error {
	if !s.fileCapable {
		return ErrFileHandlesUnsupported
	}
	agg, _, err := s.Read(ctx)
	if err != nil {
		return fmt.Errorf("migrate to file: %w", err)
	}
	data, err := model.Encode(agg)
	if err != nil {
		return fmt.Errorf("migrate to file: %w", err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("migrate to file: %w", err)
	}
	if err := s.handles.Put(ctx, HandleKey, path); err != nil {
		return fmt.Errorf("migrate to file: %w", err)
	}
	if err := s.kv.Clear(ctx); err != nil {
		return fmt.Errorf("migrate to file: %w", err)
	}
	s.logger.Info("migrated to file storage", "path", path)
	return nil
}

// MigrateToFallback copies the data file into the fallback store and forgets
// the handle. The file itself is left on disk. It works from the recorded
// handle whether or not file handles are enabled, so data moved to a file can
// always be brought back. Without a recorded handle this is a no-op.
func (s *Selector) MigrateToFallback(ctx context.Context) error {
	path, ok, err := s.handles.Get(ctx, HandleKey)
	if err != nil {
		return fmt.Errorf("migrate to fallback: %w", err)
	}
	if !ok {
		return nil
	}
	data, err := NewFile(path, s.auth).Read(ctx)
	if err != nil {
		return fmt.Errorf("migrate to fallback: %w", err)
	}
	if data != nil {
		if err := s.kv.Write(ctx, data); err != nil {
			return fmt.Errorf("migrate to fallback: %w", err)
		}
	}
	if err := s.handles.Delete(ctx, HandleKey); err != nil {
		return fmt.Errorf("migrate to fallback: %w", err)
	}
	s.logger.Info("migrated to fallback storage", "from", path)
	return nil
}

// Reset clears the fallback store and the recorded handle, then reseeds the
// fallback store.
func (s *Selector) Reset(ctx context.Context) (*model.Aggregate, error) {
	if err := s.kv.Clear(ctx); err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	if err := s.handles.Delete(ctx, HandleKey); err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	agg, _, err := s.seedInto(ctx, s.kv)
	if err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	return agg, nil
}
