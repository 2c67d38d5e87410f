package testutil

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/tutorbook/internal/backend"
	"github.com/roach88/tutorbook/internal/store"
)

// StoreFixture bundles a Store over a temporary fallback database with the
// deterministic clock and id generator driving it.
type StoreFixture struct {
	Store *store.Store
	DB    *backend.DB
	Clock *FixedClock
	IDs   *SequenceIDs
}

// NewStore opens a fallback-backed Store in t.TempDir() seeded by seed. The
// clock is frozen at 2024-05-15.
func NewStore(t *testing.T, seed backend.SeedFunc) StoreFixture {
	t.Helper()
	db, err := backend.OpenDB(filepath.Join(t.TempDir(), "tutorbook.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sel := backend.NewSelector(db, backend.Options{Seed: seed, Logger: logger})
	fx := StoreFixture{
		DB:    db,
		Clock: NewFixedClock(2024, 5, 15),
		IDs:   NewSequenceIDs(),
	}
	fx.Store = store.New(sel, store.Options{Clock: fx.Clock, IDs: fx.IDs, Logger: logger})
	return fx
}
