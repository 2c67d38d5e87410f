package store

import (
	"context"
	"fmt"

	"github.com/roach88/tutorbook/internal/merge"
	"github.com/roach88/tutorbook/internal/model"
)

// Export returns a full snapshot in the persisted document format.
func (s *Store) Export(ctx context.Context) ([]byte, error) {
	agg, err := s.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return model.Encode(agg)
}

// Restore merges a backup document into the store. Collections missing from
// the backup are left alone; malformed ones are skipped with a warning.
func (s *Store) Restore(ctx context.Context, data []byte) error {
	backup, err := model.DecodePartial(data)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	for _, c := range backup.Ignored {
		s.logger.Warn("backup collection ignored: not an array of records", "collection", c)
	}
	return wrap("restore", s.Update(ctx, func(agg *model.Aggregate) error {
		*agg = *merge.Apply(agg, backup)
		return nil
	}))
}
