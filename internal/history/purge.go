package history

import (
	"context"
	"fmt"

	"github.com/roach88/adhistory/internal/database"
)

// PurgeExpired deletes every event created at or before now minus the
// retention period. Calling it again with nothing newly expired is a
// successful no-op.
func (s *Store) PurgeExpired(ctx context.Context) error {
	cutoff := s.clock.Now().Add(-s.retention)

	stmt := database.Statement{
		Kind: database.KindRun,
		SQL: `
		DELETE FROM
			ad_history
		WHERE
			created_at <= ?`,
	}
	stmt.BindInt64(cutoff.UnixMicro())

	tx := &database.Transaction{}
	tx.Add(stmt)

	if _, err := s.exec.Execute(ctx, tx); err != nil {
		s.logger.ErrorContext(ctx, "failed to purge expired ad history", "error", err)
		return fmt.Errorf("purge expired ad history: %w", err)
	}

	s.logger.DebugContext(ctx, "purged expired ad history", "cutoff", cutoff)
	return nil
}
