package history

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/adhistory/internal/ad"
	"github.com/roach88/adhistory/internal/database"
	"github.com/roach88/adhistory/internal/diag"
)

const columnCount = 12

// Save appends events in a single transaction, one multi-row INSERT per
// chunk of at most BatchSize events.
//
// Invalid events are skipped and reported; they never fail the save. If
// every event is invalid the (empty) transaction still commits and Save
// returns nil. An empty input is a no-op.
//
// The returned error reflects the transaction only.
func (s *Store) Save(ctx context.Context, events []ad.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx := &database.Transaction{}
	rows := 0
	for chunk := range slices.Chunk(events, s.batchSize) {
		rows += s.insert(ctx, tx, chunk)
	}

	if _, err := s.exec.Execute(ctx, tx); err != nil {
		s.logger.ErrorContext(ctx, "failed to save ad history", "error", err)
		return fmt.Errorf("save ad history: %w", err)
	}

	s.metrics.AddEventsSaved(rows)
	s.logger.DebugContext(ctx, "saved ad history", "events", len(events), "rows", rows)
	return nil
}

// insert appends one INSERT for the valid events of chunk and returns how
// many rows it binds. A chunk without valid events adds nothing.
func (s *Store) insert(ctx context.Context, tx *database.Transaction, chunk []ad.Event) int {
	stmt := database.Statement{Kind: database.KindRun}

	rows := 0
	for _, e := range chunk {
		if err := e.Validate(); err != nil {
			s.reportInvalid(ctx, "invalid_event", e, err)
			continue
		}
		bindColumns(&stmt, e.Normalize())
		rows++
	}

	if rows == 0 {
		return 0
	}

	stmt.SQL = `
		INSERT INTO ad_history (
			created_at,
			type,
			confirmation_type,
			placement_id,
			creative_instance_id,
			creative_set_id,
			campaign_id,
			advertiser_id,
			segment,
			title,
			description,
			target_url
		) VALUES ` + database.BuildBindColumnPlaceholders(columnCount, rows)
	tx.Add(stmt)

	return rows
}

// bindColumns binds one row in column order.
func bindColumns(stmt *database.Statement, e ad.Event) {
	stmt.BindInt64(e.CreatedAt.UnixMicro())
	stmt.BindString(string(e.Type))
	stmt.BindString(string(e.ConfirmationType))
	stmt.BindString(e.PlacementID)
	stmt.BindString(e.CreativeInstanceID)
	stmt.BindString(e.CreativeSetID)
	stmt.BindString(e.CampaignID)
	stmt.BindString(e.AdvertiserID)
	stmt.BindString(e.Segment)
	stmt.BindString(e.Title)
	stmt.BindString(e.Description)
	stmt.BindString(e.TargetURL)
}

func (s *Store) reportInvalid(ctx context.Context, reason string, e ad.Event, err error) {
	s.reporter.Report(ctx, diag.Dump{
		Key:    tableName,
		Reason: reason,
		Attrs: []slog.Attr{
			slog.String("placement_id", e.PlacementID),
			slog.String("creative_instance_id", e.CreativeInstanceID),
			slog.String("error", err.Error()),
		},
	})
}
