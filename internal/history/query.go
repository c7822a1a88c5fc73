package history

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/adhistory/internal/ad"
	"github.com/roach88/adhistory/internal/database"
)

const selectColumns = `
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
			target_url`

// columnTypes matches selectColumns.
var columnTypes = []database.ColumnType{
	database.ColumnInt64,  // created_at
	database.ColumnString, // type
	database.ColumnString, // confirmation_type
	database.ColumnString, // placement_id
	database.ColumnString, // creative_instance_id
	database.ColumnString, // creative_set_id
	database.ColumnString, // campaign_id
	database.ColumnString, // advertiser_id
	database.ColumnString, // segment
	database.ColumnString, // title
	database.ColumnString, // description
	database.ColumnString, // target_url
}

// GetForDateRange returns events created between from and to inclusive,
// most recent first.
//
// A failed read returns (nil, err). No match returns an empty, non-nil
// slice.
func (s *Store) GetForDateRange(ctx context.Context, from, to time.Time) ([]ad.Event, error) {
	stmt := database.Statement{
		Kind: database.KindStep,
		SQL: `
		SELECT` + selectColumns + `
		FROM
			ad_history
		WHERE
			created_at BETWEEN ? AND ?
		ORDER BY
			created_at DESC,
			id DESC`,
		ColumnTypes: columnTypes,
	}
	stmt.BindInt64(from.UnixMicro())
	stmt.BindInt64(to.UnixMicro())

	return s.read(ctx, "get ad history for date range", stmt)
}

// GetHighestRankedPlacementsForDateRange returns, for each placement with
// events in [from, to], the events at its most significant confirmation:
// click, then dismiss, then view. Placements with none of those are
// omitted. Ties at the same priority are all returned. Results are most
// recent first.
func (s *Store) GetHighestRankedPlacementsForDateRange(ctx context.Context, from, to time.Time) ([]ad.Event, error) {
	// The correlated MIN keeps every row tied at a placement's best priority.
	stmt := database.Statement{
		Kind: database.KindStep,
		SQL: `
		WITH prioritized_ad_history AS (
			SELECT
				*,
				CASE confirmation_type
					WHEN ? THEN 1
					WHEN ? THEN 2
					WHEN ? THEN 3
					ELSE 0
				END AS priority
			FROM
				ad_history
			WHERE
				created_at BETWEEN ? AND ?
		),

		highest_ranked_ad_history AS (
			SELECT
				*
			FROM
				prioritized_ad_history AS ad_history
			WHERE
				priority = (
					SELECT
						MIN(priority)
					FROM
						prioritized_ad_history AS other_ad_history
					WHERE
						other_ad_history.placement_id = ad_history.placement_id
						AND other_ad_history.priority > 0
				)
		)

		SELECT` + selectColumns + `
		FROM
			highest_ranked_ad_history
		ORDER BY
			created_at DESC,
			id DESC`,
		ColumnTypes: columnTypes,
	}
	stmt.BindString(string(ad.ConfirmationClicked))
	stmt.BindString(string(ad.ConfirmationDismissed))
	stmt.BindString(string(ad.ConfirmationViewed))
	stmt.BindInt64(from.UnixMicro())
	stmt.BindInt64(to.UnixMicro())

	return s.read(ctx, "get highest ranked placements for date range", stmt)
}

// GetForCreativeInstanceID returns every event for one creative instance,
// regardless of date. Callers that need an order must sort.
func (s *Store) GetForCreativeInstanceID(ctx context.Context, creativeInstanceID string) ([]ad.Event, error) {
	stmt := database.Statement{
		Kind: database.KindStep,
		SQL: `
		SELECT` + selectColumns + `
		FROM
			ad_history
		WHERE
			creative_instance_id = ?
		ORDER BY
			id ASC`,
		ColumnTypes: columnTypes,
	}
	stmt.BindString(creativeInstanceID)

	return s.read(ctx, "get ad history for creative instance id", stmt)
}

// read runs a single-statement read transaction and converts its rows.
func (s *Store) read(ctx context.Context, op string, stmt database.Statement) ([]ad.Event, error) {
	tx := &database.Transaction{}
	tx.Add(stmt)

	result, err := s.exec.Execute(ctx, tx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get ad history", "op", op, "error", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	events := make([]ad.Event, 0, len(result.Rows))
	for _, row := range result.Rows {
		e := fromRow(row)
		if err := e.Validate(); err != nil {
			s.reportInvalid(ctx, "invalid_row", e, err)
			continue
		}
		events = append(events, e)
	}

	return events, nil
}

// fromRow reconstructs an event from a row in selectColumns order.
func fromRow(row database.Row) ad.Event {
	return ad.Event{
		CreatedAt:          time.UnixMicro(row.ColumnInt64(0)).UTC(),
		Type:               ad.Type(row.ColumnString(1)),
		ConfirmationType:   ad.ConfirmationType(row.ColumnString(2)),
		PlacementID:        row.ColumnString(3),
		CreativeInstanceID: row.ColumnString(4),
		CreativeSetID:      row.ColumnString(5),
		CampaignID:         row.ColumnString(6),
		AdvertiserID:       row.ColumnString(7),
		Segment:            row.ColumnString(8),
		Title:              row.ColumnString(9),
		Description:        row.ColumnString(10),
		TargetURL:          row.ColumnString(11),
	}
}
