package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/adhistory/internal/ad"
	"github.com/roach88/adhistory/internal/database"
	"github.com/roach88/adhistory/internal/diag"
	"github.com/roach88/adhistory/internal/history"
	"github.com/roach88/adhistory/internal/testutil"
)

// Harness executes scenario steps against one store.
type Harness struct {
	engine   *database.Engine
	store    *history.Store
	clock    *testutil.FakeClock
	recorder *diag.Recorder
	start    time.Time
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation, with a
// fake clock starting at the scenario start. Operations go through a
// database.Queue, as they do in the retention worker.
func Run(scenario *Scenario) (*Result, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests

	engine, err := database.Open(":memory:",
		database.WithTables(history.Schema{}),
		database.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory database: %w", err)
	}
	defer engine.Close()

	queue := database.NewQueue(engine)
	defer queue.Close()

	start := scenario.Start
	if start.IsZero() {
		start = testutil.Epoch
	}
	clock := testutil.NewFakeClock(start)
	recorder := &diag.Recorder{}

	opts := []history.Option{
		history.WithBatchSize(scenario.BatchSize),
		history.WithClock(clock),
		history.WithReporter(recorder),
		history.WithLogger(logger),
	}
	if scenario.Retention > 0 {
		opts = append(opts, history.WithRetentionPeriod(scenario.Retention))
	}

	h := &Harness{
		engine:   engine,
		store:    history.NewStore(queue, opts...),
		clock:    clock,
		recorder: recorder,
		start:    start,
	}

	ctx := context.Background()
	result := NewResult()

	for i, step := range scenario.Steps {
		event, err := h.execute(ctx, step)
		if err != nil {
			return nil, fmt.Errorf("step %d %q: %w", i, step.Name, err)
		}
		result.Trace = append(result.Trace, event)
	}

	result.Rows, err = h.rowCount(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range recorder.Dumps() {
		result.Diagnostics = append(result.Diagnostics, d.Reason)
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// execute runs one step and returns its trace entry.
func (h *Harness) execute(ctx context.Context, step Step) (TraceEvent, error) {
	event := TraceEvent{Step: step.Name}

	switch {
	case step.Save != nil:
		event.Op = OpSave
		events := make([]ad.Event, 0, len(step.Save))
		for _, spec := range step.Save {
			events = append(events, h.toEvent(spec))
		}
		if err := h.store.Save(ctx, events); err != nil {
			return TraceEvent{}, err
		}
		event.Saved = len(events)

	case step.Advance != 0:
		event.Op = OpAdvance
		h.clock.Advance(step.Advance)

	case step.Purge:
		event.Op = OpPurge
		if err := h.store.PurgeExpired(ctx); err != nil {
			return TraceEvent{}, err
		}

	case step.Query != nil:
		event.Op = step.Query.Op
		events, err := h.query(ctx, step.Query)
		if err != nil {
			return TraceEvent{}, err
		}
		event.Events = traceRows(events)
	}

	event.Now = h.clock.Now()
	return event, nil
}

func (h *Harness) query(ctx context.Context, q *Query) ([]ad.Event, error) {
	switch q.Op {
	case OpDateRange:
		return h.store.GetForDateRange(ctx, h.start.Add(q.From), h.start.Add(q.To))
	case OpRanked:
		return h.store.GetHighestRankedPlacementsForDateRange(ctx, h.start.Add(q.From), h.start.Add(q.To))
	case OpCreative:
		return h.store.GetForCreativeInstanceID(ctx, q.CreativeInstanceID)
	default:
		return nil, fmt.Errorf("unknown query op %q", q.Op)
	}
}

// toEvent fills the defaults of an EventSpec.
func (h *Harness) toEvent(spec EventSpec) ad.Event {
	e := testutil.NewEvent(spec.PlacementID, testutil.At(h.start.Add(spec.At)))
	if spec.Type != "" {
		e.Type = ad.Type(spec.Type)
	}
	if spec.ConfirmationType != "" {
		e.ConfirmationType = ad.ConfirmationType(spec.ConfirmationType)
	}
	if spec.CreativeInstanceID != "" {
		e.CreativeInstanceID = spec.CreativeInstanceID
	}
	if spec.TargetURL != nil {
		e.TargetURL = *spec.TargetURL
	}
	return e
}

// rowCount counts every stored row, valid or not.
func (h *Harness) rowCount(ctx context.Context) (int, error) {
	tx := &database.Transaction{}
	tx.Add(database.Statement{
		Kind:        database.KindStep,
		SQL:         "SELECT COUNT(*) FROM ad_history",
		ColumnTypes: []database.ColumnType{database.ColumnInt64},
	})

	result, err := h.engine.Execute(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return int(result.Rows[0].ColumnInt64(0)), nil
}
