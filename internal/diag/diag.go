// Package diag reports defects that must be tracked without failing the
// operation that found them.
//
// A report is a structured, non-fatal event: it is logged and counted, then
// control returns to the caller unchanged. Reporters never return errors and
// never panic.
package diag

import (
	"context"
	"log/slog"
	"sync"

	"github.com/roach88/adhistory/internal/telemetry"
)

// Dump describes one defect.
type Dump struct {
	// Key groups related reports, e.g. the table that found the defect.
	Key string

	// Reason is a short, stable, low-cardinality description.
	Reason string

	// Attrs carries optional context for the log line.
	Attrs []slog.Attr
}

// Reporter receives non-fatal defect reports.
type Reporter interface {
	Report(ctx context.Context, d Dump)
}

// LogReporter logs each dump at error level and counts it.
type LogReporter struct {
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// NewLogReporter creates a reporter. A nil logger uses slog.Default();
// metrics may be nil.
func NewLogReporter(logger *slog.Logger, metrics *telemetry.Metrics) *LogReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogReporter{logger: logger, metrics: metrics}
}

// Report implements Reporter.
func (r *LogReporter) Report(ctx context.Context, d Dump) {
	attrs := append([]slog.Attr{
		slog.String("key", d.Key),
		slog.String("reason", d.Reason),
	}, d.Attrs...)
	r.logger.LogAttrs(ctx, slog.LevelError, "diagnostic dump", attrs...)
	r.metrics.IncDiagnosticDump(d.Key, d.Reason)
}

// Nop discards every report.
type Nop struct{}

// Report implements Reporter.
func (Nop) Report(context.Context, Dump) {}

// Recorder keeps every report in memory. Used by tests.
type Recorder struct {
	mu    sync.Mutex
	dumps []Dump
}

// Report implements Reporter.
func (r *Recorder) Report(_ context.Context, d Dump) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dumps = append(r.dumps, d)
}

// Dumps returns a copy of the recorded reports in arrival order.
func (r *Recorder) Dumps() []Dump {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Dump, len(r.dumps))
	copy(out, r.dumps)
	return out
}

// Len returns the number of recorded reports.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.dumps)
}
