package history

import (
	"log/slog"
	"time"

	"github.com/roach88/adhistory/internal/database"
	"github.com/roach88/adhistory/internal/diag"
	"github.com/roach88/adhistory/internal/telemetry"
)

const (
	// DefaultBatchSize is the maximum number of rows per INSERT statement.
	DefaultBatchSize = 50

	// DefaultRetentionPeriod is how long events are kept before PurgeExpired
	// deletes them.
	DefaultRetentionPeriod = 30 * 24 * time.Hour
)

// Clock supplies the current time for retention decisions.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Store runs ad history operations against a database.Executor.
//
// Thread-safety: Store holds no mutable state after construction and is
// safe for concurrent use; isolation between concurrent operations is the
// executor's.
type Store struct {
	exec      database.Executor
	batchSize int
	retention time.Duration
	clock     Clock
	reporter  diag.Reporter
	metrics   *telemetry.Metrics
	logger    *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithBatchSize sets the maximum rows per INSERT. Non-positive values are
// ignored.
func WithBatchSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithRetentionPeriod sets the maximum age kept by PurgeExpired.
func WithRetentionPeriod(d time.Duration) Option {
	return func(s *Store) {
		s.retention = d
	}
}

// WithClock overrides the wall clock. Used by tests.
func WithClock(c Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// WithReporter sets the diagnostic reporter for invalid events.
func WithReporter(r diag.Reporter) Option {
	return func(s *Store) {
		s.reporter = r
	}
}

// WithMetrics counts saved events.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// NewStore creates a Store on top of exec.
func NewStore(exec database.Executor, opts ...Option) *Store {
	s := &Store{
		exec:      exec,
		batchSize: DefaultBatchSize,
		retention: DefaultRetentionPeriod,
		clock:     SystemClock{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.reporter == nil {
		s.reporter = diag.NewLogReporter(s.logger, s.metrics)
	}
	return s
}

// BatchSize returns the configured rows per INSERT.
func (s *Store) BatchSize() int {
	return s.batchSize
}

// RetentionPeriod returns the configured retention period.
func (s *Store) RetentionPeriod() time.Duration {
	return s.retention
}
