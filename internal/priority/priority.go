// Package priority groups candidates by an integer priority and selects the
// most preferred tier.
//
// Lower positive numbers are more preferred. Priority 0 means "not
// eligible" and never enters a bucket. Negative priorities are ordinary
// non-zero priorities and therefore sort ahead of every positive one.
//
// Everything here is pure: no I/O beyond the optional Reporter, no shared
// state, safe for concurrent use.
package priority

import (
	"log/slog"
	"slices"
)

// Prioritized is implemented by anything that can be bucketed.
type Prioritized interface {
	Priority() int
}

// Buckets maps each non-zero priority to the candidates that share it, in
// input order. Iteration is ascending by priority.
type Buckets[T Prioritized] struct {
	priorities []int
	byPriority map[int][]T
}

// Len returns the number of buckets.
func (b Buckets[T]) Len() int {
	return len(b.priorities)
}

// Priorities returns the bucket priorities in ascending order.
func (b Buckets[T]) Priorities() []int {
	return slices.Clone(b.priorities)
}

// Get returns the candidates with priority p, or nil if there are none.
func (b Buckets[T]) Get(p int) []T {
	return b.byPriority[p]
}

// Each calls fn for every bucket in ascending priority order.
func (b Buckets[T]) Each(fn func(priority int, candidates []T)) {
	for _, p := range b.priorities {
		fn(p, b.byPriority[p])
	}
}

// SortIntoBucketsByPriority groups candidates by priority in a single pass.
// Candidates with priority 0 are dropped.
func SortIntoBucketsByPriority[T Prioritized](candidates []T) Buckets[T] {
	b := Buckets[T]{byPriority: make(map[int][]T)}

	for _, c := range candidates {
		p := c.Priority()
		if p == 0 {
			continue
		}
		if _, ok := b.byPriority[p]; !ok {
			b.priorities = append(b.priorities, p)
		}
		b.byPriority[p] = append(b.byPriority[p], c)
	}

	slices.Sort(b.priorities)
	return b
}

// Reporter observes bucket sizes computed by HighestPriorityCandidates.
// bucket is the 1-based position in ascending priority order.
type Reporter interface {
	ReportBucket(bucket, priority, count int)
}

// LogReporter logs bucket sizes at debug level.
type LogReporter struct {
	Logger *slog.Logger
}

// ReportBucket implements Reporter.
func (r LogReporter) ReportBucket(bucket, priority, count int) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("priority bucket", "bucket", bucket, "priority", priority, "candidates", count)
}

type options struct {
	reporter Reporter
}

// Option configures HighestPriorityCandidates.
type Option func(*options)

// WithReporter replaces the default debug-log reporter.
func WithReporter(r Reporter) Option {
	return func(o *options) {
		o.reporter = r
	}
}

// HighestPriorityCandidates returns the candidates in the lowest-numbered
// non-zero priority bucket, in input order. If no candidate has a non-zero
// priority the result is empty but not nil.
//
// Every bucket is reported before returning.
func HighestPriorityCandidates[T Prioritized](candidates []T, opts ...Option) []T {
	o := options{reporter: LogReporter{}}
	for _, opt := range opts {
		opt(&o)
	}

	buckets := SortIntoBucketsByPriority(candidates)
	if buckets.Len() == 0 {
		return []T{}
	}

	bucket := 0
	buckets.Each(func(p int, cs []T) {
		bucket++
		o.reporter.ReportBucket(bucket, p, len(cs))
	})

	return slices.Clone(buckets.Get(buckets.priorities[0]))
}
