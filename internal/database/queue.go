package database

import (
	"context"
	"sync"
)

// Outcome is the single reply delivered for a submitted transaction.
type Outcome struct {
	Result *Result
	Err    error
}

type job struct {
	ctx   context.Context
	tx    *Transaction
	reply chan Outcome
}

// Queue runs transactions one at a time, in submission order, on a single
// goroutine in front of another Executor.
//
// Submit returns immediately with a one-shot channel that receives exactly
// one Outcome. Because jobs run FIFO, a caller that waits for each of its
// operations in turn observes its own earlier writes. Ordering across
// callers is submission order.
//
// There is no cancellation of submitted work: a caller that stops caring
// simply never reads the reply channel. The channel is buffered so the
// worker never blocks on an abandoned reply.
//
// Thread-safety: Submit, Execute and Close are safe from any goroutine.
type Queue struct {
	exec Executor

	mu      sync.Mutex
	pending []job
	closed  bool
	signal  chan struct{} // Signals job availability (buffered, size 1)
	done    chan struct{}
}

// NewQueue starts the worker goroutine. Call Close to stop it.
func NewQueue(exec Executor) *Queue {
	q := &Queue{
		exec:    exec,
		pending: make([]job, 0, 16),
		signal:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go q.run()
	return q
}

// Submit enqueues tx and returns its reply channel.
// If the queue is closed the reply carries an ErrCodeQueueClosed error.
//
// Panics if tx is nil.
func (q *Queue) Submit(ctx context.Context, tx *Transaction) <-chan Outcome {
	if tx == nil {
		panic("database: nil transaction")
	}

	reply := make(chan Outcome, 1)

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		reply <- Outcome{Err: &Error{Code: ErrCodeQueueClosed, Op: "submit"}}
		return reply
	}

	// Submitted work runs to completion even if the caller gives up.
	q.pending = append(q.pending, job{ctx: context.WithoutCancel(ctx), tx: tx, reply: reply})

	// Signal availability (non-blocking - buffer of 1 coalesces multiple signals)
	select {
	case q.signal <- struct{}{}:
	default:
	}

	return reply
}

// Execute implements Executor by submitting tx and waiting for its
// outcome. If ctx ends first the wait is abandoned and ctx.Err() returned;
// the transaction itself still runs.
func (q *Queue) Execute(ctx context.Context, tx *Transaction) (*Result, error) {
	reply := q.Submit(ctx, tx)
	select {
	case out := <-reply:
		return out.Result, out.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Len returns the number of jobs waiting to run.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Close stops accepting work, waits for every pending job to finish and
// stops the worker. Safe to call more than once.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.signal) // Wakes the worker
	}
	q.mu.Unlock()

	<-q.done
}

func (q *Queue) run() {
	defer close(q.done)

	for {
		if j, ok := q.tryDequeue(); ok {
			result, err := q.exec.Execute(j.ctx, j.tx)
			j.reply <- Outcome{Result: result, Err: err}
			continue
		}

		q.mu.Lock()
		if q.closed && len(q.pending) == 0 {
			q.mu.Unlock()
			return
		}
		q.mu.Unlock()

		<-q.signal
	}
}

// tryDequeue removes the front job without blocking.
func (q *Queue) tryDequeue() (job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return job{}, false
	}

	j := q.pending[0]

	// Nil out the slot so the transaction can be collected.
	q.pending[0] = job{}

	if len(q.pending) == 1 {
		q.pending = q.pending[:0]
	} else {
		q.pending = q.pending[1:]
	}

	return j, true
}
