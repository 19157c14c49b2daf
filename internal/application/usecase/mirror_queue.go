// internal/application/usecase/mirror_queue.go
package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	cartdom "brewhaven/internal/domain/cart"
)

const (
	defaultMirrorBuffer   = 64
	defaultMirrorAttempts = 3
	defaultMirrorBackoff  = 250 * time.Millisecond
	mirrorWriteTimeout    = 5 * time.Second
)

// MirrorFailure is one cart mirror write that exhausted its retries.
type MirrorFailure struct {
	CustomerID string
	Attempts   int
	Err        error
}

type mirrorJob struct {
	customerID string
	state      cartdom.State
}

// MirrorQueue pushes cart snapshots to the remote mirror off the request
// path. Writes are retried a bounded number of times; exhausted jobs are
// published on Failures instead of blocking or crashing the request flow.
// The mirror is a convenience copy, so a dropped write loses nothing the
// local snapshot store does not already hold.
type MirrorQueue struct {
	writer cartdom.MirrorWriter

	jobs     chan mirrorJob
	failures chan MirrorFailure

	attempts int
	backoff  time.Duration

	startOnce sync.Once
	stopOnce  sync.Once
	started   bool
	done      chan struct{}
}

func NewMirrorQueue(writer cartdom.MirrorWriter) *MirrorQueue {
	return &MirrorQueue{
		writer:   writer,
		jobs:     make(chan mirrorJob, defaultMirrorBuffer),
		failures: make(chan MirrorFailure, defaultMirrorBuffer),
		attempts: defaultMirrorAttempts,
		backoff:  defaultMirrorBackoff,
		done:     make(chan struct{}),
	}
}

// Start launches the single worker goroutine. Safe to call once.
func (q *MirrorQueue) Start() {
	q.startOnce.Do(func() {
		q.started = true
		go q.run()
	})
}

// Enqueue hands a snapshot to the worker without blocking. A full queue
// drops the write and reports false; the caller just logs it.
func (q *MirrorQueue) Enqueue(customerID string, st cartdom.State) bool {
	select {
	case q.jobs <- mirrorJob{customerID: customerID, state: st}:
		return true
	default:
		return false
	}
}

// Failures exposes writes that exhausted all retries. The channel is
// buffered and publishes non-blockingly: nobody has to drain it.
func (q *MirrorQueue) Failures() <-chan MirrorFailure {
	return q.failures
}

// Close stops the worker after the queued jobs are flushed. With no worker
// running there is nothing to flush, so Close returns right away.
func (q *MirrorQueue) Close() {
	q.stopOnce.Do(func() {
		close(q.jobs)
		if q.started {
			<-q.done
			return
		}
		close(q.done)
	})
}

func (q *MirrorQueue) run() {
	defer close(q.done)

	for job := range q.jobs {
		q.process(job)
	}
}

func (q *MirrorQueue) process(job mirrorJob) {
	var lastErr error

	for attempt := 1; attempt <= q.attempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorWriteTimeout)
		lastErr = q.writer.Write(ctx, job.customerID, job.state)
		cancel()

		if lastErr == nil {
			return
		}
		if attempt < q.attempts {
			time.Sleep(q.backoff * time.Duration(attempt))
		}
	}

	log.Printf("[mirror_queue] mirror write failed customerId=%s attempts=%d err=%v",
		job.customerID, q.attempts, lastErr)

	select {
	case q.failures <- MirrorFailure{CustomerID: job.customerID, Attempts: q.attempts, Err: lastErr}:
	default:
	}
}
