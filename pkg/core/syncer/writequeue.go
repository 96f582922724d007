package syncer

import (
	"context"
	"sync"

	"github.com/jakechorley/consult-hub/pkg/core/gateway"
	"github.com/jakechorley/consult-hub/pkg/core/model"
)

type writeJob struct {
	ctx     context.Context
	action  gateway.Action
	request model.ConsultationRequest
}

// writeQueue delivers writes to a single worker in the order they were pushed.
// push never blocks, so it is safe to call with the controller lock held.
type writeQueue struct {
	mu      sync.Mutex
	pending []writeJob
	closed  bool
	wake    chan struct{}
	done    chan struct{}
}

func newWriteQueue() *writeQueue {
	return &writeQueue{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

func (q *writeQueue) push(job writeJob) {
	q.mu.Lock()
	q.pending = append(q.pending, job)
	q.mu.Unlock()
	q.signal()
}

// close lets the worker exit once everything already pushed has been handled
func (q *writeQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}

func (q *writeQueue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// run handles jobs one at a time until the queue is closed and drained
func (q *writeQueue) run(handle func(writeJob)) {
	defer close(q.done)

	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			closed := q.closed
			q.mu.Unlock()
			if closed {
				return
			}
			<-q.wake
			continue
		}
		job := q.pending[0]
		q.pending[0] = writeJob{}
		q.pending = q.pending[1:]
		q.mu.Unlock()

		handle(job)
	}
}
