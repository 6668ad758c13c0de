// Package queue defines the contract for enqueuing and consuming tournament
// facts awaiting incremental application.
package queue

import (
	"context"
	"sync"

	"github.com/okian/agon/internal/domain/model"
	"github.com/okian/agon/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 100000
)

// Fact is the payload type flowing through the queue.
type Fact = model.TournamentFact

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a fact to the queue.
	// Returns false if the queue is full or closed and the fact was dropped.
	Enqueue(ctx context.Context, f Fact) bool

	// Dequeue returns a channel that receives facts as they become
	// available. The channel is closed when the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Fact

	// Len returns the current number of queued facts.
	Len(ctx context.Context) int

	// Close stops accepting facts. Already queued facts still drain.
	Close() error

	// IsClosed reports whether the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	facts    chan Fact
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.facts = make(chan Fact, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0.0)

	return q
}

// Enqueue adds a fact to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, f Fact) bool { //nolint:gocritic // hugeParam: Fact is passed by value for channel semantics
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}

	select {
	case q.facts <- f:
		metrics.RecordQueueEnqueue()
		q.updateGauges()
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false
	}
}

// Dequeue returns a channel that receives facts as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Fact {
	out := make(chan Fact)
	go func() {
		defer close(out)
		for f := range q.facts {
			select {
			case out <- f:
				metrics.RecordQueueDequeue()
				q.updateGauges()
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued facts.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.facts)
	q.updateGauges()
	return size
}

// Close stops accepting facts.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.facts)
	q.closed = true
	return nil
}

// IsClosed reports whether the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *InMemoryQueue) updateGauges() {
	size := len(q.facts)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
}
