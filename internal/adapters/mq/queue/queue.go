// Package queue provides a bounded in-memory job queue.
package queue

import (
	"context"
	"sync"
)

// defaultCapacity bounds the queue when no capacity option is given.
const defaultCapacity = 1024

// Queue provides enqueue and channel-based dequeue semantics.
type Queue[T any] interface {
	// Enqueue adds a job without blocking.
	// Returns false if the queue is full or closed.
	Enqueue(ctx context.Context, job T) bool

	// Put adds a job, waiting for space until ctx is done.
	Put(ctx context.Context, job T) error

	// Dequeue returns the channel consumers read jobs from.
	// The channel is closed once the queue is closed and drained.
	Dequeue() <-chan T

	// Len returns the current number of queued jobs.
	Len() int

	// Close stops accepting jobs. Queued jobs remain readable.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue[T any] struct {
	jobs     chan T
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue[T any](opts ...Option) *InMemoryQueue[T] {
	cfg := config{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &InMemoryQueue[T]{
		jobs:     make(chan T, cfg.capacity),
		capacity: cfg.capacity,
	}
}

// Enqueue adds a job to the queue if there is room.
func (q *InMemoryQueue[T]) Enqueue(ctx context.Context, job T) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false
	}

	select {
	case q.jobs <- job:
		return true
	case <-ctx.Done():
		return false
	default:
		return false
	}
}

// Put adds a job, blocking while the queue is full.
func (q *InMemoryQueue[T]) Put(ctx context.Context, job T) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrClosed
	}

	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dequeue returns the receive side of the queue.
func (q *InMemoryQueue[T]) Dequeue() <-chan T {
	return q.jobs
}

// Len returns the current number of queued jobs.
func (q *InMemoryQueue[T]) Len() int {
	return len(q.jobs)
}

// Capacity returns the maximum number of queued jobs.
func (q *InMemoryQueue[T]) Capacity() int {
	return q.capacity
}

// Close gracefully shuts down the queue. It waits for blocked Put calls.
func (q *InMemoryQueue[T]) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	close(q.jobs)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue[T]) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
