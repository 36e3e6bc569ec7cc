// Package worker runs queued jobs on a fixed set of goroutines.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ecosort/ecosort/pkg/logger"
)

// defaultWorkerMultiplier sizes the pool when no size is given.
const defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()

// Handler processes a single job.
type Handler[T any] func(ctx context.Context, job T) error

// Source defines how workers receive jobs.
type Source[T any] interface {
	Dequeue() <-chan T
}

// Stats counts the jobs a pool has handled.
type Stats struct {
	Processed int64
	Failed    int64
	Duration  time.Duration
}

// worker reads jobs until the source closes or it is told to stop.
type worker[T any] struct {
	name   string
	pool   *Pool[T]
	logger logger.Logger
}

func (w *worker[T]) run(ctx context.Context) {
	jobs := w.pool.source.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.pool.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.pool.handle(ctx, job); err != nil {
				w.pool.failed.Add(1)
				w.logger.Error(ctx, "job failed", logger.String("worker", w.name), logger.Error(err))
				continue
			}
			w.pool.processed.Add(1)
		}
	}
}

// Pool manages multiple workers draining one source.
type Pool[T any] struct {
	workers []*worker[T]
	source  Source[T]
	handle  Handler[T]

	// Shutdown control
	shutdown     chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
	started      time.Time

	processed atomic.Int64
	failed    atomic.Int64

	logger logger.Logger
}

// NewPool creates a pool of size workers. A size below 1 uses a multiple of
// the CPU count.
func NewPool[T any](size int, source Source[T], handle Handler[T], opts ...Option) *Pool[T] {
	cfg := config{name: "worker-pool"}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logger.Get()
	}
	if size < 1 {
		size = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool[T]{
		workers:  make([]*worker[T], size),
		source:   source,
		handle:   handle,
		shutdown: make(chan struct{}),
		logger:   cfg.logger.Named(cfg.name),
	}
	for i := range p.workers {
		name := cfg.name + "-" + strconv.Itoa(i)
		p.workers[i] = &worker[T]{name: name, pool: p, logger: p.logger}
	}
	return p
}

// Size returns the number of workers.
func (p *Pool[T]) Size() int {
	return len(p.workers)
}

// Start starts all workers in the pool.
func (p *Pool[T]) Start(ctx context.Context) {
	p.started = time.Now()
	p.logger.Debug(ctx, "starting workers", logger.Int("workers", len(p.workers)))
	for _, w := range p.workers {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			w.run(ctx)
		}()
	}
}

// Wait blocks until every worker has exited, which happens once the source
// is closed and drained or the run context is canceled.
func (p *Pool[T]) Wait() Stats {
	p.wg.Wait()
	return p.Stats()
}

// Stats returns the counts so far.
func (p *Pool[T]) Stats() Stats {
	s := Stats{
		Processed: p.processed.Load(),
		Failed:    p.failed.Load(),
	}
	if !p.started.IsZero() {
		s.Duration = time.Since(p.started)
	}
	return s
}

// Shutdown stops the workers after their current job and waits for them
// until ctx is done. Queued jobs are left unprocessed.
func (p *Pool[T]) Shutdown(ctx context.Context) error {
	p.shutdownOnce.Do(func() { close(p.shutdown) })

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		p.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}
