package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	queue "github.com/ecosort/ecosort/internal/adapters/mq/queue"
	worker "github.com/ecosort/ecosort/internal/adapters/mq/worker"
	logging "github.com/ecosort/ecosort/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logging.Init(); err != nil {
		panic(err)
	}
}

// recorder collects handled jobs.
type recorder struct {
	mu   sync.Mutex
	seen []int
}

func (r *recorder) handle(_ context.Context, job int) error {
	if job%10 == 0 {
		return errors.New("multiples of ten fail")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, job)
	return nil
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool draining a queue", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue[int](queue.WithCapacity(100))
		rec := &recorder{}
		pool := worker.NewPool[int](4, q, rec.handle, worker.WithName("test-pool"))

		convey.So(pool.Size(), convey.ShouldEqual, 4)

		convey.Convey("When jobs are queued and the queue is closed", func() {
			pool.Start(ctx)
			for i := 1; i <= 50; i++ {
				convey.So(q.Put(ctx, i), convey.ShouldBeNil)
			}
			convey.So(q.Close(), convey.ShouldBeNil)
			stats := pool.Wait()

			convey.Convey("Then every job is handled once", func() {
				convey.So(stats.Processed, convey.ShouldEqual, 45)
				convey.So(stats.Failed, convey.ShouldEqual, 5)
				convey.So(len(rec.seen), convey.ShouldEqual, 45)
			})
		})

		convey.Convey("When the pool is shut down while idle", func() {
			pool.Start(ctx)
			shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()

			convey.Convey("Then the workers exit", func() {
				convey.So(pool.Shutdown(shutdownCtx), convey.ShouldBeNil)
				convey.So(pool.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the run context is canceled", func() {
			runCtx, cancel := context.WithCancel(ctx)
			pool.Start(runCtx)
			cancel()

			convey.Convey("Then Wait returns", func() {
				stats := pool.Wait()
				convey.So(stats.Processed, convey.ShouldEqual, 0)
			})
		})
	})

	convey.Convey("Given a handler that never returns", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue[int](queue.WithCapacity(1))
		block := make(chan struct{})
		defer close(block)
		pool := worker.NewPool[int](1, q, func(context.Context, int) error {
			<-block
			return nil
		})
		pool.Start(ctx)
		convey.So(q.Put(ctx, 1), convey.ShouldBeNil)
		time.Sleep(20 * time.Millisecond)

		convey.Convey("Then Shutdown gives up at the deadline", func() {
			shutdownCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
			defer cancel()
			err := pool.Shutdown(shutdownCtx)
			convey.So(errors.Is(err, context.DeadlineExceeded), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given a size below one", t, func() {
		pool := worker.NewPool[int](0, queue.NewInMemoryQueue[int](), func(context.Context, int) error { return nil })

		convey.Convey("Then the pool is sized from the CPU count", func() {
			convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
		})
	})
}
