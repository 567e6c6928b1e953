package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/prizeboard/internal/adapters/mq/queue"
	"github.com/okian/prizeboard/internal/adapters/mq/worker"
	"github.com/smartystreets/goconvey/convey"
)

func constant(v any) queue.Task {
	return func(context.Context) (any, error) { return v, nil }
}

func TestRunBatch(t *testing.T) {
	convey.Convey("Given a started pool", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewInMemoryQueue(queue.WithCapacity(64))
		pool := worker.NewPool(4, q)
		pool.Start(ctx)
		defer func() { _ = pool.Shutdown(context.Background()) }()

		convey.So(pool.Size(), convey.ShouldEqual, 4)

		convey.Convey("When a batch of slow and fast tasks runs", func() {
			tasks := make([]queue.Task, 10)
			for i := range tasks {
				i := i
				tasks[i] = func(context.Context) (any, error) {
					time.Sleep(time.Duration(10-i) * time.Millisecond)
					return i * i, nil
				}
			}
			results, err := worker.RunBatch(ctx, q, "b1", tasks)

			convey.Convey("Then results come back in task order", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(results, convey.ShouldHaveLength, 10)
				for i, r := range results {
					convey.So(r.Index, convey.ShouldEqual, i)
					convey.So(r.BatchID, convey.ShouldEqual, "b1")
					convey.So(r.Value, convey.ShouldEqual, i*i)
					convey.So(r.Err, convey.ShouldBeNil)
				}
			})
		})

		convey.Convey("When one task fails and one panics", func() {
			boom := errors.New("boom")
			tasks := []queue.Task{
				constant("ok"),
				func(context.Context) (any, error) { return nil, boom },
				func(context.Context) (any, error) { panic("bad") },
			}
			results, err := worker.RunBatch(ctx, q, "b2", tasks)

			convey.Convey("Then the failures are per task", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(results[0].Value, convey.ShouldEqual, "ok")
				convey.So(errors.Is(results[1].Err, boom), convey.ShouldBeTrue)
				convey.So(errors.Is(results[2].Err, worker.ErrPanic), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the batch is empty", func() {
			results, err := worker.RunBatch(ctx, q, "b3", nil)

			convey.Convey("Then nothing runs", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(results, convey.ShouldBeEmpty)
			})
		})
	})
}

func TestRunBatch_QueueFull(t *testing.T) {
	convey.Convey("Given a queue with no workers and capacity one", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(1))

		convey.Convey("When a batch of two is submitted", func() {
			_, err := worker.RunBatch(context.Background(), q, "full", []queue.Task{constant(1), constant(2)})

			convey.Convey("Then it is rejected as full", func() {
				convey.So(errors.Is(err, queue.ErrFull), convey.ShouldBeTrue)
			})
		})
	})
}

func TestRunBatch_Cancelled(t *testing.T) {
	convey.Convey("Given a queue nobody drains", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(4))
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		convey.Convey("When the context expires while waiting", func() {
			_, err := worker.RunBatch(ctx, q, "late", []queue.Task{constant(1)})

			convey.Convey("Then the context error is returned", func() {
				convey.So(errors.Is(err, context.DeadlineExceeded), convey.ShouldBeTrue)
			})
		})
	})
}

func TestPool_Shutdown(t *testing.T) {
	convey.Convey("Given a pool with queued work", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(8))
		var ran atomic.Int32
		done := make(chan queue.Result, 3)
		for i := 0; i < 3; i++ {
			q.Enqueue(context.Background(), queue.Job{Index: i, Done: done, Run: func(context.Context) (any, error) {
				ran.Add(1)
				return nil, nil
			}})
		}

		pool := worker.NewPool(2, q)
		pool.Start(context.Background())

		for i := 0; i < 3; i++ {
			<-done
		}

		convey.Convey("When it shuts down", func() {
			err := pool.Shutdown(context.Background())

			convey.Convey("Then workers stop and the queue closes", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(ran.Load(), convey.ShouldEqual, 3)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})
}

func TestInMemoryWorker_ShutdownTwice(t *testing.T) {
	convey.Convey("Given a running worker", t, func() {
		q := queue.NewInMemoryQueue()
		w := worker.NewInMemoryWorker(q, worker.WithName("solo"))
		go w.Run(context.Background())

		convey.Convey("Then shutting down twice is safe", func() {
			convey.So(w.Shutdown(context.Background()), convey.ShouldBeNil)
			convey.So(w.Shutdown(context.Background()), convey.ShouldBeNil)
		})
	})
}
