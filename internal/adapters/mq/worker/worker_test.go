package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/accredit/internal/adapters/mq/queue"
	"github.com/okian/accredit/internal/adapters/repository"
	worker "github.com/okian/accredit/internal/adapters/mq/worker"
	model "github.com/okian/accredit/internal/domain/model"
	logging "github.com/okian/accredit/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing.
type mockQueue struct {
	jobs      chan queue.Job
	closeOnce sync.Once
}

func newMockQueue() *mockQueue {
	return &mockQueue{jobs: make(chan queue.Job, 64)}
}

func (mq *mockQueue) Dequeue(ctx context.Context) <-chan queue.Job {
	return mq.jobs
}

func (mq *mockQueue) Close() error {
	mq.closeOnce.Do(func() { close(mq.jobs) })
	return nil
}

type mockComputer struct {
	mu     sync.Mutex
	errs   map[string]error
	panics bool
}

func newMockComputer() *mockComputer {
	return &mockComputer{errs: make(map[string]error)}
}

func (mc *mockComputer) Compute(ctx context.Context, p *model.Payload) (*model.Result, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if mc.panics {
		panic("boom")
	}
	if err, ok := mc.errs[p.Course.Code]; ok {
		return nil, err
	}
	return &model.Result{Course: p.Course}, nil
}

func (mc *mockComputer) setError(code string, err error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.errs[code] = err
}

type mockSaver struct {
	mu      sync.RWMutex
	reports map[string]repository.Report
	err     error
}

func newMockSaver() *mockSaver {
	return &mockSaver{reports: make(map[string]repository.Report)}
}

func (ms *mockSaver) Save(ctx context.Context, r repository.Report) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.err != nil {
		return ms.err
	}
	ms.reports[r.ID] = r
	return nil
}

func (ms *mockSaver) get(id string) (repository.Report, bool) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	r, ok := ms.reports[id]
	return r, ok
}

func (ms *mockSaver) count() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.reports)
}

func job(id, code string) queue.Job {
	return model.Job{
		ReportID:     id,
		SubmissionID: "sub-" + id,
		Payload:      &model.Payload{Course: model.CourseInfo{Code: code}},
		SubmittedAt:  time.Now().Add(-time.Second),
	}
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a new InMemoryWorker", t, func() {
		_ = logging.Init()

		q := newMockQueue()
		computer := newMockComputer()
		saver := newMockSaver()

		convey.Convey("When creating a worker with custom options", func() {
			w := worker.NewInMemoryWorker(q, computer, saver,
				worker.WithName("custom"),
				worker.WithLogger(logging.Get()),
			)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(w, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When running a worker", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			w := worker.NewInMemoryWorker(q, computer, saver)
			go w.Run(ctx)

			convey.Convey("And when processing a job", func() {
				q.jobs <- job("r1", "CS101")

				convey.Convey("Then it should store a finished report", func() {
					convey.So(waitFor(func() bool { _, ok := saver.get("r1"); return ok }), convey.ShouldBeTrue)
					r, _ := saver.get("r1")
					convey.So(r.Status, convey.ShouldEqual, repository.StatusDone)
					convey.So(r.SubmissionID, convey.ShouldEqual, "sub-r1")
					convey.So(r.Result.Course.Code, convey.ShouldEqual, "CS101")
					convey.So(r.Payload, convey.ShouldNotBeNil)
					convey.So(r.UpdatedAt.After(r.CreatedAt), convey.ShouldBeTrue)
				})
			})

			convey.Convey("And when computing fails", func() {
				computer.setError("BAD", errors.New("engine failure"))
				q.jobs <- job("r2", "BAD")

				convey.Convey("Then it should store a failed report", func() {
					convey.So(waitFor(func() bool { _, ok := saver.get("r2"); return ok }), convey.ShouldBeTrue)
					r, _ := saver.get("r2")
					convey.So(r.Status, convey.ShouldEqual, repository.StatusFailed)
					convey.So(r.Result, convey.ShouldBeNil)
					convey.So(r.Error, convey.ShouldContainSubstring, "engine failure")
				})
			})

			convey.Convey("And when the job has no payload", func() {
				q.jobs <- model.Job{ReportID: "r3"}

				convey.Convey("Then it should store a failed report", func() {
					convey.So(waitFor(func() bool { _, ok := saver.get("r3"); return ok }), convey.ShouldBeTrue)
					r, _ := saver.get("r3")
					convey.So(r.Status, convey.ShouldEqual, repository.StatusFailed)
					convey.So(r.Error, convey.ShouldEqual, worker.ErrNilPayload.Error())
				})
			})

			convey.Convey("And when shutting down", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
				defer shutdownCancel()
				err := w.Shutdown(shutdownCtx)

				convey.Convey("Then it should shutdown gracefully", func() {
					convey.So(err, convey.ShouldBeNil)
					convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
				})
			})
		})

		convey.Convey("When context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			w := worker.NewInMemoryWorker(q, computer, saver)
			done := make(chan struct{})
			go func() {
				w.Run(ctx)
				close(done)
			}()
			cancel()

			convey.Convey("Then worker should stop", func() {
				select {
				case <-done:
					convey.So(true, convey.ShouldBeTrue)
				case <-time.After(time.Second):
					convey.So("worker did not stop", convey.ShouldBeEmpty)
				}
			})
		})
	})
}

func TestWorkerErrorHandling(t *testing.T) {
	convey.Convey("Given a worker with error conditions", t, func() {
		_ = logging.Init()

		q := newMockQueue()
		computer := newMockComputer()
		saver := newMockSaver()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		convey.Convey("When the computer panics", func() {
			computer.panics = true
			w := worker.NewInMemoryWorker(q, computer, saver)
			go w.Run(ctx)
			q.jobs <- job("p1", "CS101")
			q.jobs <- job("p2", "CS101")

			convey.Convey("Then each job should fail without killing the worker", func() {
				convey.So(waitFor(func() bool { return saver.count() == 2 }), convey.ShouldBeTrue)
				r, _ := saver.get("p2")
				convey.So(r.Status, convey.ShouldEqual, repository.StatusFailed)
				convey.So(r.Error, convey.ShouldContainSubstring, "boom")
			})
		})

		convey.Convey("When saving consistently fails", func() {
			saver.err = errors.New("store down")
			w := worker.NewInMemoryWorker(q, computer, saver)
			go w.Run(ctx)
			q.jobs <- job("s1", "CS101")
			q.jobs <- job("s2", "CS101")

			convey.Convey("Then nothing should be stored and the worker keeps going", func() {
				convey.So(waitFor(func() bool { return len(q.jobs) == 0 }), convey.ShouldBeTrue)
				convey.So(saver.count(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When queue channel is closed", func() {
			w := worker.NewInMemoryWorker(q, computer, saver)
			done := make(chan struct{})
			go func() {
				w.Run(ctx)
				close(done)
			}()
			_ = q.Close()

			convey.Convey("Then worker should stop", func() {
				select {
				case <-done:
					convey.So(true, convey.ShouldBeTrue)
				case <-time.After(time.Second):
					convey.So("worker did not stop", convey.ShouldBeEmpty)
				}
			})
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a worker pool with multiple workers", t, func() {
		_ = logging.Init()

		q := newMockQueue()
		computer := newMockComputer()
		saver := newMockSaver()

		convey.Convey("When creating a worker pool with default count", func() {
			pool := worker.NewPool(0, q, computer, saver)

			convey.Convey("Then it should have at least one worker", func() {
				convey.So(pool.Stats().Workers, convey.ShouldBeGreaterThan, 0)
			})
		})

		convey.Convey("When processing many jobs", func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			pool := worker.NewPool(4, q, computer, saver)
			pool.Start(ctx)

			computer.setError("BAD", errors.New("nope"))
			for i := 0; i < 40; i++ {
				code := "CS101"
				if i%10 == 0 {
					code = "BAD"
				}
				q.jobs <- job(fmt.Sprintf("r%d", i), code)
			}

			convey.Convey("Then all jobs should be processed and counted", func() {
				convey.So(waitFor(func() bool { return saver.count() == 40 }), convey.ShouldBeTrue)
				convey.So(waitFor(func() bool { return pool.Stats().Processed == 40 }), convey.ShouldBeTrue)
				stats := pool.Stats()
				convey.So(stats.Workers, convey.ShouldEqual, 4)
				convey.So(stats.Failed, convey.ShouldEqual, 4)
			})

			convey.Convey("And when shutting down", func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer shutdownCancel()
				err := pool.Shutdown(shutdownCtx)

				convey.Convey("Then queued jobs should be drained first", func() {
					convey.So(err, convey.ShouldBeNil)
					convey.So(saver.count(), convey.ShouldEqual, 40)
					convey.So(pool.Shutdown(shutdownCtx), convey.ShouldBeNil)
				})
			})
		})
	})
}
