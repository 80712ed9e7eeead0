// Package worker drains the job queue and stores computed reports.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/accredit/internal/adapters/repository"
	"github.com/okian/accredit/internal/domain/model"
	"github.com/okian/accredit/internal/domain/types"
	"github.com/okian/accredit/pkg/logger"
	"github.com/okian/accredit/pkg/metrics"
)

// Default worker configuration constants.
const (
	metricsUpdateInterval = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Job is what workers read off the queue.
type Job = model.Job

// ErrNilPayload is stored on a failed report whose job carried no payload.
var ErrNilPayload = errors.New("job has no payload")

// Computer turns a payload into a result.
type Computer interface {
	Compute(ctx context.Context, p *model.Payload) (*model.Result, error)
}

// Saver persists finished reports.
type Saver interface {
	Save(ctx context.Context, r repository.Report) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes jobs and stores their reports.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)

	// Shutdown stops the worker without draining the queue.
	Shutdown(ctx context.Context) error
}

// tracker counts busy workers and processed jobs for a pool.
type tracker struct {
	active    atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
}

// InMemoryWorker implements Worker for report jobs.
type InMemoryWorker struct {
	queue    Queue
	computer Computer
	saver    Saver
	name     string
	tracker  *tracker

	shutdown chan struct{}
	done     chan struct{}
	stopped  atomic.Bool

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, computer Computer, saver Saver, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		computer: computer,
		saver:    saver,
		name:     "worker",
		tracker:  &tracker{},
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing job",
					logger.String("report_id", job.ReportID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	if w.stopped.CompareAndSwap(false, true) {
		close(w.shutdown)
	}
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob computes one job and stores the outcome. A failed computation
// is stored as a failed report so pollers see a terminal state.
func (w *InMemoryWorker) processJob(ctx context.Context, job Job) error { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	start := time.Now()
	w.tracker.active.Add(1)
	defer func() {
		w.tracker.active.Add(-1)
		w.tracker.processed.Add(1)
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	res, err := w.compute(ctx, job.Payload)
	report := repository.Report{
		ID:           job.ReportID,
		SubmissionID: job.SubmissionID,
		Status:       repository.StatusDone,
		CreatedAt:    job.SubmittedAt,
		UpdatedAt:    time.Now(),
		Payload:      job.Payload,
		Result:       res,
	}
	if err != nil {
		w.tracker.failed.Add(1)
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "compute_error")
		metrics.RecordErrorByType("compute_error", "high")
		report.Status = repository.StatusFailed
		report.Result = nil
		report.Error = err.Error()
	}

	if saveErr := w.saver.Save(ctx, report); saveErr != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		return fmt.Errorf("store report %s: %w", job.ReportID, saveErr)
	}
	if err != nil {
		return fmt.Errorf("compute report %s: %w", job.ReportID, err)
	}
	return nil
}

func (w *InMemoryWorker) compute(ctx context.Context, p *model.Payload) (res *model.Result, err error) {
	if p == nil {
		return nil, ErrNilPayload
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("compute panicked: %v", r)
		}
	}()
	return w.computer.Compute(ctx, p)
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	tracker *tracker

	shutdown chan struct{}
	stopped  atomic.Bool

	logger logger.Logger
}

// NewPool creates a new worker pool. A non-positive count uses one worker
// per CPU.
func NewPool(workerCount int, queue Queue, computer Computer, saver Saver) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    queue,
		tracker:  &tracker{},
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			computer,
			saver,
			WithName("worker-"+strconv.Itoa(i)),
			withTracker(pool.tracker),
		)
	}

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(0)
	metrics.UpdateWorkerIdleCount(workerCount)
	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	go p.startMetricsUpdater(ctx)
}

// Stats returns the current pool activity.
func (p *Pool) Stats() types.WorkerStats {
	return types.WorkerStats{
		Workers:   len(p.workers),
		Active:    p.tracker.active.Load(),
		Processed: p.tracker.processed.Load(),
		Failed:    p.tracker.failed.Load(),
	}
}

func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			p.updateMetrics()
		}
	}
}

func (p *Pool) updateMetrics() {
	active := int(p.tracker.active.Load())
	metrics.UpdateWorkerActiveCount(active)
	metrics.UpdateWorkerIdleCount(len(p.workers) - active)
}

// Shutdown closes the queue and waits for the workers to drain it. Workers
// still busy when ctx or the pool timeout expires are stopped.
func (p *Pool) Shutdown(ctx context.Context) error {
	if !p.stopped.CompareAndSwap(false, true) {
		return nil
	}
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	close(p.shutdown)
	for _, w := range p.workers {
		if w.stopped.CompareAndSwap(false, true) {
			close(w.shutdown)
		}
	}
	p.updateMetrics()
	if timedOut {
		return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
	}
	return nil
}
