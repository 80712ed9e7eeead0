// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	jobqueue "github.com/okian/accredit/internal/adapters/mq/queue"
	workerpool "github.com/okian/accredit/internal/adapters/mq/worker"
	"github.com/okian/accredit/internal/adapters/repository"
	"github.com/okian/accredit/internal/domain/dedupe"
	"github.com/okian/accredit/internal/domain/model"
	"github.com/okian/accredit/internal/domain/report"
	"github.com/okian/accredit/internal/domain/types"
	"github.com/okian/accredit/pkg/logger"
	"github.com/okian/accredit/pkg/metrics"
)

// submissionNamespace derives stable report ids from submission ids so a
// repeated submission resolves to the report of the first one.
var submissionNamespace = uuid.MustParse("5f1c7a52-3a4e-4d1b-9a6c-2b8e0f4d7c11")

// engineAdapter adapts the report engine to worker.Computer.
type engineAdapter struct {
	s *Service
}

func (a engineAdapter) Compute(ctx context.Context, p *model.Payload) (*model.Result, error) {
	return a.s.compute(p), nil
}

// Service implements the API dependencies for report computation.
type Service struct {
	mu sync.RWMutex

	engine  *report.Engine
	store   *repository.CacheStore
	deduper dedupe.Deduper
	queue   jobqueue.Queue
	pool    *workerpool.Pool

	workerCount int
	queueSize   int
	dedupeTTL   time.Duration
	reportTTL   time.Duration

	started bool
	logger  logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		engine:      report.New(),
		workerCount: runtime.NumCPU(),
		queueSize:   1000,
		dedupeTTL:   dedupe.DefaultTTL,
		reportTTL:   repository.DefaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.logger.Info(ctx, "starting report service...")

	// Workers are detached from ctx; only Stop ends them, after draining.
	runCtx := context.WithoutCancel(ctx)
	s.store = repository.NewCacheStore(runCtx, repository.WithTTL(s.reportTTL))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithTTL(s.dedupeTTL))
	s.queue = jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, engineAdapter{s: s}, s.store)
	s.pool.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "report service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Duration("dedupeTTL", s.dedupeTTL),
		logger.Duration("reportTTL", s.reportTTL),
	)
	return nil
}

// Stop closes the job queue, waits for the workers to drain it and shuts
// the service down.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(ctx, "stopping report service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown incomplete", logger.Error(err))
	}
	_ = s.store.Close()

	s.started = false
	s.logger.Info(ctx, "report service stopped")
}

// Compute runs the engine synchronously and stores the finished report.
func (s *Service) Compute(ctx context.Context, p *model.Payload) (repository.Report, error) {
	if !s.isStarted() {
		return repository.Report{}, ErrNotStarted
	}
	if p == nil {
		return repository.Report{}, fmt.Errorf("%w: missing payload", ErrInvalidSubmission)
	}

	now := time.Now()
	r := repository.Report{
		ID:        uuid.NewString(),
		Status:    repository.StatusDone,
		CreatedAt: now,
		Payload:   p,
		Result:    s.compute(p),
	}
	r.UpdatedAt = time.Now()
	if err := s.store.Save(ctx, r); err != nil {
		return repository.Report{}, fmt.Errorf("store report: %w", err)
	}
	s.logger.Debug(ctx, "report computed",
		logger.String("report_id", r.ID),
		logger.Float64("overall_pct", r.Result.Overall.SuccessPct),
	)
	return r, nil
}

// Submit accepts a report for asynchronous computation. A submission id seen
// within the dedupe window is acknowledged with the first submission's
// report id and is not computed again.
func (s *Service) Submit(ctx context.Context, submissionID string, p *model.Payload) (types.Submission, error) {
	if !s.isStarted() {
		return types.Submission{}, ErrNotStarted
	}
	if submissionID == "" {
		return types.Submission{}, fmt.Errorf("%w: missing submission_id", ErrInvalidSubmission)
	}
	if p == nil {
		return types.Submission{}, fmt.Errorf("%w: missing payload", ErrInvalidSubmission)
	}

	sub := types.Submission{
		ReportID:     s.reportID(submissionID),
		SubmissionID: submissionID,
		Status:       string(repository.StatusPending),
	}

	if s.deduper.SeenAndRecord(ctx, submissionID) {
		metrics.RecordReportDuplicate()
		sub.Duplicate = true
		if existing, err := s.store.Get(ctx, sub.ReportID); err == nil {
			sub.Status = string(existing.Status)
		}
		s.logger.Debug(ctx, "duplicate submission, skipping",
			logger.String("submission_id", submissionID),
			logger.String("report_id", sub.ReportID),
		)
		return sub, nil
	}

	now := time.Now()
	pending := repository.Report{
		ID:           sub.ReportID,
		SubmissionID: submissionID,
		Status:       repository.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
		Payload:      p,
	}
	if err := s.store.Save(ctx, pending); err != nil {
		s.deduper.Unrecord(ctx, submissionID)
		return types.Submission{}, fmt.Errorf("store pending report: %w", err)
	}

	job := model.Job{ReportID: sub.ReportID, SubmissionID: submissionID, Payload: p, SubmittedAt: now}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.deduper.Unrecord(ctx, submissionID)
		pending.Status = repository.StatusFailed
		pending.Error = err.Error()
		pending.UpdatedAt = time.Now()
		_ = s.store.Save(ctx, pending)
		s.logger.Warn(ctx, "job rejected by queue",
			logger.String("submission_id", submissionID),
			logger.Error(err),
		)
		if errors.Is(err, jobqueue.ErrClosed) {
			return types.Submission{}, fmt.Errorf("%w: %w", ErrNotStarted, err)
		}
		return types.Submission{}, fmt.Errorf("%w: %w", ErrBackpressure, err)
	}
	return sub, nil
}

// Report returns a stored report by id.
func (s *Service) Report(ctx context.Context, id string) (repository.Report, error) {
	if !s.isStarted() {
		return repository.Report{}, ErrNotStarted
	}
	return s.store.Get(ctx, id)
}

// Latest returns the most recently finished report.
func (s *Service) Latest(ctx context.Context) (repository.Report, error) {
	if !s.isStarted() {
		return repository.Report{}, ErrNotStarted
	}
	return s.store.Latest(ctx)
}

// Student returns one roster row of a finished report.
func (s *Service) Student(ctx context.Context, reportID, studentID string) (model.StudentResult, error) {
	r, err := s.Report(ctx, reportID)
	if err != nil {
		return model.StudentResult{}, err
	}
	if r.Status != repository.StatusDone || r.Result == nil {
		return model.StudentResult{}, fmt.Errorf("%w: report %s is %s", ErrReportNotReady, reportID, r.Status)
	}
	for _, sr := range r.Result.Students.Results {
		if sr.ID == studentID {
			return sr, nil
		}
	}
	return model.StudentResult{}, fmt.Errorf("%w: %s", ErrStudentNotFound, studentID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() types.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	th := s.engine.Thresholds(nil)
	stats := types.Stats{
		Started:            s.started,
		WorkerCount:        s.workerCount,
		QueueSize:          s.queueSize,
		DedupeTTL:          s.dedupeTTL.String(),
		ReportTTL:          s.reportTTL.String(),
		ThresholdMet:       th.Met,
		ThresholdPartially: th.Partially,
	}
	if !s.started {
		return stats
	}

	ctx := context.Background()
	stats.QueueLength = s.queue.Len(ctx)
	stats.Reports = s.store.Count(ctx)
	stats.Submissions = s.deduper.Size()
	stats.Workers = s.pool.Stats()
	if latest, err := s.store.Latest(ctx); err == nil {
		stats.LatestReport = latest.ID
	}
	metrics.UpdateReportsStored(stats.Reports)
	return stats
}

// reportID is the stable report id of a submission id.
func (s *Service) reportID(submissionID string) string {
	return uuid.NewSHA1(submissionNamespace, []byte(submissionID)).String()
}

func (s *Service) isStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// compute runs the engine and records result metrics.
func (s *Service) compute(p *model.Payload) *model.Result {
	start := time.Now()
	res := s.engine.Compute(p)
	metrics.RecordComputeLatency(float64(time.Since(start).Milliseconds()))
	metrics.RecordReportComputed()

	for _, tier := range model.Tiers {
		counts := make(map[model.Status]int)
		for _, st := range res.Tier(tier) {
			counts[st.Status]++
		}
		for status, n := range counts {
			metrics.RecordOutcomes(string(tier), string(status), n)
		}
	}
	metrics.RecordStudentsScored(res.Students.Attending, res.Students.Absent)
	return res
}
