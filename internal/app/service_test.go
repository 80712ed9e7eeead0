package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/accredit/internal/app"
	"github.com/okian/accredit/internal/adapters/repository"
	"github.com/okian/accredit/internal/domain/model"
	"github.com/okian/accredit/internal/domain/report"
	"github.com/okian/accredit/internal/domain/sample"
	"github.com/okian/accredit/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should report default stats before starting", func() {
			stats := svc.GetStats()
			So(stats.Started, ShouldBeFalse)
			So(stats.WorkerCount, ShouldBeGreaterThan, 0)
			So(stats.QueueSize, ShouldEqual, 1000)
			So(stats.ThresholdMet, ShouldEqual, 70.0)
			So(stats.ThresholdPartially, ShouldEqual, 50.0)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(3),
			service.WithQueueSize(50),
			service.WithDedupeTTL(time.Minute),
			service.WithReportTTL(time.Hour),
			service.WithEngine(report.New(report.WithThresholds(model.Thresholds{Met: 80, Partially: 60}))),
			service.WithLogger(logger.Get()),
		)

		Convey("Then the options should be reflected in stats", func() {
			stats := svc.GetStats()
			So(stats.WorkerCount, ShouldEqual, 3)
			So(stats.QueueSize, ShouldEqual, 50)
			So(stats.DedupeTTL, ShouldEqual, "1m0s")
			So(stats.ReportTTL, ShouldEqual, "1h0m0s")
			So(stats.ThresholdMet, ShouldEqual, 80.0)
		})
	})
}

func TestService_NotStarted(t *testing.T) {
	Convey("Given a service that was never started", t, func() {
		svc := service.New()
		ctx := context.Background()

		Convey("Then every operation should fail with ErrNotStarted", func() {
			_, err := svc.Compute(ctx, sample.Build(1))
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.Submit(ctx, "s1", sample.Build(1))
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.Report(ctx, "r1")
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.Latest(ctx)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.Student(ctx, "r1", "S01")
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})

		Convey("Then stopping should be a no-op", func() {
			So(func() { svc.Stop(ctx) }, ShouldNotPanic)
		})
	})
}

func TestService_Compute(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		svc := service.New(service.WithWorkerCount(1))
		So(svc.Start(ctx), ShouldBeNil)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop(ctx)

		Convey("When computing the demo payload", func() {
			r, err := svc.Compute(ctx, sample.Build(sample.DefaultSeed))

			Convey("Then a finished report should be stored", func() {
				So(err, ShouldBeNil)
				So(r.ID, ShouldNotBeEmpty)
				So(r.Status, ShouldEqual, repository.StatusDone)
				So(r.Result.Course.Code, ShouldEqual, "CS203")

				got, err := svc.Report(ctx, r.ID)
				So(err, ShouldBeNil)
				So(got.Result, ShouldEqual, r.Result)
			})

			Convey("Then it should become the latest report", func() {
				latest, err := svc.Latest(ctx)
				So(err, ShouldBeNil)
				So(latest.ID, ShouldEqual, r.ID)
				So(svc.GetStats().LatestReport, ShouldEqual, r.ID)
			})

			Convey("Then student rows should be retrievable", func() {
				st, err := svc.Student(ctx, r.ID, "S01")
				So(err, ShouldBeNil)
				So(st.ID, ShouldEqual, "S01")
				So(st.Rank, ShouldBeGreaterThan, 0)

				_, err = svc.Student(ctx, r.ID, "nobody")
				So(errors.Is(err, service.ErrStudentNotFound), ShouldBeTrue)
			})
		})

		Convey("When two reports are computed", func() {
			first, err := svc.Compute(ctx, sample.Build(1))
			So(err, ShouldBeNil)
			second, err := svc.Compute(ctx, sample.Build(2))
			So(err, ShouldBeNil)

			Convey("Then ids should differ and the second should be latest", func() {
				So(first.ID, ShouldNotEqual, second.ID)
				latest, err := svc.Latest(ctx)
				So(err, ShouldBeNil)
				So(latest.ID, ShouldEqual, second.ID)
				So(svc.GetStats().Reports, ShouldEqual, 2)
			})
		})

		Convey("When the payload is missing", func() {
			_, err := svc.Compute(ctx, nil)

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, service.ErrInvalidSubmission), ShouldBeTrue)
			})
		})

		Convey("When the report id is unknown", func() {
			_, err := svc.Report(ctx, "missing")
			_, studentErr := svc.Student(ctx, "missing", "S01")

			Convey("Then it should be not found", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				So(errors.Is(studentErr, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When nothing was computed yet", func() {
			_, err := svc.Latest(ctx)

			Convey("Then latest should be not found", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}
