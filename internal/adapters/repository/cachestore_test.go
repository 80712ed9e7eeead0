package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/accredit/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCacheStore(t *testing.T) {
	Convey("Given a cache store", t, func() {
		ctx := context.Background()
		store := NewCacheStore(ctx)
		defer store.Close()

		Convey("When the store is empty", func() {
			_, err := store.Get(ctx, "missing")
			_, latestErr := store.Latest(ctx)

			Convey("Then lookups should report not found", func() {
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
				So(errors.Is(latestErr, ErrNotFound), ShouldBeTrue)
				So(store.Count(ctx), ShouldEqual, 0)
			})
		})

		Convey("When saving a report without an id", func() {
			err := store.Save(ctx, Report{Status: StatusDone})

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, ErrInvalidReport), ShouldBeTrue)
			})
		})

		Convey("When saving a finished report", func() {
			res := &model.Result{Course: model.CourseInfo{Code: "CS101"}}
			err := store.Save(ctx, Report{ID: "r1", Status: StatusDone, Result: res})
			So(err, ShouldBeNil)

			Convey("Then it should be retrievable and become the latest", func() {
				got, err := store.Get(ctx, "r1")
				So(err, ShouldBeNil)
				So(got.Result.Course.Code, ShouldEqual, "CS101")
				So(got.CreatedAt.IsZero(), ShouldBeFalse)
				So(got.CreatedAt, ShouldEqual, got.UpdatedAt)

				latest, err := store.Latest(ctx)
				So(err, ShouldBeNil)
				So(latest.ID, ShouldEqual, "r1")
			})
		})

		Convey("When a pending report is saved after a finished one", func() {
			now := time.Now()
			So(store.Save(ctx, Report{ID: "done", Status: StatusDone, UpdatedAt: now}), ShouldBeNil)
			So(store.Save(ctx, Report{ID: "pending", Status: StatusPending, UpdatedAt: now.Add(time.Second)}), ShouldBeNil)
			So(store.Save(ctx, Report{ID: "failed", Status: StatusFailed, UpdatedAt: now.Add(2 * time.Second)}), ShouldBeNil)

			Convey("Then the latest should stay on the finished report", func() {
				latest, err := store.Latest(ctx)
				So(err, ShouldBeNil)
				So(latest.ID, ShouldEqual, "done")
				So(store.Count(ctx), ShouldEqual, 3)
			})
		})

		Convey("When finished reports arrive out of order", func() {
			now := time.Now()
			So(store.Save(ctx, Report{ID: "new", Status: StatusDone, UpdatedAt: now}), ShouldBeNil)
			So(store.Save(ctx, Report{ID: "old", Status: StatusDone, UpdatedAt: now.Add(-time.Minute)}), ShouldBeNil)

			Convey("Then the newest should remain the latest", func() {
				latest, err := store.Latest(ctx)
				So(err, ShouldBeNil)
				So(latest.ID, ShouldEqual, "new")
			})
		})

		Convey("When a pending report is completed", func() {
			So(store.Save(ctx, Report{ID: "job", SubmissionID: "sub-1", Status: StatusPending}), ShouldBeNil)
			So(store.Save(ctx, Report{ID: "job", SubmissionID: "sub-1", Status: StatusDone}), ShouldBeNil)

			Convey("Then the replacement should win", func() {
				got, err := store.Get(ctx, "job")
				So(err, ShouldBeNil)
				So(got.Status, ShouldEqual, StatusDone)
				So(store.Count(ctx), ShouldEqual, 1)
			})
		})
	})
}

func TestCacheStoreExpiry(t *testing.T) {
	Convey("Given a store with a short ttl", t, func() {
		ctx := context.Background()
		store := NewCacheStore(ctx, WithTTL(20*time.Millisecond), WithCleanupInterval(5*time.Millisecond))
		defer store.Close()

		So(store.Save(ctx, Report{ID: "r1", Status: StatusDone}), ShouldBeNil)

		Convey("When the ttl passes", func() {
			time.Sleep(50 * time.Millisecond)

			Convey("Then the report and the latest pointer should be gone", func() {
				_, err := store.Get(ctx, "r1")
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
				_, err = store.Latest(ctx)
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			})
		})
	})

	Convey("Given a store without expiry", t, func() {
		ctx := context.Background()
		store := NewCacheStore(ctx, WithTTL(0), WithMetricsUpdateInterval(time.Millisecond))
		defer store.Close()

		So(store.ttl, ShouldEqual, time.Duration(-1))
		So(store.Save(ctx, Report{ID: "r1", Status: StatusDone}), ShouldBeNil)

		Convey("Then reports should survive", func() {
			time.Sleep(10 * time.Millisecond)
			_, err := store.Get(ctx, "r1")
			So(err, ShouldBeNil)
		})
	})
}

func TestCacheStoreConcurrency(t *testing.T) {
	Convey("Given concurrent writers", t, func() {
		ctx := context.Background()
		store := NewCacheStore(ctx)
		defer store.Close()

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_ = store.Save(ctx, Report{ID: fmt.Sprintf("r%d", i), Status: StatusDone})
				_, _ = store.Latest(ctx)
			}(i)
		}
		wg.Wait()

		Convey("Then every report should be stored", func() {
			So(store.Count(ctx), ShouldEqual, 50)
			_, err := store.Latest(ctx)
			So(err, ShouldBeNil)
		})

		Convey("Then closing twice should be safe", func() {
			So(store.Close(), ShouldBeNil)
			So(store.Close(), ShouldBeNil)
		})
	})
}
