package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/accredit/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"ACCREDIT_CONFIG",
	"ACCREDIT_ADDR",
	"ACCREDIT_QUEUE_SIZE",
	"ACCREDIT_WORKER_COUNT",
	"ACCREDIT_FAIL_RATIO",
	"ACCREDIT_THRESHOLDS_MET",
	"ACCREDIT_LOG_FORMAT",
	"ACCREDIT_UNSPECIFIED_COGNITIVE_LABEL",
}

func clearConfigEnvVars() {
	for _, k := range configEnvVars {
		_ = os.Unsetenv(k)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accredit.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.ThresholdsMet, convey.ShouldEqual, 70.0)
				convey.So(cfg.GradeBands, convey.ShouldHaveLength, 5)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("ACCREDIT_ADDR", ":8080")
			_ = os.Setenv("ACCREDIT_QUEUE_SIZE", "50")
			_ = os.Setenv("ACCREDIT_WORKER_COUNT", "3")
			_ = os.Setenv("ACCREDIT_FAIL_RATIO", "0.6")
			_ = os.Setenv("ACCREDIT_UNSPECIFIED_COGNITIVE_LABEL", "untagged")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 50)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 3)
				convey.So(cfg.FailRatio, convey.ShouldEqual, 0.6)
				convey.So(cfg.UnspecifiedCognitiveLabel, convey.ShouldEqual, "untagged")
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			path := createTempConfigFile(t, `
addr: ":9090"
queue_size: 300
log_format: json
thresholds_met: 75
thresholds_partially: 55
grade_bands:
  PASS: 50
  FAIL: 0
`)
			_ = os.Setenv("ACCREDIT_CONFIG", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 300)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.ThresholdsPartially, convey.ShouldEqual, 55.0)
				convey.So(cfg.FailRatio, convey.ShouldEqual, 0.5)
			})

			convey.Convey("Then file grade bands should replace the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.GradeBands, convey.ShouldHaveLength, 2)
				convey.So(cfg.Bands()[0].Letter, convey.ShouldEqual, "PASS")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			path := createTempConfigFile(t, "addr: \":9090\"\nqueue_size: 300\n")
			_ = os.Setenv("ACCREDIT_CONFIG", path)
			_ = os.Setenv("ACCREDIT_ADDR", ":8080")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 300)
			})
		})

		convey.Convey("When loading config with an invalid YAML file", func() {
			path := createTempConfigFile(t, `invalid: yaml: content: [`)
			_ = os.Setenv("ACCREDIT_CONFIG", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a non-existent file", func() {
			_ = os.Setenv("ACCREDIT_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an empty addr", func() {
			_ = os.Setenv("ACCREDIT_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the fail ratio is out of range", func() {
			_ = os.Setenv("ACCREDIT_FAIL_RATIO", "1.5")

			_, err := config.Load(ctx)

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "fail_ratio")
			})
		})

		convey.Convey("When a threshold is negative", func() {
			_ = os.Setenv("ACCREDIT_THRESHOLDS_MET", "-1")

			_, err := config.Load(ctx)

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
