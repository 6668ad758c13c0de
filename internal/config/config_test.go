package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/agon/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	Convey("Given default configuration", t, func() {
		cfg := config.New()

		Convey("Then sensible defaults are set", func() {
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.FactQueueSize, ShouldEqual, 100_000)
			So(cfg.WorkerCount, ShouldBeGreaterThan, 0)
			So(cfg.LearningRate, ShouldEqual, 0.20)
			So(cfg.DefaultBaseline, ShouldEqual, 50.0)
			So(cfg.PresetWeights, ShouldHaveLength, 4)
		})
	})
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	Convey("Given no overrides", t, func() {
		os.Unsetenv("AGON_CONFIG")

		Convey("When loading", func() {
			cfg, err := config.Load(ctx)

			Convey("Then defaults come through", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9080")
			})
		})
	})

	Convey("Given environment overrides", t, func() {
		os.Unsetenv("AGON_CONFIG")
		So(os.Setenv("AGON_ADDR", ":7070"), ShouldBeNil)
		So(os.Setenv("AGON_LOG_LEVEL", "debug"), ShouldBeNil)
		defer os.Unsetenv("AGON_ADDR")
		defer os.Unsetenv("AGON_LOG_LEVEL")

		Convey("When loading", func() {
			cfg, err := config.Load(ctx)

			Convey("Then env values win over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.LogLevel, ShouldEqual, "debug")
			})
		})
	})

	Convey("Given a YAML config file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		yaml := "addr: \":6060\"\nlearning_rate: 0.1\n"
		So(os.WriteFile(path, []byte(yaml), 0o600), ShouldBeNil)
		So(os.Setenv("AGON_CONFIG", path), ShouldBeNil)
		defer os.Unsetenv("AGON_CONFIG")

		Convey("When loading", func() {
			cfg, err := config.Load(ctx)

			Convey("Then file values layer over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":6060")
				So(cfg.LearningRate, ShouldEqual, 0.1)
			})
		})
	})

	Convey("Given an invalid learning rate", t, func() {
		os.Unsetenv("AGON_CONFIG")
		So(os.Setenv("AGON_LEARNING_RATE", "2.5"), ShouldBeNil)
		defer os.Unsetenv("AGON_LEARNING_RATE")

		Convey("When loading", func() {
			_, err := config.Load(ctx)

			Convey("Then validation rejects it", func() {
				So(err, ShouldWrap, config.ErrInvalidConfig)
			})
		})
	})

	Convey("Given a missing config file", t, func() {
		So(os.Setenv("AGON_CONFIG", "/nonexistent/config.yaml"), ShouldBeNil)
		defer os.Unsetenv("AGON_CONFIG")

		Convey("When loading", func() {
			_, err := config.Load(ctx)

			Convey("Then the load fails with a wrapped error", func() {
				So(err, ShouldWrap, config.ErrLoadConfig)
			})
		})
	})
}
