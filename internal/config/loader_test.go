package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/melee/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	Convey("Given no file and no environment overrides", t, func() {
		cfg, err := config.Load(context.Background())
		So(err, ShouldBeNil)

		Convey("Then the defaults apply", func() {
			So(cfg.Addr, ShouldEqual, ":9090")
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.QueueSize, ShouldEqual, 1024)
			So(cfg.WorkerCount, ShouldBeGreaterThan, 0)
			So(cfg.MaxEvents, ShouldEqual, 500_000)
		})
	})
}

func TestLoad_EnvOverrides(t *testing.T) {
	Convey("Given MELEE_ environment overrides", t, func() {
		t.Setenv("MELEE_ADDR", ":7777")
		t.Setenv("MELEE_QUEUE_SIZE", "64")
		t.Setenv("MELEE_LOG_LEVEL", "debug")

		cfg, err := config.Load(context.Background())
		So(err, ShouldBeNil)

		Convey("Then env values win over defaults", func() {
			So(cfg.Addr, ShouldEqual, ":7777")
			So(cfg.QueueSize, ShouldEqual, 64)
			So(cfg.LogLevel, ShouldEqual, "debug")
		})

		Convey("And untouched fields keep their defaults", func() {
			So(cfg.StoreCapacity, ShouldEqual, 10_000)
		})
	})
}

func TestLoad_File(t *testing.T) {
	Convey("Given a YAML config file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "melee.yaml")
		yaml := "addr: \":8081\"\nworker_count: 3\n"
		So(os.WriteFile(path, []byte(yaml), 0o600), ShouldBeNil)
		t.Setenv("MELEE_CONFIG", path)

		Convey("Then file values layer over defaults", func() {
			cfg, err := config.Load(context.Background())
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":8081")
			So(cfg.WorkerCount, ShouldEqual, 3)
		})

		Convey("And env still wins over the file", func() {
			t.Setenv("MELEE_ADDR", ":8082")
			cfg, err := config.Load(context.Background())
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":8082")
		})
	})

	Convey("Given a missing config file", t, func() {
		t.Setenv("MELEE_CONFIG", "/nonexistent/melee.yaml")

		Convey("Then loading fails with the load sentinel", func() {
			_, err := config.Load(context.Background())
			So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
		})
	})
}

func TestLoad_Validation(t *testing.T) {
	Convey("Given invalid overrides", t, func() {
		cases := map[string]string{
			"MELEE_QUEUE_SIZE":   "0",
			"MELEE_WORKER_COUNT": "-1",
			"MELEE_MAX_EVENTS":   "0",
		}
		for key, val := range cases {
			Convey("Then "+key+"="+val+" is rejected", func() {
				t.Setenv(key, val)
				_, err := config.Load(context.Background())
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		}
	})
}
