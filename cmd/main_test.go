package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/okian/prizeboard/internal/config"
	"github.com/okian/prizeboard/internal/datagen"
	"github.com/okian/prizeboard/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	gen := datagen.DefaultConfig()
	gen.Players = 60
	gen.Tournaments = 10
	gen.Seed = 3
	ds, err := datagen.Generate(gen)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	files, err := datagen.WriteDir(t.TempDir(), ds)
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := config.New()
	cfg.TournamentsPath = files.Tournaments
	cfg.PlayersPath = files.Players
	cfg.GamesPath = files.Games
	cfg.CountriesPath = files.Countries
	cfg.BatchWorkers = 2
	cfg.BatchQueueSize = 16
	return cfg
}

func TestNewService(t *testing.T) {
	convey.Convey("Given a configuration pointing at generated CSVs", t, func() {
		ctx := context.Background()
		cfg := testConfig(t)

		convey.Convey("When the service is built and started", func() {
			svc := newService(cfg, logger.Nop())
			err := svc.Start(ctx)
			defer func() { _ = svc.Stop(ctx) }()

			convey.Convey("Then the dataset is loaded from the files", func() {
				convey.So(err, convey.ShouldBeNil)
				st := svc.GetStats(ctx)
				convey.So(st.Started, convey.ShouldBeTrue)
				convey.So(st.Records, convey.ShouldBeGreaterThan, 0)
				convey.So(st.Workers, convey.ShouldEqual, 2)
				convey.So(st.QueueCapacity, convey.ShouldEqual, 16)
			})
		})

		convey.Convey("When the tournaments file is missing", func() {
			cfg.TournamentsPath = cfg.TournamentsPath + ".missing"
			svc := newService(cfg, logger.Nop())
			err := svc.Start(ctx)

			convey.Convey("Then start fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestNewMux(t *testing.T) {
	convey.Convey("Given a started service behind the mux", t, func() {
		ctx := context.Background()
		cfg := testConfig(t)
		svc := newService(cfg, logger.Nop())
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		srv := httptest.NewServer(newMux(ctx, svc, cfg, logger.Nop()))
		defer srv.Close()

		get := func(path string) int {
			resp, err := http.Get(srv.URL + path)
			convey.So(err, convey.ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()
			return resp.StatusCode
		}

		convey.Convey("Then the API, docs and dashboard are all served", func() {
			convey.So(get("/healthz"), convey.ShouldEqual, http.StatusOK)
			convey.So(get("/players?scope=Top10"), convey.ShouldEqual, http.StatusOK)
			convey.So(get("/games/top"), convey.ShouldEqual, http.StatusOK)
			convey.So(get("/api-docs"), convey.ShouldEqual, http.StatusOK)
			convey.So(get("/openapi.yaml"), convey.ShouldEqual, http.StatusOK)
			convey.So(get("/"), convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("Then unknown scopes are rejected", func() {
			convey.So(get("/players?scope=Top0"), convey.ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestReloadOnSignal(t *testing.T) {
	convey.Convey("Given a started service and a signal channel", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		cfg := testConfig(t)
		svc := newService(cfg, logger.Nop())
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer func() { _ = svc.Stop(context.Background()) }()

		before := svc.Dataset()
		sig := make(chan os.Signal, 1)
		done := make(chan struct{})
		go func() {
			reloadOnSignal(ctx, svc, sig, logger.Nop())
			close(done)
		}()

		convey.Convey("When SIGHUP arrives", func() {
			sig <- syscall.SIGHUP

			convey.Convey("Then the dataset is replaced", func() {
				deadline := time.Now().Add(5 * time.Second)
				for svc.Dataset() == before && time.Now().Before(deadline) {
					time.Sleep(10 * time.Millisecond)
				}
				convey.So(svc.Dataset(), convey.ShouldNotEqual, before)
				convey.So(svc.Dataset().Store.Len(), convey.ShouldEqual, before.Store.Len())

				cancel()
				<-done
			})
		})
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("Then a single update does not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("Then the loop exits when the context is canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				startSystemMetricsUpdater(ctx)
				close(done)
			}()
			cancel()
			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("updater did not stop")
			}
		})
	})
}
