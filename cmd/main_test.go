package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ecosort/ecosort/internal/config"
	"github.com/ecosort/ecosort/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMainWiring(t *testing.T) {
	convey.Convey("Given configuration from the environment", t, func() {
		_ = os.Setenv("ECOSORT_ADDR", ":8080")
		_ = os.Setenv("ECOSORT_LEADERBOARD_SIZE", "3")
		_ = os.Setenv("ECOSORT_REQUIRE_ADMIN", "true")
		_ = os.Setenv("ECOSORT_BCRYPT_COST", "4")
		defer func() {
			_ = os.Unsetenv("ECOSORT_ADDR")
			_ = os.Unsetenv("ECOSORT_LEADERBOARD_SIZE")
			_ = os.Unsetenv("ECOSORT_REQUIRE_ADMIN")
			_ = os.Unsetenv("ECOSORT_BCRYPT_COST")
		}()

		ctx := context.Background()
		cfg, err := config.Load(ctx)
		convey.So(err, convey.ShouldBeNil)
		convey.So(cfg.Addr, convey.ShouldEqual, ":8080")

		convey.Convey("When the service and handler are built from it", func() {
			svc := newService(cfg, logger.Get())
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()
			handler := newHandler(ctx, cfg, svc)

			get := func(path string) *httptest.ResponseRecorder {
				w := httptest.NewRecorder()
				handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
				return w
			}

			convey.Convey("Then every surface is routed", func() {
				convey.So(get("/").Code, convey.ShouldEqual, http.StatusOK)
				convey.So(get("/api-docs").Code, convey.ShouldEqual, http.StatusOK)
				convey.So(get("/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
				convey.So(get("/healthz").Code, convey.ShouldEqual, http.StatusOK)
				convey.So(get("/api/quiz/questions").Code, convey.ShouldEqual, http.StatusOK)
				convey.So(get("/api/nope").Code, convey.ShouldEqual, http.StatusNotFound)
			})

			convey.Convey("Then the configured options reach the service", func() {
				stats := svc.GetStats()
				convey.So(stats["leaderboardSize"], convey.ShouldEqual, 3)
				convey.So(stats["seedContent"], convey.ShouldEqual, true)
			})

			convey.Convey("Then the admin guard is applied", func() {
				w := httptest.NewRecorder()
				body := `{"question":"Q?","options":["a","b","c","d"],"correctAnswer":0,"category":"glass"}`
				req := httptest.NewRequest(http.MethodPost, "/api/quiz/questions", strings.NewReader(body))
				handler.ServeHTTP(w, req)
				convey.So(w.Code, convey.ShouldEqual, http.StatusUnauthorized)
			})
		})
	})

	convey.Convey("Given an invalid configuration", t, func() {
		_ = os.Setenv("ECOSORT_ADDR", "")
		defer func() { _ = os.Unsetenv("ECOSORT_ADDR") }()

		convey.Convey("Then loading fails", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

func TestSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("Then a single update does not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("Then the loop returns when its context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			done := make(chan struct{})
			go func() {
				startSystemMetricsUpdater(ctx)
				close(done)
			}()

			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("updater did not stop")
			}
		})
	})
}
