package quizsim_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ecosort/ecosort/internal/adapters/http/api"
	service "github.com/ecosort/ecosort/internal/app"
	"github.com/ecosort/ecosort/internal/quizsim"
	"github.com/ecosort/ecosort/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newServer(opts ...service.Option) (*httptest.Server, *service.Service) {
	svc := service.New(append([]service.Option{service.WithBcryptCost(4)}, opts...)...)
	So(svc.Start(context.Background()), ShouldBeNil)
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	return httptest.NewServer(mux), svc
}

func TestRun(t *testing.T) {
	Convey("Given a running EcoSort server", t, func() {
		srv, svc := newServer()
		defer srv.Close()
		defer svc.Stop()

		cfg := quizsim.DefaultConfig()
		cfg.BaseURL = srv.URL
		cfg.Players = 12
		cfg.Rounds = 3
		cfg.Workers = 4
		cfg.Timeout = 5 * time.Second
		cfg.Seed = 42

		Convey("When the simulation runs", func() {
			stats, err := quizsim.Run(context.Background(), cfg)

			Convey("Then every player plays every round", func() {
				So(err, ShouldBeNil)
				So(stats.PlayersCreated, ShouldEqual, 12)
				So(stats.PlayersFailed, ShouldEqual, 0)
				So(stats.ResultsSaved, ShouldEqual, 36)
				So(stats.ScoreUpdates, ShouldEqual, 36)
				So(stats.LeaderboardEntries, ShouldEqual, 12)
			})
		})

		Convey("When more players than the leaderboard holds take part", func() {
			cfg.Players = 60
			cfg.Rounds = 1
			stats, err := quizsim.Run(context.Background(), cfg)

			Convey("Then the board is capped and still verifies", func() {
				So(err, ShouldBeNil)
				So(stats.LeaderboardEntries, ShouldEqual, 50)
			})
		})

		Convey("When the expected cap is smaller than the server's", func() {
			cfg.LeaderboardSize = 5
			_, err := quizsim.Run(context.Background(), cfg)

			Convey("Then verification fails", func() {
				So(errors.Is(err, quizsim.ErrVerification), ShouldBeTrue)
			})
		})
	})

	Convey("Given a server without quiz content", t, func() {
		srv, svc := newServer(service.WithSeedContent(false))
		defer srv.Close()
		defer svc.Stop()

		cfg := quizsim.DefaultConfig()
		cfg.BaseURL = srv.URL

		Convey("Then the run stops before creating players", func() {
			_, err := quizsim.Run(context.Background(), cfg)
			So(errors.Is(err, quizsim.ErrNoQuestions), ShouldBeTrue)
		})
	})

	Convey("Given an unreachable server", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		cfg := quizsim.DefaultConfig()
		cfg.BaseURL = url
		cfg.Timeout = time.Second

		Convey("Then the health check fails", func() {
			_, err := quizsim.Run(context.Background(), cfg)
			So(errors.Is(err, quizsim.ErrUnhealthy), ShouldBeTrue)
		})
	})

	Convey("Given an invalid config", t, func() {
		cfg := quizsim.DefaultConfig()
		cfg.Players = 0

		Convey("Then Run rejects it", func() {
			_, err := quizsim.Run(context.Background(), cfg)
			So(errors.Is(err, quizsim.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}
