package config_test

import (
	"errors"
	"testing"

	"github.com/ecosort/ecosort/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":5000")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.LeaderboardSize, convey.ShouldEqual, 50)
			convey.So(cfg.ResultRetention, convey.ShouldEqual, 0)
			convey.So(cfg.SeedContent, convey.ShouldBeTrue)
			convey.So(cfg.RequireAdmin, convey.ShouldBeFalse)
			convey.So(cfg.AdminEmail, convey.ShouldEqual, "admin@ecosort.com")
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with unusable settings", t, func() {
		cases := map[string]func(*config.Config){
			"addr":              func(c *config.Config) { c.Addr = " " },
			"leaderboard_size":  func(c *config.Config) { c.LeaderboardSize = 0 },
			"result_retention":  func(c *config.Config) { c.ResultRetention = -1 },
			"token_ttl_minutes": func(c *config.Config) { c.TokenTTLMinutes = 0 },
			"jwt_secret":        func(c *config.Config) { c.JWTSecret = "" },
		}

		for key, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()

			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, key)
		}
	})
}
