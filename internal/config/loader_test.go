package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/ecosort/ecosort/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("ECOSORT_ADDR", ":8080")
			_ = os.Setenv("ECOSORT_LEADERBOARD_SIZE", "10")
			_ = os.Setenv("ECOSORT_RESULT_RETENTION", "50")
			_ = os.Setenv("ECOSORT_REQUIRE_ADMIN", "true")
			_ = os.Setenv("ECOSORT_SEED_CONTENT", "false")
			_ = os.Setenv("ECOSORT_JWT_SECRET", "s3cret")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LeaderboardSize, convey.ShouldEqual, 10)
				convey.So(cfg.ResultRetention, convey.ShouldEqual, 50)
				convey.So(cfg.RequireAdmin, convey.ShouldBeTrue)
				convey.So(cfg.SeedContent, convey.ShouldBeFalse)
				convey.So(cfg.JWTSecret, convey.ShouldEqual, "s3cret")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(t, "config-*.yaml", `
# comments are fine
addr: ":9090"  # inline
leaderboard_size: 25
log_format: json
admin_email: root@example.com
`)
			_ = os.Setenv("ECOSORT_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LeaderboardSize, convey.ShouldEqual, 25)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.AdminEmail, convey.ShouldEqual, "root@example.com")
				convey.So(cfg.AdminUsername, convey.ShouldEqual, "admin")
				convey.So(cfg.TokenTTLMinutes, convey.ShouldEqual, 24*60)
			})
		})

		convey.Convey("When loading a file, a dotenv file and environment variables", func() {
			yamlFile := createTempConfigFile(t, "config-*.yaml", `
addr: ":9090"
leaderboard_size: 25
result_retention: 5
`)
			dotFile := createTempConfigFile(t, "ecosort-*.env", `
ECOSORT_LEADERBOARD_SIZE=30
ECOSORT_RESULT_RETENTION=7
`)
			_ = os.Setenv("ECOSORT_CONFIG", yamlFile)
			_ = os.Setenv("ECOSORT_ENV_FILE", dotFile)
			_ = os.Setenv("ECOSORT_RESULT_RETENTION", "9")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env should beat dotenv and dotenv should beat the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LeaderboardSize, convey.ShouldEqual, 30)
				convey.So(cfg.ResultRetention, convey.ShouldEqual, 9)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, "config-*.yaml", `invalid: yaml: content: [`)
			_ = os.Setenv("ECOSORT_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent files", func() {
			_ = os.Setenv("ECOSORT_ENV_FILE", "/non/existent/.env")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("ECOSORT_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a non-positive leaderboard size", func() {
			_ = os.Setenv("ECOSORT_LEADERBOARD_SIZE", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("ECOSORT_LEADERBOARD_SIZE", "invalid")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"ECOSORT_CONFIG",
		"ECOSORT_ENV_FILE",
		"ECOSORT_ADDR",
		"ECOSORT_LEADERBOARD_SIZE",
		"ECOSORT_RESULT_RETENTION",
		"ECOSORT_REQUIRE_ADMIN",
		"ECOSORT_SEED_CONTENT",
		"ECOSORT_JWT_SECRET",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(t *testing.T, pattern, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), pattern)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpFile.Name()
}
