package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/prizeboard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"PRIZEBOARD_CONFIG",
	"PRIZEBOARD_ADDR",
	"PRIZEBOARD_LOG_LEVEL",
	"PRIZEBOARD_TOURNAMENTS_PATH",
	"PRIZEBOARD_SNAPSHOT_PATH",
	"PRIZEBOARD_MAX_QUERY_LIMIT",
	"PRIZEBOARD_BATCH_WORKERS",
	"PRIZEBOARD_MIN_CAREER_YEARS",
	"PRIZEBOARD_MIN_PLAYERS_PER_GAME_TYPE",
	"PRIZEBOARD_TOP_GAMES_LIMIT",
}

func clearConfigEnvVars() {
	for _, v := range configEnvVars {
		_ = os.Unsetenv(v)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prizeboard.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.MinCareerYears, convey.ShouldEqual, 0.25)
			convey.So(cfg.MinPlayersPerGameType, convey.ShouldEqual, 10)
			convey.So(cfg.TopGamesLimit, convey.ShouldEqual, 15)
			convey.So(cfg.TopCountriesLimit, convey.ShouldEqual, 10)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
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
				convey.So(cfg.TournamentsPath, convey.ShouldEqual, "data/tournaments.csv")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("PRIZEBOARD_ADDR", ":8080")
			_ = os.Setenv("PRIZEBOARD_MAX_QUERY_LIMIT", "1000")
			_ = os.Setenv("PRIZEBOARD_MIN_CAREER_YEARS", "0.5")
			_ = os.Setenv("PRIZEBOARD_SNAPSHOT_PATH", "/tmp/prizes.db")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MaxQueryLimit, convey.ShouldEqual, 1000)
				convey.So(cfg.MinCareerYears, convey.ShouldEqual, 0.5)
				convey.So(cfg.SnapshotPath, convey.ShouldEqual, "/tmp/prizes.db")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			path := writeConfigFile(t, `
# dataset
addr: ":9090"
games_path: "/srv/games.csv"
top_games_limit: 20
min_players_per_game_type: 5
`)
			_ = os.Setenv("PRIZEBOARD_CONFIG", path)
			_ = os.Setenv("PRIZEBOARD_ADDR", ":7070")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")              // env
				convey.So(cfg.GamesPath, convey.ShouldEqual, "/srv/games.csv") // file
				convey.So(cfg.TopGamesLimit, convey.ShouldEqual, 20)           // file
				convey.So(cfg.MinPlayersPerGameType, convey.ShouldEqual, 5)    // file
				convey.So(cfg.TopCountriesLimit, convey.ShouldEqual, 10)       // default
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			_ = os.Setenv("PRIZEBOARD_CONFIG", writeConfigFile(t, `invalid: yaml: content: [`))

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("PRIZEBOARD_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("PRIZEBOARD_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("PRIZEBOARD_BATCH_WORKERS", "not_a_number")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a threshold is negative", func() {
			_ = os.Setenv("PRIZEBOARD_MIN_PLAYERS_PER_GAME_TYPE", "-1")

			_, err := config.Load(ctx)

			convey.Convey("Then validation rejects it", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When neither tournaments nor snapshot path is set", func() {
			_ = os.Setenv("PRIZEBOARD_TOURNAMENTS_PATH", "")

			_, err := config.Load(ctx)

			convey.Convey("Then validation rejects it", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
