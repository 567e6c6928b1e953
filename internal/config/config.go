// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load layers defaults, an optional YAML file and PRIZEBOARD_* env vars.
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"runtime"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// TournamentsPath is the per-player tournament results CSV.
	TournamentsPath string `koanf:"tournaments_path"`

	// PlayersPath is the player profile CSV (handle -> country code).
	PlayersPath string `koanf:"players_path"`

	// GamesPath is the game metadata CSV.
	GamesPath string `koanf:"games_path"`

	// CountriesPath overrides the embedded ISO-3166 table when set.
	CountriesPath string `koanf:"countries_path"`

	// SnapshotPath, when set, loads raw rows from a SQLite snapshot instead of the CSVs.
	SnapshotPath string `koanf:"snapshot_path"`

	// MaxQueryLimit caps ?limit on list endpoints.
	MaxQueryLimit int `koanf:"max_query_limit"`

	// BatchWorkers sets the number of workers executing batch queries.
	BatchWorkers int `koanf:"batch_workers"`

	// BatchQueueSize bounds the batch job queue.
	BatchQueueSize int `koanf:"batch_queue_size"`

	// MinCareerYears excludes shorter careers from career structure views.
	MinCareerYears float64 `koanf:"min_career_years"`

	// MinPlayersPerGameType drops sparse game types from per-type medians.
	MinPlayersPerGameType int `koanf:"min_players_per_game_type"`

	// TopGamesLimit is the number of games in the prize pool ranking.
	TopGamesLimit int `koanf:"top_games_limit"`

	// TopCountriesLimit is the number of countries in the geography ranking.
	TopCountriesLimit int `koanf:"top_countries_limit"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             "text",
		Addr:                  ":9080",
		TournamentsPath:       "data/tournaments.csv",
		PlayersPath:           "data/players.csv",
		GamesPath:             "data/games.csv",
		MaxQueryLimit:         5000,
		BatchWorkers:          runtime.NumCPU(),
		BatchQueueSize:        256,
		MinCareerYears:        0.25,
		MinPlayersPerGameType: 10,
		TopGamesLimit:         15,
		TopCountriesLimit:     10,
	}
}

// Validate checks invariants the rest of the process relies on.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.SnapshotPath == "" && c.TournamentsPath == "":
		return fmt.Errorf("%w: tournaments_path or snapshot_path is required", ErrInvalidConfig)
	case c.MaxQueryLimit < 1:
		return fmt.Errorf("%w: max_query_limit must be positive", ErrInvalidConfig)
	case c.BatchWorkers < 1:
		return fmt.Errorf("%w: batch_workers must be positive", ErrInvalidConfig)
	case c.BatchQueueSize < 1:
		return fmt.Errorf("%w: batch_queue_size must be positive", ErrInvalidConfig)
	case c.MinCareerYears < 0:
		return fmt.Errorf("%w: min_career_years must not be negative", ErrInvalidConfig)
	case c.MinPlayersPerGameType < 0:
		return fmt.Errorf("%w: min_players_per_game_type must not be negative", ErrInvalidConfig)
	case c.TopGamesLimit < 1 || c.TopCountriesLimit < 1:
		return fmt.Errorf("%w: top limits must be positive", ErrInvalidConfig)
	}
	return nil
}
