// Package datagen writes synthetic prize datasets and checks a running
// server against them.
package datagen

import "time"

// Config controls dataset generation and verification.
type Config struct {
	OutDir      string // directory for tournaments.csv, players.csv, games.csv
	Players     int    // number of players
	Tournaments int    // tournaments per game
	Seed        uint64 // same seed, same dataset
	FirstYear   int
	LastYear    int

	// Verification against a running server; skipped when BaseURL is empty.
	BaseURL string
	TopN    int
	Timeout time.Duration
	Verbose bool
}

// DefaultConfig returns a small but varied dataset configuration.
func DefaultConfig() Config {
	return Config{
		OutDir:      "data",
		Players:     2000,
		Tournaments: 120,
		Seed:        1,
		FirstYear:   2012,
		LastYear:    2023,
		TopN:        50,
		Timeout:     30 * time.Second,
	}
}
