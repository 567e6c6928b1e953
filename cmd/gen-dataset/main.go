package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/prizeboard/internal/datagen"
	"github.com/okian/prizeboard/pkg/logger"
)

const runTimeout = 10 * time.Minute

func main() {
	def := datagen.DefaultConfig()
	var (
		outDir      = flag.String("out", def.OutDir, "Output directory for the CSV files")
		players     = flag.Int("players", def.Players, "Number of players")
		tournaments = flag.Int("tournaments", def.Tournaments, "Tournaments per game")
		seed        = flag.Uint64("seed", def.Seed, "Random seed; the same seed writes the same dataset")
		firstYear   = flag.Int("from", def.FirstYear, "First tournament year")
		lastYear    = flag.Int("to", def.LastYear, "Last tournament year")
		baseURL     = flag.String("verify", "", "Base URL of a server to verify against, e.g. http://localhost:9080")
		topN        = flag.Int("top", def.TopN, "Number of top players to verify")
		timeout     = flag.Duration("timeout", def.Timeout, "HTTP request timeout")
		verbose     = flag.Bool("verbose", false, "Log the verified top players")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	cfg := datagen.Config{
		OutDir:      *outDir,
		Players:     *players,
		Tournaments: *tournaments,
		Seed:        *seed,
		FirstYear:   *firstYear,
		LastYear:    *lastYear,
		BaseURL:     *baseURL,
		TopN:        *topN,
		Timeout:     *timeout,
		Verbose:     *verbose,
	}
	if err := datagen.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "gen-dataset failed", logger.Error(err))
		os.Exit(1)
	}
}
