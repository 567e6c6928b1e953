package datagen

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/prizeboard/pkg/logger"
)

// Run generates the dataset, writes it and, when cfg.BaseURL is set,
// verifies a server that serves it.
func Run(ctx context.Context, cfg Config) error {
	log := logger.Get().Named("gen-dataset")
	start := time.Now()

	ds, err := Generate(cfg)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	files, err := WriteDir(cfg.OutDir, ds)
	if err != nil {
		return err
	}
	log.Info(ctx, "dataset written",
		logger.String("tournaments", files.Tournaments),
		logger.Int("records", len(ds.Records)),
		logger.Int("players", len(ds.Players)),
		logger.Int("games", len(ds.Games)),
		logger.Duration("took", time.Since(start)),
	)

	if cfg.BaseURL == "" {
		return nil
	}
	if err := Verify(ctx, cfg, ds); err != nil {
		return fmt.Errorf("verify %s: %w", cfg.BaseURL, err)
	}
	return nil
}
