package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/okian/prizeboard/internal/adapters/source"
	app "github.com/okian/prizeboard/internal/app"
	"github.com/okian/prizeboard/internal/config"
	"github.com/okian/prizeboard/internal/domain/query"
	"github.com/okian/prizeboard/pkg/logger"
)

// Output formats.
const (
	formatTable = "table"
	formatJSON  = "json"
)

var errFormat = errors.New("unknown output format")

// cli carries the flags shared by every subcommand.
type cli struct {
	cfg      *config.Config
	out      io.Writer
	files    source.Files
	snapshot string
	format   string
	verbose  bool
}

func newRootCmd(cfg *config.Config, out io.Writer) *cobra.Command {
	c := &cli{cfg: cfg, out: out}

	root := &cobra.Command{
		Use:           "prizectl",
		Short:         "Esports prize data tables",
		Long:          "Load tournament prize results and print player, game, geography and career tables.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.format != formatTable && c.format != formatJSON {
				return fmt.Errorf("%w: %q", errFormat, c.format)
			}
			if c.verbose {
				_ = logger.SetLevelString("debug")
			}
			return nil
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&c.files.Tournaments, "tournaments", cfg.TournamentsPath, "path to the tournament results CSV")
	pf.StringVar(&c.files.Players, "players", cfg.PlayersPath, "path to the player profiles CSV")
	pf.StringVar(&c.files.Games, "games", cfg.GamesPath, "path to the games CSV")
	pf.StringVar(&c.files.Countries, "countries", cfg.CountriesPath, "path to a countries CSV (embedded table when empty)")
	pf.StringVar(&c.snapshot, "snapshot", cfg.SnapshotPath, "read a SQLite snapshot instead of the CSVs")
	pf.StringVarP(&c.format, "output", "o", formatTable, "output format: table or json")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "log loader diagnostics")

	root.AddCommand(
		c.playersCmd(),
		c.gamesCmd(),
		c.geoCmd(),
		c.careersCmd(),
		c.timelineCmd(),
		c.reportCmd(),
		c.importCmd(),
	)
	return root
}

// open loads the dataset and starts the batch workers. Callers must Stop it.
func (c *cli) open(ctx context.Context) (*app.Service, error) {
	opts := []app.Option{
		app.WithLogger(logger.Get().Named("prizectl")),
		app.WithWorkerCount(c.cfg.BatchWorkers),
		app.WithQueueSize(c.cfg.BatchQueueSize),
		app.WithFacadeOptions(
			query.WithMinCareerYears(c.cfg.MinCareerYears),
			query.WithMinPlayersPerGameType(c.cfg.MinPlayersPerGameType),
			query.WithTopGamesLimit(c.cfg.TopGamesLimit),
			query.WithTopCountriesLimit(c.cfg.TopCountriesLimit),
		),
	}
	if c.snapshot != "" {
		opts = append(opts, app.WithSnapshot(c.snapshot))
	} else {
		opts = append(opts, app.WithFiles(c.files))
	}
	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

// withService runs fn against a started service and stops it afterwards.
func (c *cli) withService(cmd *cobra.Command, fn func(ctx context.Context, svc *app.Service) error) (err error) {
	ctx := cmd.Context()
	svc, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, svc.Stop(context.WithoutCancel(ctx)))
	}()
	return fn(ctx, svc)
}

// filterFlags binds the game type, scope and metric flags of a command.
type filterFlags struct {
	gameType string
	scope    string
	metric   string
}

func (f *filterFlags) bind(cmd *cobra.Command, withMetric bool) {
	cmd.Flags().StringVarP(&f.gameType, "game-type", "g", "", "game type to keep (all when empty)")
	cmd.Flags().StringVarP(&f.scope, "scope", "s", "All", "player scope: All or TopN")
	if withMetric {
		cmd.Flags().StringVarP(&f.metric, "metric", "m", string(query.MetricTotalPrize), "ordering metric")
	}
}

func (f *filterFlags) parse(svc *app.Service) (query.Filter, error) {
	return svc.ParseFilter(f.gameType, f.scope, f.metric)
}
