package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/okian/prizeboard/internal/adapters/snapshot"
	"github.com/okian/prizeboard/internal/adapters/source"
	app "github.com/okian/prizeboard/internal/app"
	"github.com/okian/prizeboard/internal/domain/query"
)

var errNoOutput = errors.New("snapshot output path is required")

func (c *cli) reportCmd() *cobra.Command {
	var (
		scopes []string
		metric string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize every game type and scope in one concurrent batch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *app.Service) error {
				filters, err := reportFilters(svc, scopes, metric)
				if err != nil {
					return err
				}
				results, err := svc.Batch(ctx, filters)
				if err != nil {
					return err
				}
				return c.emit(results, func(w io.Writer) { renderReport(w, results) })
			})
		},
	}
	cmd.Flags().StringSliceVar(&scopes, "scope", []string{"All", "Top1000", "Top5000"}, "scopes to include")
	cmd.Flags().StringVarP(&metric, "metric", "m", string(query.MetricTotalPrize), "ordering metric")
	return cmd
}

// reportFilters crosses every game type, plus the all-types filter, with scopes.
func reportFilters(svc *app.Service, scopes []string, metric string) ([]query.Filter, error) {
	types, err := svc.GameTypes()
	if err != nil {
		return nil, err
	}
	types = append([]string{""}, types...)

	filters := make([]query.Filter, 0, len(types)*len(scopes))
	for _, gt := range types {
		for _, s := range scopes {
			f, err := svc.ParseFilter(gt, s, metric)
			if err != nil {
				return nil, err
			}
			filters = append(filters, f)
		}
	}
	return filters, nil
}

func renderReport(w io.Writer, results []app.BatchResult) {
	table := newTable(w)
	table.Header("GAME TYPE", "SCOPE", "PLAYERS", "PRIZE", "MEDIAN", "LEADER")
	for _, r := range results {
		if r.Table == nil {
			table.Append(gameTypeLabel(r.Filter.GameType), r.Filter.Scope.String(), "-", "-", "-", r.Error)
			continue
		}
		leader := "-"
		if len(r.Table.Rows) > 0 {
			leader = r.Table.Rows[0].PlayerHandle
		}
		table.Append(
			gameTypeLabel(r.Filter.GameType), r.Filter.Scope.String(),
			strconv.Itoa(r.Table.PlayerCount), usd(r.Table.TotalPrize), usd(r.Table.MedianPrize), leader,
		)
	}
	table.Render()
}

func (c *cli) importCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy the CSV inputs into a SQLite snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				return errNoOutput
			}
			t, err := source.ReadFiles(c.files)
			if err != nil {
				return err
			}
			if err := snapshot.Import(cmd.Context(), out, t); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "imported %d records, %d profiles, %d games into %s\n",
				len(t.Tournaments), len(t.Players), len(t.Games), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "snapshot file to write")
	return cmd
}
