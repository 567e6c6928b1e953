package main

import (
	"context"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	app "github.com/okian/prizeboard/internal/app"
	"github.com/okian/prizeboard/internal/domain/aggregate"
	"github.com/okian/prizeboard/internal/domain/model"
	"github.com/okian/prizeboard/internal/domain/query"
)

func (c *cli) playersCmd() *cobra.Command {
	var (
		f     filterFlags
		limit int
	)
	cmd := &cobra.Command{
		Use:   "players",
		Short: "Ranked player table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *app.Service) error {
				filter, err := f.parse(svc)
				if err != nil {
					return err
				}
				t, err := svc.Query(ctx, filter)
				if err != nil {
					return err
				}
				if limit > 0 && len(t.Rows) > limit {
					t.Rows = t.Rows[:limit]
				}
				return c.emit(t, func(w io.Writer) { renderPlayers(w, t) })
			})
		},
	}
	f.bind(cmd, true)
	cmd.Flags().IntVarP(&limit, "limit", "n", 25, "rows to print (0 prints all)")
	return cmd
}

func renderPlayers(w io.Writer, t query.PlayerTable) {
	heading(w, "%s | %s | by %s: %d players, total %s, median %s",
		gameTypeLabel(t.Filter.GameType), t.Filter.Scope, t.Filter.Metric,
		t.PlayerCount, usd(t.TotalPrize), usd(t.MedianPrize))

	table := newTable(w)
	table.Header("RANK", "PLAYER", "COUNTRY", "GAME TYPE", "PRIZE", "EVENTS", "YEARS", "EVT/YR", "USD/YR", "TOP10%", "PROFILE")
	for _, r := range t.Rows {
		years, perYear, usdYear, top := "-", "-", "-", "-"
		if r.CareerLengthYears != model.SingleEventCareer {
			years = num(r.CareerLengthYears)
		}
		if r.RatesDefined {
			perYear = num(r.TournamentsPerYear)
			usdYear = num(r.AvgEarningsPerYear)
		}
		if r.Profile != model.Unclassified {
			top = pct(r.Top10PctEarningsRatio * 100)
		}
		table.Append(
			strconv.Itoa(r.Rank), r.PlayerHandle, r.Country, r.PrimaryGameType,
			usd(r.TotalUSDPrize), strconv.Itoa(r.TotalTournaments),
			years, perYear, usdYear, top, r.Profile.String(),
		)
	}
	table.Render()
}

func gameTypeLabel(gt string) string {
	if gt == "" || gt == aggregate.AllGameTypes {
		return "all game types"
	}
	return gt
}
