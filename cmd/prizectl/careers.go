package main

import (
	"context"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	app "github.com/okian/prizeboard/internal/app"
	"github.com/okian/prizeboard/internal/domain/career"
	"github.com/okian/prizeboard/internal/domain/model"
	"github.com/okian/prizeboard/internal/domain/query"
)

func (c *cli) careersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "careers",
		Short: "Career length, yearly earnings and earnings shape",
	}
	cmd.AddCommand(
		c.careerView("structure", "Career length and activity of established players",
			func(ctx context.Context, svc *app.Service, f query.Filter) (any, func(io.Writer), error) {
				r, err := svc.CareerStructure(ctx, f)
				return r, func(w io.Writer) { renderStructure(w, r) }, err
			}),
		c.careerView("earnings", "Average yearly earnings of established players",
			func(ctx context.Context, svc *app.Service, f query.Filter) (any, func(io.Writer), error) {
				r, err := svc.YearlyEarnings(ctx, f)
				return r, func(w io.Writer) { renderEarnings(w, r) }, err
			}),
		c.careerView("shape", "Earnings concentration profiles",
			func(ctx context.Context, svc *app.Service, f query.Filter) (any, func(io.Writer), error) {
				v, err := svc.EarningsShape(ctx, f)
				return v, func(w io.Writer) { renderShape(w, v) }, err
			}),
	)
	return cmd
}

type careerFunc func(ctx context.Context, svc *app.Service, f query.Filter) (any, func(io.Writer), error)

func (c *cli) careerView(use, short string, fn careerFunc) *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *app.Service) error {
				filter, err := f.parse(svc)
				if err != nil {
					return err
				}
				v, table, err := fn(ctx, svc, filter)
				if err != nil {
					return err
				}
				return c.emit(v, table)
			})
		},
	}
	f.bind(cmd, false)
	return cmd
}

func renderStructure(w io.Writer, r career.StructureReport) {
	heading(w, "%d established players: median %s years (mean %s), %s tournaments, %s per year (mean %s)",
		r.Players, num(r.MedianCareerYears), num(r.MeanCareerYears), num(r.MedianTournaments),
		num(r.MedianTournamentsPerYear), num(r.MeanTournamentsPerYear))
	renderGameTypeStats(w, "TOURNAMENTS/YR", r.ByGameType)
}

func renderEarnings(w io.Writer, r career.EarningsReport) {
	heading(w, "%d established players: median $%s per year, mean $%s (highest %s, lowest %s)",
		r.Players, num(r.GlobalMedian), num(r.GlobalMean), r.Highest, r.Lowest)
	renderGameTypeStats(w, "USD/YR", r.ByGameType)
}

func renderGameTypeStats(w io.Writer, label string, stats []career.GameTypeStat) {
	table := newTable(w)
	table.Header("GAME TYPE", "PLAYERS", "MEDIAN "+label, "MEAN "+label)
	for _, s := range stats {
		table.Append(s.GameType, strconv.Itoa(s.Players), num(s.Median), num(s.Mean))
	}
	table.Render()
}

func renderShape(w io.Writer, v query.EarningsShapeView) {
	heading(w, "%d classified, %d unclassified", v.Distribution.Classified, v.Distribution.Unclassified)
	table := newTable(w)
	table.Header("PROFILE", "PLAYERS", "SHARE")
	for _, s := range v.Distribution.Shares {
		table.Append(s.Profile.String(), strconv.Itoa(s.Count), pct(s.Percent))
	}
	table.Render()

	heading(w, "")
	byType := newTable(w)
	header := []any{"GAME TYPE"}
	for _, p := range model.Profiles {
		header = append(header, p.String())
	}
	byType.Header(header...)
	var (
		row  []any
		last string
	)
	for _, pc := range v.ByGameType {
		if pc.GameType != last {
			if row != nil {
				byType.Append(row...)
			}
			row = []any{pc.GameType}
			last = pc.GameType
		}
		row = append(row, strconv.Itoa(pc.Count))
	}
	if row != nil {
		byType.Append(row...)
	}
	byType.Render()
}

func (c *cli) timelineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "timeline [handle...]",
		Short: "Cumulative earnings of players (top players when no handle is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *app.Service) error {
				tls, err := svc.CareerTimelines(ctx, args)
				if err != nil {
					return err
				}
				return c.emit(tls, func(w io.Writer) { renderTimelines(w, tls) })
			})
		},
	}
}

func renderTimelines(w io.Writer, tls []query.Timeline) {
	for i, tl := range tls {
		if i > 0 {
			heading(w, "")
		}
		heading(w, "%s (%s): %s", tl.PlayerHandle, tl.Profile, usd(tl.TotalUSDPrize))
		table := newTable(w)
		table.Header("DATE", "GAME", "PRIZE", "CUMULATIVE", "")
		for j, p := range tl.Points {
			game := p.GameName
			if game == "" {
				game = p.GameID
			}
			mark := ""
			if tl.Annotation != nil && tl.Annotation.Index == j {
				mark = "*"
			}
			table.Append(p.Date.Format(model.DateLayout), game, usd(p.Prize), usd(p.CumulativePrize), mark)
		}
		table.Render()
	}
}
