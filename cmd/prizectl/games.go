package main

import (
	"context"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	app "github.com/okian/prizeboard/internal/app"
	"github.com/okian/prizeboard/internal/domain/aggregate"
	"github.com/okian/prizeboard/internal/domain/query"
)

func (c *cli) gamesCmd() *cobra.Command {
	var (
		gameType string
		topOnly  bool
	)
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Top games of a game type by prize",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *app.Service) error {
				v, err := svc.TopGames(ctx, gameType, topOnly)
				if err != nil {
					return err
				}
				return c.emit(v, func(w io.Writer) { renderGames(w, v) })
			})
		},
	}
	cmd.Flags().StringVarP(&gameType, "game-type", "g", "", "game type to keep (all when empty)")
	cmd.Flags().BoolVar(&topOnly, "top-only", false, "headline totals cover only the listed games")
	return cmd
}

func renderGames(w io.Writer, v query.TopGamesView) {
	heading(w, "%s: %d games, %s, %d players, %d tournaments",
		gameTypeLabel(v.GameType), v.GameCount, usd(v.TotalPrize), v.TotalPlayers, v.TotalTournaments)

	table := newTable(w)
	table.Header("GAME", "TYPE", "PRIZE", "PLAYERS", "TOURNAMENTS", "TOTALS FROM")
	for _, g := range v.Games {
		name := g.GameName
		if name == "" {
			name = g.GameID
		}
		table.Append(name, g.GameType, usd(g.TotalUSDPrize), strconv.Itoa(g.TotalPlayers), strconv.Itoa(g.TotalTournaments), g.Source)
	}
	table.Render()
}

func (c *cli) geoCmd() *cobra.Command {
	var (
		f      filterFlags
		metric string
		all    bool
	)
	cmd := &cobra.Command{
		Use:   "geo",
		Short: "Players and prize by country and continent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *app.Service) error {
				filter, err := f.parse(svc)
				if err != nil {
					return err
				}
				m, err := aggregate.ParseCountryMetric(metric)
				if err != nil {
					return err
				}
				v, err := svc.Geography(ctx, filter, m)
				if err != nil {
					return err
				}
				return c.emit(v, func(w io.Writer) { renderGeography(w, v, all) })
			})
		},
	}
	f.bind(cmd, false)
	cmd.Flags().StringVar(&metric, "country-metric", string(aggregate.ByPlayerCount), "top countries ranking: player_count or total_prize")
	cmd.Flags().BoolVar(&all, "all", false, "list every country, including those without players")
	return cmd
}

func renderGeography(w io.Writer, v query.GeographyView, all bool) {
	heading(w, "%s | %s | top countries by %s", gameTypeLabel(v.Filter.GameType), v.Filter.Scope, v.Metric)

	countries := v.TopCountries
	if all {
		countries = v.Countries
	}
	table := newTable(w)
	table.Header("CODE", "COUNTRY", "CONTINENT", "PLAYERS", "PRIZE", "AVG")
	for _, cs := range countries {
		table.Append(cs.Code, cs.Name, cs.Continent, strconv.Itoa(cs.PlayerCount), usd(cs.TotalPrize), usd(cs.AvgPrize))
	}
	table.Render()

	heading(w, "")
	cont := newTable(w)
	cont.Header("CONTINENT", "PLAYERS", "PRIZE", "AVG")
	for _, cs := range v.Continents {
		cont.Append(cs.Continent, strconv.Itoa(cs.PlayerCount), usd(cs.TotalPrize), usd(cs.AvgPrize))
	}
	cont.Render()
}
