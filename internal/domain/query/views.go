package query

import (
	"fmt"
	"strings"

	"github.com/okian/prizeboard/internal/domain/aggregate"
	"github.com/okian/prizeboard/internal/domain/career"
	"github.com/okian/prizeboard/internal/domain/model"
	"github.com/shopspring/decimal"
)

// TopGamesView lists the highest paying games of a type with headline totals.
type TopGamesView struct {
	GameType   string              `json:"game_type"`
	KPITopOnly bool                `json:"kpi_top_only"`
	Games      []model.GameSummary `json:"games"`
	GameCount  int                 `json:"game_count"`
	TotalPrize decimal.Decimal     `json:"total_prize"`
	// TotalPlayers sums per-game player counts; a player active in two games
	// counts twice.
	TotalPlayers     int `json:"total_players"`
	TotalTournaments int `json:"total_tournaments"`
}

// TopGames returns the top games of gameType by prize. Games are ranked by
// their metadata totals when the game table carries them and by the summed
// records otherwise. The headline totals cover only the listed games when
// kpiTopOnly is set and every game of the type otherwise.
func (f *Facade) TopGames(gameType string, kpiTopOnly bool) (TopGamesView, error) {
	filter, err := ParseFilter(f.refs, gameType, "", "")
	if err != nil {
		return TopGamesView{}, err
	}

	games := aggregate.PreferMetadata(aggregate.SummarizeByGame(f.records.All(), f.refs), f.refs)
	all := aggregate.TopGames(games, filter.GameType, 0)
	top := all
	if len(top) > f.topGamesLimit {
		top = top[:f.topGamesLimit]
	}

	kpi := all
	if kpiTopOnly {
		kpi = top
	}
	v := TopGamesView{
		GameType:   filter.GameType,
		KPITopOnly: kpiTopOnly,
		Games:      top,
		GameCount:  len(kpi),
		TotalPrize: aggregate.SumGamePrize(kpi),
	}
	for _, g := range kpi {
		v.TotalPlayers += g.TotalPlayers
		v.TotalTournaments += g.TotalTournaments
	}
	return v, nil
}

// PrizeEntry is one player's position in the prize distribution.
type PrizeEntry struct {
	Rank          int             `json:"rank"`
	PlayerHandle  string          `json:"player_handle"`
	TotalUSDPrize decimal.Decimal `json:"total_usd_prize"`
}

// PrizeDistributionView is the ranked prize curve of a scope.
type PrizeDistributionView struct {
	Filter      Filter          `json:"filter"`
	Entries     []PrizeEntry    `json:"entries"`
	TotalPrize  decimal.Decimal `json:"total_prize"`
	MedianPrize decimal.Decimal `json:"median_prize"`
}

// PrizeDistribution returns the scoped players in prize rank order.
func (f *Facade) PrizeDistribution(filter Filter) PrizeDistributionView {
	s := f.scoped(filter)
	v := PrizeDistributionView{Filter: filter, Entries: make([]PrizeEntry, len(s.ranked)), TotalPrize: decimal.Zero}
	prizes := make([]decimal.Decimal, len(s.ranked))
	for i, p := range s.ranked {
		v.Entries[i] = PrizeEntry{Rank: p.Rank, PlayerHandle: p.PlayerHandle, TotalUSDPrize: p.TotalUSDPrize}
		prizes[i] = p.TotalUSDPrize
		v.TotalPrize = v.TotalPrize.Add(p.TotalUSDPrize)
	}
	v.MedianPrize = aggregate.MedianDecimal(prizes)
	return v
}

// GeographyView places the scoped players on the map.
type GeographyView struct {
	Filter       Filter                       `json:"filter"`
	Metric       aggregate.CountryMetric      `json:"metric"`
	Countries    []model.CountrySummary       `json:"countries"`
	Continents   []aggregate.ContinentSummary `json:"continents"`
	TopCountries []model.CountrySummary       `json:"top_countries"`
}

// Geography summarizes the scoped players by country and continent and ranks
// countries by metric.
func (f *Facade) Geography(filter Filter, metric aggregate.CountryMetric) (GeographyView, error) {
	s := f.scoped(filter)
	countries := aggregate.AllCountries(aggregate.SummarizeByCountry(s.players, f.countryOf), f.refs)
	top, err := aggregate.TopCountries(countries, metric, f.topCountriesLimit)
	if err != nil {
		return GeographyView{}, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	return GeographyView{
		Filter:       filter,
		Metric:       metric,
		Countries:    countries,
		Continents:   aggregate.ContinentTotals(countries, f.refs),
		TopCountries: top,
	}, nil
}

// CareerStructure reports career length and activity over the scope.
func (f *Facade) CareerStructure(filter Filter) career.StructureReport {
	return career.Structure(f.scoped(filter).players, f.minCareerYears, f.minPlayersPerGameType)
}

// YearlyEarnings reports average yearly earnings over the scope.
func (f *Facade) YearlyEarnings(filter Filter) career.EarningsReport {
	return career.YearlyEarnings(f.scoped(filter).players, f.minCareerYears, f.minPlayersPerGameType)
}

// EarningsShapeView is the profile distribution of a scope.
type EarningsShapeView struct {
	Filter       Filter                     `json:"filter"`
	Distribution career.ProfileDistribution `json:"distribution"`
	ByGameType   []career.ProfileCount      `json:"by_game_type"`
}

// EarningsShape classifies the scoped players by earnings concentration.
// Players of game types with fewer than the minimum players per game type
// are left out of both the distribution and the per game type counts.
func (f *Facade) EarningsShape(filter Filter) EarningsShapeView {
	players := career.PopulousGameTypes(f.scoped(filter).players, f.minPlayersPerGameType)
	return EarningsShapeView{
		Filter:       filter,
		Distribution: career.Distribution(players),
		ByGameType:   career.CountsByProfileAndGameType(players),
	}
}

// Timeline is one player's cumulative earnings over time.
type Timeline struct {
	PlayerHandle  string              `json:"player_handle"`
	Profile       model.CareerProfile `json:"profile"`
	TotalUSDPrize decimal.Decimal     `json:"total_usd_prize"`
	Points        []model.CareerPoint `json:"points"`
	Annotation    *career.Annotation  `json:"annotation,omitempty"`
}

// CareerTimelines builds the earnings series of each handle, in the order
// given. With no handles it shows the top players by prize. A handle with no
// records fails the whole call with ErrNotFound.
func (f *Facade) CareerTimelines(handles []string) ([]Timeline, error) {
	records := f.records.All()
	players := career.Profile(aggregate.SummarizeByPlayer(records), records)

	if len(handles) == 0 {
		for _, p := range aggregate.TopN(aggregate.RankPlayers(players), f.timelineDefault) {
			handles = append(handles, p.PlayerHandle)
		}
	}

	out := make([]Timeline, 0, len(handles))
	seen := make(map[string]struct{}, len(handles))
	for _, h := range handles {
		h = strings.TrimSpace(h)
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}

		p, ok := players[h]
		if !ok {
			return nil, fmt.Errorf("%w: player %q", ErrNotFound, h)
		}
		own, err := f.records.ByPlayer(h)
		if err != nil {
			return nil, fmt.Errorf("%w: player %q: %v", ErrNotFound, h, err)
		}
		t := Timeline{
			PlayerHandle:  h,
			Profile:       p.Profile,
			TotalUSDPrize: p.TotalUSDPrize,
			Points:        career.BuildCareerSeries(own, h),
		}
		if a, ok := career.Annotate(t.Points); ok {
			t.Annotation = &a
		}
		out = append(out, t)
	}
	return out, nil
}
