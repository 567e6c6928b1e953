// Package query is the read interface over the prize dataset. A Facade is a
// pure function of its records, profiles and reference tables: every call
// recomputes its result from those inputs.
package query

import (
	"sort"

	"github.com/okian/prizeboard/internal/domain/aggregate"
	"github.com/okian/prizeboard/internal/domain/career"
	"github.com/okian/prizeboard/internal/domain/model"
	"github.com/okian/prizeboard/internal/domain/reference"
	"github.com/shopspring/decimal"
)

// Records is the source of tournament records.
type Records interface {
	All() []model.TournamentRecord
	ByPlayer(handle string) ([]model.TournamentRecord, error)
	ByGameType(gameType string) []model.TournamentRecord
}

// Facade answers filtered queries over an immutable dataset.
type Facade struct {
	records  Records
	refs     *reference.Tables
	profiles map[string]string

	minCareerYears        float64
	minPlayersPerGameType int
	topGamesLimit         int
	topCountriesLimit     int
	timelineDefault       int
}

// New returns a Facade over records joined with player profiles and refs.
// When a handle has more than one profile the last one wins.
func New(records Records, profiles []model.PlayerProfile, refs *reference.Tables, opts ...Option) *Facade {
	f := &Facade{
		records:               records,
		refs:                  refs,
		profiles:              make(map[string]string, len(profiles)),
		minCareerYears:        0.25,
		minPlayersPerGameType: 10,
		topGamesLimit:         15,
		topCountriesLimit:     10,
		timelineDefault:       5,
	}
	for _, opt := range opts {
		opt(f)
	}
	for _, p := range profiles {
		f.profiles[p.PlayerHandle] = p.CountryCode
	}
	return f
}

// References returns the reference tables the facade joins against.
func (f *Facade) References() *reference.Tables {
	return f.refs
}

// countryOf resolves a player's profile country through the reference table.
func (f *Facade) countryOf(handle string) model.Country {
	c, _ := f.refs.CountryOf(f.profiles[handle])
	return c
}

// slice holds everything derived for one filter.
type slice struct {
	records []model.TournamentRecord
	ranked  []aggregate.RankedPlayer
	players map[string]model.PlayerSummary
}

// scoped filters records by game type, summarizes and profiles the players,
// ranks them by prize and keeps the scope.
func (f *Facade) scoped(filter Filter) slice {
	records := f.records.All()
	if !filter.allGameTypes() {
		records = f.records.ByGameType(filter.GameType)
	}

	players := aggregate.SummarizeByPlayer(records, aggregate.WithCountryOf(f.countryOf))
	players = career.Profile(players, records)
	ranked := aggregate.TopN(aggregate.RankPlayers(players), filter.Scope.N)

	kept := make(map[string]model.PlayerSummary, len(ranked))
	for _, p := range ranked {
		kept[p.PlayerHandle] = p.PlayerSummary
	}
	return slice{records: records, ranked: ranked, players: kept}
}

// PlayerRow is one row of a PlayerTable.
type PlayerRow struct {
	aggregate.RankedPlayer
	MetricValue   float64 `json:"metric_value"`
	MetricDefined bool    `json:"metric_defined"`
}

// PlayerTable is the ranked, scoped player list for a filter.
type PlayerTable struct {
	Filter      Filter          `json:"filter"`
	Rows        []PlayerRow     `json:"rows"`
	PlayerCount int             `json:"player_count"`
	TotalPrize  decimal.Decimal `json:"total_prize"`
	MedianPrize decimal.Decimal `json:"median_prize"`
}

// Query ranks players by total prize, keeps the filter's scope and orders the
// rows by the filter's metric, highest first. Rows whose metric is undefined
// go last; ties keep prize rank order.
func (f *Facade) Query(filter Filter) PlayerTable {
	s := f.scoped(filter)

	rows := make([]PlayerRow, len(s.ranked))
	prizes := make([]decimal.Decimal, len(s.ranked))
	total := decimal.Zero
	for i, p := range s.ranked {
		v, ok := metricValue(p.PlayerSummary, filter.Metric)
		rows[i] = PlayerRow{RankedPlayer: p, MetricValue: v, MetricDefined: ok}
		prizes[i] = p.TotalUSDPrize
		total = total.Add(p.TotalUSDPrize)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.MetricDefined != b.MetricDefined {
			return a.MetricDefined
		}
		if a.MetricValue != b.MetricValue {
			return a.MetricValue > b.MetricValue
		}
		return a.Rank < b.Rank
	})

	return PlayerTable{
		Filter:      filter,
		Rows:        rows,
		PlayerCount: len(rows),
		TotalPrize:  total,
		MedianPrize: aggregate.MedianDecimal(prizes),
	}
}

func metricValue(p model.PlayerSummary, m Metric) (float64, bool) {
	switch m {
	case MetricTournaments:
		return float64(p.TotalTournaments), true
	case MetricCareerLength:
		if p.CareerLengthYears == model.SingleEventCareer {
			return 0, false
		}
		return p.CareerLengthYears, true
	case MetricTournamentsPerYear:
		return p.TournamentsPerYear, p.RatesDefined
	case MetricAvgEarningsPerYear:
		return p.AvgEarningsPerYear, p.RatesDefined
	case MetricTop10Ratio:
		return p.Top10PctEarningsRatio, p.Profile != model.Unclassified
	default:
		return p.TotalUSDPrize.InexactFloat64(), true
	}
}
