// Package aggregate groups prize records into per-player, per-country and
// per-game summaries. Every function builds a fresh result from its full
// input and never retains state between calls.
package aggregate

import (
	"sort"

	"github.com/okian/prizeboard/internal/domain/model"
	"github.com/shopspring/decimal"
)

const (
	daysPerYear = 365.25

	// Careers at or below this length have undefined per-year rates.
	minRateYears = 1e-9
)

// CountryFunc resolves the country declared on a player's profile.
type CountryFunc func(handle string) model.Country

// PlayerOption configures SummarizeByPlayer.
type PlayerOption func(*playerConfig)

type playerConfig struct {
	countryOf CountryFunc
}

// WithCountryOf sets how player handles map to countries. Without it every
// player is placed in the Unknown country.
func WithCountryOf(fn CountryFunc) PlayerOption {
	return func(c *playerConfig) {
		c.countryOf = fn
	}
}

type playerAcc struct {
	summary model.PlayerSummary
	byType  map[string]decimal.Decimal
}

// SummarizeByPlayer computes one PlayerSummary per handle that has at least
// one record. Profile fields are left for the career package to fill.
func SummarizeByPlayer(records []model.TournamentRecord, opts ...PlayerOption) map[string]model.PlayerSummary {
	cfg := playerConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	accs := make(map[string]*playerAcc)
	for _, r := range records {
		acc, ok := accs[r.PlayerHandle]
		if !ok {
			acc = &playerAcc{
				summary: model.PlayerSummary{
					PlayerHandle:  r.PlayerHandle,
					TotalUSDPrize: decimal.Zero,
					FirstEnd:      r.EndDate,
					LastEnd:       r.EndDate,
				},
				byType: make(map[string]decimal.Decimal),
			}
			accs[r.PlayerHandle] = acc
		}
		s := &acc.summary
		s.TotalUSDPrize = s.TotalUSDPrize.Add(r.USDPrize)
		s.TotalTournaments++
		if r.EndDate.Before(s.FirstEnd) {
			s.FirstEnd = r.EndDate
		}
		if r.EndDate.After(s.LastEnd) {
			s.LastEnd = r.EndDate
		}
		acc.byType[r.GameType] = acc.byType[r.GameType].Add(r.USDPrize)
	}

	out := make(map[string]model.PlayerSummary, len(accs))
	for handle, acc := range accs {
		s := acc.summary
		s.PrimaryGameType = primaryType(acc.byType)
		s.Country = model.Unknown
		if cfg.countryOf != nil {
			s.Country = cfg.countryOf(handle).Alpha3
		}
		fillCareer(&s)
		out[handle] = s
	}
	return out
}

func fillCareer(s *model.PlayerSummary) {
	if s.TotalTournaments == 1 {
		s.CareerLengthYears = model.SingleEventCareer
		return
	}
	s.CareerLengthYears = s.LastEnd.Sub(s.FirstEnd).Hours() / 24 / daysPerYear
	if s.CareerLengthYears <= minRateYears {
		return
	}
	s.RatesDefined = true
	s.TournamentsPerYear = float64(s.TotalTournaments) / s.CareerLengthYears
	s.AvgEarningsPerYear = s.TotalUSDPrize.InexactFloat64() / s.CareerLengthYears
}

// primaryType picks the game type with the largest share of earnings,
// breaking ties by name.
func primaryType(byType map[string]decimal.Decimal) string {
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)

	best := ""
	for _, t := range types {
		if best == "" || byType[t].GreaterThan(byType[best]) {
			best = t
		}
	}
	return best
}

// RankedPlayer is a PlayerSummary with its position in the prize ranking.
type RankedPlayer struct {
	Rank int `json:"rank"`
	model.PlayerSummary
}

// RankPlayers orders players by total prize descending, then handle
// ascending, and numbers them 1..N.
func RankPlayers(players map[string]model.PlayerSummary) []RankedPlayer {
	out := make([]RankedPlayer, 0, len(players))
	for _, p := range players {
		out = append(out, RankedPlayer{PlayerSummary: p})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalUSDPrize.Cmp(out[j].TotalUSDPrize); c != 0 {
			return c > 0
		}
		return out[i].PlayerHandle < out[j].PlayerHandle
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// TopN returns the first n ranked players. n <= 0 keeps all of them.
func TopN(ranked []RankedPlayer, n int) []RankedPlayer {
	if n <= 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}

// CountByGameType counts records per game type. Unmapped games are counted
// under model.Unknown, so the counts always sum to len(records).
func CountByGameType(records []model.TournamentRecord) map[string]int {
	out := make(map[string]int)
	for _, r := range records {
		gt := r.GameType
		if gt == "" {
			gt = model.Unknown
		}
		out[gt]++
	}
	return out
}
