package aggregate

import (
	"fmt"
	"sort"

	"github.com/okian/prizeboard/internal/domain/model"
	"github.com/okian/prizeboard/internal/domain/reference"
	"github.com/shopspring/decimal"
)

// CountryMetric selects the column TopCountries ranks by.
type CountryMetric string

// Country ranking metrics.
const (
	ByPlayerCount CountryMetric = "player_count"
	ByTotalPrize  CountryMetric = "total_prize"
)

// ParseCountryMetric validates a metric name. Empty selects ByPlayerCount.
func ParseCountryMetric(s string) (CountryMetric, error) {
	switch CountryMetric(s) {
	case "", ByPlayerCount:
		return ByPlayerCount, nil
	case ByTotalPrize:
		return ByTotalPrize, nil
	}
	return "", fmt.Errorf("%w: country metric %q", ErrUnknownMetric, s)
}

// SummarizeByCountry groups players by the country their handle resolves to.
// Unresolved players land in the model.Unknown bucket, so PlayerCount over
// all buckets equals len(players).
func SummarizeByCountry(players map[string]model.PlayerSummary, countryOf CountryFunc) map[string]model.CountrySummary {
	out := make(map[string]model.CountrySummary)
	for handle := range players {
		c := reference.UnknownCountry()
		if countryOf != nil {
			c = countryOf(handle)
		}
		cs, ok := out[c.Alpha3]
		if !ok {
			cs = model.CountrySummary{
				Code:       c.Alpha3,
				Name:       c.Name,
				Continent:  c.Continent,
				TotalPrize: decimal.Zero,
			}
		}
		cs.PlayerCount++
		cs.TotalPrize = cs.TotalPrize.Add(players[handle].TotalUSDPrize)
		out[c.Alpha3] = cs
	}
	for code, cs := range out {
		cs.AvgPrize = cs.TotalPrize.Div(decimal.NewFromInt(int64(cs.PlayerCount)))
		out[code] = cs
	}
	return out
}

// AllCountries lists every reference country, zero-filled where no player
// maps to it, ordered by code, followed by the Unknown bucket.
func AllCountries(summaries map[string]model.CountrySummary, refs *reference.Tables) []model.CountrySummary {
	countries := refs.Countries()
	out := make([]model.CountrySummary, 0, len(countries)+1)
	for _, c := range countries {
		cs, ok := summaries[c.Alpha3]
		if !ok {
			cs = model.CountrySummary{
				Code:       c.Alpha3,
				Name:       c.Name,
				Continent:  c.Continent,
				TotalPrize: decimal.Zero,
				AvgPrize:   decimal.Zero,
			}
		}
		out = append(out, cs)
	}

	unknown, ok := summaries[model.Unknown]
	if !ok {
		u := reference.UnknownCountry()
		unknown = model.CountrySummary{
			Code:       u.Alpha3,
			Name:       u.Name,
			Continent:  u.Continent,
			TotalPrize: decimal.Zero,
			AvgPrize:   decimal.Zero,
		}
	}
	return append(out, unknown)
}

// ContinentSummary totals the countries of one continent.
type ContinentSummary struct {
	Continent   string          `json:"continent"`
	PlayerCount int             `json:"player_count"`
	TotalPrize  decimal.Decimal `json:"total_prize"`
	AvgPrize    decimal.Decimal `json:"avg_prize"`
}

// ContinentTotals sums countries per continent, in display order, with a
// trailing Unknown entry for everything else.
func ContinentTotals(countries []model.CountrySummary, refs *reference.Tables) []ContinentSummary {
	order := append(refs.Continents(), model.Unknown)
	idx := make(map[string]int, len(order))
	out := make([]ContinentSummary, len(order))
	for i, name := range order {
		idx[name] = i
		out[i] = ContinentSummary{Continent: name, TotalPrize: decimal.Zero, AvgPrize: decimal.Zero}
	}

	for _, c := range countries {
		i, ok := idx[c.Continent]
		if !ok {
			i = idx[model.Unknown]
		}
		out[i].PlayerCount += c.PlayerCount
		out[i].TotalPrize = out[i].TotalPrize.Add(c.TotalPrize)
	}
	for i := range out {
		if out[i].PlayerCount > 0 {
			out[i].AvgPrize = out[i].TotalPrize.Div(decimal.NewFromInt(int64(out[i].PlayerCount)))
		}
	}
	return out
}

// TopCountries returns the n resolved countries with the highest metric,
// ties broken by code. Countries with no players and the Unknown bucket are
// skipped.
func TopCountries(countries []model.CountrySummary, metric CountryMetric, n int) ([]model.CountrySummary, error) {
	var less func(a, b model.CountrySummary) int
	switch metric {
	case ByPlayerCount:
		less = func(a, b model.CountrySummary) int { return b.PlayerCount - a.PlayerCount }
	case ByTotalPrize:
		less = func(a, b model.CountrySummary) int { return b.TotalPrize.Cmp(a.TotalPrize) }
	default:
		return nil, fmt.Errorf("%w: country metric %q", ErrUnknownMetric, metric)
	}

	out := make([]model.CountrySummary, 0, len(countries))
	for _, c := range countries {
		if c.Code == model.Unknown || c.PlayerCount == 0 {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := less(out[i], out[j]); c != 0 {
			return c < 0
		}
		return out[i].Code < out[j].Code
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out, nil
}
