package career

import (
	"sort"

	"github.com/okian/prizeboard/internal/domain/aggregate"
	"github.com/okian/prizeboard/internal/domain/model"
)

// ProfileShare is one bar of the profile distribution.
type ProfileShare struct {
	Profile model.CareerProfile `json:"profile"`
	Count   int                 `json:"count"`
	Percent float64             `json:"percent"`
}

// ProfileDistribution splits classified players across the four profiles.
// Unclassified players are counted separately and excluded from Percent.
type ProfileDistribution struct {
	Shares       []ProfileShare `json:"shares"`
	Classified   int            `json:"classified"`
	Unclassified int            `json:"unclassified"`
}

// Distribution counts players per profile.
func Distribution(players map[string]model.PlayerSummary) ProfileDistribution {
	counts := make(map[model.CareerProfile]int, len(model.Profiles))
	d := ProfileDistribution{}
	for _, p := range players {
		if p.Profile == model.Unclassified {
			d.Unclassified++
			continue
		}
		counts[p.Profile]++
		d.Classified++
	}

	d.Shares = make([]ProfileShare, 0, len(model.Profiles))
	for _, prof := range model.Profiles {
		s := ProfileShare{Profile: prof, Count: counts[prof]}
		if d.Classified > 0 {
			s.Percent = float64(s.Count) / float64(d.Classified) * 100
		}
		d.Shares = append(d.Shares, s)
	}
	return d
}

// PopulousGameTypes keeps the players whose primary game type has at least
// minPlayers players in the given set. players is not modified.
func PopulousGameTypes(players map[string]model.PlayerSummary, minPlayers int) map[string]model.PlayerSummary {
	perType := make(map[string]int)
	for _, p := range players {
		perType[p.PrimaryGameType]++
	}
	out := make(map[string]model.PlayerSummary, len(players))
	for h, p := range players {
		if perType[p.PrimaryGameType] >= minPlayers {
			out[h] = p
		}
	}
	return out
}

// ProfileCount is the number of players of one game type with one profile.
type ProfileCount struct {
	GameType string              `json:"game_type"`
	Profile  model.CareerProfile `json:"profile"`
	Count    int                 `json:"count"`
}

// CountsByProfileAndGameType groups classified players by primary game type
// and profile. Rows are ordered by game type, then profile, and include zero
// counts so every game type has all four profiles.
func CountsByProfileAndGameType(players map[string]model.PlayerSummary) []ProfileCount {
	type key struct {
		gameType string
		profile  model.CareerProfile
	}
	counts := make(map[key]int)
	types := make(map[string]struct{})
	for _, p := range players {
		if p.Profile == model.Unclassified {
			continue
		}
		counts[key{p.PrimaryGameType, p.Profile}]++
		types[p.PrimaryGameType] = struct{}{}
	}

	names := make([]string, 0, len(types))
	for t := range types {
		names = append(names, t)
	}
	sort.Strings(names)

	out := make([]ProfileCount, 0, len(names)*len(model.Profiles))
	for _, t := range names {
		for _, prof := range model.Profiles {
			out = append(out, ProfileCount{GameType: t, Profile: prof, Count: counts[key{t, prof}]})
		}
	}
	return out
}

// GameTypeStat is a per game type median and mean over the players of that type.
type GameTypeStat struct {
	GameType string  `json:"game_type"`
	Players  int     `json:"players"`
	Median   float64 `json:"median"`
	Mean     float64 `json:"mean"`
}

// StructureReport describes career length and activity of established players.
type StructureReport struct {
	Players                  int     `json:"players"`
	MedianCareerYears        float64 `json:"median_career_years"`
	MedianTournaments        float64 `json:"median_tournaments"`
	MedianTournamentsPerYear float64 `json:"median_tournaments_per_year"`
	MeanCareerYears          float64 `json:"mean_career_years"`
	MeanTournamentsPerYear   float64 `json:"mean_tournaments_per_year"`
	// ByGameType holds median tournaments per year, highest first.
	ByGameType []GameTypeStat `json:"by_game_type"`
}

// EarningsReport describes average yearly earnings of established players.
type EarningsReport struct {
	Players      int     `json:"players"`
	GlobalMedian float64 `json:"global_median"`
	GlobalMean   float64 `json:"global_mean"`
	// ByGameType holds median earnings per year, highest first.
	ByGameType []GameTypeStat `json:"by_game_type"`
	Highest    string         `json:"highest"`
	Lowest     string         `json:"lowest"`
}

// established keeps players whose career spans more than minYears and who
// have per-year rates.
func established(players map[string]model.PlayerSummary, minYears float64) []model.PlayerSummary {
	out := make([]model.PlayerSummary, 0, len(players))
	for _, p := range players {
		if p.CareerLengthYears > minYears && p.TotalTournaments > 0 && p.RatesDefined {
			out = append(out, p)
		}
	}
	return out
}

// Structure reports medians over established players and median tournaments
// per year for each game type with at least minPlayers players.
func Structure(players map[string]model.PlayerSummary, minYears float64, minPlayers int) StructureReport {
	eligible := established(players, minYears)
	years := make([]float64, len(eligible))
	tournaments := make([]float64, len(eligible))
	rates := make([]float64, len(eligible))
	for i, p := range eligible {
		years[i] = p.CareerLengthYears
		tournaments[i] = float64(p.TotalTournaments)
		rates[i] = p.TournamentsPerYear
	}

	return StructureReport{
		Players:                  len(eligible),
		MedianCareerYears:        aggregate.Median(years),
		MedianTournaments:        aggregate.Median(tournaments),
		MedianTournamentsPerYear: aggregate.Median(rates),
		MeanCareerYears:          aggregate.Mean(years),
		MeanTournamentsPerYear:   aggregate.Mean(rates),
		ByGameType: perGameType(eligible, minPlayers, func(p model.PlayerSummary) float64 {
			return p.TournamentsPerYear
		}),
	}
}

// YearlyEarnings reports median average earnings per year over established
// players, globally and for each game type with at least minPlayers players.
func YearlyEarnings(players map[string]model.PlayerSummary, minYears float64, minPlayers int) EarningsReport {
	eligible := established(players, minYears)
	all := make([]float64, len(eligible))
	for i, p := range eligible {
		all[i] = p.AvgEarningsPerYear
	}

	r := EarningsReport{
		Players:      len(eligible),
		GlobalMedian: aggregate.Median(all),
		GlobalMean:   aggregate.Mean(all),
		ByGameType: perGameType(eligible, minPlayers, func(p model.PlayerSummary) float64 {
			return p.AvgEarningsPerYear
		}),
	}
	if n := len(r.ByGameType); n > 0 {
		r.Highest = r.ByGameType[0].GameType
		r.Lowest = r.ByGameType[n-1].GameType
	}
	return r
}

func perGameType(players []model.PlayerSummary, minPlayers int, value func(model.PlayerSummary) float64) []GameTypeStat {
	groups := make(map[string][]float64)
	for _, p := range players {
		groups[p.PrimaryGameType] = append(groups[p.PrimaryGameType], value(p))
	}

	out := make([]GameTypeStat, 0, len(groups))
	for t, xs := range groups {
		if len(xs) < minPlayers {
			continue
		}
		out = append(out, GameTypeStat{GameType: t, Players: len(xs), Median: aggregate.Median(xs), Mean: aggregate.Mean(xs)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Median != out[j].Median {
			return out[i].Median > out[j].Median
		}
		return out[i].GameType < out[j].GameType
	})
	return out
}
