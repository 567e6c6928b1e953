// Package career derives the time-ordered view of a player's earnings:
// cumulative series, earnings concentration and the career profile label.
package career

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/prizeboard/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Upper-inclusive bin edges for ClassifyRatio.
const (
	steadyMax   = 0.30
	balancedMax = 0.55
	spikyMax    = 0.80
)

// Top10PctRatio returns the share of the total earned by the highest paying
// ceil(n/10) prizes. At least one prize is always counted.
func Top10PctRatio(prizes []decimal.Decimal) (float64, error) {
	n := len(prizes)
	if n == 0 {
		return 0, fmt.Errorf("%w: no prizes", ErrDivisionUndefined)
	}

	sorted := append([]decimal.Decimal(nil), prizes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].GreaterThan(sorted[j]) })

	total := decimal.Zero
	for _, p := range sorted {
		total = total.Add(p)
	}
	if total.IsZero() {
		return 0, fmt.Errorf("%w: zero total earnings", ErrDivisionUndefined)
	}

	k := (n + 9) / 10
	top := decimal.Zero
	for _, p := range sorted[:k] {
		top = top.Add(p)
	}
	return top.Div(total).InexactFloat64(), nil
}

// ClassifyRatio maps a concentration ratio to a profile.
func ClassifyRatio(r float64) model.CareerProfile {
	switch {
	case math.IsNaN(r) || r < 0:
		return model.Unclassified
	case r <= steadyMax:
		return model.Steady
	case r <= balancedMax:
		return model.Balanced
	case r <= spikyMax:
		return model.Spiky
	default:
		return model.Explosive
	}
}

// Classify labels a summary whose ratio has been computed. Players without
// earnings are Unclassified.
func Classify(p model.PlayerSummary) model.CareerProfile {
	if p.TotalTournaments == 0 || p.TotalUSDPrize.Sign() <= 0 {
		return model.Unclassified
	}
	return ClassifyRatio(p.Top10PctEarningsRatio)
}

// Profile returns a copy of players with the concentration ratio and profile
// filled in from records.
func Profile(players map[string]model.PlayerSummary, records []model.TournamentRecord) map[string]model.PlayerSummary {
	prizes := make(map[string][]decimal.Decimal, len(players))
	for _, r := range records {
		if _, ok := players[r.PlayerHandle]; ok {
			prizes[r.PlayerHandle] = append(prizes[r.PlayerHandle], r.USDPrize)
		}
	}

	out := make(map[string]model.PlayerSummary, len(players))
	for handle, p := range players {
		p.Top10PctEarningsRatio = 0
		p.Profile = model.Unclassified
		if ratio, err := Top10PctRatio(prizes[handle]); err == nil {
			p.Top10PctEarningsRatio = ratio
			p.Profile = Classify(p)
		}
		out[handle] = p
	}
	return out
}
