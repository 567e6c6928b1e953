package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/prizeboard/internal/domain/aggregate"
	"github.com/okian/prizeboard/internal/domain/model"
	"github.com/okian/prizeboard/internal/domain/reference"
)

// Scope caps the player set after ranking by total prize. The zero value
// keeps every player.
type Scope struct {
	N int
}

// Preset scopes.
var (
	ScopeAll     = Scope{}
	ScopeTop1000 = Scope{N: 1000}
	ScopeTop5000 = Scope{N: 5000}
)

// ParseScope accepts "All", "" or "Top<N>" with N > 0.
func ParseScope(s string) (Scope, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return ScopeAll, nil
	}
	if len(s) > 3 && strings.EqualFold(s[:3], "top") {
		n, err := strconv.Atoi(s[3:])
		if err == nil && n > 0 {
			return Scope{N: n}, nil
		}
	}
	return Scope{}, fmt.Errorf("%w: scope %q", ErrInvalidFilter, s)
}

func (s Scope) String() string {
	if s.N <= 0 {
		return "All"
	}
	return "Top" + strconv.Itoa(s.N)
}

// MarshalText renders the scope the way ParseScope reads it.
func (s Scope) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (s *Scope) UnmarshalText(b []byte) error {
	parsed, err := ParseScope(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Metric selects the column that orders a player table.
type Metric string

// Player table metrics.
const (
	MetricTotalPrize         Metric = "total_prize"
	MetricTournaments        Metric = "tournaments"
	MetricCareerLength       Metric = "career_length"
	MetricTournamentsPerYear Metric = "tournaments_per_year"
	MetricAvgEarningsPerYear Metric = "avg_earnings_per_year"
	MetricTop10Ratio         Metric = "top10_ratio"
)

// Metrics lists the supported metrics.
var Metrics = []Metric{
	MetricTotalPrize,
	MetricTournaments,
	MetricCareerLength,
	MetricTournamentsPerYear,
	MetricAvgEarningsPerYear,
	MetricTop10Ratio,
}

// ParseMetric validates a metric name. Empty selects MetricTotalPrize.
func ParseMetric(s string) (Metric, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return MetricTotalPrize, nil
	}
	for _, m := range Metrics {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: metric %q", ErrInvalidFilter, s)
}

// Filter selects the slice of data a query works on.
type Filter struct {
	GameType string `json:"game_type"`
	Scope    Scope  `json:"scope"`
	Metric   Metric `json:"metric"`
}

// DefaultFilter covers every game type and player, ordered by prize.
func DefaultFilter() Filter {
	return Filter{GameType: aggregate.AllGameTypes, Scope: ScopeAll, Metric: MetricTotalPrize}
}

// ParseFilter validates raw filter values. The game type must be "All" (or
// empty), a type known to refs, or model.Unknown.
func ParseFilter(refs *reference.Tables, gameType, scope, metric string) (Filter, error) {
	f := DefaultFilter()

	gameType = strings.TrimSpace(gameType)
	if gameType != "" && !strings.EqualFold(gameType, aggregate.AllGameTypes) {
		known := gameType == model.Unknown || (refs != nil && refs.HasGameType(gameType))
		if !known {
			return Filter{}, fmt.Errorf("%w: game type %q", ErrInvalidFilter, gameType)
		}
		f.GameType = gameType
	}

	var err error
	if f.Scope, err = ParseScope(scope); err != nil {
		return Filter{}, err
	}
	if f.Metric, err = ParseMetric(metric); err != nil {
		return Filter{}, err
	}
	return f, nil
}

// Key is a canonical string for the filter, equal for equal filters.
func (f Filter) Key() string {
	return f.GameType + "/" + f.Scope.String() + "/" + string(f.Metric)
}

func (f Filter) allGameTypes() bool {
	return f.GameType == "" || f.GameType == aggregate.AllGameTypes
}
