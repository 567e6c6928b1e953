package career

import (
	"sort"

	"github.com/okian/prizeboard/internal/domain/model"
	"github.com/shopspring/decimal"
)

// BuildCareerSeries returns the running prize total of one player ordered by
// end date. Records on the same day are ordered by tournament key.
func BuildCareerSeries(records []model.TournamentRecord, handle string) []model.CareerPoint {
	var own []model.TournamentRecord
	for _, r := range records {
		if r.PlayerHandle == handle {
			own = append(own, r)
		}
	}
	if len(own) == 0 {
		return []model.CareerPoint{}
	}

	sort.SliceStable(own, func(i, j int) bool {
		if !own[i].EndDate.Equal(own[j].EndDate) {
			return own[i].EndDate.Before(own[j].EndDate)
		}
		if own[i].Key() != own[j].Key() {
			return own[i].Key() < own[j].Key()
		}
		return own[i].GameID < own[j].GameID
	})

	out := make([]model.CareerPoint, len(own))
	sum := decimal.Zero
	for i, r := range own {
		sum = sum.Add(r.USDPrize)
		out[i] = model.CareerPoint{
			Date:            r.EndDate,
			Prize:           r.USDPrize,
			CumulativePrize: sum,
			GameID:          r.GameID,
			GameName:        r.GameName,
			GameType:        r.GameType,
		}
	}
	return out
}

// Annotation marks the point a timeline label is attached to.
type Annotation struct {
	Index int               `json:"index"`
	Point model.CareerPoint `json:"point"`
}

// Annotate picks the midpoint of a series. It reports false for an empty series.
func Annotate(series []model.CareerPoint) (Annotation, bool) {
	if len(series) == 0 {
		return Annotation{}, false
	}
	i := int(float64(len(series)) * 0.5)
	if i >= len(series) {
		i = len(series) - 1
	}
	return Annotation{Index: i, Point: series[i]}, true
}
