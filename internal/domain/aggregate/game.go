package aggregate

import (
	"sort"

	"github.com/okian/prizeboard/internal/domain/model"
	"github.com/okian/prizeboard/internal/domain/reference"
	"github.com/shopspring/decimal"
)

// AllGameTypes is the filter value that matches every game type.
const AllGameTypes = "All"

// SummarizeByGame totals prize, distinct players and distinct tournaments per
// game id. Every reference game appears, zero-filled when it has no records.
// Games seen only in records keep the name carried on the record.
func SummarizeByGame(records []model.TournamentRecord, refs *reference.Tables) map[string]model.GameSummary {
	out := make(map[string]model.GameSummary)
	if refs != nil {
		for _, g := range refs.Games() {
			out[g.GameID] = model.GameSummary{
				GameID:        g.GameID,
				GameName:      g.GameName,
				GameType:      g.GameType,
				TotalUSDPrize: decimal.Zero,
				Source:        model.GameTotalsFromRecords,
			}
		}
	}

	players := make(map[string]map[string]struct{})
	tournaments := make(map[string]map[string]struct{})
	for _, r := range records {
		gs, ok := out[r.GameID]
		if !ok {
			gs = model.GameSummary{
				GameID:        r.GameID,
				GameName:      r.GameName,
				GameType:      r.GameType,
				TotalUSDPrize: decimal.Zero,
				Source:        model.GameTotalsFromRecords,
			}
			if gs.GameType == "" {
				gs.GameType = model.Unknown
			}
		}
		if players[r.GameID] == nil {
			players[r.GameID] = make(map[string]struct{})
			tournaments[r.GameID] = make(map[string]struct{})
		}
		gs.TotalUSDPrize = gs.TotalUSDPrize.Add(r.USDPrize)
		players[r.GameID][r.PlayerHandle] = struct{}{}
		tournaments[r.GameID][r.Key()] = struct{}{}
		gs.TotalPlayers = len(players[r.GameID])
		gs.TotalTournaments = len(tournaments[r.GameID])
		out[r.GameID] = gs
	}
	return out
}

// PreferMetadata returns games with the reference table's totals in place of
// the record-derived ones for every game whose metadata row carries a prize,
// player or tournament total. Games with blank metadata, or seen only in
// records, keep the summed totals. games is not modified.
func PreferMetadata(games map[string]model.GameSummary, refs *reference.Tables) map[string]model.GameSummary {
	out := make(map[string]model.GameSummary, len(games))
	for id, g := range games {
		out[id] = g
	}
	if refs == nil {
		return out
	}
	for _, meta := range refs.Games() {
		if meta.TotalUSDPrize.IsZero() && meta.TotalPlayers == 0 && meta.TotalTournaments == 0 {
			continue
		}
		out[meta.GameID] = model.GameSummary{
			GameID:           meta.GameID,
			GameName:         meta.GameName,
			GameType:         meta.GameType,
			TotalUSDPrize:    meta.TotalUSDPrize,
			TotalPlayers:     meta.TotalPlayers,
			TotalTournaments: meta.TotalTournaments,
			Source:           model.GameTotalsFromMetadata,
		}
	}
	return out
}

// TopGames returns up to n games of the given type with the highest prize
// totals, ties broken by game id. gameType "" or AllGameTypes matches every
// game; n <= 0 keeps all.
func TopGames(games map[string]model.GameSummary, gameType string, n int) []model.GameSummary {
	out := make([]model.GameSummary, 0, len(games))
	for _, g := range games {
		if gameType != "" && gameType != AllGameTypes && g.GameType != gameType {
			continue
		}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalUSDPrize.Cmp(out[j].TotalUSDPrize); c != 0 {
			return c > 0
		}
		return out[i].GameID < out[j].GameID
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// SumGamePrize totals the prize of the given games.
func SumGamePrize(games []model.GameSummary) decimal.Decimal {
	total := decimal.Zero
	for _, g := range games {
		total = total.Add(g.TotalUSDPrize)
	}
	return total
}
