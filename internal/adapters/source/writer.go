package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/okian/prizeboard/internal/domain/model"
)

// WriteTournaments writes records with the header ReadTournaments expects.
func WriteTournaments(w io.Writer, records []model.TournamentRecord) error {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, []string{"player_handle", "tournament_id", "game_id", "game_name", "end_date", "usd_prize"})
	for _, r := range records {
		rows = append(rows, []string{
			r.PlayerHandle,
			r.TournamentID,
			r.GameID,
			r.GameName,
			r.EndDate.Format(model.DateLayout),
			r.USDPrize.StringFixed(2),
		})
	}
	return writeAll(w, rows)
}

// WritePlayers writes player profiles.
func WritePlayers(w io.Writer, profiles []model.PlayerProfile) error {
	rows := make([][]string, 0, len(profiles)+1)
	rows = append(rows, []string{"player_handle", "country_code"})
	for _, p := range profiles {
		rows = append(rows, []string{p.PlayerHandle, p.CountryCode})
	}
	return writeAll(w, rows)
}

// WriteGames writes game metadata.
func WriteGames(w io.Writer, games []model.Game) error {
	rows := make([][]string, 0, len(games)+1)
	rows = append(rows, []string{"game_id", "game_name", "game_type", "total_usd_prize", "total_players", "total_tournaments"})
	for _, g := range games {
		rows = append(rows, []string{
			g.GameID,
			g.GameName,
			g.GameType,
			g.TotalUSDPrize.StringFixed(2),
			strconv.Itoa(g.TotalPlayers),
			strconv.Itoa(g.TotalTournaments),
		})
	}
	return writeAll(w, rows)
}

func writeAll(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
