// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unknown labels the bucket for foreign keys with no reference match.
const Unknown = "Unknown"

// DateLayout is the calendar date format used in input files and output tables.
const DateLayout = "2006-01-02"

// TournamentRecord is one player's prize result from one tournament.
// Records are never mutated after load.
type TournamentRecord struct {
	PlayerHandle string          `json:"player_handle"`
	TournamentID string          `json:"tournament_id,omitempty"` // optional; see Key
	GameID       string          `json:"game_id"`
	GameName     string          `json:"game_name,omitempty"`
	GameType     string          `json:"game_type"` // joined from the game reference, Unknown when unmapped
	EndDate      time.Time       `json:"end_date"`
	USDPrize     decimal.Decimal `json:"usd_prize"`
}

// Key identifies the tournament a record belongs to. Inputs without a
// tournament id fall back to game id plus end date.
func (r TournamentRecord) Key() string {
	if r.TournamentID != "" {
		return r.TournamentID
	}
	return r.GameID + "|" + r.EndDate.Format(DateLayout)
}

// PlayerProfile maps a handle to the country declared on the player's profile.
type PlayerProfile struct {
	PlayerHandle string `json:"player_handle"`
	CountryCode  string `json:"country_code"` // ISO alpha-2 or alpha-3, may be empty
}

// Game is a row of game metadata. Absent numeric values are zero.
type Game struct {
	GameID           string          `json:"game_id"`
	GameName         string          `json:"game_name"`
	GameType         string          `json:"game_type"`
	TotalUSDPrize    decimal.Decimal `json:"total_usd_prize"`
	TotalPlayers     int             `json:"total_players"`
	TotalTournaments int             `json:"total_tournaments"`
}

// Country is a row of the ISO-3166 reference table.
type Country struct {
	Alpha2    string `json:"alpha2"`
	Alpha3    string `json:"alpha3"`
	Name      string `json:"name"`
	Continent string `json:"continent"`
}
