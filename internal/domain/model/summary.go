package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SingleEventCareer is the CareerLengthYears sentinel for a player with one record.
const SingleEventCareer = -1.0

// PlayerSummary holds per-player statistics derived from all of a player's
// records. It is recomputed wholesale, never updated in place.
type PlayerSummary struct {
	PlayerHandle     string          `json:"player_handle"`
	Country          string          `json:"country"` // ISO alpha-3 or Unknown
	PrimaryGameType  string          `json:"primary_game_type"`
	TotalUSDPrize    decimal.Decimal `json:"total_usd_prize"`
	TotalTournaments int             `json:"total_tournaments"`
	FirstEnd         time.Time       `json:"first_end"`
	LastEnd          time.Time       `json:"last_end"`

	// CareerLengthYears is SingleEventCareer when TotalTournaments == 1.
	CareerLengthYears float64 `json:"career_length_years"`

	// RatesDefined is false when the career spans (almost) no time; the two
	// per-year rates are zero and must not be used in that case.
	RatesDefined       bool    `json:"rates_defined"`
	TournamentsPerYear float64 `json:"tournaments_per_year"`
	AvgEarningsPerYear float64 `json:"avg_earnings_per_year"`

	// Top10PctEarningsRatio is meaningful only when Profile != Unclassified.
	Top10PctEarningsRatio float64       `json:"top10_pct_earnings_ratio"`
	Profile               CareerProfile `json:"profile"`
}

// CountrySummary aggregates players by the country on their profile.
type CountrySummary struct {
	Code        string          `json:"code"` // ISO alpha-3 or Unknown
	Name        string          `json:"name"`
	Continent   string          `json:"continent"`
	PlayerCount int             `json:"player_count"`
	TotalPrize  decimal.Decimal `json:"total_prize"`
	AvgPrize    decimal.Decimal `json:"avg_prize"`
}

// GameSummary aggregates prize data for one game. Every field defaults to zero.
type GameSummary struct {
	GameID           string          `json:"game_id"`
	GameName         string          `json:"game_name"`
	GameType         string          `json:"game_type"`
	TotalUSDPrize    decimal.Decimal `json:"total_usd_prize"`
	TotalPlayers     int             `json:"total_players"`
	TotalTournaments int             `json:"total_tournaments"`
	// Source is GameTotalsFromMetadata or GameTotalsFromRecords.
	Source string `json:"source"`
}

// Origins of GameSummary totals.
const (
	GameTotalsFromMetadata = "metadata"
	GameTotalsFromRecords  = "records"
)

// CareerPoint is one step of a player's cumulative earnings series.
type CareerPoint struct {
	Date            time.Time       `json:"date"`
	Prize           decimal.Decimal `json:"prize"`
	CumulativePrize decimal.Decimal `json:"cumulative_prize"`
	GameID          string          `json:"game_id"`
	GameName        string          `json:"game_name,omitempty"`
	GameType        string          `json:"game_type"`
}
