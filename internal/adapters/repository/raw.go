package repository

// RawRecord is one tournament row as read from a source, before validation.
// Line is the 1-based line number in the source, header included.
type RawRecord struct {
	Line         int
	PlayerHandle string
	TournamentID string
	GameID       string
	GameName     string
	EndDate      string
	USDPrize     string
}

// RawProfile is one player profile row before validation.
type RawProfile struct {
	Line         int
	PlayerHandle string
	CountryCode  string
}

// RawGame is one game metadata row before validation.
type RawGame struct {
	Line             int
	GameID           string
	GameName         string
	GameType         string
	TotalUSDPrize    string
	TotalPlayers     string
	TotalTournaments string
}
