package source

import (
	"fmt"
	"strings"
	"unicode"
)

// column lists the header names accepted for one field, already normalized.
type column struct {
	field    string
	aliases  []string
	required bool
}

var tournamentColumns = []column{
	{field: "player_handle", aliases: []string{"playerhandle", "currenthandle", "handle", "player"}, required: true},
	{field: "tournament_id", aliases: []string{"tournamentid", "tournament"}},
	{field: "game_id", aliases: []string{"gameid", "game"}, required: true},
	{field: "game_name", aliases: []string{"gamename"}},
	{field: "end_date", aliases: []string{"enddate", "date"}, required: true},
	{field: "usd_prize", aliases: []string{"usdprize", "usdprizeperplayer", "prize", "prizeusd"}, required: true},
}

var playerColumns = []column{
	{field: "player_handle", aliases: []string{"playerhandle", "currenthandle", "handle", "player"}, required: true},
	{field: "country_code", aliases: []string{"countrycode", "country"}, required: true},
}

var gameColumns = []column{
	{field: "game_id", aliases: []string{"gameid", "game"}, required: true},
	{field: "game_name", aliases: []string{"gamename", "name"}},
	{field: "game_type", aliases: []string{"gametype", "genre", "type"}},
	{field: "total_usd_prize", aliases: []string{"totalusdprize", "totalprize"}},
	{field: "total_players", aliases: []string{"totalplayers", "players"}},
	{field: "total_tournaments", aliases: []string{"totaltournaments", "tournaments"}},
}

// mapping resolves a field name to its index in a row.
type mapping map[string]int

// mapHeader matches header cells to columns by normalized name. The first
// alias found wins for each field.
func mapHeader(table string, header []string, columns []column) (mapping, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		n := normalize(h)
		if _, dup := pos[n]; !dup {
			pos[n] = i
		}
	}

	m := make(mapping, len(columns))
	for _, c := range columns {
		for _, a := range c.aliases {
			if i, ok := pos[a]; ok {
				m[c.field] = i
				break
			}
		}
		if _, ok := m[c.field]; !ok && c.required {
			return nil, fmt.Errorf("%w: %s needs %s", ErrMissingColumn, table, c.field)
		}
	}
	return m, nil
}

func (m mapping) get(row []string, field string) string {
	i, ok := m[field]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func normalize(h string) string {
	var b strings.Builder
	for _, r := range strings.TrimPrefix(h, "\ufeff") {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
