// Package source reads and writes the CSV input tables.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/okian/prizeboard/internal/adapters/repository"
	"github.com/okian/prizeboard/internal/domain/model"
	"github.com/okian/prizeboard/internal/domain/reference"
)

// eachRow maps the header and calls fn for every data row with its 1-based
// line number. Rows that cannot be split into cells stop the read.
func eachRow(table string, r io.Reader, columns []column, fn func(line int, m mapping, row []string)) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("%w: %s header: %v", ErrRead, table, err)
	}
	m, err := mapHeader(table, header, columns)
	if err != nil {
		return err
	}

	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %s line %d: %v", ErrRead, table, line, err)
		}
		fn(line, m, row)
	}
}

// ReadTournaments reads tournament rows from r.
func ReadTournaments(r io.Reader) ([]repository.RawRecord, error) {
	var out []repository.RawRecord
	err := eachRow(repository.TableTournaments, r, tournamentColumns, func(line int, m mapping, row []string) {
		out = append(out, repository.RawRecord{
			Line:         line,
			PlayerHandle: m.get(row, "player_handle"),
			TournamentID: m.get(row, "tournament_id"),
			GameID:       m.get(row, "game_id"),
			GameName:     m.get(row, "game_name"),
			EndDate:      m.get(row, "end_date"),
			USDPrize:     m.get(row, "usd_prize"),
		})
	})
	return out, err
}

// ReadPlayers reads player profile rows from r.
func ReadPlayers(r io.Reader) ([]repository.RawProfile, error) {
	var out []repository.RawProfile
	err := eachRow(repository.TablePlayers, r, playerColumns, func(line int, m mapping, row []string) {
		out = append(out, repository.RawProfile{
			Line:         line,
			PlayerHandle: m.get(row, "player_handle"),
			CountryCode:  m.get(row, "country_code"),
		})
	})
	return out, err
}

// ReadGames reads game metadata rows from r.
func ReadGames(r io.Reader) ([]repository.RawGame, error) {
	var out []repository.RawGame
	err := eachRow(repository.TableGames, r, gameColumns, func(line int, m mapping, row []string) {
		out = append(out, repository.RawGame{
			Line:             line,
			GameID:           m.get(row, "game_id"),
			GameName:         m.get(row, "game_name"),
			GameType:         m.get(row, "game_type"),
			TotalUSDPrize:    m.get(row, "total_usd_prize"),
			TotalPlayers:     m.get(row, "total_players"),
			TotalTournaments: m.get(row, "total_tournaments"),
		})
	})
	return out, err
}

// Files names the four input tables. An empty Countries path selects the
// embedded country table.
type Files struct {
	Tournaments string
	Players     string
	Games       string
	Countries   string
}

// Tables holds the raw rows of every input table.
type Tables struct {
	Tournaments []repository.RawRecord
	Players     []repository.RawProfile
	Games       []repository.RawGame
	// Countries is nil when the embedded table should be used.
	Countries []model.Country
}

// ReadFiles reads every table named in f. Players and Games may be empty
// paths, which yield no rows.
func ReadFiles(f Files) (*Tables, error) {
	t := &Tables{}
	var err error
	if t.Tournaments, err = readPath(f.Tournaments, ReadTournaments); err != nil {
		return nil, err
	}
	if f.Players != "" {
		if t.Players, err = readPath(f.Players, ReadPlayers); err != nil {
			return nil, err
		}
	}
	if f.Games != "" {
		if t.Games, err = readPath(f.Games, ReadGames); err != nil {
			return nil, err
		}
	}
	if f.Countries != "" {
		if t.Countries, err = readPath(f.Countries, reference.ParseCountries); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func readPath[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T
	file, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrRead, err)
	}
	defer func() { _ = file.Close() }()

	out, err := read(file)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}
