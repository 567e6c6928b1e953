// Package snapshot stores raw input tables in a SQLite file so a dataset can
// be reloaded without the original CSV files. Only input rows are stored;
// every derived table is recomputed after loading.
package snapshot

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/okian/prizeboard/internal/adapters/repository"
	"github.com/okian/prizeboard/internal/adapters/source"
	"github.com/okian/prizeboard/internal/domain/model"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// ErrEmpty is returned when a snapshot holds no tournament rows.
var ErrEmpty = errors.New("snapshot is empty")

// DB wraps a sql.DB for the snapshot store.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database at path and applies the schema.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One connection keeps ":memory:" databases shared between statements.
	conn.SetMaxOpenConns(1)
	if _, err := conn.Exec(schemaSQL); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Import replaces the stored tables with t in one transaction.
func (db *DB) Import(ctx context.Context, t *source.Tables) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"tournaments", "players", "games", "countries", "meta"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := insertAll(ctx, tx,
		`INSERT INTO tournaments(line, player_handle, tournament_id, game_id, game_name, end_date, usd_prize) VALUES (?,?,?,?,?,?,?)`,
		len(t.Tournaments), func(i int) []any {
			r := t.Tournaments[i]
			return []any{r.Line, r.PlayerHandle, r.TournamentID, r.GameID, r.GameName, r.EndDate, r.USDPrize}
		}); err != nil {
		return fmt.Errorf("insert tournaments: %w", err)
	}
	if err := insertAll(ctx, tx,
		`INSERT INTO players(line, player_handle, country_code) VALUES (?,?,?)`,
		len(t.Players), func(i int) []any {
			p := t.Players[i]
			return []any{p.Line, p.PlayerHandle, p.CountryCode}
		}); err != nil {
		return fmt.Errorf("insert players: %w", err)
	}
	if err := insertAll(ctx, tx,
		`INSERT INTO games(line, game_id, game_name, game_type, total_usd_prize, total_players, total_tournaments) VALUES (?,?,?,?,?,?,?)`,
		len(t.Games), func(i int) []any {
			g := t.Games[i]
			return []any{g.Line, g.GameID, g.GameName, g.GameType, g.TotalUSDPrize, g.TotalPlayers, g.TotalTournaments}
		}); err != nil {
		return fmt.Errorf("insert games: %w", err)
	}
	if err := insertAll(ctx, tx,
		`INSERT OR REPLACE INTO countries(alpha2, alpha3, name, continent) VALUES (?,?,?,?)`,
		len(t.Countries), func(i int) []any {
			c := t.Countries[i]
			return []any{c.Alpha2, c.Alpha3, c.Name, c.Continent}
		}); err != nil {
		return fmt.Errorf("insert countries: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO meta(key, value) VALUES ('imported_at', ?)`,
		time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("write meta: %w", err)
	}
	return tx.Commit()
}

func insertAll(ctx context.Context, tx *sql.Tx, query string, n int, args func(i int) []any) error {
	if n == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the stored tables back in their original line order.
// Countries is nil when none were stored.
func (db *DB) Load(ctx context.Context) (*source.Tables, error) {
	t := &source.Tables{}

	err := queryRows(ctx, db.conn,
		`SELECT line, player_handle, tournament_id, game_id, game_name, end_date, usd_prize FROM tournaments ORDER BY line, rowid`,
		func(rows *sql.Rows) error {
			var r repository.RawRecord
			if err := rows.Scan(&r.Line, &r.PlayerHandle, &r.TournamentID, &r.GameID, &r.GameName, &r.EndDate, &r.USDPrize); err != nil {
				return err
			}
			t.Tournaments = append(t.Tournaments, r)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("load tournaments: %w", err)
	}
	if len(t.Tournaments) == 0 {
		return nil, ErrEmpty
	}

	err = queryRows(ctx, db.conn,
		`SELECT line, player_handle, country_code FROM players ORDER BY line, rowid`,
		func(rows *sql.Rows) error {
			var p repository.RawProfile
			if err := rows.Scan(&p.Line, &p.PlayerHandle, &p.CountryCode); err != nil {
				return err
			}
			t.Players = append(t.Players, p)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}

	err = queryRows(ctx, db.conn,
		`SELECT line, game_id, game_name, game_type, total_usd_prize, total_players, total_tournaments FROM games ORDER BY line, rowid`,
		func(rows *sql.Rows) error {
			var g repository.RawGame
			if err := rows.Scan(&g.Line, &g.GameID, &g.GameName, &g.GameType, &g.TotalUSDPrize, &g.TotalPlayers, &g.TotalTournaments); err != nil {
				return err
			}
			t.Games = append(t.Games, g)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("load games: %w", err)
	}

	err = queryRows(ctx, db.conn,
		`SELECT alpha2, alpha3, name, continent FROM countries ORDER BY alpha3`,
		func(rows *sql.Rows) error {
			var c model.Country
			if err := rows.Scan(&c.Alpha2, &c.Alpha3, &c.Name, &c.Continent); err != nil {
				return err
			}
			t.Countries = append(t.Countries, c)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("load countries: %w", err)
	}
	return t, nil
}

func queryRows(ctx context.Context, conn *sql.DB, query string, scan func(*sql.Rows) error) error {
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// ImportedAt returns when the snapshot was last written.
func (db *DB) ImportedAt(ctx context.Context) (time.Time, error) {
	var v string
	err := db.conn.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'imported_at'`).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrEmpty
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, v)
}

// Import writes t to the snapshot file at path.
func Import(ctx context.Context, path string, t *source.Tables) error {
	db, err := Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return db.Import(ctx, t)
}

// Load reads the snapshot file at path.
func Load(ctx context.Context, path string) (*source.Tables, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	return db.Load(ctx)
}
