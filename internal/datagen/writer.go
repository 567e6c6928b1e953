package datagen

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/okian/prizeboard/internal/adapters/source"
)

const (
	directoryPermission = 0o750
	filePermission      = 0o640
)

// Files returns where WriteDir puts each table.
func Files(dir string) source.Files {
	return source.Files{
		Tournaments: filepath.Join(dir, "tournaments.csv"),
		Players:     filepath.Join(dir, "players.csv"),
		Games:       filepath.Join(dir, "games.csv"),
	}
}

// WriteDir writes the dataset as three CSV files under dir.
func WriteDir(dir string, ds *Dataset) (source.Files, error) {
	if err := os.MkdirAll(dir, directoryPermission); err != nil {
		return source.Files{}, fmt.Errorf("create %s: %w", dir, err)
	}
	files := Files(dir)

	steps := []struct {
		path  string
		write func(io.Writer) error
	}{
		{files.Games, func(w io.Writer) error { return source.WriteGames(w, ds.Games) }},
		{files.Players, func(w io.Writer) error { return source.WritePlayers(w, ds.Players) }},
		{files.Tournaments, func(w io.Writer) error { return source.WriteTournaments(w, ds.Records) }},
	}
	for _, s := range steps {
		if err := writeFile(s.path, s.write); err != nil {
			return source.Files{}, err
		}
	}
	return files, nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
