package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/prizeboard/internal/adapters/repository"
	"github.com/okian/prizeboard/internal/adapters/snapshot"
	"github.com/okian/prizeboard/internal/adapters/source"
	"github.com/okian/prizeboard/internal/domain/model"
	"github.com/okian/prizeboard/internal/domain/query"
	"github.com/okian/prizeboard/internal/domain/reference"
	"github.com/okian/prizeboard/pkg/logger"
	"github.com/okian/prizeboard/pkg/metrics"
)

// Dataset is one immutable load of the input tables. A reload builds a new
// Dataset; an existing one is never modified.
type Dataset struct {
	Store    *repository.RecordStore
	Profiles []model.PlayerProfile
	Refs     *reference.Tables
	Facade   *query.Facade

	// Reports holds the load report of each table, keyed by table name.
	Reports  map[string]repository.LoadReport
	Source   string
	LoadedAt time.Time
}

// Report merges the per-table load reports.
func (d *Dataset) Report() repository.LoadReport {
	var r repository.LoadReport
	for _, table := range []string{repository.TableGames, repository.TablePlayers, repository.TableTournaments} {
		r.Merge(d.Reports[table])
	}
	return r
}

// BuildDataset validates raw tables and wires them into a Facade.
func BuildDataset(ctx context.Context, t *source.Tables, log logger.Logger, opts ...query.Option) (*Dataset, error) {
	if log == nil {
		log = logger.Nop()
	}
	start := time.Now()

	games, gameReport := repository.ParseGames(ctx, t.Games, log)
	refs, err := reference.New(games, t.Countries)
	if err != nil {
		return nil, fmt.Errorf("build reference tables: %w", err)
	}

	loader := repository.NewLoader(refs, repository.WithLogger(log))
	store, recordReport := loader.LoadRecords(ctx, t.Tournaments)
	profiles, profileReport := loader.LoadProfiles(ctx, t.Players)

	d := &Dataset{
		Store:    store,
		Profiles: profiles,
		Refs:     refs,
		Facade:   query.New(store, profiles, refs, opts...),
		Reports: map[string]repository.LoadReport{
			repository.TableGames:       gameReport,
			repository.TablePlayers:     profileReport,
			repository.TableTournaments: recordReport,
		},
		LoadedAt: time.Now().UTC(),
	}

	metrics.UpdateDatasetSize(store.Len(), len(store.Players()))
	metrics.RecordDatasetLoad(float64(time.Since(start).Milliseconds()), d.LoadedAt.Unix())
	return d, nil
}

// readTables fetches raw rows from whichever source the service is
// configured with: fixed tables, a snapshot, or CSV files.
func (s *Service) readTables(ctx context.Context) (*source.Tables, string, error) {
	switch {
	case s.tables != nil:
		return s.tables, "memory", nil
	case s.snapshotPath != "":
		t, err := snapshot.Load(ctx, s.snapshotPath)
		if err != nil {
			return nil, "", err
		}
		return t, "snapshot:" + s.snapshotPath, nil
	case s.files.Tournaments != "":
		t, err := source.ReadFiles(s.files)
		if err != nil {
			return nil, "", err
		}
		return t, "csv:" + s.files.Tournaments, nil
	default:
		return nil, "", ErrNoSource
	}
}
