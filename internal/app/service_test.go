package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	service "github.com/okian/prizeboard/internal/app"
	"github.com/okian/prizeboard/internal/adapters/repository"
	"github.com/okian/prizeboard/internal/adapters/snapshot"
	"github.com/okian/prizeboard/internal/adapters/source"
	"github.com/okian/prizeboard/internal/domain/aggregate"
	"github.com/okian/prizeboard/internal/domain/query"
	. "github.com/smartystreets/goconvey/convey"
)

func fixtureTables() *source.Tables {
	return &source.Tables{
		Games: []repository.RawGame{
			{Line: 2, GameID: "g1", GameName: "Dota 2", GameType: "MOBA"},
			{Line: 3, GameID: "g2", GameName: "Counter-Strike", GameType: "FPS"},
		},
		Players: []repository.RawProfile{
			{Line: 2, PlayerHandle: "ana", CountryCode: "US"},
			{Line: 3, PlayerHandle: "ben", CountryCode: "USA"},
			{Line: 4, PlayerHandle: "cat", CountryCode: "DE"},
		},
		Tournaments: []repository.RawRecord{
			{Line: 2, PlayerHandle: "ana", TournamentID: "t1", GameID: "g1", EndDate: "2019-01-01", USDPrize: "1000"},
			{Line: 3, PlayerHandle: "ana", TournamentID: "t2", GameID: "g2", EndDate: "2020-01-01", USDPrize: "500"},
			{Line: 4, PlayerHandle: "ben", TournamentID: "t1", GameID: "g1", EndDate: "2019-01-01", USDPrize: "300"},
			{Line: 5, PlayerHandle: "cat", TournamentID: "t3", GameID: "g2", EndDate: "2021-01-01", USDPrize: "200"},
			{Line: 6, PlayerHandle: "cat", TournamentID: "t4", GameID: "g2", EndDate: "2021-07-01", USDPrize: "800"},
			{Line: 7, PlayerHandle: "cat", TournamentID: "t4", GameID: "g2", EndDate: "2021-07-01", USDPrize: "800"},
			{Line: 8, PlayerHandle: "dan", TournamentID: "t5", GameID: "g1", EndDate: "2021-07-01", USDPrize: "-5"},
		},
	}
}

func startService(opts ...service.Option) *service.Service {
	svc := service.New(append([]service.Option{
		service.WithWorkerCount(2),
		service.WithQueueSize(16),
		service.WithFacadeOptions(query.WithMinPlayersPerGameType(1)),
	}, opts...)...)
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc
}

func TestService_New(t *testing.T) {
	Convey("Given a service that was never started", t, func() {
		svc := service.New()
		ctx := context.Background()

		Convey("Then queries report it is not started", func() {
			_, err := svc.Query(ctx, query.DefaultFilter())
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.Batch(ctx, []query.Filter{query.DefaultFilter()})
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(svc.Dataset(), ShouldBeNil)
			So(svc.GetStats(ctx).Started, ShouldBeFalse)
		})

		Convey("Then starting without a source fails", func() {
			err := svc.Start(ctx)
			So(errors.Is(err, service.ErrNoSource), ShouldBeTrue)
		})

		Convey("Then stopping is a no-op", func() {
			So(svc.Stop(ctx), ShouldBeNil)
		})
	})
}

func TestService_Queries(t *testing.T) {
	Convey("Given a service over in-memory tables", t, func() {
		ctx := context.Background()
		svc := startService(service.WithTables(fixtureTables()))
		defer func() { _ = svc.Stop(ctx) }()

		Convey("Then the load report counts the rejected rows", func() {
			stats := svc.GetStats(ctx)
			So(stats.Started, ShouldBeTrue)
			So(stats.Source, ShouldEqual, "memory")
			So(stats.Records, ShouldEqual, 5)
			So(stats.Players, ShouldEqual, 3)
			So(stats.Games, ShouldEqual, 2)
			So(stats.Load.RejectedByReason[repository.ReasonDuplicate], ShouldEqual, 1)
			So(stats.Load.RejectedByReason[repository.ReasonNegativePrize], ShouldEqual, 1)
		})

		Convey("When querying all players", func() {
			f, err := svc.ParseFilter("All", "All", "total_prize")
			So(err, ShouldBeNil)
			table, err := svc.Query(ctx, f)

			Convey("Then players are ranked by total prize", func() {
				So(err, ShouldBeNil)
				So(table.PlayerCount, ShouldEqual, 3)
				So(table.Rows[0].PlayerHandle, ShouldEqual, "ana")
				So(table.Rows[1].PlayerHandle, ShouldEqual, "cat")
				So(table.Rows[2].PlayerHandle, ShouldEqual, "ben")
				So(table.TotalPrize.String(), ShouldEqual, "2800")
			})
		})

		Convey("When parsing an unknown scope", func() {
			_, err := svc.ParseFilter("All", "Top0", "")

			Convey("Then it is an invalid filter", func() {
				So(errors.Is(err, query.ErrInvalidFilter), ShouldBeTrue)
			})
		})

		Convey("Then game types come from the game table", func() {
			types, err := svc.GameTypes()
			So(err, ShouldBeNil)
			So(types, ShouldResemble, []string{"FPS", "MOBA"})
		})

		Convey("Then every view answers", func() {
			f := query.DefaultFilter()

			games, err := svc.TopGames(ctx, "All", false)
			So(err, ShouldBeNil)
			So(games.Games, ShouldNotBeEmpty)

			dist, err := svc.PrizeDistribution(ctx, f)
			So(err, ShouldBeNil)
			So(dist.TotalPrize.String(), ShouldEqual, "2800")

			geo, err := svc.Geography(ctx, f, aggregate.ByTotalPrize)
			So(err, ShouldBeNil)
			So(geo.TopCountries[0].Code, ShouldEqual, "USA")

			_, err = svc.CareerStructure(ctx, f)
			So(err, ShouldBeNil)
			_, err = svc.YearlyEarnings(ctx, f)
			So(err, ShouldBeNil)
			_, err = svc.EarningsShape(ctx, f)
			So(err, ShouldBeNil)

			lines, err := svc.CareerTimelines(ctx, []string{"cat"})
			So(err, ShouldBeNil)
			So(lines, ShouldHaveLength, 1)

			_, err = svc.CareerTimelines(ctx, []string{"nobody"})
			So(errors.Is(err, query.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestService_Batch(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := startService(service.WithTables(fixtureTables()))
		defer func() { _ = svc.Stop(ctx) }()

		fps, err := svc.ParseFilter("FPS", "All", "tournaments")
		So(err, ShouldBeNil)
		all := query.DefaultFilter()

		Convey("When a batch repeats a filter", func() {
			results, err := svc.Batch(ctx, []query.Filter{fps, all, fps})

			Convey("Then results follow request order and repeats share a table", func() {
				So(err, ShouldBeNil)
				So(results, ShouldHaveLength, 3)
				So(results[0].Filter, ShouldResemble, fps)
				So(results[1].Filter, ShouldResemble, all)
				So(results[0].Table.PlayerCount, ShouldEqual, 2)
				So(results[1].Table.PlayerCount, ShouldEqual, 3)
				So(results[2].Table, ShouldResemble, results[0].Table)
			})
		})

		Convey("When the batch exceeds the queue", func() {
			filters := make([]query.Filter, 17)
			for i := range filters {
				filters[i] = all
			}
			_, err := svc.Batch(ctx, filters)

			Convey("Then it is rejected", func() {
				So(errors.Is(err, service.ErrBatchTooLarge), ShouldBeTrue)
			})
		})
	})
}

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestService_ReloadFromFiles(t *testing.T) {
	Convey("Given a service reading CSV files", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		files := source.Files{
			Tournaments: writeCSV(t, dir, "tournaments.csv",
				"PlayerHandle,TournamentId,GameId,EndDate,USDPrize\nana,t1,g1,2019-01-01,100\n"),
			Players: writeCSV(t, dir, "players.csv", "CurrentHandle,CountryCode\nana,se\n"),
			Games:   writeCSV(t, dir, "games.csv", "GameId,GameName,Genre\ng1,Dota 2,MOBA\n"),
		}
		svc := startService(service.WithFiles(files))
		defer func() { _ = svc.Stop(ctx) }()

		before := svc.Dataset()
		So(before.Store.Len(), ShouldEqual, 1)

		Convey("When the file grows and the service reloads", func() {
			writeCSV(t, dir, "tournaments.csv",
				"PlayerHandle,TournamentId,GameId,EndDate,USDPrize\nana,t1,g1,2019-01-01,100\nbo,t1,g1,2019-01-01,50\n")
			So(svc.Reload(ctx), ShouldBeNil)

			Convey("Then a new dataset replaces the old one, which is untouched", func() {
				after := svc.Dataset()
				So(after, ShouldNotPointTo, before)
				So(after.Store.Len(), ShouldEqual, 2)
				So(before.Store.Len(), ShouldEqual, 1)
			})
		})

		Convey("When the file disappears and the service reloads", func() {
			So(os.Remove(files.Tournaments), ShouldBeNil)
			err := svc.Reload(ctx)

			Convey("Then the old dataset keeps serving", func() {
				So(errors.Is(err, source.ErrRead), ShouldBeTrue)
				So(svc.Dataset(), ShouldPointTo, before)
			})
		})
	})
}

func TestService_Snapshot(t *testing.T) {
	Convey("Given a snapshot of the fixture tables", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		path := filepath.Join(t.TempDir(), "prizes.db")
		So(snapshot.Import(ctx, path, fixtureTables()), ShouldBeNil)

		Convey("When the service starts from it", func() {
			svc := startService(service.WithSnapshot(path))
			defer func() { _ = svc.Stop(ctx) }()

			Convey("Then it serves the same dataset", func() {
				stats := svc.GetStats(ctx)
				So(stats.Source, ShouldEqual, "snapshot:"+path)
				So(stats.Records, ShouldEqual, 5)
				So(stats.Players, ShouldEqual, 3)
			})
		})
	})
}
