package aggregate_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/prizeboard/internal/domain/aggregate"
	"github.com/okian/prizeboard/internal/domain/model"
	"github.com/okian/prizeboard/internal/domain/reference"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

func day(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func rec(handle, tid, game, gameType, end, prize string) model.TournamentRecord {
	return model.TournamentRecord{
		PlayerHandle: handle,
		TournamentID: tid,
		GameID:       game,
		GameType:     gameType,
		EndDate:      day(end),
		USDPrize:     decimal.RequireFromString(prize),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fixtureRecords() []model.TournamentRecord {
	return []model.TournamentRecord{
		rec("alpha", "t1", "dota2", "MOBA", "2018-01-01", "1000.10"),
		rec("alpha", "t2", "dota2", "MOBA", "2019-01-01", "500"),
		rec("alpha", "t3", "csgo", "FPS", "2020-01-01", "100"),
		rec("bravo", "t1", "dota2", "MOBA", "2018-01-01", "250.25"),
		rec("charlie", "t4", "csgo", "FPS", "2021-06-01", "0"),
		rec("delta", "t5", "retro", model.Unknown, "2021-06-01", "75"),
		rec("delta", "t6", "retro", model.Unknown, "2021-06-01", "25"),
	}
}

func fixtureRefs() *reference.Tables {
	refs, err := reference.New([]model.Game{
		{GameID: "dota2", GameName: "Dota 2", GameType: "MOBA"},
		{GameID: "csgo", GameName: "Counter-Strike", GameType: "FPS"},
		{GameID: "sc2", GameName: "StarCraft II", GameType: "RTS"},
	}, nil)
	if err != nil {
		panic(err)
	}
	return refs
}

func countryOf(refs *reference.Tables, codes map[string]string) aggregate.CountryFunc {
	return func(handle string) model.Country {
		c, _ := refs.CountryOf(codes[handle])
		return c
	}
}

func TestSummarizeByPlayer(t *testing.T) {
	Convey("Given prize records for several players", t, func() {
		records := fixtureRecords()
		refs := fixtureRefs()
		players := aggregate.SummarizeByPlayer(records,
			aggregate.WithCountryOf(countryOf(refs, map[string]string{"alpha": "DE", "bravo": "kor"})))

		Convey("Then each player with records has a summary", func() {
			So(players, ShouldHaveLength, 4)
		})

		Convey("Then totals equal the exact sum of the player's records", func() {
			sums := map[string]decimal.Decimal{}
			counts := map[string]int{}
			for _, r := range records {
				sums[r.PlayerHandle] = sums[r.PlayerHandle].Add(r.USDPrize)
				counts[r.PlayerHandle]++
			}
			for handle, p := range players {
				So(p.TotalUSDPrize.Equal(sums[handle]), ShouldBeTrue)
				So(p.TotalTournaments, ShouldEqual, counts[handle])
			}
			So(players["alpha"].TotalUSDPrize.String(), ShouldEqual, "1600.1")
		})

		Convey("Then career length and rates are derived from the end dates", func() {
			a := players["alpha"]
			So(a.FirstEnd, ShouldEqual, day("2018-01-01"))
			So(a.LastEnd, ShouldEqual, day("2020-01-01"))
			So(a.CareerLengthYears, ShouldAlmostEqual, 730.0/365.25, 1e-12)
			So(a.RatesDefined, ShouldBeTrue)
			So(a.TournamentsPerYear, ShouldAlmostEqual, 3/(730.0/365.25), 1e-9)
			So(a.AvgEarningsPerYear, ShouldAlmostEqual, 1600.1/(730.0/365.25), 1e-6)
		})

		Convey("Then a single record career uses the sentinel and has no rates", func() {
			b := players["bravo"]
			So(b.CareerLengthYears, ShouldEqual, model.SingleEventCareer)
			So(b.RatesDefined, ShouldBeFalse)
			So(b.TournamentsPerYear, ShouldEqual, 0)
		})

		Convey("Then records on one day give a zero length career without rates", func() {
			d := players["delta"]
			So(d.CareerLengthYears, ShouldEqual, 0)
			So(d.RatesDefined, ShouldBeFalse)
		})

		Convey("Then the primary game type carries the largest share of earnings", func() {
			So(players["alpha"].PrimaryGameType, ShouldEqual, "MOBA")
			So(players["delta"].PrimaryGameType, ShouldEqual, model.Unknown)
		})

		Convey("Then countries resolve through the lookup", func() {
			So(players["alpha"].Country, ShouldEqual, "DEU")
			So(players["bravo"].Country, ShouldEqual, "KOR")
			So(players["charlie"].Country, ShouldEqual, model.Unknown)
		})

		Convey("Then a second call yields an equal result", func() {
			again := aggregate.SummarizeByPlayer(records,
				aggregate.WithCountryOf(countryOf(refs, map[string]string{"alpha": "DE", "bravo": "kor"})))
			So(again, ShouldResemble, players)
		})
	})

	Convey("Given no records", t, func() {
		Convey("Then no summaries are produced", func() {
			So(aggregate.SummarizeByPlayer(nil), ShouldBeEmpty)
		})
	})

	Convey("Given tied earnings across two game types", t, func() {
		players := aggregate.SummarizeByPlayer([]model.TournamentRecord{
			rec("echo", "a", "x", "RTS", "2020-01-01", "10"),
			rec("echo", "b", "y", "FPS", "2020-02-01", "10"),
		})

		Convey("Then the primary game type is the first by name", func() {
			So(players["echo"].PrimaryGameType, ShouldEqual, "FPS")
		})
	})
}

func TestRankPlayers(t *testing.T) {
	Convey("Given five players with totals [100, 100, 90, 80, 10]", t, func() {
		var records []model.TournamentRecord
		for handle, prize := range map[string]string{"mike": "100", "kilo": "100", "lima": "90", "oscar": "80", "papa": "10"} {
			records = append(records, rec(handle, "t-"+handle, "g", "FPS", "2020-01-01", prize))
		}
		ranked := aggregate.RankPlayers(aggregate.SummarizeByPlayer(records))

		Convey("Then players are ordered by prize then handle", func() {
			var handles []string
			var ranks []int
			for _, p := range ranked {
				handles = append(handles, p.PlayerHandle)
				ranks = append(ranks, p.Rank)
			}
			So(handles, ShouldResemble, []string{"kilo", "mike", "lima", "oscar", "papa"})
			So(ranks, ShouldResemble, []int{1, 2, 3, 4, 5})
		})

		Convey("Then the top three are the tied pair and the 90 player", func() {
			top := aggregate.TopN(ranked, 3)
			So(top, ShouldHaveLength, 3)
			So(top[0].PlayerHandle, ShouldEqual, "kilo")
			So(top[1].PlayerHandle, ShouldEqual, "mike")
			So(top[2].PlayerHandle, ShouldEqual, "lima")
		})

		Convey("Then a non-positive or oversized cut keeps everyone", func() {
			So(aggregate.TopN(ranked, 0), ShouldHaveLength, 5)
			So(aggregate.TopN(ranked, 99), ShouldHaveLength, 5)
		})
	})
}

func TestCountByGameType(t *testing.T) {
	Convey("Given records including an unmapped game", t, func() {
		records := append(fixtureRecords(), model.TournamentRecord{PlayerHandle: "x", GameID: "g"})
		counts := aggregate.CountByGameType(records)

		Convey("Then every row lands in exactly one bucket", func() {
			total := 0
			for _, n := range counts {
				total += n
			}
			So(total, ShouldEqual, len(records))
			So(counts[model.Unknown], ShouldEqual, 3)
			So(counts["MOBA"], ShouldEqual, 3)
			So(counts["FPS"], ShouldEqual, 2)
		})
	})
}

func TestSummarizeByCountry(t *testing.T) {
	Convey("Given players with resolved and unresolved countries", t, func() {
		refs := fixtureRefs()
		lookup := countryOf(refs, map[string]string{"alpha": "DE", "bravo": "DEU", "charlie": "XX"})
		players := aggregate.SummarizeByPlayer(fixtureRecords(), aggregate.WithCountryOf(lookup))
		countries := aggregate.SummarizeByCountry(players, lookup)

		Convey("Then player counts over all buckets equal the player count", func() {
			total := 0
			for _, c := range countries {
				total += c.PlayerCount
			}
			So(total, ShouldEqual, len(players))
		})

		Convey("Then resolved countries aggregate prize and average", func() {
			de := countries["DEU"]
			So(de.PlayerCount, ShouldEqual, 2)
			So(de.TotalPrize.Equal(dec("1850.35")), ShouldBeTrue)
			So(de.AvgPrize.Equal(dec("925.175")), ShouldBeTrue)
			So(de.Continent, ShouldEqual, "Europe")
		})

		Convey("Then unresolved players share the Unknown bucket", func() {
			u := countries[model.Unknown]
			So(u.PlayerCount, ShouldEqual, 2)
			So(u.TotalPrize.Equal(dec("100")), ShouldBeTrue)
		})

		Convey("Then AllCountries zero-fills every reference country", func() {
			all := aggregate.AllCountries(countries, refs)
			So(len(all), ShouldEqual, len(refs.Countries())+1)
			So(all[len(all)-1].Code, ShouldEqual, model.Unknown)
			for _, c := range all {
				if c.Code == "FRA" {
					So(c.PlayerCount, ShouldEqual, 0)
					So(c.TotalPrize.IsZero(), ShouldBeTrue)
				}
			}
		})

		Convey("Then continent totals follow the display order", func() {
			totals := aggregate.ContinentTotals(aggregate.AllCountries(countries, refs), refs)
			So(totals, ShouldHaveLength, 7)
			So(totals[1].Continent, ShouldEqual, "Europe")
			So(totals[1].PlayerCount, ShouldEqual, 2)
			So(totals[6].Continent, ShouldEqual, model.Unknown)
			So(totals[6].PlayerCount, ShouldEqual, 2)
			So(totals[0].AvgPrize.IsZero(), ShouldBeTrue)
		})
	})
}

func TestTopCountries(t *testing.T) {
	Convey("Given country summaries", t, func() {
		countries := []model.CountrySummary{
			{Code: "USA", PlayerCount: 3, TotalPrize: dec("300")},
			{Code: "CHN", PlayerCount: 3, TotalPrize: dec("900")},
			{Code: "KOR", PlayerCount: 5, TotalPrize: dec("100")},
			{Code: "FRA", PlayerCount: 0, TotalPrize: dec("0")},
			{Code: model.Unknown, PlayerCount: 9, TotalPrize: dec("1000")},
		}

		Convey("When ranking by player count", func() {
			top, err := aggregate.TopCountries(countries, aggregate.ByPlayerCount, 2)

			Convey("Then ties are broken by code and Unknown is skipped", func() {
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 2)
				So(top[0].Code, ShouldEqual, "KOR")
				So(top[1].Code, ShouldEqual, "CHN")
			})
		})

		Convey("When ranking by total prize", func() {
			top, err := aggregate.TopCountries(countries, aggregate.ByTotalPrize, 10)

			Convey("Then empty countries are skipped", func() {
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 3)
				So(top[0].Code, ShouldEqual, "CHN")
				So(top[2].Code, ShouldEqual, "KOR")
			})
		})

		Convey("When the metric is unknown", func() {
			_, err := aggregate.TopCountries(countries, "median", 10)

			Convey("Then an error is returned", func() {
				So(errors.Is(err, aggregate.ErrUnknownMetric), ShouldBeTrue)
			})
		})

		Convey("Then metric names parse", func() {
			m, err := aggregate.ParseCountryMetric("")
			So(err, ShouldBeNil)
			So(m, ShouldEqual, aggregate.ByPlayerCount)
			_, err = aggregate.ParseCountryMetric("bogus")
			So(errors.Is(err, aggregate.ErrUnknownMetric), ShouldBeTrue)
		})
	})
}

func TestSummarizeByGame(t *testing.T) {
	Convey("Given records and game metadata", t, func() {
		games := aggregate.SummarizeByGame(fixtureRecords(), fixtureRefs())

		Convey("Then prize, distinct players and distinct tournaments are counted", func() {
			d := games["dota2"]
			So(d.TotalUSDPrize.Equal(dec("1750.35")), ShouldBeTrue)
			So(d.TotalPlayers, ShouldEqual, 2)
			So(d.TotalTournaments, ShouldEqual, 2)
			So(d.GameName, ShouldEqual, "Dota 2")
		})

		Convey("Then reference games without records default to zero", func() {
			sc := games["sc2"]
			So(sc.TotalUSDPrize.IsZero(), ShouldBeTrue)
			So(sc.TotalPlayers, ShouldEqual, 0)
			So(sc.TotalTournaments, ShouldEqual, 0)
		})

		Convey("Then games missing from the reference are still summarized", func() {
			So(games["retro"].GameType, ShouldEqual, model.Unknown)
			So(games["retro"].TotalTournaments, ShouldEqual, 2)
		})

		Convey("Then TopGames filters by type and orders by prize then id", func() {
			top := aggregate.TopGames(games, aggregate.AllGameTypes, 2)
			So(top, ShouldHaveLength, 2)
			So(top[0].GameID, ShouldEqual, "dota2")
			So(top[1].GameID, ShouldEqual, "csgo")

			fps := aggregate.TopGames(games, "FPS", 0)
			So(fps, ShouldHaveLength, 1)
			So(aggregate.SumGamePrize(fps).Equal(dec("100")), ShouldBeTrue)
		})
	})
}

func TestPreferMetadata(t *testing.T) {
	Convey("Given a game table where some games carry totals", t, func() {
		refs, err := reference.New([]model.Game{
			{GameID: "big", GameName: "Big", GameType: "MOBA", TotalUSDPrize: dec("1000000"), TotalPlayers: 500, TotalTournaments: 40},
			{GameID: "small", GameName: "Small", GameType: "MOBA", TotalUSDPrize: dec("5000"), TotalPlayers: 10, TotalTournaments: 2},
			{GameID: "blank", GameName: "Blank", GameType: "MOBA"},
		}, nil)
		So(err, ShouldBeNil)
		records := []model.TournamentRecord{
			{PlayerHandle: "ana", TournamentID: "t1", GameID: "small", GameType: "MOBA", EndDate: day("2020-01-01"), USDPrize: dec("100")},
			{PlayerHandle: "ana", TournamentID: "t2", GameID: "blank", GameType: "MOBA", EndDate: day("2020-02-01"), USDPrize: dec("70")},
			{PlayerHandle: "ben", TournamentID: "t3", GameID: "gone", GameType: model.Unknown, EndDate: day("2020-03-01"), USDPrize: dec("30")},
		}
		summed := aggregate.SummarizeByGame(records, refs)
		games := aggregate.PreferMetadata(summed, refs)

		Convey("Then games with metadata report the metadata totals", func() {
			So(games["big"].TotalUSDPrize.Equal(dec("1000000")), ShouldBeTrue)
			So(games["big"].TotalPlayers, ShouldEqual, 500)
			So(games["big"].TotalTournaments, ShouldEqual, 40)
			So(games["big"].Source, ShouldEqual, model.GameTotalsFromMetadata)
			So(games["small"].TotalUSDPrize.Equal(dec("5000")), ShouldBeTrue)
		})

		Convey("Then games without metadata keep the summed records", func() {
			So(games["blank"].TotalUSDPrize.Equal(dec("70")), ShouldBeTrue)
			So(games["blank"].Source, ShouldEqual, model.GameTotalsFromRecords)
			So(games["gone"].TotalUSDPrize.Equal(dec("30")), ShouldBeTrue)
			So(games["gone"].GameType, ShouldEqual, model.Unknown)
		})

		Convey("Then ranking follows the chosen totals", func() {
			top := aggregate.TopGames(games, "MOBA", 0)
			So(top, ShouldHaveLength, 3)
			So(top[0].GameID, ShouldEqual, "big")
			So(top[1].GameID, ShouldEqual, "small")
			So(top[2].GameID, ShouldEqual, "blank")
		})

		Convey("Then the input map is left alone", func() {
			So(summed["small"].TotalUSDPrize.Equal(dec("100")), ShouldBeTrue)
			So(summed["big"].TotalUSDPrize.IsZero(), ShouldBeTrue)
		})
	})
}

func TestStats(t *testing.T) {
	Convey("Given value sets", t, func() {
		Convey("Then odd sizes take the middle value", func() {
			So(aggregate.Median([]float64{5, 1, 3}), ShouldEqual, 3)
		})

		Convey("Then even sizes average the two middle values", func() {
			xs := []float64{4, 1, 3, 2}
			So(aggregate.Median(xs), ShouldEqual, 2.5)
			So(xs, ShouldResemble, []float64{4, 1, 3, 2})
		})

		Convey("Then decimal medians are exact", func() {
			So(aggregate.MedianDecimal([]decimal.Decimal{dec("0.1"), dec("0.2")}).Equal(dec("0.15")), ShouldBeTrue)
			So(aggregate.MedianDecimal(nil).IsZero(), ShouldBeTrue)
		})

		Convey("Then empty inputs yield zero", func() {
			So(aggregate.Median(nil), ShouldEqual, 0)
			So(aggregate.Mean(nil), ShouldEqual, 0)
		})

		Convey("Then the mean is arithmetic", func() {
			So(aggregate.Mean([]float64{1, 2, 3, 6}), ShouldEqual, 3)
		})
	})
}
