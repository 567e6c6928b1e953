package datagen

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/okian/prizeboard/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Dataset is a generated set of input tables.
type Dataset struct {
	Games   []model.Game
	Players []model.PlayerProfile
	Records []model.TournamentRecord
}

var catalog = []model.Game{
	{GameID: "dota2", GameName: "Dota 2", GameType: "Multiplayer Online Battle Arena"},
	{GameID: "lol", GameName: "League of Legends", GameType: "Multiplayer Online Battle Arena"},
	{GameID: "csgo", GameName: "Counter-Strike: Global Offensive", GameType: "First-Person Shooter"},
	{GameID: "valorant", GameName: "VALORANT", GameType: "First-Person Shooter"},
	{GameID: "overwatch", GameName: "Overwatch", GameType: "First-Person Shooter"},
	{GameID: "fortnite", GameName: "Fortnite", GameType: "Battle Royale"},
	{GameID: "pubg", GameName: "PUBG: Battlegrounds", GameType: "Battle Royale"},
	{GameID: "sc2", GameName: "StarCraft II", GameType: "Strategy"},
	{GameID: "hearthstone", GameName: "Hearthstone", GameType: "Collectible Card Game"},
	{GameID: "rl", GameName: "Rocket League", GameType: "Sports"},
	{GameID: "fifa", GameName: "EA Sports FC", GameType: "Sports"},
	{GameID: "sf6", GameName: "Street Fighter 6", GameType: "Fighting Game"},
}

// Country codes mix alpha-2, alpha-3, lower case and a few that resolve to
// nothing, so the Unknown bucket is never empty.
var countryCodes = []string{
	"US", "US", "US", "CN", "CN", "KR", "KR", "SE", "DK", "DE", "FR", "BR", "RU",
	"FIN", "CAN", "ukr", "pl", "AU", "JP", "PH", "ZA", "EG", "AR", "MX", "GB",
	"", "XX", "ZZZ",
}

type shape int

const (
	steady shape = iota
	balanced
	spiky
	explosive
)

type tournament struct {
	id   string
	game model.Game
	end  time.Time
	pool float64
}

// Generate builds a dataset from cfg. It is deterministic in cfg.Seed.
func Generate(cfg Config) (*Dataset, error) {
	if cfg.Players < 1 || cfg.Tournaments < 1 {
		return nil, fmt.Errorf("players and tournaments must be positive")
	}
	if cfg.LastYear < cfg.FirstYear {
		return nil, fmt.Errorf("last year %d before first year %d", cfg.LastYear, cfg.FirstYear)
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	start := time.Date(cfg.FirstYear, 1, 1, 0, 0, 0, 0, time.UTC)
	span := time.Date(cfg.LastYear+1, 1, 1, 0, 0, 0, 0, time.UTC).Sub(start)

	byGame := make(map[string][]tournament, len(catalog))
	for gi, g := range catalog {
		list := make([]tournament, cfg.Tournaments)
		for i := range list {
			name := g.GameID + "/" + strconv.Itoa(i) + "/" + strconv.FormatUint(cfg.Seed, 10)
			list[i] = tournament{
				id:   uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String(),
				game: g,
				end:  start.Add(time.Duration(rng.Int64N(int64(span)))).Truncate(24 * time.Hour),
				// Pools are log-uniform between 1k and 1M, a few games richer than others.
				pool: math.Pow(10, 3+3*rng.Float64()) * (1 + float64(len(catalog)-gi)/4),
			}
		}
		sort.Slice(list, func(a, b int) bool { return list[a].end.Before(list[b].end) })
		byGame[g.GameID] = list
	}

	ds := &Dataset{Games: append([]model.Game(nil), catalog...)}
	for p := 0; p < cfg.Players; p++ {
		handle := fmt.Sprintf("player%05d", p)
		ds.Players = append(ds.Players, model.PlayerProfile{
			PlayerHandle: handle,
			CountryCode:  countryCodes[rng.IntN(len(countryCodes))],
		})
		ds.Records = append(ds.Records, career(rng, handle, byGame)...)
	}
	return ds, nil
}

// career draws one player's results: a primary game, a contiguous window
// of that game's tournaments, and prizes shaped by a career profile.
func career(rng *rand.Rand, handle string, byGame map[string][]tournament) []model.TournamentRecord {
	primary := catalog[rng.IntN(len(catalog))]
	list := byGame[primary.GameID]

	// Most players play a handful of events; a long tail plays dozens.
	n := 1 + int(rng.ExpFloat64()*6)
	if n > len(list) {
		n = len(list)
	}
	first := rng.IntN(len(list) - n + 1)
	window := list[first : first+n+rng.IntN(len(list)-first-n+1)]

	picked := rng.Perm(len(window))[:n]
	sort.Ints(picked)

	s := shape(rng.IntN(4))
	jackpot := rng.IntN(n)
	out := make([]model.TournamentRecord, 0, n+1)
	for i, idx := range picked {
		t := window[idx]
		share := 0.005 + 0.02*rng.Float64()
		switch s {
		case balanced:
			share *= 1 + rng.Float64()
		case spiky:
			if rng.IntN(4) == 0 {
				share *= 6
			}
		case explosive:
			if i == jackpot {
				share *= 40
			}
		}
		out = append(out, record(handle, t, share))
	}

	// Some players also cash once in a second game.
	if rng.IntN(5) == 0 {
		other := catalog[rng.IntN(len(catalog))]
		if other.GameID != primary.GameID {
			ol := byGame[other.GameID]
			out = append(out, record(handle, ol[rng.IntN(len(ol))], 0.002+0.01*rng.Float64()))
		}
	}
	return out
}

func record(handle string, t tournament, share float64) model.TournamentRecord {
	return model.TournamentRecord{
		PlayerHandle: handle,
		TournamentID: t.id,
		GameID:       t.game.GameID,
		GameName:     t.game.GameName,
		GameType:     t.game.GameType,
		EndDate:      t.end,
		USDPrize:     decimal.NewFromFloat(t.pool * share).Round(2),
	}
}
