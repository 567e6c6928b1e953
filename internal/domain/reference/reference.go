// Package reference holds the static lookup tables joined into prize records:
// game metadata and the ISO-3166 country table.
package reference

import (
	"fmt"
	"sort"
	"strings"

	"github.com/okian/prizeboard/internal/domain/model"
)

// Continents in display order. Countries outside these land in model.Unknown.
var continentOrder = []string{
	"Asia",
	"Europe",
	"North America",
	"South America",
	"Oceania",
	"Africa",
}

// Tables is the immutable set of reference tables. Build it once with New and
// share it; nothing mutates it afterwards.
type Tables struct {
	games     map[string]model.Game
	gameList  []model.Game
	gameTypes []string

	byAlpha2  map[string]model.Country
	byAlpha3  map[string]model.Country
	countries []model.Country
}

// New builds Tables from game metadata and countries. A nil countries slice
// selects the embedded ISO-3166 table.
func New(games []model.Game, countries []model.Country) (*Tables, error) {
	if countries == nil {
		var err error
		if countries, err = DefaultCountries(); err != nil {
			return nil, err
		}
	}

	t := &Tables{
		games:    make(map[string]model.Game, len(games)),
		byAlpha2: make(map[string]model.Country, len(countries)),
		byAlpha3: make(map[string]model.Country, len(countries)),
	}

	types := make(map[string]struct{})
	for _, g := range games {
		id := strings.TrimSpace(g.GameID)
		if id == "" {
			return nil, fmt.Errorf("%w: game with empty id", ErrInvalidReference)
		}
		if _, dup := t.games[id]; dup {
			return nil, fmt.Errorf("%w: duplicate game id %q", ErrInvalidReference, id)
		}
		g.GameID = id
		if strings.TrimSpace(g.GameType) == "" {
			g.GameType = model.Unknown
		}
		t.games[id] = g
		t.gameList = append(t.gameList, g)
		types[g.GameType] = struct{}{}
	}
	sort.Slice(t.gameList, func(i, j int) bool { return t.gameList[i].GameID < t.gameList[j].GameID })
	for gt := range types {
		t.gameTypes = append(t.gameTypes, gt)
	}
	sort.Strings(t.gameTypes)

	for _, c := range countries {
		c.Alpha2 = strings.ToUpper(strings.TrimSpace(c.Alpha2))
		c.Alpha3 = strings.ToUpper(strings.TrimSpace(c.Alpha3))
		if len(c.Alpha3) != 3 {
			return nil, fmt.Errorf("%w: country %q has no alpha-3 code", ErrInvalidReference, c.Name)
		}
		if _, dup := t.byAlpha3[c.Alpha3]; dup {
			return nil, fmt.Errorf("%w: duplicate country %q", ErrInvalidReference, c.Alpha3)
		}
		if !knownContinent(c.Continent) {
			c.Continent = model.Unknown
		}
		t.byAlpha3[c.Alpha3] = c
		if c.Alpha2 != "" {
			t.byAlpha2[c.Alpha2] = c
		}
		t.countries = append(t.countries, c)
	}
	sort.Slice(t.countries, func(i, j int) bool { return t.countries[i].Alpha3 < t.countries[j].Alpha3 })

	return t, nil
}

func knownContinent(name string) bool {
	for _, c := range continentOrder {
		if c == name {
			return true
		}
	}
	return false
}

// Game returns the metadata row for id.
func (t *Tables) Game(id string) (model.Game, bool) {
	g, ok := t.games[id]
	return g, ok
}

// Games returns all games ordered by id.
func (t *Tables) Games() []model.Game {
	return append([]model.Game(nil), t.gameList...)
}

// GameTypeOf returns the type of game id, or model.Unknown.
func (t *Tables) GameTypeOf(id string) string {
	if g, ok := t.games[id]; ok {
		return g.GameType
	}
	return model.Unknown
}

// GameTypes returns the distinct game types, sorted.
func (t *Tables) GameTypes() []string {
	return append([]string(nil), t.gameTypes...)
}

// HasGameType reports whether any game carries the given type.
func (t *Tables) HasGameType(gameType string) bool {
	i := sort.SearchStrings(t.gameTypes, gameType)
	return i < len(t.gameTypes) && t.gameTypes[i] == gameType
}

// CountryOf resolves an alpha-2 or alpha-3 code, ignoring case and
// surrounding space. Unresolved codes return the Unknown country and false.
func (t *Tables) CountryOf(code string) (model.Country, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	var (
		c  model.Country
		ok bool
	)
	switch len(code) {
	case 2:
		c, ok = t.byAlpha2[code]
	case 3:
		c, ok = t.byAlpha3[code]
	}
	if !ok {
		return UnknownCountry(), false
	}
	return c, true
}

// Countries returns every country ordered by alpha-3 code.
func (t *Tables) Countries() []model.Country {
	return append([]model.Country(nil), t.countries...)
}

// Continents returns the continent display order.
func (t *Tables) Continents() []string {
	return append([]string(nil), continentOrder...)
}

// UnknownCountry is the bucket for players whose country cannot be resolved.
func UnknownCountry() model.Country {
	return model.Country{Alpha3: model.Unknown, Name: model.Unknown, Continent: model.Unknown}
}
