package query

// Option configures a Facade.
type Option func(*Facade)

// WithMinCareerYears sets the career length a player must exceed to count in
// career structure and yearly earnings views.
func WithMinCareerYears(years float64) Option {
	return func(f *Facade) {
		if years >= 0 {
			f.minCareerYears = years
		}
	}
}

// WithMinPlayersPerGameType sets how many players a game type needs before
// it gets its own median.
func WithMinPlayersPerGameType(n int) Option {
	return func(f *Facade) {
		if n >= 0 {
			f.minPlayersPerGameType = n
		}
	}
}

// WithTopGamesLimit sets how many games TopGames returns.
func WithTopGamesLimit(n int) Option {
	return func(f *Facade) {
		if n > 0 {
			f.topGamesLimit = n
		}
	}
}

// WithTopCountriesLimit sets how many countries Geography ranks.
func WithTopCountriesLimit(n int) Option {
	return func(f *Facade) {
		if n > 0 {
			f.topCountriesLimit = n
		}
	}
}

// WithTimelineDefault sets how many top players CareerTimelines shows when
// no handles are given.
func WithTimelineDefault(n int) Option {
	return func(f *Facade) {
		if n > 0 {
			f.timelineDefault = n
		}
	}
}
