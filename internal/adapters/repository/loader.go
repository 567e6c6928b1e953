package repository

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/okian/prizeboard/internal/domain/dedupe"
	"github.com/okian/prizeboard/internal/domain/model"
	"github.com/okian/prizeboard/internal/domain/reference"
	"github.com/okian/prizeboard/pkg/logger"
	"github.com/okian/prizeboard/pkg/metrics"
	"github.com/shopspring/decimal"
)

// Table names used in reports, errors and metrics.
const (
	TableTournaments = "tournaments"
	TablePlayers     = "players"
	TableGames       = "games"
)

var defaultDateLayouts = []string{
	model.DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
}

// Loader validates raw rows and joins them with reference tables. Invalid
// rows are rejected and counted; a load never fails as a whole.
type Loader struct {
	refs        *reference.Tables
	log         logger.Logger
	dateLayouts []string
	maxErrors   int
}

// NewLoader returns a Loader that joins against refs.
func NewLoader(refs *reference.Tables, opts ...Option) *Loader {
	ld := &Loader{
		refs:        refs,
		log:         logger.Nop(),
		dateLayouts: defaultDateLayouts,
		maxErrors:   20,
	}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// LoadRecords validates tournament rows into a RecordStore. A row is rejected
// when the handle or game id is missing, the date does not parse, the prize
// is missing, non-numeric or negative, or the (handle, tournament id) pair
// was already loaded. Rows without a tournament id are never duplicates.
func (ld *Loader) LoadRecords(ctx context.Context, rows []RawRecord) (*RecordStore, LoadReport) {
	report := newReport()
	seen := dedupe.New(dedupe.WithCapacity(len(rows)))
	unknown := make(map[string]struct{})
	records := make([]model.TournamentRecord, 0, len(rows))

	for _, row := range rows {
		rec, merr := ld.parseRecord(row)
		if merr == nil && rec.TournamentID != "" && seen.SeenAndRecord(ctx, dedupe.Key(rec.PlayerHandle, rec.TournamentID)) {
			merr = &MalformedRecordError{Line: row.Line, Field: "tournament_id", Reason: ReasonDuplicate, Value: rec.TournamentID}
		}
		if merr != nil {
			merr.Table = TableTournaments
			ld.rejected(ctx, &report, merr)
			continue
		}

		if g, ok := ld.refs.Game(rec.GameID); ok {
			rec.GameType = g.GameType
			if g.GameName != "" {
				rec.GameName = g.GameName
			}
		} else {
			rec.GameType = model.Unknown
			report.UnknownGames++
			unknown[rec.GameID] = struct{}{}
			metrics.RecordUnknownReference(TableGames)
		}
		records = append(records, rec)
	}

	report.Accepted = len(records)
	report.UnknownGameIDs = sortedKeys(unknown)
	metrics.RecordRecordsLoaded(report.Accepted)
	ld.summarize(ctx, TableTournaments, report)
	return NewRecordStore(records), report
}

func (ld *Loader) parseRecord(row RawRecord) (model.TournamentRecord, *MalformedRecordError) {
	bad := func(field, reason, value string) *MalformedRecordError {
		return &MalformedRecordError{Line: row.Line, Field: field, Reason: reason, Value: value}
	}

	handle := strings.TrimSpace(row.PlayerHandle)
	if handle == "" {
		return model.TournamentRecord{}, bad("player_handle", ReasonMissingHandle, row.PlayerHandle)
	}
	gameID := strings.TrimSpace(row.GameID)
	if gameID == "" {
		return model.TournamentRecord{}, bad("game_id", ReasonMissingGameID, row.GameID)
	}
	end, ok := ld.parseDate(row.EndDate)
	if !ok {
		return model.TournamentRecord{}, bad("end_date", ReasonBadDate, row.EndDate)
	}
	prize, err := decimal.NewFromString(strings.TrimSpace(row.USDPrize))
	if err != nil {
		return model.TournamentRecord{}, bad("usd_prize", ReasonBadPrize, row.USDPrize)
	}
	if prize.IsNegative() {
		return model.TournamentRecord{}, bad("usd_prize", ReasonNegativePrize, row.USDPrize)
	}

	return model.TournamentRecord{
		PlayerHandle: handle,
		TournamentID: strings.TrimSpace(row.TournamentID),
		GameID:       gameID,
		GameName:     strings.TrimSpace(row.GameName),
		EndDate:      end,
		USDPrize:     prize,
	}, nil
}

// parseDate accepts the configured layouts and keeps only the calendar date.
func (ld *Loader) parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range ld.dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// LoadProfiles validates player profile rows. Rows without a handle are
// rejected; unresolvable country codes are kept and counted, since they
// aggregate into the Unknown country.
func (ld *Loader) LoadProfiles(ctx context.Context, rows []RawProfile) ([]model.PlayerProfile, LoadReport) {
	report := newReport()
	seen := dedupe.New(dedupe.WithCapacity(len(rows)))
	out := make([]model.PlayerProfile, 0, len(rows))

	for _, row := range rows {
		handle := strings.TrimSpace(row.PlayerHandle)
		var merr *MalformedRecordError
		switch {
		case handle == "":
			merr = &MalformedRecordError{Line: row.Line, Field: "player_handle", Reason: ReasonMissingHandle}
		case seen.SeenAndRecord(ctx, handle):
			merr = &MalformedRecordError{Line: row.Line, Field: "player_handle", Reason: ReasonDuplicate, Value: handle}
		}
		if merr != nil {
			merr.Table = TablePlayers
			ld.rejected(ctx, &report, merr)
			continue
		}

		code := strings.TrimSpace(row.CountryCode)
		if _, ok := ld.refs.CountryOf(code); !ok {
			report.UnknownCountries++
			metrics.RecordUnknownReference("countries")
		}
		out = append(out, model.PlayerProfile{PlayerHandle: handle, CountryCode: code})
	}

	report.Accepted = len(out)
	ld.summarize(ctx, TablePlayers, report)
	return out, report
}

// ParseGames validates game metadata rows. It runs before reference tables
// exist, so it takes its own logger. Blank numeric cells load as zero.
func ParseGames(ctx context.Context, rows []RawGame, log logger.Logger) ([]model.Game, LoadReport) {
	if log == nil {
		log = logger.Nop()
	}
	ld := &Loader{log: log, maxErrors: 20}
	report := newReport()
	seen := dedupe.New(dedupe.WithCapacity(len(rows)))
	out := make([]model.Game, 0, len(rows))

	for _, row := range rows {
		g, merr := parseGame(row)
		if merr == nil && seen.SeenAndRecord(ctx, g.GameID) {
			merr = &MalformedRecordError{Line: row.Line, Field: "game_id", Reason: ReasonDuplicate, Value: g.GameID}
		}
		if merr != nil {
			merr.Table = TableGames
			ld.rejected(ctx, &report, merr)
			continue
		}
		out = append(out, g)
	}

	report.Accepted = len(out)
	ld.summarize(ctx, TableGames, report)
	return out, report
}

func parseGame(row RawGame) (model.Game, *MalformedRecordError) {
	bad := func(field, reason, value string) *MalformedRecordError {
		return &MalformedRecordError{Line: row.Line, Field: field, Reason: reason, Value: value}
	}

	g := model.Game{
		GameID:        strings.TrimSpace(row.GameID),
		GameName:      strings.TrimSpace(row.GameName),
		GameType:      strings.TrimSpace(row.GameType),
		TotalUSDPrize: decimal.Zero,
	}
	if g.GameID == "" {
		return g, bad("game_id", ReasonMissingGameID, row.GameID)
	}
	if g.GameType == "" {
		g.GameType = model.Unknown
	}

	if s := strings.TrimSpace(row.TotalUSDPrize); s != "" {
		prize, err := decimal.NewFromString(s)
		if err != nil {
			return g, bad("total_usd_prize", ReasonBadPrize, row.TotalUSDPrize)
		}
		if prize.IsNegative() {
			return g, bad("total_usd_prize", ReasonNegativePrize, row.TotalUSDPrize)
		}
		g.TotalUSDPrize = prize
	}

	var err error
	if g.TotalPlayers, err = parseCount(row.TotalPlayers); err != nil {
		return g, bad("total_players", ReasonBadNumber, row.TotalPlayers)
	}
	if g.TotalTournaments, err = parseCount(row.TotalTournaments); err != nil {
		return g, bad("total_tournaments", ReasonBadNumber, row.TotalTournaments)
	}
	return g, nil
}

// parseCount reads a non-negative integer. Blank is zero; values like "12.0"
// written by spreadsheet tools are accepted.
func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() || !d.Equal(d.Truncate(0)) {
		return 0, strconv.ErrSyntax
	}
	return int(d.IntPart()), nil
}

func (ld *Loader) rejected(ctx context.Context, report *LoadReport, err *MalformedRecordError) {
	report.reject(err, ld.maxErrors)
	metrics.RecordRecordRejected(err.Reason)
	ld.log.Debug(ctx, "row rejected",
		logger.String("table", err.Table),
		logger.Int("line", err.Line),
		logger.String("field", err.Field),
		logger.String("reason", err.Reason))
}

func (ld *Loader) summarize(ctx context.Context, table string, r LoadReport) {
	fields := []logger.Field{
		logger.String("table", table),
		logger.Int("accepted", r.Accepted),
		logger.Int("rejected", r.Rejected),
	}
	if err := r.MissingReferences(); err != nil {
		fields = append(fields, logger.Error(err))
	}
	if r.Rejected > 0 {
		ld.log.Warn(ctx, "table loaded with rejected rows", fields...)
		return
	}
	ld.log.Info(ctx, "table loaded", fields...)
}
