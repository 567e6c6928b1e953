// Package repository holds the immutable record store and the loader that
// validates raw input rows into it.
package repository

import (
	"fmt"
	"sort"

	"github.com/okian/prizeboard/internal/domain/model"
)

// RecordStore is an immutable table of tournament records indexed by player.
// Nothing mutates a store after NewRecordStore returns.
type RecordStore struct {
	records  []model.TournamentRecord
	byPlayer map[string][]int
	players  []string
}

// NewRecordStore copies records into a new store.
func NewRecordStore(records []model.TournamentRecord) *RecordStore {
	s := &RecordStore{
		records:  append([]model.TournamentRecord(nil), records...),
		byPlayer: make(map[string][]int),
	}
	for i, r := range s.records {
		if _, ok := s.byPlayer[r.PlayerHandle]; !ok {
			s.players = append(s.players, r.PlayerHandle)
		}
		s.byPlayer[r.PlayerHandle] = append(s.byPlayer[r.PlayerHandle], i)
	}
	sort.Strings(s.players)
	return s
}

// All returns every record in load order. The slice is shared and must not
// be modified.
func (s *RecordStore) All() []model.TournamentRecord {
	return s.records[:len(s.records):len(s.records)]
}

// ByPlayer returns a copy of one player's records in load order.
func (s *RecordStore) ByPlayer(handle string) ([]model.TournamentRecord, error) {
	idx, ok := s.byPlayer[handle]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, handle)
	}
	out := make([]model.TournamentRecord, len(idx))
	for i, j := range idx {
		out[i] = s.records[j]
	}
	return out, nil
}

// Players returns the distinct handles, sorted.
func (s *RecordStore) Players() []string {
	return append([]string(nil), s.players...)
}

// Len returns the number of records.
func (s *RecordStore) Len() int {
	return len(s.records)
}

// ByGameType returns a copy of the records of one game type in load order.
// Records with an unmapped game carry model.Unknown.
func (s *RecordStore) ByGameType(gameType string) []model.TournamentRecord {
	out := make([]model.TournamentRecord, 0, len(s.records))
	for _, r := range s.records {
		if r.GameType == gameType {
			out = append(out, r)
		}
	}
	return out
}
