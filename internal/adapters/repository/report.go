package repository

import (
	"fmt"
	"sort"

	"github.com/okian/prizeboard/internal/domain/reference"
)

// LoadReport counts what a load accepted and rejected.
type LoadReport struct {
	Accepted         int            `json:"accepted"`
	Rejected         int            `json:"rejected"`
	RejectedByReason map[string]int `json:"rejected_by_reason"`
	// UnknownGames counts accepted records whose game id is not in the
	// reference table; they are typed model.Unknown.
	UnknownGames     int      `json:"unknown_games"`
	UnknownGameIDs   []string `json:"unknown_game_ids,omitempty"`
	UnknownCountries int      `json:"unknown_countries"`
	// Errors keeps the first rejections for display.
	Errors []*MalformedRecordError `json:"-"`
}

func newReport() LoadReport {
	return LoadReport{RejectedByReason: make(map[string]int)}
}

func (r *LoadReport) reject(err *MalformedRecordError, keep int) {
	r.Rejected++
	r.RejectedByReason[err.Reason]++
	if len(r.Errors) < keep {
		r.Errors = append(r.Errors, err)
	}
}

// Total is the number of rows the load saw.
func (r LoadReport) Total() int {
	return r.Accepted + r.Rejected
}

// MissingReferences reports the rows that fell into an Unknown bucket as a
// soft error matching reference.ErrMissingReference. It is nil when every
// game id and country code resolved.
func (r LoadReport) MissingReferences() error {
	if r.UnknownGames == 0 && r.UnknownCountries == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d records with unknown games %v, %d profiles with unknown countries",
		reference.ErrMissingReference, r.UnknownGames, r.UnknownGameIDs, r.UnknownCountries)
}

// Merge adds o into r.
func (r *LoadReport) Merge(o LoadReport) {
	if r.RejectedByReason == nil {
		r.RejectedByReason = make(map[string]int)
	}
	r.Accepted += o.Accepted
	r.Rejected += o.Rejected
	for k, v := range o.RejectedByReason {
		r.RejectedByReason[k] += v
	}
	r.UnknownGames += o.UnknownGames
	r.UnknownCountries += o.UnknownCountries
	ids := make(map[string]struct{}, len(r.UnknownGameIDs)+len(o.UnknownGameIDs))
	for _, id := range append(append([]string(nil), r.UnknownGameIDs...), o.UnknownGameIDs...) {
		ids[id] = struct{}{}
	}
	r.UnknownGameIDs = sortedKeys(ids)
	r.Errors = append(r.Errors, o.Errors...)
}

func sortedKeys(m map[string]struct{}) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
