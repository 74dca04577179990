package locate

import (
	"slices"

	"github.com/aidanlsb/pastesearch/internal/model"
)

type matchKey struct {
	path     string
	strategy model.StrategyID
}

// ResultSet accumulates the matches of a single search pass.
// It holds at most one match per (document path, strategy).
type ResultSet struct {
	matches  []model.RankedMatch
	seen     map[matchKey]struct{}
	outcomes []model.Outcome
}

// NewResultSet returns an empty result set.
func NewResultSet() *ResultSet {
	return &ResultSet{seen: make(map[matchKey]struct{})}
}

// Add records m unless a match for the same document and strategy exists.
func (r *ResultSet) Add(m model.RankedMatch) bool {
	key := matchKey{path: m.Path, strategy: m.Strategy}
	if _, dup := r.seen[key]; dup {
		return false
	}
	r.seen[key] = struct{}{}
	r.matches = append(r.matches, m)
	return true
}

// Len returns the number of matches.
func (r *ResultSet) Len() int {
	return len(r.matches)
}

// Matches returns the matches in search order.
func (r *ResultSet) Matches() []model.RankedMatch {
	return slices.Clone(r.matches)
}

// Ranked returns the matches in ranking order.
func (r *ResultSet) Ranked() []model.RankedMatch {
	out := slices.Clone(r.matches)
	model.SortRanked(out)
	return out
}

// Outcomes returns per-strategy summaries in execution order.
func (r *ResultSet) Outcomes() []model.Outcome {
	return slices.Clone(r.outcomes)
}

func (r *ResultSet) addOutcome(o model.Outcome) {
	r.outcomes = append(r.outcomes, o)
}
