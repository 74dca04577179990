package model

import (
	"cmp"
	"slices"
	"time"
)

// Context is a window of document text around a match, in document coordinates.
type Context struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// RankedMatch is one located occurrence of the query in a document.
// Offsets are byte offsets into the original text, byte-order mark included.
type RankedMatch struct {
	Name       string     `json:"name"`
	Path       string     `json:"path"`
	RelPath    string     `json:"rel_path,omitempty"`
	Strategy   StrategyID `json:"strategy"`
	BOMLength  int        `json:"bom_length,omitempty"`
	Score      float64    `json:"score"`
	Similarity *float64   `json:"similarity,omitempty"`
	Start      int        `json:"start"`
	End        int        `json:"end"`
	Length     int        `json:"length"`
	Query      string     `json:"query"`
	Excerpt    string     `json:"excerpt,omitempty"`
	Context    Context    `json:"context"`
}

// MatchInput carries the values a RankedMatch is built from.
type MatchInput struct {
	Name       string
	Path       string
	RelPath    string
	Strategy   StrategyID
	BOMLength  int
	Similarity *float64
	Start      int
	End        int
	Query      string
	Excerpt    string
	Context    Context
}

// NewRankedMatch builds a RankedMatch and computes its reliability score.
func NewRankedMatch(in MatchInput) RankedMatch {
	return RankedMatch{
		Name:       in.Name,
		Path:       in.Path,
		RelPath:    in.RelPath,
		Strategy:   in.Strategy,
		BOMLength:  in.BOMLength,
		Score:      Reliability(in.Strategy, in.Similarity),
		Similarity: in.Similarity,
		Start:      in.Start,
		End:        in.End,
		Length:     in.End - in.Start,
		Query:      in.Query,
		Excerpt:    in.Excerpt,
		Context:    in.Context,
	}
}

// Reliability is the strategy base score plus the similarity, when present.
func Reliability(strategy StrategyID, similarity *float64) float64 {
	score := strategy.BaseScore()
	if similarity != nil {
		score += *similarity
	}
	return score
}

// SimilarityValue returns the similarity, or 0 when absent.
func (m RankedMatch) SimilarityValue() float64 {
	if m.Similarity == nil {
		return 0
	}
	return *m.Similarity
}

// StrategyName returns the name of the strategy that produced the match.
func (m RankedMatch) StrategyName() string {
	return m.Strategy.String()
}

// CompareRanked orders matches by descending score, then descending
// similarity, then ascending document name.
func CompareRanked(a, b RankedMatch) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	if c := cmp.Compare(b.SimilarityValue(), a.SimilarityValue()); c != 0 {
		return c
	}
	return cmp.Compare(a.Name, b.Name)
}

// SortRanked sorts matches in place. Equal matches keep their relative order.
func SortRanked(matches []RankedMatch) {
	slices.SortStableFunc(matches, CompareRanked)
}

// Outcome summarizes what one strategy did during a pass.
type Outcome struct {
	Strategy StrategyID `json:"strategy"`
	Matched  int        `json:"matched"`
	Rejected int        `json:"rejected"`
	Stopped  bool       `json:"stopped,omitempty"`
}

// Thresholds are the score limits a pass ran with.
type Thresholds struct {
	Similarity float64 `json:"similarity"`
	BestMatch  float64 `json:"best_match"`
}

// SearchPass is the persisted record of one search.
type SearchPass struct {
	ID          string        `json:"id"`
	Root        string        `json:"root"`
	CreatedAt   time.Time     `json:"created_at"`
	Strategies  []StrategyID  `json:"strategies"`
	Thresholds  Thresholds    `json:"thresholds"`
	QueryLength int           `json:"query_length"`
	Outcomes    []Outcome     `json:"outcomes"`
	Matches     []RankedMatch `json:"matches"`
}

// Best returns the top-ranked match of the pass.
func (p *SearchPass) Best() (RankedMatch, bool) {
	if p == nil || len(p.Matches) == 0 {
		return RankedMatch{}, false
	}
	return p.Matches[0], true
}

// Confident reports whether m meets the best-match threshold.
// Only the similarity part of the score counts for strategies that carry one;
// exact strategies are always confident.
func (t Thresholds) Confident(m RankedMatch) bool {
	if m.Similarity == nil {
		return true
	}
	return *m.Similarity >= t.BestMatch
}

// Confident reports whether m meets the pass's best-match threshold.
func (p *SearchPass) Confident(m RankedMatch) bool {
	return p.Thresholds.Confident(m)
}
