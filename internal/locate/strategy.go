// Package locate finds a query inside a set of documents using an ordered
// chain of matching strategies, and ranks what it finds.
package locate

import (
	"errors"
	"fmt"

	"github.com/aidanlsb/pastesearch/internal/document"
	"github.com/aidanlsb/pastesearch/internal/model"
)

var (
	// ErrOutOfBounds means a candidate's offsets fall outside its document.
	ErrOutOfBounds = errors.New("offsets out of bounds")
	// ErrNotEquivalent means the text at a candidate's offsets does not satisfy
	// the strategy's equivalence with the query.
	ErrNotEquivalent = errors.New("text at offsets is not equivalent to query")
)

// Candidate is an unvalidated location produced by a strategy.
// Offsets are document coordinates (byte-order mark included).
type Candidate struct {
	Strategy   model.StrategyID
	Start      int
	End        int
	Similarity *float64
	Excerpt    string
}

// Length is the span of the candidate in bytes.
func (c Candidate) Length() int {
	return c.End - c.Start
}

// Strategy is one way of locating a query in a document.
type Strategy interface {
	ID() model.StrategyID
	// StopsAtFirstHit reports whether the strategy ends after the first
	// document that yields a valid candidate.
	StopsAtFirstHit() bool
	Locate(doc *document.Document, query string) (Candidate, bool)
	// Equivalent reports whether slice, cut from the document at c's
	// offsets, matches query under this strategy's rules.
	Equivalent(query string, c Candidate, slice string) bool
}

// Validate re-slices the document at c's offsets and checks the strategy's
// equivalence against the query.
func Validate(s Strategy, doc *document.Document, query string, c Candidate) error {
	slice, ok := doc.Slice(c.Start, c.End)
	if !ok {
		return fmt.Errorf("%w: [%d, %d) in document of length %d", ErrOutOfBounds, c.Start, c.End, doc.Len())
	}
	if !s.Equivalent(query, c, slice) {
		return fmt.Errorf("%w: strategy %s at [%d, %d)", ErrNotEquivalent, s.ID(), c.Start, c.End)
	}
	return nil
}

// New returns the strategy for id.
func New(id model.StrategyID, similarityThreshold float64) (Strategy, error) {
	switch id {
	case model.StrategyLiteral:
		return literal{}, nil
	case model.StrategyWholeFile:
		return wholeFile{}, nil
	case model.StrategyNormalized:
		return normalized{mode: canonicalMode}, nil
	case model.StrategyTrimmed:
		return trimmed{}, nil
	case model.StrategyAnchored:
		return anchored{threshold: similarityThreshold}, nil
	case model.StrategyStripCR:
		return normalized{mode: stripCRMode}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %d", int(id))
	}
}

// FindExact locates text byte-exactly, then after newline normalization.
// The returned candidate carries the strategy that succeeded.
func FindExact(doc *document.Document, text string) (Candidate, bool) {
	if c, ok := (literal{}).Locate(doc, text); ok {
		return c, true
	}
	return normalized{mode: canonicalMode}.Locate(doc, text)
}
