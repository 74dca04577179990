package locate

import (
	"strings"

	"github.com/aidanlsb/pastesearch/internal/document"
	"github.com/aidanlsb/pastesearch/internal/model"
	"github.com/aidanlsb/pastesearch/internal/newline"
)

type literal struct{}

func (literal) ID() model.StrategyID   { return model.StrategyLiteral }
func (literal) StopsAtFirstHit() bool { return true }

func (literal) Locate(doc *document.Document, query string) (Candidate, bool) {
	if query == "" {
		return Candidate{}, false
	}
	i := strings.Index(doc.Content, query)
	if i < 0 {
		return Candidate{}, false
	}
	return span(model.StrategyLiteral, doc, i, i+len(query)), true
}

func (literal) Equivalent(query string, _ Candidate, slice string) bool {
	return slice == query
}

type wholeFile struct{}

func (wholeFile) ID() model.StrategyID   { return model.StrategyWholeFile }
func (wholeFile) StopsAtFirstHit() bool { return true }

func (wholeFile) Locate(doc *document.Document, query string) (Candidate, bool) {
	if query == "" || doc.Content != query {
		return Candidate{}, false
	}
	return span(model.StrategyWholeFile, doc, 0, len(doc.Content)), true
}

func (wholeFile) Equivalent(query string, _ Candidate, slice string) bool {
	return slice == query
}

// trimmed matches the query with surrounding whitespace ignored. The whole
// query is preferred when it occurs verbatim.
type trimmed struct{}

func (trimmed) ID() model.StrategyID   { return model.StrategyTrimmed }
func (trimmed) StopsAtFirstHit() bool { return true }

func (trimmed) Locate(doc *document.Document, query string) (Candidate, bool) {
	core := strings.TrimSpace(query)
	if core == "" {
		return Candidate{}, false
	}
	if i := strings.Index(doc.Content, query); i >= 0 {
		return span(model.StrategyTrimmed, doc, i, i+len(query)), true
	}
	if i := strings.Index(doc.Content, core); i >= 0 {
		return span(model.StrategyTrimmed, doc, i, i+len(core)), true
	}
	return Candidate{}, false
}

func (trimmed) Equivalent(query string, _ Candidate, slice string) bool {
	return strings.TrimSpace(slice) == strings.TrimSpace(query)
}

const (
	canonicalMode = newline.ModeCanonical
	stripCRMode   = newline.ModeStripCR
)

// normalized matches after rewriting line endings in both texts, then maps
// the hit back to original offsets.
type normalized struct {
	mode newline.Mode
}

func (n normalized) ID() model.StrategyID {
	if n.mode == stripCRMode {
		return model.StrategyStripCR
	}
	return model.StrategyNormalized
}

func (normalized) StopsAtFirstHit() bool { return false }

func (n normalized) Locate(doc *document.Document, query string) (Candidate, bool) {
	nq := n.mode.Transform(query)
	if nq == "" {
		return Candidate{}, false
	}
	view := newline.NewView(doc.Content, n.mode)
	i := strings.Index(view.Normalized, nq)
	if i < 0 {
		return Candidate{}, false
	}
	start, end, err := view.Span(i, len(nq))
	if err != nil {
		return Candidate{}, false
	}
	return span(n.ID(), doc, start, end), true
}

func (n normalized) Equivalent(query string, _ Candidate, slice string) bool {
	return n.mode.Transform(slice) == n.mode.Transform(query)
}

// span converts content offsets to a candidate in document coordinates.
func span(id model.StrategyID, doc *document.Document, start, end int) Candidate {
	return Candidate{
		Strategy: id,
		Start:    start + doc.BOMLength,
		End:      end + doc.BOMLength,
	}
}
