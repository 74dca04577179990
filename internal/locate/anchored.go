package locate

import (
	"math"
	"strings"

	"github.com/aidanlsb/pastesearch/internal/document"
	"github.com/aidanlsb/pastesearch/internal/model"
	"github.com/aidanlsb/pastesearch/internal/newline"
	"github.com/aidanlsb/pastesearch/internal/similarity"
)

// Bonuses added to the excerpt similarity by the anchored strategy.
const (
	bonusNormalizedMiddle = 35.0
	bonusPrecise          = 25.0
	bonusMiddleBetween    = 10.0
	bonusDistinctMiddle   = 20.0
	bonusRecovered        = 15.0

	distinctMiddleMinLen = 10
)

// DefaultSimilarityThreshold is the minimum anchored score for a match.
const DefaultSimilarityThreshold = 10.0

type anchors struct {
	first, middle, last string
}

func pickAnchors(query string) (anchors, bool) {
	var lines []string
	for _, line := range strings.Split(newline.Normalize(query), "\n") {
		if t := strings.TrimSpace(line); t != "" {
			lines = append(lines, t)
		}
	}

	switch len(lines) {
	case 0:
		return anchors{}, false
	case 1:
		return anchors{lines[0], lines[0], lines[0]}, true
	case 2:
		return anchors{lines[0], lines[0], lines[1]}, true
	default:
		return anchors{lines[0], lines[len(lines)/2], lines[len(lines)-1]}, true
	}
}

// AnchorReport explains how the anchored strategy scored one document.
type AnchorReport struct {
	First, Middle, Last string
	FirstPos, LastPos   int
	Similarity          float64
	Bonus               float64
	Score               float64
	Excerpt             string
	// ExcerptStart and ExcerptEnd are content offsets, byte-order mark excluded.
	ExcerptStart, ExcerptEnd int
	precise                  bool
}

// anchored scores a document by locating the query's first and last lines,
// checking the middle line, and comparing the text between them.
type anchored struct {
	threshold float64
}

func (anchored) ID() model.StrategyID   { return model.StrategyAnchored }
func (anchored) StopsAtFirstHit() bool { return false }

func (a anchored) Locate(doc *document.Document, query string) (Candidate, bool) {
	r, ok := Anchor(doc, query)
	if !ok || r.Score < a.threshold {
		return Candidate{}, false
	}

	score := r.Score
	c, recovered := FindExact(doc, query)
	if recovered {
		if !r.precise {
			score = math.Min(similarity.Max, score+bonusRecovered)
		}
	} else {
		c = span(model.StrategyAnchored, doc, r.ExcerptStart, r.ExcerptEnd)
	}

	c.Strategy = model.StrategyAnchored
	c.Similarity = &score
	c.Excerpt = r.Excerpt
	return c, true
}

func (anchored) Equivalent(query string, c Candidate, slice string) bool {
	return newline.Normalize(slice) == newline.Normalize(query) || slice == c.Excerpt
}

// Anchor computes the anchored score of query against doc. It reports false
// when the outer anchors cannot be found.
func Anchor(doc *document.Document, query string) (AnchorReport, bool) {
	anc, ok := pickAnchors(query)
	if !ok {
		return AnchorReport{}, false
	}
	content := doc.Content

	posFirst := strings.Index(content, anc.first)
	if posFirst < 0 {
		return AnchorReport{}, false
	}
	afterFirst := posFirst + len(anc.first)

	posLast := posFirst
	if anc.last != anc.first {
		i := strings.Index(content[afterFirst:], anc.last)
		if i < 0 {
			return AnchorReport{}, false
		}
		posLast = afterFirst + i
	}

	r := AnchorReport{
		First:    anc.first,
		Middle:   anc.middle,
		Last:     anc.last,
		FirstPos: posFirst,
		LastPos:  posLast,
	}

	if middleInNormalizedRange(content, anc) {
		r.Bonus += bonusNormalizedMiddle
		if _, ok := FindExact(doc, query); ok {
			r.Bonus += bonusPrecise
			r.precise = true
		}
	}

	distinctMiddle := anc.middle != anc.first && anc.middle != anc.last
	if distinctMiddle && afterFirst <= posLast && strings.Contains(content[afterFirst:posLast], anc.middle) {
		r.Bonus += bonusMiddleBetween
	}
	if anc.first == anc.last && anc.middle != anc.first && len(strings.TrimSpace(anc.middle)) > distinctMiddleMinLen {
		r.Bonus += bonusDistinctMiddle
	}

	afterLast := posLast + len(anc.last)
	lineEnd := len(content)
	if i := strings.IndexByte(content[afterLast:], '\n'); i >= 0 {
		lineEnd = afterLast + i
	}
	r.ExcerptStart = posFirst
	r.ExcerptEnd = lineEnd
	r.Excerpt = content[posFirst:lineEnd]

	r.Similarity = similarity.Score(query, r.Excerpt)
	r.Score = math.Min(similarity.Max, r.Similarity+r.Bonus)
	return r, true
}

// middleInNormalizedRange reports whether the middle anchor first occurs
// between the outer anchors in the newline-normalized content.
func middleInNormalizedRange(content string, anc anchors) bool {
	norm := newline.Normalize(content)
	mid := strings.Index(norm, anc.middle)
	if mid < 0 {
		return false
	}
	first := strings.Index(norm, anc.first)
	if first < 0 {
		return false
	}
	afterFirst := first + len(anc.first)
	last := -1
	if i := strings.Index(norm[afterFirst:], anc.last); i >= 0 {
		last = afterFirst + i
	} else if anc.last == anc.first {
		last = first
	}
	return first <= mid && mid <= last
}
