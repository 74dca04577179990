// Package similarity scores how alike two blocks of text are on a 0-100 scale.
package similarity

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Weights of the score components.
const (
	charWeight      = 0.3
	wordWeight      = 0.4
	lengthWeight    = 0.2
	substringWeight = 0.3
)

// Max is the highest score Score returns.
const Max = 100.0

// Score compares a and b after trimming every line and dropping blank ones.
// Identical normalized texts score Max. If only one side is empty the score is 0.
// Score is symmetric.
func Score(a, b string) float64 {
	na, nb := normalize(a), normalize(b)
	if na == nb {
		return Max
	}
	if na == "" || nb == "" {
		return 0
	}

	la, lb := strings.ToLower(na), strings.ToLower(nb)

	charSim := jaccard(runeSet(la), runeSet(lb))
	wordSim := jaccard(wordSet(la), wordSet(lb))

	ra, rb := utf8.RuneCountInString(la), utf8.RuneCountInString(lb)
	lengthRatio := float64(min(ra, rb)) / float64(max(ra, rb))

	substring := 0.0
	if strings.Contains(la, lb) || strings.Contains(lb, la) {
		substring = 1
	}

	score := (charWeight*charSim + wordWeight*wordSim + lengthWeight*lengthRatio + substringWeight*substring) * 100
	return math.Min(Max, score)
}

func normalize(s string) string {
	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if t := strings.TrimSpace(line); t != "" {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, "\n")
}

func runeSet(s string) map[rune]struct{} {
	set := make(map[rune]struct{})
	for _, r := range s {
		set[r] = struct{}{}
	}
	return set
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}

func jaccard[T comparable](a, b map[T]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
