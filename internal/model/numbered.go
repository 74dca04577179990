package model

// Numbered wraps a match with its 1-indexed rank for display and selection.
type Numbered struct {
	Rank  int         `json:"rank"`
	Match RankedMatch `json:"match"`
}

// NumberedList numbers matches in their current order.
func NumberedList(matches []RankedMatch) []Numbered {
	out := make([]Numbered, len(matches))
	for i, m := range matches {
		out[i] = Numbered{Rank: i + 1, Match: m}
	}
	return out
}
