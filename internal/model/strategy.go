// Package model defines the shared data types for search passes and their
// ranked matches.
package model

import (
	"fmt"
	"slices"
	"strconv"
)

// StrategyID identifies a matching strategy. Strategies run in ascending order.
type StrategyID int

const (
	StrategyLiteral    StrategyID = 1
	StrategyWholeFile  StrategyID = 2
	StrategyNormalized StrategyID = 3
	StrategyTrimmed    StrategyID = 4
	StrategyAnchored   StrategyID = 5
	StrategyStripCR    StrategyID = 6
)

// AllStrategies lists every strategy in execution order.
func AllStrategies() []StrategyID {
	return []StrategyID{
		StrategyLiteral,
		StrategyWholeFile,
		StrategyNormalized,
		StrategyTrimmed,
		StrategyAnchored,
		StrategyStripCR,
	}
}

var strategyNames = map[StrategyID]string{
	StrategyLiteral:    "literal",
	StrategyWholeFile:  "whole-file",
	StrategyNormalized: "normalized",
	StrategyTrimmed:    "trimmed",
	StrategyAnchored:   "anchored",
	StrategyStripCR:    "strip-cr",
}

var baseScores = map[StrategyID]float64{
	StrategyLiteral:    500,
	StrategyWholeFile:  400,
	StrategyNormalized: 300,
	StrategyTrimmed:    200,
	StrategyAnchored:   100,
	StrategyStripCR:    350,
}

// String returns the short strategy name.
func (s StrategyID) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("strategy-%d", int(s))
}

// Valid reports whether s is a known strategy.
func (s StrategyID) Valid() bool {
	_, ok := baseScores[s]
	return ok
}

// BaseScore is the fixed reliability contribution of the strategy.
func (s StrategyID) BaseScore() float64 {
	return baseScores[s]
}

// ParseStrategy resolves a strategy from its name or number.
func ParseStrategy(v string) (StrategyID, error) {
	for id, name := range strategyNames {
		if name == v {
			return id, nil
		}
	}
	if n, err := strconv.Atoi(v); err == nil && StrategyID(n).Valid() {
		return StrategyID(n), nil
	}
	return 0, fmt.Errorf("unknown strategy %q", v)
}

// SortStrategies puts ids in execution order.
func SortStrategies(ids []StrategyID) {
	slices.Sort(ids)
}
