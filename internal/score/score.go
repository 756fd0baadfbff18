// Package score recovers the numeric fit score embedded in a generated report.
package score

import (
	"regexp"
	"strconv"
)

// Tier is a coarse bucket derived from a numeric score.
type Tier string

const (
	TierLow    Tier = "Low"
	TierMedium Tier = "Medium"
	TierHigh   Tier = "High"
)

const (
	highThreshold   = 75
	mediumThreshold = 50
	maxScore        = 100
)

// Score is derived from report text on demand and never stored.
type Score struct {
	Value int
	Tier  Tier
}

// markerPattern matches "OVERALL SCORE: 82/100" with optional emphasis
// markup (`*`, `_`) and whitespace around the number.
var markerPattern = regexp.MustCompile(`OVERALL SCORE:[\s*_]*(\d+)[\s*_]*/\s*100`)

// Extract returns the score of the first marker found in report. A report
// without a marker scores 0. When a report carries several markers the first
// one wins.
func Extract(report string) Score {
	match := markerPattern.FindStringSubmatch(report)
	if match == nil {
		return New(0)
	}

	value, err := strconv.Atoi(match[1])
	if err != nil {
		// only reachable on overflow of absurdly long digit runs
		return New(maxScore)
	}

	return New(value)
}

// New clamps value into 0..100 and attaches its tier.
func New(value int) Score {
	if value < 0 {
		value = 0
	}
	if value > maxScore {
		value = maxScore
	}
	return Score{Value: value, Tier: TierFor(value)}
}

// TierFor maps a score to its tier: >=75 High, 50..74 Medium, else Low.
func TierFor(value int) Tier {
	switch {
	case value >= highThreshold:
		return TierHigh
	case value >= mediumThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

func (s Score) String() string {
	return strconv.Itoa(s.Value) + "/100 (" + string(s.Tier) + ")"
}
