// Package risk aggregates per-attack severity into network-wide figures.
package risk

import (
	"slices"

	"github.com/dd0wney/cluso-attackmap/pkg/severity"
	"github.com/dd0wney/cluso-attackmap/pkg/topology"
)

// MaxNetworkScore caps the network aggregate. Per-attack scores are not
// capped.
const MaxNetworkScore = 100

// HighConfidence is the confidence above which an attack counts as high
// confidence in a Summary
const HighConfidence = 0.8

// NetworkScore returns min(round(mean score), 100), or 0 for no attacks.
func NetworkScore(attacks []topology.Attack) int {
	scores := make([]int, len(attacks))
	for i, a := range attacks {
		scores[i] = severity.Score(a)
	}
	return NetworkScoreFromScores(scores)
}

// NetworkScoreFromScores aggregates already computed per-attack scores.
func NetworkScoreFromScores(scores []int) int {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	mean := float64(sum) / float64(len(scores))
	return min(severity.Round(mean), MaxNetworkScore)
}

// Ranked is an attack with its score, level and position in the input
type Ranked struct {
	Attack   topology.Attack `json:"attack"`
	Score    int             `json:"score"`
	Level    severity.Level  `json:"level"`
	Position int             `json:"position"`
}

// Prioritize orders attacks by descending score for mitigation. Equal
// scores keep their input order.
func Prioritize(attacks []topology.Attack) []Ranked {
	ranked := make([]Ranked, len(attacks))
	for i, a := range attacks {
		s := severity.Score(a)
		ranked[i] = Ranked{
			Attack:   a,
			Score:    s,
			Level:    severity.Classify(s),
			Position: i,
		}
	}
	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		return b.Score - a.Score
	})
	return ranked
}
