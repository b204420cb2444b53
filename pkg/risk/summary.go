package risk

import (
	"github.com/dd0wney/cluso-attackmap/pkg/severity"
	"github.com/dd0wney/cluso-attackmap/pkg/topology"
)

// Summary is the attack statistics panel of the dashboard
type Summary struct {
	Total          int                         `json:"total_attacks"`
	ByType         map[topology.AttackType]int `json:"attacks_by_type"`
	BySeverity     map[topology.Severity]int   `json:"severity_distribution"`
	ByLevel        map[severity.Level]int      `json:"level_distribution"`
	HighConfidence int                         `json:"high_confidence_attacks"`
	NetworkScore   int                         `json:"network_risk_score"`
	TopAttack      *Ranked                     `json:"top_attack,omitempty"`
}

// Summarize computes counts and the network score in one pass. Missing
// types are counted under "unknown"; missing severities under the
// default.
func Summarize(attacks []topology.Attack) Summary {
	sum := Summary{
		Total:      len(attacks),
		ByType:     make(map[topology.AttackType]int),
		BySeverity: make(map[topology.Severity]int),
		ByLevel:    make(map[severity.Level]int),
	}

	scores := make([]int, len(attacks))
	for i, a := range attacks {
		t := a.Type
		if t == "" {
			t = "unknown"
		}
		sum.ByType[t]++

		sev := a.Severity
		if sev == "" {
			sev = topology.DefaultSeverity
		}
		sum.BySeverity[sev]++

		if a.Confidence > HighConfidence {
			sum.HighConfidence++
		}

		scores[i] = severity.Score(a)
		sum.ByLevel[severity.Classify(scores[i])]++
	}

	sum.NetworkScore = NetworkScoreFromScores(scores)

	if len(attacks) > 0 {
		top := Prioritize(attacks)[0]
		sum.TopAttack = &top
	}

	return sum
}
