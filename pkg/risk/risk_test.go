package risk

import (
	"testing"

	"github.com/dd0wney/cluso-attackmap/pkg/severity"
	"github.com/dd0wney/cluso-attackmap/pkg/topology"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func nodes(prefix string, n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = prefix + string(rune('a'+i))
	}
	return ids
}

func TestNetworkScoreFromScores(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		want   int
	}{
		{"empty", nil, 0},
		{"mean within cap", []int{90, 50, 10}, 50},
		{"rounds half up", []int{1, 2}, 2},
		{"rounds down", []int{10, 10, 11}, 10},
		{"capped at 100", []int{135, 135}, 100},
		{"single", []int{42}, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NetworkScoreFromScores(tt.scores); got != tt.want {
				t.Errorf("NetworkScoreFromScores(%v) = %d, want %d", tt.scores, got, tt.want)
			}
		})
	}
}

func TestNetworkScore(t *testing.T) {
	if got := NetworkScore(nil); got != 0 {
		t.Errorf("Expected 0 for no attacks, got %d", got)
	}

	attacks := []topology.Attack{{
		Type:        topology.AttackDDoS,
		Severity:    topology.SeverityHigh,
		SourceNodes: nodes("s", 5),
		TargetNodes: nodes("t", 5),
		Confidence:  1.0,
	}}
	if got := NetworkScore(attacks); got != 100 {
		t.Errorf("Expected network score capped at 100, got %d", got)
	}
}

func TestPrioritizeStable(t *testing.T) {
	worm := func(id string) topology.Attack {
		return topology.Attack{
			ID:          id,
			Type:        topology.AttackWorm,
			SourceNodes: []string{"a"},
			TargetNodes: []string{"b"},
			Confidence:  1.0,
		}
	}
	attacks := []topology.Attack{
		worm("x"),
		worm("y"),
		worm("z"),
		{
			ID:          "big",
			Type:        topology.AttackDDoS,
			Severity:    topology.SeverityHigh,
			SourceNodes: nodes("s", 5),
			TargetNodes: nodes("t", 5),
			Confidence:  1.0,
		},
	}

	ranked := Prioritize(attacks)

	wantIDs := []string{"big", "x", "y", "z"}
	for i, id := range wantIDs {
		if ranked[i].Attack.ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, ranked[i].Attack.ID)
		}
	}
	if ranked[0].Score != 135 || ranked[0].Level != severity.LevelCritical {
		t.Errorf("Unexpected top entry %+v", ranked[0])
	}
	if ranked[1].Score != 14 || ranked[1].Position != 0 {
		t.Errorf("Unexpected second entry %+v", ranked[1])
	}
}

func TestPrioritizeProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("descending and stable on ties", prop.ForAll(
		func(confidences []float64) bool {
			attacks := make([]topology.Attack, len(confidences))
			for i, c := range confidences {
				attacks[i] = topology.Attack{
					Type:        topology.AttackDDoS,
					SourceNodes: []string{"a", "b"},
					TargetNodes: []string{"c"},
					Confidence:  c,
				}
			}

			ranked := Prioritize(attacks)
			if len(ranked) != len(attacks) {
				return false
			}
			for i := 1; i < len(ranked); i++ {
				prev, cur := ranked[i-1], ranked[i]
				if prev.Score < cur.Score {
					return false
				}
				if prev.Score == cur.Score && prev.Position > cur.Position {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(0, 1)),
	))

	properties.TestingRun(t)
}

func TestSummarize(t *testing.T) {
	attacks := []topology.Attack{
		{
			Type:        topology.AttackDDoS,
			Severity:    topology.SeverityHigh,
			SourceNodes: nodes("s", 5),
			TargetNodes: nodes("t", 5),
			Confidence:  1.0,
		},
		{
			Type:        topology.AttackBotnet,
			SourceNodes: []string{"a"},
			TargetNodes: []string{"b"},
			Confidence:  0.9,
		},
		{
			Severity:    topology.SeverityLow,
			SourceNodes: []string{"a"},
			Confidence:  0.5,
		},
	}

	sum := Summarize(attacks)

	if sum.Total != 3 {
		t.Errorf("Expected 3 attacks, got %d", sum.Total)
	}
	if sum.ByType[topology.AttackDDoS] != 1 || sum.ByType[topology.AttackBotnet] != 1 || sum.ByType["unknown"] != 1 {
		t.Errorf("Unexpected type counts %v", sum.ByType)
	}
	if sum.BySeverity[topology.SeverityHigh] != 1 || sum.BySeverity[topology.SeverityMedium] != 1 || sum.BySeverity[topology.SeverityLow] != 1 {
		t.Errorf("Unexpected severity counts %v", sum.BySeverity)
	}
	if sum.ByLevel[severity.LevelCritical] != 1 || sum.ByLevel[severity.LevelLow] != 2 {
		t.Errorf("Unexpected level counts %v", sum.ByLevel)
	}
	if sum.HighConfidence != 2 {
		t.Errorf("Expected 2 high confidence attacks, got %d", sum.HighConfidence)
	}
	// (135 + 15 + 1) / 3 = 50.33
	if sum.NetworkScore != 50 {
		t.Errorf("Expected network score 50, got %d", sum.NetworkScore)
	}
	if sum.TopAttack == nil || sum.TopAttack.Score != 135 {
		t.Errorf("Unexpected top attack %+v", sum.TopAttack)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	sum := Summarize(nil)

	if sum.Total != 0 || sum.NetworkScore != 0 || sum.TopAttack != nil {
		t.Errorf("Unexpected summary for no attacks: %+v", sum)
	}
}
