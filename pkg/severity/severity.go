// Package severity scores classified attacks. Everything here is a pure
// function of an attack's own fields; there is no instance state.
package severity

import (
	"math"

	"github.com/dd0wney/cluso-attackmap/pkg/topology"
)

// Level is the qualitative band of a score
type Level string

const (
	LevelCritical Level = "critical"
	LevelHigh     Level = "high"
	LevelMedium   Level = "medium"
	LevelLow      Level = "low"
)

// Classification thresholds, inclusive lower bounds
const (
	CriticalThreshold = 80
	HighThreshold     = 60
	MediumThreshold   = 40
)

const (
	// DefaultTypeWeight applies to unknown or missing attack types
	DefaultTypeWeight = 0.50
	// DefaultSeverityMultiplier applies to unknown or missing severities
	DefaultSeverityMultiplier = 1.0
	// ImpactSaturation is the endpoint count at which node impact reaches 1
	ImpactSaturation = 10
)

var typeWeights = map[topology.AttackType]float64{
	topology.AttackDDoS:     0.90,
	topology.AttackBotnet:   0.85,
	topology.AttackC2:       0.80,
	topology.AttackWorm:     0.70,
	topology.AttackPortScan: 0.50,
}

var severityMultipliers = map[topology.Severity]float64{
	topology.SeverityHigh:   1.5,
	topology.SeverityMedium: 1.0,
	topology.SeverityLow:    0.5,
}

// TypeWeight returns the weight for an attack type.
func TypeWeight(t topology.AttackType) float64 {
	if w, ok := typeWeights[t]; ok {
		return w
	}
	return DefaultTypeWeight
}

// SeverityMultiplier returns the multiplier for a declared severity.
func SeverityMultiplier(s topology.Severity) float64 {
	if m, ok := severityMultipliers[s]; ok {
		return m
	}
	return DefaultSeverityMultiplier
}

// NodeImpact ramps linearly with the combined endpoint count and
// saturates at 1.0.
func NodeImpact(a topology.Attack) float64 {
	return math.Min(float64(a.Endpoints())/ImpactSaturation, 1.0)
}

// Breakdown lists every factor that went into a score
type Breakdown struct {
	TypeWeight         float64 `json:"type_weight"`
	SeverityMultiplier float64 `json:"severity_multiplier"`
	NodeImpact         float64 `json:"node_impact"`
	Confidence         float64 `json:"confidence"`
	Raw                float64 `json:"raw"`
	Score              int     `json:"score"`
	Level              Level   `json:"level"`
}

// Assess scores an attack and keeps the intermediate factors.
//
// The result is not capped: ddos with high severity, full impact and
// full confidence scores 135. Confidence is used as given.
func Assess(a topology.Attack) Breakdown {
	b := Breakdown{
		TypeWeight:         TypeWeight(a.Type),
		SeverityMultiplier: SeverityMultiplier(a.Severity),
		NodeImpact:         NodeImpact(a),
		Confidence:         a.Confidence,
	}
	b.Raw = 100 * b.TypeWeight * b.SeverityMultiplier * b.NodeImpact * b.Confidence
	b.Score = Round(b.Raw)
	b.Level = Classify(b.Score)
	return b
}

// Score returns the rounded severity score of an attack.
func Score(a topology.Attack) int {
	return Assess(a).Score
}

// Classify maps a score onto its level.
func Classify(score int) Level {
	switch {
	case score >= CriticalThreshold:
		return LevelCritical
	case score >= HighThreshold:
		return LevelHigh
	case score >= MediumThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Round rounds half up.
func Round(v float64) int {
	return int(math.Floor(v + 0.5))
}
