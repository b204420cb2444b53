package topology

import "github.com/google/uuid"

// AttackType is the classification assigned by the detection collaborator
type AttackType string

const (
	AttackDDoS     AttackType = "ddos"
	AttackBotnet   AttackType = "botnet"
	AttackC2       AttackType = "c2"
	AttackWorm     AttackType = "worm"
	AttackPortScan AttackType = "port_scan"
)

// Severity is the declared severity of an attack record
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// DefaultSeverity applies when a record omits severity
const DefaultSeverity = SeverityMedium

// Attack is a classified security event. SourceNodes and TargetNodes are
// sets; Normalize removes duplicates while keeping first-seen order.
type Attack struct {
	ID          string     `json:"id,omitempty" yaml:"id,omitempty" validate:"max=256"`
	Type        AttackType `json:"attack_type" yaml:"attack_type"`
	SourceNodes []string   `json:"source_nodes" yaml:"source_nodes" validate:"dive,required"`
	TargetNodes []string   `json:"target_nodes" yaml:"target_nodes" validate:"dive,required"`
	Confidence  float64    `json:"confidence" yaml:"confidence"`
	Severity    Severity   `json:"severity,omitempty" yaml:"severity,omitempty"`
	Timestamp   float64    `json:"timestamp" yaml:"timestamp"`
	Description string     `json:"description" yaml:"description"`
}

// Normalize fills defaults and collapses duplicate endpoint ids.
func (a *Attack) Normalize() {
	if a.Severity == "" {
		a.Severity = DefaultSeverity
	}
	a.SourceNodes = dedupe(a.SourceNodes)
	a.TargetNodes = dedupe(a.TargetNodes)
}

// PrepareAttacks normalizes each attack in place and assigns a random id
// to those without one.
func PrepareAttacks(attacks []Attack) {
	for i := range attacks {
		attacks[i].Normalize()
		if attacks[i].ID == "" {
			attacks[i].ID = uuid.New().String()
		}
	}
}

// Endpoints returns |source_nodes| + |target_nodes| counted as sets.
func (a Attack) Endpoints() int {
	return countUnique(a.SourceNodes) + countUnique(a.TargetNodes)
}

func dedupe(ids []string) []string {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func countUnique(ids []string) int {
	if len(ids) < 2 {
		return len(ids)
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}
