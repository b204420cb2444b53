// Package correlation decides which nodes and edges of a topology take
// part in the current attacks.
package correlation

import (
	"slices"

	"github.com/dd0wney/cluso-attackmap/pkg/topology"
)

type membership struct {
	sources map[string]struct{}
	targets map[string]struct{}
}

// Index pre-indexes an attack list for constant-time membership queries.
// It is immutable once built and safe for concurrent reads.
type Index struct {
	attacks []topology.Attack
	members []membership
	// node id -> positions in attacks where it is a source
	asSource map[string][]int
	// node id -> positions in attacks where it is a source or target
	involved map[string][]int
}

// NewIndex builds an index over attacks. The slice is copied; later
// changes by the caller are not observed.
func NewIndex(attacks []topology.Attack) *Index {
	ix := &Index{
		attacks:  slices.Clone(attacks),
		members:  make([]membership, len(attacks)),
		asSource: make(map[string][]int),
		involved: make(map[string][]int),
	}

	for i, a := range ix.attacks {
		m := membership{
			sources: toSet(a.SourceNodes),
			targets: toSet(a.TargetNodes),
		}
		ix.members[i] = m

		for id := range m.sources {
			ix.asSource[id] = append(ix.asSource[id], i)
			ix.involved[id] = append(ix.involved[id], i)
		}
		for id := range m.targets {
			if _, dup := m.sources[id]; dup {
				continue
			}
			ix.involved[id] = append(ix.involved[id], i)
		}
	}

	return ix
}

// Len returns the number of indexed attacks
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.attacks)
}

// Attacks returns the indexed attacks in their original order
func (ix *Index) Attacks() []topology.Attack {
	if ix == nil {
		return nil
	}
	return slices.Clone(ix.attacks)
}

// IsNodeAttacked reports whether the node is a source or a target of any
// attack.
func (ix *Index) IsNodeAttacked(nodeID string) bool {
	if ix == nil {
		return false
	}
	return len(ix.involved[nodeID]) > 0
}

// IsEdgeAttacked reports whether a single attack has source among its
// sources and target among its targets. Direction matters: the reverse
// edge is not implied.
func (ix *Index) IsEdgeAttacked(source, target string) bool {
	if ix == nil {
		return false
	}
	for _, i := range ix.asSource[source] {
		if _, ok := ix.members[i].targets[target]; ok {
			return true
		}
	}
	return false
}

// AttacksForNode returns the attacks a node takes part in, in list order.
func (ix *Index) AttacksForNode(nodeID string) []topology.Attack {
	if ix == nil {
		return nil
	}
	positions := ix.involved[nodeID]
	if len(positions) == 0 {
		return nil
	}
	out := make([]topology.Attack, len(positions))
	for j, i := range positions {
		out[j] = ix.attacks[i]
	}
	return out
}

// AttackedNodes returns the ids of all attacked nodes, sorted.
func (ix *Index) AttackedNodes() []string {
	if ix == nil {
		return nil
	}
	ids := make([]string, 0, len(ix.involved))
	for id := range ix.involved {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
