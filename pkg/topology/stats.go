package topology

// Stats summarizes graph shape
type Stats struct {
	NodeCount     int            `json:"node_count"`
	EdgeCount     int            `json:"edge_count"`
	Density       float64        `json:"density"`
	DanglingEdges int            `json:"dangling_edges"`
	InDegree      map[string]int `json:"in_degree"`
	OutDegree     map[string]int `json:"out_degree"`
}

// Stats computes counts, directed density and per-node degrees. Edges
// referencing an absent node count as dangling and do not contribute to
// degrees.
func (g Graph) Stats() Stats {
	idx := g.NodeIndex()
	s := Stats{
		NodeCount: len(idx),
		EdgeCount: len(g.Edges),
		InDegree:  make(map[string]int, len(idx)),
		OutDegree: make(map[string]int, len(idx)),
	}
	for id := range idx {
		s.InDegree[id] = 0
		s.OutDegree[id] = 0
	}

	for _, e := range g.Edges {
		_, srcOK := idx[e.Source]
		_, dstOK := idx[e.Target]
		if !srcOK || !dstOK {
			s.DanglingEdges++
			continue
		}
		s.OutDegree[e.Source]++
		s.InDegree[e.Target]++
	}

	if n := s.NodeCount; n > 1 {
		s.Density = float64(s.EdgeCount-s.DanglingEdges) / float64(n*(n-1))
	}
	return s
}
