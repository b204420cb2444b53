package topology

// NodeType classifies a host in the topology. The set is open: values
// outside the known constants are kept as-is and rendered as "other".
type NodeType string

const (
	NodeServer   NodeType = "server"
	NodeClient   NodeType = "client"
	NodeRouter   NodeType = "router"
	NodeFirewall NodeType = "firewall"
	NodeDatabase NodeType = "database"
	NodeOther    NodeType = "other"
)

// Known reports whether t is one of the named node types.
func (t NodeType) Known() bool {
	switch t {
	case NodeServer, NodeClient, NodeRouter, NodeFirewall, NodeDatabase:
		return true
	}
	return false
}

// Node is a vertex in the network topology
type Node struct {
	ID       string         `json:"id" yaml:"id" validate:"required,max=256"`
	IP       string         `json:"ip" yaml:"ip" validate:"omitempty,ip"`
	Type     NodeType       `json:"node_type" yaml:"node_type"`
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Edge is a directed connection between two nodes. Source and Target may
// name nodes that are absent from the graph.
type Edge struct {
	Source    string         `json:"source" yaml:"source" validate:"required"`
	Target    string         `json:"target" yaml:"target" validate:"required"`
	Weight    float64        `json:"weight" yaml:"weight"`
	Protocol  string         `json:"protocol" yaml:"protocol"`
	Port      int            `json:"port" yaml:"port" validate:"gte=0,lte=65535"`
	Timestamp float64        `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Graph is the topology supplied by the retrieval collaborator
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes" validate:"dive"`
	Edges []Edge `json:"edges" yaml:"edges" validate:"dive"`
}

// NodeIDs returns node ids in graph order.
func (g Graph) NodeIDs() []string {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// Node looks a node up by id. The scan is linear; callers that query
// repeatedly should build an index with NodeIndex.
func (g Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// NodeIndex maps node id to node
func (g Graph) NodeIndex() map[string]Node {
	idx := make(map[string]Node, len(g.Nodes))
	for _, n := range g.Nodes {
		idx[n.ID] = n
	}
	return idx
}
