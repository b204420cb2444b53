package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/dd0wney/cluso-attackmap/pkg/topology"
)

func validGraph() topology.Graph {
	return topology.Graph{
		Nodes: []topology.Node{
			{ID: "web-1", IP: "10.0.0.10", Type: topology.NodeServer},
			{ID: "db-1", IP: "10.0.0.20", Type: topology.NodeDatabase},
		},
		Edges: []topology.Edge{
			{Source: "web-1", Target: "db-1", Weight: 1, Protocol: "TCP", Port: 5432},
			{Source: "web-1", Target: "ghost", Weight: 1, Protocol: "TCP", Port: 80},
		},
	}
}

func TestValidateGraph(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(g *topology.Graph)
		errorField string
	}{
		{
			name:   "Valid graph with dangling edge",
			mutate: func(g *topology.Graph) {},
		},
		{
			name:   "Empty IP allowed",
			mutate: func(g *topology.Graph) { g.Nodes[0].IP = "" },
		},
		{
			name:       "Missing node id",
			mutate:     func(g *topology.Graph) { g.Nodes[1].ID = "" },
			errorField: "nodes[1].id",
		},
		{
			name:       "Bad IP",
			mutate:     func(g *topology.Graph) { g.Nodes[0].IP = "not-an-ip" },
			errorField: "nodes[0].ip",
		},
		{
			name:       "Port out of range",
			mutate:     func(g *topology.Graph) { g.Edges[0].Port = 70000 },
			errorField: "edges[0].port",
		},
		{
			name:       "Missing edge target",
			mutate:     func(g *topology.Graph) { g.Edges[1].Target = "" },
			errorField: "edges[1].target",
		},
		{
			name:       "Empty metadata key",
			mutate:     func(g *topology.Graph) { g.Nodes[0].Metadata = map[string]any{"": 1} },
			errorField: "nodes[0].metadata",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := validGraph()
			tt.mutate(&g)

			err := ValidateGraph(&g)
			if tt.errorField == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.HasPrefix(err.Error(), tt.errorField) {
				t.Errorf("Expected error for %s, got %v", tt.errorField, err)
			}
		})
	}
}

func TestValidateGraphDuplicateIDs(t *testing.T) {
	g := validGraph()
	g.Nodes = append(g.Nodes, topology.Node{ID: "web-1", Type: topology.NodeClient})

	err := ValidateGraph(&g)
	if !errors.Is(err, ErrDuplicateNodeID) {
		t.Fatalf("Expected ErrDuplicateNodeID, got %v", err)
	}
	if !strings.Contains(err.Error(), "nodes[2]") {
		t.Errorf("Expected error to name the duplicate position, got %v", err)
	}
}

func TestValidateGraphNil(t *testing.T) {
	if err := ValidateGraph(nil); err == nil {
		t.Error("Expected error for nil graph")
	}
}

func TestValidateAttacks(t *testing.T) {
	ok := []topology.Attack{
		{ID: "a1", Type: topology.AttackDDoS, SourceNodes: []string{"x"}, TargetNodes: []string{"y"}, Confidence: 0.9},
		// unknown type, missing severity and out of range confidence are accepted
		{Type: "mystery", SourceNodes: []string{"x"}, Confidence: 1.7},
	}
	if err := ValidateAttacks(ok); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	bad := []topology.Attack{
		ok[0],
		{Type: topology.AttackWorm, SourceNodes: []string{"x", ""}},
	}
	err := ValidateAttacks(bad)
	if err == nil {
		t.Fatal("Expected error for empty endpoint id")
	}
	if !strings.HasPrefix(err.Error(), "attacks[1]: source_nodes[1]") {
		t.Errorf("Unexpected error %v", err)
	}
}

func TestValidateDataRequest(t *testing.T) {
	req := &DataRequest{
		Graph:   validGraph(),
		Attacks: []topology.Attack{{Type: topology.AttackC2, SourceNodes: []string{"web-1"}, TargetNodes: []string{"db-1"}}},
	}
	if err := ValidateDataRequest(req); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	if err := ValidateDataRequest(nil); err == nil {
		t.Error("Expected error for nil request")
	}

	req.Graph.Nodes[0].ID = ""
	if err := ValidateDataRequest(req); err == nil {
		t.Error("Expected graph error to propagate")
	}
}

func TestValidateGraphLimits(t *testing.T) {
	old := MaxNodes
	MaxNodes = 1
	defer func() { MaxNodes = old }()

	g := validGraph()
	if err := ValidateGraph(&g); err == nil {
		t.Error("Expected error when exceeding node limit")
	}
}
