package topology

import (
	"strings"
	"testing"
)

func editGraph() Graph {
	return Graph{
		Nodes: []Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Edges: []Edge{
			{Source: "a", Target: "b", Port: 22},
			{Source: "b", Target: "c", Port: 80},
			{Source: "c", Target: "a", Port: 443},
		},
	}
}

func TestWithNode(t *testing.T) {
	g := editGraph()
	g.Nodes = g.Nodes[:2:3]

	out := g.WithNode(Node{ID: "d"})

	if got := strings.Join(out.NodeIDs(), ","); got != "a,b,d" {
		t.Errorf("expected a,b,d, got %s", got)
	}
	if got := strings.Join(g.NodeIDs(), ","); got != "a,b" {
		t.Errorf("original graph changed: %s", got)
	}
	if full := g.Nodes[:3]; full[2].ID != "c" {
		t.Errorf("spare capacity of the original was overwritten with %q", full[2].ID)
	}
}

func TestWithoutNode(t *testing.T) {
	g := editGraph()

	out, dropped, ok := g.WithoutNode("a")
	if !ok {
		t.Fatal("expected node a to be found")
	}
	if dropped != 2 {
		t.Errorf("expected 2 edges dropped, got %d", dropped)
	}
	if got := strings.Join(out.NodeIDs(), ","); got != "b,c" {
		t.Errorf("expected b,c, got %s", got)
	}
	if len(out.Edges) != 1 || out.Edges[0].Source != "b" {
		t.Errorf("expected only b->c to remain, got %+v", out.Edges)
	}
	if len(g.Nodes) != 3 || len(g.Edges) != 3 {
		t.Error("original graph changed")
	}

	if _, _, ok := g.WithoutNode("zzz"); ok {
		t.Error("expected unknown node to be reported")
	}
}

func TestWithEdge(t *testing.T) {
	g := editGraph()

	out, replaced := g.WithEdge(Edge{Source: "a", Target: "c", Port: 3389})
	if replaced {
		t.Error("a->c is new")
	}
	if len(out.Edges) != 4 {
		t.Errorf("expected 4 edges, got %d", len(out.Edges))
	}

	out, replaced = g.WithEdge(Edge{Source: "a", Target: "b", Port: 2222})
	if !replaced {
		t.Error("expected a->b to be replaced")
	}
	if e, _ := out.Edge("a", "b"); e.Port != 2222 {
		t.Errorf("expected port 2222, got %d", e.Port)
	}
	if e, _ := g.Edge("a", "b"); e.Port != 22 {
		t.Errorf("original edge changed to port %d", e.Port)
	}
}

func TestWithoutEdge(t *testing.T) {
	g := editGraph()

	out, ok := g.WithoutEdge("b", "c")
	if !ok {
		t.Fatal("expected b->c to be found")
	}
	if _, found := out.Edge("b", "c"); found {
		t.Error("b->c should be gone")
	}
	if len(g.Edges) != 3 {
		t.Error("original graph changed")
	}

	// direction matters
	if _, ok := g.WithoutEdge("c", "b"); ok {
		t.Error("c->b does not exist")
	}
}

func TestDecodeEdgeDefaults(t *testing.T) {
	e, err := DecodeEdge(strings.NewReader(`{"source": "a", "target": "b"}`), FormatJSON)
	if err != nil {
		t.Fatalf("DecodeEdge failed: %v", err)
	}
	if e.Weight != DefaultEdgeWeight || e.Protocol != DefaultEdgeProtocol || e.Port != DefaultEdgePort {
		t.Errorf("expected defaults, got %+v", e)
	}

	e, err = DecodeEdge(strings.NewReader("source: a\ntarget: b\nweight: 0\nport: 0\n"), FormatYAML)
	if err != nil {
		t.Fatalf("DecodeEdge failed: %v", err)
	}
	if e.Weight != 0 || e.Port != 0 {
		t.Errorf("explicit zeros should be kept, got %+v", e)
	}
}
