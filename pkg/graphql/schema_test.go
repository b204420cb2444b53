package graphql

import (
	"path/filepath"
	"testing"

	"github.com/dd0wney/cluso-attackmap/pkg/dashboard"
	"github.com/dd0wney/cluso-attackmap/pkg/visualization"
	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	graphFile   = filepath.Join("..", "topology", "testdata", "graph.json")
	attacksFile = filepath.Join("..", "topology", "testdata", "attacks.yaml")
)

func newTestSchema(t *testing.T, load bool) (graphql.Schema, *dashboard.Shared) {
	t.Helper()
	s := dashboard.NewSession(dashboard.Config{Layout: visualization.DefaultLayoutConfig()})
	if load {
		require.NoError(t, s.LoadFiles(graphFile, attacksFile))
	}
	shared := dashboard.NewShared(s)

	schema, err := GenerateSchema(shared, nil)
	require.NoError(t, err)
	return schema, shared
}

func run(t *testing.T, schema graphql.Schema, query string) map[string]any {
	t.Helper()
	result := ExecuteQuery(query, schema)
	require.False(t, result.HasErrors(), "unexpected errors: %v", result.Errors)
	data, ok := result.Data.(map[string]any)
	require.True(t, ok, "data is %T", result.Data)
	return data
}

func TestSchemaGeneration(t *testing.T) {
	schema, _ := newTestSchema(t, false)

	queryType := schema.QueryType()
	require.NotNil(t, queryType)
	for _, name := range []string{"health", "session", "networkRisk", "attacks", "attack", "nodes", "node", "view", "selection"} {
		assert.Contains(t, queryType.Fields(), name)
	}

	mutationType := schema.MutationType()
	require.NotNil(t, mutationType)
	for _, name := range []string{"zoomIn", "zoomOut", "resetView", "pan", "click"} {
		assert.Contains(t, mutationType.Fields(), name)
	}
}

func TestSchemaRejectsBadLimits(t *testing.T) {
	shared := dashboard.NewShared(dashboard.NewSession(dashboard.Config{}))
	_, err := GenerateSchema(shared, &LimitConfig{DefaultLimit: 10, MaxLimit: 5})
	assert.Error(t, err)
}

func TestHealthAndSession(t *testing.T) {
	schema, _ := newTestSchema(t, true)

	data := run(t, schema, `{ health session { id state nodes edges attacks } }`)
	assert.Equal(t, "ok", data["health"])

	session := data["session"].(map[string]any)
	assert.NotEmpty(t, session["id"])
	assert.Equal(t, "ready", session["state"])
	assert.EqualValues(t, 6, session["nodes"])
	assert.EqualValues(t, 5, session["edges"])
	assert.EqualValues(t, 2, session["attacks"])
}

func TestNetworkRiskQuery(t *testing.T) {
	schema, _ := newTestSchema(t, true)

	data := run(t, schema, `{
		networkRisk {
			score
			level
			totalAttacks
			highConfidenceAttacks
			byType { key count }
			topAttack { score position attack { type } }
		}
	}`)

	nr := data["networkRisk"].(map[string]any)
	assert.EqualValues(t, 23, nr["score"])
	assert.Equal(t, "low", nr["level"])
	assert.EqualValues(t, 2, nr["totalAttacks"])
	assert.EqualValues(t, 1, nr["highConfidenceAttacks"])

	byType := nr["byType"].([]any)
	require.Len(t, byType, 2)
	assert.Equal(t, "c2", byType[0].(map[string]any)["key"])
	assert.Equal(t, "ddos", byType[1].(map[string]any)["key"])

	top := nr["topAttack"].(map[string]any)
	assert.EqualValues(t, 36, top["score"])
	assert.EqualValues(t, 0, top["position"])
	assert.Equal(t, "ddos", top["attack"].(map[string]any)["type"])
}

func TestNetworkRiskEmptySession(t *testing.T) {
	schema, _ := newTestSchema(t, false)

	data := run(t, schema, `{ networkRisk { score totalAttacks topAttack { score } } }`)

	nr := data["networkRisk"].(map[string]any)
	assert.EqualValues(t, 0, nr["score"])
	assert.EqualValues(t, 0, nr["totalAttacks"])
	assert.Nil(t, nr["topAttack"])
}

func TestAttacksQuery(t *testing.T) {
	schema, _ := newTestSchema(t, true)

	t.Run("ranked", func(t *testing.T) {
		data := run(t, schema, `{ attacks { score level attack { id type } } }`)
		attacks := data["attacks"].([]any)
		require.Len(t, attacks, 2)
		assert.EqualValues(t, 36, attacks[0].(map[string]any)["score"])
		assert.EqualValues(t, 10, attacks[1].(map[string]any)["score"])
		assert.Equal(t, "c2-7", attacks[1].(map[string]any)["attack"].(map[string]any)["id"])
	})

	t.Run("limit", func(t *testing.T) {
		data := run(t, schema, `{ attacks(limit: 1) { score } }`)
		assert.Len(t, data["attacks"].([]any), 1)
	})

	t.Run("level filter", func(t *testing.T) {
		data := run(t, schema, `{ attacks(level: "critical") { score } }`)
		assert.Empty(t, data["attacks"].([]any))
	})
}

func TestAttackQuery(t *testing.T) {
	schema, _ := newTestSchema(t, true)

	data := run(t, schema, `{ attack(id: "c2-7") { id type severity score level sourceNodes targetNodes } }`)
	a := data["attack"].(map[string]any)
	assert.Equal(t, "c2", a["type"])
	assert.Equal(t, "medium", a["severity"])
	assert.EqualValues(t, 10, a["score"])
	assert.Equal(t, "low", a["level"])
	assert.Equal(t, []any{"printer"}, a["sourceNodes"])
	assert.Equal(t, []any{"edge-rtr"}, a["targetNodes"])

	data = run(t, schema, `{ attack(id: "missing") { id } }`)
	assert.Nil(t, data["attack"])
}

func TestNodesQuery(t *testing.T) {
	schema, _ := newTestSchema(t, true)

	data := run(t, schema, `{ nodes { id } }`)
	assert.Len(t, data["nodes"].([]any), 6)

	data = run(t, schema, `{ nodes(attacked: false) { id attacked } }`)
	calm := data["nodes"].([]any)
	require.Len(t, calm, 2)
	assert.Equal(t, "fw-1", calm[0].(map[string]any)["id"])
	assert.Equal(t, "db-1", calm[1].(map[string]any)["id"])

	data = run(t, schema, `{ nodes(attacked: true, limit: 2) { id } }`)
	assert.Len(t, data["nodes"].([]any), 2)
}

func TestNodeQuery(t *testing.T) {
	schema, _ := newTestSchema(t, true)

	data := run(t, schema, `{ node(id: "web-1") { id type x y attacked attackIds } }`)
	n := data["node"].(map[string]any)
	assert.Equal(t, "server", n["type"])
	assert.InDelta(t, 550.0, n["x"], 1e-9)
	assert.InDelta(t, 300.0, n["y"], 1e-9)
	assert.Equal(t, true, n["attacked"])
	assert.Len(t, n["attackIds"].([]any), 1)

	data = run(t, schema, `{ node(id: "nope") { id } }`)
	assert.Nil(t, data["node"])
}
