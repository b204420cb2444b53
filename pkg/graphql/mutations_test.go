package graphql

import (
	"testing"

	"github.com/dd0wney/cluso-attackmap/pkg/dashboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewMutations(t *testing.T) {
	schema, shared := newTestSchema(t, true)

	data := run(t, schema, `mutation { zoomIn { zoom } }`)
	assert.InDelta(t, 1.2, data["zoomIn"].(map[string]any)["zoom"], 1e-9)

	data = run(t, schema, `mutation { pan(dx: 10, dy: -5.5) { offsetX offsetY } }`)
	view := data["pan"].(map[string]any)
	assert.InDelta(t, 10.0, view["offsetX"], 1e-9)
	assert.InDelta(t, -5.5, view["offsetY"], 1e-9)

	data = run(t, schema, `mutation { zoomOut { zoom } }`)
	assert.InDelta(t, 1.0, data["zoomOut"].(map[string]any)["zoom"], 1e-9)

	data = run(t, schema, `mutation { resetView { zoom offsetX offsetY } }`)
	view = data["resetView"].(map[string]any)
	assert.InDelta(t, 1.0, view["zoom"], 1e-9)
	assert.InDelta(t, 0.0, view["offsetX"], 1e-9)

	snap := shared.Snapshot()
	assert.Equal(t, 1.0, snap.Zoom)
}

func TestClickMutation(t *testing.T) {
	schema, shared := newTestSchema(t, true)

	var events []dashboard.SelectionEvent
	shared.Do(func(s *dashboard.Session) error {
		s.OnSelect(func(ev dashboard.SelectionEvent) {
			events = append(events, ev)
		})
		return nil
	})

	data := run(t, schema, `mutation { click(x: 550, y: 300) { nodeId selected node { id } attacks { type } } }`)
	sel := data["click"].(map[string]any)
	assert.Equal(t, "web-1", sel["nodeId"])
	assert.Equal(t, true, sel["selected"])
	assert.Equal(t, "web-1", sel["node"].(map[string]any)["id"])
	attacks := sel["attacks"].([]any)
	require.Len(t, attacks, 1)
	assert.Equal(t, "ddos", attacks[0].(map[string]any)["type"])

	data = run(t, schema, `{ selection { nodeId selected } view { selectedNode } }`)
	assert.Equal(t, "web-1", data["selection"].(map[string]any)["nodeId"])
	assert.Equal(t, "web-1", data["view"].(map[string]any)["selectedNode"])

	data = run(t, schema, `mutation { click(x: 400, y: 300) { selected } }`)
	assert.Equal(t, false, data["click"].(map[string]any)["selected"])

	data = run(t, schema, `{ selection { selected node { id } } }`)
	assert.Equal(t, false, data["selection"].(map[string]any)["selected"])
	assert.Nil(t, data["selection"].(map[string]any)["node"])

	require.Len(t, events, 2)
	assert.True(t, events[0].Selected)
	assert.False(t, events[1].Selected)
}

func TestClickBeforeLoad(t *testing.T) {
	schema, _ := newTestSchema(t, false)

	result := ExecuteQuery(`mutation { click(x: 0, y: 0) { selected } }`, schema)
	require.True(t, result.HasErrors())
	assert.Contains(t, result.Errors[0].Message, "not ready")
}
