package api

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dd0wney/cluso-attackmap/pkg/dashboard"
	"github.com/dd0wney/cluso-attackmap/pkg/metrics"
	"github.com/dd0wney/cluso-attackmap/pkg/risk"
	"github.com/dd0wney/cluso-attackmap/pkg/topology"
	"github.com/dd0wney/cluso-attackmap/pkg/visualization"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testdata = filepath.Join("..", "topology", "testdata")

// setupTestServer creates a server over an idle session
func setupTestServer(t *testing.T) (*Server, *metrics.Registry) {
	t.Helper()

	reg := metrics.NewRegistry()
	sess := dashboard.NewSession(dashboard.Config{
		Layout:  visualization.DefaultLayoutConfig(),
		Metrics: reg,
	})

	server, err := NewServer(Options{
		Session: dashboard.NewShared(sess),
		Metrics: reg,
		Version: "test",
	})
	require.NoError(t, err)
	return server, reg
}

// setupTestServerWithData loads the shared test topology and attacks
func setupTestServerWithData(t *testing.T) *Server {
	t.Helper()

	server, _ := setupTestServer(t)
	err := server.session.Do(func(s *dashboard.Session) error {
		return s.LoadFiles(filepath.Join(testdata, "graph.json"), filepath.Join(testdata, "attacks.yaml"))
	})
	require.NoError(t, err)
	return server
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), "body: %s", rr.Body.String())
	return v
}

func TestNewServerRequiresSession(t *testing.T) {
	_, err := NewServer(Options{})
	assert.Error(t, err)
}

func TestHealthEndpoints(t *testing.T) {
	server, _ := setupTestServer(t)
	h := server.Handler()

	rr := doRequest(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody[map[string]any](t, rr)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "test", body["version"])

	rr = doRequest(t, h, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = doRequest(t, h, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	loaded := setupTestServerWithData(t).Handler()
	rr = doRequest(t, loaded, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSessionEndpoint(t *testing.T) {
	server := setupTestServerWithData(t)

	rr := doRequest(t, server.Handler(), http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	snap := decodeBody[map[string]any](t, rr)
	assert.Equal(t, "ready", snap["state"])
	assert.Equal(t, float64(6), snap["nodes"])
	assert.Equal(t, float64(23), snap["network_risk_score"])
}

func TestInfoEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)

	rr := doRequest(t, server.Handler(), http.MethodGet, "/api/info", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	info := decodeBody[InfoResponse](t, rr)
	assert.Equal(t, "test", info.Version)
	assert.Equal(t, "idle", info.State)
	assert.NotEmpty(t, info.SessionID)
	assert.GreaterOrEqual(t, info.UptimeSeconds, 0.0)
}

func TestPlanBeforeLoad(t *testing.T) {
	server, _ := setupTestServer(t)

	rr := doRequest(t, server.Handler(), http.MethodGet, "/api/plan", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "not ready")
}

func TestPlan(t *testing.T) {
	server := setupTestServerWithData(t)

	rr := doRequest(t, server.Handler(), http.MethodGet, "/api/plan", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	plan := decodeBody[visualization.Plan](t, rr)
	assert.True(t, plan.PreTransform)
	assert.Equal(t, 1.0, plan.Transform.Zoom)
	assert.Equal(t, 4, plan.Count(visualization.KindLine))
	assert.Equal(t, 4, plan.Count(visualization.KindArrowHead))
	assert.Equal(t, 6, plan.Count(visualization.KindCircle))
	assert.Equal(t, 6, plan.Count(visualization.KindLabel))
	assert.Equal(t, 0, plan.Count(visualization.KindRing))
	assert.Equal(t, 1, plan.SkippedEdges)
}

func TestLoadData(t *testing.T) {
	server, _ := setupTestServer(t)
	h := server.Handler()

	graph, err := os.ReadFile(filepath.Join(testdata, "graph.json"))
	require.NoError(t, err)
	attacks, err := os.ReadFile(filepath.Join(testdata, "attacks.json"))
	require.NoError(t, err)

	rr := doRequest(t, h, http.MethodPost, "/api/data", DataUpload{Graph: graph, Attacks: attacks})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	resp := decodeBody[LoadResponse](t, rr)
	assert.Equal(t, "ready", resp.State)
	assert.Equal(t, 6, resp.Nodes)
	assert.Equal(t, 5, resp.Edges)
	assert.Equal(t, 1, resp.Attacks)
	// port_scan, low, 3 endpoints, confidence 0.5
	assert.Equal(t, 4, resp.NetworkScore)

	// Edge defaults apply to uploads as well as files
	server.session.Do(func(s *dashboard.Session) error {
		edge := s.Graph().Edges[2]
		assert.Equal(t, topology.DefaultEdgeProtocol, edge.Protocol)
		assert.Equal(t, topology.DefaultEdgePort, edge.Port)
		return nil
	})
}

func TestLoadDataWithoutAttacks(t *testing.T) {
	server, _ := setupTestServer(t)

	body := `{"graph": {"nodes": [{"id": "a"}, {"id": "b"}], "edges": [{"source": "a", "target": "b"}]}}`
	rr := doRequest(t, server.Handler(), http.MethodPost, "/api/data", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, 0, decodeBody[LoadResponse](t, rr).Attacks)
}

func TestLoadDataRejected(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed JSON", `{"graph":`, http.StatusBadRequest},
		{"missing graph", `{"attacks": []}`, http.StatusBadRequest},
		{"duplicate node", `{"graph": {"nodes": [{"id": "a"}, {"id": "a"}]}}`, http.StatusUnprocessableEntity},
		{"bad port", `{"graph": {"nodes": [{"id": "a"}], "edges": [{"source": "a", "target": "a", "port": 70000}]}}`, http.StatusUnprocessableEntity},
		{"empty attack endpoint", `{"graph": {"nodes": [{"id": "a"}]}, "attacks": [{"attack_type": "worm", "source_nodes": [""], "target_nodes": []}]}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := setupTestServer(t)

			rr := doRequest(t, server.Handler(), http.MethodPost, "/api/data", tt.body)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())

			// A rejected upload leaves the session untouched
			assert.Equal(t, dashboard.StateIdle, server.session.Snapshot().State)
		})
	}
}

func TestLoadDataBodyLimit(t *testing.T) {
	server, _ := setupTestServer(t)
	server.maxBodyBytes = 16

	rr := doRequest(t, server.Handler(), http.MethodPost, "/api/data", `{"graph": {"nodes": [{"id": "a"}]}}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestGraphStats(t *testing.T) {
	server := setupTestServerWithData(t)

	rr := doRequest(t, server.Handler(), http.MethodGet, "/api/graph/stats", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	stats := decodeBody[GraphStatsResponse](t, rr)
	assert.Equal(t, 6, stats.NodeCount)
	assert.Equal(t, 5, stats.EdgeCount)
	assert.Equal(t, 1, stats.DanglingEdges)
	assert.Equal(t, []string{"edge-rtr", "printer", "web-1", "ws-1"}, stats.AttackedNodes)
}

func TestNodes(t *testing.T) {
	server := setupTestServerWithData(t)

	rr := doRequest(t, server.Handler(), http.MethodGet, "/api/nodes", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	nodes := decodeBody[[]dashboard.NodeView](t, rr)
	require.Len(t, nodes, 6)
	assert.Equal(t, "web-1", nodes[0].ID)
	assert.InDelta(t, 550, nodes[0].Position.X, 1e-9)
	assert.True(t, nodes[0].Attacked)
	assert.False(t, nodes[3].Attacked, "fw-1")
}

func TestAttacks(t *testing.T) {
	server := setupTestServerWithData(t)
	h := server.Handler()

	rr := doRequest(t, h, http.MethodGet, "/api/attacks", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeBody[AttacksResponse](t, rr)
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, 36, resp.Attacks[0].Score)
	assert.Equal(t, "c2-7", resp.Attacks[1].Attack.ID)
	assert.Equal(t, 1, resp.Attacks[1].Position)

	rr = doRequest(t, h, http.MethodGet, "/api/attacks?limit=1", nil)
	assert.Equal(t, 1, decodeBody[AttacksResponse](t, rr).Count)

	rr = doRequest(t, h, http.MethodGet, "/api/attacks?level=critical", nil)
	assert.Equal(t, 0, decodeBody[AttacksResponse](t, rr).Count)

	rr = doRequest(t, h, http.MethodGet, "/api/attacks?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAttackDetail(t *testing.T) {
	server := setupTestServerWithData(t)
	h := server.Handler()

	rr := doRequest(t, h, http.MethodGet, "/api/attacks/c2-7", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	detail := decodeBody[AttackDetailResponse](t, rr)
	assert.Equal(t, 0.8, detail.Breakdown.TypeWeight)
	assert.Equal(t, 1.0, detail.Breakdown.SeverityMultiplier)
	assert.InDelta(t, 0.2, detail.Breakdown.NodeImpact, 1e-9)
	assert.Equal(t, 10, detail.Breakdown.Score)

	rr = doRequest(t, h, http.MethodGet, "/api/attacks/nope", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRisk(t *testing.T) {
	server := setupTestServerWithData(t)

	rr := doRequest(t, server.Handler(), http.MethodGet, "/api/risk", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	sum := decodeBody[risk.Summary](t, rr)
	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 23, sum.NetworkScore)
	assert.Equal(t, 1, sum.HighConfidence)
	require.NotNil(t, sum.TopAttack)
	assert.Equal(t, 36, sum.TopAttack.Score)
}

func TestViewActions(t *testing.T) {
	server := setupTestServerWithData(t)
	h := server.Handler()

	rr := doRequest(t, h, http.MethodPost, "/api/view/zoom-in", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.InDelta(t, 1.2, decodeBody[ViewResponse](t, rr).Zoom, 1e-9)

	rr = doRequest(t, h, http.MethodPost, "/api/view/pan", PanRequest{DX: -100, DY: 20})
	require.Equal(t, http.StatusOK, rr.Code)
	view := decodeBody[ViewResponse](t, rr)
	assert.Equal(t, visualization.Position{X: -100, Y: 20}, view.Offset)

	// web-1 sits at model (550, 300)
	rr = doRequest(t, h, http.MethodPost, "/api/view/click", ClickRequest{X: 560, Y: 380})
	require.Equal(t, http.StatusOK, rr.Code)
	ev := decodeBody[dashboard.SelectionEvent](t, rr)
	assert.True(t, ev.Selected)
	assert.Equal(t, "web-1", ev.NodeID)
	require.NotNil(t, ev.Node)
	assert.Equal(t, "10.0.0.10", ev.Node.IP)
	assert.Len(t, ev.Attacks, 1)

	rr = doRequest(t, h, http.MethodGet, "/api/plan", nil)
	assert.Equal(t, 1, decodeBody[visualization.Plan](t, rr).Count(visualization.KindRing))

	rr = doRequest(t, h, http.MethodPost, "/api/view/reset", nil)
	view = decodeBody[ViewResponse](t, rr)
	assert.Equal(t, 1.0, view.Zoom)
	assert.Empty(t, view.SelectedNode)

	rr = doRequest(t, h, http.MethodPost, "/api/view/zoom-out", nil)
	assert.InDelta(t, 1/1.2, decodeBody[ViewResponse](t, rr).Zoom, 1e-9)
}

func TestViewPanClampsOffset(t *testing.T) {
	server := setupTestServerWithData(t)
	h := server.Handler()

	for range 2 {
		rr := doRequest(t, h, http.MethodPost, "/api/view/pan", PanRequest{DX: 1e308, DY: -1e308})
		require.Equal(t, http.StatusOK, rr.Code)
	}

	snap := server.session.Snapshot()
	assert.Equal(t, visualization.Position{X: visualization.MaxOffset, Y: -visualization.MaxOffset}, snap.Offset)

	rr := doRequest(t, h, http.MethodGet, "/api/plan", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	plan := decodeBody[visualization.Plan](t, rr)
	assert.Equal(t, visualization.MaxOffset, plan.Transform.OffsetX)

	rr = doRequest(t, h, http.MethodPost, "/api/view/click", ClickRequest{X: 550, Y: 300})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, decodeBody[dashboard.SelectionEvent](t, rr).Selected)
}

func TestRespondJSONEncodeFailure(t *testing.T) {
	server, _ := setupTestServer(t)

	rr := httptest.NewRecorder()
	server.respondJSON(rr, http.StatusOK, map[string]float64{"x": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	resp := decodeBody[ErrorResponse](t, rr)
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestClickErrors(t *testing.T) {
	server, _ := setupTestServer(t)
	h := server.Handler()

	rr := doRequest(t, h, http.MethodPost, "/api/view/click", ClickRequest{X: 1, Y: 1})
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = doRequest(t, h, http.MethodPost, "/api/view/click", `{"x": "left"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	server := setupTestServerWithData(t)

	rr := doRequest(t, server.Handler(), http.MethodDelete, "/api/plan", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestGraphQLRoute(t *testing.T) {
	server := setupTestServerWithData(t)

	rr := doRequest(t, server.Handler(), http.MethodPost, "/graphql", map[string]string{
		"query": `{ networkRisk { score } }`,
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data": {"networkRisk": {"score": 23}}}`, rr.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)
	h := server.Handler()

	doRequest(t, h, http.MethodGet, "/api/session", nil)

	rr := doRequest(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.Contains(t, body, "attackmap_network_risk_score")
	assert.Contains(t, body, `attackmap_http_requests_total{method="GET",path="GET /api/session",status="200"} 1`)
}

func TestRequestIDHeader(t *testing.T) {
	server, _ := setupTestServer(t)

	rr := doRequest(t, server.Handler(), http.MethodGet, "/api/session", nil)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}
