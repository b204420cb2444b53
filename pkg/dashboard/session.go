// Package dashboard holds the interaction session: loaded data, the view
// state, selection and the load state machine. A Session is not safe for
// concurrent use; hosts that serve several goroutines serialize access.
package dashboard

import (
	"fmt"
	"slices"
	"time"

	"github.com/dd0wney/cluso-attackmap/pkg/correlation"
	"github.com/dd0wney/cluso-attackmap/pkg/logging"
	"github.com/dd0wney/cluso-attackmap/pkg/metrics"
	"github.com/dd0wney/cluso-attackmap/pkg/risk"
	"github.com/dd0wney/cluso-attackmap/pkg/severity"
	"github.com/dd0wney/cluso-attackmap/pkg/topology"
	"github.com/dd0wney/cluso-attackmap/pkg/validation"
	"github.com/dd0wney/cluso-attackmap/pkg/visualization"
	"github.com/google/uuid"
)

// Config wires a session to its collaborators. Nil Logger and Metrics
// disable logging and metrics.
type Config struct {
	Layout  visualization.LayoutConfig
	Logger  logging.Logger
	Metrics *metrics.Registry
}

// Session owns everything one dashboard viewer interacts with
type Session struct {
	id      string
	logger  logging.Logger
	metrics *metrics.Registry

	state   LoadState
	loadErr error

	graph   topology.Graph
	attacks []topology.Attack
	index   *correlation.Index
	planner *visualization.Planner
	view    *visualization.ViewState

	listeners      []SelectionListener
	graphListeners []GraphListener
}

// NewSession creates an idle session
func NewSession(cfg Config) *Session {
	id := uuid.New().String()

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	s := &Session{
		id:      id,
		logger:  logger.With(logging.Component("dashboard"), logging.SessionID(id)),
		metrics: cfg.Metrics,
		state:   StateIdle,
		index:   correlation.NewIndex(nil),
		planner: visualization.NewPlanner(visualization.NewCircularLayout(cfg.Layout)),
		view:    visualization.NewViewState(),
	}
	if s.metrics != nil {
		s.metrics.SetLoadState(s.state.String(), stateNames())
	}
	return s
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// State returns the current load state
func (s *Session) State() LoadState {
	return s.state
}

// Err returns the error that moved the session to Failed
func (s *Session) Err() error {
	return s.loadErr
}

// OnSelect registers a listener for selection events
func (s *Session) OnSelect(l SelectionListener) {
	s.listeners = append(s.listeners, l)
}

func (s *Session) transition(next LoadState) error {
	prev := s.state
	state, err := s.state.Transition(next)
	if err != nil {
		return err
	}
	s.state = state
	if s.metrics != nil {
		s.metrics.SetLoadState(state.String(), stateNames())
	}
	s.logger.Debug("load state changed",
		logging.String("from", prev.String()),
		logging.State(state.String()),
	)
	return nil
}

// BeginLoad moves the session to Loading. Previously loaded data stays
// in place until CompleteLoad succeeds.
func (s *Session) BeginLoad() error {
	return s.transition(StateLoading)
}

// CompleteLoad validates and installs new data, moving to Ready. On
// validation failure the session moves to Failed and the error is
// returned.
func (s *Session) CompleteLoad(g topology.Graph, attacks []topology.Attack) error {
	if s.state != StateLoading {
		return fmt.Errorf("%w: complete load from %s", ErrInvalidTransition, s.state)
	}

	if err := validation.ValidateGraph(&g); err != nil {
		return s.fail(fmt.Errorf("invalid graph: %w", err))
	}

	attacks = slices.Clone(attacks)
	topology.PrepareAttacks(attacks)
	if err := validation.ValidateAttacks(attacks); err != nil {
		return s.fail(fmt.Errorf("invalid attacks: %w", err))
	}

	s.graph = g
	s.attacks = attacks
	s.index = correlation.NewIndex(attacks)
	s.loadErr = nil

	if sel, ok := s.view.Selected(); ok {
		if _, still := s.graph.Node(sel); !still {
			s.view.ClearSelection()
		}
	}

	if err := s.transition(StateReady); err != nil {
		return err
	}

	stats := g.Stats()
	summary := risk.Summarize(attacks)

	if s.metrics != nil {
		s.metrics.RecordDataLoad("success")
		s.metrics.UpdateTopology(stats.NodeCount, stats.EdgeCount, stats.DanglingEdges, len(s.index.AttackedNodes()))

		scores := make([]int, len(attacks))
		for i, a := range attacks {
			scores[i] = severity.Score(a)
		}
		byLevel := make(map[string]int, len(summary.ByLevel))
		for level, n := range summary.ByLevel {
			byLevel[string(level)] = n
		}
		s.metrics.UpdateScores(scores, byLevel, summary.NetworkScore)
	}

	s.logger.Info("data loaded",
		logging.Int("nodes", stats.NodeCount),
		logging.Int("edges", stats.EdgeCount),
		logging.Int("attacks", len(attacks)),
		logging.Int("network_risk_score", summary.NetworkScore),
	)
	if stats.DanglingEdges > 0 {
		s.logger.Debug("edges reference unknown nodes", logging.Count(stats.DanglingEdges))
	}
	return nil
}

// FailLoad records a load failure reported by the host, moving to Failed
func (s *Session) FailLoad(err error) error {
	if s.state != StateLoading {
		return fmt.Errorf("%w: fail load from %s", ErrInvalidTransition, s.state)
	}
	s.fail(err)
	return nil
}

func (s *Session) fail(err error) error {
	s.loadErr = err
	if terr := s.transition(StateFailed); terr != nil {
		return terr
	}
	if s.metrics != nil {
		s.metrics.RecordDataLoad("failure")
	}
	s.logger.Warn("data load failed", logging.Error(err))
	return err
}

// Load runs a full load cycle with already decoded data
func (s *Session) Load(g topology.Graph, attacks []topology.Attack) error {
	if err := s.BeginLoad(); err != nil {
		return err
	}
	return s.CompleteLoad(g, attacks)
}

// LoadFiles reads a graph and an optional attack file, then loads them
func (s *Session) LoadFiles(graphPath, attacksPath string) error {
	if err := s.BeginLoad(); err != nil {
		return err
	}

	op := logging.StartTimer(s.logger, "read data files", logging.Path(graphPath))

	g, err := topology.LoadGraph(graphPath)
	if err != nil {
		op.EndError(err)
		return s.fail(err)
	}

	var attacks []topology.Attack
	if attacksPath != "" {
		attacks, err = topology.LoadAttacks(attacksPath)
		if err != nil {
			op.EndError(err)
			return s.fail(err)
		}
	}
	op.End()

	return s.CompleteLoad(g, attacks)
}

// Graph returns the loaded topology
func (s *Session) Graph() topology.Graph {
	return s.graph
}

// Attacks returns the loaded attacks in input order
func (s *Session) Attacks() []topology.Attack {
	return slices.Clone(s.attacks)
}

// Index returns the correlation index over the loaded attacks
func (s *Session) Index() *correlation.Index {
	return s.index
}

// View returns the live view state. Mutate it through the session so
// interactions are recorded.
func (s *Session) View() *visualization.ViewState {
	return s.view
}

// Positions returns the model-space layout of the loaded nodes
func (s *Session) Positions() map[string]visualization.Position {
	return s.planner.Positions(s.graph)
}

// Plan builds the draw plan for the current state
func (s *Session) Plan() (visualization.Plan, error) {
	if s.state != StateReady {
		return visualization.Plan{}, ErrNotReady
	}

	start := time.Now()
	plan := s.planner.Plan(s.graph, s.index, s.view)

	if s.metrics != nil {
		kinds := make(map[string]int)
		for _, p := range plan.Primitives {
			kinds[string(p.Kind)]++
		}
		s.metrics.RecordPlan(time.Since(start), kinds, plan.SkippedEdges)
	}
	return plan, nil
}

// Click picks the node under a screen coordinate, updates the selection
// and notifies listeners. A miss clears the selection.
func (s *Session) Click(x, y float64) (SelectionEvent, error) {
	if s.state != StateReady {
		return SelectionEvent{}, ErrNotReady
	}

	screen := visualization.Position{X: x, Y: y}
	ev := SelectionEvent{
		SessionID: s.id,
		Screen:    screen,
		Model:     s.view.ToModel(screen),
	}

	id, hit := visualization.HitTest(screen, s.view, s.graph.NodeIDs(), s.Positions())
	if hit {
		s.view.Select(id)
		ev.NodeID = id
		ev.Selected = true
		if n, ok := s.graph.Node(id); ok {
			ev.Node = &n
		}
		ev.Attacks = s.index.AttacksForNode(id)
	} else {
		s.view.ClearSelection()
	}

	if s.metrics != nil {
		s.metrics.RecordHitTest(hit)
		s.metrics.RecordInteraction("click", s.view.Zoom())
	}
	s.logger.Debug("selection changed",
		logging.NodeID(id),
		logging.Bool("hit", hit),
	)

	for _, l := range s.listeners {
		l(ev)
	}
	return ev, nil
}

// ZoomIn scales the view up by one step
func (s *Session) ZoomIn() {
	s.view.ZoomIn()
	s.recordView("zoom_in")
}

// ZoomOut scales the view down by one step
func (s *Session) ZoomOut() {
	s.view.ZoomOut()
	s.recordView("zoom_out")
}

// Pan shifts the view by screen units
func (s *Session) Pan(dx, dy float64) {
	s.view.Pan(dx, dy)
	s.recordView("pan")
}

// Reset restores the identity view and clears the selection
func (s *Session) Reset() {
	s.view.Reset()
	s.recordView("reset")
}

func (s *Session) recordView(action string) {
	if s.metrics != nil {
		s.metrics.RecordInteraction(action, s.view.Zoom())
	}
	s.logger.Debug("view changed", logging.Operation(action), logging.Zoom(s.view.Zoom()))
}

// Prioritized returns attacks ranked for mitigation
func (s *Session) Prioritized() []risk.Ranked {
	return risk.Prioritize(s.attacks)
}

// Summary returns attack statistics
func (s *Session) Summary() risk.Summary {
	return risk.Summarize(s.attacks)
}

// Nodes returns every node with its position and attack status, in
// graph order
func (s *Session) Nodes() []NodeView {
	positions := s.Positions()
	out := make([]NodeView, len(s.graph.Nodes))
	for i, n := range s.graph.Nodes {
		nv := NodeView{
			Node:     n,
			Position: positions[n.ID],
			Attacked: s.index.IsNodeAttacked(n.ID),
		}
		for _, a := range s.index.AttacksForNode(n.ID) {
			nv.AttackIDs = append(nv.AttackIDs, a.ID)
		}
		out[i] = nv
	}
	return out
}

// Attack looks up a loaded attack by id
func (s *Session) Attack(id string) (topology.Attack, bool) {
	for _, a := range s.attacks {
		if a.ID == id {
			return a, true
		}
	}
	return topology.Attack{}, false
}

// Snapshot copies the state host surfaces display
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		SessionID:    s.id,
		State:        s.state,
		Zoom:         s.view.Zoom(),
		Offset:       s.view.Offset(),
		Nodes:        len(s.graph.Nodes),
		Edges:        len(s.graph.Edges),
		Attacks:      len(s.attacks),
		NetworkScore: risk.NetworkScore(s.attacks),
	}
	if s.loadErr != nil {
		snap.Error = s.loadErr.Error()
	}
	if sel, ok := s.view.Selected(); ok {
		snap.SelectedNode = sel
	}
	return snap
}
