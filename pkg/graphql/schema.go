package graphql

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/dd0wney/cluso-attackmap/pkg/dashboard"
	"github.com/dd0wney/cluso-attackmap/pkg/risk"
	"github.com/dd0wney/cluso-attackmap/pkg/severity"
	"github.com/dd0wney/cluso-attackmap/pkg/topology"
	"github.com/graphql-go/graphql"
)

// types holds the object types shared by queries and mutations
type types struct {
	node      *graphql.Object
	attack    *graphql.Object
	ranked    *graphql.Object
	count     *graphql.Object
	risk      *graphql.Object
	view      *graphql.Object
	selection *graphql.Object
	session   *graphql.Object
}

// GenerateSchema builds the dashboard schema over a shared session
func GenerateSchema(shared *dashboard.Shared, limits *LimitConfig) (graphql.Schema, error) {
	if limits == nil {
		limits = DefaultLimitConfig()
	}
	if err := ValidateLimitConfig(limits); err != nil {
		return graphql.Schema{}, err
	}

	t := newTypes()

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return "ok", nil
				},
			},
			"session": &graphql.Field{
				Type:    t.session,
				Resolve: sessionResolver(shared),
			},
			"networkRisk": &graphql.Field{
				Type:    t.risk,
				Resolve: networkRiskResolver(shared),
			},
			"attacks": &graphql.Field{
				Type:        graphql.NewList(t.ranked),
				Description: "Attacks ranked by descending risk score",
				Args: graphql.FieldConfigArgument{
					"level": &graphql.ArgumentConfig{Type: graphql.String},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: attacksResolver(shared, limits),
			},
			"attack": &graphql.Field{
				Type: t.attack,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: attackResolver(shared),
			},
			"nodes": &graphql.Field{
				Type: graphql.NewList(t.node),
				Args: graphql.FieldConfigArgument{
					"attacked": &graphql.ArgumentConfig{Type: graphql.Boolean},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: nodesResolver(shared, limits),
			},
			"node": &graphql.Field{
				Type: t.node,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: nodeResolver(shared),
			},
			"view": &graphql.Field{
				Type:    t.view,
				Resolve: viewResolver(shared),
			},
			"selection": &graphql.Field{
				Type:    t.selection,
				Resolve: selectionResolver(shared),
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: createMutationType(shared, t),
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}

	return schema, nil
}

func newTypes() *types {
	t := &types{}

	t.node = graphql.NewObject(graphql.ObjectConfig{
		Name: "Node",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"ip":        &graphql.Field{Type: graphql.String},
			"type":      &graphql.Field{Type: graphql.String},
			"x":         &graphql.Field{Type: graphql.Float},
			"y":         &graphql.Field{Type: graphql.Float},
			"attacked":  &graphql.Field{Type: graphql.Boolean},
			"attackIds": &graphql.Field{Type: graphql.NewList(graphql.String)},
			// JSON encoded
			"metadata": &graphql.Field{Type: graphql.String},
		},
	})

	t.attack = graphql.NewObject(graphql.ObjectConfig{
		Name: "Attack",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"type":        &graphql.Field{Type: graphql.String},
			"severity":    &graphql.Field{Type: graphql.String},
			"confidence":  &graphql.Field{Type: graphql.Float},
			"timestamp":   &graphql.Field{Type: graphql.Float},
			"description": &graphql.Field{Type: graphql.String},
			"sourceNodes": &graphql.Field{Type: graphql.NewList(graphql.String)},
			"targetNodes": &graphql.Field{Type: graphql.NewList(graphql.String)},
			"score":       &graphql.Field{Type: graphql.Int},
			"level":       &graphql.Field{Type: graphql.String},
		},
	})

	t.ranked = graphql.NewObject(graphql.ObjectConfig{
		Name: "RankedAttack",
		Fields: graphql.Fields{
			"position": &graphql.Field{Type: graphql.Int},
			"score":    &graphql.Field{Type: graphql.Int},
			"level":    &graphql.Field{Type: graphql.String},
			"attack":   &graphql.Field{Type: t.attack},
		},
	})

	t.count = graphql.NewObject(graphql.ObjectConfig{
		Name: "Count",
		Fields: graphql.Fields{
			"key":   &graphql.Field{Type: graphql.String},
			"count": &graphql.Field{Type: graphql.Int},
		},
	})

	t.risk = graphql.NewObject(graphql.ObjectConfig{
		Name: "NetworkRisk",
		Fields: graphql.Fields{
			"score":                 &graphql.Field{Type: graphql.Int},
			"level":                 &graphql.Field{Type: graphql.String},
			"totalAttacks":          &graphql.Field{Type: graphql.Int},
			"highConfidenceAttacks": &graphql.Field{Type: graphql.Int},
			"byType":                &graphql.Field{Type: graphql.NewList(t.count)},
			"bySeverity":            &graphql.Field{Type: graphql.NewList(t.count)},
			"byLevel":               &graphql.Field{Type: graphql.NewList(t.count)},
			"topAttack":             &graphql.Field{Type: t.ranked},
		},
	})

	t.view = graphql.NewObject(graphql.ObjectConfig{
		Name: "View",
		Fields: graphql.Fields{
			"zoom":         &graphql.Field{Type: graphql.Float},
			"offsetX":      &graphql.Field{Type: graphql.Float},
			"offsetY":      &graphql.Field{Type: graphql.Float},
			"selectedNode": &graphql.Field{Type: graphql.String},
		},
	})

	t.selection = graphql.NewObject(graphql.ObjectConfig{
		Name: "Selection",
		Fields: graphql.Fields{
			"nodeId":   &graphql.Field{Type: graphql.String},
			"selected": &graphql.Field{Type: graphql.Boolean},
			"node":     &graphql.Field{Type: t.node},
			"attacks":  &graphql.Field{Type: graphql.NewList(t.attack)},
		},
	})

	t.session = graphql.NewObject(graphql.ObjectConfig{
		Name: "Session",
		Fields: graphql.Fields{
			"id":      &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"state":   &graphql.Field{Type: graphql.String},
			"error":   &graphql.Field{Type: graphql.String},
			"nodes":   &graphql.Field{Type: graphql.Int},
			"edges":   &graphql.Field{Type: graphql.Int},
			"attacks": &graphql.Field{Type: graphql.Int},
		},
	})

	return t
}

func sessionResolver(shared *dashboard.Shared) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		snap := shared.Snapshot()
		return map[string]any{
			"id":      snap.SessionID,
			"state":   snap.State.String(),
			"error":   snap.Error,
			"nodes":   snap.Nodes,
			"edges":   snap.Edges,
			"attacks": snap.Attacks,
		}, nil
	}
}

func networkRiskResolver(shared *dashboard.Shared) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		var sum risk.Summary
		shared.Do(func(s *dashboard.Session) error {
			sum = s.Summary()
			return nil
		})

		out := map[string]any{
			"score":                 sum.NetworkScore,
			"level":                 string(severity.Classify(sum.NetworkScore)),
			"totalAttacks":          sum.Total,
			"highConfidenceAttacks": sum.HighConfidence,
			"byType":                countList(sum.ByType),
			"bySeverity":            countList(sum.BySeverity),
			"byLevel":               countList(sum.ByLevel),
		}
		if sum.TopAttack != nil {
			out["topAttack"] = rankedMap(*sum.TopAttack)
		}
		return out, nil
	}
}

func attacksResolver(shared *dashboard.Shared, limits *LimitConfig) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		var ranked []risk.Ranked
		shared.Do(func(s *dashboard.Session) error {
			ranked = s.Prioritized()
			return nil
		})

		level, _ := p.Args["level"].(string)
		limit := limitArg(p.Args, limits)

		out := make([]map[string]any, 0, len(ranked))
		for _, r := range ranked {
			if level != "" && string(r.Level) != level {
				continue
			}
			if len(out) == limit {
				break
			}
			out = append(out, rankedMap(r))
		}
		return out, nil
	}
}

func attackResolver(shared *dashboard.Shared) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		id, _ := p.Args["id"].(string)

		var (
			a  topology.Attack
			ok bool
		)
		shared.Do(func(s *dashboard.Session) error {
			a, ok = s.Attack(id)
			return nil
		})
		if !ok {
			return nil, nil
		}
		return attackMap(a), nil
	}
}

func nodesResolver(shared *dashboard.Shared, limits *LimitConfig) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		var nodes []dashboard.NodeView
		shared.Do(func(s *dashboard.Session) error {
			nodes = s.Nodes()
			return nil
		})

		attacked, filter := p.Args["attacked"].(bool)
		limit := limitArg(p.Args, limits)

		out := make([]map[string]any, 0, len(nodes))
		for _, nv := range nodes {
			if filter && nv.Attacked != attacked {
				continue
			}
			if len(out) == limit {
				break
			}
			out = append(out, nodeMap(nv))
		}
		return out, nil
	}
}

func nodeResolver(shared *dashboard.Shared) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		id, _ := p.Args["id"].(string)

		var nodes []dashboard.NodeView
		shared.Do(func(s *dashboard.Session) error {
			nodes = s.Nodes()
			return nil
		})
		for _, nv := range nodes {
			if nv.ID == id {
				return nodeMap(nv), nil
			}
		}
		return nil, nil
	}
}

func viewResolver(shared *dashboard.Shared) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		return viewMap(shared.Snapshot()), nil
	}
}

func selectionResolver(shared *dashboard.Shared) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		var out map[string]any
		shared.Do(func(s *dashboard.Session) error {
			id, ok := s.View().Selected()
			out = map[string]any{"nodeId": id, "selected": ok}
			if !ok {
				return nil
			}
			for _, nv := range s.Nodes() {
				if nv.ID == id {
					out["node"] = nodeMap(nv)
					break
				}
			}
			out["attacks"] = attackList(s.Index().AttacksForNode(id))
			return nil
		})
		return out, nil
	}
}

func limitArg(args map[string]any, limits *LimitConfig) int {
	requested := -1
	if v, ok := args["limit"].(int); ok {
		requested = v
	}
	return applyLimit(requested, limits)
}

func nodeMap(nv dashboard.NodeView) map[string]any {
	out := map[string]any{
		"id":        nv.ID,
		"ip":        nv.IP,
		"type":      string(nv.Type),
		"x":         nv.Position.X,
		"y":         nv.Position.Y,
		"attacked":  nv.Attacked,
		"attackIds": nv.AttackIDs,
	}
	if len(nv.Metadata) > 0 {
		if b, err := json.Marshal(nv.Metadata); err == nil {
			out["metadata"] = string(b)
		}
	}
	return out
}

func attackMap(a topology.Attack) map[string]any {
	score := severity.Score(a)
	return map[string]any{
		"id":          a.ID,
		"type":        string(a.Type),
		"severity":    string(a.Severity),
		"confidence":  a.Confidence,
		"timestamp":   a.Timestamp,
		"description": a.Description,
		"sourceNodes": a.SourceNodes,
		"targetNodes": a.TargetNodes,
		"score":       score,
		"level":       string(severity.Classify(score)),
	}
}

func attackList(attacks []topology.Attack) []map[string]any {
	out := make([]map[string]any, len(attacks))
	for i, a := range attacks {
		out[i] = attackMap(a)
	}
	return out
}

func rankedMap(r risk.Ranked) map[string]any {
	return map[string]any{
		"position": r.Position,
		"score":    r.Score,
		"level":    string(r.Level),
		"attack":   attackMap(r.Attack),
	}
}

func viewMap(snap dashboard.Snapshot) map[string]any {
	return map[string]any{
		"zoom":         snap.Zoom,
		"offsetX":      snap.Offset.X,
		"offsetY":      snap.Offset.Y,
		"selectedNode": snap.SelectedNode,
	}
}

// countList flattens a distribution into key order
func countList[K ~string](m map[K]int) []map[string]any {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)

	out := make([]map[string]any, len(keys))
	for i, k := range keys {
		out[i] = map[string]any{"key": k, "count": m[K(k)]}
	}
	return out
}
