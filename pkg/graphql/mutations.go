package graphql

import (
	"github.com/dd0wney/cluso-attackmap/pkg/dashboard"
	"github.com/graphql-go/graphql"
)

func createMutationType(shared *dashboard.Shared, t *types) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"zoomIn": &graphql.Field{
				Type:    t.view,
				Resolve: viewMutation(shared, (*dashboard.Session).ZoomIn),
			},
			"zoomOut": &graphql.Field{
				Type:    t.view,
				Resolve: viewMutation(shared, (*dashboard.Session).ZoomOut),
			},
			"resetView": &graphql.Field{
				Type:    t.view,
				Resolve: viewMutation(shared, (*dashboard.Session).Reset),
			},
			"pan": &graphql.Field{
				Type: t.view,
				Args: graphql.FieldConfigArgument{
					"dx": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"dy": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					dx := floatArg(p.Args, "dx")
					dy := floatArg(p.Args, "dy")
					return viewMutation(shared, func(s *dashboard.Session) {
						s.Pan(dx, dy)
					})(p)
				},
			},
			"click": &graphql.Field{
				Type: t.selection,
				Args: graphql.FieldConfigArgument{
					"x": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"y": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: clickMutationResolver(shared),
			},
		},
	})
}

func viewMutation(shared *dashboard.Shared, apply func(*dashboard.Session)) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		var snap dashboard.Snapshot
		shared.Do(func(s *dashboard.Session) error {
			apply(s)
			snap = s.Snapshot()
			return nil
		})
		return viewMap(snap), nil
	}
}

func clickMutationResolver(shared *dashboard.Shared) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		x := floatArg(p.Args, "x")
		y := floatArg(p.Args, "y")

		var out map[string]any
		err := shared.Do(func(s *dashboard.Session) error {
			ev, err := s.Click(x, y)
			if err != nil {
				return err
			}
			out = map[string]any{
				"nodeId":   ev.NodeID,
				"selected": ev.Selected,
				"attacks":  attackList(ev.Attacks),
			}
			if ev.Selected {
				for _, nv := range s.Nodes() {
					if nv.ID == ev.NodeID {
						out["node"] = nodeMap(nv)
						break
					}
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}

// floatArg accepts Float arguments that arrive as int literals
func floatArg(args map[string]any, name string) float64 {
	switch v := args[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}
