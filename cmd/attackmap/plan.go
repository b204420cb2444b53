package main

import (
	"encoding/json"
	"fmt"

	"github.com/dd0wney/cluso-attackmap/pkg/visualization"
	"github.com/spf13/cobra"
)

func newPlanCmd(a *app) *cobra.Command {
	var (
		zoomSteps int
		pan       []float64
		click     []float64
		summary   bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the draw plan for the topology as JSON",
		Long: `Loads the topology and attacks, applies the requested view changes
in order (zoom, pan, click) and prints the resulting draw plan.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(pan) != 0 && len(pan) != 2 {
				return fmt.Errorf("--pan takes dx,dy")
			}
			if len(click) != 0 && len(click) != 2 {
				return fmt.Errorf("--click takes x,y")
			}

			sess, err := a.loadSession(nil)
			if err != nil {
				return err
			}

			for i := 0; i < zoomSteps; i++ {
				sess.ZoomIn()
			}
			for i := 0; i > zoomSteps; i-- {
				sess.ZoomOut()
			}
			if len(pan) == 2 {
				sess.Pan(pan[0], pan[1])
			}
			if len(click) == 2 {
				if _, err := sess.Click(click[0], click[1]); err != nil {
					return err
				}
			}

			plan, err := sess.Plan()
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if summary {
				return enc.Encode(planSummary(plan))
			}
			return enc.Encode(plan)
		},
	}

	cmd.Flags().IntVar(&zoomSteps, "zoom", 0, "Zoom steps to apply (negative zooms out)")
	cmd.Flags().Float64SliceVar(&pan, "pan", nil, "Pan offset dx,dy in screen units")
	cmd.Flags().Float64SliceVar(&click, "click", nil, "Click at screen x,y before planning")
	cmd.Flags().BoolVar(&summary, "summary", false, "Print primitive counts instead of the full plan")

	return cmd
}

type planCounts struct {
	Transform    visualization.Transform `json:"transform"`
	SelectedNode string                  `json:"selected_node,omitempty"`
	Lines        int                     `json:"lines"`
	ArrowHeads   int                     `json:"arrowheads"`
	Circles      int                     `json:"circles"`
	Rings        int                     `json:"rings"`
	Labels       int                     `json:"labels"`
	SkippedEdges int                     `json:"skipped_edges"`
}

func planSummary(p visualization.Plan) planCounts {
	return planCounts{
		Transform:    p.Transform,
		SelectedNode: p.SelectedNode,
		Lines:        p.Count(visualization.KindLine),
		ArrowHeads:   p.Count(visualization.KindArrowHead),
		Circles:      p.Count(visualization.KindCircle),
		Rings:        p.Count(visualization.KindRing),
		Labels:       p.Count(visualization.KindLabel),
		SkippedEdges: p.SkippedEdges,
	}
}
