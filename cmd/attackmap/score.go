package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/dd0wney/cluso-attackmap/pkg/logging"
	"github.com/dd0wney/cluso-attackmap/pkg/risk"
	"github.com/dd0wney/cluso-attackmap/pkg/severity"
	"github.com/dd0wney/cluso-attackmap/pkg/topology"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newScoreCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score attacks and list them in mitigation order",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Data.AttacksFile
			if path == "" {
				return fmt.Errorf("no attacks given: use --attacks or data.attacks_file")
			}
			attacks, err := topology.LoadAttacks(path)
			if err != nil {
				return err
			}
			a.logger.Debug("attacks loaded", logging.Path(path), logging.Count(len(attacks)))

			ranked := risk.Prioritize(attacks)
			if limit > 0 && len(ranked) > limit {
				ranked = ranked[:limit]
			}
			summary := risk.Summarize(attacks)

			if asJSON {
				return writeScoreJSON(cmd.OutOrStdout(), ranked, summary)
			}
			return writeScoreTable(cmd.OutOrStdout(), ranked, summary)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many attacks (0 = all)")

	return cmd
}

func writeScoreJSON(w io.Writer, ranked []risk.Ranked, summary risk.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Attacks []risk.Ranked `json:"attacks"`
		Summary risk.Summary  `json:"summary"`
	}{ranked, summary})
}

func writeScoreTable(w io.Writer, ranked []risk.Ranked, summary risk.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tTYPE\tSEVERITY\tCONF\tSCORE\tLEVEL\tSOURCES -> TARGETS")
	for i, r := range ranked {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.2f\t%d\t%s\t%s -> %s\n",
			i+1,
			r.Attack.ID,
			r.Attack.Type,
			r.Attack.Severity,
			r.Attack.Confidence,
			r.Score,
			colorLevel(r.Level),
			strings.Join(r.Attack.SourceNodes, ","),
			strings.Join(r.Attack.TargetNodes, ","),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nNetwork risk: %d %s\n", summary.NetworkScore, colorLevel(severity.Classify(summary.NetworkScore)))
	fmt.Fprintf(w, "Attacks: %d (%d high confidence)\n", summary.Total, summary.HighConfidence)

	types := make([]string, 0, len(summary.ByType))
	for t, n := range summary.ByType {
		types = append(types, fmt.Sprintf("%s=%d", t, n))
	}
	slices.Sort(types)
	if len(types) > 0 {
		fmt.Fprintf(w, "By type: %s\n", strings.Join(types, " "))
	}
	return nil
}

func colorLevel(level severity.Level) string {
	switch level {
	case severity.LevelCritical:
		return color.New(color.FgRed, color.Bold).Sprint("CRITICAL")
	case severity.LevelHigh:
		return color.New(color.FgRed).Sprint("HIGH")
	case severity.LevelMedium:
		return color.New(color.FgYellow).Sprint("MEDIUM")
	case severity.LevelLow:
		return color.New(color.FgCyan).Sprint("LOW")
	default:
		return string(level)
	}
}
