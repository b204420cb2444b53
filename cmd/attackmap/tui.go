package main

import (
	"fmt"

	"github.com/dd0wney/cluso-attackmap/pkg/logging"
	"github.com/dd0wney/cluso-attackmap/pkg/tui"
	"github.com/spf13/cobra"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Explore the attack map in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !tui.IsTerminal() {
				return fmt.Errorf("tui needs an interactive terminal")
			}

			// Log lines would corrupt the full-screen display
			a.logger.SetLevel(logging.ErrorLevel)

			sess, err := a.loadSession(nil)
			if err != nil {
				return err
			}
			return tui.Run(sess)
		},
	}
}
