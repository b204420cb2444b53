// Command attackmap scores attacks against a network topology and serves
// the interactive attack map over HTTP or in the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/dd0wney/cluso-attackmap/pkg/config"
	"github.com/dd0wney/cluso-attackmap/pkg/dashboard"
	"github.com/dd0wney/cluso-attackmap/pkg/logging"
	"github.com/dd0wney/cluso-attackmap/pkg/metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

// app carries what every subcommand needs once flags are parsed
type app struct {
	v          *viper.Viper
	configFile string
	cfg        *config.Config
	logger     *logging.ZapLogger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}

	rootCmd := &cobra.Command{
		Use:           "attackmap",
		Short:         "Network attack map and risk scoring",
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Config file path (YAML)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("log-format", "", "Log format: json, console")
	flags.String("graph", "", "Topology file (.json, .yaml, .yml)")
	flags.String("attacks", "", "Attack file (.json, .yaml, .yml)")

	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = a.v.BindPFlag("data.graph_file", flags.Lookup("graph"))
	_ = a.v.BindPFlag("data.attacks_file", flags.Lookup("attacks"))

	rootCmd.AddCommand(newScoreCmd(a))
	rootCmd.AddCommand(newPlanCmd(a))
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newTUICmd(a))

	return rootCmd
}

// init loads the configuration and builds the logger. Logs go to stderr
// so command output on stdout stays machine readable.
func (a *app) init() error {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.NewZapLogger(os.Stderr, logging.ParseLevel(cfg.Log.Level), logging.Format(cfg.Log.Format))
	logging.SetDefaultLogger(a.logger)
	return nil
}

// newSession creates a session from the loaded configuration
func (a *app) newSession(reg *metrics.Registry) *dashboard.Session {
	return dashboard.NewSession(dashboard.Config{
		Layout:  a.cfg.Layout,
		Logger:  a.logger,
		Metrics: reg,
	})
}

// loadSession creates a session and loads the configured data files
func (a *app) loadSession(reg *metrics.Registry) (*dashboard.Session, error) {
	if a.cfg.Data.GraphFile == "" {
		return nil, fmt.Errorf("no topology given: use --graph or data.graph_file")
	}
	sess := a.newSession(reg)
	if err := sess.LoadFiles(a.cfg.Data.GraphFile, a.cfg.Data.AttacksFile); err != nil {
		return nil, err
	}
	return sess, nil
}
