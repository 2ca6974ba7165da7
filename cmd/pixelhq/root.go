package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/RemyLoveLogicAI/pixel-agents/internal/config"
	"github.com/RemyLoveLogicAI/pixel-agents/internal/logging"
	"github.com/RemyLoveLogicAI/pixel-agents/internal/office"
)

var (
	cfgFile string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pixelhq",
	Short: "Pixel agents headquarters",
	Long: `pixelhq simulates an office of coding agents.

Agents sit in a four-tier hierarchy (boss, supervisor, employee, intern).
Skills are routed to the tier that owns them, agents earn experience and
level up, the team unlocks achievements and quests, and cheat codes toggle
modifiers that bend the rules for a while.

With no arguments, starts an interactive shell.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		switch {
		case cmd == configInitCmd:
			// init writes the file the other commands read.
			cfg = config.Default()
		case cfgFile != "":
			cfg, err = config.LoadFromPath(cfgFile)
		default:
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		logger, err = logging.New(cfg.Log, verbose)
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		zap.ReplaceGlobals(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell(cmd)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: user and project config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(officeCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(versionCmd)
}

// newOffice builds an office from the loaded config.
func newOffice() (*office.Office, error) {
	off, err := office.New(office.WithConfig(cfg), office.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("creating office: %w", err)
	}
	return off, nil
}
