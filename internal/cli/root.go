// Package cli provides the Cobra command structure for piecetree.
package cli

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dshills/piecetree/internal/config"
	"github.com/dshills/piecetree/internal/logging"
)

// ErrNoMatches is returned by find when nothing matched. It only sets
// the exit code and is not logged.
var ErrNoMatches = errors.New("no matches")

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// app carries global flags and the state derived from them.
type app struct {
	debug      bool
	configPath string
	envFile    string
	color      string

	cfg    config.Config
	logger *log.Logger
}

// NewRootCommand creates the root piecetree command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "piecetree",
		Short: "Inspect and search text documents with a piece tree",
		Long: `piecetree loads documents into a piece-table text store and answers
questions about them: line and line-ending statistics, individual lines,
literal, regex and whole-word search, and normalized output.

Settings come from an optional TOML or YAML file, a .env file and
PIECETREE_* environment variables.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a TOML or YAML config file")
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "path to a .env file (skipped when missing)")
	rootCmd.PersistentFlags().StringVar(&a.color, "color", "auto", "colorize output: auto, always, never")

	rootCmd.AddCommand(newStatCommand(a))
	rootCmd.AddCommand(newLineCommand(a))
	rootCmd.AddCommand(newFindCommand(a))
	rootCmd.AddCommand(newCatCommand(a))
	rootCmd.AddCommand(newWatchCommand(a))
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	opts := []config.Option{config.WithEnvFile(a.envFile)}
	if a.configPath != "" {
		opts = append(opts, config.WithFile(a.configPath))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if a.debug {
		level = "debug"
	}
	a.cfg = cfg
	a.logger = logging.NewWithWriter(cmd.ErrOrStderr(), level)
	logging.SetDefault(a.logger)
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))

	a.logger.Debug("configuration loaded",
		"config", a.configPath,
		logging.FieldEOL, cfg.DefaultEOL,
		"normalize_eol", cfg.NormalizeEOL,
		"search_limit", cfg.SearchLimit,
		"debug_checks", cfg.DebugChecks,
	)
	return nil
}

func (a *app) styles(cmd *cobra.Command) *Styles {
	return NewStyles(IsColorEnabled(a.color, cmd.OutOrStdout()))
}
