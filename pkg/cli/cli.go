// Package cli provides the flysql command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fguintu/FlySQL/pkg/config"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// CLI holds the command-line interface state.
type CLI struct {
	rootCmd *cobra.Command
	version string

	cfg    *config.Config
	logger *zap.Logger

	// Global flags
	configPath string
	debug      bool
}

// New creates a CLI reporting the given build version.
func New(version string) *CLI {
	c := &CLI{version: version}
	c.rootCmd = c.newRootCmd()
	return c
}

// Execute runs the CLI and returns the process exit code.
func (c *CLI) Execute() int {
	defer func() {
		if c.logger != nil {
			_ = c.logger.Sync()
		}
	}()

	if err := c.rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return ExitFailure
	}
	return ExitSuccess
}

func (c *CLI) newRootCmd() *cobra.Command {
	serveCmd := c.newServeCmd()

	cmd := &cobra.Command{
		Use:   "flysql",
		Short: "FlySQL - safe ad-hoc SQL gateway for airportdb",
		Long: `FlySQL serves read-only, paginated ad-hoc SELECT queries over HTTP
against the airportdb PostgreSQL database, with query history, bookmarks
and a small natural-language translator.

Running flysql without a subcommand starts the server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return c.initConfig()
		},
		RunE: serveCmd.RunE,
	}

	cmd.PersistentFlags().StringVar(&c.configPath, "config", config.DefaultPath, "config file (optional; environment overrides it)")
	cmd.PersistentFlags().BoolVar(&c.debug, "debug", false, "verbose debug logs")

	cmd.AddCommand(serveCmd)
	cmd.AddCommand(c.newMigrateCmd())
	cmd.AddCommand(c.newVersionCmd())

	return cmd
}

func (c *CLI) initConfig() error {
	cfg, err := config.Load(c.version, c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	logger, err := newLogger(cfg, c.debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	c.logger = logger
	return nil
}

// newLogger builds a console logger for local environments and a JSON
// logger everywhere else.
func newLogger(cfg *config.Config, debug bool) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.IsDevelopment() {
		zc = zap.NewDevelopmentConfig()
		zc.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		zc = zap.NewProductionConfig()
	}
	if debug {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zc.Build(zap.Fields(zap.String("version", cfg.Version)))
}
