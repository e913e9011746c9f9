// Package cli implements the netdiagram command-line interface.
//
// # Commands
//
//   - serve: run the editing session behind the HTTP API and SSE stream
//   - tui: edit a diagram in the terminal
//   - layout: settle an import document and write positions, DOT or SVG
//   - convert: read an import document and write it in the export schema
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// lives on the CLI value and is handed to every component explicitly.
package cli

import (
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"netdiagram/internal/config"
	"netdiagram/internal/service"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "netdiagram",
		Short:        "netdiagram edits network diagrams with a live force layout",
		Long:         `netdiagram is an editor for network diagrams of hosts, routers and links. Devices settle under a force-directed layout while you edit them, from the terminal or over an HTTP API.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: search $NETDIAGRAM_CONFIG, ./netdiagram.yaml, XDG dirs)")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.convertCommand())

	return root
}

// loadConfig reads the --config file or searches the default locations
func (c *CLI) loadConfig() (*config.Config, error) {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if c.configPath != "" {
		cfg, path, err = config.LoadFromPath(c.configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if path == "" {
		c.Logger.Debug("No config file found, using defaults")
	} else {
		c.Logger.Debug("Loaded config", "path", path)
	}
	c.Logger.Debug("Config", "summary", cfg.Summary())
	return cfg, nil
}

// sessionConfig derives session tunables from the config
func sessionConfig(cfg *config.Config, rng *rand.Rand) service.SessionConfig {
	return service.SessionConfig{
		Params:   cfg.Physics,
		Viewport: cfg.LayoutViewport(),
		Spacing:  cfg.Import.Spacing,
		Rand:     rng,
	}
}
