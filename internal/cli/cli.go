// Package cli implements the jsonatlas command-line interface.
//
// This package provides commands for building node/edge graphs from JSON,
// CSV, or XLSX documents, computing layouts, rendering artifacts, exploring
// graphs interactively, and serving the hosted viewer. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - build: Derive a node/edge graph from a document
//   - layout: Compute node positions for a graph
//   - render: Run the full pipeline and write artifacts
//   - view: Explore a document interactively in the terminal
//   - serve: Host the HTTP viewer and JSON API
//   - cache: Manage the local artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jsonatlas/jsonatlas/pkg/buildinfo"
	"github.com/jsonatlas/jsonatlas/pkg/cache"
	"github.com/jsonatlas/jsonatlas/pkg/layout"
	"github.com/jsonatlas/jsonatlas/pkg/pipeline"
	"github.com/jsonatlas/jsonatlas/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "jsonatlas"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// exampleDocument is the sample JSON offered by build --example and served
// as the initial document in view and serve.
const exampleDocument = `{
  "name": "John Doe",
  "age": 30,
  "address": {
    "street": "123 Main St",
    "city": "New York"
  },
  "hobbies": ["reading", "gaming", "coding"]
}`

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config
}

// New creates a new CLI instance with a default logger and user config.
func New(w io.Writer, level log.Level) *CLI {
	cfg, err := loadConfig()
	c := &CLI{
		Logger: newLogger(w, level),
		Config: cfg,
	}
	if err != nil {
		c.Logger.Warnf("Ignoring config file: %v", err)
	}
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Jsonatlas visualizes JSON documents as interactive graphs",
		Long:         `Jsonatlas is a CLI tool for turning JSON, CSV, and XLSX documents into node/edge graphs with type-colored nodes, computing tree or force-directed layouts, and rendering them as SVG, PNG, PDF, HTML, or JSON artifacts.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	ca, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ca, nil, c.Logger), nil
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory, preferring the config file value,
// then the XDG standard (~/.cache/jsonatlas/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.CacheDir != "" {
		return c.Config.CacheDir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/jsonatlas/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// applyConfig seeds pipeline options from the config file. Flag values
// applied afterwards override these.
func (c *CLI) applyConfig(opts *pipeline.Options) {
	if c.Config.Engine != "" {
		opts.Engine = c.Config.Engine
	}
	if len(c.Config.Formats) > 0 {
		opts.Formats = append([]string(nil), c.Config.Formats...)
	}
	if c.Config.Dark {
		opts.Dark = true
	}
	if c.Config.LabelLength > 0 {
		opts.LabelLength = c.Config.LabelLength
	}
}

// parseFormats parses a comma-separated format string into a slice.
// An empty string keeps the existing defaults.
func parseFormats(s string, defaults []string) []string {
	if s == "" {
		if len(defaults) > 0 {
			return defaults
		}
		return []string{render.FormatSVG}
	}
	return strings.Split(s, ",")
}

// checkFormats validates formats and decorates unknown names with a
// did-you-mean hint.
func checkFormats(formats []string) error {
	if err := pipeline.ValidateFormats(formats); err != nil {
		for _, f := range formats {
			if pipeline.ValidateFormat(f) != nil {
				if hint := didYouMean(f, render.ValidFormats()); hint != "" {
					printDetail("%s", hint)
				}
			}
		}
		return err
	}
	return nil
}

// checkEngine validates the engine name and decorates unknown names with a
// did-you-mean hint.
func checkEngine(engine string) error {
	if err := pipeline.ValidateEngine(engine); err != nil {
		hint := didYouMean(engine, []string{layout.EngineHierarchical, layout.EngineForce})
		if hint != "" {
			printDetail("%s", hint)
		}
		return err
	}
	return nil
}

// errMissingInput is returned when a command needs a document and neither a
// file argument nor --example was given.
var errMissingInput = fmt.Errorf("no input: pass a document file or use --example")

// loadInput resolves the document source for a command: an explicit file
// argument, or the bundled example when --example is set.
func loadInput(args []string, example bool) (file, document string, err error) {
	if example {
		return "", exampleDocument, nil
	}
	if len(args) == 0 {
		return "", "", errMissingInput
	}
	return args[0], "", nil
}
