// Package cli implements the wsgraph command-line interface.
//
// The root command loads a JavaScript workspace, checks that every
// package mirrors its workspace peerDependencies in devDependencies and
// prints the dependency graph as Graphviz DOT, or lays it out into svg,
// png, pdf and other formats.
//
// # Commands
//
//   - wsgraph [dir]: emit the dependency graph
//   - check: report every congruence violation
//   - list: show the discovered packages
//   - cache: manage the render cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Logs go to
// stderr; stdout carries only the graph.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wsgraph/pkg/buildinfo"
	"github.com/matzehuels/wsgraph/pkg/cache"
	"github.com/matzehuels/wsgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "wsgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
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
	var fl flags

	root := &cobra.Command{
		Use:   appName + " [dir]",
		Short: "wsgraph graphs the dependencies between packages of a JavaScript workspace",
		Long: `wsgraph reads the package.json files of an npm, yarn, pnpm or lerna workspace,
verifies that every package declares its workspace peerDependencies identically
in devDependencies, and prints the inter-package dependency graph as Graphviz DOT.

Runtime dependencies are drawn as plain edges, peer dependencies as dotted
edges, and private packages as dashed nodes.`,
		Example: `  wsgraph > deps.dot
  wsgraph ./monorepo -f svg -o deps.svg
  wsgraph --exclude @scope/core --skip-mode source`,
		Args:         cobra.MaximumNArgs(1),
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd, args, &fl)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	fl.registerWorkspace(root.PersistentFlags())
	fl.registerRender(root.Flags())
	registerCompletions(root)

	root.AddCommand(c.checkCommand(&fl))
	root.AddCommand(c.listCommand(&fl))
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// runGraph is the root command: load, build, render, write.
func (c *CLI) runGraph(cmd *cobra.Command, args []string, fl *flags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	root := workspaceRoot(args)

	cfg, err := fl.resolve(cmd, root)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(cfg.NoCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, pipeline.Options{Root: root, Config: cfg, Refresh: fl.refresh})
	if err != nil {
		return err
	}
	if err := pipeline.Write(result.Output, cfg.OutputPath, cmd.OutOrStdout()); err != nil {
		return err
	}

	if cfg.OutputPath != "" {
		prog.done("wrote graph", "path", cfg.OutputPath, "bytes", len(result.Output))
		printFile(cmd.OutOrStdout(), cfg.OutputPath)
		printStats(cmd.OutOrStdout(), result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/wsgraph/).
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

// workspaceRoot returns the directory argument, defaulting to ".".
func workspaceRoot(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}
