package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/wsgraph/pkg/config"
)

// flags holds raw command-line values. They override the config file and
// environment only when set explicitly.
type flags struct {
	configPath string
	refresh    bool
	values     config.Config
}

// registerWorkspace adds flags shared by every command that reads a workspace.
func (f *flags) registerWorkspace(fs *pflag.FlagSet) {
	fs.StringVar(&f.configPath, "config", "", "config file (default <dir>/"+config.FileName+")")
	fs.StringVar(&f.values.Prefix, "prefix", "", "workspace package prefix (default: scope of the workspace)")
	fs.StringSliceVar(&f.values.Exclude, "exclude", nil, "package names to skip (repeatable)")
	fs.BoolVar(&f.values.ExcludePrivate, "exclude-private", false, "skip private packages")
	fs.StringVar(&f.values.SkipMode, "skip-mode", "", "how skipped packages affect edges: omit or source")
}

// registerRender adds the graph output flags.
func (f *flags) registerRender(fs *pflag.FlagSet) {
	fs.StringVarP(&f.values.GraphvizCommand, "graphviz-command", "c", config.Default().GraphvizCommand, "graphviz layout engine")
	fs.StringVarP(&f.values.GraphvizDirectory, "graphviz-directory", "d", "", "directory containing the graphviz binaries")
	fs.StringVarP(&f.values.OutputFormat, "output-format", "f", "", "graphviz output format (svg, png, pdf, ...); empty prints DOT")
	fs.StringVarP(&f.values.OutputPath, "output-path", "o", "", "output file (default stdout)")
	fs.BoolVar(&f.values.NoCache, "no-cache", false, "disable the render cache")
	fs.BoolVar(&f.refresh, "refresh", false, "re-render even when a cached result exists")
}

// resolve loads the layered configuration for root and applies explicitly
// set flags on top.
func (f *flags) resolve(cmd *cobra.Command, root string) (config.Config, error) {
	cfg, err := config.Load(root, f.configPath)
	if err != nil {
		return config.Config{}, err
	}

	set := cmd.Flags().Changed
	if set("prefix") {
		cfg.Prefix = f.values.Prefix
	}
	if set("exclude") {
		cfg.Exclude = f.values.Exclude
	}
	if set("exclude-private") {
		cfg.ExcludePrivate = f.values.ExcludePrivate
	}
	if set("skip-mode") {
		cfg.SkipMode = f.values.SkipMode
	}
	if set("graphviz-command") {
		cfg.GraphvizCommand = f.values.GraphvizCommand
	}
	if set("graphviz-directory") {
		cfg.GraphvizDirectory = f.values.GraphvizDirectory
	}
	if set("output-format") {
		cfg.OutputFormat = f.values.OutputFormat
	}
	if set("output-path") {
		cfg.OutputPath = f.values.OutputPath
	}
	if set("no-cache") {
		cfg.NoCache = f.values.NoCache
	}

	return cfg, cfg.Validate()
}
