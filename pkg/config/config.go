// Package config resolves wsgraph settings from defaults, a wsgraph.toml
// file, WSGRAPH_* environment variables and a .env file.
//
// Precedence, lowest first: defaults, config file, .env, process
// environment. Command-line flags are applied on top by the CLI.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/wsgraph/pkg/depgraph"
	errs "github.com/matzehuels/wsgraph/pkg/errors"
	"github.com/matzehuels/wsgraph/pkg/render/dot"
)

const (
	// FileName is the config file looked up in the workspace root.
	FileName = "wsgraph.toml"

	// EnvFile is the dotenv file looked up in the workspace root.
	EnvFile = ".env"

	// EnvPrefix prefixes every environment variable read by [Load].
	EnvPrefix = "WSGRAPH_"
)

// Config holds every recognised option.
type Config struct {
	GraphvizCommand   string   `toml:"graphviz_command"`
	GraphvizDirectory string   `toml:"graphviz_directory"`
	OutputFormat      string   `toml:"output_format"`
	OutputPath        string   `toml:"output_path"`
	Prefix            string   `toml:"prefix"`
	Exclude           []string `toml:"exclude"`
	ExcludePrivate    bool     `toml:"exclude_private"`
	SkipMode          string   `toml:"skip_mode"`
	NoCache           bool     `toml:"no_cache"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{GraphvizCommand: dot.DefaultCommand}
}

// Load resolves the configuration for the workspace at root. If path is
// empty, root/wsgraph.toml is used when it exists; an explicit path must
// exist.
func Load(root, path string) (Config, error) {
	cfg := Default()

	required := path != ""
	if !required {
		path = filepath.Join(root, FileName)
	}
	if err := cfg.applyFile(path, required); err != nil {
		return Config{}, err
	}

	dotenv, err := readDotenv(filepath.Join(root, EnvFile))
	if err != nil {
		return Config{}, err
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

func (c *Config) applyFile(path string, required bool) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if required {
			return errs.Wrap(errs.ErrCodeFileNotFound, err, "config file")
		}
		return nil
	}

	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

func readDotenv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return env, nil
}

// applyEnv overrides fields from WSGRAPH_* variables found by lookup.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"GRAPHVIZ_COMMAND":   &c.GraphvizCommand,
		"GRAPHVIZ_DIRECTORY": &c.GraphvizDirectory,
		"OUTPUT_FORMAT":      &c.OutputFormat,
		"OUTPUT_PATH":        &c.OutputPath,
		"PREFIX":             &c.Prefix,
		"SKIP_MODE":          &c.SkipMode,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"EXCLUDE_PRIVATE": &c.ExcludePrivate,
		"NO_CACHE":        &c.NoCache,
	}
	for key, dst := range bools {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "%s%s", EnvPrefix, key)
		}
		*dst = b
	}

	if v, ok := lookup(EnvPrefix + "EXCLUDE"); ok {
		c.Exclude = SplitList(v)
	}
	return nil
}

// SplitList splits a comma-separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks option values that can be checked without a workspace.
func (c Config) Validate() error {
	if c.GraphvizCommand == "" || strings.ContainsAny(c.GraphvizCommand, " \t/\\") {
		return errs.New(errs.ErrCodeInvalidConfig, "invalid graphviz command %q", c.GraphvizCommand)
	}
	if _, err := depgraph.ParseSkipMode(c.SkipMode); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "skip_mode")
	}
	return nil
}

// BuildOptions converts the configuration into graph builder options.
// scope is used as the prefix when none is configured. With neither, the
// congruence check is limited to dependencies on workspace packages.
func (c Config) BuildOptions(scope string) (depgraph.Options, error) {
	mode, err := depgraph.ParseSkipMode(c.SkipMode)
	if err != nil {
		return depgraph.Options{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "skip_mode")
	}
	prefix := c.Prefix
	if prefix == "" {
		prefix = scope
	}
	return depgraph.Options{
		Prefix:        prefix,
		WorkspaceOnly: prefix == "",
		Policy: depgraph.SkipPolicy{
			ExcludeNames:   c.Exclude,
			ExcludePrivate: c.ExcludePrivate,
			Mode:           mode,
		},
	}, nil
}

// Renderer returns the Graphviz renderer described by the configuration.
func (c Config) Renderer() dot.Renderer {
	return dot.Renderer{Command: c.GraphvizCommand, Directory: c.GraphvizDirectory}
}
