package workspace

import (
	"context"
	"encoding/json"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/wsgraph/pkg/errors"
)

const (
	lernaFile = "lerna.json"
	pnpmFile  = "pnpm-workspace.yaml"
)

var defaultLernaPackages = []string{"packages/*"}

// Workspace is the result of loading a monorepo.
type Workspace struct {
	Root     string    // absolute workspace root
	Manifest Package   // root package.json
	Source   string    // file that declared the package patterns
	Patterns []string  // package patterns as declared
	Packages []Package // discovered packages in discovery order
}

// Scope returns the npm scope of the root manifest name, see [Package.Scope].
// An unscoped root falls back to the scope every workspace package shares,
// and to "" when the packages do not agree on one.
func (w *Workspace) Scope() string {
	if scope := w.Manifest.Scope(); scope != "" {
		return scope
	}
	if len(w.Packages) == 0 {
		return ""
	}
	scope := w.Packages[0].Scope()
	for _, p := range w.Packages[1:] {
		if p.Scope() != scope {
			return ""
		}
	}
	return scope
}

// Loader discovers and parses workspace packages.
type Loader struct {
	Logger *log.Logger

	// Concurrency bounds parallel manifest reads. Zero uses GOMAXPROCS.
	Concurrency int
}

// NewLoader creates a Loader. A nil logger falls back to log.Default().
func NewLoader(logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{Logger: logger}
}

type lernaConfig struct {
	Packages      []string `json:"packages"`
	UseWorkspaces bool     `json:"useWorkspaces"`
}

type pnpmWorkspace struct {
	Packages []string `yaml:"packages"`
}

// Load reads the workspace rooted at root and returns every package it
// declares. The whole load fails on the first unreadable or invalid manifest.
func (l *Loader) Load(ctx context.Context, root string) (*Workspace, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "resolve %s", root)
	}

	rootManifest, err := decodeManifest(filepath.Join(abs, ManifestName))
	if err != nil {
		return nil, err
	}

	patterns, source, err := l.patterns(abs, rootManifest)
	if err != nil {
		return nil, err
	}
	l.Logger.Debug("workspace patterns", "source", source, "patterns", patterns)

	dirs, err := expandPatterns(abs, patterns)
	if err != nil {
		return nil, err
	}

	pkgs, err := l.readAll(ctx, abs, dirs)
	if err != nil {
		return nil, err
	}

	return &Workspace{
		Root:     abs,
		Manifest: rootManifest.Package,
		Source:   source,
		Patterns: patterns,
		Packages: pkgs,
	}, nil
}

func (l *Loader) patterns(root string, manifest *manifestFile) ([]string, string, error) {
	data, err := os.ReadFile(filepath.Join(root, lernaFile))
	switch {
	case err == nil:
		var lerna lernaConfig
		if err := json.Unmarshal(data, &lerna); err != nil {
			return nil, "", errs.Wrap(errs.ErrCodeInvalidManifest, err, "parse %s", lernaFile)
		}
		if !lerna.UseWorkspaces {
			if len(lerna.Packages) == 0 {
				return defaultLernaPackages, lernaFile, nil
			}
			return lerna.Packages, lernaFile, nil
		}
		l.Logger.Debug("lerna delegates to package.json workspaces")
	case !os.IsNotExist(err):
		return nil, "", errs.Wrap(errs.ErrCodeInvalidManifest, err, "read %s", lernaFile)
	}

	data, err = os.ReadFile(filepath.Join(root, pnpmFile))
	switch {
	case err == nil:
		var pnpm pnpmWorkspace
		if err := yaml.Unmarshal(data, &pnpm); err != nil {
			return nil, "", errs.Wrap(errs.ErrCodeInvalidManifest, err, "parse %s", pnpmFile)
		}
		if len(pnpm.Packages) > 0 {
			return pnpm.Packages, pnpmFile, nil
		}
	case !os.IsNotExist(err):
		return nil, "", errs.Wrap(errs.ErrCodeInvalidManifest, err, "read %s", pnpmFile)
	}

	if len(manifest.Workspaces) > 0 {
		return manifest.Workspaces, ManifestName, nil
	}
	return nil, "", errs.New(errs.ErrCodeInvalidManifest, "no workspace packages declared in %s", root)
}

// expandPatterns resolves patterns to package directories relative to root.
func expandPatterns(root string, patterns []string) ([]string, error) {
	fsys := os.DirFS(root)
	seen := make(map[string]bool)
	var dirs, excludes []string

	for _, pattern := range patterns {
		if err := errs.ValidateWorkspacePattern(pattern); err != nil {
			return nil, err
		}
		if rest, ok := strings.CutPrefix(pattern, "!"); ok {
			excludes = append(excludes, path.Clean(rest))
			continue
		}

		matches, err := doublestar.Glob(fsys, path.Join(path.Clean(pattern), ManifestName))
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidManifest, err, "glob pattern failed: %s", pattern)
		}
		slices.Sort(matches)

		for _, m := range matches {
			dir := path.Dir(m)
			if seen[dir] || inNodeModules(dir) {
				continue
			}
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	return slices.DeleteFunc(dirs, func(dir string) bool {
		for _, ex := range excludes {
			if ok, _ := doublestar.Match(ex, dir); ok {
				return true
			}
		}
		return false
	}), nil
}

func inNodeModules(dir string) bool {
	return slices.Contains(strings.Split(dir, "/"), "node_modules")
}

func (l *Loader) readAll(ctx context.Context, root string, dirs []string) ([]Package, error) {
	pkgs := make([]Package, len(dirs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency())
	for i, dir := range dirs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := ReadManifest(filepath.Join(root, filepath.FromSlash(dir), ManifestName))
			if err != nil {
				return err
			}
			p.Dir = dir
			pkgs[i] = *p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, p := range pkgs {
		if err := errs.ValidateNpmPackageName(p.Name); err != nil {
			l.Logger.Warn("unusual package name", "package", p.Name, "dir", p.Dir, "err", errs.UserMessage(err))
		}
		l.Logger.Debug("loaded package", "package", p.Name, "version", p.Version, "dir", p.Dir)
	}
	return pkgs, nil
}

func (l *Loader) concurrency() int {
	if l.Concurrency > 0 {
		return l.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}
