package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wsgraph/pkg/cache"
	"github.com/matzehuels/wsgraph/pkg/depgraph"
	errs "github.com/matzehuels/wsgraph/pkg/errors"
	"github.com/matzehuels/wsgraph/pkg/observability"
	"github.com/matzehuels/wsgraph/pkg/render/dot"
	"github.com/matzehuels/wsgraph/pkg/workspace"
)

// cacheKeyType labels render cache events.
const cacheKeyType = "render"

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Execute runs load → build → render. Nothing is written; pass
// Result.Output to [Write].
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	result := &Result{}

	// Stage 1: Load
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.Root)
	loadStart := time.Now()
	ws, err := r.Load(ctx, opts.Root)
	if err != nil {
		hooks.OnLoadComplete(ctx, opts.Root, 0, time.Since(loadStart), err)
		return nil, err
	}
	result.Workspace = ws
	result.Stats.PackageCount = len(ws.Packages)
	result.Stats.LoadTime = time.Since(loadStart)
	hooks.OnLoadComplete(ctx, opts.Root, len(ws.Packages), result.Stats.LoadTime, nil)

	r.Logger.Info("loaded workspace",
		"packages", len(ws.Packages),
		"source", ws.Source,
		"duration", result.Stats.LoadTime)

	// Stage 2: Build
	buildStart := time.Now()
	g, err := r.Build(ws, opts)
	if err != nil {
		hooks.OnBuildComplete(ctx, 0, 0, time.Since(buildStart), err)
		return nil, err
	}
	result.Graph = g
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.Stats.BuildTime = time.Since(buildStart)
	hooks.OnBuildComplete(ctx, g.NodeCount(), g.EdgeCount(), result.Stats.BuildTime, nil)

	r.Logger.Info("built graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.BuildTime)

	// Stage 3: Render
	renderStart := time.Now()
	result.DOT = dot.ToDOT(g, dot.Options{})
	format := opts.Config.OutputFormat
	if format == "" {
		result.Output = []byte(result.DOT)
		return result, nil
	}

	engine := opts.Config.GraphvizCommand
	hooks.OnRenderStart(ctx, engine, format)
	out, hit, err := r.RenderWithCacheInfo(ctx, result.DOT, opts)
	if err != nil {
		hooks.OnRenderComplete(ctx, engine, format, time.Since(renderStart), err)
		return nil, err
	}
	result.Output = out
	result.CacheInfo.RenderHit = hit
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, engine, format, result.Stats.RenderTime, nil)

	r.Logger.Info("rendered graph",
		"format", format,
		"engine", engine,
		"bytes", len(out),
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load discovers the workspace at root.
func (r *Runner) Load(ctx context.Context, root string) (*workspace.Workspace, error) {
	return workspace.NewLoader(r.Logger).Load(ctx, root)
}

// Build builds the graph for ws. An unset prefix is inferred from the
// scope of the root manifest.
func (r *Runner) Build(ws *workspace.Workspace, opts Options) (*depgraph.Graph, error) {
	bopts, err := r.BuildOptions(ws, opts)
	if err != nil {
		return nil, err
	}
	return depgraph.Build(ws.Packages, bopts)
}

// Check reports every congruence violation in ws instead of stopping at
// the first.
func (r *Runner) Check(ws *workspace.Workspace, opts Options) ([]error, error) {
	bopts, err := r.BuildOptions(ws, opts)
	if err != nil {
		return nil, err
	}
	return depgraph.Check(ws.Packages, bopts), nil
}

// BuildOptions resolves builder options for ws.
func (r *Runner) BuildOptions(ws *workspace.Workspace, opts Options) (depgraph.Options, error) {
	bopts, err := opts.Config.BuildOptions(ws.Scope())
	if err != nil {
		return depgraph.Options{}, err
	}
	switch {
	case opts.Config.Prefix != "":
	case bopts.WorkspaceOnly:
		r.Logger.Debug("no workspace scope, checking workspace dependencies only")
	default:
		r.Logger.Debug("inferred prefix from workspace scope", "prefix", bopts.Prefix)
	}
	return bopts, nil
}

// RenderWithCacheInfo lays out dotText in opts.Config.OutputFormat and
// reports whether the result came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, dotText string, opts Options) ([]byte, bool, error) {
	cfg := opts.Config
	renderer := cfg.Renderer()
	key := cache.RenderKey(cfg.GraphvizCommand, cfg.GraphvizDirectory, cfg.OutputFormat, dotText)

	cacheHooks := observability.Cache()
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			cacheHooks.OnCacheHit(ctx, cacheKeyType)
			return data, true, nil
		}
		cacheHooks.OnCacheMiss(ctx, cacheKeyType)
	}

	r.Logger.Debug("rendering",
		"engine", cfg.GraphvizCommand,
		"format", cfg.OutputFormat,
		"embedded", renderer.Embedded(cfg.OutputFormat))

	out, err := renderer.Render(ctx, dotText, cfg.OutputFormat)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, out, cache.DefaultTTL); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
	} else {
		cacheHooks.OnCacheSet(ctx, cacheKeyType, len(out))
	}
	return out, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		if err := r.Cache.Close(); err != nil {
			return errs.Wrap(errs.ErrCodeInternal, err, "close cache")
		}
	}
	return nil
}
