// Package pipeline runs the wsgraph pipeline: load the workspace, build
// the dependency graph, render it and write the result.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: discover workspace packages and read their manifests
//  2. Build: enforce peer/dev congruence and derive nodes and edges
//  3. Render: serialise to DOT, optionally laid out by Graphviz
//  4. Write: emit the bytes to a file or stdout
//
// Graphviz output is cached by DOT content, engine and format. DOT text is
// cheap to produce and never cached.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Root: ".", Config: cfg})
//	if err != nil {
//	    return err
//	}
//	return pipeline.Write(result.Output, cfg.OutputPath, os.Stdout)
package pipeline

import (
	"time"

	"github.com/matzehuels/wsgraph/pkg/config"
	"github.com/matzehuels/wsgraph/pkg/depgraph"
	"github.com/matzehuels/wsgraph/pkg/workspace"
)

// Options configures one pipeline run.
type Options struct {
	// Root is the workspace root directory.
	Root string

	// Config holds the resolved settings.
	Config config.Config

	// Refresh bypasses cache reads; fresh renders are still stored.
	Refresh bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Workspace is the loaded workspace.
	Workspace *workspace.Workspace

	// Graph is the built dependency graph.
	Graph *depgraph.Graph

	// DOT is the DOT text of Graph.
	DOT string

	// Output is what should be written: DOT text when no output format is
	// set, Graphviz output otherwise.
	Output []byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the render came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PackageCount int
	NodeCount    int
	EdgeCount    int
	LoadTime     time.Duration
	BuildTime    time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool
}
