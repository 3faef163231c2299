// Package pkg provides the libraries behind wsgraph, a dependency graph tool
// for multi-package JavaScript workspaces.
//
// # Architecture
//
// The data flow through wsgraph:
//
//	package.json / pnpm-workspace.yaml / lerna.json
//	         ↓
//	    [workspace] package (discover and read manifests)
//	         ↓
//	    [depgraph] package (congruence check, nodes and edges)
//	         ↓
//	    [render/dot] package (DOT text, Graphviz layout)
//	         ↓
//	    DOT/SVG/PNG/PDF output
//
// [pipeline] runs these stages with logging and a render [cache];
// [config] resolves settings from wsgraph.toml, .env and WSGRAPH_*
// variables.
//
// # Quick Start
//
//	ws, err := workspace.NewLoader(nil).Load(ctx, ".")
//	if err != nil {
//	    return err
//	}
//	scope := ws.Scope()
//	g, err := depgraph.Build(ws.Packages, depgraph.Options{Prefix: scope, WorkspaceOnly: scope == ""})
//	if err != nil {
//	    return err // *depgraph.MismatchError, *depgraph.MissingFieldError, ...
//	}
//	fmt.Print(dot.ToDOT(g, dot.Options{}))
//
// # Main Packages
//
//   - [workspace]: workspace discovery and manifest parsing
//   - [depgraph]: graph construction and peer/dev congruence
//   - [render/dot]: DOT serialisation and Graphviz rendering
//   - [pipeline]: load → build → render → write orchestration
//   - [config]: layered configuration
//   - [cache]: render cache (file and null backends)
//   - [errors]: coded errors shared by every package
//   - [observability]: pipeline and cache hooks
//   - [buildinfo]: version information set at build time
package pkg
