// Package depgraph builds the inter-package dependency graph of a workspace
// and enforces peer/dev dependency congruence.
//
// # Overview
//
// [Build] is a pure function from a list of [workspace.Package] records to
// an immutable [Graph]. Nodes are the packages that survive the
// [SkipPolicy]; edges connect a package to the workspace packages it lists
// in "dependencies" ([EdgePlain]) or "peerDependencies" ([EdgeDotted]).
// Dependencies on packages outside the workspace never produce edges.
//
// # Congruence
//
// Every non-skipped package must declare both "peerDependencies" and
// "devDependencies". Restricted to names starting with [Options.Prefix], the
// two blocks must contain the same name@version tokens:
//
//	"peerDependencies": {"@ws/a": "1.0.0"},
//	"devDependencies":  {"@ws/a": "1.0.0", "typescript": "5.4.0"}
//
// is congruent for prefix "@ws/", while a dev version of "^1.0.0" is not.
// This keeps a package from promising a peer contract it never exercises
// locally.
//
// [Build] stops at the first violation. [Check] collects all of them.
//
// # Skipping
//
// [SkipPolicy] excludes packages by exact name and optionally when private.
// [SkipOmit] removes a skipped package from the graph entirely;
// [SkipSourceOnly] keeps it reachable through runtime edges.
//
// # Determinism
//
// Nodes follow input order. Edges of one package are emitted runtime first,
// then peer, each sorted by dependency name, so equal inputs always produce
// equal graphs.
//
// [workspace.Package]: github.com/matzehuels/wsgraph/pkg/workspace.Package
package depgraph
