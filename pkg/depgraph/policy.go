package depgraph

import (
	"fmt"
	"slices"

	"github.com/matzehuels/wsgraph/pkg/workspace"
)

// SkipMode selects how far a skipped package is removed from the graph.
type SkipMode string

const (
	// SkipOmit removes a skipped package entirely: no node, no outgoing
	// edges, and no edges from other packages point at it.
	SkipOmit SkipMode = "omit"

	// SkipSourceOnly only suppresses the package as a source. Runtime edges
	// from other packages may still target it; peer edges are filtered by
	// name exclusion alone, since a bare dependency name carries no privacy
	// flag.
	SkipSourceOnly SkipMode = "source"
)

// ParseSkipMode parses "omit" or "source". The empty string is SkipOmit.
func ParseSkipMode(s string) (SkipMode, error) {
	switch SkipMode(s) {
	case "", SkipOmit:
		return SkipOmit, nil
	case SkipSourceOnly:
		return SkipSourceOnly, nil
	default:
		return "", fmt.Errorf("unknown skip mode %q (want %q or %q)", s, SkipOmit, SkipSourceOnly)
	}
}

// SkipPolicy decides which packages are excluded from the graph and from
// the congruence check.
type SkipPolicy struct {
	ExcludeNames   []string // exact package names, e.g. the workspace core package
	ExcludePrivate bool     // also skip packages with "private": true
	Mode           SkipMode // zero value behaves as SkipOmit
}

// Skips reports whether p itself is excluded.
func (sp SkipPolicy) Skips(p workspace.Package) bool {
	return (sp.ExcludePrivate && p.Private) || sp.excludesName(p.Name)
}

func (sp SkipPolicy) excludesName(name string) bool {
	return slices.Contains(sp.ExcludeNames, name)
}

func (sp SkipPolicy) mode() SkipMode {
	if sp.Mode == "" {
		return SkipOmit
	}
	return sp.Mode
}
