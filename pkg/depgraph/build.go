package depgraph

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/wsgraph/pkg/workspace"
)

// Options configures [Build] and [Check].
type Options struct {
	// Prefix is the reserved workspace name prefix, e.g. "@moodlenet/".
	// Only dependencies whose name starts with it take part in the
	// congruence check. An empty prefix includes every dependency.
	Prefix string

	// WorkspaceOnly further restricts the congruence check to dependencies
	// naming a package of the input list. It serves workspaces without a
	// common scope to use as Prefix.
	WorkspaceOnly bool

	// Policy selects the skipped packages.
	Policy SkipPolicy
}

// Build derives the workspace graph from pkgs.
//
// Packages are processed in input order. For each package not skipped by
// opts.Policy, Build verifies peer/dev congruence, emits a node (dashed when
// private), then plain edges for its runtime dependencies and dotted edges
// for its peer dependencies. Only dependencies that name a package in pkgs
// produce edges.
//
// The first violation aborts the build and no graph is returned. Violations
// are *DuplicateError, *MissingFieldError or *MismatchError.
func Build(pkgs []workspace.Package, opts Options) (*Graph, error) {
	index, err := indexPackages(pkgs)
	if err != nil {
		return nil, err
	}

	g := &Graph{}
	for _, p := range pkgs {
		if opts.Policy.Skips(p) {
			continue
		}
		if err := congruent(p, opts.compared(index)); err != nil {
			return nil, err
		}

		style := StyleSolid
		if p.Private {
			style = StyleDashed
		}
		g.nodes = append(g.nodes, Node{ID: p.Name, Style: style})

		for _, dep := range sortedKeys(p.Dependencies) {
			if opts.runtimeTarget(index, dep) {
				g.edges = append(g.edges, Edge{From: p.Name, To: dep, Kind: EdgePlain})
			}
		}
		for _, dep := range sortedKeys(p.PeerDependencies) {
			if opts.peerTarget(index, dep) {
				g.edges = append(g.edges, Edge{From: p.Name, To: dep, Kind: EdgeDotted})
			}
		}
	}
	return g, nil
}

// Check runs every validation [Build] performs but keeps going after a
// violation, returning all of them in input order. A nil result means Build
// would succeed.
func Check(pkgs []workspace.Package, opts Options) []error {
	var violations []error
	index := make(map[string]workspace.Package, len(pkgs))
	for _, p := range pkgs {
		if _, dup := index[p.Name]; dup {
			violations = append(violations, &DuplicateError{Name: p.Name})
		}
		index[p.Name] = p
	}
	keep := opts.compared(index)
	for _, p := range pkgs {
		if opts.Policy.Skips(p) {
			continue
		}
		if err := congruent(p, keep); err != nil {
			violations = append(violations, err)
		}
	}
	return violations
}

// Congruent verifies that p declares both peerDependencies and
// devDependencies, and that the prefix-scoped entries of both name the same
// packages at the same versions.
func Congruent(p workspace.Package, prefix string) error {
	return congruent(p, func(name string) bool { return strings.HasPrefix(name, prefix) })
}

func congruent(p workspace.Package, keep func(name string) bool) error {
	if p.PeerDependencies == nil {
		return &MissingFieldError{Package: p.Name, Field: FieldPeerDependencies}
	}
	if p.DevDependencies == nil {
		return &MissingFieldError{Package: p.Name, Field: FieldDevDependencies}
	}

	peers := scopedTokens(p.PeerDependencies, keep)
	devs := scopedTokens(p.DevDependencies, keep)
	if !slices.Equal(peers, devs) {
		return &MismatchError{Package: p.Name, Peers: peers, Devs: devs}
	}
	return nil
}

// scopedTokens returns the sorted name@version tokens of deps kept by keep.
func scopedTokens(deps map[string]string, keep func(string) bool) []string {
	tokens := make([]string, 0, len(deps))
	for name, version := range deps {
		if keep(name) {
			tokens = append(tokens, name+"@"+version)
		}
	}
	slices.Sort(tokens)
	return tokens
}

func indexPackages(pkgs []workspace.Package) (map[string]workspace.Package, error) {
	index := make(map[string]workspace.Package, len(pkgs))
	for _, p := range pkgs {
		if _, dup := index[p.Name]; dup {
			return nil, &DuplicateError{Name: p.Name}
		}
		index[p.Name] = p
	}
	return index, nil
}

// compared returns the filter selecting dependencies for the congruence
// check.
func (o Options) compared(index map[string]workspace.Package) func(string) bool {
	return func(name string) bool {
		if !strings.HasPrefix(name, o.Prefix) {
			return false
		}
		if o.WorkspaceOnly {
			_, ok := index[name]
			return ok
		}
		return true
	}
}

func (o Options) runtimeTarget(index map[string]workspace.Package, dep string) bool {
	target, ok := index[dep]
	if !ok {
		return false
	}
	if o.Policy.mode() == SkipSourceOnly {
		return true
	}
	return !o.Policy.Skips(target)
}

func (o Options) peerTarget(index map[string]workspace.Package, dep string) bool {
	target, ok := index[dep]
	if !ok {
		return false
	}
	if o.Policy.mode() == SkipSourceOnly {
		return !o.Policy.excludesName(dep)
	}
	return !o.Policy.Skips(target)
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
