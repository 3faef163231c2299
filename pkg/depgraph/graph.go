package depgraph

import "slices"

// Style is the visual style of a node.
type Style int

const (
	// StyleSolid marks a publishable package.
	StyleSolid Style = iota
	// StyleDashed marks a private, internal-only package.
	StyleDashed
)

// String returns the Graphviz style name ("solid" or "dashed").
func (s Style) String() string {
	if s == StyleDashed {
		return "dashed"
	}
	return "solid"
}

// EdgeKind distinguishes runtime dependency edges from peer dependency edges.
type EdgeKind int

const (
	// EdgePlain is a runtime ("dependencies") edge.
	EdgePlain EdgeKind = iota
	// EdgeDotted is a "peerDependencies" edge.
	EdgeDotted
)

// String returns "plain" or "dotted".
func (k EdgeKind) String() string {
	if k == EdgeDotted {
		return "dotted"
	}
	return "plain"
}

// Node is one emitted workspace package.
type Node struct {
	ID    string // package name
	Style Style
}

// Edge is a directed dependency between two workspace packages. The same
// pair may be connected twice when the kinds differ.
type Edge struct {
	From string
	To   string
	Kind EdgeKind
}

// Graph is the immutable result of [Build]. The zero value is an empty graph.
type Graph struct {
	nodes []Node
	edges []Edge
}

// Nodes returns a copy of the nodes in package input order.
func (g *Graph) Nodes() []Node { return slices.Clone(g.nodes) }

// Edges returns a copy of the edges in emission order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	i := slices.IndexFunc(g.nodes, func(n Node) bool { return n.ID == id })
	if i < 0 {
		return Node{}, false
	}
	return g.nodes[i], true
}

// EdgesFrom returns the edges leaving id, in emission order.
func (g *Graph) EdgesFrom(id string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.From == id {
			out = append(out, e)
		}
	}
	return out
}
