package dot

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/wsgraph/pkg/depgraph"
)

// Options configures DOT generation.
type Options struct {
	// Name is the graph identifier. Defaults to "G".
	Name string

	// RankDir sets the Graphviz rankdir attribute (TB, LR, BT, RL).
	// Empty leaves the engine default.
	RankDir string
}

// ToDOT converts a workspace graph to Graphviz DOT.
//
// Private packages get style=dashed, peer dependency edges get style=dotted.
// The output depends only on the graph, so equal graphs produce byte-identical
// text.
func ToDOT(g *depgraph.Graph, opts Options) string {
	name := opts.Name
	if name == "" {
		name = "G"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", quoteID(name))
	if opts.RankDir != "" {
		fmt.Fprintf(&buf, "  rankdir=%s;\n", opts.RankDir)
	}

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %s%s;\n", quoteID(n.ID), fmtAttrs(nodeAttrs(n)))
	}

	if g.EdgeCount() > 0 {
		buf.WriteString("\n")
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %s -> %s%s;\n", quoteID(e.From), quoteID(e.To), fmtAttrs(edgeAttrs(e)))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n depgraph.Node) []string {
	if n.Style == depgraph.StyleDashed {
		return []string{"style=dashed"}
	}
	return nil
}

func edgeAttrs(e depgraph.Edge) []string {
	if e.Kind == depgraph.EdgeDotted {
		return []string{"style=dotted"}
	}
	return nil
}

func fmtAttrs(attrs []string) string {
	if len(attrs) == 0 {
		return ""
	}
	return " [" + strings.Join(attrs, ", ") + "]"
}

// quoteID renders s as a double-quoted DOT identifier. Unlike %q it leaves
// non-ASCII text alone, which DOT accepts verbatim.
func quoteID(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
