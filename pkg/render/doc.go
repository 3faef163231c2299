// Package render groups the output renderers for workspace dependency
// graphs.
//
// The dot subpackage serialises a graph to Graphviz DOT and lays it out
// into svg, png, pdf and other formats, either in-process through the
// WebAssembly build of Graphviz or by running the system binary.
//
//	text := dot.ToDOT(g, dot.Options{})
//	svg, err := dot.Renderer{Command: "dot"}.Render(ctx, text, "svg")
package render
