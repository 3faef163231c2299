// Package dot renders workspace dependency graphs as Graphviz DOT and lays
// them out into image formats.
//
// # DOT Output
//
// [ToDOT] produces plain DOT text: one statement per package node, a blank
// line, then one statement per edge. Private packages are drawn dashed and
// peer dependency edges dotted:
//
//	digraph "G" {
//	  "@ws/app" [style=dashed];
//	  "@ws/lib";
//
//	  "@ws/app" -> "@ws/lib";
//	  "@ws/app" -> "@ws/lib" [style=dotted];
//	}
//
// # Layout Engines
//
// [Renderer] turns DOT into svg, png, pdf or any other Graphviz output
// format. Common formats go through the WebAssembly build of Graphviz in
// [github.com/goccy/go-graphviz], so no system install is needed. Formats
// the embedded engine lacks (pdf, ps, ...) and any configured Graphviz
// directory use the system binary instead.
package dot
