// Package diagram renders state machine definitions as Graphviz DOT or
// Mermaid stateDiagram-v2 text.
//
// Rendering is a read-only projection of a Source, usually a
// *statemachine.Definition; no machine state is involved. QuickChartURL turns
// DOT text into a link that renders the graph as SVG, and ParseDOT reads the
// edges back, which is handy for checking generated documentation.
//
//	dot := diagram.DOT(def)
//	fmt.Println(diagram.QuickChartURL(dot))
package diagram
