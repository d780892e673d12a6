package dependencies

import (
	"fmt"
	"strings"
)

// ExportDOT renders the import graph in Graphviz DOT syntax. Nodes in the
// highlight set (typically the changed files of a run) are filled red.
func (g *Graph) ExportDOT(highlight map[string]bool) string {
	var sb strings.Builder
	sb.WriteString("digraph imports {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box, fontname=\"monospace\"];\n")

	for _, file := range g.Files() {
		if highlight[file] {
			fmt.Fprintf(&sb, "  %q [style=filled, fillcolor=salmon];\n", file)
		} else {
			fmt.Fprintf(&sb, "  %q;\n", file)
		}
	}
	for _, file := range g.Files() {
		for _, imp := range g.Imports(file) {
			fmt.Fprintf(&sb, "  %q -> %q;\n", file, imp)
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}
