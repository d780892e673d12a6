package dependencies

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// importPattern matches proto import directives, including the optional
// public and weak modifiers.
var importPattern = regexp.MustCompile(`\bimport\s+(?:public\s+|weak\s+)?"([^"]+)"\s*;`)

// DefaultIgnorePrefixes lists import prefixes excluded from dependency
// tracking. These resolve to runtime-provided files that never trigger
// regeneration.
var DefaultIgnorePrefixes = []string{
	"google/protobuf/",
	"google/api/",
	"google/type/",
	"validate/",
}

// Graph is a directed import graph over schema source files. The forward
// index maps each file to the files it imports; the reverse index maps each
// file to the files importing it.
type Graph struct {
	imports    map[string]map[string]bool
	dependents map[string]map[string]bool
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		imports:    make(map[string]map[string]bool),
		dependents: make(map[string]map[string]bool),
	}
}

// AddFile records a file and its imports, updating both indexes. Repeated
// calls for the same file accumulate edges.
func (g *Graph) AddFile(file string, imports []string) {
	if g.imports[file] == nil {
		g.imports[file] = make(map[string]bool)
	}
	for _, imp := range imports {
		g.imports[file][imp] = true
		if g.dependents[imp] == nil {
			g.dependents[imp] = make(map[string]bool)
		}
		g.dependents[imp][file] = true
	}
}

// Files returns every file known to the graph, sorted.
func (g *Graph) Files() []string {
	set := make(map[string]bool, len(g.imports))
	for file := range g.imports {
		set[file] = true
	}
	for file := range g.dependents {
		set[file] = true
	}
	return sortedKeys(set)
}

// Imports returns the direct imports of a file, sorted. Unknown files yield
// an empty slice.
func (g *Graph) Imports(file string) []string {
	return sortedKeys(g.imports[file])
}

// Dependents returns the files that directly import the given file, sorted.
func (g *Graph) Dependents(file string) []string {
	return sortedKeys(g.dependents[file])
}

// TransitiveDependents returns every file that directly or indirectly
// imports the given file. The traversal is breadth-first over the reverse
// index; a visited set keeps it terminating on cyclic graphs.
func (g *Graph) TransitiveDependents(file string) []string {
	return g.traverse(file, g.dependents)
}

// TransitiveDependencies returns every file the given file directly or
// indirectly imports.
func (g *Graph) TransitiveDependencies(file string) []string {
	return g.traverse(file, g.imports)
}

func (g *Graph) traverse(start string, index map[string]map[string]bool) []string {
	visited := map[string]bool{start: true}
	queue := []string{start}
	result := make(map[string]bool)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for next := range index[current] {
			if visited[next] {
				continue
			}
			visited[next] = true
			result[next] = true
			queue = append(queue, next)
		}
	}
	return sortedKeys(result)
}

// DetectCycle returns one import cycle as an ordered file path, or nil when
// the graph is acyclic.
func (g *Graph) DetectCycle() []string {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	var path []string
	var cycle []string

	var visit func(string) bool
	visit = func(file string) bool {
		visited[file] = true
		onStack[file] = true
		path = append(path, file)

		for _, next := range g.Imports(file) {
			if onStack[next] {
				// Slice the cycle out of the current path.
				for i, p := range path {
					if p == next {
						cycle = append([]string(nil), path[i:]...)
						return true
					}
				}
				cycle = append([]string(nil), path...)
				return true
			}
			if !visited[next] && visit(next) {
				return true
			}
		}

		onStack[file] = false
		path = path[:len(path)-1]
		return false
	}

	for _, file := range g.Files() {
		if !visited[file] && visit(file) {
			return cycle
		}
	}
	return nil
}

// TopologicalOrder returns the files ordered so that every file appears
// after all files it imports. Fails when the graph contains a cycle.
func (g *Graph) TopologicalOrder() ([]string, error) {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	result := make([]string, 0, len(g.imports))

	var visit func(string) error
	visit = func(file string) error {
		if onStack[file] {
			return fmt.Errorf("import cycle detected at %s", file)
		}
		if visited[file] {
			return nil
		}
		visited[file] = true
		onStack[file] = true
		for _, next := range g.Imports(file) {
			if err := visit(next); err != nil {
				return err
			}
		}
		onStack[file] = false
		result = append(result, file)
		return nil
	}

	for _, file := range g.Files() {
		if err := visit(file); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Edges returns the dependency map in the serializable path -> imports form
// used by the incremental cache document.
func (g *Graph) Edges() map[string][]string {
	edges := make(map[string][]string, len(g.imports))
	for file, imports := range g.imports {
		edges[file] = sortedKeys(imports)
	}
	return edges
}

// FromEdges reconstructs a graph from the serialized dependency map.
func FromEdges(edges map[string][]string) *Graph {
	g := NewGraph()
	for file, imports := range edges {
		g.AddFile(file, imports)
	}
	return g
}

// Builder parses schema source files into a Graph.
type Builder struct {
	ignorePrefixes []string
}

// NewBuilder creates a Builder. A nil prefix list falls back to
// DefaultIgnorePrefixes.
func NewBuilder(ignorePrefixes []string) *Builder {
	if ignorePrefixes == nil {
		ignorePrefixes = DefaultIgnorePrefixes
	}
	return &Builder{ignorePrefixes: ignorePrefixes}
}

// Build reads each file under root and parses its import directives into a
// graph. Files are keyed by their path relative to root, with forward
// slashes on every platform to match import syntax.
func (b *Builder) Build(root string, files []string) (*Graph, error) {
	g := NewGraph()
	for _, file := range files {
		content, err := os.ReadFile(filepath.Join(root, file))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		g.AddFile(filepath.ToSlash(file), b.ParseImports(string(content)))
	}
	return g, nil
}

// ParseImports extracts tracked import paths from schema source text,
// dropping any import matching the ignore-list.
func (b *Builder) ParseImports(content string) []string {
	matches := importPattern.FindAllStringSubmatch(content, -1)
	imports := make([]string, 0, len(matches))
	for _, m := range matches {
		path := m[1]
		if b.ignored(path) {
			continue
		}
		imports = append(imports, path)
	}
	return imports
}

func (b *Builder) ignored(path string) bool {
	for _, prefix := range b.ignorePrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
