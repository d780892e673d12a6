package incremental

import (
	"sort"

	"github.com/alnovis/protounify/pkg/dependencies"
)

// ChangeSet is the outcome of comparing current fingerprints against a
// stored snapshot.
type ChangeSet struct {
	Added    []string `json:"added"`
	Modified []string `json:"modified"`
	Deleted  []string `json:"deleted"`
}

// HasChanges reports whether any file was added, modified or deleted.
func (c ChangeSet) HasChanges() bool {
	return len(c.Added)+len(c.Modified)+len(c.Deleted) > 0
}

// All returns every changed path, sorted.
func (c ChangeSet) All() []string {
	all := make([]string, 0, len(c.Added)+len(c.Modified)+len(c.Deleted))
	all = append(all, c.Added...)
	all = append(all, c.Modified...)
	all = append(all, c.Deleted...)
	sort.Strings(all)
	return all
}

// Detector compares current source fingerprints against one stored snapshot.
type Detector struct {
	state *State
}

// NewDetector creates a Detector over the given snapshot. A nil state is
// treated as empty.
func NewDetector(state *State) *Detector {
	if state == nil {
		state = Empty()
	}
	return &Detector{state: state}
}

// MightHaveChanges is the cheap pre-check: it compares only size and mtime,
// never hashing content. False means the file set is certainly unchanged and
// the run can skip straight to "no changes". True only means a full
// AnalyzeChanges pass is warranted.
func (d *Detector) MightHaveChanges(current map[string]FileFingerprint) bool {
	if len(current) != len(d.state.Fingerprints) {
		return true
	}
	for path, fp := range current {
		stored, ok := d.state.Fingerprints[path]
		if !ok {
			return true
		}
		if stored.Size != fp.Size || !stored.ModTime.Equal(fp.ModTime) {
			return true
		}
	}
	return false
}

// AnalyzeChanges compares current fingerprints against the snapshot by hash
// and size. A file whose hash matches but whose size differs counts as
// modified.
func (d *Detector) AnalyzeChanges(current map[string]FileFingerprint) ChangeSet {
	var changes ChangeSet

	for path, fp := range current {
		stored, ok := d.state.Fingerprints[path]
		if !ok {
			changes.Added = append(changes.Added, path)
			continue
		}
		if !stored.Equal(fp) {
			changes.Modified = append(changes.Modified, path)
		}
	}
	for path := range d.state.Fingerprints {
		if _, ok := current[path]; !ok {
			changes.Deleted = append(changes.Deleted, path)
		}
	}

	sort.Strings(changes.Added)
	sort.Strings(changes.Modified)
	sort.Strings(changes.Deleted)
	return changes
}

// ExpandChanges grows a change set to the full affected set by pulling in
// every transitive dependent of each changed file. Deleted files expand
// through the snapshot's stored edges, since the current graph no longer
// contains them.
func (d *Detector) ExpandChanges(changes ChangeSet, graph *dependencies.Graph) []string {
	affected := make(map[string]bool)
	for _, path := range changes.All() {
		affected[path] = true
	}

	stored := dependencies.FromEdges(d.state.Dependencies)
	for _, path := range changes.Added {
		markDependents(affected, graph, path)
	}
	for _, path := range changes.Modified {
		markDependents(affected, graph, path)
		markDependents(affected, stored, path)
	}
	for _, path := range changes.Deleted {
		markDependents(affected, stored, path)
	}

	result := make([]string, 0, len(affected))
	for path := range affected {
		result = append(result, path)
	}
	sort.Strings(result)
	return result
}

func markDependents(affected map[string]bool, graph *dependencies.Graph, path string) {
	if graph == nil {
		return
	}
	for _, dep := range graph.TransitiveDependents(path) {
		affected[dep] = true
	}
}
