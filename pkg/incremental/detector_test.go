package incremental

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alnovis/protounify/pkg/dependencies"
)

func fp(path, hash string, size int64) FileFingerprint {
	return FileFingerprint{Path: path, Hash: hash, Size: size, ModTime: time.Unix(1700000000, 0)}
}

func stateWith(fingerprints map[string]FileFingerprint, deps map[string][]string) *State {
	return NewState("1.0.0", "hash", fingerprints, deps, nil, time.Unix(1700000000, 0))
}

func TestAnalyzeChanges(t *testing.T) {
	stored := map[string]FileFingerprint{
		"a.proto": fp("a.proto", "aaa", 10),
		"b.proto": fp("b.proto", "bbb", 20),
		"c.proto": fp("c.proto", "ccc", 30),
	}
	d := NewDetector(stateWith(stored, nil))

	t.Run("no changes", func(t *testing.T) {
		changes := d.AnalyzeChanges(stored)
		assert.False(t, changes.HasChanges())
	})

	t.Run("added modified deleted", func(t *testing.T) {
		current := map[string]FileFingerprint{
			"a.proto": fp("a.proto", "aaa", 10),
			"b.proto": fp("b.proto", "changed", 20),
			"d.proto": fp("d.proto", "ddd", 40),
		}
		changes := d.AnalyzeChanges(current)
		assert.Equal(t, []string{"d.proto"}, changes.Added)
		assert.Equal(t, []string{"b.proto"}, changes.Modified)
		assert.Equal(t, []string{"c.proto"}, changes.Deleted)
	})

	t.Run("same hash different size is modified", func(t *testing.T) {
		current := map[string]FileFingerprint{
			"a.proto": fp("a.proto", "aaa", 11),
			"b.proto": fp("b.proto", "bbb", 20),
			"c.proto": fp("c.proto", "ccc", 30),
		}
		changes := d.AnalyzeChanges(current)
		assert.Equal(t, []string{"a.proto"}, changes.Modified)
	})
}

func TestMightHaveChanges(t *testing.T) {
	stored := map[string]FileFingerprint{
		"a.proto": fp("a.proto", "aaa", 10),
	}
	d := NewDetector(stateWith(stored, nil))

	t.Run("identical size and mtime skips hashing", func(t *testing.T) {
		assert.False(t, d.MightHaveChanges(map[string]FileFingerprint{
			"a.proto": {Path: "a.proto", Size: 10, ModTime: time.Unix(1700000000, 0)},
		}))
	})

	t.Run("size change detected", func(t *testing.T) {
		assert.True(t, d.MightHaveChanges(map[string]FileFingerprint{
			"a.proto": {Path: "a.proto", Size: 11, ModTime: time.Unix(1700000000, 0)},
		}))
	})

	t.Run("mtime change detected", func(t *testing.T) {
		assert.True(t, d.MightHaveChanges(map[string]FileFingerprint{
			"a.proto": {Path: "a.proto", Size: 10, ModTime: time.Unix(1700000099, 0)},
		}))
	})

	t.Run("file count change detected", func(t *testing.T) {
		assert.True(t, d.MightHaveChanges(map[string]FileFingerprint{}))
	})
}

func TestExpandChanges(t *testing.T) {
	// a.proto imports b.proto, b.proto imports c.proto.
	graph := dependencies.NewGraph()
	graph.AddFile("a.proto", []string{"b.proto"})
	graph.AddFile("b.proto", []string{"c.proto"})
	graph.AddFile("c.proto", nil)

	stored := map[string]FileFingerprint{
		"a.proto": fp("a.proto", "aaa", 10),
		"b.proto": fp("b.proto", "bbb", 20),
		"c.proto": fp("c.proto", "ccc", 30),
	}
	d := NewDetector(stateWith(stored, graph.Edges()))

	t.Run("content change to c affects a and b", func(t *testing.T) {
		changes := ChangeSet{Modified: []string{"c.proto"}}
		affected := d.ExpandChanges(changes, graph)
		assert.Equal(t, []string{"a.proto", "b.proto", "c.proto"}, affected)
	})

	t.Run("deleted file expands through stored edges", func(t *testing.T) {
		changes := ChangeSet{Deleted: []string{"c.proto"}}
		pruned := dependencies.NewGraph()
		pruned.AddFile("a.proto", []string{"b.proto"})
		pruned.AddFile("b.proto", nil)

		affected := d.ExpandChanges(changes, pruned)
		assert.Equal(t, []string{"a.proto", "b.proto", "c.proto"}, affected)
	})

	t.Run("leaf change affects only itself", func(t *testing.T) {
		changes := ChangeSet{Modified: []string{"a.proto"}}
		affected := d.ExpandChanges(changes, graph)
		assert.Equal(t, []string{"a.proto"}, affected)
	})
}
