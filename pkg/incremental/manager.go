package incremental

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnovis/protounify/pkg/observability"
)

// StateFileName is the snapshot document inside the cache directory.
const StateFileName = "state.json"

// Manager loads and persists generation snapshots in one cache directory.
// The directory is a single-writer resource; concurrent runs against it must
// be serialized by the caller.
type Manager struct {
	dir    string
	logger *observability.Logger
}

// NewManager creates a Manager rooted at the given cache directory.
func NewManager(dir string, logger *observability.Logger) *Manager {
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	return &Manager{dir: dir, logger: logger}
}

// StatePath returns the path of the snapshot document.
func (m *Manager) StatePath() string {
	return filepath.Join(m.dir, StateFileName)
}

// Load reads the persisted snapshot. A missing, unreadable or corrupt
// snapshot is never fatal: it logs the reason and returns the empty state,
// turning the run into a cold start.
func (m *Manager) Load() *State {
	data, err := os.ReadFile(m.StatePath())
	if err != nil {
		if !os.IsNotExist(err) {
			m.logger.WithError(err).Warn("state file unreadable, starting cold")
		}
		return Empty()
	}

	state := Empty()
	if err := json.Unmarshal(data, state); err != nil {
		m.logger.WithError(err).Warn("state file corrupt, starting cold")
		return Empty()
	}
	// Unmarshal leaves nil maps for absent keys; normalize so callers can
	// index without nil checks.
	if state.Fingerprints == nil {
		state.Fingerprints = make(map[string]FileFingerprint)
	}
	if state.Dependencies == nil {
		state.Dependencies = make(map[string][]string)
	}
	if state.GeneratedFiles == nil {
		state.GeneratedFiles = make(map[string]GeneratedFileInfo)
	}
	return state
}

// Save persists a complete new snapshot. The document is written to a
// temporary file first and renamed into place, so a failed write leaves the
// previous snapshot intact.
func (m *Manager) Save(state *State) error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	tmp, err := os.CreateTemp(m.dir, StateFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing state file: %w", err)
	}

	if err := os.Rename(tmpName, m.StatePath()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing state file: %w", err)
	}

	m.logger.WithFields(map[string]interface{}{
		"fingerprints": len(state.Fingerprints),
		"dependencies": len(state.Dependencies),
	}).Debug("state snapshot saved")
	return nil
}
