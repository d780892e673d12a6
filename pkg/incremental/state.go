package incremental

import (
	"time"
)

// FileFingerprint identifies one source file's state at generation time.
type FileFingerprint struct {
	Path    string    `json:"path"`
	Hash    string    `json:"hash"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// Equal reports whether two fingerprints identify the same content. The size
// comparison stays even when hashes match, as a collision safety net.
func (f FileFingerprint) Equal(other FileFingerprint) bool {
	return f.Hash == other.Hash && f.Size == other.Size
}

// GeneratedFileInfo records one output file produced by a generation run.
type GeneratedFileInfo struct {
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	Hash      string    `json:"hash,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// State is one persisted generation snapshot. States are immutable; build a
// new one per run via NewState.
type State struct {
	ToolVersion    string                       `json:"tool_version"`
	ConfigHash     string                       `json:"config_hash"`
	Fingerprints   map[string]FileFingerprint   `json:"fingerprints"`
	Dependencies   map[string][]string          `json:"dependencies"`
	GeneratedFiles map[string]GeneratedFileInfo `json:"generated_files"`
	LastGeneration time.Time                    `json:"last_generation"`
}

// Empty returns the cold-start state: no fingerprints, no dependencies, zero
// timestamp. Loading a corrupt snapshot also resolves to this.
func Empty() *State {
	return &State{
		Fingerprints:   make(map[string]FileFingerprint),
		Dependencies:   make(map[string][]string),
		GeneratedFiles: make(map[string]GeneratedFileInfo),
	}
}

// NewState builds a complete snapshot for one successful generation run. The
// input maps are copied, never aliased, so later caller mutations cannot
// leak into the snapshot.
func NewState(
	toolVersion, configHash string,
	fingerprints map[string]FileFingerprint,
	dependencies map[string][]string,
	generated map[string]GeneratedFileInfo,
	at time.Time,
) *State {
	s := Empty()
	s.ToolVersion = toolVersion
	s.ConfigHash = configHash
	s.LastGeneration = at
	for k, v := range fingerprints {
		s.Fingerprints[k] = v
	}
	for k, v := range dependencies {
		s.Dependencies[k] = append([]string(nil), v...)
	}
	for k, v := range generated {
		s.GeneratedFiles[k] = v
	}
	return s
}

// IsEmpty reports whether the state is the cold-start state.
func (s *State) IsEmpty() bool {
	return s.ToolVersion == "" && s.ConfigHash == "" &&
		len(s.Fingerprints) == 0 && s.LastGeneration.IsZero()
}

// ShouldInvalidate reports whether the whole cache must be discarded before
// change analysis: true for an empty state or when either the tool version
// or the config digest differs from the stored one.
func (s *State) ShouldInvalidate(currentToolVersion, currentConfigHash string) bool {
	if s.IsEmpty() {
		return true
	}
	return s.ToolVersion != currentToolVersion || s.ConfigHash != currentConfigHash
}
