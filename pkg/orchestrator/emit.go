package orchestrator

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alnovis/protounify/pkg/conflict"
	"github.com/alnovis/protounify/pkg/incremental"
	"github.com/alnovis/protounify/pkg/schema"
)

// unifiedDocumentName is the classified-schema document consumed by
// downstream emitters.
const unifiedDocumentName = "unified_schema.json"

// conflictReportName is the companion conflict report.
const conflictReportName = "conflicts.json"

// fieldDocument is the per-field slice of the output document.
type fieldDocument struct {
	Name     string   `json:"name"`
	Number   int32    `json:"number"`
	Versions []string `json:"versions"`
	Conflict string   `json:"conflict"`
	Type     string   `json:"type"`
	TypeName string   `json:"type_name,omitempty"`
	Repeated bool     `json:"repeated,omitempty"`
	Dual     bool     `json:"dual,omitempty"`
	Read     string   `json:"read_policy"`
	Write    string   `json:"write_policy"`
}

type enumValueDocument struct {
	Name     string   `json:"name"`
	Number   int32    `json:"number"`
	Versions []string `json:"versions"`
}

type enumDocument struct {
	Name     string              `json:"name"`
	FullName string              `json:"full_name"`
	Versions []string            `json:"versions"`
	Values   []enumValueDocument `json:"values"`
}

type messageDocument struct {
	Name     string            `json:"name"`
	FullName string            `json:"full_name"`
	Versions []string          `json:"versions"`
	Fields   []fieldDocument   `json:"fields"`
	Nested   []messageDocument `json:"nested,omitempty"`
	Enums    []enumDocument    `json:"enums,omitempty"`
}

// unifiedDocument is the JSON form of the classified merged schema.
type unifiedDocument struct {
	ToolVersion    string            `json:"tool_version"`
	GeneratedAt    time.Time         `json:"generated_at"`
	Versions       []string          `json:"versions"`
	DefaultVersion string            `json:"default_version"`
	Messages       []messageDocument `json:"messages"`
	Enums          []enumDocument    `json:"enums"`
}

// emit writes the classified schema and conflict report into the output
// directory and returns the generated-file records for the state snapshot.
func (o *Orchestrator) emit(merged *schema.MergedSchema, report *conflict.Report) (map[string]incremental.GeneratedFileInfo, []string, error) {
	if err := os.MkdirAll(o.cfg.OutputDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating output directory: %w", err)
	}

	doc := unifiedDocument{
		ToolVersion:    ToolVersion,
		GeneratedAt:    time.Now().UTC(),
		DefaultVersion: string(merged.DefaultVersion()),
	}
	for _, v := range merged.Versions {
		doc.Versions = append(doc.Versions, string(v))
	}
	for _, m := range merged.Messages {
		doc.Messages = append(doc.Messages, o.messageDoc(m))
	}
	for _, e := range merged.Enums {
		doc.Enums = append(doc.Enums, enumDoc(e))
	}

	generated := make(map[string]incremental.GeneratedFileInfo)
	var outputs []string

	for name, payload := range map[string]interface{}{
		unifiedDocumentName: doc,
		conflictReportName:  report,
	} {
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, nil, fmt.Errorf("encoding %s: %w", name, err)
		}
		full := filepath.Join(o.cfg.OutputDir, name)
		if err := os.WriteFile(full, data, 0o644); err != nil {
			return nil, nil, fmt.Errorf("writing %s: %w", name, err)
		}
		sum := sha256.Sum256(data)
		generated[name] = incremental.GeneratedFileInfo{
			Path:      name,
			Size:      int64(len(data)),
			Hash:      hex.EncodeToString(sum[:]),
			CreatedAt: time.Now().UTC(),
		}
		outputs = append(outputs, full)
	}
	return generated, outputs, nil
}

func (o *Orchestrator) messageDoc(m *schema.MergedMessage) messageDocument {
	doc := messageDocument{
		Name:     o.displayName(m.Name),
		FullName: m.FullName,
		Versions: versionStrings(m.Versions),
	}
	for _, f := range m.Fields {
		doc.Fields = append(doc.Fields, o.fieldDoc(f))
	}
	for _, n := range m.NestedMessages {
		doc.Nested = append(doc.Nested, o.messageDoc(n))
	}
	for _, e := range m.NestedEnums {
		doc.Enums = append(doc.Enums, enumDoc(e))
	}
	return doc
}

func (o *Orchestrator) fieldDoc(f *schema.MergedField) fieldDocument {
	policy := conflict.PolicyFor(f.Conflict)
	doc := fieldDocument{
		Name:     f.Name,
		Number:   f.Number,
		Versions: versionStrings(f.Versions),
		Conflict: f.Conflict.String(),
		Read:     policy.Read.String(),
		Write:    policy.Write.String(),
	}
	if f.Resolved != nil {
		doc.Type = f.Resolved.Type.String()
		doc.TypeName = o.overrideType(f.Resolved.TypeName)
		doc.Repeated = f.Resolved.Repeated
		doc.Dual = f.Resolved.IsDual()
	} else {
		baseline := f.Baseline()
		doc.Type = baseline.Type.String()
		doc.TypeName = o.overrideType(baseline.TypeName)
		doc.Repeated = baseline.IsRepeated()
	}
	return doc
}

// displayName applies the naming options to a message identifier.
func (o *Orchestrator) displayName(name string) string {
	if replacement, ok := o.cfg.Naming.TypeOverrides[name]; ok {
		name = replacement
	}
	return o.cfg.Naming.MessagePrefix + name
}

func (o *Orchestrator) overrideType(name string) string {
	if name == "" {
		return ""
	}
	if replacement, ok := o.cfg.Naming.TypeOverrides[name]; ok {
		return replacement
	}
	return name
}

func enumDoc(e *schema.MergedEnum) enumDocument {
	doc := enumDocument{
		Name:     e.Name,
		FullName: e.FullName,
		Versions: versionStrings(e.Versions),
	}
	for _, v := range e.Values {
		doc.Values = append(doc.Values, enumValueDocument{
			Name:     v.Name,
			Number:   v.Number,
			Versions: versionStrings(v.Versions),
		})
	}
	return doc
}

func versionStrings(versions []schema.VersionID) []string {
	out := make([]string, len(versions))
	for i, v := range versions {
		out[i] = string(v)
	}
	return out
}
