package conflict

import "github.com/alnovis/protounify/pkg/schema"

// Entry records one classified conflict for reporting.
type Entry struct {
	Message  string              `json:"message"`
	Field    string              `json:"field"`
	Number   int32               `json:"number"`
	Kind     schema.ConflictType `json:"-"`
	KindName string              `json:"kind"`
	Severity Severity            `json:"-"`
	Versions []schema.VersionID  `json:"versions"`
}

// Report aggregates every non-NONE conflict found in one classification run.
type Report struct {
	Entries []Entry `json:"entries"`
}

func (r *Report) add(message string, field *schema.MergedField) {
	r.Entries = append(r.Entries, Entry{
		Message:  message,
		Field:    field.Name,
		Number:   field.Number,
		Kind:     field.Conflict,
		KindName: field.Conflict.String(),
		Severity: PolicyFor(field.Conflict).Severity,
		Versions: field.Versions,
	})
}

// Total returns the number of conflicts in the report.
func (r *Report) Total() int {
	return len(r.Entries)
}

// CountBySeverity returns the number of conflicts at the given severity.
func (r *Report) CountBySeverity(severity Severity) int {
	count := 0
	for _, e := range r.Entries {
		if e.Severity == severity {
			count++
		}
	}
	return count
}

// HasBreaking reports whether any conflict is breaking.
func (r *Report) HasBreaking() bool {
	return r.CountBySeverity(SeverityBreaking) > 0
}
