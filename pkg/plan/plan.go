// Package plan derives a minimal corrective change-set from a
// reconciliation report.
//
// The policy is fill-missing-only: a profile field contributes a corrective
// value only when it is missing on the primary side and present on the
// secondary side. A genuine mismatch between two non-empty values is never
// auto-corrected; that conflict needs human review. Display names are the
// one exception: a name correction is proposed whenever the name verdict
// registered a difference, since the secondary source owns display names.
//
// Decisions key off the structured verdict classification, not the rendered
// message text.
package plan

import (
	"github.com/opsforge/usersync/pkg/differ"
	"github.com/opsforge/usersync/pkg/report"
)

// Directive is one planned, not-yet-applied correction to a primary-side
// record. Directives are built fresh from a report on every planning run
// and are never persisted on their own.
type Directive struct {
	AccountID     string            // primary-side account to correct
	Email         string            // identity key, for display
	PrimaryName   string            // current primary display name
	SecondaryName string            // secondary display name (source of truth)
	NameUpdate    string            // proposed display name, empty when none
	ProfileFields map[string]string // field -> corrected value
	Current       map[string]string // current primary values, for plan preview
}

// HasProfileUpdate reports whether any profile field needs correction.
func (d *Directive) HasProfileUpdate() bool {
	return len(d.ProfileFields) > 0
}

// HasNameUpdate reports whether a display-name correction is proposed.
func (d *Directive) HasNameUpdate() bool {
	return d.NameUpdate != ""
}

// profileFields are the report fields eligible for fill-missing correction.
var profileFields = []string{
	differ.FieldJobTitle,
	differ.FieldDepartment,
	differ.FieldLocation,
}

// FromReport derives the update plan from a report's difference entries.
//
// Entries whose primary record has no account ID are skipped; there is
// nothing to address the correction to. Entries that yield neither a
// profile nor a name correction are dropped from the plan.
func FromReport(r *report.Report) []*Directive {
	var directives []*Directive

	for _, entry := range r.Differences {
		if entry.PrimaryData.AccountID == "" {
			continue
		}

		d := &Directive{
			AccountID:     entry.PrimaryData.AccountID,
			Email:         entry.Email,
			PrimaryName:   entry.PrimaryData.DisplayName,
			SecondaryName: entry.SecondaryData.DisplayName,
			ProfileFields: map[string]string{},
			Current: map[string]string{
				differ.FieldJobTitle:   entry.PrimaryData.JobTitle(),
				differ.FieldDepartment: entry.PrimaryData.Department(),
				differ.FieldLocation:   entry.PrimaryData.Location(),
			},
		}

		if v, ok := entry.Verdicts[differ.FieldDisplayName]; ok && v.Differs {
			if entry.SecondaryData.DisplayName != "" {
				d.NameUpdate = entry.SecondaryData.DisplayName
			}
		}

		source := map[string]string{
			differ.FieldJobTitle:   entry.SecondaryData.JobTitle(),
			differ.FieldDepartment: entry.SecondaryData.Department(),
			differ.FieldLocation:   entry.SecondaryData.Location(),
		}
		for _, field := range profileFields {
			v, ok := entry.Verdicts[field]
			if !ok || v.Classification != differ.ClassMissingPrimary {
				continue
			}
			if value := source[field]; value != "" {
				d.ProfileFields[field] = value
			}
		}

		if d.HasProfileUpdate() || d.HasNameUpdate() {
			directives = append(directives, d)
		}
	}

	return directives
}
