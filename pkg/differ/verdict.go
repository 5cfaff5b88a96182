// Package differ computes per-field difference verdicts between a matched
// pair of user records.
package differ

// Classification is the structured outcome of comparing one attribute
// between the two sources. Planning decisions key off this value, never off
// the rendered message text.
type Classification string

const (
	// ClassBothEmpty means neither side has a value.
	ClassBothEmpty Classification = "both_empty"
	// ClassEqual means both sides carry the same trimmed value.
	ClassEqual Classification = "equal"
	// ClassEqualFold means the values match only under case folding.
	ClassEqualFold Classification = "equal_fold"
	// ClassMissingPrimary means the primary side is empty while the
	// secondary side has a value.
	ClassMissingPrimary Classification = "missing_in_primary"
	// ClassMissingSecondary means the secondary side is empty while the
	// primary side has a value.
	ClassMissingSecondary Classification = "missing_in_secondary"
	// ClassMismatch means both sides have values that disagree.
	ClassMismatch Classification = "mismatch"
	// ClassInfoOnly marks a field that was not compared in this mode;
	// the verdict carries the secondary value for display only.
	ClassInfoOnly Classification = "info_only"
)

// Differs reports whether this classification counts as an actual
// difference. Only the two missing classes and a mismatch do.
func (c Classification) Differs() bool {
	switch c {
	case ClassMissingPrimary, ClassMissingSecondary, ClassMismatch:
		return true
	}
	return false
}

// Verdict is the result of comparing one attribute between two records.
type Verdict struct {
	Differs        bool           `json:"differs"`
	Classification Classification `json:"classification"`
	Message        string         `json:"message"`
}

// Field names used as keys in a matched pair's verdict map.
const (
	FieldDisplayName = "display_name"
	FieldJobTitle    = "job_title"
	FieldDepartment  = "department"
	FieldLocation    = "location"
)

// Fields lists all compared attribute names in report order.
func Fields() []string {
	return []string{FieldDisplayName, FieldJobTitle, FieldDepartment, FieldLocation}
}
