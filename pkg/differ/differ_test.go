package differ

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsforge/usersync/pkg/directory"
)

func TestFieldDecisionTable(t *testing.T) {
	d := New(ModeFullProfile)

	tests := []struct {
		name        string
		primary     string
		secondary   string
		wantClass   Classification
		wantDiffers bool
		wantMessage string
	}{
		{
			name:      "both empty",
			wantClass: ClassBothEmpty,
		},
		{
			name:      "whitespace counts as empty",
			primary:   "   ",
			secondary: "\t",
			wantClass: ClassBothEmpty,
		},
		{
			name:        "missing in primary",
			secondary:   "Engineer",
			wantClass:   ClassMissingPrimary,
			wantDiffers: true,
			wantMessage: "missing in Jira (M365: 'Engineer')",
		},
		{
			name:        "missing in secondary",
			primary:     "Engineer",
			wantClass:   ClassMissingSecondary,
			wantDiffers: true,
			wantMessage: "missing in M365 (Jira: 'Engineer')",
		},
		{
			name:      "exact match",
			primary:   "Engineer",
			secondary: "Engineer",
			wantClass: ClassEqual,
		},
		{
			name:      "match after trimming",
			primary:   " Engineer ",
			secondary: "Engineer",
			wantClass: ClassEqual,
		},
		{
			name:      "case-only match is not a difference",
			primary:   "engineer",
			secondary: "Engineer",
			wantClass: ClassEqualFold,
		},
		{
			name:        "mismatch",
			primary:     "Engineer",
			secondary:   "Manager",
			wantClass:   ClassMismatch,
			wantDiffers: true,
			wantMessage: "mismatch: Jira='Engineer' vs M365='Manager'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := d.Field(tt.primary, tt.secondary)
			assert.Equal(t, tt.wantClass, v.Classification)
			assert.Equal(t, tt.wantDiffers, v.Differs)
			assert.Equal(t, tt.wantDiffers, v.Classification.Differs(),
				"Differs flag must agree with the classification")
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, v.Message)
			}
		})
	}
}

func TestFieldLabels(t *testing.T) {
	d := New(ModeFullProfile, WithLabels("Src", "Dst"))

	v := d.Field("", "Engineer")
	assert.Equal(t, "missing in Src (Dst: 'Engineer')", v.Message)

	v = d.Field("a", "b")
	assert.Equal(t, "mismatch: Src='a' vs Dst='b'", v.Message)
}

func pairRecords() (directory.UserRecord, directory.UserRecord) {
	primary := directory.UserRecord{
		Source:      directory.SourcePrimary,
		IdentityKey: "alice@x.com",
		DisplayName: "Alice",
		Profile:     &directory.ProfileAttributes{JobTitle: "Engineer"},
	}
	secondary := directory.UserRecord{
		Source:      directory.SourceSecondary,
		IdentityKey: "alice@x.com",
		DisplayName: "Alice Liddell",
		Profile: &directory.ProfileAttributes{
			JobTitle:   "Engineer",
			Department: "Platform",
		},
	}
	return primary, secondary
}

func TestPairFullProfile(t *testing.T) {
	primary, secondary := pairRecords()
	pair := New(ModeFullProfile).Pair(primary, secondary)

	require.Len(t, pair.Verdicts, 4)
	assert.Equal(t, ClassMismatch, pair.Verdicts[FieldDisplayName].Classification)
	assert.Equal(t, ClassEqual, pair.Verdicts[FieldJobTitle].Classification)
	assert.Equal(t, ClassMissingPrimary, pair.Verdicts[FieldDepartment].Classification)
	assert.Equal(t, ClassBothEmpty, pair.Verdicts[FieldLocation].Classification)
	assert.True(t, pair.HasDifferences())
}

func TestPairBasicMode(t *testing.T) {
	primary, secondary := pairRecords()
	pair := New(ModeBasic).Pair(primary, secondary)

	require.Len(t, pair.Verdicts, 4)
	assert.Equal(t, ClassMismatch, pair.Verdicts[FieldDisplayName].Classification)

	// Profile fields carry the secondary value but never count as differences.
	for _, field := range []string{FieldJobTitle, FieldDepartment, FieldLocation} {
		v := pair.Verdicts[field]
		assert.Equal(t, ClassInfoOnly, v.Classification, field)
		assert.False(t, v.Differs, field)
	}
	assert.Equal(t, "M365: 'Platform'", pair.Verdicts[FieldDepartment].Message)
	assert.Equal(t, "M365: 'none'", pair.Verdicts[FieldLocation].Message)
}

func TestPairBasicModeInfoOnlyNeverDiffers(t *testing.T) {
	primary, secondary := pairRecords()
	primary.DisplayName = secondary.DisplayName

	pair := New(ModeBasic).Pair(primary, secondary)
	assert.False(t, pair.HasDifferences(),
		"info-only profile verdicts must not flag the pair")
}

func TestFieldSymmetry(t *testing.T) {
	d := New(ModeFullProfile)

	// Swapping the arguments must mirror the missing-side classifications
	// and leave every other outcome unchanged.
	swapped := map[Classification]Classification{
		ClassBothEmpty:        ClassBothEmpty,
		ClassEqual:            ClassEqual,
		ClassEqualFold:        ClassEqualFold,
		ClassMismatch:         ClassMismatch,
		ClassMissingPrimary:   ClassMissingSecondary,
		ClassMissingSecondary: ClassMissingPrimary,
	}

	pairs := []struct{ a, b string }{
		{"", ""},
		{"", "Engineer"},
		{"Engineer", ""},
		{"Engineer", "Engineer"},
		{"Engineer", "engineer"},
		{"Engineer", "Manager"},
	}

	for _, p := range pairs {
		forward := d.Field(p.a, p.b)
		reverse := d.Field(p.b, p.a)

		want, ok := swapped[forward.Classification]
		require.True(t, ok, "unmapped classification %q", forward.Classification)
		assert.Equal(t, want, reverse.Classification, "%q vs %q", p.a, p.b)
		assert.Equal(t, forward.Differs, reverse.Differs, "%q vs %q", p.a, p.b)
	}
}

func TestModeValid(t *testing.T) {
	assert.True(t, ModeBasic.Valid())
	assert.True(t, ModeFullProfile.Valid())
	assert.False(t, Mode("extended").Valid())
	assert.False(t, Mode("").Valid())
}
