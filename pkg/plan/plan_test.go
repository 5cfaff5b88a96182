package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsforge/usersync/pkg/differ"
	"github.com/opsforge/usersync/pkg/directory"
	"github.com/opsforge/usersync/pkg/report"
)

// buildReport runs the real differ so the verdicts carry proper
// classifications instead of hand-built ones.
func buildReport(pairs ...[2]directory.UserRecord) *report.Report {
	return buildModeReport(differ.ModeFullProfile, pairs...)
}

func buildModeReport(mode differ.Mode, pairs ...[2]directory.UserRecord) *report.Report {
	d := differ.New(mode)
	matched := make([]*differ.MatchedPair, 0, len(pairs))
	for _, p := range pairs {
		matched = append(matched, d.Pair(p[0], p[1]))
	}
	return report.Build(matched, nil, nil, mode)
}

func TestFromReportFillsMissingFields(t *testing.T) {
	r := buildReport([2]directory.UserRecord{
		{
			AccountID:   "acc-1",
			IdentityKey: "alice@x.com",
			DisplayName: "Alice",
			Profile:     &directory.ProfileAttributes{JobTitle: "Engineer"},
		},
		{
			IdentityKey: "alice@x.com",
			DisplayName: "Alice",
			Profile: &directory.ProfileAttributes{
				JobTitle:   "Engineer",
				Department: "Platform",
				Location:   "Vienna",
			},
		},
	})

	directives := FromReport(r)
	require.Len(t, directives, 1)

	d := directives[0]
	assert.Equal(t, "acc-1", d.AccountID)
	assert.Equal(t, "alice@x.com", d.Email)
	assert.False(t, d.HasNameUpdate(), "equal names need no correction")
	assert.Equal(t, map[string]string{
		differ.FieldDepartment: "Platform",
		differ.FieldLocation:   "Vienna",
	}, d.ProfileFields)
	assert.Equal(t, "Engineer", d.Current[differ.FieldJobTitle])
}

func TestFromReportNeverCorrectsMismatches(t *testing.T) {
	r := buildReport([2]directory.UserRecord{
		{
			AccountID:   "acc-1",
			IdentityKey: "bob@x.com",
			DisplayName: "Bob",
			Profile:     &directory.ProfileAttributes{Department: "Sales"},
		},
		{
			IdentityKey: "bob@x.com",
			DisplayName: "Bob",
			Profile:     &directory.ProfileAttributes{Department: "Marketing"},
		},
	})

	directives := FromReport(r)
	assert.Empty(t, directives,
		"conflicting non-empty values are reported, never auto-corrected")
}

func TestFromReportNameUpdates(t *testing.T) {
	t.Run("differing name proposed from secondary", func(t *testing.T) {
		r := buildReport([2]directory.UserRecord{
			{AccountID: "acc-1", IdentityKey: "a@x.com", DisplayName: "A. Person"},
			{IdentityKey: "a@x.com", DisplayName: "Alice Person"},
		})

		directives := FromReport(r)
		require.Len(t, directives, 1)
		assert.Equal(t, "Alice Person", directives[0].NameUpdate)
		assert.Equal(t, "A. Person", directives[0].PrimaryName)
	})

	t.Run("empty secondary name proposes nothing", func(t *testing.T) {
		r := buildReport([2]directory.UserRecord{
			{AccountID: "acc-1", IdentityKey: "a@x.com", DisplayName: "Alice"},
			{IdentityKey: "a@x.com", DisplayName: ""},
		})

		directives := FromReport(r)
		assert.Empty(t, directives, "an empty name is never pushed")
	})

	t.Run("case-only name difference proposes nothing", func(t *testing.T) {
		r := buildReport([2]directory.UserRecord{
			{AccountID: "acc-1", IdentityKey: "a@x.com", DisplayName: "alice person"},
			{IdentityKey: "a@x.com", DisplayName: "Alice Person"},
		})

		directives := FromReport(r)
		assert.Empty(t, directives)
	})
}

func TestFromReportBasicModeIgnoresProfileFields(t *testing.T) {
	t.Run("info-only fields alone produce no plan", func(t *testing.T) {
		// In basic mode a missing job title is surfaced for information
		// only, so it must never turn into a profile update.
		r := buildModeReport(differ.ModeBasic, [2]directory.UserRecord{
			{
				AccountID:   "acc-1",
				IdentityKey: "alice@x.com",
				DisplayName: "Alice",
			},
			{
				IdentityKey: "alice@x.com",
				DisplayName: "Alice",
				Profile:     &directory.ProfileAttributes{JobTitle: "Engineer"},
			},
		})

		assert.Empty(t, FromReport(r))
	})

	t.Run("name difference plans without touching the profile", func(t *testing.T) {
		r := buildModeReport(differ.ModeBasic, [2]directory.UserRecord{
			{
				AccountID:   "acc-1",
				IdentityKey: "alice@x.com",
				DisplayName: "A. Liddell",
			},
			{
				IdentityKey: "alice@x.com",
				DisplayName: "Alice Liddell",
				Profile:     &directory.ProfileAttributes{JobTitle: "Engineer"},
			},
		})

		directives := FromReport(r)
		require.Len(t, directives, 1)
		assert.Equal(t, "Alice Liddell", directives[0].NameUpdate)
		assert.False(t, directives[0].HasProfileUpdate())
	})
}

func TestFromReportSkipsEntriesWithoutAccountID(t *testing.T) {
	r := buildReport([2]directory.UserRecord{
		{IdentityKey: "ghost@x.com", DisplayName: "Ghost"},
		{IdentityKey: "ghost@x.com", DisplayName: "Ghost Account"},
	})

	assert.Empty(t, FromReport(r))
}

func TestFromReportEmptyReport(t *testing.T) {
	r := report.Build(nil, nil, nil, differ.ModeFullProfile)
	assert.Empty(t, FromReport(r))
}

func TestDirectivePredicates(t *testing.T) {
	d := &Directive{}
	assert.False(t, d.HasProfileUpdate())
	assert.False(t, d.HasNameUpdate())

	d.ProfileFields = map[string]string{differ.FieldLocation: "Vienna"}
	d.NameUpdate = "Alice"
	assert.True(t, d.HasProfileUpdate())
	assert.True(t, d.HasNameUpdate())
}
