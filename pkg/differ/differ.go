package differ

import (
	"fmt"
	"strings"

	"github.com/opsforge/usersync/pkg/directory"
)

// Mode selects which attributes are actually compared. It is fixed for a
// whole pipeline run, never per-record.
type Mode string

const (
	// ModeBasic compares display names only; profile fields become
	// info-only verdicts carrying the secondary value.
	ModeBasic Mode = "basic"
	// ModeFullProfile compares display name, job title, department and
	// location with the same decision table.
	ModeFullProfile Mode = "full_profiles"
)

// Valid reports whether the mode is one of the known comparison modes.
func (m Mode) Valid() bool {
	return m == ModeBasic || m == ModeFullProfile
}

// MatchedPair is one identity key present in both sources: the two records
// and a verdict per compared attribute.
type MatchedPair struct {
	IdentityKey string               `json:"email"`
	Primary     directory.UserRecord `json:"primary"`
	Secondary   directory.UserRecord `json:"secondary"`
	Verdicts    map[string]Verdict   `json:"differences"`
}

// HasDifferences reports whether any non-info verdict registered a
// difference.
func (p *MatchedPair) HasDifferences() bool {
	for _, v := range p.Verdicts {
		if v.Classification != ClassInfoOnly && v.Differs {
			return true
		}
	}
	return false
}

// Differ computes field verdicts for matched record pairs.
type Differ interface {
	// Field compares one attribute value between the two sources.
	Field(primaryValue, secondaryValue string) Verdict

	// Pair compares a matched record pair under the configured mode.
	Pair(primary, secondary directory.UserRecord) *MatchedPair

	// Mode returns the comparison mode this differ runs under.
	Mode() Mode
}

// differ is the default implementation of Differ.
type differ struct {
	mode           Mode
	primaryLabel   string
	secondaryLabel string
}

// New creates a Differ for the given mode with default source labels.
func New(mode Mode, opts ...Option) Differ {
	d := &differ{
		mode:           mode,
		primaryLabel:   "Jira",
		secondaryLabel: "M365",
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Mode returns the comparison mode.
func (d *differ) Mode() Mode {
	return d.mode
}

// Field compares one attribute value between the two sources.
//
// The decision table is evaluated in order: both empty, missing on one
// side, equality (exact, then case-folded), mismatch. Emptiness is judged
// after trimming, so whitespace-only values count as absent.
func (d *differ) Field(primaryValue, secondaryValue string) Verdict {
	pv := strings.TrimSpace(primaryValue)
	sv := strings.TrimSpace(secondaryValue)

	switch {
	case pv == "" && sv == "":
		return Verdict{
			Classification: ClassBothEmpty,
			Message:        "both empty",
		}
	case pv == "":
		return Verdict{
			Differs:        true,
			Classification: ClassMissingPrimary,
			Message:        fmt.Sprintf("missing in %s (%s: '%s')", d.primaryLabel, d.secondaryLabel, sv),
		}
	case sv == "":
		return Verdict{
			Differs:        true,
			Classification: ClassMissingSecondary,
			Message:        fmt.Sprintf("missing in %s (%s: '%s')", d.secondaryLabel, d.primaryLabel, pv),
		}
	case pv == sv:
		return Verdict{
			Classification: ClassEqual,
			Message:        fmt.Sprintf("'%s'", sv),
		}
	case strings.EqualFold(pv, sv):
		return Verdict{
			Classification: ClassEqualFold,
			Message:        fmt.Sprintf("'%s' (case only)", sv),
		}
	}
	return Verdict{
		Differs:        true,
		Classification: ClassMismatch,
		Message:        fmt.Sprintf("mismatch: %s='%s' vs %s='%s'", d.primaryLabel, pv, d.secondaryLabel, sv),
	}
}

// Pair compares a matched record pair under the configured mode.
func (d *differ) Pair(primary, secondary directory.UserRecord) *MatchedPair {
	pair := &MatchedPair{
		IdentityKey: primary.IdentityKey,
		Primary:     primary,
		Secondary:   secondary,
		Verdicts:    make(map[string]Verdict, 4),
	}

	// Display name is compared in every mode.
	pair.Verdicts[FieldDisplayName] = d.Field(primary.DisplayName, secondary.DisplayName)

	if d.mode == ModeFullProfile {
		pair.Verdicts[FieldJobTitle] = d.Field(primary.JobTitle(), secondary.JobTitle())
		pair.Verdicts[FieldDepartment] = d.Field(primary.Department(), secondary.Department())
		pair.Verdicts[FieldLocation] = d.Field(primary.Location(), secondary.Location())
		return pair
	}

	pair.Verdicts[FieldJobTitle] = d.info(secondary.JobTitle())
	pair.Verdicts[FieldDepartment] = d.info(secondary.Department())
	pair.Verdicts[FieldLocation] = d.info(secondary.Location())
	return pair
}

// info builds the display-only verdict used for profile fields in basic mode.
func (d *differ) info(secondaryValue string) Verdict {
	value := strings.TrimSpace(secondaryValue)
	if value == "" {
		value = "none"
	}
	return Verdict{
		Classification: ClassInfoOnly,
		Message:        fmt.Sprintf("%s: '%s'", d.secondaryLabel, value),
	}
}
