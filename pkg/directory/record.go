// Package directory defines the user record model shared by both identity
// sources and the normalization rules that make records comparable.
//
// A UserRecord is produced once by a fetch stage and never mutated afterwards;
// every later pipeline stage (matching, diffing, planning) reads it and builds
// new structures around it.
package directory

// SourceSystem identifies which identity system a record came from.
type SourceSystem string

const (
	// SourcePrimary is the system being corrected (Jira / Atlassian).
	SourcePrimary SourceSystem = "primary"
	// SourceSecondary is the system treated as source of truth (M365).
	SourceSecondary SourceSystem = "secondary"
)

// String returns the string representation of a source system.
func (s SourceSystem) String() string {
	return string(s)
}

// AccountKind classifies an account within its source system.
// Only real user accounts participate in matching; service and guest
// accounts are excluded by the eligibility predicate.
type AccountKind string

const (
	// AccountKindUser is a real, person-backed account.
	AccountKindUser AccountKind = "user"
	// AccountKindService is an app or bot account.
	AccountKindService AccountKind = "service"
	// AccountKindGuest is an external guest account.
	AccountKindGuest AccountKind = "guest"
)

// ProfileAttributes holds the optional extended-profile fields.
// A nil pointer on UserRecord means the source provided no profile at all;
// an empty string means the source provided the profile with the field unset.
type ProfileAttributes struct {
	JobTitle   string `json:"job_title,omitempty"`
	Department string `json:"department,omitempty"`
	Location   string `json:"location,omitempty"`
}

// UserRecord represents one identity in one source system.
type UserRecord struct {
	Source      SourceSystem       `json:"source"`
	AccountID   string             `json:"account_id,omitempty"`
	IdentityKey string             `json:"email"`
	DisplayName string             `json:"display_name"`
	Kind        AccountKind        `json:"account_type"`
	Active      bool               `json:"active"`
	Profile     *ProfileAttributes `json:"profile,omitempty"`
}

// HasKey reports whether the record carries a usable identity key.
// Records without one are excluded from matching, never treated as errors.
func (r UserRecord) HasKey() bool {
	return r.IdentityKey != ""
}

// JobTitle returns the profile job title, or empty if no profile is present.
func (r UserRecord) JobTitle() string {
	if r.Profile == nil {
		return ""
	}
	return r.Profile.JobTitle
}

// Department returns the profile department, or empty if no profile is present.
func (r UserRecord) Department() string {
	if r.Profile == nil {
		return ""
	}
	return r.Profile.Department
}

// Location returns the profile location, or empty if no profile is present.
func (r UserRecord) Location() string {
	if r.Profile == nil {
		return ""
	}
	return r.Profile.Location
}

// Eligibility decides whether a primary-side record takes part in matching.
type Eligibility func(UserRecord) bool

// RealUsersOnly is the default eligibility predicate: only real user
// accounts are matched, mirroring the Atlassian "atlassian" account type.
// Because normalization maps unknown and empty account types to
// AccountKindUser as well, this predicate admits records whose type the
// source never declared; exclude those upstream if that is too wide.
func RealUsersOnly(r UserRecord) bool {
	return r.Kind == AccountKindUser
}
