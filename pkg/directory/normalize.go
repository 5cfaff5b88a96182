package directory

import "strings"

// missingSentinels are raw values that mean "no email" in source exports.
// The Atlassian export uses the literal "N/A" for suppressed addresses.
var missingSentinels = map[string]bool{
	"":    true,
	"n/a": true,
}

// NormalizeKey canonicalizes a raw email into an identity key: trimmed and
// lower-cased. Any missing-value sentinel collapses to the empty key, which
// never matches another record. NormalizeKey is pure and total.
func NormalizeKey(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if missingSentinels[key] {
		return ""
	}
	return key
}

// RawRecord is the loosely-typed shape records arrive in from fetchers and
// persisted files. Optional fields stay pointers so absence survives the
// trip through JSON.
type RawRecord struct {
	AccountID   string  `json:"account_id,omitempty"`
	Email       string  `json:"email"`
	DisplayName string  `json:"display_name"`
	AccountType string  `json:"account_type,omitempty"`
	Active      bool    `json:"active"`
	JobTitle    *string `json:"job_title,omitempty"`
	Department  *string `json:"department,omitempty"`
	Location    *string `json:"location,omitempty"`
}

// Normalize canonicalizes one raw record into a UserRecord for the given
// source system. It never fails: unusable emails become the empty identity
// key and absent optional fields become explicit empties.
func Normalize(source SourceSystem, raw RawRecord) UserRecord {
	rec := UserRecord{
		Source:      source,
		AccountID:   raw.AccountID,
		IdentityKey: NormalizeKey(raw.Email),
		DisplayName: strings.TrimSpace(raw.DisplayName),
		Kind:        normalizeKind(raw.AccountType),
		Active:      raw.Active,
	}

	if raw.JobTitle != nil || raw.Department != nil || raw.Location != nil {
		rec.Profile = &ProfileAttributes{
			JobTitle:   deref(raw.JobTitle),
			Department: deref(raw.Department),
			Location:   deref(raw.Location),
		}
	}

	return rec
}

// NormalizeAll canonicalizes a whole fetch result, preserving input order.
func NormalizeAll(source SourceSystem, raws []RawRecord) []UserRecord {
	records := make([]UserRecord, 0, len(raws))
	for _, raw := range raws {
		records = append(records, Normalize(source, raw))
	}
	return records
}

// ToRaw converts a normalized record back to the flat persisted shape used
// by the fetch-stage JSON files. Profile fields are emitted only when the
// record carries a profile, so absence survives the round trip.
func ToRaw(rec UserRecord) RawRecord {
	raw := RawRecord{
		AccountID:   rec.AccountID,
		Email:       rec.IdentityKey,
		DisplayName: rec.DisplayName,
		AccountType: string(rec.Kind),
		Active:      rec.Active,
	}
	if rec.Profile != nil {
		raw.JobTitle = &rec.Profile.JobTitle
		raw.Department = &rec.Profile.Department
		raw.Location = &rec.Profile.Location
	}
	return raw
}

// ToRawAll converts a whole record list to the persisted shape.
func ToRawAll(records []UserRecord) []RawRecord {
	raws := make([]RawRecord, 0, len(records))
	for _, rec := range records {
		raws = append(raws, ToRaw(rec))
	}
	return raws
}

// normalizeKind maps a source account type onto the shared kind
// vocabulary. Unrecognized and empty types deliberately fold into
// AccountKindUser: sources disagree on spelling and omit the field
// often enough that treating the unknown as a real user keeps those
// accounts visible to matching instead of silently dropping them.
func normalizeKind(accountType string) AccountKind {
	switch strings.ToLower(strings.TrimSpace(accountType)) {
	case "atlassian", "member", "user", "":
		return AccountKindUser
	case "app", "service", "system":
		return AccountKindService
	case "customer", "guest":
		return AccountKindGuest
	}
	return AccountKindUser
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
