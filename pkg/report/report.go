// Package report aggregates differ output into an immutable reconciliation
// snapshot with derived statistics.
//
// A Report is created once per run and never mutated afterwards. Every count
// in the statistics block is derived from the report's own sequences, so the
// snapshot can never disagree with itself, and construction is deterministic:
// the difference list keeps the matched-pair encounter order and the only-in
// lists keep source iteration order.
package report

import (
	"time"

	"github.com/opsforge/usersync/pkg/differ"
	"github.com/opsforge/usersync/pkg/directory"
)

// Stats is the derived statistics block of a report.
type Stats struct {
	TotalPrimary    int `json:"total_primary"`
	TotalSecondary  int `json:"total_secondary"`
	Matched         int `json:"matched"`
	WithDifferences int `json:"with_differences"`
	OnlyPrimary     int `json:"only_primary"`
	OnlySecondary   int `json:"only_secondary"`
}

// Entry is one difference entry: the matched pair's key, both raw records
// and the per-field verdicts.
type Entry struct {
	Email         string                    `json:"email"`
	PrimaryName   string                    `json:"primary_name"`
	SecondaryName string                    `json:"secondary_name"`
	Verdicts      map[string]differ.Verdict `json:"differences"`
	PrimaryData   directory.UserRecord      `json:"primary_data"`
	SecondaryData directory.UserRecord      `json:"secondary_data"`
}

// Report is the persistable outcome of one reconciliation run.
type Report struct {
	GeneratedAt   time.Time              `json:"generated_at"`
	Mode          differ.Mode            `json:"comparison_mode"`
	Stats         Stats                  `json:"statistics"`
	Differences   []Entry                `json:"users_with_differences"`
	OnlyPrimary   []directory.UserRecord `json:"only_in_primary"`
	OnlySecondary []directory.UserRecord `json:"only_in_secondary"`
}

// Build aggregates matched pairs and the only-sets into a Report.
//
// Pairs are expected in matched encounter order; only pairs with actual
// differences make it into the difference list. Totals are derived:
// a side's total is its matched count plus its only count.
func Build(pairs []*differ.MatchedPair, primaryOnly, secondaryOnly []directory.UserRecord, mode differ.Mode) *Report {
	r := &Report{
		GeneratedAt:   time.Now().UTC().Truncate(time.Second),
		Mode:          mode,
		Differences:   []Entry{},
		OnlyPrimary:   append([]directory.UserRecord{}, primaryOnly...),
		OnlySecondary: append([]directory.UserRecord{}, secondaryOnly...),
	}

	for _, pair := range pairs {
		if !pair.HasDifferences() {
			continue
		}
		r.Differences = append(r.Differences, Entry{
			Email:         pair.IdentityKey,
			PrimaryName:   pair.Primary.DisplayName,
			SecondaryName: pair.Secondary.DisplayName,
			Verdicts:      pair.Verdicts,
			PrimaryData:   pair.Primary,
			SecondaryData: pair.Secondary,
		})
	}

	r.Stats = Stats{
		TotalPrimary:    len(pairs) + len(primaryOnly),
		TotalSecondary:  len(pairs) + len(secondaryOnly),
		Matched:         len(pairs),
		WithDifferences: len(r.Differences),
		OnlyPrimary:     len(primaryOnly),
		OnlySecondary:   len(secondaryOnly),
	}

	return r
}

// HasDifferences reports whether the run found any out-of-date records.
func (r *Report) HasDifferences() bool {
	return r.Stats.WithDifferences > 0
}
