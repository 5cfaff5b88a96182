package output

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/opsforge/usersync/internal/executor"
	"github.com/opsforge/usersync/pkg/differ"
	"github.com/opsforge/usersync/pkg/plan"
	"github.com/opsforge/usersync/pkg/report"
)

var titler = cases.Title(language.English)

// FieldTitle renders an attribute name as a table heading,
// e.g. "display_name" becomes "Display Name".
func FieldTitle(field string) string {
	return titler.String(strings.ReplaceAll(field, "_", " "))
}

// StatsTable renders a report's statistics block.
func StatsTable(r *report.Report) Data {
	return Data{
		Headers: []string{"Statistic", "Count"},
		Rows: [][]string{
			{"Users in primary source", strconv.Itoa(r.Stats.TotalPrimary)},
			{"Users in secondary source", strconv.Itoa(r.Stats.TotalSecondary)},
			{"Matched (same email)", strconv.Itoa(r.Stats.Matched)},
			{"With data differences", strconv.Itoa(r.Stats.WithDifferences)},
			{"Only in primary", strconv.Itoa(r.Stats.OnlyPrimary)},
			{"Only in secondary", strconv.Itoa(r.Stats.OnlySecondary)},
		},
	}
}

// DifferencesTable renders the per-field verdicts of every difference entry.
func DifferencesTable(r *report.Report) Data {
	data := Data{
		Headers: []string{"Email", "Field", "Verdict"},
	}
	for _, entry := range r.Differences {
		for _, field := range differ.Fields() {
			v, ok := entry.Verdicts[field]
			if !ok {
				continue
			}
			data.Rows = append(data.Rows, []string{entry.Email, FieldTitle(field), v.Message})
		}
	}
	return data
}

// OnlyTable renders one side's unmatched records.
func OnlyTable(r *report.Report, primary bool) Data {
	data := Data{Headers: []string{"Name", "Email"}}
	records := r.OnlySecondary
	if primary {
		records = r.OnlyPrimary
	}
	for _, rec := range records {
		data.Rows = append(data.Rows, []string{rec.DisplayName, rec.IdentityKey})
	}
	return data
}

// PlanTable renders an update plan as one row per proposed change.
func PlanTable(directives []*plan.Directive) Data {
	data := Data{
		Headers: []string{"Email", "Field", "Current", "Proposed"},
	}
	for _, d := range directives {
		if d.HasNameUpdate() {
			data.Rows = append(data.Rows, []string{
				d.Email, FieldTitle(differ.FieldDisplayName), d.PrimaryName, d.NameUpdate,
			})
		}
		for _, field := range differ.Fields() {
			value, ok := d.ProfileFields[field]
			if !ok {
				continue
			}
			current := d.Current[field]
			if current == "" {
				current = "(none)"
			}
			data.Rows = append(data.Rows, []string{d.Email, FieldTitle(field), current, value})
		}
	}
	return data
}

// ExecutionTable renders executor statistics.
func ExecutionTable(stats *executor.Stats) Data {
	return Data{
		Headers: []string{"Counter", "Value"},
		Rows: [][]string{
			{"Total directives", strconv.Itoa(stats.Total)},
			{"Succeeded", strconv.Itoa(stats.Succeeded)},
			{"Failed", strconv.Itoa(stats.Failed)},
			{"Profiles updated", strconv.Itoa(stats.ProfileUpdated)},
			{"Names updated", strconv.Itoa(stats.NameUpdated)},
			{"Names failed", strconv.Itoa(stats.NameFailed)},
		},
	}
}

// Summary returns a one-line outcome for the end of a compare run.
func Summary(r *report.Report) string {
	if !r.HasDifferences() {
		return "all matched data is consistent"
	}
	return fmt.Sprintf("%d users with outdated data in the primary source", r.Stats.WithDifferences)
}
