// Package usersync reconciles user records between two identity sources.
//
// The pipeline runs strictly left to right: raw records are normalized into
// a common comparison shape, partitioned by identity key into matched and
// source-only sets, diffed field by field, and aggregated into an immutable
// report. A plan of corrective updates can then be derived from the report
// and applied against the primary source, with the secondary source treated
// as ground truth.
//
// Example usage:
//
//	rec, err := usersync.New(usersync.WithMode(differ.ModeFullProfile))
//	if err != nil {
//	    return err
//	}
//	rep := rec.Reconcile(primaryRecords, secondaryRecords)
//	directives := rec.Plan(rep)
package usersync

import (
	"github.com/opsforge/usersync/pkg/differ"
	"github.com/opsforge/usersync/pkg/directory"
	"github.com/opsforge/usersync/pkg/matcher"
	"github.com/opsforge/usersync/pkg/plan"
	"github.com/opsforge/usersync/pkg/report"
)

// Reconciler runs the fetch-independent part of the pipeline: normalize,
// match, diff, report. It holds only configuration; every run takes the
// already-fetched record sequences as input and produces a fresh report.
type Reconciler struct {
	mode     differ.Mode
	eligible directory.Eligibility
	labels   [2]string
	differ   differ.Differ
}

// New creates a Reconciler. The default configuration compares full
// profiles and matches only real user accounts on the primary side.
func New(opts ...Option) (*Reconciler, error) {
	r := &Reconciler{
		mode:     differ.ModeFullProfile,
		eligible: directory.RealUsersOnly,
		labels:   [2]string{"Jira", "M365"},
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.differ = differ.New(r.mode, differ.WithLabels(r.labels[0], r.labels[1]))
	return r, nil
}

// Mode returns the comparison mode this reconciler runs under.
func (r *Reconciler) Mode() differ.Mode {
	return r.mode
}

// Reconcile matches the two normalized record sets and builds the
// reconciliation report. Inputs are read-only; the report references them
// without modifying either.
func (r *Reconciler) Reconcile(primary, secondary []directory.UserRecord) *report.Report {
	res := matcher.Match(primary, secondary, r.eligible)

	pairs := make([]*differ.MatchedPair, 0, len(res.MatchedKeys))
	for _, key := range res.MatchedKeys {
		p, _ := res.Primary.Get(key)
		s, _ := res.Secondary.Get(key)
		pairs = append(pairs, r.differ.Pair(p, s))
	}

	return report.Build(pairs, res.PrimaryOnly, res.SecondaryOnly, r.mode)
}

// Plan derives the corrective update plan from a report.
func (r *Reconciler) Plan(rep *report.Report) []*plan.Directive {
	return plan.FromReport(rep)
}
