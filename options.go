package usersync

import (
	"github.com/opsforge/usersync/pkg/differ"
	"github.com/opsforge/usersync/pkg/directory"
	"github.com/opsforge/usersync/pkg/errors"
)

// Option is a function that configures a Reconciler instance.
type Option func(*Reconciler) error

// WithMode sets the comparison mode for the run.
func WithMode(mode differ.Mode) Option {
	return func(r *Reconciler) error {
		if !mode.Valid() {
			return &errors.ValidationError{
				Field:   "mode",
				Value:   string(mode),
				Message: "comparison mode must be basic or full_profiles",
			}
		}
		r.mode = mode
		return nil
	}
}

// WithEligibility sets the predicate filtering primary records before
// matching. Passing nil admits every primary record.
func WithEligibility(eligible directory.Eligibility) Option {
	return func(r *Reconciler) error {
		r.eligible = eligible
		return nil
	}
}

// WithLabels sets the human-readable source names used in verdict messages.
func WithLabels(primary, secondary string) Option {
	return func(r *Reconciler) error {
		if primary != "" {
			r.labels[0] = primary
		}
		if secondary != "" {
			r.labels[1] = secondary
		}
		return nil
	}
}
