// Package executor applies update directives against the primary source,
// one directive at a time.
//
// Each directive issues up to two independent corrective operations: the
// profile fields and the display name. Partial success is explicit: a
// profile failure never blocks the name attempt and vice versa. Display-name
// failures are expected (the field is often owned by SSO) and are tallied
// separately, never escalated. A token-bucket limiter enforces a fixed pause
// between directives to respect the Organization API's rate limits.
package executor

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/opsforge/usersync/pkg/logging"
	"github.com/opsforge/usersync/pkg/plan"
)

// Mode controls whether directives actually mutate the primary source.
type Mode string

const (
	// ModeSimulate counts every directive as applied without touching
	// the network.
	ModeSimulate Mode = "simulate"
	// ModeCommit applies directives for real.
	ModeCommit Mode = "commit"
)

// DefaultInterval is the pause enforced between committed directives.
var DefaultInterval = 500 * time.Millisecond

// Updater is the primary-source write surface the executor drives.
type Updater interface {
	// UpdateProfile patches extended-profile fields for an account.
	UpdateProfile(ctx context.Context, accountID string, fields map[string]string) error

	// UpdateDisplayName patches the display name for an account.
	UpdateDisplayName(ctx context.Context, accountID, name string) error
}

// Stats accumulates the outcome of an apply run. Counters are only ever
// incremented; a failed directive never discards what came before it.
type Stats struct {
	Total          int `json:"total"`
	Succeeded      int `json:"succeeded"`
	Failed         int `json:"failed"`
	ProfileUpdated int `json:"profile_updated"`
	NameUpdated    int `json:"name_updated"`
	NameFailed     int `json:"name_failed"`
}

// Executor applies directives sequentially.
type Executor struct {
	updater Updater
	limiter *rate.Limiter
	logger  *zerolog.Logger
}

// New creates an Executor backed by the given updater.
func New(updater Updater, opts ...Option) *Executor {
	e := &Executor{
		updater: updater,
		limiter: rate.NewLimiter(rate.Every(DefaultInterval), 1),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Option is a functional option for configuring an Executor.
type Option func(*Executor)

// WithInterval sets the pause between committed directives.
func WithInterval(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// WithLogger overrides the logger used for per-directive progress.
// Without it, Apply uses the logger carried by the context.
func WithLogger(logger *zerolog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// Apply processes the directives one at a time and returns the accumulated
// statistics.
//
// In simulate mode no updater call is made and no pause is enforced; every
// directive is counted as if applied successfully. In commit mode errors on
// individual operations are recorded in the stats and processing continues.
// The returned stats are valid even when the context is canceled mid-run.
func (e *Executor) Apply(ctx context.Context, directives []*plan.Directive, mode Mode) (*Stats, error) {
	stats := &Stats{Total: len(directives)}

	base := e.logger
	if base == nil {
		base = logging.Ctx(ctx)
	}

	for i, d := range directives {
		log := base.With().
			Int("directive", i+1).
			Int("total", stats.Total).
			Str("email", d.Email).
			Logger()

		if mode == ModeSimulate {
			log.Info().Msg("simulated update")
			stats.Succeeded++
			if d.HasProfileUpdate() {
				stats.ProfileUpdated++
			}
			if d.HasNameUpdate() {
				stats.NameUpdated++
			}
			continue
		}

		if err := e.limiter.Wait(ctx); err != nil {
			return stats, err
		}

		succeeded := false

		if d.HasProfileUpdate() {
			if err := e.updater.UpdateProfile(ctx, d.AccountID, d.ProfileFields); err != nil {
				log.Warn().Err(err).Msg("profile update failed")
				stats.Failed++
			} else {
				log.Info().Msg("profile updated")
				stats.ProfileUpdated++
				succeeded = true
			}
		}

		if d.HasNameUpdate() {
			if err := e.updater.UpdateDisplayName(ctx, d.AccountID, d.NameUpdate); err != nil {
				// Display names are often SSO-managed and not writable
				// through the API. Tallied, never fatal.
				log.Warn().Err(err).Msg("display name update failed")
				stats.NameFailed++
			} else {
				log.Info().Str("name", d.NameUpdate).Msg("display name updated")
				stats.NameUpdated++
				succeeded = true
			}
		}

		if succeeded {
			stats.Succeeded++
		}
	}

	return stats, nil
}
