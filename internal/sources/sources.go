// Package sources defines the interface the identity-source clients present
// to the pipeline. Clients are thin authenticated fetchers: they page through
// a remote directory, map the wire shape into directory.UserRecord at the
// boundary, and never participate in comparison logic.
package sources

import (
	"context"

	"github.com/opsforge/usersync/pkg/directory"
)

// Fetcher retrieves a complete user list from one identity source.
// A fetch either returns the whole directory or fails the run; no partial
// result is ever handed to the comparison stages.
type Fetcher interface {
	// Name returns the source system name used in logs and errors.
	Name() string

	// FetchUsers retrieves and normalizes all user records.
	FetchUsers(ctx context.Context) ([]directory.UserRecord, error)
}
