package ports

import "github.com/rentgrid/backoffice/internal/core/domain"

// SessionSource reads and clears the locally persisted session. The guard and
// the CLI depend on this rather than on storage directly so the corrupt-data
// purge logic lives in exactly one place.
type SessionSource interface {
	// Load returns the current session, domain.ErrNotAuthenticated when none
	// is stored, or domain.ErrSessionCorrupt after purging unparseable state.
	Load() (*domain.Session, error)
	Clear() error
}
