package service

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/rentgrid/backoffice/internal/core/domain"
	"github.com/rentgrid/backoffice/internal/core/ports"
)

// DecisionState is the outcome of a guard check. A check starts in
// StateChecking and ends in exactly one of the terminal states.
type DecisionState int

const (
	StateChecking DecisionState = iota
	// StateAuthorized renders the protected content.
	StateAuthorized
	// StateRedirectLogin sends the visitor to the login view: there is no
	// usable session.
	StateRedirectLogin
	// StateRedirectHome sends the visitor to the public home view: the
	// session is valid but its role is not accepted here.
	StateRedirectHome
)

func (s DecisionState) String() string {
	switch s {
	case StateAuthorized:
		return "authorized"
	case StateRedirectLogin:
		return "redirect-login"
	case StateRedirectHome:
		return "redirect-home"
	default:
		return "checking"
	}
}

// Decision carries the terminal state and, when authorized, the session user.
type Decision struct {
	State DecisionState
	User  *domain.User
}

// Allowed is the single authorization predicate: an empty role set admits any
// authenticated user, otherwise the user's role must be in the set.
func Allowed(user *domain.User, requiredRoles ...string) bool {
	if user == nil {
		return false
	}
	if len(requiredRoles) == 0 {
		return true
	}
	for _, r := range requiredRoles {
		if user.Role == r {
			return true
		}
	}
	return false
}

// Guard gates protected views using only locally persisted state. It never
// makes a server round trip: token validity is enforced by the backend on the
// first real API call.
type Guard struct {
	sessions ports.SessionSource
	log      zerolog.Logger
}

func NewGuard(sessions ports.SessionSource, log zerolog.Logger) *Guard {
	return &Guard{sessions: sessions, log: log}
}

// Check runs once per protected-view entry. Absent or corrupt sessions
// redirect to login (corrupt state has already been purged by the session
// source); an authenticated user whose role is outside the accepted set
// redirects home instead, since they are logged in but unauthorized here.
func (g *Guard) Check(requiredRoles ...string) Decision {
	sess, err := g.sessions.Load()
	if err != nil {
		if !errors.Is(err, domain.ErrNotAuthenticated) {
			g.log.Debug().Err(err).Msg("guard: session unusable")
		}
		return Decision{State: StateRedirectLogin}
	}

	if !Allowed(&sess.User, requiredRoles...) {
		g.log.Debug().
			Str("role", sess.User.Role).
			Strs("required", requiredRoles).
			Msg("guard: role not accepted")
		return Decision{State: StateRedirectHome, User: &sess.User}
	}

	return Decision{State: StateAuthorized, User: &sess.User}
}
