package service

import "github.com/gcreations/storefront-agent/internal/core/domain"

// LoginPath is the unauthenticated entry point redirects land on.
const LoginPath = "/login"

// Decision is the access guard verdict for a role-restricted view.
type Decision int

const (
	// Allow admits the view.
	Allow Decision = iota
	// Pending means the session is still hydrating; render nothing
	// rather than flashing a redirect before hydration completes.
	Pending
	// DenyRedirect refuses the view and names the redirect target.
	DenyRedirect
)

// Access pairs the decision with its redirect target, set only for
// DenyRedirect.
type Access struct {
	Decision Decision
	Redirect string
}

// CanAccess gates a view requiring the given role. Allow requires an
// authenticated user whose role matches exactly; an admin is not a
// superset of a customer.
func CanAccess(state domain.SessionState, requiredRole string) Access {
	switch state.Status {
	case domain.StatusHydrating:
		return Access{Decision: Pending}
	case domain.StatusAuthenticated:
		if state.User != nil && state.User.Role == requiredRole {
			return Access{Decision: Allow}
		}
	}
	return Access{Decision: DenyRedirect, Redirect: LoginPath}
}
