package domain

import "strings"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User models the authenticated storefront account.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

// NormalizeRole maps backend role spellings onto the canonical constants.
func NormalizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleCustomer
	}
}

// SessionStatus is the tag of the process-wide session variant.
type SessionStatus string

const (
	// StatusUnauthenticated: no credential, definitely logged out.
	StatusUnauthenticated SessionStatus = "unauthenticated"
	// StatusHydrating: a stored credential exists but the identity
	// behind it has not been confirmed yet.
	StatusHydrating SessionStatus = "hydrating"
	// StatusAuthenticated: the credential was accepted and User is set.
	StatusAuthenticated SessionStatus = "authenticated"
)

// SessionState is a read-only snapshot of the current session.
// User is non-nil exactly when Status is StatusAuthenticated.
type SessionState struct {
	Status SessionStatus `json:"status"`
	User   *User         `json:"user,omitempty"`
}

// Authenticated reports whether the session holds a confirmed identity.
func (s SessionState) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.User != nil
}
