package ports

import (
	"context"

	"github.com/gcreations/storefront-agent/internal/core/domain"
)

// RegisterOutcome is the caller-visible signal after a successful
// registration. Registration never establishes a session; Redirect
// points the UI at the login entry point.
type RegisterOutcome struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
}

// SessionReader exposes the session snapshot to read-only consumers
// (access guard, views, submission workflow).
type SessionReader interface {
	Current() domain.SessionState
}

type SessionService interface {
	SessionReader

	Hydrate(ctx context.Context) error
	Login(ctx context.Context, username, password string) (*domain.User, error)
	Register(ctx context.Context, username, email, password string) (RegisterOutcome, error)
	Logout(ctx context.Context)
	Invalidate(cause string)
}
