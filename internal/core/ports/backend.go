package ports

import (
	"context"

	"github.com/gcreations/storefront-agent/internal/core/domain"
)

// LoginResponse is the parsed body of a successful login call. Token
// may still be empty on a 2xx response; the session service treats
// that as an invalid response, not this layer.
type LoginResponse struct {
	Token string
	User  domain.User
}

// Backend is the remote storefront REST API.
type Backend interface {
	Login(ctx context.Context, username, password string) (*LoginResponse, error)
	Register(ctx context.Context, username, email, password string) (string, error)
	FetchIdentity(ctx context.Context) (*domain.User, error)
	UploadDesign(ctx context.Context, sub domain.DesignSubmission, userID string) (string, error)
}

// CredentialCarrier is the transport-side half of credential sync: the
// session service mutates the token store and the carrier together so
// no request ever goes out with a stale Authorization header.
type CredentialCarrier interface {
	SetCredential(credential string)
	ClearCredential()
}
