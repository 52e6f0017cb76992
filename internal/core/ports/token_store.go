package ports

import "context"

// TokenStore persists the single bearer credential across restarts.
// Load returns domain.ErrNoCredential when nothing is stored. Adapters
// never validate token shape; they are storage only.
type TokenStore interface {
	Save(ctx context.Context, credential string) error
	Load(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}
