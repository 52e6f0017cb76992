package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gcreations/storefront-agent/internal/core/domain"
	"github.com/gcreations/storefront-agent/internal/core/ports"
)

// SessionService owns the process-wide session state machine. It is
// the only writer of SessionState, the token store and the transport
// credential, and it always mutates store and carrier together under
// one lock so no request can observe a half-updated credential.
type SessionService struct {
	store   ports.TokenStore
	backend ports.Backend
	carrier ports.CredentialCarrier
	log     zerolog.Logger

	mu    sync.Mutex
	state domain.SessionState
}

// NewSessionService loads any stored credential and primes the
// carrier with it. With a credential present the session starts in
// Hydrating and the caller is expected to invoke Hydrate; otherwise it
// starts Unauthenticated.
func NewSessionService(ctx context.Context, store ports.TokenStore, backend ports.Backend, carrier ports.CredentialCarrier, log zerolog.Logger) *SessionService {
	s := &SessionService{
		store:   store,
		backend: backend,
		carrier: carrier,
		log:     log,
		state:   domain.SessionState{Status: domain.StatusUnauthenticated},
	}

	cred, err := store.Load(ctx)
	switch {
	case err == nil && cred != "":
		carrier.SetCredential(cred)
		s.state = domain.SessionState{Status: domain.StatusHydrating}
	case err != nil && !errors.Is(err, domain.ErrNoCredential):
		log.Warn().Err(err).Msg("token store unreadable, starting unauthenticated")
	}
	return s
}

// Current returns a snapshot of the session state.
func (s *SessionService) Current() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Hydrate confirms the stored credential against the backend. Any
// failure, including a rejected credential, drops back to
// Unauthenticated and clears the stored credential. Calling Hydrate
// outside the Hydrating state is a no-op.
func (s *SessionService) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	if s.state.Status != domain.StatusHydrating {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	user, err := s.backend.FetchIdentity(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("hydration failed, clearing credential")
		s.drop(ctx)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// A concurrent 401 may have invalidated the session while the
	// identity fetch was in flight; do not resurrect it.
	if s.state.Status != domain.StatusHydrating {
		return nil
	}
	s.state = domain.SessionState{Status: domain.StatusAuthenticated, User: user}
	s.log.Info().Str("username", user.Username).Str("role", user.Role).Msg("session hydrated")
	return nil
}

// Login authenticates against the backend and establishes the session.
// A 2xx response without a token is an invalid response; non-2xx
// responses surface the backend's own message as the AuthError reason.
func (s *SessionService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	resp, err := s.backend.Login(ctx, username, password)
	if err != nil {
		return nil, asAuthError(err)
	}
	if resp.Token == "" {
		return nil, &domain.AuthError{Reason: domain.ReasonInvalidResponse}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(ctx, resp.Token); err != nil {
		return nil, fmt.Errorf("persist credential: %w", err)
	}
	s.carrier.SetCredential(resp.Token)
	user := resp.User
	s.state = domain.SessionState{Status: domain.StatusAuthenticated, User: &user}
	s.log.Info().Str("username", user.Username).Msg("login succeeded")
	return &user, nil
}

// Register creates an account without establishing a session; the
// outcome tells the caller to redirect to the login entry point.
func (s *SessionService) Register(ctx context.Context, username, email, password string) (ports.RegisterOutcome, error) {
	msg, err := s.backend.Register(ctx, username, email, password)
	if err != nil {
		var te *domain.TransportError
		if errors.As(err, &te) && te.Status == http.StatusConflict {
			return ports.RegisterOutcome{}, &domain.AuthError{Reason: domain.ReasonUsernameTaken}
		}
		return ports.RegisterOutcome{}, asAuthError(err)
	}
	if msg == "" {
		msg = "Registration successful"
	}
	return ports.RegisterOutcome{Message: msg, Redirect: LoginPath}, nil
}

// Logout tears the session down locally: credential removed from the
// store, carrier cleared, user dropped. No network round-trip is
// required for logout to complete.
func (s *SessionService) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked(ctx)
	s.log.Info().Msg("logged out")
}

// Invalidate downgrades the session after the backend rejected the
// credential on any authenticated request. Wired to the transport's
// unauthorized hook.
func (s *SessionService) Invalidate(cause string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Status == domain.StatusUnauthenticated {
		return
	}
	s.clearLocked(context.Background())
	s.log.Warn().Str("cause", cause).Msg("session invalidated")
}

func (s *SessionService) drop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked(ctx)
}

// clearLocked resets credential, carrier and state as one unit.
// Callers must hold s.mu.
func (s *SessionService) clearLocked(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		s.log.Error().Err(err).Msg("clearing token store failed")
	}
	s.carrier.ClearCredential()
	s.state = domain.SessionState{Status: domain.StatusUnauthenticated}
}

// asAuthError converts a non-2xx transport failure into a semantic
// AuthError carrying the backend's message. Network-level failures
// propagate unchanged.
func asAuthError(err error) error {
	var te *domain.TransportError
	if !errors.As(err, &te) || te.Status == 0 {
		return err
	}
	reason := te.Message
	if reason == "" {
		reason = domain.ReasonUnexpected
	}
	return &domain.AuthError{Reason: reason}
}
