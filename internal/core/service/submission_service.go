package service

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/gcreations/storefront-agent/internal/core/domain"
	"github.com/gcreations/storefront-agent/internal/core/ports"
)

// ParamsBuilder assembles the notification payload from the submitting
// user and the submission. The original upload variants differed only
// here, so the builder is configuration rather than a separate code
// path.
type ParamsBuilder func(user domain.User, sub domain.DesignSubmission) map[string]string

// SubmissionService runs the two-phase design submission: upload the
// artifact under the current session, then notify with derived data.
// Phase B failure never rolls back phase A; the result keeps both
// outcomes visible.
type SubmissionService struct {
	session  ports.SessionReader
	backend  ports.Backend
	notifier ports.Notifier
	params   ParamsBuilder
	log      zerolog.Logger

	inFlight atomic.Bool
}

func NewSubmissionService(session ports.SessionReader, backend ports.Backend, notifier ports.Notifier, params ParamsBuilder, log zerolog.Logger) *SubmissionService {
	return &SubmissionService{
		session:  session,
		backend:  backend,
		notifier: notifier,
		params:   params,
		log:      log,
	}
}

// Run executes one submission. It fails fast without any network call
// when the session is not authenticated, and refuses to start while a
// previous submission is still in flight, so a double-click cannot
// produce two artifacts. Cancelling ctx aborts the waiting phase; the
// session and stored credential are never touched here.
func (s *SubmissionService) Run(ctx context.Context, sub domain.DesignSubmission) (domain.SubmissionResult, error) {
	var res domain.SubmissionResult

	state := s.session.Current()
	if !state.Authenticated() {
		return res, &domain.WorkflowError{Stage: domain.StageAuth, Cause: domain.ErrNotAuthenticated}
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		return res, domain.ErrSubmissionInFlight
	}
	defer s.inFlight.Store(false)

	user := *state.User

	res.Upload.Attempted = true
	artifactID, err := s.backend.UploadDesign(ctx, sub, user.ID)
	if err != nil {
		res.Upload.Err = err
		s.log.Error().Err(err).Msg("design upload failed")
		return res, &domain.WorkflowError{Stage: domain.StageUpload, Cause: err}
	}
	res.ArtifactID = artifactID
	res.Upload.Succeeded = true

	res.Notify.Attempted = true
	if err := s.notifier.Send(ctx, s.params(user, sub)); err != nil {
		res.Notify.Err = err
		s.log.Error().Err(err).Str("artifact_id", artifactID).
			Msg("design uploaded but notification failed")
		return res, &domain.WorkflowError{Stage: domain.StageNotify, Cause: err}
	}
	res.Notify.Succeeded = true

	s.log.Info().Str("artifact_id", artifactID).Msg("submission completed")
	return res, nil
}
