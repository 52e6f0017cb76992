package domain

import "io"

// DesignSubmission is the artifact payload for the upload phase.
type DesignSubmission struct {
	Colors   string
	Quantity int
	Sizes    string
	FileName string
	File     io.Reader
}

// PhaseOutcome tracks one workflow phase independently of the other.
type PhaseOutcome struct {
	Attempted bool
	Succeeded bool
	Err       error
}

// SubmissionResult is the per-invocation outcome of the two-phase
// upload-then-notify workflow. It lives only for the duration of one
// Run call and reports each phase on its own, so "artifact saved but
// notification failed" stays distinguishable from "nothing happened".
type SubmissionResult struct {
	ArtifactID string
	Upload     PhaseOutcome
	Notify     PhaseOutcome
}

// Succeeded reports overall success, which requires both phases.
func (r SubmissionResult) Succeeded() bool {
	return r.Upload.Succeeded && r.Notify.Succeeded
}
