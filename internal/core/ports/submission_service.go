package ports

import (
	"context"

	"github.com/gcreations/storefront-agent/internal/core/domain"
)

type SubmissionService interface {
	Run(ctx context.Context, sub domain.DesignSubmission) (domain.SubmissionResult, error)
}
