package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gcreations/storefront-agent/internal/api/metrics"
	"github.com/gcreations/storefront-agent/internal/core/domain"
	"github.com/gcreations/storefront-agent/internal/core/ports"
)

// SubmissionHandler runs the upload-then-notify workflow for a design
// submission posted as a multipart form.
type SubmissionHandler struct {
	workflow ports.SubmissionService
}

func NewSubmissionHandler(workflow ports.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{workflow: workflow}
}

// submissionResponse reports each phase on its own: a notify failure
// after a successful upload must not read as "nothing happened".
type submissionResponse struct {
	ArtifactID  string `json:"artifact_id,omitempty"`
	Uploaded    bool   `json:"uploaded"`
	Notified    bool   `json:"notified"`
	NotifyError string `json:"notify_error,omitempty"`
}

func (h *SubmissionHandler) Submit(c echo.Context) error {
	sub, err := bindSubmission(c)
	if err != nil {
		return err
	}
	defer closeDesignFile(sub)

	start := time.Now()
	res, err := h.workflow.Run(c.Request().Context(), sub)
	observe(res, err, time.Since(start))

	if err != nil {
		var we *domain.WorkflowError
		if errors.As(err, &we) && we.Stage == domain.StageNotify {
			// Artifact saved; only the notification failed. The user
			// should retry notification, not resubmit the design.
			return c.JSON(http.StatusCreated, submissionResponse{
				ArtifactID:  res.ArtifactID,
				Uploaded:    true,
				NotifyError: we.Cause.Error(),
			})
		}
		return err
	}

	return c.JSON(http.StatusCreated, submissionResponse{
		ArtifactID: res.ArtifactID,
		Uploaded:   true,
		Notified:   true,
	})
}

func bindSubmission(c echo.Context) (domain.DesignSubmission, error) {
	var sub domain.DesignSubmission

	colors := c.FormValue("colors")
	sizes := c.FormValue("sizes")
	if colors == "" || sizes == "" {
		return sub, echo.NewHTTPError(http.StatusBadRequest, "colors and sizes are required")
	}
	quantity, err := strconv.Atoi(c.FormValue("quantity"))
	if err != nil || quantity <= 0 {
		return sub, echo.NewHTTPError(http.StatusBadRequest, "quantity must be a positive number")
	}

	fh, err := c.FormFile("designFile")
	if err != nil {
		return sub, echo.NewHTTPError(http.StatusBadRequest, "design file is required")
	}
	file, err := fh.Open()
	if err != nil {
		return sub, echo.NewHTTPError(http.StatusBadRequest, "design file unreadable")
	}

	sub = domain.DesignSubmission{
		Colors:   colors,
		Quantity: quantity,
		Sizes:    sizes,
		FileName: fh.Filename,
		File:     file,
	}
	return sub, nil
}

// closeDesignFile releases the opened multipart file handle once the
// workflow is done with it. The form cleanup at request end removes
// temp files but does not close handles opened from them.
func closeDesignFile(sub domain.DesignSubmission) {
	if closer, ok := sub.File.(io.Closer); ok {
		closer.Close()
	}
}

func observe(res domain.SubmissionResult, err error, elapsed time.Duration) {
	// An in-flight rejection refuses before any phase runs; keep it
	// out of the failure count and the duration histogram.
	if errors.Is(err, domain.ErrSubmissionInFlight) {
		metrics.SubmissionsTotal.WithLabelValues("rejected").Inc()
		return
	}

	result := "success"
	if err != nil {
		result = "failure"
		if res.Upload.Succeeded {
			result = "partial"
		}
		var we *domain.WorkflowError
		if errors.As(err, &we) {
			metrics.SubmissionPhaseErrorsTotal.WithLabelValues(we.Stage).Inc()
		}
	}
	metrics.SubmissionsTotal.WithLabelValues(result).Inc()
	metrics.SubmissionDuration.WithLabelValues(result).Observe(elapsed.Seconds())
}
