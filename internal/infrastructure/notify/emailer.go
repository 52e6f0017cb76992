// Package notify adapts the third-party email-send service behind the
// Notifier port. The provider's wire protocol is treated as an opaque
// send call: one POST, an ack or an error.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/gcreations/storefront-agent/internal/core/domain"
)

const sendTimeout = 15 * time.Second

// Config identifies the email service, template and account used for
// design-submission notifications.
type Config struct {
	Endpoint   string
	ServiceID  string
	TemplateID string
	UserID     string
}

// Emailer sends notifications through an EmailJS-style HTTP API.
type Emailer struct {
	cfg  Config
	http *http.Client
	log  zerolog.Logger
}

func NewEmailer(cfg Config, log zerolog.Logger) *Emailer {
	return &Emailer{
		cfg:  cfg,
		http: &http.Client{Timeout: sendTimeout},
		log:  log,
	}
}

type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

func (e *Emailer) Send(ctx context.Context, params map[string]string) error {
	body, err := json.Marshal(sendRequest{
		ServiceID:      e.cfg.ServiceID,
		TemplateID:     e.cfg.TemplateID,
		UserID:         e.cfg.UserID,
		TemplateParams: params,
	})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.http.Do(req)
	if err != nil {
		return &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &domain.TransportError{Status: resp.StatusCode, Message: string(bytes.TrimSpace(detail))}
	}

	e.log.Debug().Msg("notification sent")
	return nil
}
