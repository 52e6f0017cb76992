// Package backend is the HTTP transport to the remote storefront REST
// API. One shared Client carries the base endpoint and the bearer
// credential; non-2xx responses and network failures both surface as
// domain.TransportError. The client performs no retries.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gcreations/storefront-agent/internal/core/domain"
	"github.com/gcreations/storefront-agent/internal/core/ports"
)

const (
	defaultTimeout  = 30 * time.Second
	maxResponseBody = 1 << 20
)

// Client is the shared transport. SetCredential/ClearCredential
// implement ports.CredentialCarrier; the session service calls them in
// lockstep with the token store.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger

	mu    sync.RWMutex
	token string

	onUnauthorized func()
}

// Option customises a Client at construction time.
type Option func(*Client)

// WithHTTPClient swaps the underlying *http.Client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnUnauthorized registers the hook invoked when a request that
// carried a bearer credential comes back 401. Unauthenticated calls
// (a failed login, for instance) never trigger it.
func (c *Client) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

func (c *Client) SetCredential(credential string) {
	c.mu.Lock()
	c.token = credential
	c.mu.Unlock()
}

func (c *Client) ClearCredential() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

func (c *Client) credential() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login exchanges credentials for a bearer token and the user fields
// the backend returns alongside it.
func (c *Client) Login(ctx context.Context, username, password string) (*ports.LoginResponse, error) {
	payload := map[string]string{"username": username, "password": password}
	var out loginResponse
	if err := c.postJSON(ctx, "/users/login", payload, &out); err != nil {
		return nil, err
	}
	return &ports.LoginResponse{Token: out.Token, User: out.user()}, nil
}

// Register creates an account and returns the backend's message.
func (c *Client) Register(ctx context.Context, username, email, password string) (string, error) {
	payload := map[string]string{"username": username, "email": email, "password": password}
	var out struct {
		Message string `json:"message"`
	}
	if err := c.postJSON(ctx, "/users/register", payload, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// FetchIdentity resolves the user behind the current credential.
func (c *Client) FetchIdentity(ctx context.Context) (*domain.User, error) {
	req, carried, err := c.newRequest(ctx, http.MethodGet, "/users/me", nil, "")
	if err != nil {
		return nil, err
	}
	var out userFields
	if err := c.do(req, carried, &out); err != nil {
		return nil, err
	}
	user := out.user()
	return &user, nil
}

// UploadDesign posts the multipart design submission and returns the
// artifact id assigned by the backend.
func (c *Client) UploadDesign(ctx context.Context, sub domain.DesignSubmission, userID string) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{
		"colors":   sub.Colors,
		"quantity": strconv.Itoa(sub.Quantity),
		"sizes":    sub.Sizes,
		"userId":   userID,
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return "", fmt.Errorf("write field %s: %w", name, err)
		}
	}

	part, err := mw.CreateFormFile("designFile", sub.FileName)
	if err != nil {
		return "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, sub.File); err != nil {
		return "", fmt.Errorf("copy design file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("finalize form: %w", err)
	}

	req, carried, err := c.newRequest(ctx, http.MethodPost, "/api/designs/upload", &buf, mw.FormDataContentType())
	if err != nil {
		return "", err
	}
	var out struct {
		ID any `json:"id"`
	}
	if err := c.do(req, carried, &out); err != nil {
		return "", err
	}
	return artifactID(out.ID), nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, carried, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(body), "application/json")
	if err != nil {
		return err
	}
	return c.do(req, carried, out)
}

// newRequest builds a request against the base endpoint. The bearer
// header is attached only when a credential is currently set; carried
// reports whether it was.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (req *http.Request, carried bool, err error) {
	req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok := c.credential(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
		carried = true
	}
	return req, carried, nil
}

func (c *Client) do(req *http.Request, carried bool, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return &domain.TransportError{Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode == http.StatusUnauthorized && carried && c.onUnauthorized != nil {
		c.onUnauthorized()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Debug().Int("status", resp.StatusCode).Str("path", req.URL.Path).Msg("backend request failed")
		return &domain.TransportError{Status: resp.StatusCode, Message: extractMessage(body)}
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return &domain.TransportError{Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}

// extractMessage pulls a human-readable reason out of an error body:
// the conventional {"message"} or {"error"} field, else the raw text.
func extractMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return strings.TrimSpace(string(body))
}

// userFields tolerates the id spellings the backend uses across
// endpoints (id, userId, _id).
type userFields struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	MongoID  string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (u userFields) user() domain.User {
	id := u.ID
	if id == "" {
		id = u.UserID
	}
	if id == "" {
		id = u.MongoID
	}
	return domain.User{
		ID:       id,
		Username: u.Username,
		Email:    u.Email,
		Role:     domain.NormalizeRole(u.Role),
	}
}

type loginResponse struct {
	Token string `json:"token"`
	userFields
}

// artifactID renders the backend's id field, numeric or string, as a
// stable string.
func artifactID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return fmt.Sprint(id)
	}
}
