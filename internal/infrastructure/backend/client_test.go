package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gcreations/storefront-agent/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, zerolog.Nop()), srv
}

func TestClient_BearerAttachedOnlyWhenSet(t *testing.T) {
	var got []string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":"u1","username":"alice","role":"customer"}`))
	}))

	if _, err := c.FetchIdentity(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	c.SetCredential("tok-1")
	if _, err := c.FetchIdentity(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	c.ClearCredential()
	if _, err := c.FetchIdentity(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	want := []string{"", "Bearer tok-1", ""}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("request %d Authorization = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestClient_UnauthorizedHookOnlyWithCredential(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid token"}`))
	}))
	fired := 0
	c.OnUnauthorized(func() { fired++ })

	// 401 on a credential-less call (failed login) must not fire.
	if _, err := c.Login(context.Background(), "alice", "Wrong1!"); err == nil {
		t.Fatalf("expected error")
	}
	if fired != 0 {
		t.Fatalf("hook fired for unauthenticated request")
	}

	c.SetCredential("stale")
	_, err := c.FetchIdentity(context.Background())
	var te *domain.TransportError
	if !errors.As(err, &te) || te.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 transport error, got %v", err)
	}
	if fired != 1 {
		t.Fatalf("hook fired %d times, want 1", fired)
	}
}

func TestClient_NonOKSurfacesMessage(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"Username already taken"}`))
	}))

	_, err := c.Register(context.Background(), "bob", "bob@x.com", "Secret1!")
	var te *domain.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if te.Status != http.StatusConflict || te.Message != "Username already taken" {
		t.Fatalf("unexpected error detail: %+v", te)
	}
}

func TestClient_NetworkErrorHasNoStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := New(srv.URL, zerolog.Nop())

	_, err := c.FetchIdentity(context.Background())
	var te *domain.TransportError
	if !errors.As(err, &te) || te.Status != 0 || te.Err == nil {
		t.Fatalf("expected network-level transport error, got %v", err)
	}
}

func TestClient_Login(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/login" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("unexpected content type %q", ct)
		}
		w.Write([]byte(`{"token":"tok-9","userId":"u1","username":"alice","email":"alice@x.com","role":"CUSTOMER"}`))
	}))

	resp, err := c.Login(context.Background(), "alice", "Secret1!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Token != "tok-9" {
		t.Fatalf("token not parsed: %+v", resp)
	}
	if resp.User.ID != "u1" || resp.User.Role != domain.RoleCustomer {
		t.Fatalf("user fields not normalized: %+v", resp.User)
	}
}

func TestClient_UploadDesign(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/designs/upload" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		for field, want := range map[string]string{
			"colors":   "red, blue",
			"quantity": "3",
			"sizes":    "S, M",
			"userId":   "u1",
		} {
			if got := r.FormValue(field); got != want {
				t.Fatalf("field %s = %q, want %q", field, got, want)
			}
		}
		file, header, err := r.FormFile("designFile")
		if err != nil {
			t.Fatalf("design file missing: %v", err)
		}
		defer file.Close()
		if header.Filename != "logo.png" {
			t.Fatalf("unexpected filename %q", header.Filename)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":42}`))
	}))
	c.SetCredential("tok-1")

	sub := domain.DesignSubmission{
		Colors:   "red, blue",
		Quantity: 3,
		Sizes:    "S, M",
		FileName: "logo.png",
		File:     strings.NewReader("png-bytes"),
	}
	id, err := c.UploadDesign(context.Background(), sub, "u1")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if id != "42" {
		t.Fatalf("numeric artifact id not rendered as string: %q", id)
	}
}

func TestArtifactID(t *testing.T) {
	if got := artifactID("abc"); got != "abc" {
		t.Fatalf("string id mangled: %q", got)
	}
	if got := artifactID(float64(42)); got != "42" {
		t.Fatalf("numeric id mangled: %q", got)
	}
	if got := artifactID(nil); got != "" {
		t.Fatalf("nil id should be empty, got %q", got)
	}
}
