package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gcreations/storefront-agent/internal/core/domain"
)

func TestEmailer_Send(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		w.Write([]byte("OK"))
	}))
	t.Cleanup(srv.Close)

	e := NewEmailer(Config{
		Endpoint:   srv.URL,
		ServiceID:  "service_1",
		TemplateID: "template_1",
		UserID:     "account_1",
	}, zerolog.Nop())

	err := e.Send(context.Background(), map[string]string{"to_name": "Team"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if got.ServiceID != "service_1" || got.TemplateID != "template_1" || got.UserID != "account_1" {
		t.Fatalf("service identifiers not forwarded: %+v", got)
	}
	if got.TemplateParams["to_name"] != "Team" {
		t.Fatalf("params not forwarded: %v", got.TemplateParams)
	}
}

func TestEmailer_SendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("The service ID is invalid"))
	}))
	t.Cleanup(srv.Close)

	e := NewEmailer(Config{Endpoint: srv.URL}, zerolog.Nop())
	err := e.Send(context.Background(), nil)

	var te *domain.TransportError
	if !errors.As(err, &te) || te.Status != http.StatusBadRequest {
		t.Fatalf("expected transport error with status, got %v", err)
	}
	if te.Message != "The service ID is invalid" {
		t.Fatalf("provider detail lost: %q", te.Message)
	}
}

func TestDesignParams(t *testing.T) {
	build := DesignParams("Glorious Creations Team")
	user := domain.User{ID: "u1", Username: "alice", Email: "alice@x.com"}
	sub := domain.DesignSubmission{Colors: "Red, Blue", Quantity: 5, Sizes: "S, M"}

	params := build(user, sub)
	if params["to_name"] != "Glorious Creations Team" {
		t.Fatalf("recipient missing: %v", params)
	}
	if params["from_name"] != "alice" || params["reply_to"] != "alice@x.com" {
		t.Fatalf("sender fields wrong: %v", params)
	}
	details := params["design_details"]
	for _, want := range []string{"Red, Blue", "5", "S, M", "u1"} {
		if !strings.Contains(details, want) {
			t.Fatalf("details missing %q: %q", want, details)
		}
	}
}

func TestDesignParams_AnonymousFallbacks(t *testing.T) {
	params := DesignParams("Team")(domain.User{}, domain.DesignSubmission{})
	if params["from_name"] != "Customer" {
		t.Fatalf("missing username fallback: %v", params)
	}
	if params["from_email"] != fallbackEmail || params["reply_to"] != fallbackEmail {
		t.Fatalf("missing email fallback: %v", params)
	}
}
