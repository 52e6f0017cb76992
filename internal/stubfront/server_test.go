package stubfront

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newStubServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := New(Config{JWTSecret: "test-secret"}, NewUserStore(), zerolog.Nop())
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp, out
}

func registerAndLogin(t *testing.T, base string) (token string, userID string) {
	t.Helper()
	resp, _ := postJSON(t, base+"/users/register", `{"username":"alice","email":"alice@x.com","password":"Secret1!"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d", resp.StatusCode)
	}
	resp, body := postJSON(t, base+"/users/login", `{"username":"alice","password":"Secret1!"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	token, _ = body["token"].(string)
	userID, _ = body["id"].(string)
	if token == "" || userID == "" {
		t.Fatalf("login response incomplete: %v", body)
	}
	return token, userID
}

func TestStubfront_RegisterLoginMe(t *testing.T) {
	srv := newStubServer(t)
	token, userID := registerAndLogin(t, srv.URL)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me status = %d", resp.StatusCode)
	}
	var me map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me["id"] != userID || me["username"] != "alice" || me["role"] != "customer" {
		t.Fatalf("unexpected identity: %v", me)
	}
}

func TestStubfront_SeededAdminLoginAndIdentity(t *testing.T) {
	s := New(Config{
		JWTSecret:     "test-secret",
		AdminUsername: "admin",
		AdminPassword: "admin-secret",
	}, NewUserStore(), zerolog.Nop())
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)

	resp, body := postJSON(t, srv.URL+"/users/login", `{"username":"admin","password":"admin-secret"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin login status = %d", resp.StatusCode)
	}
	if body["role"] != "admin" {
		t.Fatalf("login role = %v, want admin", body["role"])
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("admin login returned no token")
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	meResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	defer meResp.Body.Close()
	var me map[string]any
	if err := json.NewDecoder(meResp.Body).Decode(&me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me["role"] != "admin" || me["username"] != "admin" {
		t.Fatalf("unexpected admin identity: %v", me)
	}
}

func TestStubfront_RegistrationAlwaysCreatesCustomers(t *testing.T) {
	s := New(Config{
		JWTSecret:     "test-secret",
		AdminUsername: "admin",
		AdminPassword: "admin-secret",
	}, NewUserStore(), zerolog.Nop())
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)

	resp, _ := postJSON(t, srv.URL+"/users/register", `{"username":"bob","email":"bob@x.com","password":"Secret1!"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d", resp.StatusCode)
	}
	resp, body := postJSON(t, srv.URL+"/users/login", `{"username":"bob","password":"Secret1!"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	if body["role"] != "customer" {
		t.Fatalf("registered role = %v, want customer", body["role"])
	}
}

func TestStubfront_DuplicateRegistrationConflicts(t *testing.T) {
	srv := newStubServer(t)
	registerAndLogin(t, srv.URL)

	resp, body := postJSON(t, srv.URL+"/users/register", `{"username":"alice","email":"other@x.com","password":"Other1!"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate register status = %d, want 409", resp.StatusCode)
	}
	if msg, _ := body["message"].(string); !strings.Contains(msg, "taken") {
		t.Fatalf("conflict message missing: %v", body)
	}
}

func TestStubfront_WrongPasswordRejected(t *testing.T) {
	srv := newStubServer(t)
	registerAndLogin(t, srv.URL)

	resp, body := postJSON(t, srv.URL+"/users/login", `{"username":"alice","password":"Wrong1!"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("login status = %d, want 401", resp.StatusCode)
	}
	if msg, _ := body["message"].(string); msg != "Invalid username or password" {
		t.Fatalf("unexpected message: %v", body)
	}
}

func TestStubfront_MeRequiresToken(t *testing.T) {
	srv := newStubServer(t)

	resp, err := http.Get(srv.URL + "/users/me")
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("me without token status = %d, want 401", resp.StatusCode)
	}
}

func TestStubfront_Upload(t *testing.T) {
	srv := newStubServer(t)
	token, userID := registerAndLogin(t, srv.URL)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for field, value := range map[string]string{
		"colors": "red", "quantity": "2", "sizes": "M", "userId": userID,
	} {
		mw.WriteField(field, value)
	}
	part, _ := mw.CreateFormFile("designFile", "logo.png")
	io.WriteString(part, "png-bytes")
	mw.Close()

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/designs/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload status = %d, want 201", resp.StatusCode)
	}
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if id, _ := out["id"].(string); id == "" {
		t.Fatalf("artifact id missing: %v", out)
	}
	if out["userId"] != userID {
		t.Fatalf("userId not echoed: %v", out)
	}
}

func TestStubfront_UploadRequiresToken(t *testing.T) {
	srv := newStubServer(t)

	resp, err := http.Post(srv.URL+"/api/designs/upload", "multipart/form-data", nil)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("upload without token status = %d, want 401", resp.StatusCode)
	}
}
