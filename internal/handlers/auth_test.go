package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"controlling_motor/internal/service"
)

type ctxKey string

// errorMessage returns the "error" field of a JSON error body.
func errorMessage(t *testing.T, body []byte) string {
	t.Helper()
	var m map[string]string
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatalf("decode error body %q: %v", body, err)
	}
	return m["error"]
}

func postWithContext(ctx context.Context, r http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandlers_SignUpAndSignIn(t *testing.T) {
	auth := &mockAuth{signUpID: 42, genTokenToken: "tok123", parseID: 1}
	s := &service.Service{Authorization: auth}
	r := newTestRouter(s)

	// sign-up success
	body := bytes.NewBufferString(`{"username":"u","password":"p"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/sign-up", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("sign-up status=%d, body=%s", w.Code, w.Body.String())
	}
	var m map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if int(m["id"].(float64)) != 42 {
		t.Fatalf("expected id=42, got %v", m["id"])
	}

	// sign-in success
	body = bytes.NewBufferString(`{"username":"u","password":"p"}`)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/sign-in", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("sign-in status=%d, body=%s", w.Code, w.Body.String())
	}
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["token"] != "tok123" {
		t.Fatalf("expected token tok123, got %v", m["token"])
	}

	// sign-in invalid body → 400
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/sign-in", bytes.NewBufferString(`{"username":1}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", w.Code)
	}
	if msg := errorMessage(t, w.Body.Bytes()); !strings.HasPrefix(msg, errInvalidBodyPref) {
		t.Fatalf("expected %q prefix, got %q", errInvalidBodyPref, msg)
	}
}

func TestAuthHandlers_PassRequestContext(t *testing.T) {
	auth := &mockAuth{signUpID: 7, genTokenToken: "tok"}
	r := newTestRouter(&service.Service{Authorization: auth})
	ctx := context.WithValue(context.Background(), ctxKey("req"), "sign-up")

	w := postWithContext(ctx, r, "/auth/sign-up", `{"username":"op","password":"secret"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("sign-up status=%d body=%s", w.Code, w.Body.String())
	}
	if auth.lastCtx == nil || auth.lastCtx.Value(ctxKey("req")) != "sign-up" {
		t.Fatal("sign-up did not receive the request context")
	}
	if auth.lastSignUpUsername != "op" || auth.lastSignUpPassword != "secret" {
		t.Fatalf("credentials not forwarded: %q/%q", auth.lastSignUpUsername, auth.lastSignUpPassword)
	}

	ctx = context.WithValue(context.Background(), ctxKey("req"), "sign-in")
	w = postWithContext(ctx, r, "/auth/sign-in", `{"username":"op","password":"secret"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("sign-in status=%d body=%s", w.Code, w.Body.String())
	}
	if auth.lastCtx.Value(ctxKey("req")) != "sign-in" {
		t.Fatal("sign-in did not receive the request context")
	}
	if auth.lastGenUsername != "op" || auth.lastGenPassword != "secret" {
		t.Fatalf("credentials not forwarded: %q/%q", auth.lastGenUsername, auth.lastGenPassword)
	}
}

func TestAuthHandlers_Failures(t *testing.T) {
	auth := &mockAuth{
		signUpErr:   errors.New("username taken"),
		genTokenErr: service.ErrInvalidPassword,
	}
	r := newTestRouter(&service.Service{Authorization: auth})
	ctx := context.Background()

	w := postWithContext(ctx, r, "/auth/sign-up", `{"username":"op","password":"x"}`)
	if w.Code != http.StatusBadRequest || errorMessage(t, w.Body.Bytes()) != "username taken" {
		t.Fatalf("sign-up failure: code=%d body=%s", w.Code, w.Body.String())
	}

	w = postWithContext(ctx, r, "/auth/sign-in", `{"username":"op","password":"x"}`)
	if w.Code != http.StatusUnauthorized || errorMessage(t, w.Body.Bytes()) != "invalid credentials" {
		t.Fatalf("sign-in failure: code=%d body=%s", w.Code, w.Body.String())
	}

	// missing password fails binding before the service is called
	auth.lastGenUsername = ""
	w = postWithContext(ctx, r, "/auth/sign-in", `{"username":"op"}`)
	if w.Code != http.StatusBadRequest || !strings.HasPrefix(errorMessage(t, w.Body.Bytes()), errInvalidBodyPref) {
		t.Fatalf("missing password: code=%d body=%s", w.Code, w.Body.String())
	}
	if auth.lastGenUsername != "" {
		t.Fatal("service called for an invalid body")
	}
}
