package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"controlling_motor/internal/service"

	"github.com/gin-gonic/gin"
)

// minimal router wiring only the middleware + a protected endpoint
func newMiddlewareOnlyRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(s, nil)
	r.POST("/secure", h.commandAuthMiddleware, func(c *gin.Context) {
		uid, _ := c.Get(ctxUserID)
		c.JSON(http.StatusOK, gin.H{"ok": true, "userId": uid})
	})
	return r
}

func TestCommandAuthMiddleware_Refusals(t *testing.T) {
	cases := []struct {
		name       string
		header     string
		parseErr   error
		verifyErr  error
		wantMsg    string
		wantReason service.AuthFailure
	}{
		{
			name:       "missing header",
			header:     "",
			wantMsg:    errMissingAuth,
			wantReason: service.CredentialsMissing,
		},
		{
			name:       "invalid scheme",
			header:     "Token abc",
			wantMsg:    errAuthFormat,
			wantReason: service.CredentialsInvalid,
		},
		{
			name:       "bearer without token",
			header:     "Bearer",
			wantMsg:    errAuthFormat,
			wantReason: service.CredentialsInvalid,
		},
		{
			name:       "expired/invalid token",
			header:     "Bearer expired",
			parseErr:   errors.New("expired"),
			wantMsg:    errInvalidToken,
			wantReason: service.CredentialsInvalid,
		},
		{
			name:       "basic with bad encoding",
			header:     "Basic !!!",
			wantMsg:    errAuthFormat,
			wantReason: service.CredentialsInvalid,
		},
		{
			name:       "basic with wrong password",
			header:     "Basic YWRtaW46bm9wZQ==", // admin:nope
			verifyErr:  service.ErrInvalidPassword,
			wantMsg:    errInvalidLogin,
			wantReason: service.CredentialsInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &mockAuth{parseErr: tc.parseErr, verifyErr: tc.verifyErr}
			audit := &mockAudit{}
			r := newMiddlewareOnlyRouter(&service.Service{Authorization: auth, Audit: audit})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/secure", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status: got %d, want 401 (body=%s)", w.Code, w.Body.String())
			}
			var out struct {
				Error string `json:"error"`
			}
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			if out.Error != tc.wantMsg {
				t.Fatalf("error message: got %q, want %q", out.Error, tc.wantMsg)
			}
			if len(audit.failures) != 1 || audit.failures[0] != tc.wantReason {
				t.Fatalf("audit: got %v, want [%v]", audit.failures, tc.wantReason)
			}
		})
	}
}

func TestCommandAuthMiddleware_BearerSetsUserID(t *testing.T) {
	auth := &mockAuth{parseID: 123}
	audit := &mockAudit{}
	r := newMiddlewareOnlyRouter(&service.Service{Authorization: auth, Audit: audit})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/secure", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body=%s", w.Code, http.StatusOK, w.Body.String())
	}
	var resp struct {
		OK     bool `json:"ok"`
		UserID int  `json:"userId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.OK || resp.UserID != 123 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if auth.lastParseToken != "good-token" {
		t.Fatalf("ParseToken got %q, want %q", auth.lastParseToken, "good-token")
	}
	if len(audit.failures) != 0 {
		t.Fatalf("accepted request must not be audited: %v", audit.failures)
	}
}

func TestCommandAuthMiddleware_Basic(t *testing.T) {
	auth := &mockAuth{verifyID: 1}
	r := newMiddlewareOnlyRouter(&service.Service{Authorization: auth, Audit: &mockAudit{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/secure", nil)
	req.SetBasicAuth("admin", "admin123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d; body=%s", w.Code, w.Body.String())
	}
	if auth.lastVerifyUsername != "admin" || auth.lastVerifyPassword != "admin123" {
		t.Fatalf("VerifyCredentials got %q/%q", auth.lastVerifyUsername, auth.lastVerifyPassword)
	}
}

func TestCommandAuthMiddleware_NoAuditConfigured(t *testing.T) {
	r := newMiddlewareOnlyRouter(&service.Service{Authorization: &mockAuth{}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/secure", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401", w.Code)
	}
}
