package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"contacthub/backend/internal/audit"
	identityservice "contacthub/backend/internal/identity/service"
	"contacthub/backend/internal/security"
	"contacthub/backend/internal/user/domain"
)

type memUserRepo struct {
	byID map[string]*domain.User
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.byID[id], nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func newTestAuth(t *testing.T) (*Auth, *security.TokenProvider, *memUserRepo) {
	t.Helper()
	tokens := security.NewTestTokenProvider()
	repo := &memUserRepo{byID: map[string]*domain.User{
		"user-1": {ID: "user-1", Email: "alice@example.com", Active: true},
		"root-1": {ID: "root-1", Email: "root@example.com", Active: true, Superuser: true},
	}}
	svc := identityservice.NewAuthService(repo, security.NewHasher(4), tokens, audit.Nop())
	return NewAuth(svc, zap.NewNop()), tokens, repo
}

func okHandler(t *testing.T, wantUserID string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := GetUser(r.Context())
		if !ok {
			t.Error("user missing from context")
		} else if u.ID != wantUserID {
			t.Errorf("user ID = %q, want %q", u.ID, wantUserID)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRequire_ValidToken(t *testing.T) {
	auth, tokens, _ := newTestAuth(t)
	token, _, err := tokens.IssueAccess("user-1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	h := auth.Require(domain.PrivilegeOrdinary)(okHandler(t, "user-1"))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204; body %s", rec.Code, rec.Body.String())
	}
}

func TestRequire_MissingOrMalformedHeader(t *testing.T) {
	auth, _, _ := newTestAuth(t)
	h := auth.Require(domain.PrivilegeOrdinary)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer   "} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", header, rec.Code)
		}
		if rec.Header().Get("WWW-Authenticate") != "Bearer" {
			t.Errorf("header %q: missing WWW-Authenticate", header)
		}
		if !strings.Contains(rec.Body.String(), "detail") {
			t.Errorf("header %q: body %s", header, rec.Body.String())
		}
	}
}

func TestRequire_GarbageToken(t *testing.T) {
	auth, _, _ := newTestAuth(t)
	h := auth.Require(domain.PrivilegeOrdinary)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequire_ElevatedPrivilege(t *testing.T) {
	auth, tokens, _ := newTestAuth(t)

	ordinary, _, err := tokens.IssueAccess("user-1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	elevated, _, err := tokens.IssueAccess("root-1")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	h := auth.Require(domain.PrivilegeElevated)(okHandler(t, "root-1"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+ordinary)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("ordinary caller: status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+elevated)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("superuser caller: status = %d, want 204", rec.Code)
	}
}

func TestExtractBearer(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"BEARER abc", "abc"},
		{"  Bearer abc  ", "abc"},
		{"Bearerabc", ""},
		{"Basic abc", ""},
		{"", ""},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		if got := extractBearer(req); got != tc.want {
			t.Errorf("extractBearer(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	if _, ok := GetUser(ctx); ok {
		t.Error("GetUser on empty context should report false")
	}
	if ip := GetClientIP(ctx); ip != "" {
		t.Errorf("GetClientIP on empty context = %q", ip)
	}

	u := &domain.User{ID: "user-1"}
	ctx = WithUser(ctx, u)
	got, ok := GetUser(ctx)
	if !ok || got.ID != "user-1" {
		t.Errorf("GetUser = %+v, %v", got, ok)
	}

	ctx = WithClientIP(ctx, "203.0.113.9")
	if ip := GetClientIP(ctx); ip != "203.0.113.9" {
		t.Errorf("GetClientIP = %q", ip)
	}
}

func TestClientIP(t *testing.T) {
	cases := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"socket address", "203.0.113.9:51234", nil, "203.0.113.9"},
		{"x-real-ip", "10.0.0.1:80", map[string]string{"X-Real-IP": "198.51.100.7"}, "198.51.100.7"},
		{"x-forwarded-for first hop", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "198.51.100.7, 10.0.0.2"}, "198.51.100.7"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got string
			h := ClientIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = GetClientIP(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got != tc.want {
				t.Errorf("client IP = %q, want %q", got, tc.want)
			}
		})
	}
}
