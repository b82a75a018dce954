package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Nerzal/gocloak/v13"

	"github.com/homegraph/hub/internal/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	k := NewKeycloakMiddleware(config.KeycloakConfig{URL: "http://127.0.0.1:1", Realm: "homegraph"})

	rec := httptest.NewRecorder()
	k.Authenticate(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/readings", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["type"] != "authentication" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestRequireRoles(t *testing.T) {
	k := NewKeycloakMiddleware(config.KeycloakConfig{})
	h := k.RequireRoles([]string{"writer"})(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), userContextKey, &UserContext{Roles: []string{"reader"}}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for missing role, got %d", rec.Code)
	}

	req = req.WithContext(context.WithValue(req.Context(), userContextKey, &UserContext{Roles: []string{"writer"}}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected pass-through, got %d", rec.Code)
	}
}

func TestExtractToken(t *testing.T) {
	cases := map[string]string{
		"":               "",
		"Bearer abc":     "abc",
		"bearer abc":     "abc",
		"Basic dXNlcg==": "",
		"Bearer":         "",
		"Bearer a b":     "",
	}
	for header, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		if got := extractToken(req); got != want {
			t.Errorf("extractToken(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestCreateUserContext(t *testing.T) {
	user := createUserContext(&gocloak.UserInfo{
		Sub:               gocloak.StringP("u-1"),
		PreferredUsername: gocloak.StringP("sam"),
	}, []*gocloak.Role{{Name: gocloak.StringP("writer")}, nil})

	if user.ID != "u-1" || user.Username != "sam" || user.Email != "" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if len(user.Roles) != 1 || user.Roles[0] != "writer" {
		t.Fatalf("unexpected roles: %v", user.Roles)
	}
	if !hasRequiredRoles(user.Roles, []string{"*"}) || hasRequiredRoles(nil, []string{"writer"}) {
		t.Fatalf("role check mismatch")
	}
}
