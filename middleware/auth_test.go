package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestAuthenticate(t *testing.T) {
	var gotUserID string
	handler := Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetUserIDFromContext(r.Context())
		if err != nil {
			t.Errorf("GetUserIDFromContext: %v", err)
		}
		gotUserID = id
		w.WriteHeader(http.StatusNoContent)
	}))

	valid := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
		JWTClaimUserID: "user-1",
		"exp":          time.Now().Add(time.Hour).Unix(),
	})
	expired := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
		JWTClaimUserID: "user-1",
		"exp":          time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := signToken(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{JWTClaimUserID: "user-1"})
	noUser := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"name": "x"})
	numericUser := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{JWTClaimUserID: 42})

	tests := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{"query token ignored", "", "?access_token=" + valid, http.StatusUnauthorized},
		{"valid token", "Bearer " + valid, "", http.StatusNoContent},
		{"lowercase scheme", "bearer " + valid, "", http.StatusNoContent},
		{"missing header", "", "", http.StatusUnauthorized},
		{"basic scheme", "Basic abc", "", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, "", http.StatusUnauthorized},
		{"wrong key", "Bearer " + wrongKey, "", http.StatusUnauthorized},
		{"no user id", "Bearer " + noUser, "", http.StatusUnauthorized},
		{"numeric user id", "Bearer " + numericUser, "", http.StatusUnauthorized},
		{"garbage", "Bearer not.a.token", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUserID = ""
			req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if tt.status == http.StatusNoContent && gotUserID != "user-1" {
				t.Errorf("user id = %q", gotUserID)
			}
		})
	}
}

func TestAuthenticateWebSocket(t *testing.T) {
	handler := AuthenticateWebSocket(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, err := GetUserIDFromContext(r.Context()); err != nil || id != "user-1" {
			t.Errorf("user id = %q, %v", id, err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	valid := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
		JWTClaimUserID: "user-1",
		"exp":          time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{"query token", "", "?access_token=" + valid, http.StatusNoContent},
		{"header token", "Bearer " + valid, "", http.StatusNoContent},
		{"header wins over query", "Basic abc", "?access_token=" + valid, http.StatusUnauthorized},
		{"bad query token", "", "?access_token=garbage", http.StatusUnauthorized},
		{"no token", "", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestGetUserIDFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := GetUserIDFromContext(req.Context()); err == nil {
		t.Error("expected error without claims")
	}
	id, err := GetUserIDFromContext(WithUserID(req.Context(), "abc"))
	if err != nil || id != "abc" {
		t.Errorf("got %q, %v", id, err)
	}
}
