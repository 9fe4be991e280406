package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

// Authenticate verifies the HS256 bearer token in the Authorization header
// and stores its claims in the request context.
func Authenticate(secret string) func(http.Handler) http.Handler {
	return authenticate(secret, false)
}

// AuthenticateWebSocket is Authenticate for websocket upgrades. Browsers
// cannot set headers on them, so access_token in the query string is accepted
// when the header is absent.
func AuthenticateWebSocket(secret string) func(http.Handler) http.Handler {
	return authenticate(secret, true)
}

func authenticate(secret string, allowQueryToken bool) func(http.Handler) http.Handler {
	key := []byte(secret)
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := bearerToken(r, allowQueryToken)
			if err != nil {
				unauthorized(w, err.Error())
				return
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(raw, claims, keyFunc)
			if err != nil || !token.Valid {
				unauthorized(w, "invalid or expired token")
				return
			}
			if id, _ := claims[JWTClaimUserID].(string); id == "" {
				unauthorized(w, "token is missing the user id")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request, allowQueryToken bool) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		if allowQueryToken {
			if token := r.URL.Query().Get("access_token"); token != "" {
				return token, nil
			}
		}
		return "", errors.New("authorization header is required")
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errors.New("authorization header must be a bearer token")
	}
	return strings.TrimSpace(token), nil
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   map[string]string{"code": "unauthenticated", "message": message},
	})
}
