package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const userContextKey contextKey = "user"

// JWT claim names shared with the token issuer in handlers.
const (
	JWTClaimUserID = "user_id"
	JWTClaimName   = "name"
)

func GetUserIDFromContext(ctx context.Context) (string, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return "", errors.New("user claims not found in context or invalid type")
	}

	userIDClaim, ok := claims[JWTClaimUserID]
	if !ok {
		return "", fmt.Errorf("missing '%s' claim in token", JWTClaimUserID)
	}
	userID, ok := userIDClaim.(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("invalid type for '%s' claim: expected non-empty string, got %T", JWTClaimUserID, userIDClaim)
	}
	return userID, nil
}

// WithUserID returns a context carrying userID as if it had been read from a
// verified token.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userContextKey, jwt.MapClaims{JWTClaimUserID: userID})
}
