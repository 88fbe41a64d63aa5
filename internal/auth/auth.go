// Package auth handles session tokens, the request-scoped identity, and
// permission checks for restricted operations.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hmans/threads/internal/model"
)

var (
	// ErrUnauthenticated is returned when an operation requires a
	// signed-in actor and the request carries no valid session.
	ErrUnauthenticated = errors.New("you must be logged in to do that")

	// ErrForbidden is returned when the actor is signed in but lacks
	// the permissions (or ownership) the operation requires.
	ErrForbidden = errors.New("you don't have permission to do that")
)

// Claims is the payload carried inside a session token.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// SignToken issues a session token for the given user id.
func SignToken(userID, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: userID})
	return token.SignedString([]byte(secret))
}

// VerifyToken parses a session token and returns the user id it names.
func VerifyToken(tokenString, secret string) (string, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid session token")
	}
	return claims.UserID, nil
}

// HasPermission returns ErrForbidden unless the user's permission set
// intersects the allowed list.
func HasPermission(user *model.User, allowed ...model.Permission) error {
	if user == nil {
		return ErrUnauthenticated
	}
	for _, want := range allowed {
		if user.Permissions.Has(want) {
			return nil
		}
	}
	return ErrForbidden
}
