package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
	Verify(ctx context.Context, token string) (*Claims, error)
	Logout(ctx context.Context, claims *Claims) error
}

// Claims are the JWT claims issued on login. Subject is the principal id and
// ID is the token id used for revocation.
type Claims struct {
	jwt.RegisteredClaims
}
