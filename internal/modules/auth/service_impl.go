package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/georgemunganga/akistapp-admin/internal/apperr"
	"github.com/georgemunganga/akistapp-admin/internal/modules/user"
	"github.com/georgemunganga/akistapp-admin/internal/redisx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Denylist tracks revoked token ids.
type Denylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// EventPublisher announces sign-in and sign-out to open sessions.
type EventPublisher interface {
	Publish(ctx context.Context, ev redisx.AuthEvent) error
}

type service struct {
	userRepo user.Repository
	denylist Denylist
	events   EventPublisher
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewService creates a new auth service signing HS256 tokens with secret.
func NewService(userRepo user.Repository, denylist Denylist, events EventPublisher, secret string, ttl time.Duration) Service {
	return &service{
		userRepo: userRepo,
		denylist: denylist,
		events:   events,
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
	}
}

var errInvalidCredentials = fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)

func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if apperr.IsNotFound(err) {
			return "", errInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", errInvalidCredentials
	}

	now := s.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	s.publish(ctx, u.ID.String(), claims.ID, redisx.AuthSignedIn)
	return tokenString, nil
}

func (s *service) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", apperr.ErrUnauthorized)
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("token without subject: %w", apperr.ErrUnauthorized)
	}

	if s.denylist != nil {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, fmt.Errorf("token revoked: %w", apperr.ErrUnauthorized)
		}
	}
	return claims, nil
}

func (s *service) Logout(ctx context.Context, claims *Claims) error {
	if claims == nil {
		return apperr.ErrUnauthorized
	}
	if s.denylist != nil {
		var ttl time.Duration
		if claims.ExpiresAt != nil {
			ttl = claims.ExpiresAt.Sub(s.now())
		}
		if err := s.denylist.Revoke(ctx, claims.ID, ttl); err != nil {
			return fmt.Errorf("revoke token: %w", err)
		}
	}
	s.publish(ctx, claims.Subject, claims.ID, redisx.AuthSignedOut)
	return nil
}

func (s *service) publish(ctx context.Context, principalID, tokenID string, kind redisx.AuthEventKind) {
	if s.events == nil {
		return
	}
	err := s.events.Publish(ctx, redisx.AuthEvent{
		PrincipalID: principalID,
		TokenID:     tokenID,
		Kind:        kind,
		OccurredAt:  s.now().UTC(),
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("auth: publish %s for %s: %v", kind, principalID, err)
	}
}
