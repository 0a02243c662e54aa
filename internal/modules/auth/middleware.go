package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/georgemunganga/akistapp-admin/internal/apperr"
	"github.com/georgemunganga/akistapp-admin/internal/httpx"
	"github.com/georgemunganga/akistapp-admin/internal/modules/user"
	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
)

type ctxKey int

const (
	claimsKey ctxKey = iota
	principalKey
)

// Verifier checks a raw token and returns its claims.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// ProfileLoader fetches the principal record behind a token subject.
type ProfileLoader interface {
	GetUserByID(ctx context.Context, id string) (*user.User, error)
}

func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok && c != nil
}

func WithPrincipal(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, principalKey, u)
}

func PrincipalFrom(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(principalKey).(*user.User)
	return u, ok && u != nil
}

// bearerToken reads "Authorization: Bearer <token>", falling back to the
// access_token query parameter that browser WebSocket clients have to use.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return r.URL.Query().Get("access_token")
}

// Authenticate rejects requests without a valid token.
func Authenticate(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				httpx.Error(w, apperr.ErrUnauthorized)
				return
			}
			claims, err := v.Verify(r.Context(), token)
			if err != nil {
				httpx.Error(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuthenticate attaches claims when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalAuthenticate(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := bearerToken(r); token != "" {
				if claims, err := v.Verify(r.Context(), token); err == nil {
					r = r.WithContext(WithClaims(r.Context(), claims))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoadPrincipal resolves the token subject to its profile. A missing profile
// is treated as unauthenticated.
func LoadPrincipal(loader ProfileLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFrom(r.Context())
			if !ok {
				httpx.Error(w, apperr.ErrUnauthorized)
				return
			}
			u, err := loader.GetUserByID(r.Context(), claims.Subject)
			if err != nil {
				if apperr.IsNotFound(err) {
					httpx.Error(w, apperr.ErrUnauthorized)
					return
				}
				httpx.Error(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), u)))
		})
	}
}

// RequireRole admits principals holding one of roles.
func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := PrincipalFrom(r.Context())
			if !ok {
				httpx.Error(w, apperr.ErrUnauthorized)
				return
			}
			if !lo.Contains(roles, u.Role) {
				httpx.Error(w, apperr.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireStoreAccess admits admins and the store roles affiliated with the
// store named by the URL parameter param.
func RequireStoreAccess(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := PrincipalFrom(r.Context())
			if !ok {
				httpx.Error(w, apperr.ErrUnauthorized)
				return
			}
			if !u.HasStoreAccess(chi.URLParam(r, param)) {
				httpx.Error(w, apperr.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
