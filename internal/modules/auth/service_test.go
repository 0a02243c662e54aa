package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/georgemunganga/akistapp-admin/internal/apperr"
	"github.com/georgemunganga/akistapp-admin/internal/modules/user"
	"github.com/georgemunganga/akistapp-admin/internal/redisx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubUsers struct {
	byID map[string]*user.User
}

func newStubUsers(users ...*user.User) *stubUsers {
	s := &stubUsers{byID: map[string]*user.User{}}
	for _, u := range users {
		s.byID[u.ID.String()] = u
	}
	return s
}

func (s *stubUsers) CreateUser(context.Context, *user.User) error { return nil }
func (s *stubUsers) ListUsers(context.Context) ([]*user.User, error) { return nil, nil }
func (s *stubUsers) UpdateUser(context.Context, *user.User) error { return nil }
func (s *stubUsers) CountUsers(context.Context) (int, error) { return len(s.byID), nil }

func (s *stubUsers) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range s.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperr.NotFound("user", email)
}

func (s *stubUsers) GetUserByID(_ context.Context, id string) (*user.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("user", id)
}

type memDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (d *memDenylist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.revoked == nil {
		d.revoked = map[string]time.Duration{}
	}
	d.revoked[jti] = ttl
	return nil
}

func (d *memDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.revoked[jti]
	return ok, nil
}

type recordingEvents struct {
	events []redisx.AuthEvent
}

func (r *recordingEvents) Publish(_ context.Context, ev redisx.AuthEvent) error {
	r.events = append(r.events, ev)
	return nil
}

func newPrincipal(t *testing.T, email, password string, role user.Role) *user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &user.User{ID: uuid.New(), Email: email, PasswordHash: string(hash), Role: role}
}

func TestLoginVerifyLogout(t *testing.T) {
	u := newPrincipal(t, "admin@example.com", "secret1", user.RoleAdmin)
	deny := &memDenylist{}
	events := &recordingEvents{}
	svc := NewService(newStubUsers(u), deny, events, "test-secret", time.Hour)
	ctx := context.Background()

	token, err := svc.Login(ctx, " Admin@Example.com ", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(ctx, token)
	require.NoError(t, err)
	require.Equal(t, u.ID.String(), claims.Subject)
	require.NotEmpty(t, claims.ID)

	require.NoError(t, svc.Logout(ctx, claims))
	require.Contains(t, deny.revoked, claims.ID)

	_, err = svc.Verify(ctx, token)
	require.ErrorIs(t, err, apperr.ErrUnauthorized)

	require.Len(t, events.events, 2)
	require.Equal(t, redisx.AuthSignedIn, events.events[0].Kind)
	require.Equal(t, redisx.AuthSignedOut, events.events[1].Kind)
	require.Equal(t, claims.ID, events.events[0].TokenID)
	require.Equal(t, claims.ID, events.events[1].TokenID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	u := newPrincipal(t, "admin@example.com", "secret1", user.RoleAdmin)
	svc := NewService(newStubUsers(u), nil, nil, "test-secret", time.Hour)

	_, err := svc.Login(context.Background(), "admin@example.com", "wrong")
	require.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = svc.Login(context.Background(), "nobody@example.com", "secret1")
	require.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestVerifyRejectsExpiredAndForeignTokens(t *testing.T) {
	u := newPrincipal(t, "admin@example.com", "secret1", user.RoleAdmin)
	svc := NewService(newStubUsers(u), nil, nil, "test-secret", time.Minute).(*service)

	token, err := svc.Login(context.Background(), "admin@example.com", "secret1")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = svc.Verify(context.Background(), token)
	require.ErrorIs(t, err, apperr.ErrUnauthorized)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   u.ID.String(),
		ID:        uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	signed, err := foreign.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Verify(context.Background(), signed)
	require.ErrorIs(t, err, apperr.ErrUnauthorized)
}
