package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/georgemunganga/akistapp-admin/internal/modules/auth"
	"github.com/georgemunganga/akistapp-admin/internal/modules/user"
	"github.com/georgemunganga/akistapp-admin/internal/redisx"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

type chanEvents struct{ ch chan redisx.AuthEvent }

func (c *chanEvents) Subscribe(context.Context, string) (<-chan redisx.AuthEvent, error) {
	return c.ch, nil
}

func TestStreamHonorsOnlyItsOwnRevocation(t *testing.T) {
	manager := principal(user.RoleStoreManager, "s1")
	loader := &profiles{users: map[string]user.User{}}
	loader.put(manager)
	events := &chanEvents{ch: make(chan redisx.AuthEvent, 8)}

	claims := &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: manager.ID.String(), ID: "tok-a"}}
	withClaims := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
	router := chi.NewRouter()
	NewHandler(loader, events, nil).RegisterRoutes(router, withClaims, withClaims)
	srv := httptest.NewServer(router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/api/v1/session/stream?path=/store/s1", nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	storeArea := Decision{Area: Area{Kind: StoreArea, StoreID: "s1"}, TargetPath: "/store/s1"}
	next := func() Decision {
		var d Decision
		require.NoError(t, wsjson.Read(ctx, conn, &d))
		return d
	}
	require.Equal(t, storeArea, next())

	// another device signing out or in leaves this session alone
	events.ch <- redisx.AuthEvent{PrincipalID: claims.Subject, Kind: redisx.AuthSignedOut, TokenID: "tok-b"}
	require.Equal(t, storeArea, next())
	events.ch <- redisx.AuthEvent{PrincipalID: claims.Subject, Kind: redisx.AuthSignedIn, TokenID: "tok-c"}
	require.Equal(t, storeArea, next())

	// revoking this token ends the stream at the login page
	events.ch <- redisx.AuthEvent{PrincipalID: claims.Subject, Kind: redisx.AuthSignedOut, TokenID: "tok-a"}
	require.Equal(t, Decision{Area: Area{Kind: LoginOnly}, TargetPath: "/login", Redirect: true}, next())

	events.ch <- redisx.AuthEvent{PrincipalID: claims.Subject, Kind: redisx.AuthSignedIn, TokenID: "tok-d"}
	var d Decision
	err = wsjson.Read(ctx, conn, &d)
	require.Error(t, err)
	require.Equal(t, websocket.StatusNormalClosure, websocket.CloseStatus(err))
}
