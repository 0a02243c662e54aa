package session

import (
	"context"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/georgemunganga/akistapp-admin/internal/apperr"
	"github.com/georgemunganga/akistapp-admin/internal/httpx"
	"github.com/georgemunganga/akistapp-admin/internal/modules/auth"
	"github.com/georgemunganga/akistapp-admin/internal/redisx"
	"github.com/go-chi/chi/v5"
	"github.com/samber/mo"
)

// EventSource delivers a principal's auth events until ctx ends.
type EventSource interface {
	Subscribe(ctx context.Context, principalID string) (<-chan redisx.AuthEvent, error)
}

type Handler struct {
	loader  ProfileLoader
	events  EventSource
	origins []string
}

func NewHandler(loader ProfileLoader, events EventSource, origins []string) *Handler {
	return &Handler{loader: loader, events: events, origins: origins}
}

// RegisterRoutes mounts the resolver behind optional and the stream behind
// required authentication.
func (h *Handler) RegisterRoutes(router chi.Router, optional, required func(http.Handler) http.Handler) {
	router.With(optional).Get("/api/v1/session/resolve", h.resolve)
	router.With(required).Get("/api/v1/session/stream", h.stream)
}

func authIdentity(ctx context.Context) mo.Option[string] {
	if claims, ok := auth.ClaimsFrom(ctx); ok {
		return mo.Some(claims.Subject)
	}
	return mo.None[string]()
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	t := NewTracker(h.loader, r.URL.Query().Get("path"))
	httpx.Respond(w, http.StatusOK, t.OnAuthChange(r.Context(), authIdentity(r.Context())))
}

type navigation struct {
	Path string `json:"path"`
}

func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		httpx.Error(w, apperr.ErrUnauthorized)
		return
	}

	conn, err := httpx.AcceptWebSocket(w, r, h.origins)
	if err != nil {
		return
	}
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	events, err := h.events.Subscribe(ctx, claims.Subject)
	if err != nil {
		_ = conn.Close(websocket.StatusInternalError, "auth events unavailable")
		return
	}

	t := NewTracker(h.loader, r.URL.Query().Get("path"))
	if err := httpx.WriteJSON(ctx, conn, t.OnAuthChange(ctx, mo.Some(claims.Subject))); err != nil {
		_ = conn.Close(websocket.StatusNormalClosure, "write_failed")
		return
	}

	navs := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		for {
			var msg navigation
			if err := wsjson.Read(ctx, conn, &msg); err != nil {
				readErr <- err
				return
			}
			select {
			case navs <- msg.Path:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		var (
			d       Decision
			revoked bool
		)
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "closed")
			return
		case <-readErr:
			_ = conn.Close(websocket.StatusNormalClosure, "closed")
			return
		case p := <-navs:
			d = t.Navigate(p)
		case ev, ok := <-events:
			if !ok {
				_ = conn.Close(websocket.StatusNormalClosure, "closed")
				return
			}
			var identity mo.Option[string]
			identity, revoked = identityAfter(ev, claims)
			d = t.OnAuthChange(ctx, identity)
		}
		if err := httpx.WriteJSON(ctx, conn, d); err != nil {
			_ = conn.Close(websocket.StatusNormalClosure, "write_failed")
			return
		}
		// a revoked stream never regains a grant
		if revoked {
			_ = conn.Close(websocket.StatusNormalClosure, "signed_out")
			return
		}
	}
}

// identityAfter is the auth identity a stream authenticated by claims holds
// once ev has happened. Events are per principal, so only the sign-out of
// this stream's own token revokes it; sign-ins and sign-outs of other tokens
// leave the identity as is.
func identityAfter(ev redisx.AuthEvent, claims *auth.Claims) (identity mo.Option[string], revoked bool) {
	if ev.Kind == redisx.AuthSignedOut && ev.TokenID == claims.ID {
		return mo.None[string](), true
	}
	return mo.Some(claims.Subject), false
}
