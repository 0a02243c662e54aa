package live

import (
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/georgemunganga/akistapp-admin/internal/apperr"
	"github.com/georgemunganga/akistapp-admin/internal/httpx"
	"github.com/georgemunganga/akistapp-admin/internal/modules/auth"
	"github.com/georgemunganga/akistapp-admin/internal/modules/user"
	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
)

// Collections that may be watched.
var Collections = []string{"stores", "users", "products", "inventory", "orders", "promotions"}

type Handler struct {
	hub     *Hub
	origins []string
}

func NewHandler(hub *Hub, origins []string) *Handler {
	return &Handler{hub: hub, origins: origins}
}

func (h *Handler) RegisterRoutes(router chi.Router, gate func(http.Handler) http.Handler) {
	router.With(gate).Get("/api/v1/live", h.stream)
}

// filterFor builds the subscription filter a principal is allowed to hold.
// Store roles are pinned to their own store; customers get nothing.
func filterFor(u *user.User, collection, storeID string) (Filter, error) {
	collection = strings.TrimSpace(collection)
	storeID = strings.TrimSpace(storeID)
	if collection != "" && !lo.Contains(Collections, collection) {
		return Filter{}, apperr.Invalid("collection", "unknown collection")
	}
	switch {
	case u.Role == user.RoleAdmin:
	case u.Role.IsStoreRole() && u.StoreID != "":
		if storeID == "" {
			storeID = u.StoreID
		}
		if storeID != u.StoreID {
			return Filter{}, apperr.ErrForbidden
		}
		// the catalog has no store column, its changes are shared
		if collection == "products" {
			storeID = ""
		}
	default:
		return Filter{}, apperr.ErrForbidden
	}
	return Filter{Collection: collection, StoreID: storeID}, nil
}

func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		httpx.Error(w, apperr.ErrUnauthorized)
		return
	}
	q := r.URL.Query()
	f, err := filterFor(u, q.Get("collection"), q.Get("store_id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}

	conn, err := httpx.AcceptWebSocket(w, r, h.origins)
	if err != nil {
		return
	}
	sub := h.hub.Subscribe(f, 64)
	defer sub.Close()

	// clients only listen; CloseRead handles control frames and cancels on close
	ctx := conn.CloseRead(r.Context())
	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "closed")
			return
		case c, ok := <-sub.C:
			if !ok {
				_ = conn.Close(websocket.StatusGoingAway, "shutting down")
				return
			}
			if err := httpx.WriteJSON(ctx, conn, c); err != nil {
				_ = conn.Close(websocket.StatusNormalClosure, "write_failed")
				return
			}
		}
	}
}
