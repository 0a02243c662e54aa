package order

import (
	"net/http"

	"github.com/georgemunganga/akistapp-admin/internal/httpx"
	"github.com/go-chi/chi/v5"
)

// Handler exposes a store's order endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

// RegisterRoutes mounts the order endpoints behind storeAccess.
func (h *Handler) RegisterRoutes(router chi.Router, storeAccess func(http.Handler) http.Handler) {
	r := router.With(storeAccess)
	r.Get("/api/v1/stores/{store_id}/orders", h.listOrders)
	r.Get("/api/v1/stores/{store_id}/orders/{order_id}", h.getOrder)
	r.Patch("/api/v1/stores/{store_id}/orders/{order_id}/status", h.updateStatus)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListStoreOrders(r.Context(), chi.URLParam(r, "store_id"), r.URL.Query().Get("status"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "store_id"), chi.URLParam(r, "order_id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, o)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	o, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "store_id"), chi.URLParam(r, "order_id"), req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, o)
}
