package inventory

import (
	"net/http"

	"github.com/georgemunganga/akistapp-admin/internal/apperr"
	"github.com/georgemunganga/akistapp-admin/internal/httpx"
	"github.com/georgemunganga/akistapp-admin/internal/modules/auth"
	"github.com/go-chi/chi/v5"
)

// Handler exposes a store's inventory endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

// RegisterRoutes mounts the inventory endpoints behind storeAccess.
func (h *Handler) RegisterRoutes(router chi.Router, storeAccess func(http.Handler) http.Handler) {
	r := router.With(storeAccess)
	r.Get("/api/v1/stores/{store_id}/inventory", h.listEntries)
	r.Post("/api/v1/stores/{store_id}/inventory", h.admit)
	r.Get("/api/v1/stores/{store_id}/inventory/usage", h.usage)
	r.Patch("/api/v1/stores/{store_id}/inventory/{entry_id}", h.updateEntry)
	r.Delete("/api/v1/stores/{store_id}/inventory/{entry_id}", h.removeEntry)
}

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListEntries(r.Context(), chi.URLParam(r, "store_id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, entries)
}

func (h *Handler) admit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	if req.ProductID == "" {
		httpx.Error(w, apperr.Invalid("productId", "productId is required"))
		return
	}

	e, err := h.service.Admit(r.Context(), chi.URLParam(r, "store_id"), req.ProductID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, e)
}

func (h *Handler) usage(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.Usage(r.Context(), chi.URLParam(r, "store_id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, u)
}

func (h *Handler) updateEntry(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		httpx.Error(w, apperr.ErrUnauthorized)
		return
	}
	var req UpdateEntryRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	e, err := h.service.UpdateEntry(r.Context(), principal,
		chi.URLParam(r, "store_id"), chi.URLParam(r, "entry_id"), req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, e)
}

func (h *Handler) removeEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveEntry(r.Context(), chi.URLParam(r, "store_id"), chi.URLParam(r, "entry_id")); err != nil {
		httpx.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
