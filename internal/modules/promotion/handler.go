package promotion

import (
	"net/http"

	"github.com/georgemunganga/akistapp-admin/internal/httpx"
	"github.com/go-chi/chi/v5"
)

type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

// RegisterRoutes mounts the admin CRUD behind admin and the per-store
// listing behind storeAccess.
func (h *Handler) RegisterRoutes(router chi.Router, admin, storeAccess func(http.Handler) http.Handler) {
	a := router.With(admin)
	a.Get("/api/v1/promotions", h.list)
	a.Post("/api/v1/promotions", h.create)
	a.Get("/api/v1/promotions/{id}", h.get)
	a.Put("/api/v1/promotions/{id}", h.update)
	a.Delete("/api/v1/promotions/{id}", h.delete)

	router.With(storeAccess).Get("/api/v1/stores/{store_id}/promotions", h.listForStore)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	promotions, err := h.service.ListPromotions(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, promotions)
}

func (h *Handler) listForStore(w http.ResponseWriter, r *http.Request) {
	promotions, err := h.service.ListStorePromotions(r.Context(), chi.URLParam(r, "store_id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, promotions)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	p, err := h.service.CreatePromotion(r.Context(), req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, p)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetPromotion(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	p, err := h.service.UpdatePromotion(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePromotion(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
