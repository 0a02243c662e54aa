package store

import (
	"net/http"

	"github.com/georgemunganga/akistapp-admin/internal/apperr"
	"github.com/georgemunganga/akistapp-admin/internal/httpx"
	"github.com/georgemunganga/akistapp-admin/internal/modules/auth"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the store endpoints on an authenticated router.
// admin admits administrators only; storeAccess admits anyone allowed into
// the {store_id} panel.
func (h *Handler) RegisterRoutes(router chi.Router, admin, storeAccess func(http.Handler) http.Handler) {
	router.With(admin).Get("/api/v1/stores", h.listStores)
	router.With(admin).Post("/api/v1/stores", h.createStore)
	router.With(storeAccess).Get("/api/v1/stores/{store_id}", h.getStore)
	router.With(admin).Put("/api/v1/stores/{store_id}", h.updateStore)
	router.With(admin).Delete("/api/v1/stores/{store_id}", h.deleteStore)
	router.With(admin).Put("/api/v1/stores/{store_id}/plan", h.setPlan)
	router.With(storeAccess).Patch("/api/v1/stores/{store_id}/settings", h.updateSettings)
}

func (h *Handler) listStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.service.ListStores(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, stores)
}

func (h *Handler) createStore(w http.ResponseWriter, r *http.Request) {
	var req StoreRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	st, err := h.service.CreateStore(r.Context(), req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, st)
}

func (h *Handler) getStore(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.GetStore(r.Context(), chi.URLParam(r, "store_id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, st)
}

func (h *Handler) updateStore(w http.ResponseWriter, r *http.Request) {
	var req StoreRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	st, err := h.service.UpdateStore(r.Context(), chi.URLParam(r, "store_id"), req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, st)
}

func (h *Handler) deleteStore(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteStore(r.Context(), chi.URLParam(r, "store_id")); err != nil {
		httpx.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setPlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SubscriptionPlan Plan `json:"subscriptionPlan"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	limits, err := h.service.SetStorePlan(r.Context(), chi.URLParam(r, "store_id"), req.SubscriptionPlan)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, limits)
}

func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		httpx.Error(w, apperr.ErrUnauthorized)
		return
	}
	var req SettingsRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	st, err := h.service.UpdateMyStore(r.Context(), principal, chi.URLParam(r, "store_id"), req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, st)
}
