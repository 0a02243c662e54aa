package catalog

import (
	"net/http"

	"github.com/georgemunganga/akistapp-admin/internal/httpx"
	"github.com/go-chi/chi/v5"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

// RegisterRoutes mounts reads for any authenticated principal and writes
// behind admin.
func (h *Handler) RegisterRoutes(r chi.Router, admin func(http.Handler) http.Handler) {
	r.Get("/api/v1/catalog/products", h.listProducts)
	r.Get("/api/v1/catalog/products/{id}", h.getProduct)
	r.With(admin).Post("/api/v1/catalog/products", h.createProduct)
	r.With(admin).Put("/api/v1/catalog/products/{id}", h.updateProduct)
	r.With(admin).Delete("/api/v1/catalog/products/{id}", h.deleteProduct)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	f := Filter{
		Query:    r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
	}
	products, err := h.service.ListProducts(r.Context(), f)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, products)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	p, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, p)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	p, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
