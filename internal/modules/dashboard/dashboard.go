// Package dashboard serves the platform-wide counters on the admin landing page.
package dashboard

import (
	"context"
	"fmt"
	"net/http"

	"github.com/georgemunganga/akistapp-admin/internal/httpx"
	"github.com/go-chi/chi/v5"
)

// Stats are the admin landing page counters.
type Stats struct {
	Stores   int `json:"stores"`
	Products int `json:"products"`
	Users    int `json:"users"`
}

// CountFunc counts the records of one collection.
type CountFunc func(ctx context.Context) (int, error)

type Service struct {
	stores   CountFunc
	products CountFunc
	users    CountFunc
}

func NewService(stores, products, users CountFunc) *Service {
	return &Service{stores: stores, products: products, users: users}
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var (
		st  Stats
		err error
	)
	if st.Stores, err = s.stores(ctx); err != nil {
		return Stats{}, fmt.Errorf("count stores: %w", err)
	}
	if st.Products, err = s.products(ctx); err != nil {
		return Stats{}, fmt.Errorf("count products: %w", err)
	}
	if st.Users, err = s.users(ctx); err != nil {
		return Stats{}, fmt.Errorf("count users: %w", err)
	}
	return st, nil
}

type Handler struct{ service *Service }

func NewHandler(service *Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(router chi.Router, admin func(http.Handler) http.Handler) {
	router.With(admin).Get("/api/v1/dashboard/stats", h.stats)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Stats(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, st)
}
