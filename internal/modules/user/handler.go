package user

import (
	"net/http"

	"github.com/georgemunganga/akistapp-admin/internal/httpx"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the user endpoints. gate restricts them to admins.
func (h *Handler) RegisterRoutes(router chi.Router, gate func(http.Handler) http.Handler) {
	r := router.With(gate)
	r.Get("/api/v1/users", h.listUsers)
	r.Post("/api/v1/users", h.createUser)
	r.Get("/api/v1/users/{id}", h.getUser)
	r.Put("/api/v1/users/{id}", h.updateUser)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	user, err := h.service.CreateUser(r.Context(), req)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.Respond(w, http.StatusCreated, user)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusOK, users)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.Respond(w, http.StatusOK, user)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	user, err := h.service.UpdateUser(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.Respond(w, http.StatusOK, user)
}
