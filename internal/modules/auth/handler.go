package auth

import (
	"net/http"

	"github.com/georgemunganga/akistapp-admin/internal/apperr"
	"github.com/georgemunganga/akistapp-admin/internal/httpx"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts login publicly and logout/me behind authenticated,
// which must attach both claims and the principal.
func (h *Handler) RegisterRoutes(router chi.Router, authenticated func(http.Handler) http.Handler) {
	router.Post("/api/v1/auth/login", h.login)
	router.With(authenticated).Post("/api/v1/auth/logout", h.logout)
	router.With(authenticated).Get("/api/v1/me", h.me)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req request
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.Respond(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFrom(r.Context())
	if !ok {
		httpx.Error(w, apperr.ErrUnauthorized)
		return
	}
	if err := h.service.Logout(r.Context(), claims); err != nil {
		httpx.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	u, ok := PrincipalFrom(r.Context())
	if !ok {
		httpx.Error(w, apperr.ErrUnauthorized)
		return
	}
	httpx.Respond(w, http.StatusOK, u)
}
