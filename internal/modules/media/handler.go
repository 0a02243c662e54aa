package media

import (
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/georgemunganga/akistapp-admin/internal/apperr"
	"github.com/georgemunganga/akistapp-admin/internal/httpx"
	"github.com/go-chi/chi/v5"
)

const maxImageBytes = 10 << 20

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the image endpoints behind gate.
func (h *Handler) RegisterRoutes(router chi.Router, gate func(http.Handler) http.Handler) {
	r := router.With(gate)
	r.Post("/api/v1/media/images", h.upload)
	r.Delete("/api/v1/media/images", h.destroy)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.Error(w, apperr.Invalid("file", "an image file is required"))
		return
	}
	defer file.Close()

	sniff := make([]byte, 512)
	n, err := io.ReadFull(file, sniff)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		httpx.Error(w, apperr.Invalid("file", "could not read the upload"))
		return
	}
	if !strings.HasPrefix(http.DetectContentType(sniff[:n]), "image/") {
		httpx.Error(w, apperr.Invalid("file", "only images can be uploaded"))
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		httpx.Error(w, err)
		return
	}

	asset, err := h.store.Upload(r.Context(), file, header.Filename)
	if err != nil {
		log.Println("media: upload error:", err)
		httpx.Error(w, err)
		return
	}
	httpx.Respond(w, http.StatusCreated, asset)
}

func (h *Handler) destroy(w http.ResponseWriter, r *http.Request) {
	publicID := strings.TrimSpace(r.URL.Query().Get("publicId"))
	if publicID == "" {
		httpx.Error(w, apperr.Invalid("publicId", "publicId is required"))
		return
	}
	if err := h.store.Destroy(r.Context(), publicID); err != nil {
		httpx.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
