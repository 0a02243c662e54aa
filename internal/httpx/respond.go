package httpx

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/georgemunganga/akistapp-admin/internal/apperr"
)

// Respond writes body as JSON with the given status.
func Respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("httpx: encode response: %v", err)
	}
}

// Decode reads a JSON request body into v. Decoding failures become a
// form-level validation error so callers can hand them straight to Error.
func Decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Invalid("_form", "invalid JSON body: "+err.Error())
	}
	return nil
}

// Error maps err onto the response shape of the apperr taxonomy:
// validation errors field-by-field, domain errors as a single message.
func Error(w http.ResponseWriter, err error) {
	var (
		validation *apperr.ValidationError
		notFound   *apperr.NotFoundError
		conflict   *apperr.ConflictError
		quota      *apperr.QuotaExceededError
	)
	switch {
	case errors.As(err, &validation):
		Respond(w, http.StatusUnprocessableEntity, map[string]interface{}{"errors": validation.Fields})
	case errors.As(err, &notFound):
		Respond(w, http.StatusNotFound, map[string]string{"error": notFound.Error()})
	case errors.As(err, &conflict):
		Respond(w, http.StatusConflict, map[string]string{"error": conflict.Error()})
	case errors.As(err, &quota):
		Respond(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error": quota.Error(),
			"limit": quota.Limit,
		})
	case errors.Is(err, apperr.ErrUnauthorized):
		Respond(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	case errors.Is(err, apperr.ErrForbidden):
		Respond(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
	default:
		log.Printf("httpx: internal error: %v", err)
		Respond(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
