// Package validate holds the field checks shared by the module services.
package validate

import (
	"net/url"
	"strings"

	"github.com/georgemunganga/akistapp-admin/internal/apperr"
	"github.com/google/uuid"
)

// URL reports whether s is an absolute http(s) URL.
func URL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Required adds msg for field when value is blank.
func Required(v *apperr.ValidationError, field, value, msg string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, msg)
	}
}

// OptionalURL adds an error for field unless value is empty or a valid URL.
func OptionalURL(v *apperr.ValidationError, field, value string) {
	if value != "" && !URL(value) {
		v.Add(field, "Must be a valid URL")
	}
}

// ID reports whether s is a well-formed record id.
func ID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
