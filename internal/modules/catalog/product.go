package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Product is an item definition in the global catalog, shared by every store.
type Product struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	NormalizedName string    `json:"normalizedName"`
	Brand          string    `json:"brand"`
	Category       string    `json:"category"`
	Description    string    `json:"description"`
	Image          string    `json:"image"`
	Tags           []string  `json:"tags"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Filter narrows a product listing. Query matches a prefix of the
// normalized name.
type Filter struct {
	Query    string
	Category string
}
