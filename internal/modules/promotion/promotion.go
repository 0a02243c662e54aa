package promotion

import (
	"time"

	"github.com/google/uuid"
)

// Promotion is an announcement shown to customers of one store. StoreName
// and CityID are copied from the store on every write.
type Promotion struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl"`
	StoreID   uuid.UUID `json:"storeId"`
	StoreName string    `json:"storeName"`
	CityID    string    `json:"cityId"`
	Type      string    `json:"type"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

const typePromotion = "promotion"

// Request is the admin promotion form.
type Request struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
	StoreID  string `json:"storeId"`
	IsActive bool   `json:"isActive"`
}
