package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry is a store's listing of a catalog product. Name, Brand, Category
// and GlobalImage are copied from the product when the entry is admitted and
// never follow later catalog edits.
type Entry struct {
	ID                 uuid.UUID       `json:"id"`
	StoreID            uuid.UUID       `json:"storeId"`
	ProductID          uuid.UUID       `json:"productId"`
	Price              decimal.Decimal `json:"price"`
	IsAvailable        bool            `json:"isAvailable"`
	StoreSpecificImage string          `json:"storeSpecificImage,omitempty"`
	Name               string          `json:"name"`
	Brand              string          `json:"brand"`
	Category           string          `json:"category"`
	GlobalImage        string          `json:"globalImage"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// Usage is a store's entry count against its plan quota.
type Usage struct {
	Count       int `json:"count"`
	MaxProducts int `json:"maxProducts"`
}
