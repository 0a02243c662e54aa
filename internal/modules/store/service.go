package store

import (
	"context"

	"github.com/georgemunganga/akistapp-admin/internal/modules/user"
)

// Service defines the interface for store management.
type Service interface {
	CreateStore(ctx context.Context, req StoreRequest) (*Store, error)
	GetStore(ctx context.Context, id string) (*Store, error)
	ListStores(ctx context.Context) ([]*Store, error)
	UpdateStore(ctx context.Context, id string, req StoreRequest) (*Store, error)
	DeleteStore(ctx context.Context, id string) error
	SetStorePlan(ctx context.Context, id string, plan Plan) (PlanLimits, error)
	UpdateMyStore(ctx context.Context, principal *user.User, id string, req SettingsRequest) (*Store, error)
	CountStores(ctx context.Context) (int, error)
}

// StoreRequest is the admin store form. An empty SubscriptionPlan keeps the
// current plan on update and means BASIC on create.
type StoreRequest struct {
	Name             string  `json:"name"`
	City             string  `json:"city"`
	Zipcode          string  `json:"zipcode"`
	Address          string  `json:"address"`
	Phone            string  `json:"phone"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	ImageURL         string  `json:"imageUrl"`
	IsOpen           *bool   `json:"isOpen"`
	SubscriptionPlan Plan    `json:"subscriptionPlan"`
}

// SettingsRequest is what store staff may change about their own store.
type SettingsRequest struct {
	ImageURL *string `json:"imageUrl"`
	IsOpen   *bool   `json:"isOpen"`
}
