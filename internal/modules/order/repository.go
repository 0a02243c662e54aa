package order

import "context"

// Repository defines the interface for order data storage.
type Repository interface {
	ListByStore(ctx context.Context, storeID string, status Status) ([]*Order, error)
	GetByID(ctx context.Context, storeID, id string) (*Order, error)
	// UpdateStatus moves the order from one status to another and fails with
	// a conflict if the order is no longer in from.
	UpdateStatus(ctx context.Context, storeID, id string, from, to Status) error
}
