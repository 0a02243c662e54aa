package inventory

import (
	"context"

	"github.com/georgemunganga/akistapp-admin/internal/modules/catalog"
	"github.com/georgemunganga/akistapp-admin/internal/modules/store"
)

// AdmissionTx is the view of storage an admission runs against. Everything
// done through it commits or rolls back together, and LockStore holds the
// store until then.
type AdmissionTx interface {
	LockStore(ctx context.Context, storeID string) (*store.Store, error)
	GetProduct(ctx context.Context, productID string) (*catalog.Product, error)
	EntryExists(ctx context.Context, storeID, productID string) (bool, error)
	CountEntries(ctx context.Context, storeID string) (int, error)
	CreateEntry(ctx context.Context, e *Entry) error
}

// Repository defines the interface for inventory storage.
type Repository interface {
	// Admit runs fn in one transaction, committing only when fn returns nil.
	Admit(ctx context.Context, fn func(tx AdmissionTx) error) error
	ListByStore(ctx context.Context, storeID string) ([]*Entry, error)
	GetByID(ctx context.Context, id string) (*Entry, error)
	Update(ctx context.Context, e *Entry) error
	Delete(ctx context.Context, storeID, id string) error
	CountByStore(ctx context.Context, storeID string) (int, error)
}
