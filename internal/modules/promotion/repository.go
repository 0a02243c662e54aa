package promotion

import "context"

// Repository defines the interface for promotion storage.
type Repository interface {
	Create(ctx context.Context, p *Promotion) error
	GetByID(ctx context.Context, id string) (*Promotion, error)
	List(ctx context.Context) ([]*Promotion, error)
	ListByStore(ctx context.Context, storeID string) ([]*Promotion, error)
	Update(ctx context.Context, p *Promotion) error
	Delete(ctx context.Context, id string) error
}
