package store

import "context"

// Repository defines the interface for store data storage.
type Repository interface {
	Create(ctx context.Context, s *Store) error
	GetByID(ctx context.Context, id string) (*Store, error)
	List(ctx context.Context) ([]*Store, error)
	Update(ctx context.Context, s *Store) error
	UpdatePlan(ctx context.Context, id string, plan Plan, limits PlanLimits) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
