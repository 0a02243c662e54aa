package user

import "context"

// Service defines the interface for principal management.
type Service interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*User, error)
}

// CreateUserRequest holds the data an admin submits to create a principal.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     Role   `json:"rol"`
	StoreID  string `json:"storeId"`
}

// UpdateUserRequest changes a principal's name, role or store affiliation.
type UpdateUserRequest struct {
	Name    string `json:"name"`
	Role    Role   `json:"rol"`
	StoreID string `json:"storeId"`
}
