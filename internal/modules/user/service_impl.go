package user

import (
	"context"
	"log"
	"net/mail"
	"strings"

	"github.com/georgemunganga/akistapp-admin/internal/apperr"
	"github.com/georgemunganga/akistapp-admin/internal/redisx"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// EventPublisher announces profile changes to open sessions.
type EventPublisher interface {
	Publish(ctx context.Context, ev redisx.AuthEvent) error
}

type service struct {
	repo   Repository
	events EventPublisher
}

// NewService creates a new user service.
func NewService(repo Repository, events EventPublisher) Service {
	return &service{repo: repo, events: events}
}

func (s *service) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)

	v := &apperr.ValidationError{}
	if _, err := mail.ParseAddress(email); err != nil {
		v.Add("email", "invalid email address")
	}
	if len(req.Password) < minPasswordLength {
		v.Add("password", "password must be at least 6 characters")
	}
	if name == "" {
		v.Add("name", "name is required")
	}
	if !req.Role.Valid() {
		v.Add("rol", "unknown role")
	}
	validateStoreID(v, req.StoreID)
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:               uuid.New(),
		Email:            email,
		PasswordHash:     string(hashedPassword),
		Name:             name,
		DisplayName:      name,
		FavoriteStoreIDs: []string{},
		Role:             req.Role,
		StoreID:          strings.TrimSpace(req.StoreID),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *service) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*User, error) {
	v := &apperr.ValidationError{}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		v.Add("name", "name is required")
	}
	if !req.Role.Valid() {
		v.Add("rol", "unknown role")
	}
	validateStoreID(v, req.StoreID)
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Name = name
	user.DisplayName = name
	user.Role = req.Role
	user.StoreID = strings.TrimSpace(req.StoreID)
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	if s.events != nil {
		ev := redisx.AuthEvent{PrincipalID: user.ID.String(), Kind: redisx.AuthProfileChanged}
		if err := s.events.Publish(ctx, ev); err != nil {
			log.Printf("user: publish profile change for %s: %v", user.ID, err)
		}
	}
	return user, nil
}

func validateStoreID(v *apperr.ValidationError, storeID string) {
	storeID = strings.TrimSpace(storeID)
	if storeID == "" {
		return
	}
	if _, err := uuid.Parse(storeID); err != nil {
		v.Add("storeId", "invalid store id")
	}
}
