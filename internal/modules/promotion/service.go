package promotion

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/georgemunganga/akistapp-admin/internal/apperr"
	"github.com/georgemunganga/akistapp-admin/internal/modules/store"
	"github.com/georgemunganga/akistapp-admin/internal/validate"
	"github.com/google/uuid"
)

// Service defines promotion management.
type Service interface {
	CreatePromotion(ctx context.Context, req Request) (*Promotion, error)
	GetPromotion(ctx context.Context, id string) (*Promotion, error)
	ListPromotions(ctx context.Context) ([]*Promotion, error)
	ListStorePromotions(ctx context.Context, storeID string) ([]*Promotion, error)
	UpdatePromotion(ctx context.Context, id string, req Request) (*Promotion, error)
	DeletePromotion(ctx context.Context, id string) error
}

// StoreLookup resolves the store a promotion belongs to.
type StoreLookup interface {
	GetByID(ctx context.Context, id string) (*store.Store, error)
}

type service struct {
	repo   Repository
	stores StoreLookup
}

func NewService(repo Repository, stores StoreLookup) Service {
	return &service{repo: repo, stores: stores}
}

func placeholderImage(title string) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/600/300", url.PathEscape(title))
}

func (req *Request) validate() error {
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	req.ImageURL = strings.TrimSpace(req.ImageURL)
	req.StoreID = strings.TrimSpace(req.StoreID)

	v := &apperr.ValidationError{}
	validate.Required(v, "title", req.Title, "Title is required")
	validate.Required(v, "content", req.Content, "Content is required")
	validate.OptionalURL(v, "imageUrl", req.ImageURL)
	validate.Required(v, "storeId", req.StoreID, "A store must be selected")
	return v.OrNil()
}

// fill copies the form and the referenced store's name and zipcode into p.
func (s *service) fill(ctx context.Context, p *Promotion, req Request) error {
	st, err := s.stores.GetByID(ctx, req.StoreID)
	if err != nil {
		return err
	}
	p.Title = req.Title
	p.Content = req.Content
	p.ImageURL = req.ImageURL
	if p.ImageURL == "" {
		p.ImageURL = placeholderImage(req.Title)
	}
	p.StoreID = st.ID
	p.StoreName = st.Name
	p.CityID = st.Zipcode
	p.IsActive = req.IsActive
	return nil
}

func (s *service) CreatePromotion(ctx context.Context, req Request) (*Promotion, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	p := &Promotion{ID: uuid.New(), Type: typePromotion}
	if err := s.fill(ctx, p, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create promotion: %w", err)
	}
	return p, nil
}

func (s *service) GetPromotion(ctx context.Context, id string) (*Promotion, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListPromotions(ctx context.Context) ([]*Promotion, error) {
	return s.repo.List(ctx)
}

func (s *service) ListStorePromotions(ctx context.Context, storeID string) ([]*Promotion, error) {
	return s.repo.ListByStore(ctx, storeID)
}

func (s *service) UpdatePromotion(ctx context.Context, id string, req Request) (*Promotion, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.fill(ctx, p, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) DeletePromotion(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
