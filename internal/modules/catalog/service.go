package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/georgemunganga/akistapp-admin/internal/apperr"
	"github.com/georgemunganga/akistapp-admin/internal/validate"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Service defines catalog business logic.
type Service interface {
	CreateProduct(ctx context.Context, req ProductRequest) (*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context, f Filter) ([]*Product, error)
	UpdateProduct(ctx context.Context, id string, req ProductRequest) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
	CountProducts(ctx context.Context) (int, error)
}

// ProductRequest holds the data for creating or replacing a catalog product.
type ProductRequest struct {
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Tags        []string `json:"tags"`
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

// NormalizeName is the search key stored next to a product name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func placeholderImage(name string) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/400/400", url.PathEscape(name))
}

func cleanTags(tags []string) []string {
	return lo.Uniq(lo.Compact(lo.Map(tags, func(t string, _ int) string {
		return strings.TrimSpace(t)
	})))
}

func (req *ProductRequest) validate() error {
	req.Name = strings.TrimSpace(req.Name)
	req.Brand = strings.TrimSpace(req.Brand)
	req.Category = strings.TrimSpace(req.Category)
	req.Description = strings.TrimSpace(req.Description)
	req.Image = strings.TrimSpace(req.Image)

	v := &apperr.ValidationError{}
	validate.Required(v, "name", req.Name, "Name is required")
	validate.Required(v, "brand", req.Brand, "Brand is required")
	validate.Required(v, "description", req.Description, "Description is required")
	validate.Required(v, "category", req.Category, "Category is required")
	validate.OptionalURL(v, "image", req.Image)
	return v.OrNil()
}

func (req ProductRequest) applyTo(p *Product) {
	p.Name = req.Name
	p.NormalizedName = NormalizeName(req.Name)
	p.Brand = req.Brand
	p.Category = req.Category
	p.Description = req.Description
	p.Image = req.Image
	if p.Image == "" {
		p.Image = placeholderImage(req.Name)
	}
	p.Tags = cleanTags(req.Tags)
}

func (s *service) CreateProduct(ctx context.Context, req ProductRequest) (*Product, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	p := &Product{ID: uuid.New()}
	req.applyTo(p)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListProducts(ctx context.Context, f Filter) ([]*Product, error) {
	f.Query = NormalizeName(f.Query)
	f.Category = strings.TrimSpace(f.Category)
	return s.repo.List(ctx, f)
}

func (s *service) UpdateProduct(ctx context.Context, id string, req ProductRequest) (*Product, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.applyTo(p)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) CountProducts(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
