package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/georgemunganga/akistapp-admin/internal/apperr"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu       sync.Mutex
	products map[string]*Product
}

func newMemRepo() *memRepo { return &memRepo{products: map[string]*Product{}} }

func (m *memRepo) Create(_ context.Context, p *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.products[p.ID.String()] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, apperr.NotFound("product", id)
	}
	cp := *p
	return &cp, nil
}

func (m *memRepo) List(_ context.Context, f Filter) ([]*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Product
	for _, p := range m.products {
		if f.Query != "" && !strings.HasPrefix(p.NormalizedName, f.Query) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NormalizedName < out[j].NormalizedName })
	return out, nil
}

func (m *memRepo) Update(_ context.Context, p *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID.String()]; !ok {
		return apperr.NotFound("product", p.ID.String())
	}
	cp := *p
	m.products[p.ID.String()] = &cp
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return apperr.NotFound("product", id)
	}
	delete(m.products, id)
	return nil
}

func (m *memRepo) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.products), nil
}

func TestCreateProduct(t *testing.T) {
	svc := NewService(newMemRepo())

	p, err := svc.CreateProduct(context.Background(), ProductRequest{
		Name:        "  Leche Entera ",
		Brand:       "Lala",
		Category:    "Dairy",
		Description: "1L carton",
		Tags:        []string{" milk", "", "dairy ", "milk"},
	})
	require.NoError(t, err)
	require.Equal(t, "Leche Entera", p.Name)
	require.Equal(t, "leche entera", p.NormalizedName)
	require.Equal(t, []string{"milk", "dairy"}, p.Tags)
	require.Equal(t, "https://picsum.photos/seed/Leche%20Entera/400/400", p.Image)
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewService(newMemRepo())

	_, err := svc.CreateProduct(context.Background(), ProductRequest{Image: "nope"})
	var v *apperr.ValidationError
	require.ErrorAs(t, err, &v)
	require.Equal(t, []string{"Name is required"}, v.Fields["name"])
	for _, field := range []string{"brand", "description", "category", "image"} {
		require.Contains(t, v.Fields, field)
	}
}

func TestUpdateProductRenormalizes(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, ProductRequest{Name: "Pan", Brand: "Bimbo", Category: "Bakery", Description: "Loaf"})
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(ctx, p.ID.String(), ProductRequest{
		Name: "Pan Integral", Brand: "Bimbo", Category: "Bakery", Description: "Loaf", Image: "https://img.example.com/pan.jpg",
	})
	require.NoError(t, err)
	require.Equal(t, "pan integral", updated.NormalizedName)
	require.Equal(t, "https://img.example.com/pan.jpg", updated.Image)
	require.Equal(t, []string{}, updated.Tags)

	require.NoError(t, svc.DeleteProduct(ctx, p.ID.String()))
	_, err = svc.GetProduct(ctx, p.ID.String())
	require.True(t, apperr.IsNotFound(err))
}

func TestListProductsHandler(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()
	for _, req := range []ProductRequest{
		{Name: "Leche", Brand: "Lala", Category: "Dairy", Description: "d"},
		{Name: "Lechuga", Brand: "Huerta", Category: "Produce", Description: "d"},
		{Name: "Queso", Brand: "Lala", Category: "Dairy", Description: "d"},
	} {
		_, err := svc.CreateProduct(ctx, req)
		require.NoError(t, err)
	}

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, func(next http.Handler) http.Handler { return next })

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Leche", "Lechuga", "Queso"}},
		{"?q=LEC", []string{"Leche", "Lechuga"}},
		{"?q=lec&category=Dairy", []string{"Leche"}},
		{"?category=Dairy", []string{"Leche", "Queso"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products"+tt.query, nil))
			require.Equal(t, http.StatusOK, rec.Code)

			var got []Product
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			names := make([]string, 0, len(got))
			for _, p := range got {
				names = append(names, p.Name)
			}
			require.Equal(t, tt.want, names)
		})
	}
}
