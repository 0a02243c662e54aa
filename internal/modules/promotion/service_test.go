package promotion

import (
	"context"
	"sync"
	"testing"

	"github.com/georgemunganga/akistapp-admin/internal/apperr"
	"github.com/georgemunganga/akistapp-admin/internal/modules/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu         sync.Mutex
	promotions map[string]*Promotion
}

func (m *memRepo) Create(_ context.Context, p *Promotion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.promotions[p.ID.String()] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Promotion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.promotions[id]
	if !ok {
		return nil, apperr.NotFound("promotion", id)
	}
	cp := *p
	return &cp, nil
}

func (m *memRepo) List(ctx context.Context) ([]*Promotion, error) {
	return m.ListByStore(ctx, "")
}

func (m *memRepo) ListByStore(_ context.Context, storeID string) ([]*Promotion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Promotion
	for _, p := range m.promotions {
		if storeID == "" || p.StoreID.String() == storeID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memRepo) Update(_ context.Context, p *Promotion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.promotions[p.ID.String()] = &cp
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.promotions[id]; !ok {
		return apperr.NotFound("promotion", id)
	}
	delete(m.promotions, id)
	return nil
}

type stores map[string]*store.Store

func (s stores) GetByID(_ context.Context, id string) (*store.Store, error) {
	st, ok := s[id]
	if !ok {
		return nil, apperr.NotFound("store", id)
	}
	cp := *st
	return &cp, nil
}

func TestPromotionDenormalizesStore(t *testing.T) {
	north := &store.Store{ID: uuid.New(), Name: "Norte", Zipcode: "64000"}
	south := &store.Store{ID: uuid.New(), Name: "Sur", Zipcode: "64900"}
	svc := NewService(&memRepo{promotions: map[string]*Promotion{}}, stores{
		north.ID.String(): north,
		south.ID.String(): south,
	})
	ctx := context.Background()

	p, err := svc.CreatePromotion(ctx, Request{Title: "2x1", Content: "Martes", StoreID: north.ID.String(), IsActive: true})
	require.NoError(t, err)
	require.Equal(t, "Norte", p.StoreName)
	require.Equal(t, "64000", p.CityID)
	require.Equal(t, "promotion", p.Type)
	require.Equal(t, "https://picsum.photos/seed/2x1/600/300", p.ImageURL)

	p, err = svc.UpdatePromotion(ctx, p.ID.String(), Request{Title: "2x1", Content: "Martes", StoreID: south.ID.String()})
	require.NoError(t, err)
	require.Equal(t, south.ID, p.StoreID)
	require.Equal(t, "Sur", p.StoreName)
	require.Equal(t, "64900", p.CityID)
	require.False(t, p.IsActive)

	listed, err := svc.ListStorePromotions(ctx, south.ID.String())
	require.NoError(t, err)
	require.Len(t, listed, 1)

	_, err = svc.CreatePromotion(ctx, Request{Title: "x", Content: "y", StoreID: uuid.NewString()})
	require.True(t, apperr.IsNotFound(err))

	_, err = svc.CreatePromotion(ctx, Request{ImageURL: "bad"})
	var v *apperr.ValidationError
	require.ErrorAs(t, err, &v)
	for _, field := range []string{"title", "content", "imageUrl", "storeId"} {
		require.Contains(t, v.Fields, field)
	}
}
