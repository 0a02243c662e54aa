package inventory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/georgemunganga/akistapp-admin/internal/apperr"
	"github.com/georgemunganga/akistapp-admin/internal/modules/catalog"
	"github.com/georgemunganga/akistapp-admin/internal/modules/store"
	"github.com/georgemunganga/akistapp-admin/internal/modules/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// memRepo runs every admission under one lock, which gives the same
// per-store serialization the row lock gives in PostgreSQL.
type memRepo struct {
	admitMu  sync.Mutex
	mu       sync.Mutex
	stores   map[string]*store.Store
	products map[string]*catalog.Product
	entries  map[string]*Entry
}

func newMemRepo() *memRepo {
	return &memRepo{
		stores:   map[string]*store.Store{},
		products: map[string]*catalog.Product{},
		entries:  map[string]*Entry{},
	}
}

func (m *memRepo) addStore(plan store.Plan) *store.Store {
	st := &store.Store{ID: uuid.New(), Name: "Tienda " + string(plan)}
	st.SetPlan(plan)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stores[st.ID.String()] = st
	return st
}

func (m *memRepo) addProduct(name, image string) *catalog.Product {
	p := &catalog.Product{ID: uuid.New(), Name: name, Brand: "Brand", Category: "Cat", Image: image}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID.String()] = p
	return p
}

func (m *memRepo) Admit(_ context.Context, fn func(tx AdmissionTx) error) error {
	m.admitMu.Lock()
	defer m.admitMu.Unlock()
	tx := &memTx{repo: m}
	if err := fn(tx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range tx.pending {
		m.entries[e.ID.String()] = e
	}
	return nil
}

type memTx struct {
	repo    *memRepo
	pending []*Entry
}

func (t *memTx) LockStore(_ context.Context, storeID string) (*store.Store, error) {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	st, ok := t.repo.stores[storeID]
	if !ok {
		return nil, apperr.NotFound("store", storeID)
	}
	cp := *st
	return &cp, nil
}

func (t *memTx) GetProduct(_ context.Context, productID string) (*catalog.Product, error) {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	p, ok := t.repo.products[productID]
	if !ok {
		return nil, apperr.NotFound("product", productID)
	}
	cp := *p
	return &cp, nil
}

func (t *memTx) EntryExists(_ context.Context, storeID, productID string) (bool, error) {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	for _, e := range t.repo.entries {
		if e.StoreID.String() == storeID && e.ProductID.String() == productID {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) CountEntries(ctx context.Context, storeID string) (int, error) {
	return t.repo.CountByStore(ctx, storeID)
}

func (t *memTx) CreateEntry(_ context.Context, e *Entry) error {
	cp := *e
	t.pending = append(t.pending, &cp)
	return nil
}

func (m *memRepo) ListByStore(_ context.Context, storeID string) ([]*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Entry
	for _, e := range m.entries {
		if e.StoreID.String() == storeID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, apperr.NotFound("inventory entry", id)
	}
	cp := *e
	return &cp, nil
}

func (m *memRepo) Update(_ context.Context, e *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.entries[e.ID.String()] = &cp
	return nil
}

func (m *memRepo) Delete(_ context.Context, storeID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok || e.StoreID.String() != storeID {
		return apperr.NotFound("inventory entry", id)
	}
	delete(m.entries, id)
	return nil
}

func (m *memRepo) CountByStore(_ context.Context, storeID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.entries {
		if e.StoreID.String() == storeID {
			n++
		}
	}
	return n, nil
}

type storeLookup struct{ repo *memRepo }

func (s storeLookup) GetByID(_ context.Context, id string) (*store.Store, error) {
	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()
	st, ok := s.repo.stores[id]
	if !ok {
		return nil, apperr.NotFound("store", id)
	}
	cp := *st
	return &cp, nil
}

func newTestService() (*memRepo, Service) {
	repo := newMemRepo()
	return repo, NewService(repo, storeLookup{repo: repo})
}

func TestAdmitSnapshotsProduct(t *testing.T) {
	repo, svc := newTestService()
	st := repo.addStore(store.PlanBasic)
	withImage := repo.addProduct("Leche", "https://img.example.com/leche.png")
	noImage := repo.addProduct("Pan", "")
	ctx := context.Background()

	e, err := svc.Admit(ctx, st.ID.String(), withImage.ID.String())
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, e.ID)
	require.True(t, e.Price.IsZero())
	require.True(t, e.IsAvailable)
	require.Equal(t, "Leche", e.Name)
	require.Equal(t, "https://img.example.com/leche.png", e.GlobalImage)

	e2, err := svc.Admit(ctx, st.ID.String(), noImage.ID.String())
	require.NoError(t, err)
	require.Equal(t, fmt.Sprintf("https://picsum.photos/seed/%s/400/400", noImage.ID), e2.GlobalImage)

	// Later catalog edits do not reach existing entries.
	repo.mu.Lock()
	repo.products[withImage.ID.String()].Name = "Leche Deslactosada"
	repo.mu.Unlock()
	stored, err := repo.GetByID(ctx, e.ID.String())
	require.NoError(t, err)
	require.Equal(t, "Leche", stored.Name)
}

func TestAdmitDuplicate(t *testing.T) {
	repo, svc := newTestService()
	st := repo.addStore(store.PlanBasic)
	p := repo.addProduct("Leche", "")
	ctx := context.Background()

	_, err := svc.Admit(ctx, st.ID.String(), p.ID.String())
	require.NoError(t, err)

	_, err = svc.Admit(ctx, st.ID.String(), p.ID.String())
	require.True(t, apperr.IsConflict(err))

	n, _ := repo.CountByStore(ctx, st.ID.String())
	require.Equal(t, 1, n)
}

func TestAdmitQuota(t *testing.T) {
	repo, svc := newTestService()
	st := repo.addStore(store.PlanBasic)
	ctx := context.Background()

	for i := 0; i < st.MaxProducts; i++ {
		p := repo.addProduct(fmt.Sprintf("p%d", i), "")
		_, err := svc.Admit(ctx, st.ID.String(), p.ID.String())
		require.NoError(t, err, "admission %d", i+1)
	}

	extra := repo.addProduct("one too many", "")
	_, err := svc.Admit(ctx, st.ID.String(), extra.ID.String())
	var quota *apperr.QuotaExceededError
	require.ErrorAs(t, err, &quota)
	require.Equal(t, 20, quota.Limit)
	require.Equal(t, st.Name, quota.StoreName)

	usage, err := svc.Usage(ctx, st.ID.String())
	require.NoError(t, err)
	require.Equal(t, Usage{Count: 20, MaxProducts: 20}, usage)
}

func TestAdmitCheckOrder(t *testing.T) {
	repo, svc := newTestService()
	st := repo.addStore(store.PlanBasic)
	p := repo.addProduct("Leche", "")
	ctx := context.Background()

	_, err := svc.Admit(ctx, uuid.NewString(), uuid.NewString())
	var nf *apperr.NotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, "store", nf.Resource)

	_, err = svc.Admit(ctx, st.ID.String(), uuid.NewString())
	require.ErrorAs(t, err, &nf)
	require.Equal(t, "product", nf.Resource)

	// Duplicate is reported before the quota, even on a full store.
	_, err = svc.Admit(ctx, st.ID.String(), p.ID.String())
	require.NoError(t, err)
	repo.mu.Lock()
	repo.stores[st.ID.String()].MaxProducts = 1
	repo.mu.Unlock()
	_, err = svc.Admit(ctx, st.ID.String(), p.ID.String())
	require.True(t, apperr.IsConflict(err))
}

func TestConcurrentAdmissionsRespectQuota(t *testing.T) {
	repo, svc := newTestService()
	st := repo.addStore(store.PlanBasic)
	ctx := context.Background()

	const attempts = 50
	products := make([]*catalog.Product, attempts)
	for i := range products {
		products[i] = repo.addProduct(fmt.Sprintf("p%d", i), "")
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
		rejected int
	)
	for _, p := range products {
		wg.Add(1)
		go func(productID string) {
			defer wg.Done()
			_, err := svc.Admit(ctx, st.ID.String(), productID)
			mu.Lock()
			defer mu.Unlock()
			var quota *apperr.QuotaExceededError
			switch {
			case err == nil:
				admitted++
			case errors.As(err, &quota):
				rejected++
			}
		}(p.ID.String())
	}
	wg.Wait()

	require.Equal(t, 20, admitted)
	require.Equal(t, attempts-20, rejected)
}

func TestUpdateEntry(t *testing.T) {
	repo, svc := newTestService()
	st := repo.addStore(store.PlanStandard)
	other := repo.addStore(store.PlanStandard)
	p := repo.addProduct("Leche", "")
	ctx := context.Background()

	e, err := svc.Admit(ctx, st.ID.String(), p.ID.String())
	require.NoError(t, err)

	manager := &user.User{ID: uuid.New(), Role: user.RoleStoreManager, StoreID: st.ID.String()}
	employee := &user.User{ID: uuid.New(), Role: user.RoleStoreEmployee, StoreID: st.ID.String()}
	admin := &user.User{ID: uuid.New(), Role: user.RoleAdmin}

	price := decimal.RequireFromString("12.499")
	updated, err := svc.UpdateEntry(ctx, manager, st.ID.String(), e.ID.String(), UpdateEntryRequest{Price: &price})
	require.NoError(t, err)
	require.Equal(t, "12.5", updated.Price.String())

	_, err = svc.UpdateEntry(ctx, employee, st.ID.String(), e.ID.String(), UpdateEntryRequest{Price: &price})
	require.ErrorIs(t, err, apperr.ErrForbidden)

	unavailable := false
	updated, err = svc.UpdateEntry(ctx, employee, st.ID.String(), e.ID.String(), UpdateEntryRequest{IsAvailable: &unavailable})
	require.NoError(t, err)
	require.False(t, updated.IsAvailable)
	require.Equal(t, "12.5", updated.Price.String())

	negative := decimal.NewFromInt(-1)
	badImage := "not-a-url"
	_, err = svc.UpdateEntry(ctx, admin, st.ID.String(), e.ID.String(), UpdateEntryRequest{Price: &negative, StoreSpecificImage: &badImage})
	var v *apperr.ValidationError
	require.ErrorAs(t, err, &v)
	require.Contains(t, v.Fields, "price")
	require.Contains(t, v.Fields, "storeSpecificImage")

	_, err = svc.UpdateEntry(ctx, admin, other.ID.String(), e.ID.String(), UpdateEntryRequest{IsAvailable: &unavailable})
	require.True(t, apperr.IsNotFound(err))

	require.True(t, apperr.IsNotFound(svc.RemoveEntry(ctx, other.ID.String(), e.ID.String())))
	require.NoError(t, svc.RemoveEntry(ctx, st.ID.String(), e.ID.String()))
}
