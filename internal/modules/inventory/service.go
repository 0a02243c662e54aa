package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/georgemunganga/akistapp-admin/internal/apperr"
	"github.com/georgemunganga/akistapp-admin/internal/modules/store"
	"github.com/georgemunganga/akistapp-admin/internal/modules/user"
	"github.com/georgemunganga/akistapp-admin/internal/validate"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service defines inventory business logic.
type Service interface {
	// Admit creates an entry for productID in storeID if the store's plan
	// has room for it.
	Admit(ctx context.Context, storeID, productID string) (*Entry, error)
	ListEntries(ctx context.Context, storeID string) ([]*Entry, error)
	Usage(ctx context.Context, storeID string) (Usage, error)
	UpdateEntry(ctx context.Context, principal *user.User, storeID, entryID string, req UpdateEntryRequest) (*Entry, error)
	RemoveEntry(ctx context.Context, storeID, entryID string) error
}

// UpdateEntryRequest carries the editable entry fields. Nil fields are left
// unchanged.
type UpdateEntryRequest struct {
	Price              *decimal.Decimal `json:"price"`
	IsAvailable        *bool            `json:"isAvailable"`
	StoreSpecificImage *string          `json:"storeSpecificImage"`
}

// StoreLookup reads the store a usage figure is measured against.
type StoreLookup interface {
	GetByID(ctx context.Context, id string) (*store.Store, error)
}

var errDuplicate = apperr.Conflict("duplicate", "this product is already in the store")

type service struct {
	repo   Repository
	stores StoreLookup
}

// NewService creates a new inventory service.
func NewService(repo Repository, stores StoreLookup) Service {
	return &service{repo: repo, stores: stores}
}

func globalImage(productID uuid.UUID, image string) string {
	if image != "" {
		return image
	}
	return fmt.Sprintf("https://picsum.photos/seed/%s/400/400", productID)
}

func (s *service) Admit(ctx context.Context, storeID, productID string) (*Entry, error) {
	var entry *Entry
	err := s.repo.Admit(ctx, func(tx AdmissionTx) error {
		st, err := tx.LockStore(ctx, storeID)
		if err != nil {
			return err
		}
		product, err := tx.GetProduct(ctx, productID)
		if err != nil {
			return err
		}

		exists, err := tx.EntryExists(ctx, st.ID.String(), product.ID.String())
		if err != nil {
			return fmt.Errorf("check duplicate entry: %w", err)
		}
		if exists {
			return errDuplicate
		}

		count, err := tx.CountEntries(ctx, st.ID.String())
		if err != nil {
			return fmt.Errorf("count entries: %w", err)
		}
		if count >= st.MaxProducts {
			return apperr.QuotaExceeded(st.MaxProducts, st.Name)
		}

		e := &Entry{
			ID:          uuid.New(),
			StoreID:     st.ID,
			ProductID:   product.ID,
			Price:       decimal.Zero,
			IsAvailable: true,
			Name:        product.Name,
			Brand:       product.Brand,
			Category:    product.Category,
			GlobalImage: globalImage(product.ID, product.Image),
		}
		if err := tx.CreateEntry(ctx, e); err != nil {
			return err
		}
		entry = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) ListEntries(ctx context.Context, storeID string) ([]*Entry, error) {
	return s.repo.ListByStore(ctx, storeID)
}

func (s *service) Usage(ctx context.Context, storeID string) (Usage, error) {
	st, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		return Usage{}, err
	}
	n, err := s.repo.CountByStore(ctx, storeID)
	if err != nil {
		return Usage{}, err
	}
	return Usage{Count: n, MaxProducts: st.MaxProducts}, nil
}

func (s *service) UpdateEntry(ctx context.Context, principal *user.User, storeID, entryID string, req UpdateEntryRequest) (*Entry, error) {
	if principal == nil || !principal.HasStoreAccess(storeID) {
		return nil, apperr.ErrForbidden
	}

	v := &apperr.ValidationError{}
	if req.Price != nil && req.Price.IsNegative() {
		v.Add("price", "price cannot be negative")
	}
	if req.StoreSpecificImage != nil {
		trimmed := strings.TrimSpace(*req.StoreSpecificImage)
		req.StoreSpecificImage = &trimmed
		validate.OptionalURL(v, "storeSpecificImage", trimmed)
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	if req.Price != nil && !principal.CanEditStore() {
		return nil, fmt.Errorf("price edits need a manager: %w", apperr.ErrForbidden)
	}

	e, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if e.StoreID.String() != storeID {
		return nil, apperr.NotFound("inventory entry", entryID)
	}

	if req.Price != nil {
		e.Price = req.Price.Round(2)
	}
	if req.IsAvailable != nil {
		e.IsAvailable = *req.IsAvailable
	}
	if req.StoreSpecificImage != nil {
		e.StoreSpecificImage = *req.StoreSpecificImage
	}
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) RemoveEntry(ctx context.Context, storeID, entryID string) error {
	return s.repo.Delete(ctx, storeID, entryID)
}
