package store

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/georgemunganga/akistapp-admin/internal/apperr"
	"github.com/georgemunganga/akistapp-admin/internal/modules/user"
	"github.com/georgemunganga/akistapp-admin/internal/validate"
	"github.com/google/uuid"
)

type service struct {
	repo Repository
}

// NewService creates a new store service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func placeholderImage(name string) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/100/100", url.PathEscape(name))
}

func (req *StoreRequest) normalize() {
	req.Name = strings.TrimSpace(req.Name)
	req.City = strings.TrimSpace(req.City)
	req.Zipcode = strings.TrimSpace(req.Zipcode)
	req.Address = strings.TrimSpace(req.Address)
	req.Phone = strings.TrimSpace(req.Phone)
	req.ImageURL = strings.TrimSpace(req.ImageURL)
}

func (req *StoreRequest) validate() error {
	v := &apperr.ValidationError{}
	validate.Required(v, "name", req.Name, "Name is required")
	validate.Required(v, "city", req.City, "City is required")
	validate.Required(v, "zipcode", req.Zipcode, "Zipcode is required")
	validate.Required(v, "address", req.Address, "Address is required")
	validate.Required(v, "phone", req.Phone, "Phone is required")
	validate.OptionalURL(v, "imageUrl", req.ImageURL)
	if req.Latitude < -90 || req.Latitude > 90 {
		v.Add("latitude", "Latitude must be between -90 and 90")
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		v.Add("longitude", "Longitude must be between -180 and 180")
	}
	if req.SubscriptionPlan != "" && !req.SubscriptionPlan.Valid() {
		v.Add("subscriptionPlan", "unknown subscription plan")
	}
	return v.OrNil()
}

func (s *service) CreateStore(ctx context.Context, req StoreRequest) (*Store, error) {
	req.normalize()
	if err := req.validate(); err != nil {
		return nil, err
	}

	st := &Store{
		ID:        uuid.New(),
		Name:      req.Name,
		City:      req.City,
		Zipcode:   req.Zipcode,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Phone:     req.Phone,
		ImageURL:  req.ImageURL,
		IsOpen:    true,
	}
	if st.ImageURL == "" {
		st.ImageURL = placeholderImage(st.Name)
	}
	if req.IsOpen != nil {
		st.IsOpen = *req.IsOpen
	}
	plan := req.SubscriptionPlan
	if plan == "" {
		plan = PlanBasic
	}
	st.SetPlan(plan)

	if err := s.repo.Create(ctx, st); err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}
	return st, nil
}

func (s *service) GetStore(ctx context.Context, id string) (*Store, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListStores(ctx context.Context) ([]*Store, error) {
	return s.repo.List(ctx)
}

func (s *service) UpdateStore(ctx context.Context, id string, req StoreRequest) (*Store, error) {
	req.normalize()
	if err := req.validate(); err != nil {
		return nil, err
	}

	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	st.Name = req.Name
	st.City = req.City
	st.Zipcode = req.Zipcode
	st.Address = req.Address
	st.Latitude = req.Latitude
	st.Longitude = req.Longitude
	st.Phone = req.Phone
	st.ImageURL = req.ImageURL
	if st.ImageURL == "" {
		st.ImageURL = placeholderImage(st.Name)
	}
	if req.IsOpen != nil {
		st.IsOpen = *req.IsOpen
	}
	if req.SubscriptionPlan != "" {
		st.SetPlan(req.SubscriptionPlan)
	} else {
		// Rows written before a plan change still get consistent limits.
		st.SetPlan(st.SubscriptionPlan)
	}

	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *service) DeleteStore(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// SetStorePlan sets plan on the store and overwrites its derived fields,
// whatever values they held before.
func (s *service) SetStorePlan(ctx context.Context, id string, plan Plan) (PlanLimits, error) {
	if !plan.Valid() {
		return PlanLimits{}, apperr.Invalid("subscriptionPlan", "unknown subscription plan")
	}
	limits := ApplyPlan(plan)
	if err := s.repo.UpdatePlan(ctx, id, plan, limits); err != nil {
		return PlanLimits{}, err
	}
	return limits, nil
}

func (s *service) UpdateMyStore(ctx context.Context, principal *user.User, id string, req SettingsRequest) (*Store, error) {
	if principal == nil || !principal.HasStoreAccess(id) || !principal.CanEditStore() {
		return nil, apperr.ErrForbidden
	}

	v := &apperr.ValidationError{}
	if req.ImageURL != nil {
		trimmed := strings.TrimSpace(*req.ImageURL)
		req.ImageURL = &trimmed
		validate.OptionalURL(v, "imageUrl", trimmed)
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ImageURL != nil {
		st.ImageURL = *req.ImageURL
	}
	if req.IsOpen != nil {
		st.IsOpen = *req.IsOpen
	}
	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *service) CountStores(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
