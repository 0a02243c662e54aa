package order

import (
	"context"
	"fmt"
	"strings"

	"github.com/georgemunganga/akistapp-admin/internal/apperr"
	"github.com/samber/lo"
)

// Service defines order business logic for a store's panel.
type Service interface {
	ListStoreOrders(ctx context.Context, storeID string, status string) ([]*Order, error)
	GetOrder(ctx context.Context, storeID, id string) (*Order, error)
	// UpdateStatus moves an order along its lifecycle.
	UpdateStatus(ctx context.Context, storeID, id string, req UpdateStatusRequest) (*Order, error)
}

var validTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusReady, StatusCancelled},
	StatusReady:     {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

// ParseStatus accepts a status name in any case.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := validTransitions[st]
	return st, ok
}

// CanTransition reports whether an order in from may move to to.
func CanTransition(from, to Status) bool {
	return lo.Contains(validTransitions[from], to)
}

type service struct {
	repo Repository
}

// NewService creates a new order service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListStoreOrders(ctx context.Context, storeID string, status string) ([]*Order, error) {
	var filter Status
	if status != "" {
		st, ok := ParseStatus(status)
		if !ok {
			return nil, apperr.Invalid("status", "unknown order status")
		}
		filter = st
	}
	return s.repo.ListByStore(ctx, storeID, filter)
}

func (s *service) GetOrder(ctx context.Context, storeID, id string) (*Order, error) {
	return s.repo.GetByID(ctx, storeID, id)
}

func (s *service) UpdateStatus(ctx context.Context, storeID, id string, req UpdateStatusRequest) (*Order, error) {
	next, ok := ParseStatus(req.Status)
	if !ok {
		return nil, apperr.Invalid("status", "unknown order status")
	}

	o, err := s.repo.GetByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if o.Status == next {
		return o, nil
	}
	if !CanTransition(o.Status, next) {
		return nil, apperr.Conflict("transition",
			fmt.Sprintf("cannot move order from %s to %s", o.Status, next))
	}

	if err := s.repo.UpdateStatus(ctx, storeID, id, o.Status, next); err != nil {
		return nil, err
	}
	o.Status = next
	return o, nil
}
