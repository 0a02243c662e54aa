package store

import (
	"time"

	"github.com/google/uuid"
)

// Store is a tenant of the marketplace.
type Store struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	City             string    `json:"city"`
	Zipcode          string    `json:"zipcode"`
	Address          string    `json:"address"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	Phone            string    `json:"phone"`
	ImageURL         string    `json:"imageUrl"`
	IsOpen           bool      `json:"isOpen"`
	SubscriptionPlan Plan      `json:"subscriptionPlan"`
	PlanLimits
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SetPlan changes the plan and overwrites every derived field with it.
func (s *Store) SetPlan(p Plan) PlanLimits {
	s.SubscriptionPlan = p
	s.PlanLimits = ApplyPlan(p)
	return s.PlanLimits
}
