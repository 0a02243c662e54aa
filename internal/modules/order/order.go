package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusReady     Status = "READY"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// DeliveryMethod says how the customer receives the order.
type DeliveryMethod string

const (
	DeliveryPickup   DeliveryMethod = "PICKUP"
	DeliveryDelivery DeliveryMethod = "DELIVERY"
)

// Order is a customer's purchase from one store. Everything except Status
// is fixed when the order is placed.
type Order struct {
	ID              uuid.UUID       `json:"id"`
	StoreID         uuid.UUID       `json:"storeId"`
	CustomerID      string          `json:"customerId"`
	CustomerName    string          `json:"customerName"`
	Items           []Item          `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	ShippingCost    decimal.Decimal `json:"shippingCost"`
	GrandTotal      decimal.Decimal `json:"grandTotal"`
	DeliveryMethod  DeliveryMethod  `json:"deliveryMethod"`
	DeliveryAddress string          `json:"deliveryAddress,omitempty"`
	Status          Status          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Item is a line of an order, frozen at the time the order was placed.
type Item struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image"`
}

// LineTotal is price times quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// UpdateStatusRequest is the payload for moving an order to a new status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}
