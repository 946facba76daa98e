package order

import (
	"time"

	"github.com/corray333/backend-labs/crm/internal/service/models/orderitem"
	"github.com/shopspring/decimal"
)

// Order represents a customer order in the system.
// TotalAmount is computed once at creation time from the order items and
// persisted; it is never recomputed afterwards.
type Order struct {
	ID          int64                 `json:"id"`
	CustomerID  int64                 `json:"customerId"`
	TotalAmount decimal.Decimal       `json:"totalAmount"`
	OrderDate   time.Time             `json:"orderDate"`
	OrderItems  []orderitem.OrderItem `json:"orderItems"`
}

// CreateOrderModel carries the input of an order creation.
// OrderDate is optional and defaults to the creation time.
type CreateOrderModel struct {
	CustomerID int64      `json:"customerId"`
	ProductIDs []int64    `json:"productIds"`
	OrderDate  *time.Time `json:"orderDate,omitempty"`
}
