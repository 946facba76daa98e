package orderitem

import (
	"github.com/shopspring/decimal"
)

// OrderItem represents a line within an order. Price is a snapshot of the
// product price at order-creation time and never tracks later price changes.
type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"orderId"`
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}
