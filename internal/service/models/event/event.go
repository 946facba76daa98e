package event

import "time"

// Operation names for mutation events.
const (
	OpCreateCustomer      = "crm.customer.created"
	OpBulkCreateCustomers = "crm.customer.bulk_created"
	OpCreateProduct       = "crm.product.created"
	OpCreateOrder         = "crm.order.created"
	OpReplenishLowStock   = "crm.product.stock_replenished"
	OpReport              = "crm.report.generated"
)

// MutationEvent is the structured record emitted after a mutation completes.
// It replaces the plain-text log files the operations used to write directly;
// the outcome of an operation never depends on whether the event was delivered.
type MutationEvent struct {
	Operation  string    `json:"operation"`
	EntityIDs  []int64   `json:"entityIds,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	ErrorCount int       `json:"errorCount"`
	OccurredAt time.Time `json:"occurredAt"`
}
