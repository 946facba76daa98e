package bulkcreatecustomers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/crm/internal/service/models/customer"
	"github.com/corray333/backend-labs/crm/internal/service/services/customersvc"
	"github.com/go-playground/validator/v10"
)

// service is an interface for the service layer.
type service interface {
	BulkCreateCustomers(ctx context.Context, inputs []customer.CreateCustomerModel) customersvc.BulkCreateCustomersResponse
}

var validate = validator.New()

// customerInBulkRequest represents one customer in a bulk create request.
type customerInBulkRequest struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required"`
	Phone string `json:"phone"`
}

func (r *customerInBulkRequest) toModel() customer.CreateCustomerModel {
	return customer.CreateCustomerModel{
		Name:  r.Name,
		Email: r.Email,
		Phone: r.Phone,
	}
}

// bulkCreateCustomersRequest represents a bulk create customers request.
type bulkCreateCustomersRequest struct {
	Customers []customerInBulkRequest `json:"customers" validate:"required,min=1,dive"`
}

// Validate validates the bulk create customers request.
func (r *bulkCreateCustomersRequest) Validate() error {
	return validate.Struct(r)
}

// BulkCreateCustomers handles the bulk create customers request. Per-item
// validation failures are reported in the response body, not as an HTTP error.
func BulkCreateCustomers(w http.ResponseWriter, r *http.Request, service service) {
	req := bulkCreateCustomersRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for bulk create customers", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for bulk create customers", "error", err)

		return
	}

	inputs := make([]customer.CreateCustomerModel, len(req.Customers))
	for i := range req.Customers {
		inputs[i] = req.Customers[i].toModel()
	}

	resp := service.BulkCreateCustomers(r.Context(), inputs)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMultiStatus)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Error sending response for bulk create customers", "error", err)
	}
}
