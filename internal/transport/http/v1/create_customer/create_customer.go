package createcustomer

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
	CreateCustomer(ctx context.Context, in customer.CreateCustomerModel) customersvc.CreateCustomerResponse
}

var validate = validator.New()

// createCustomerRequest represents a create customer request.
type createCustomerRequest struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required"`
	Phone string `json:"phone"`
}

// Validate validates the create customer request.
func (r *createCustomerRequest) Validate() error {
	return validate.Struct(r)
}

func (r *createCustomerRequest) toModel() customer.CreateCustomerModel {
	return customer.CreateCustomerModel{
		Name:  r.Name,
		Email: r.Email,
		Phone: r.Phone,
	}
}

// CreateCustomer handles the create customer request.
func CreateCustomer(w http.ResponseWriter, r *http.Request, service service) {
	req := createCustomerRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for create customer", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for create customer", "error", err)

		return
	}

	resp := service.CreateCustomer(r.Context(), req.toModel())

	w.Header().Set("Content-Type", "application/json")
	if len(resp.Errors) > 0 {
		w.WriteHeader(http.StatusUnprocessableEntity)
	} else {
		w.WriteHeader(http.StatusCreated)
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Error sending response for create customer", "error", err)
	}
}
