package createorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/corray333/backend-labs/crm/internal/service/models/order"
	"github.com/corray333/backend-labs/crm/internal/service/services/ordersvc"
	"github.com/go-playground/validator/v10"
)

// service is an interface for the service layer.
type service interface {
	CreateOrder(ctx context.Context, in order.CreateOrderModel) ordersvc.CreateOrderResponse
}

var validate = validator.New()

// createOrderRequest represents a create order request.
type createOrderRequest struct {
	CustomerID int64      `json:"customerId" validate:"gt=0"`
	ProductIDs []int64    `json:"productIds"`
	OrderDate  *time.Time `json:"orderDate"`
}

// Validate validates the create order request. The product list itself is
// checked by the service layer so an empty list reports the domain message.
func (r *createOrderRequest) Validate() error {
	return validate.Struct(r)
}

func (r *createOrderRequest) toModel() order.CreateOrderModel {
	return order.CreateOrderModel{
		CustomerID: r.CustomerID,
		ProductIDs: r.ProductIDs,
		OrderDate:  r.OrderDate,
	}
}

// CreateOrder handles the create order request.
func CreateOrder(w http.ResponseWriter, r *http.Request, service service) {
	req := createOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for create order", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for create order", "error", err)

		return
	}

	resp := service.CreateOrder(r.Context(), req.toModel())

	w.Header().Set("Content-Type", "application/json")
	if len(resp.Errors) > 0 {
		w.WriteHeader(http.StatusUnprocessableEntity)
	} else {
		w.WriteHeader(http.StatusCreated)
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Error sending response for create order", "error", err)
	}
}
