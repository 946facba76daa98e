package createproduct

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/crm/internal/service/models/product"
	"github.com/corray333/backend-labs/crm/internal/service/services/productsvc"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// service is an interface for the service layer.
type service interface {
	CreateProduct(ctx context.Context, in product.CreateProductModel) productsvc.CreateProductResponse
}

var validate = validator.New()

// createProductRequest represents a create product request. Price arrives as
// a string so the decimal value is never routed through a float.
type createProductRequest struct {
	Name  string `json:"name"  validate:"required"`
	Price string `json:"price" validate:"required"`
	Stock *int   `json:"stock"`
}

// Validate validates the create product request.
func (r *createProductRequest) Validate() error {
	return validate.Struct(r)
}

func (r *createProductRequest) toModel() (product.CreateProductModel, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return product.CreateProductModel{}, err
	}

	return product.CreateProductModel{
		Name:  r.Name,
		Price: price,
		Stock: r.Stock,
	}, nil
}

// CreateProduct handles the create product request.
func CreateProduct(w http.ResponseWriter, r *http.Request, service service) {
	req := createProductRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for create product", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for create product", "error", err)

		return
	}

	model, err := req.toModel()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error converting request to model for create product", "error", err)

		return
	}

	resp := service.CreateProduct(r.Context(), model)

	w.Header().Set("Content-Type", "application/json")
	if len(resp.Errors) > 0 {
		w.WriteHeader(http.StatusUnprocessableEntity)
	} else {
		w.WriteHeader(http.StatusCreated)
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Error sending response for create product", "error", err)
	}
}
