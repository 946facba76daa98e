package listproducts

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/crm/internal/service/models/product"
	"github.com/gorilla/schema"
)

type service interface {
	GetProducts(ctx context.Context, filter product.QueryProductsModel) ([]product.Product, error)
}

type queryProductsRequest struct {
	Ids        []int64 `schema:"ids,omitempty"`
	StockBelow *int    `schema:"stockBelow,omitempty"`
	Limit      int     `schema:"limit,omitempty"`
	Offset     int     `schema:"offset,omitempty"`
}

func (q *queryProductsRequest) toModel() product.QueryProductsModel {
	return product.QueryProductsModel{
		Ids:        q.Ids,
		StockBelow: q.StockBelow,
		Limit:      q.Limit,
		Offset:     q.Offset,
	}
}

func ListProducts(w http.ResponseWriter, r *http.Request, service service) {
	decoder := schema.NewDecoder()
	query := &queryProductsRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request", "error", err)

		return
	}

	products, err := service.GetProducts(r.Context(), query.toModel())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting products", "error", err)

		return
	}

	if err := json.NewEncoder(w).Encode(products); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error sending response", "error", err)
	}
}
