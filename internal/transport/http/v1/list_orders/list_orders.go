package listorders

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"reflect"
	"time"

	"github.com/corray333/backend-labs/crm/internal/service/models/order"
	"github.com/gorilla/schema"
)

type service interface {
	GetOrders(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error)
}

type queryOrdersRequest struct {
	Ids         []int64    `schema:"ids,omitempty"`
	CustomerIds []int64    `schema:"customerIds,omitempty"`
	PlacedAfter *time.Time `schema:"placedAfter,omitempty"`
	Limit       int        `schema:"limit,omitempty"`
	Offset      int        `schema:"offset,omitempty"`
}

func (q *queryOrdersRequest) toModel() order.QueryOrdersModel {
	return order.QueryOrdersModel{
		Ids:         q.Ids,
		CustomerIds: q.CustomerIds,
		PlacedAfter: q.PlacedAfter,
		Limit:       q.Limit,
		Offset:      q.Offset,
	}
}

// timeConverter lets the schema decoder parse RFC 3339 timestamps.
func timeConverter(value string) reflect.Value {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return reflect.ValueOf(t)
	}

	return reflect.Value{}
}

func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	decoder := schema.NewDecoder()
	decoder.RegisterConverter(time.Time{}, timeConverter)
	query := &queryOrdersRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request", "error", err)

		return
	}

	orders, err := service.GetOrders(r.Context(), query.toModel())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting orders", "error", err)

		return
	}

	if err := json.NewEncoder(w).Encode(orders); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error sending response", "error", err)
	}
}
