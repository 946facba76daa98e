package listcustomers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/crm/internal/service/models/customer"
	"github.com/gorilla/schema"
)

type service interface {
	GetCustomers(ctx context.Context, filter customer.QueryCustomersModel) ([]customer.Customer, error)
}

type queryCustomersRequest struct {
	Ids    []int64  `schema:"ids,omitempty"`
	Emails []string `schema:"emails,omitempty"`
	Limit  int      `schema:"limit,omitempty"`
	Offset int      `schema:"offset,omitempty"`
}

func (q *queryCustomersRequest) toModel() customer.QueryCustomersModel {
	return customer.QueryCustomersModel{
		Ids:    q.Ids,
		Emails: q.Emails,
		Limit:  q.Limit,
		Offset: q.Offset,
	}
}

func ListCustomers(w http.ResponseWriter, r *http.Request, service service) {
	decoder := schema.NewDecoder()
	query := &queryCustomersRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request", "error", err)

		return
	}

	customers, err := service.GetCustomers(r.Context(), query.toModel())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error getting customers", "error", err)

		return
	}

	if err := json.NewEncoder(w).Encode(customers); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		slog.Error("Error sending response", "error", err)
	}
}
