package replenishstock

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/crm/internal/service/services/productsvc"
)

// service is an interface for the service layer.
type service interface {
	ReplenishLowStock(ctx context.Context) productsvc.ReplenishLowStockResponse
}

// ReplenishStock handles the manual replenish request. The same operation
// runs on a schedule; this endpoint exists for ad-hoc runs.
func ReplenishStock(w http.ResponseWriter, r *http.Request, service service) {
	resp := service.ReplenishLowStock(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if len(resp.Errors) > 0 {
		w.WriteHeader(http.StatusInternalServerError)
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Error sending response for replenish stock", "error", err)
	}
}
