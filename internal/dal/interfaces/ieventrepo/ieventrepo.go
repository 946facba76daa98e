package ieventrepo

import (
	"context"

	"github.com/corray333/backend-labs/crm/internal/service/models/event"
)

// IEventRepository is the injected observability sink the mutation services
// report to after each operation. Delivery failures must never influence the
// operation result.
type IEventRepository interface {
	Publish(ctx context.Context, e event.MutationEvent) error
}
