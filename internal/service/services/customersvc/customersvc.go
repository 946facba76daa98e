package customersvc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/crm/internal/dal/interfaces/icustomerrepo"
	"github.com/corray333/backend-labs/crm/internal/dal/interfaces/ieventrepo"
	"github.com/corray333/backend-labs/crm/internal/dal/postgres"
	"github.com/corray333/backend-labs/crm/internal/dal/uow"
	"github.com/corray333/backend-labs/crm/internal/service/models/customer"
	"github.com/corray333/backend-labs/crm/internal/service/models/event"
	"github.com/corray333/backend-labs/crm/internal/service/validation"
)

// unitOfWork is the transaction scope the service runs its writes in.
type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	CustomerRepository() icustomerrepo.ICustomerRepository
}

// CustomerService is a service for customer mutations.
type CustomerService struct {
	newUOW func() unitOfWork
	events ieventrepo.IEventRepository
}

// option is a function that configures the CustomerService.
type option func(*CustomerService)

// MustNewCustomerService creates a new CustomerService.
func MustNewCustomerService(opts ...option) *CustomerService {
	s := &CustomerService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithPostgresClient sets the Postgres client for the CustomerService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *CustomerService) {
		s.newUOW = func() unitOfWork {
			return uow.NewUnitOfWork(pgClient)
		}
	}
}

// WithUnitOfWorkFactory overrides the unit-of-work factory.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *CustomerService) {
		s.newUOW = factory
	}
}

// WithEventSink sets the mutation event sink for the CustomerService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithEventSink(events ieventrepo.IEventRepository) option {
	return func(s *CustomerService) {
		s.events = events
	}
}

// CreateCustomerResponse is the structured result of CreateCustomer.
type CreateCustomerResponse struct {
	Customer *customer.Customer `json:"customer"`
	Message  string             `json:"message"`
	Errors   []string           `json:"errors"`
}

// BulkCreateCustomersResponse is the structured result of BulkCreateCustomers.
// Customers holds the successfully created entries only.
type BulkCreateCustomersResponse struct {
	Customers []customer.Customer `json:"customers"`
	Errors    []string            `json:"errors"`
}

// CreateCustomer validates and persists a single customer. Failures of any
// kind are reported in the response error list; the method never returns an
// error across the service boundary.
func (s *CustomerService) CreateCustomer(
	ctx context.Context,
	in customer.CreateCustomerModel,
) CreateCustomerResponse {
	work := s.newUOW()

	verrs, err := validation.CustomerCreate(ctx, work.CustomerRepository(), in)
	if err != nil {
		return CreateCustomerResponse{Errors: []string{err.Error()}}
	}
	if len(verrs) > 0 {
		return CreateCustomerResponse{Errors: validation.Messages(verrs)}
	}

	created, err := work.CustomerRepository().Insert(ctx, customer.Customer{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return CreateCustomerResponse{Errors: []string{err.Error()}}
	}

	s.emit(ctx, event.MutationEvent{
		Operation:  event.OpCreateCustomer,
		EntityIDs:  []int64{created.ID},
		Detail:     created.Email,
		OccurredAt: time.Now(),
	})

	return CreateCustomerResponse{
		Customer: created,
		Message:  "Customer created successfully",
	}
}

// BulkCreateCustomers creates customers one by one inside a single
// transaction scope. Each item is validated against the store state at the
// time of its check; item-level failures are recorded and skipped without
// aborting the rest, and the commit does not require a fully-successful loop.
// An operation-level failure (begin or commit) discards the whole batch.
func (s *CustomerService) BulkCreateCustomers(
	ctx context.Context,
	inputs []customer.CreateCustomerModel,
) BulkCreateCustomersResponse {
	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return BulkCreateCustomersResponse{Errors: []string{err.Error()}}
	}

	created := make([]customer.Customer, 0, len(inputs))
	var errs []string

	for _, in := range inputs {
		verrs, err := validation.CustomerCreate(ctx, work.CustomerRepository(), in)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Error creating %s: %s", in.Email, err.Error()))
			continue
		}
		if len(verrs) > 0 {
			errs = append(errs, bulkMessage(verrs[0], in.Email))
			continue
		}

		c, err := work.CustomerRepository().Insert(ctx, customer.Customer{
			Name:      in.Name,
			Email:     in.Email,
			Phone:     in.Phone,
			CreatedAt: time.Now(),
		})
		if err != nil {
			errs = append(errs, fmt.Sprintf("Error creating %s: %s", in.Email, err.Error()))
			continue
		}

		created = append(created, *c)
	}

	if err := work.Commit(ctx); err != nil {
		if rbErr := work.Rollback(ctx); rbErr != nil {
			slog.Error("Failed to roll back bulk create", "error", rbErr)
		}

		return BulkCreateCustomersResponse{Errors: append(errs, err.Error())}
	}

	ids := make([]int64, len(created))
	for i, c := range created {
		ids[i] = c.ID
	}
	s.emit(ctx, event.MutationEvent{
		Operation:  event.OpBulkCreateCustomers,
		EntityIDs:  ids,
		Detail:     fmt.Sprintf("created %d of %d customers", len(created), len(inputs)),
		ErrorCount: len(errs),
		OccurredAt: time.Now(),
	})

	return BulkCreateCustomersResponse{Customers: created, Errors: errs}
}

// GetCustomers retrieves customers based on filter criteria.
func (s *CustomerService) GetCustomers(
	ctx context.Context,
	filter customer.QueryCustomersModel,
) ([]customer.Customer, error) {
	work := s.newUOW()

	customers, err := work.CustomerRepository().Query(ctx, &filter)
	if err != nil {
		return nil, err
	}

	if customers == nil {
		customers = []customer.Customer{}
	}

	return customers, nil
}

// bulkMessage maps a validation failure to the per-item message the bulk
// operation reports, which names the offending item's email.
func bulkMessage(verr validation.Error, email string) string {
	switch verr.Kind {
	case validation.KindEmailTaken:
		return fmt.Sprintf("Email %s already exists", email)
	case validation.KindInvalidPhoneFormat:
		return fmt.Sprintf("Invalid phone format for %s", email)
	default:
		return fmt.Sprintf("Error creating %s: %s", email, verr.Message)
	}
}

func (s *CustomerService) emit(ctx context.Context, e event.MutationEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, e); err != nil {
		slog.Error("Failed to publish mutation event", "operation", e.Operation, "error", err)
	}
}
