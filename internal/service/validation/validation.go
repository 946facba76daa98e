package validation

import (
	"context"
	"fmt"
	"regexp"

	"github.com/corray333/backend-labs/crm/internal/service/models/customer"
	"github.com/corray333/backend-labs/crm/internal/service/models/order"
	"github.com/corray333/backend-labs/crm/internal/service/models/product"
)

// Kind identifies a caller-fixable validation failure.
type Kind string

const (
	KindEmailTaken         Kind = "email_taken"
	KindInvalidPhoneFormat Kind = "invalid_phone_format"
	KindNonPositivePrice   Kind = "non_positive_price"
	KindNegativeStock      Kind = "negative_stock"
	KindCustomerNotFound   Kind = "customer_not_found"
	KindEmptyProductList   Kind = "empty_product_list"
	KindProductNotFound    Kind = "product_not_found"
)

// Error is a single validation failure with a caller-facing message.
type Error struct {
	Kind    Kind
	Message string
}

func (e Error) Error() string {
	return e.Message
}

// Messages flattens validation errors into the error-string list operations
// report across the service boundary.
func Messages(errs []Error) []string {
	if len(errs) == 0 {
		return nil
	}
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Message
	}
	return out
}

// Accepts either a bare international number (+ and 10-13 digits, no
// separators) or an optional +country code (1-3 digits) followed by a
// North-American-style local number with -, space or . separators and
// optional parentheses around the area code.
var phonePattern = regexp.MustCompile(
	`^(\+\d{10,13}|(\+\d{1,3}[- ]?)?\(?\d{3}\)?[-. ]?\d{3}[-. ]?\d{4})$`,
)

// EmailLookup checks whether a customer with the exact email already exists.
type EmailLookup interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// CustomerLookup resolves a customer by id, returning nil when absent.
type CustomerLookup interface {
	GetByID(ctx context.Context, id int64) (*customer.Customer, error)
}

// ProductLookup resolves a product by id, returning nil when absent.
type ProductLookup interface {
	GetByID(ctx context.Context, id int64) (*product.Product, error)
}

// PhoneFormat reports whether phone matches the accepted pattern.
// An empty phone is always valid.
func PhoneFormat(phone string) bool {
	if phone == "" {
		return true
	}
	return phonePattern.MatchString(phone)
}

// CustomerCreate validates a customer creation against the persisted state at
// the time of the check. The email uniqueness check is exact and
// case-sensitive. The error return is a store failure, not a validation
// outcome.
func CustomerCreate(
	ctx context.Context,
	emails EmailLookup,
	in customer.CreateCustomerModel,
) ([]Error, error) {
	taken, err := emails.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if taken {
		return []Error{{Kind: KindEmailTaken, Message: "Email already exists"}}, nil
	}

	if !PhoneFormat(in.Phone) {
		return []Error{{Kind: KindInvalidPhoneFormat, Message: "Invalid phone number format"}}, nil
	}

	return nil, nil
}

// ProductCreate validates a product creation. Price must be strictly
// positive; stock, when supplied, must be non-negative.
func ProductCreate(in product.CreateProductModel) []Error {
	if !in.Price.IsPositive() {
		return []Error{{Kind: KindNonPositivePrice, Message: "Price must be positive"}}
	}

	if in.Stock != nil && *in.Stock < 0 {
		return []Error{{Kind: KindNegativeStock, Message: "Stock cannot be negative"}}
	}

	return nil
}

// OrderCreate validates an order creation: the customer must exist, the
// product list must be non-empty and every product id must resolve.
// The customer check strictly precedes any product lookup, and product
// resolution stops at the first missing id. On success the resolved products
// are returned in input order for the write phase.
func OrderCreate(
	ctx context.Context,
	customers CustomerLookup,
	products ProductLookup,
	in order.CreateOrderModel,
) ([]product.Product, []Error, error) {
	cust, err := customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if cust == nil {
		return nil, []Error{{Kind: KindCustomerNotFound, Message: "Invalid customer ID"}}, nil
	}

	if len(in.ProductIDs) == 0 {
		return nil, []Error{{
			Kind:    KindEmptyProductList,
			Message: "At least one product must be selected",
		}}, nil
	}

	resolved := make([]product.Product, 0, len(in.ProductIDs))
	for _, id := range in.ProductIDs {
		p, err := products.GetByID(ctx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get product: %w", err)
		}
		if p == nil {
			return nil, []Error{{
				Kind:    KindProductNotFound,
				Message: fmt.Sprintf("Invalid product ID: %d", id),
			}}, nil
		}
		resolved = append(resolved, *p)
	}

	return resolved, nil, nil
}
