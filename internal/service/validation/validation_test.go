package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/corray333/backend-labs/crm/internal/service/models/customer"
	"github.com/corray333/backend-labs/crm/internal/service/models/order"
	"github.com/corray333/backend-labs/crm/internal/service/models/product"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmailLookup struct {
	taken map[string]bool
	err   error
}

func (f *fakeEmailLookup) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.taken[email], nil
}

type fakeCustomerLookup struct {
	customers map[int64]*customer.Customer
	calls     int
}

func (f *fakeCustomerLookup) GetByID(_ context.Context, id int64) (*customer.Customer, error) {
	f.calls++
	return f.customers[id], nil
}

type fakeProductLookup struct {
	products map[int64]*product.Product
	calls    []int64
}

func (f *fakeProductLookup) GetByID(_ context.Context, id int64) (*product.Product, error) {
	f.calls = append(f.calls, id)
	return f.products[id], nil
}

func TestPhoneFormat(t *testing.T) {
	valid := []string{
		"",
		"+1234567890",
		"+123456789012",
		"123-456-7890",
		"+1-555-123-4567",
		"555.123.4567",
		"(555) 123-4567",
		"+44 123 456 7890",
	}
	for _, phone := range valid {
		assert.True(t, PhoneFormat(phone), "expected %q to be valid", phone)
	}

	invalid := []string{
		"invalid-phone",
		"12345",
		"+123456789",
		"123-456-78901",
		"abc-def-ghij",
		"++1234567890",
	}
	for _, phone := range invalid {
		assert.False(t, PhoneFormat(phone), "expected %q to be invalid", phone)
	}
}

func TestCustomerCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid input passes", func(t *testing.T) {
		errs, err := CustomerCreate(ctx, &fakeEmailLookup{}, customer.CreateCustomerModel{
			Name:  "Alice",
			Email: "alice@example.com",
			Phone: "+1234567890",
		})
		require.NoError(t, err)
		assert.Empty(t, errs)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		lookup := &fakeEmailLookup{taken: map[string]bool{"alice@example.com": true}}
		errs, err := CustomerCreate(ctx, lookup, customer.CreateCustomerModel{
			Name:  "Alice",
			Email: "alice@example.com",
		})
		require.NoError(t, err)
		require.Len(t, errs, 1)
		assert.Equal(t, KindEmailTaken, errs[0].Kind)
		assert.Equal(t, "Email already exists", errs[0].Message)
	})

	t.Run("bad phone rejected", func(t *testing.T) {
		errs, err := CustomerCreate(ctx, &fakeEmailLookup{}, customer.CreateCustomerModel{
			Name:  "Bob",
			Email: "bob@example.com",
			Phone: "invalid-phone",
		})
		require.NoError(t, err)
		require.Len(t, errs, 1)
		assert.Equal(t, KindInvalidPhoneFormat, errs[0].Kind)
		assert.Equal(t, "Invalid phone number format", errs[0].Message)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		lookup := &fakeEmailLookup{err: errors.New("connection refused")}
		_, err := CustomerCreate(ctx, lookup, customer.CreateCustomerModel{
			Email: "carol@example.com",
		})
		require.Error(t, err)
	})
}

func TestProductCreate(t *testing.T) {
	stock := func(n int) *int { return &n }

	t.Run("positive price passes", func(t *testing.T) {
		errs := ProductCreate(product.CreateProductModel{
			Name:  "Laptop",
			Price: decimal.RequireFromString("999.99"),
		})
		assert.Empty(t, errs)
	})

	t.Run("zero price rejected", func(t *testing.T) {
		errs := ProductCreate(product.CreateProductModel{
			Name:  "Freebie",
			Price: decimal.Zero,
		})
		require.Len(t, errs, 1)
		assert.Equal(t, KindNonPositivePrice, errs[0].Kind)
	})

	t.Run("negative price rejected", func(t *testing.T) {
		errs := ProductCreate(product.CreateProductModel{
			Name:  "Refund",
			Price: decimal.RequireFromString("-1"),
		})
		require.Len(t, errs, 1)
		assert.Equal(t, KindNonPositivePrice, errs[0].Kind)
	})

	t.Run("negative stock rejected", func(t *testing.T) {
		errs := ProductCreate(product.CreateProductModel{
			Name:  "Laptop",
			Price: decimal.RequireFromString("999.99"),
			Stock: stock(-5),
		})
		require.Len(t, errs, 1)
		assert.Equal(t, KindNegativeStock, errs[0].Kind)
	})

	t.Run("absent stock is valid", func(t *testing.T) {
		errs := ProductCreate(product.CreateProductModel{
			Name:  "Laptop",
			Price: decimal.RequireFromString("999.99"),
		})
		assert.Empty(t, errs)
	})
}

func TestOrderCreate(t *testing.T) {
	ctx := context.Background()

	customers := func() *fakeCustomerLookup {
		return &fakeCustomerLookup{customers: map[int64]*customer.Customer{
			1: {ID: 1, Name: "Alice", Email: "alice@example.com"},
		}}
	}
	products := func() *fakeProductLookup {
		return &fakeProductLookup{products: map[int64]*product.Product{
			10: {ID: 10, Name: "Laptop", Price: decimal.RequireFromString("999.99")},
			11: {ID: 11, Name: "Mouse", Price: decimal.RequireFromString("19.99")},
		}}
	}

	t.Run("resolves products in input order", func(t *testing.T) {
		resolved, errs, err := OrderCreate(ctx, customers(), products(), order.CreateOrderModel{
			CustomerID: 1,
			ProductIDs: []int64{11, 10},
		})
		require.NoError(t, err)
		require.Empty(t, errs)
		require.Len(t, resolved, 2)
		assert.Equal(t, int64(11), resolved[0].ID)
		assert.Equal(t, int64(10), resolved[1].ID)
	})

	t.Run("missing customer checked before products", func(t *testing.T) {
		prods := products()
		_, errs, err := OrderCreate(ctx, customers(), prods, order.CreateOrderModel{
			CustomerID: 999,
			ProductIDs: []int64{10},
		})
		require.NoError(t, err)
		require.Len(t, errs, 1)
		assert.Equal(t, KindCustomerNotFound, errs[0].Kind)
		assert.Empty(t, prods.calls, "product ids must not be evaluated")
	})

	t.Run("empty product list rejected", func(t *testing.T) {
		_, errs, err := OrderCreate(ctx, customers(), products(), order.CreateOrderModel{
			CustomerID: 1,
		})
		require.NoError(t, err)
		require.Len(t, errs, 1)
		assert.Equal(t, KindEmptyProductList, errs[0].Kind)
	})

	t.Run("stops at first missing product id", func(t *testing.T) {
		prods := products()
		_, errs, err := OrderCreate(ctx, customers(), prods, order.CreateOrderModel{
			CustomerID: 1,
			ProductIDs: []int64{10, 404, 405},
		})
		require.NoError(t, err)
		require.Len(t, errs, 1)
		assert.Equal(t, KindProductNotFound, errs[0].Kind)
		assert.Equal(t, "Invalid product ID: 404", errs[0].Message)
		assert.Equal(t, []int64{10, 404}, prods.calls, "resolution must stop at the first bad id")
	})
}
