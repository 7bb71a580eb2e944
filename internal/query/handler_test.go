package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/oms-backend/internal/infrastructure/store/mocks"
)

func newTestHandler() (*Handler, *mocks.MockReadStore) {
	readStore := mocks.NewMockReadStore()
	return NewHandler(readStore), readStore
}

func TestHandler_GetUser(t *testing.T) {
	handler, readStore := newTestHandler()
	readStore.SetData("users", "user-1", &UserReadModel{ID: "user-1", Email: "alice@example.com", Role: "customer"})

	user, ok := handler.GetUser("user-1")
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", user.Email)

	_, ok = handler.GetUser("missing")
	assert.False(t, ok)
}

func TestHandler_GetUserByEmail_ScansCaseInsensitive(t *testing.T) {
	handler, readStore := newTestHandler()
	readStore.SetData("users", "user-1", &UserReadModel{ID: "user-1", Email: "Alice@Example.com"})
	readStore.SetData("users", "user-2", &UserReadModel{ID: "user-2", Email: "bob@example.com"})

	user, ok := handler.GetUserByEmail("alice@example.com")
	require.True(t, ok)
	assert.Equal(t, "user-1", user.ID)

	_, ok = handler.GetUserByEmail("carol@example.com")
	assert.False(t, ok)
}

func TestHandler_GetProduct(t *testing.T) {
	handler, readStore := newTestHandler()
	readStore.SetData("products", "prod-1", &ProductReadModel{ID: "prod-1", Name: "Widget", Price: 500})

	product, ok := handler.GetProduct("prod-1")
	require.True(t, ok)
	assert.Equal(t, "Widget", product.Name)

	_, ok = handler.GetProduct("missing")
	assert.False(t, ok)
}

func TestHandler_ListProducts(t *testing.T) {
	handler, readStore := newTestHandler()

	assert.Empty(t, handler.ListProducts())

	readStore.SetData("products", "prod-1", &ProductReadModel{ID: "prod-1"})
	readStore.SetData("products", "prod-2", &ProductReadModel{ID: "prod-2"})

	assert.Len(t, handler.ListProducts(), 2)
}

func TestHandler_ListOrdersByCustomer(t *testing.T) {
	handler, readStore := newTestHandler()
	readStore.SetData("orders", "order-1", &OrderReadModel{ID: "order-1", CustomerID: "cust-1"})
	readStore.SetData("orders", "order-2", &OrderReadModel{ID: "order-2", CustomerID: "cust-2"})
	readStore.SetData("orders", "order-3", &OrderReadModel{ID: "order-3", CustomerID: "cust-1"})

	orders := handler.ListOrdersByCustomer("cust-1")
	require.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, "cust-1", o.CustomerID)
	}

	assert.Empty(t, handler.ListOrdersByCustomer("cust-9"))
}

func TestHandler_ListAllOrders(t *testing.T) {
	handler, readStore := newTestHandler()
	readStore.SetData("orders", "order-1", &OrderReadModel{ID: "order-1", CustomerID: "cust-1"})
	readStore.SetData("orders", "order-2", &OrderReadModel{ID: "order-2", CustomerID: "cust-2"})

	assert.Len(t, handler.ListAllOrders(), 2)
}

func TestHandler_GetInventory(t *testing.T) {
	handler, readStore := newTestHandler()
	readStore.SetData("inventory", "prod-1", &InventoryReadModel{ProductID: "prod-1", Stock: 8})

	inv, ok := handler.GetInventory("prod-1")
	require.True(t, ok)
	assert.Equal(t, 8, inv.Stock)

	_, ok = handler.GetInventory("missing")
	assert.False(t, ok)
}
