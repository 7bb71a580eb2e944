package query

import (
	"strings"

	"github.com/example/oms-backend/internal/infrastructure/store"
)

type Handler struct {
	readStore store.ReadStoreInterface
}

func NewHandler(readStore store.ReadStoreInterface) *Handler {
	return &Handler{readStore: readStore}
}

// Users
func (h *Handler) GetUser(id string) (*UserReadModel, bool) {
	data, ok := h.readStore.Get("users", id)
	if !ok {
		return nil, false
	}
	return data.(*UserReadModel), true
}

// GetUserByEmail scans the users collection. Email lookup only happens on
// signup and signin, so the full scan is acceptable for the in-memory
// store; the Postgres store overrides it with an indexed query.
func (h *Handler) GetUserByEmail(email string) (*UserReadModel, bool) {
	type emailLookup interface {
		GetUserByEmail(email string) (*UserReadModel, bool)
	}
	if rs, ok := h.readStore.(emailLookup); ok {
		return rs.GetUserByEmail(email)
	}

	email = strings.ToLower(email)
	for _, item := range h.readStore.GetAll("users") {
		u := item.(*UserReadModel)
		if strings.ToLower(u.Email) == email {
			return u, true
		}
	}
	return nil, false
}

// Products
func (h *Handler) GetProduct(id string) (*ProductReadModel, bool) {
	data, ok := h.readStore.Get("products", id)
	if !ok {
		return nil, false
	}
	return data.(*ProductReadModel), true
}

func (h *Handler) ListProducts() []*ProductReadModel {
	items := h.readStore.GetAll("products")
	products := make([]*ProductReadModel, 0, len(items))
	for _, item := range items {
		products = append(products, item.(*ProductReadModel))
	}
	return products
}

// Orders
func (h *Handler) GetOrder(id string) (*OrderReadModel, bool) {
	data, ok := h.readStore.Get("orders", id)
	if !ok {
		return nil, false
	}
	return data.(*OrderReadModel), true
}

func (h *Handler) ListOrdersByCustomer(customerID string) []*OrderReadModel {
	orders := make([]*OrderReadModel, 0)
	for _, item := range h.readStore.GetAll("orders") {
		o := item.(*OrderReadModel)
		if o.CustomerID == customerID {
			orders = append(orders, o)
		}
	}
	return orders
}

// ListAllOrders returns every order, for staff and admin views.
func (h *Handler) ListAllOrders() []*OrderReadModel {
	items := h.readStore.GetAll("orders")
	orders := make([]*OrderReadModel, 0, len(items))
	for _, item := range items {
		orders = append(orders, item.(*OrderReadModel))
	}
	return orders
}

// Inventory
func (h *Handler) GetInventory(productID string) (*InventoryReadModel, bool) {
	data, ok := h.readStore.Get("inventory", productID)
	if !ok {
		return nil, false
	}
	return data.(*InventoryReadModel), true
}
