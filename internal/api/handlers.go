package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/example/oms-backend/internal/api/middleware"
	"github.com/example/oms-backend/internal/command"
	"github.com/example/oms-backend/internal/domain/inventory"
	"github.com/example/oms-backend/internal/domain/order"
	"github.com/example/oms-backend/internal/domain/product"
	"github.com/example/oms-backend/internal/domain/user"
	"github.com/example/oms-backend/internal/infrastructure/store"
	"github.com/example/oms-backend/internal/query"
)

type Handlers struct {
	cmdHandler   *command.Handler
	queryHandler *query.Handler
}

func NewHandlers(cmdHandler *command.Handler, queryHandler *query.Handler) *Handlers {
	return &Handlers{
		cmdHandler:   cmdHandler,
		queryHandler: queryHandler,
	}
}

// Product Handlers

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Price       int    `json:"price"`
		Stock       int    `json:"stock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cmd := command.CreateProduct{
		OwnerID:     middleware.GetUserID(r.Context()),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
	}
	p, err := h.cmdHandler.CreateProduct(r.Context(), cmd)
	if err != nil {
		respondCommandError(w, err)
		return
	}

	respondMessage(w, http.StatusCreated, "Product listed", p)
}

func (h *Handlers) GetAllProducts(w http.ResponseWriter, r *http.Request) {
	// The caller must still exist; a deleted account with a live token
	// gets a 404 here rather than a listing.
	if _, ok := h.queryHandler.GetUser(middleware.GetUserID(r.Context())); !ok {
		respondJSONError(w, "User not found", http.StatusNotFound)
		return
	}

	respondMessage(w, http.StatusOK, "Products fetched", h.queryHandler.ListProducts())
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Price       int    `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cmd := command.UpdateProduct{
		ProductID:   r.PathValue("productID"),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
	}
	p, err := h.cmdHandler.UpdateProduct(r.Context(), cmd)
	if err != nil {
		respondCommandError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Product updated", p)
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	cmd := command.DeleteProduct{ProductID: r.PathValue("productID")}
	if err := h.cmdHandler.DeleteProduct(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Product removed", nil)
}

func (h *Handlers) RestockProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cmd := command.RestockProduct{
		ProductID: r.PathValue("productID"),
		Quantity:  req.Quantity,
	}
	if err := h.cmdHandler.RestockProduct(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Product restocked", nil)
}

// Order Handlers

func (h *Handlers) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int    `json:"quantity"`
		Address  string `json:"address"`
		State    string `json:"state"`
		Notes    string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cmd := command.PlaceOrder{
		CustomerID: middleware.GetUserID(r.Context()),
		Items: []command.OrderItemInput{
			{ProductID: r.PathValue("productID"), Quantity: req.Quantity},
		},
		Address: req.Address,
		State:   req.State,
		Notes:   req.Notes,
	}
	o, err := h.cmdHandler.PlaceOrder(r.Context(), cmd)
	if err != nil {
		respondCommandError(w, err)
		return
	}

	respondMessage(w, http.StatusCreated, "Order placed, payment pending", o)
}

func (h *Handlers) MarkOrderPaid(w http.ResponseWriter, r *http.Request) {
	cmd := command.MarkOrderPaid{OrderID: r.PathValue("orderID")}
	o, err := h.cmdHandler.MarkOrderPaid(r.Context(), cmd)
	if err != nil {
		respondCommandError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Order payment recorded", o)
}

func (h *Handlers) PickOrder(w http.ResponseWriter, r *http.Request) {
	cmd := command.PickOrder{
		OrderID:   r.PathValue("orderID"),
		UpdatedBy: middleware.GetUserID(r.Context()),
	}
	o, err := h.cmdHandler.PickOrder(r.Context(), cmd)
	if err != nil {
		respondCommandError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Order picked", o)
}

func (h *Handlers) ShipOrder(w http.ResponseWriter, r *http.Request) {
	cmd := command.ShipOrder{
		OrderID:   r.PathValue("orderID"),
		UpdatedBy: middleware.GetUserID(r.Context()),
	}
	o, err := h.cmdHandler.ShipOrder(r.Context(), cmd)
	if err != nil {
		respondCommandError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Order shipped", o)
}

func (h *Handlers) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("orderID")

	// Customers can only cancel their own orders; admins can cancel any.
	if !isAdmin(r) {
		existing, ok := h.queryHandler.GetOrder(orderID)
		if ok && existing.CustomerID != middleware.GetUserID(r.Context()) {
			respondJSONError(w, "Forbidden", http.StatusForbidden)
			return
		}
	}

	cmd := command.CancelOrder{
		OrderID:   orderID,
		ProductID: r.PathValue("productID"),
		UpdatedBy: middleware.GetUserID(r.Context()),
	}
	o, err := h.cmdHandler.CancelOrder(r.Context(), cmd)
	if err != nil {
		respondCommandError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Order cancelled", o)
}

func (h *Handlers) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.queryHandler.ListOrdersByCustomer(middleware.GetUserID(r.Context()))
	respondMessage(w, http.StatusOK, "Orders fetched", orders)
}

func (h *Handlers) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	respondMessage(w, http.StatusOK, "Orders fetched", h.queryHandler.ListAllOrders())
}

func (h *Handlers) Healthyz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondMessage(w http.ResponseWriter, status int, message string, payload any) {
	respondJSON(w, status, map[string]any{
		"message": message,
		"payload": payload,
	})
}

// respondCommandError maps domain errors onto HTTP statuses. Internal
// error details never leak to the client beyond the sentinel's message.
func respondCommandError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, product.ErrProductDeleted),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, command.ErrItemNotInOrder):
		respondJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrNoItems),
		errors.Is(err, inventory.ErrInsufficientStock),
		errors.Is(err, inventory.ErrInvalidQuantity),
		errors.Is(err, command.ErrInvalidQuantity),
		errors.Is(err, command.ErrAddressRequired),
		errors.Is(err, product.ErrInvalidPrice),
		errors.Is(err, product.ErrInvalidStock),
		errors.Is(err, product.ErrNameRequired),
		errors.Is(err, user.ErrInvalidRole):
		respondJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrVersionConflict):
		respondJSONError(w, "Conflicting update, please retry", http.StatusConflict)
	default:
		respondJSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}

// isAdmin checks if the current user has the admin role
func isAdmin(r *http.Request) bool {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		return false
	}
	return claims.Role == user.RoleAdmin
}
