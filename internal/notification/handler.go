package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/oms-backend/internal/domain/order"
	"github.com/example/oms-backend/internal/email"
	"github.com/example/oms-backend/internal/infrastructure/store"
	"github.com/example/oms-backend/internal/readmodel"
)

// Handler processes events for sending notifications
type Handler struct {
	emailService *email.Service
	readStore    store.ReadStoreInterface
}

// NewHandler creates a new notification handler
func NewHandler(emailSvc *email.Service, readStore store.ReadStoreInterface) *Handler {
	return &Handler{
		emailService: emailSvc,
		readStore:    readStore,
	}
}

// HandleEvent processes an event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}

	switch event.EventType {
	case order.EventOrderPlaced:
		return h.handleOrderPlaced(event)
	case order.EventOrderShipped:
		return h.handleOrderShipped(event)
	}

	return nil
}

func (h *Handler) handleOrderPlaced(event store.Event) error {
	var e order.OrderPlaced
	if err := json.Unmarshal(event.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal OrderPlaced event: %v", err)
		return err
	}

	log.Printf("[Notifier] Processing OrderPlaced event for order %s, customer %s", e.OrderID, e.CustomerID)

	customer, ok := h.lookupCustomer(e.CustomerID)
	if !ok {
		return nil
	}

	emailItems := toEmailItems(e.Items)
	if err := h.emailService.SendOrderConfirmation(customer.Email, e.OrderID, e.Total, emailItems); err != nil {
		log.Printf("[Notifier] Failed to send email to %s: %v", customer.Email, err)
		return err
	}

	log.Printf("[Notifier] Order confirmation email sent to %s for order %s", customer.Email, e.OrderID)
	return nil
}

func (h *Handler) handleOrderShipped(event store.Event) error {
	var e order.OrderShipped
	if err := json.Unmarshal(event.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal OrderShipped event: %v", err)
		return err
	}

	log.Printf("[Notifier] Processing OrderShipped event for order %s", e.OrderID)

	orderData, ok := h.readStore.Get("orders", e.OrderID)
	if !ok {
		log.Printf("[Notifier] Order not found: %s", e.OrderID)
		return nil
	}
	orderModel, ok := orderData.(*readmodel.OrderReadModel)
	if !ok {
		log.Printf("[Notifier] Invalid order data type for order: %s", e.OrderID)
		return nil
	}

	customer, ok := h.lookupCustomer(orderModel.CustomerID)
	if !ok {
		return nil
	}

	emailItems := make([]email.OrderItem, len(orderModel.Items))
	for i, item := range orderModel.Items {
		emailItems[i] = email.OrderItem{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			Price:     item.UnitPrice,
		}
	}

	if err := h.emailService.SendShippingNotice(customer.Email, e.OrderID, emailItems); err != nil {
		log.Printf("[Notifier] Failed to send email to %s: %v", customer.Email, err)
		return err
	}

	log.Printf("[Notifier] Shipping notice sent to %s for order %s", customer.Email, e.OrderID)
	return nil
}

func (h *Handler) lookupCustomer(customerID string) (*readmodel.UserReadModel, bool) {
	userData, ok := h.readStore.Get("users", customerID)
	if !ok {
		log.Printf("[Notifier] Customer not found: %s", customerID)
		return nil, false
	}
	customer, ok := userData.(*readmodel.UserReadModel)
	if !ok {
		log.Printf("[Notifier] Invalid user data type for customer: %s", customerID)
		return nil, false
	}
	return customer, true
}

func toEmailItems(items []order.Item) []email.OrderItem {
	emailItems := make([]email.OrderItem, len(items))
	for i, item := range items {
		emailItems[i] = email.OrderItem{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			Price:     item.UnitPrice,
		}
	}
	return emailItems
}
