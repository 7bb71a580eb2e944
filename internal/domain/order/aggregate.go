package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/example/oms-backend/internal/domain/aggregate"
	"github.com/example/oms-backend/internal/infrastructure/store"
)

const AggregateType = "order"

// Fulfillment statuses.
const (
	StatusPlaced    = "placed"
	StatusPicked    = "picked"
	StatusShipped   = "shipped"
	StatusCancelled = "cancelled"
)

// Payment statuses.
const (
	PaymentPending   = "pending"
	PaymentPaid      = "paid"
	PaymentFulfilled = "fulfilled"
	PaymentCancelled = "cancelled"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNoItems           = errors.New("order has no items")
)

// validTransitions encodes the fulfillment state machine. Shipped and
// cancelled are terminal.
var validTransitions = map[string][]string{
	StatusPlaced:    {StatusPicked, StatusCancelled},
	StatusPicked:    {StatusShipped, StatusCancelled},
	StatusShipped:   {},
	StatusCancelled: {},
}

func CanTransition(from, to string) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type StatusChange struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	UpdatedBy string    `json:"updated_by"`
}

type Order struct {
	ID               string          `json:"id"`
	CustomerID       string          `json:"customer_id"`
	Items            []Item          `json:"items"`
	Total            int             `json:"total"`
	Status           string          `json:"status"`
	PaymentStatus    string          `json:"payment_status"`
	PaymentCollected bool            `json:"payment_collected"`
	ShippingAddress  ShippingAddress `json:"shipping_address"`
	Notes            string          `json:"notes"`
	StatusHistory    []StatusChange  `json:"status_history"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Version          int             `json:"version"`
}

func (o *Order) GetID() string    { return o.ID }
func (o *Order) GetVersion() int  { return o.Version }
func (o *Order) SetVersion(v int) { o.Version = v }

// HasItem reports whether the order contains the given product.
func (o *Order) HasItem(productID string) bool {
	for _, item := range o.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

func (o *Order) recordStatus(status string, at time.Time, updatedBy string) {
	o.Status = status
	o.UpdatedAt = at
	o.StatusHistory = append(o.StatusHistory, StatusChange{
		Status:    status,
		Timestamp: at,
		UpdatedBy: updatedBy,
	})
}

func (o *Order) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventOrderPlaced:
		var e OrderPlaced
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return fmt.Errorf("unmarshal %s: %w", event.EventType, err)
		}
		o.ID = e.OrderID
		o.CustomerID = e.CustomerID
		o.Items = e.Items
		o.Total = e.Total
		o.PaymentStatus = PaymentPending
		o.ShippingAddress = e.ShippingAddress
		o.Notes = e.Notes
		o.CreatedAt = e.PlacedAt
		o.recordStatus(StatusPlaced, e.PlacedAt, e.CustomerID)
	case EventOrderPaid:
		var e OrderPaid
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return fmt.Errorf("unmarshal %s: %w", event.EventType, err)
		}
		// Marking paid records intent only; the charge is collected at pick.
		o.PaymentStatus = PaymentPaid
		o.UpdatedAt = e.PaidAt
	case EventOrderPicked:
		var e OrderPicked
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return fmt.Errorf("unmarshal %s: %w", event.EventType, err)
		}
		// Picking collects the payment, mirroring the fulfillment flow
		// where the picker confirms the charge went through.
		o.PaymentStatus = PaymentFulfilled
		o.PaymentCollected = true
		o.recordStatus(StatusPicked, e.PickedAt, e.UpdatedBy)
	case EventOrderShipped:
		var e OrderShipped
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return fmt.Errorf("unmarshal %s: %w", event.EventType, err)
		}
		o.recordStatus(StatusShipped, e.ShippedAt, e.UpdatedBy)
	case EventOrderCancelled:
		var e OrderCancelled
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return fmt.Errorf("unmarshal %s: %w", event.EventType, err)
		}
		o.PaymentStatus = PaymentCancelled
		o.PaymentCollected = false
		o.recordStatus(StatusCancelled, e.CancelledAt, e.UpdatedBy)
	}
	o.Version = event.Version
	return nil
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(eventStore store.EventStoreInterface) *Service {
	return &Service{eventStore: eventStore}
}

// Place records a new order. Item snapshots and the total are computed by
// the caller, which has access to the product read models.
func (s *Service) Place(ctx context.Context, customerID string, items []Item, shippingAddress ShippingAddress, notes string) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	total := 0
	for _, item := range items {
		total += item.LineTotal
	}

	orderID := uuid.New().String()
	event := OrderPlaced{
		OrderID:         orderID,
		CustomerID:      customerID,
		Items:           items,
		Total:           total,
		ShippingAddress: shippingAddress,
		Notes:           notes,
		PlacedAt:        time.Now().UTC(),
	}
	ev, err := s.eventStore.Append(ctx, orderID, AggregateType, EventOrderPlaced, event, 0)
	if err != nil {
		return nil, fmt.Errorf("append %s: %w", EventOrderPlaced, err)
	}

	o := &Order{}
	if applyErr := o.ApplyEvent(*ev); applyErr != nil {
		return nil, applyErr
	}
	return o, nil
}

// MarkPaid records payment against the order. It does not gate on
// fulfillment status: payment can land at any point before shipping
// completes, including after a pick.
func (s *Service) MarkPaid(ctx context.Context, orderID string) (*Order, error) {
	o, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	event := OrderPaid{OrderID: orderID, PaidAt: time.Now().UTC()}
	ev, err := s.eventStore.Append(ctx, orderID, AggregateType, EventOrderPaid, event, o.Version)
	if err != nil {
		return nil, fmt.Errorf("append %s: %w", EventOrderPaid, err)
	}
	if applyErr := o.ApplyEvent(*ev); applyErr != nil {
		return nil, applyErr
	}
	return o, nil
}

// Pick moves the order from placed to picked. The conditional append is
// the commit point: two concurrent picks of the same order race on the
// version and exactly one wins.
func (s *Service) Pick(ctx context.Context, orderID, updatedBy string) (*Order, error) {
	o, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(o.Status, StatusPicked) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, StatusPicked)
	}

	event := OrderPicked{OrderID: orderID, UpdatedBy: updatedBy, PickedAt: time.Now().UTC()}
	ev, err := s.eventStore.Append(ctx, orderID, AggregateType, EventOrderPicked, event, o.Version)
	if err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("append %s: %w", EventOrderPicked, err)
	}
	if applyErr := o.ApplyEvent(*ev); applyErr != nil {
		return nil, applyErr
	}
	return o, nil
}

// Ship moves the order from picked to shipped.
func (s *Service) Ship(ctx context.Context, orderID, updatedBy string) (*Order, error) {
	o, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(o.Status, StatusShipped) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, StatusShipped)
	}

	event := OrderShipped{OrderID: orderID, UpdatedBy: updatedBy, ShippedAt: time.Now().UTC()}
	ev, err := s.eventStore.Append(ctx, orderID, AggregateType, EventOrderShipped, event, o.Version)
	if err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("append %s: %w", EventOrderShipped, err)
	}
	if applyErr := o.ApplyEvent(*ev); applyErr != nil {
		return nil, applyErr
	}
	return o, nil
}

// Cancel moves the order to cancelled and returns the status it held
// before, so the caller knows whether stock was committed and must be
// restored. Shipped and already-cancelled orders are rejected.
func (s *Service) Cancel(ctx context.Context, orderID, updatedBy string) (*Order, string, error) {
	o, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, "", err
	}
	if !CanTransition(o.Status, StatusCancelled) {
		return nil, "", fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, StatusCancelled)
	}

	priorStatus := o.Status
	event := OrderCancelled{
		OrderID:     orderID,
		UpdatedBy:   updatedBy,
		PriorStatus: priorStatus,
		CancelledAt: time.Now().UTC(),
	}
	ev, err := s.eventStore.Append(ctx, orderID, AggregateType, EventOrderCancelled, event, o.Version)
	if err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("append %s: %w", EventOrderCancelled, err)
	}
	if applyErr := o.ApplyEvent(*ev); applyErr != nil {
		return nil, "", applyErr
	}
	return o, priorStatus, nil
}

func (s *Service) Get(ctx context.Context, orderID string) (*Order, error) {
	o := &Order{}
	if err := aggregate.LoadAggregate(ctx, s.eventStore, orderID, o); err != nil {
		return nil, err
	}
	if o.ID == "" {
		return nil, ErrOrderNotFound
	}
	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, o, AggregateType); err != nil {
		log.Printf("[Order] Failed to snapshot %s: %v", orderID, err)
	}
	return o, nil
}
