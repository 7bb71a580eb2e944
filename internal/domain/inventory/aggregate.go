package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/oms-backend/internal/domain/aggregate"
	"github.com/example/oms-backend/internal/infrastructure/store"
)

const AggregateType = "inventory"

// maxRetries bounds the optimistic retry loop when concurrent writers
// race on the same product's stock.
const maxRetries = 3

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
)

// StreamID returns the event stream identifier for a product's stock.
// The product aggregate already owns the bare product ID as its stream,
// and stores key snapshots by stream ID alone, so stock events live under
// a prefixed ID to keep the two streams and snapshot slots apart.
func StreamID(productID string) string {
	return "inventory:" + productID
}

// Inventory tracks the stock level for a single product.
type Inventory struct {
	ProductID string    `json:"product_id"`
	Stock     int       `json:"stock"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

func (i *Inventory) GetID() string    { return StreamID(i.ProductID) }
func (i *Inventory) GetVersion() int  { return i.Version }
func (i *Inventory) SetVersion(v int) { i.Version = v }

func (i *Inventory) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventStockAdded:
		var e StockAdded
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return fmt.Errorf("unmarshal %s: %w", event.EventType, err)
		}
		i.ProductID = e.ProductID
		i.Stock += e.Quantity
		i.UpdatedAt = e.AddedAt
	case EventStockDeducted:
		var e StockDeducted
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return fmt.Errorf("unmarshal %s: %w", event.EventType, err)
		}
		i.ProductID = e.ProductID
		i.Stock -= e.Quantity
		i.UpdatedAt = e.DeductedAt
	case EventStockRestored:
		var e StockRestored
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return fmt.Errorf("unmarshal %s: %w", event.EventType, err)
		}
		i.ProductID = e.ProductID
		i.Stock += e.Quantity
		i.UpdatedAt = e.RestoredAt
	}
	i.Version = event.Version
	return nil
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(eventStore store.EventStoreInterface) *Service {
	return &Service{eventStore: eventStore}
}

func (s *Service) Get(ctx context.Context, productID string) (*Inventory, error) {
	inv := &Inventory{ProductID: productID}
	if err := aggregate.LoadAggregate(ctx, s.eventStore, StreamID(productID), inv); err != nil {
		return nil, err
	}
	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, inv, AggregateType); err != nil {
		log.Printf("[Inventory] Failed to snapshot %s: %v", productID, err)
	}
	return inv, nil
}

// AddStock credits quantity to the product's stock. Used both when a
// product is created with an initial stock level and for later restocks.
func (s *Service) AddStock(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		inv, err := s.Get(ctx, productID)
		if err != nil {
			return err
		}

		event := StockAdded{
			ProductID: productID,
			Quantity:  quantity,
			AddedAt:   time.Now().UTC(),
		}
		_, err = s.eventStore.Append(ctx, StreamID(productID), AggregateType, EventStockAdded, event, inv.Version)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrVersionConflict) {
			return fmt.Errorf("append %s: %w", EventStockAdded, err)
		}
		lastErr = err
	}
	return lastErr
}

// Deduct debits quantity from the product's stock, failing with
// ErrInsufficientStock when not enough is on hand. The check and the
// debit commit together through the conditional append, and version
// conflicts from concurrent writers are retried with a fresh read.
func (s *Service) Deduct(ctx context.Context, productID, orderID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		inv, err := s.Get(ctx, productID)
		if err != nil {
			return err
		}
		if inv.Stock < quantity {
			return ErrInsufficientStock
		}

		event := StockDeducted{
			ProductID:  productID,
			OrderID:    orderID,
			Quantity:   quantity,
			DeductedAt: time.Now().UTC(),
		}
		_, err = s.eventStore.Append(ctx, StreamID(productID), AggregateType, EventStockDeducted, event, inv.Version)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrVersionConflict) {
			return fmt.Errorf("append %s: %w", EventStockDeducted, err)
		}
		lastErr = err
	}
	return lastErr
}

// Restore credits quantity back after a cancellation.
func (s *Service) Restore(ctx context.Context, productID, orderID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		inv, err := s.Get(ctx, productID)
		if err != nil {
			return err
		}

		event := StockRestored{
			ProductID:  productID,
			OrderID:    orderID,
			Quantity:   quantity,
			RestoredAt: time.Now().UTC(),
		}
		_, err = s.eventStore.Append(ctx, StreamID(productID), AggregateType, EventStockRestored, event, inv.Version)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrVersionConflict) {
			return fmt.Errorf("append %s: %w", EventStockRestored, err)
		}
		lastErr = err
	}
	return lastErr
}
