package projection

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/oms-backend/internal/domain/inventory"
	"github.com/example/oms-backend/internal/domain/order"
	"github.com/example/oms-backend/internal/domain/product"
	"github.com/example/oms-backend/internal/domain/user"
	"github.com/example/oms-backend/internal/infrastructure/store"
	"github.com/example/oms-backend/internal/readmodel"
)

type Projector struct {
	readStore store.ReadStoreInterface
}

func NewProjector(readStore store.ReadStoreInterface) *Projector {
	return &Projector{readStore: readStore}
}

func (p *Projector) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return err
	}

	log.Printf("[Projector] Received event: %s (aggregate: %s)", event.EventType, event.AggregateType)

	return p.Apply(event)
}

// Apply projects a single event into the read models. Besides the Kafka
// path, it is also called directly on startup replay and from the Lambda
// stream handler.
func (p *Projector) Apply(event store.Event) error {
	switch event.AggregateType {
	case user.AggregateType:
		return p.handleUserEvent(event)
	case product.AggregateType:
		return p.handleProductEvent(event)
	case order.AggregateType:
		return p.handleOrderEvent(event)
	case inventory.AggregateType:
		return p.handleInventoryEvent(event)
	}
	return nil
}

func (p *Projector) handleUserEvent(event store.Event) error {
	switch event.EventType {
	case user.EventUserRegistered:
		var e user.UserRegistered
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Set("users", e.UserID, &readmodel.UserReadModel{
			ID:           e.UserID,
			Email:        e.Email,
			PasswordHash: e.PasswordHash,
			Name:         e.Name,
			Role:         e.Role,
			CreatedAt:    e.CreatedAt,
			UpdatedAt:    e.CreatedAt,
		})

	case user.EventUserSignedIn:
		var e user.UserSignedIn
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("users", e.UserID, func(current any) any {
			u := current.(*readmodel.UserReadModel)
			u.UpdatedAt = e.SignedAt
			return u
		})
	}

	return nil
}

func (p *Projector) handleProductEvent(event store.Event) error {
	switch event.EventType {
	case product.EventProductCreated:
		var e product.ProductCreated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		// Stock starts at zero here: the matching StockAdded event from
		// the inventory stream credits it.
		p.readStore.Set("products", e.ProductID, &readmodel.ProductReadModel{
			ID:          e.ProductID,
			OwnerID:     e.OwnerID,
			Name:        e.Name,
			Description: e.Description,
			Category:    e.Category,
			Price:       e.Price,
			Stock:       0,
			CreatedAt:   e.CreatedAt,
			UpdatedAt:   e.CreatedAt,
		})

	case product.EventProductUpdated:
		var e product.ProductUpdated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("products", e.ProductID, func(current any) any {
			prod := current.(*readmodel.ProductReadModel)
			prod.Name = e.Name
			prod.Description = e.Description
			prod.Category = e.Category
			prod.Price = e.Price
			prod.UpdatedAt = e.UpdatedAt
			return prod
		})

	case product.EventProductDeleted:
		var e product.ProductDeleted
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Delete("products", e.ProductID)
		p.readStore.Delete("inventory", e.ProductID)
	}

	return nil
}

func (p *Projector) handleOrderEvent(event store.Event) error {
	switch event.EventType {
	case order.EventOrderPlaced:
		var e order.OrderPlaced
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		items := make([]readmodel.OrderItemReadModel, len(e.Items))
		for i, item := range e.Items {
			items[i] = readmodel.OrderItemReadModel{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				LineTotal:   item.LineTotal,
			}
		}
		p.readStore.Set("orders", e.OrderID, &readmodel.OrderReadModel{
			ID:            e.OrderID,
			CustomerID:    e.CustomerID,
			Items:         items,
			Total:         e.Total,
			ProductStatus: order.StatusPlaced,
			PaymentStatus: order.PaymentPending,
			ShippingAddress: readmodel.AddressReadModel{
				Address: e.ShippingAddress.Address,
				State:   e.ShippingAddress.State,
			},
			Notes: e.Notes,
			StatusHistory: []readmodel.StatusHistoryEntry{
				{Status: order.StatusPlaced, Timestamp: e.PlacedAt, UpdatedBy: e.CustomerID},
			},
			CreatedAt: e.PlacedAt,
			UpdatedAt: e.PlacedAt,
		})

	case order.EventOrderPaid:
		var e order.OrderPaid
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("orders", e.OrderID, func(current any) any {
			o := current.(*readmodel.OrderReadModel)
			o.PaymentStatus = order.PaymentPaid
			o.UpdatedAt = e.PaidAt
			return o
		})

	case order.EventOrderPicked:
		var e order.OrderPicked
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("orders", e.OrderID, func(current any) any {
			o := current.(*readmodel.OrderReadModel)
			o.ProductStatus = order.StatusPicked
			o.PaymentStatus = order.PaymentFulfilled
			o.PaymentCollected = true
			o.UpdatedAt = e.PickedAt
			o.StatusHistory = append(o.StatusHistory, readmodel.StatusHistoryEntry{
				Status: order.StatusPicked, Timestamp: e.PickedAt, UpdatedBy: e.UpdatedBy,
			})
			return o
		})

	case order.EventOrderShipped:
		var e order.OrderShipped
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("orders", e.OrderID, func(current any) any {
			o := current.(*readmodel.OrderReadModel)
			o.ProductStatus = order.StatusShipped
			o.UpdatedAt = e.ShippedAt
			o.StatusHistory = append(o.StatusHistory, readmodel.StatusHistoryEntry{
				Status: order.StatusShipped, Timestamp: e.ShippedAt, UpdatedBy: e.UpdatedBy,
			})
			return o
		})

	case order.EventOrderCancelled:
		var e order.OrderCancelled
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("orders", e.OrderID, func(current any) any {
			o := current.(*readmodel.OrderReadModel)
			o.ProductStatus = order.StatusCancelled
			o.PaymentStatus = order.PaymentCancelled
			o.PaymentCollected = false
			o.UpdatedAt = e.CancelledAt
			o.StatusHistory = append(o.StatusHistory, readmodel.StatusHistoryEntry{
				Status: order.StatusCancelled, Timestamp: e.CancelledAt, UpdatedBy: e.UpdatedBy,
			})
			return o
		})
	}

	return nil
}

func (p *Projector) handleInventoryEvent(event store.Event) error {
	switch event.EventType {
	case inventory.EventStockAdded:
		var e inventory.StockAdded
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		if existing, ok := p.readStore.Get("inventory", e.ProductID); ok {
			inv := existing.(*readmodel.InventoryReadModel)
			inv.Stock += e.Quantity
			inv.UpdatedAt = e.AddedAt
			p.readStore.Set("inventory", e.ProductID, inv)
		} else {
			p.readStore.Set("inventory", e.ProductID, &readmodel.InventoryReadModel{
				ProductID: e.ProductID,
				Stock:     e.Quantity,
				UpdatedAt: e.AddedAt,
			})
		}
		p.readStore.Update("products", e.ProductID, func(current any) any {
			prod := current.(*readmodel.ProductReadModel)
			prod.Stock += e.Quantity
			prod.UpdatedAt = e.AddedAt
			return prod
		})

	case inventory.EventStockDeducted:
		var e inventory.StockDeducted
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("inventory", e.ProductID, func(current any) any {
			inv := current.(*readmodel.InventoryReadModel)
			inv.Stock -= e.Quantity
			inv.UpdatedAt = e.DeductedAt
			return inv
		})
		p.readStore.Update("products", e.ProductID, func(current any) any {
			prod := current.(*readmodel.ProductReadModel)
			prod.Stock -= e.Quantity
			prod.UpdatedAt = e.DeductedAt
			return prod
		})

	case inventory.EventStockRestored:
		var e inventory.StockRestored
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("inventory", e.ProductID, func(current any) any {
			inv := current.(*readmodel.InventoryReadModel)
			inv.Stock += e.Quantity
			inv.UpdatedAt = e.RestoredAt
			return inv
		})
		p.readStore.Update("products", e.ProductID, func(current any) any {
			prod := current.(*readmodel.ProductReadModel)
			prod.Stock += e.Quantity
			prod.UpdatedAt = e.RestoredAt
			return prod
		})
	}

	return nil
}
