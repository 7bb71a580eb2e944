package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/oms-backend/internal/domain/inventory"
	"github.com/example/oms-backend/internal/domain/order"
	"github.com/example/oms-backend/internal/domain/product"
	"github.com/example/oms-backend/internal/domain/user"
	"github.com/example/oms-backend/internal/infrastructure/store"
)

var (
	ErrItemNotInOrder  = errors.New("product not part of order")
	ErrAddressRequired = errors.New("shipping address and state required")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

type Handler struct {
	userSvc      *user.Service
	productSvc   *product.Service
	orderSvc     *order.Service
	inventorySvc *inventory.Service
	readStore    store.ReadStoreInterface
}

func NewHandler(
	userSvc *user.Service,
	productSvc *product.Service,
	orderSvc *order.Service,
	inventorySvc *inventory.Service,
	readStore store.ReadStoreInterface,
) *Handler {
	return &Handler{
		userSvc:      userSvc,
		productSvc:   productSvc,
		orderSvc:     orderSvc,
		inventorySvc: inventorySvc,
		readStore:    readStore,
	}
}

// CreateProduct creates a product and seeds its inventory stream.
// Read models catch up asynchronously via the Kafka consumer.
func (h *Handler) CreateProduct(ctx context.Context, cmd CreateProduct) (*product.Product, error) {
	p, err := h.productSvc.Create(ctx, cmd.OwnerID, cmd.Name, cmd.Description, cmd.Category, cmd.Price, cmd.Stock)
	if err != nil {
		return nil, err
	}

	if cmd.Stock > 0 {
		if err := h.inventorySvc.AddStock(ctx, p.ID, cmd.Stock); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// UpdateProduct updates catalog fields. Stock is not touched here, the
// inventory stream owns it.
func (h *Handler) UpdateProduct(ctx context.Context, cmd UpdateProduct) (*product.Product, error) {
	return h.productSvc.Update(ctx, cmd.ProductID, cmd.Name, cmd.Description, cmd.Category, cmd.Price)
}

// DeleteProduct marks a product deleted.
func (h *Handler) DeleteProduct(ctx context.Context, cmd DeleteProduct) error {
	return h.productSvc.Delete(ctx, cmd.ProductID)
}

// RestockProduct credits stock to an existing product.
func (h *Handler) RestockProduct(ctx context.Context, cmd RestockProduct) error {
	if _, err := h.productSvc.Get(ctx, cmd.ProductID); err != nil {
		return err
	}
	return h.inventorySvc.AddStock(ctx, cmd.ProductID, cmd.Quantity)
}

// PlaceOrder records a new order. Product name and price are snapshotted
// onto the order items so later catalog edits never rewrite history.
// Stock is only pre-checked here, not committed: the debit happens when
// the order is picked.
func (h *Handler) PlaceOrder(ctx context.Context, cmd PlaceOrder) (*order.Order, error) {
	if len(cmd.Items) == 0 {
		return nil, order.ErrNoItems
	}
	if cmd.Address == "" || cmd.State == "" {
		return nil, ErrAddressRequired
	}

	if _, ok := h.readStore.Get("users", cmd.CustomerID); !ok {
		return nil, user.ErrUserNotFound
	}

	var items []order.Item
	for _, in := range cmd.Items {
		if in.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}

		p, err := h.productSvc.Get(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}

		inv, err := h.inventorySvc.Get(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}
		if inv.Stock < in.Quantity {
			return nil, fmt.Errorf("%w: product %s", inventory.ErrInsufficientStock, in.ProductID)
		}

		items = append(items, order.Item{
			ProductID:   in.ProductID,
			ProductName: p.Name,
			Quantity:    in.Quantity,
			UnitPrice:   p.Price,
			LineTotal:   in.Quantity * p.Price,
		})
	}

	addr := order.ShippingAddress{Address: cmd.Address, State: cmd.State}
	return h.orderSvc.Place(ctx, cmd.CustomerID, items, addr, cmd.Notes)
}

// MarkOrderPaid records payment against the order.
func (h *Handler) MarkOrderPaid(ctx context.Context, cmd MarkOrderPaid) (*order.Order, error) {
	return h.orderSvc.MarkPaid(ctx, cmd.OrderID)
}

// PickOrder commits the order's stock. All item inventories are checked
// up front so a short item rejects the pick before anything is debited.
// The debits then land first and the conditional OrderPicked append comes
// last: a debit that fails partway, or a lost race on the order version,
// credits back everything already taken, so an order is never picked with
// only part of its stock withheld and a failed pick never keeps stock.
func (h *Handler) PickOrder(ctx context.Context, cmd PickOrder) (*order.Order, error) {
	o, err := h.orderSvc.Get(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if !order.CanTransition(o.Status, order.StatusPicked) {
		return nil, fmt.Errorf("%w: %s -> %s", order.ErrInvalidTransition, o.Status, order.StatusPicked)
	}

	for _, item := range o.Items {
		inv, err := h.inventorySvc.Get(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if inv.Stock < item.Quantity {
			return nil, fmt.Errorf("%w: product %s", inventory.ErrInsufficientStock, item.ProductID)
		}
	}

	deducted := make([]order.Item, 0, len(o.Items))
	for _, item := range o.Items {
		if err := h.inventorySvc.Deduct(ctx, item.ProductID, o.ID, item.Quantity); err != nil {
			return nil, errors.Join(
				fmt.Errorf("deduct stock for product %s: %w", item.ProductID, err),
				h.restoreItems(ctx, o.ID, deducted),
			)
		}
		deducted = append(deducted, item)
	}

	picked, err := h.orderSvc.Pick(ctx, cmd.OrderID, cmd.UpdatedBy)
	if err != nil {
		return nil, errors.Join(err, h.restoreItems(ctx, o.ID, deducted))
	}
	return picked, nil
}

// restoreItems credits the items' quantities back to stock. A failed
// restore does not stop the loop; every item gets its attempt and the
// failures come back joined.
func (h *Handler) restoreItems(ctx context.Context, orderID string, items []order.Item) error {
	var errs []error
	for _, item := range items {
		if err := h.inventorySvc.Restore(ctx, item.ProductID, orderID, item.Quantity); err != nil {
			errs = append(errs, fmt.Errorf("restore stock for product %s: %w", item.ProductID, err))
		}
	}
	return errors.Join(errs...)
}

// ShipOrder marks a picked order shipped.
func (h *Handler) ShipOrder(ctx context.Context, cmd ShipOrder) (*order.Order, error) {
	return h.orderSvc.Ship(ctx, cmd.OrderID, cmd.UpdatedBy)
}

// CancelOrder cancels an order. The product ID names an item on the
// order and is rejected with ErrItemNotInOrder otherwise. Stock is
// restored for every item, but only when the cancel lands on a picked
// order: a placed order never debited anything, so there is nothing to
// give back, and cancelling twice cannot restore twice because the
// second cancel is rejected as an invalid transition.
func (h *Handler) CancelOrder(ctx context.Context, cmd CancelOrder) (*order.Order, error) {
	o, err := h.orderSvc.Get(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if cmd.ProductID != "" && !o.HasItem(cmd.ProductID) {
		return nil, ErrItemNotInOrder
	}

	o, priorStatus, err := h.orderSvc.Cancel(ctx, cmd.OrderID, cmd.UpdatedBy)
	if err != nil {
		return nil, err
	}

	if priorStatus == order.StatusPicked {
		if err := h.restoreItems(ctx, o.ID, o.Items); err != nil {
			return nil, err
		}
	}
	return o, nil
}
