package order

import "time"

const (
	EventOrderPlaced    = "OrderPlaced"
	EventOrderPaid      = "OrderPaid"
	EventOrderPicked    = "OrderPicked"
	EventOrderShipped   = "OrderShipped"
	EventOrderCancelled = "OrderCancelled"
)

// Item snapshots product name and price at placement time so later
// catalog edits never rewrite order history.
type Item struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int    `json:"unit_price"`
	LineTotal   int    `json:"line_total"`
}

type ShippingAddress struct {
	Address string `json:"address"`
	State   string `json:"state"`
}

type OrderPlaced struct {
	OrderID         string          `json:"order_id"`
	CustomerID      string          `json:"customer_id"`
	Items           []Item          `json:"items"`
	Total           int             `json:"total"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	Notes           string          `json:"notes"`
	PlacedAt        time.Time       `json:"placed_at"`
}

type OrderPaid struct {
	OrderID string    `json:"order_id"`
	PaidAt  time.Time `json:"paid_at"`
}

type OrderPicked struct {
	OrderID   string    `json:"order_id"`
	UpdatedBy string    `json:"updated_by"`
	PickedAt  time.Time `json:"picked_at"`
}

type OrderShipped struct {
	OrderID   string    `json:"order_id"`
	UpdatedBy string    `json:"updated_by"`
	ShippedAt time.Time `json:"shipped_at"`
}

type OrderCancelled struct {
	OrderID     string    `json:"order_id"`
	UpdatedBy   string    `json:"updated_by"`
	PriorStatus string    `json:"prior_status"`
	CancelledAt time.Time `json:"cancelled_at"`
}
