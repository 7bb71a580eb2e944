package inventory

import "time"

const (
	EventStockAdded    = "StockAdded"
	EventStockDeducted = "StockDeducted"
	EventStockRestored = "StockRestored"
)

// Inventory aggregates are keyed by product ID, so every event carries it.

type StockAdded struct {
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

type StockDeducted struct {
	ProductID  string    `json:"product_id"`
	OrderID    string    `json:"order_id"`
	Quantity   int       `json:"quantity"`
	DeductedAt time.Time `json:"deducted_at"`
}

type StockRestored struct {
	ProductID  string    `json:"product_id"`
	OrderID    string    `json:"order_id"`
	Quantity   int       `json:"quantity"`
	RestoredAt time.Time `json:"restored_at"`
}
