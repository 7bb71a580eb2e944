package readmodel

import "time"

// UserReadModel is the read model for users
type UserReadModel struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProductReadModel is the read model for catalog products.
// Stock mirrors the inventory aggregate so listings show availability
// without a second lookup.
type ProductReadModel struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int       `json:"price"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OrderItemReadModel is a line item snapshot taken at placement time
type OrderItemReadModel struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int    `json:"unit_price"`
	LineTotal   int    `json:"line_total"`
}

// StatusHistoryEntry is one entry of an order's append-only audit trail
type StatusHistoryEntry struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	UpdatedBy string    `json:"updated_by"`
}

// AddressReadModel is the shipping address captured at placement time
type AddressReadModel struct {
	Address string `json:"address"`
	State   string `json:"state"`
}

// OrderReadModel is the read model for orders
type OrderReadModel struct {
	ID               string               `json:"id"`
	CustomerID       string               `json:"customer_id"`
	Items            []OrderItemReadModel `json:"items"`
	Total            int                  `json:"total"`
	ProductStatus    string               `json:"product_status"`
	PaymentStatus    string               `json:"payment_status"`
	PaymentCollected bool                 `json:"payment_collected"`
	ShippingAddress  AddressReadModel     `json:"shipping_address"`
	Notes            string               `json:"notes,omitempty"`
	StatusHistory    []StatusHistoryEntry `json:"status_history"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// InventoryReadModel is the read model for product inventory
type InventoryReadModel struct {
	ProductID string    `json:"product_id"`
	Stock     int       `json:"stock"`
	UpdatedAt time.Time `json:"updated_at"`
}
