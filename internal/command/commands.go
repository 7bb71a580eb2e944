package command

// Product commands
type CreateProduct struct {
	OwnerID     string `json:"owner_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       int    `json:"price"`
	Stock       int    `json:"stock"`
}

type UpdateProduct struct {
	ProductID   string `json:"product_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       int    `json:"price"`
}

type DeleteProduct struct {
	ProductID string `json:"product_id"`
}

type RestockProduct struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Order commands
type OrderItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type PlaceOrder struct {
	CustomerID string           `json:"customer_id"`
	Items      []OrderItemInput `json:"items"`
	Address    string           `json:"address"`
	State      string           `json:"state"`
	Notes      string           `json:"notes"`
}

type MarkOrderPaid struct {
	OrderID string `json:"order_id"`
}

type PickOrder struct {
	OrderID   string `json:"order_id"`
	UpdatedBy string `json:"updated_by"`
}

type ShipOrder struct {
	OrderID   string `json:"order_id"`
	UpdatedBy string `json:"updated_by"`
}

type CancelOrder struct {
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	UpdatedBy string `json:"updated_by"`
}
