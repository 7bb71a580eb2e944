package store

import (
	"database/sql"
	"encoding/json"
	"log"
	"sync"

	"github.com/example/oms-backend/internal/readmodel"
)

// PostgresReadStore implements ReadStoreInterface using PostgreSQL.
// Nested structures (order items, status history) are stored as JSONB.
type PostgresReadStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewPostgresReadStore creates a new PostgreSQL-based read store
func NewPostgresReadStore(db *sql.DB) *PostgresReadStore {
	return &PostgresReadStore{db: db}
}

// Set stores a read model
func (rs *PostgresReadStore) Set(collection, id string, data any) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	switch collection {
	case "users":
		rs.setUser(id, data.(*readmodel.UserReadModel))
	case "products":
		rs.setProduct(id, data.(*readmodel.ProductReadModel))
	case "orders":
		rs.setOrder(id, data.(*readmodel.OrderReadModel))
	case "inventory":
		rs.setInventory(id, data.(*readmodel.InventoryReadModel))
	}
}

// Get retrieves a read model by id
func (rs *PostgresReadStore) Get(collection, id string) (any, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	return rs.getUnsafe(collection, id)
}

func (rs *PostgresReadStore) getUnsafe(collection, id string) (any, bool) {
	switch collection {
	case "users":
		return rs.getUser(id)
	case "products":
		return rs.getProduct(id)
	case "orders":
		return rs.getOrder(id)
	case "inventory":
		return rs.getInventory(id)
	}
	return nil, false
}

// GetAll retrieves all items in a collection
func (rs *PostgresReadStore) GetAll(collection string) []any {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	switch collection {
	case "users":
		return rs.getAllUsers()
	case "products":
		return rs.getAllProducts()
	case "orders":
		return rs.getAllOrders()
	case "inventory":
		return rs.getAllInventory()
	}
	return nil
}

// Delete removes a read model
func (rs *PostgresReadStore) Delete(collection, id string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	table, key := tableFor(collection)
	if table == "" {
		return
	}

	_, err := rs.db.Exec("DELETE FROM "+table+" WHERE "+key+" = $1", id)
	if err != nil {
		log.Printf("[PostgresReadStore] Error deleting from %s: %v", collection, err)
	}
}

// Update modifies a read model using an update function
func (rs *PostgresReadStore) Update(collection, id string, updateFn func(current any) any) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	current, found := rs.getUnsafe(collection, id)
	if !found {
		return false
	}

	updated := updateFn(current)

	switch collection {
	case "users":
		rs.setUser(id, updated.(*readmodel.UserReadModel))
	case "products":
		rs.setProduct(id, updated.(*readmodel.ProductReadModel))
	case "orders":
		rs.setOrder(id, updated.(*readmodel.OrderReadModel))
	case "inventory":
		rs.setInventory(id, updated.(*readmodel.InventoryReadModel))
	default:
		return false
	}
	return true
}

func tableFor(collection string) (table, key string) {
	switch collection {
	case "users":
		return "read_users", "id"
	case "products":
		return "read_products", "id"
	case "orders":
		return "read_orders", "id"
	case "inventory":
		return "read_inventory", "product_id"
	}
	return "", ""
}

// Users

func (rs *PostgresReadStore) setUser(id string, u *readmodel.UserReadModel) {
	_, err := rs.db.Exec(
		`INSERT INTO read_users (id, email, password_hash, name, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id)
		 DO UPDATE SET email = $2, password_hash = $3, name = $4, role = $5, updated_at = $7`,
		id, u.Email, u.PasswordHash, u.Name, u.Role, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		log.Printf("[PostgresReadStore] Error setting user %s: %v", id, err)
	}
}

func (rs *PostgresReadStore) getUser(id string) (any, bool) {
	var u readmodel.UserReadModel
	err := rs.db.QueryRow(
		`SELECT id, email, password_hash, name, role, created_at, updated_at
		 FROM read_users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, false
	}
	return &u, true
}

func (rs *PostgresReadStore) getAllUsers() []any {
	rows, err := rs.db.Query(
		`SELECT id, email, password_hash, name, role, created_at, updated_at FROM read_users`,
	)
	if err != nil {
		log.Printf("[PostgresReadStore] Error listing users: %v", err)
		return nil
	}
	defer rows.Close()

	var items []any
	for rows.Next() {
		var u readmodel.UserReadModel
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			continue
		}
		items = append(items, &u)
	}
	return items
}

// GetUserByEmail finds a user by email without scanning the whole collection
func (rs *PostgresReadStore) GetUserByEmail(email string) (*readmodel.UserReadModel, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	var u readmodel.UserReadModel
	err := rs.db.QueryRow(
		`SELECT id, email, password_hash, name, role, created_at, updated_at
		 FROM read_users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, false
	}
	return &u, true
}

// Products

func (rs *PostgresReadStore) setProduct(id string, p *readmodel.ProductReadModel) {
	_, err := rs.db.Exec(
		`INSERT INTO read_products (id, owner_id, name, description, price, stock, category, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id)
		 DO UPDATE SET owner_id = $2, name = $3, description = $4, price = $5, stock = $6, category = $7, updated_at = $9`,
		id, p.OwnerID, p.Name, p.Description, p.Price, p.Stock, p.Category, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		log.Printf("[PostgresReadStore] Error setting product %s: %v", id, err)
	}
}

func (rs *PostgresReadStore) getProduct(id string) (any, bool) {
	var p readmodel.ProductReadModel
	err := rs.db.QueryRow(
		`SELECT id, owner_id, name, description, price, stock, category, created_at, updated_at
		 FROM read_products WHERE id = $1`, id,
	).Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, false
	}
	return &p, true
}

func (rs *PostgresReadStore) getAllProducts() []any {
	rows, err := rs.db.Query(
		`SELECT id, owner_id, name, description, price, stock, category, created_at, updated_at
		 FROM read_products ORDER BY created_at ASC`,
	)
	if err != nil {
		log.Printf("[PostgresReadStore] Error listing products: %v", err)
		return nil
	}
	defer rows.Close()

	var items []any
	for rows.Next() {
		var p readmodel.ProductReadModel
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.CreatedAt, &p.UpdatedAt); err != nil {
			continue
		}
		items = append(items, &p)
	}
	return items
}

// Orders

func (rs *PostgresReadStore) setOrder(id string, o *readmodel.OrderReadModel) {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		log.Printf("[PostgresReadStore] Error marshaling items for order %s: %v", id, err)
		return
	}
	historyJSON, err := json.Marshal(o.StatusHistory)
	if err != nil {
		log.Printf("[PostgresReadStore] Error marshaling history for order %s: %v", id, err)
		return
	}

	_, err = rs.db.Exec(
		`INSERT INTO read_orders (id, customer_id, items, total, product_status, payment_status,
		                          payment_collected, shipping_address, shipping_state, notes,
		                          status_history, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (id)
		 DO UPDATE SET items = $3, total = $4, product_status = $5, payment_status = $6,
		               payment_collected = $7, shipping_address = $8, shipping_state = $9,
		               notes = $10, status_history = $11, updated_at = $13`,
		id, o.CustomerID, itemsJSON, o.Total, o.ProductStatus, o.PaymentStatus,
		o.PaymentCollected, o.ShippingAddress.Address, o.ShippingAddress.State, o.Notes,
		historyJSON, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		log.Printf("[PostgresReadStore] Error setting order %s: %v", id, err)
	}
}

func (rs *PostgresReadStore) scanOrder(row interface{ Scan(...any) error }) (*readmodel.OrderReadModel, bool) {
	var o readmodel.OrderReadModel
	var itemsJSON, historyJSON []byte
	err := row.Scan(&o.ID, &o.CustomerID, &itemsJSON, &o.Total, &o.ProductStatus, &o.PaymentStatus,
		&o.PaymentCollected, &o.ShippingAddress.Address, &o.ShippingAddress.State, &o.Notes,
		&historyJSON, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, false
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, false
	}
	if err := json.Unmarshal(historyJSON, &o.StatusHistory); err != nil {
		return nil, false
	}
	return &o, true
}

const orderColumns = `id, customer_id, items, total, product_status, payment_status,
	payment_collected, shipping_address, shipping_state, notes, status_history, created_at, updated_at`

func (rs *PostgresReadStore) getOrder(id string) (any, bool) {
	row := rs.db.QueryRow(`SELECT `+orderColumns+` FROM read_orders WHERE id = $1`, id)
	o, ok := rs.scanOrder(row)
	if !ok {
		return nil, false
	}
	return o, true
}

func (rs *PostgresReadStore) getAllOrders() []any {
	rows, err := rs.db.Query(`SELECT ` + orderColumns + ` FROM read_orders ORDER BY created_at ASC`)
	if err != nil {
		log.Printf("[PostgresReadStore] Error listing orders: %v", err)
		return nil
	}
	defer rows.Close()

	var items []any
	for rows.Next() {
		if o, ok := rs.scanOrder(rows); ok {
			items = append(items, o)
		}
	}
	return items
}

// Inventory

func (rs *PostgresReadStore) setInventory(id string, inv *readmodel.InventoryReadModel) {
	_, err := rs.db.Exec(
		`INSERT INTO read_inventory (product_id, stock, updated_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (product_id)
		 DO UPDATE SET stock = $2, updated_at = $3`,
		id, inv.Stock, inv.UpdatedAt,
	)
	if err != nil {
		log.Printf("[PostgresReadStore] Error setting inventory %s: %v", id, err)
	}
}

func (rs *PostgresReadStore) getInventory(id string) (any, bool) {
	var inv readmodel.InventoryReadModel
	err := rs.db.QueryRow(
		`SELECT product_id, stock, updated_at FROM read_inventory WHERE product_id = $1`, id,
	).Scan(&inv.ProductID, &inv.Stock, &inv.UpdatedAt)
	if err != nil {
		return nil, false
	}
	return &inv, true
}

func (rs *PostgresReadStore) getAllInventory() []any {
	rows, err := rs.db.Query(`SELECT product_id, stock, updated_at FROM read_inventory`)
	if err != nil {
		log.Printf("[PostgresReadStore] Error listing inventory: %v", err)
		return nil
	}
	defer rows.Close()

	var items []any
	for rows.Next() {
		var inv readmodel.InventoryReadModel
		if err := rows.Scan(&inv.ProductID, &inv.Stock, &inv.UpdatedAt); err != nil {
			continue
		}
		items = append(items, &inv)
	}
	return items
}
