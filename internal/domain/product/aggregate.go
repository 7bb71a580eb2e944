package product

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

const AggregateType = "product"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductDeleted  = errors.New("product deleted")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidStock    = errors.New("stock must not be negative")
	ErrNameRequired    = errors.New("product name required")
)

type Product struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       int       `json:"price"`
	Deleted     bool      `json:"deleted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

func (p *Product) GetID() string    { return p.ID }
func (p *Product) GetVersion() int  { return p.Version }
func (p *Product) SetVersion(v int) { p.Version = v }

func (p *Product) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventProductCreated:
		var e ProductCreated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return fmt.Errorf("unmarshal %s: %w", event.EventType, err)
		}
		p.ID = e.ProductID
		p.OwnerID = e.OwnerID
		p.Name = e.Name
		p.Description = e.Description
		p.Category = e.Category
		p.Price = e.Price
		p.CreatedAt = e.CreatedAt
		p.UpdatedAt = e.CreatedAt
	case EventProductUpdated:
		var e ProductUpdated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return fmt.Errorf("unmarshal %s: %w", event.EventType, err)
		}
		p.Name = e.Name
		p.Description = e.Description
		p.Category = e.Category
		p.Price = e.Price
		p.UpdatedAt = e.UpdatedAt
	case EventProductDeleted:
		var e ProductDeleted
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return fmt.Errorf("unmarshal %s: %w", event.EventType, err)
		}
		p.Deleted = true
		p.UpdatedAt = e.DeletedAt
	}
	p.Version = event.Version
	return nil
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(eventStore store.EventStoreInterface) *Service {
	return &Service{eventStore: eventStore}
}

// Create validates and records a new product. The initial stock is carried
// on the event so the projector can seed the inventory read model, but the
// running stock level lives in the inventory aggregate.
func (s *Service) Create(ctx context.Context, ownerID, name, description, category string, price, stock int) (*Product, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if price < 0 {
		return nil, ErrInvalidPrice
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}

	productID := uuid.New().String()
	event := ProductCreated{
		ProductID:   productID,
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		Category:    category,
		Price:       price,
		Stock:       stock,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.eventStore.Append(ctx, productID, AggregateType, EventProductCreated, event, 0); err != nil {
		return nil, fmt.Errorf("append %s: %w", EventProductCreated, err)
	}

	p := &Product{}
	p.ID = productID
	p.OwnerID = ownerID
	p.Name = name
	p.Description = description
	p.Category = category
	p.Price = price
	p.CreatedAt = event.CreatedAt
	p.UpdatedAt = event.CreatedAt
	p.Version = 1
	return p, nil
}

func (s *Service) Update(ctx context.Context, productID, name, description, category string, price int) (*Product, error) {
	p, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, ErrNameRequired
	}
	if price < 0 {
		return nil, ErrInvalidPrice
	}

	event := ProductUpdated{
		ProductID:   productID,
		Name:        name,
		Description: description,
		Category:    category,
		Price:       price,
		UpdatedAt:   time.Now().UTC(),
	}
	ev, err := s.eventStore.Append(ctx, productID, AggregateType, EventProductUpdated, event, p.Version)
	if err != nil {
		return nil, fmt.Errorf("append %s: %w", EventProductUpdated, err)
	}
	if applyErr := p.ApplyEvent(*ev); applyErr != nil {
		return nil, applyErr
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, productID string) error {
	p, err := s.Get(ctx, productID)
	if err != nil {
		return err
	}

	event := ProductDeleted{ProductID: productID, DeletedAt: time.Now().UTC()}
	if _, err := s.eventStore.Append(ctx, productID, AggregateType, EventProductDeleted, event, p.Version); err != nil {
		return fmt.Errorf("append %s: %w", EventProductDeleted, err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, productID string) (*Product, error) {
	p := &Product{}
	if err := aggregate.LoadAggregate(ctx, s.eventStore, productID, p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, ErrProductNotFound
	}
	if p.Deleted {
		return nil, ErrProductDeleted
	}
	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, p, AggregateType); err != nil {
		log.Printf("[Product] Failed to snapshot %s: %v", productID, err)
	}
	return p, nil
}
