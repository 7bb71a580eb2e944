package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/example/oms-backend/internal/infrastructure/kafka"
	"github.com/google/uuid"
)

// ErrVersionConflict is returned when a conditional append loses a race:
// another writer advanced the aggregate past the expected version.
var ErrVersionConflict = errors.New("aggregate version conflict")

// Event represents a domain event
type Event struct {
	ID            string          `json:"id"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	EventType     string          `json:"event_type"`
	Data          json.RawMessage `json:"data"`
	Timestamp     time.Time       `json:"timestamp"`
	Version       int             `json:"version"`
}

// MarshalJSON returns the JSON encoding of the event
func (e Event) MarshalJSON() ([]byte, error) {
	type Alias Event
	return json.Marshal(&struct{ Alias }{Alias: Alias(e)})
}

// EventStore is an in-memory event store with optimistic concurrency,
// used for local development and tests.
type EventStore struct {
	mu        sync.RWMutex
	events    map[string][]Event // aggregateID -> events
	snapshots map[string]*Snapshot
	producer  *kafka.Producer
}

func NewEventStore(producer *kafka.Producer) *EventStore {
	return &EventStore{
		events:    make(map[string][]Event),
		snapshots: make(map[string]*Snapshot),
		producer:  producer,
	}
}

// Append stores an event if the aggregate is still at expectedVersion,
// then publishes it to Kafka.
func (es *EventStore) Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any, expectedVersion int) (*Event, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	es.mu.Lock()
	current := len(es.events[aggregateID])
	if current != expectedVersion {
		es.mu.Unlock()
		return nil, ErrVersionConflict
	}
	event := Event{
		ID:            uuid.New().String(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Data:          jsonData,
		Timestamp:     time.Now(),
		Version:       current + 1,
	}
	es.events[aggregateID] = append(es.events[aggregateID], event)
	es.mu.Unlock()

	if es.producer != nil {
		if err := es.producer.Publish(ctx, aggregateID, event); err != nil {
			return nil, err
		}
	}

	return &event, nil
}

// GetEvents returns all events for an aggregate
func (es *EventStore) GetEvents(aggregateID string) []Event {
	es.mu.RLock()
	defer es.mu.RUnlock()
	return es.events[aggregateID]
}

// GetEventsFromVersion returns events for an aggregate after the given version
func (es *EventStore) GetEventsFromVersion(ctx context.Context, aggregateID string, fromVersion int) []Event {
	es.mu.RLock()
	defer es.mu.RUnlock()

	var out []Event
	for _, event := range es.events[aggregateID] {
		if event.Version > fromVersion {
			out = append(out, event)
		}
	}
	return out
}

// GetAllEvents returns all events
func (es *EventStore) GetAllEvents() []Event {
	es.mu.RLock()
	defer es.mu.RUnlock()

	var all []Event
	for _, events := range es.events {
		all = append(all, events...)
	}
	return all
}

// GetSnapshot returns the latest snapshot for an aggregate, or nil
func (es *EventStore) GetSnapshot(ctx context.Context, aggregateID string) (*Snapshot, error) {
	es.mu.RLock()
	defer es.mu.RUnlock()
	return es.snapshots[aggregateID], nil
}

// SaveSnapshot stores a snapshot, replacing any previous one
func (es *EventStore) SaveSnapshot(ctx context.Context, snapshot *Snapshot) error {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.snapshots[snapshot.AggregateID] = snapshot
	return nil
}
