package mocks

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/example/oms-backend/internal/infrastructure/store"
	"github.com/google/uuid"
)

// MockEventStore is a mock implementation of EventStoreInterface for testing
type MockEventStore struct {
	mu        sync.RWMutex
	events    map[string][]store.Event
	snapshots map[string]*store.Snapshot

	// For tracking calls in tests
	AppendCalls    []AppendCall
	AppendErr      error
	AppendCallback func(ctx context.Context, aggregateID, aggregateType, eventType string, data any, expectedVersion int) (*store.Event, error)

	// AppendHook runs before the normal append path. Returning an error
	// fails just that append; returning nil lets it proceed, so a test can
	// fail selected events while the rest append normally.
	AppendHook func(aggregateID, eventType string, expectedVersion int) error

	// SaveSnapshotErr, when set, is returned by SaveSnapshot.
	SaveSnapshotErr error
}

// AppendCall records parameters passed to Append
type AppendCall struct {
	AggregateID     string
	AggregateType   string
	EventType       string
	Data            any
	ExpectedVersion int
}

// NewMockEventStore creates a new MockEventStore
func NewMockEventStore() *MockEventStore {
	return &MockEventStore{
		events:      make(map[string][]store.Event),
		snapshots:   make(map[string]*store.Snapshot),
		AppendCalls: make([]AppendCall, 0),
	}
}

// Append stores an event in memory, honoring the version condition like the
// real stores do.
func (m *MockEventStore) Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any, expectedVersion int) (*store.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AppendCalls = append(m.AppendCalls, AppendCall{
		AggregateID:     aggregateID,
		AggregateType:   aggregateType,
		EventType:       eventType,
		Data:            data,
		ExpectedVersion: expectedVersion,
	})

	if m.AppendCallback != nil {
		return m.AppendCallback(ctx, aggregateID, aggregateType, eventType, data, expectedVersion)
	}

	if m.AppendErr != nil {
		return nil, m.AppendErr
	}

	if m.AppendHook != nil {
		if err := m.AppendHook(aggregateID, eventType, expectedVersion); err != nil {
			return nil, err
		}
	}

	if len(m.events[aggregateID]) != expectedVersion {
		return nil, store.ErrVersionConflict
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	event := store.Event{
		ID:            uuid.New().String(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Data:          jsonData,
		Timestamp:     time.Now(),
		Version:       expectedVersion + 1,
	}

	m.events[aggregateID] = append(m.events[aggregateID], event)
	return &event, nil
}

// GetEvents returns events for an aggregate
func (m *MockEventStore) GetEvents(aggregateID string) []store.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.events[aggregateID]
}

// GetEventsFromVersion returns events for an aggregate after the given version
func (m *MockEventStore) GetEventsFromVersion(ctx context.Context, aggregateID string, fromVersion int) []store.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []store.Event
	for _, event := range m.events[aggregateID] {
		if event.Version > fromVersion {
			out = append(out, event)
		}
	}
	return out
}

// GetAllEvents returns all events
func (m *MockEventStore) GetAllEvents() []store.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var all []store.Event
	for _, events := range m.events {
		all = append(all, events...)
	}
	return all
}

// GetSnapshot returns the stored snapshot for an aggregate, or nil
func (m *MockEventStore) GetSnapshot(ctx context.Context, aggregateID string) (*store.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshots[aggregateID], nil
}

// SaveSnapshot stores a snapshot
func (m *MockEventStore) SaveSnapshot(ctx context.Context, snapshot *store.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveSnapshotErr != nil {
		return m.SaveSnapshotErr
	}
	m.snapshots[snapshot.AggregateID] = snapshot
	return nil
}

// Reset clears all events and recorded calls
func (m *MockEventStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = make(map[string][]store.Event)
	m.snapshots = make(map[string]*store.Snapshot)
	m.AppendCalls = make([]AppendCall, 0)
	m.AppendErr = nil
	m.AppendCallback = nil
	m.AppendHook = nil
	m.SaveSnapshotErr = nil
}

// SetEvents sets events directly for testing
func (m *MockEventStore) SetEvents(aggregateID string, events []store.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[aggregateID] = events
}

// AddEvent adds a single event for testing
func (m *MockEventStore) AddEvent(aggregateID, aggregateType, eventType string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	version := len(m.events[aggregateID]) + 1
	event := store.Event{
		ID:            uuid.New().String(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Data:          jsonData,
		Timestamp:     time.Now(),
		Version:       version,
	}

	m.events[aggregateID] = append(m.events[aggregateID], event)
	return nil
}
