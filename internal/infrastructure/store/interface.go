package store

import "context"

// EventStoreInterface defines the interface for event stores.
// Append is conditional: it fails with ErrVersionConflict unless the
// aggregate's current version equals expectedVersion. Loading an aggregate,
// validating a transition against it and appending with the loaded version
// is therefore a single atomic operation per aggregate.
type EventStoreInterface interface {
	Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any, expectedVersion int) (*Event, error)
	GetEvents(aggregateID string) []Event
	GetEventsFromVersion(ctx context.Context, aggregateID string, fromVersion int) []Event
	GetAllEvents() []Event
	GetSnapshot(ctx context.Context, aggregateID string) (*Snapshot, error)
	SaveSnapshot(ctx context.Context, snapshot *Snapshot) error
}
