package aggregate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/oms-backend/internal/infrastructure/store"
)

// Aggregate defines the interface for event-sourced aggregates
type Aggregate interface {
	GetID() string
	GetVersion() int
	SetVersion(int)
	ApplyEvent(store.Event) error
}

// LoadAggregate rebuilds an aggregate by replaying its events into agg,
// starting from the latest snapshot when one exists. An unknown ID leaves
// agg zero-valued; callers detect absence by their own identity field.
func LoadAggregate(ctx context.Context, eventStore store.EventStoreInterface, id string, agg Aggregate) error {
	snapshot, err := eventStore.GetSnapshot(ctx, id)
	if err != nil {
		return fmt.Errorf("get snapshot: %w", err)
	}

	var events []store.Event
	if snapshot != nil {
		if err := json.Unmarshal(snapshot.State, agg); err != nil {
			return fmt.Errorf("unmarshal snapshot: %w", err)
		}
		agg.SetVersion(snapshot.Version)
		events = eventStore.GetEventsFromVersion(ctx, id, snapshot.Version)
	} else {
		events = eventStore.GetEvents(id)
	}

	for _, event := range events {
		if err := agg.ApplyEvent(event); err != nil {
			return fmt.Errorf("apply event %s: %w", event.EventType, err)
		}
	}

	return nil
}

// MaybeCreateSnapshot stores a snapshot of agg when its version has
// reached a multiple of the threshold.
func MaybeCreateSnapshot(ctx context.Context, eventStore store.EventStoreInterface, agg Aggregate, aggregateType string) error {
	version := agg.GetVersion()
	if version == 0 || version%store.SnapshotThreshold != 0 {
		return nil
	}

	state, err := json.Marshal(agg)
	if err != nil {
		return fmt.Errorf("marshal aggregate state: %w", err)
	}

	snapshot := &store.Snapshot{
		AggregateID:   agg.GetID(),
		AggregateType: aggregateType,
		Version:       version,
		State:         state,
		CreatedAt:     time.Now(),
	}

	if err := eventStore.SaveSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
