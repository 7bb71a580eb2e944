package kinesis

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/example/oms-backend/internal/infrastructure/store"
)

// ConvertFromKinesisRecord converts a Kinesis record carrying a DynamoDB
// Streams payload into a store.Event. The DynamoDB Kinesis integration
// wraps each stream record in the Kinesis data blob.
func ConvertFromKinesisRecord(record events.KinesisEventRecord) (*store.Event, error) {
	var streamRecord events.DynamoDBEventRecord
	if err := json.Unmarshal(record.Kinesis.Data, &streamRecord); err != nil {
		return nil, fmt.Errorf("unmarshal stream record: %w", err)
	}
	return ConvertFromDynamoDBStreamRecord(streamRecord)
}

// ConvertFromDynamoDBStreamRecord converts a DynamoDB Stream record into a
// store.Event. Only INSERTs matter: the event table is append-only, so
// MODIFY/REMOVE records (snapshot upserts, TTL expiry) are skipped by
// returning a nil event.
func ConvertFromDynamoDBStreamRecord(record events.DynamoDBEventRecord) (*store.Event, error) {
	if record.EventName != "INSERT" {
		return nil, nil
	}
	return convertImage(record.Change.NewImage)
}

func convertImage(image map[string]events.DynamoDBAttributeValue) (*store.Event, error) {
	if image == nil {
		return nil, fmt.Errorf("stream record has no new image")
	}

	event := &store.Event{}

	if v, ok := image["id"]; ok {
		event.ID = v.String()
	}
	if v, ok := image["aggregate_id"]; ok {
		event.AggregateID = v.String()
	}
	if v, ok := image["aggregate_type"]; ok {
		event.AggregateType = v.String()
	}
	if v, ok := image["event_type"]; ok {
		event.EventType = v.String()
	}
	if v, ok := image["data"]; ok {
		event.Data = json.RawMessage(v.String())
	}
	if v, ok := image["created_at"]; ok {
		t, err := time.Parse(time.RFC3339Nano, v.String())
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		event.Timestamp = t
	}
	if v, ok := image["version"]; ok {
		version, err := v.Integer()
		if err != nil {
			return nil, fmt.Errorf("parse version: %w", err)
		}
		event.Version = int(version)
	}

	if event.ID == "" || event.AggregateID == "" || event.EventType == "" {
		return nil, fmt.Errorf("missing required fields: id=%s, aggregate_id=%s, event_type=%s",
			event.ID, event.AggregateID, event.EventType)
	}

	return event, nil
}

// BatchConvertFromKinesisEvent converts every record in a Kinesis event.
// One bad record does not poison the batch: it is collected as an error
// and the rest are still converted.
func BatchConvertFromKinesisEvent(kinesisEvent events.KinesisEvent) ([]*store.Event, []error) {
	var eventList []*store.Event
	var errs []error

	for _, record := range kinesisEvent.Records {
		event, err := ConvertFromKinesisRecord(record)
		if err != nil {
			errs = append(errs, fmt.Errorf("record %s: %w", record.EventID, err))
			continue
		}
		if event != nil {
			eventList = append(eventList, event)
		}
	}

	return eventList, errs
}
