// Package events defines the user domain event wire format and the
// producer/consumer pair that moves events across the broker while
// preserving request correlation.
package events

import (
	"encoding/json"

	"github.com/auth-platform/user-service/internal/user"
)

// Exchange and queue names shared by the producer and consumer.
const (
	Exchange = "user_events"
	Queue    = "user_events_queue"
)

// RoutingKeys lists every event type the consumer subscribes to.
func RoutingKeys() []string {
	return []string{user.EventCreated, user.EventUpdated, user.EventDeleted}
}

// EventData carries the entity reference. Events carry no further business
// payload; consumers re-fetch state when they need it.
type EventData struct {
	UserID int64 `json:"user_id"`
}

// Event is the message body published for every completed user mutation.
// All three fields are mandatory.
type Event struct {
	EventType string    `json:"event_type"`
	Data      EventData `json:"data"`
	TraceID   string    `json:"trace_id"`
}

// Encode encodes an event to JSON.
func Encode(event Event) ([]byte, error) {
	return json.Marshal(event)
}

// Decode decodes an event from JSON.
func Decode(data []byte) (Event, error) {
	var event Event
	err := json.Unmarshal(data, &event)
	return event, err
}
