package changefeed

import (
	"encoding/json"
	"fmt"
	"time"
)

// Entities that emit change events.
const (
	EntityDonations = "donations"
	EntityMissions  = "missions"
	EntityCharges   = "additional_charges"
)

// Actions carried by change events.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Event tells clients that a record set changed and a refetch is due. It
// deliberately carries no record payload.
type Event struct {
	Entity     string    `json:"entity"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Encode serializes the event for the broker and the redis relay channel.
func (e Event) Encode() ([]byte, error) {
	if e.Entity == "" {
		return nil, fmt.Errorf("event entity is required")
	}
	if e.Action == "" {
		return nil, fmt.Errorf("event action is required")
	}
	return json.Marshal(e)
}

// DecodeEvent parses a serialized event.
func DecodeEvent(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("decoding change event: %w", err)
	}
	if e.Entity == "" || e.Action == "" {
		return Event{}, fmt.Errorf("change event missing entity or action")
	}
	return e, nil
}
