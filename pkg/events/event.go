package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "TURN_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// TypeTurnCompleted fires after a chat turn has been answered and
// persisted; consumers archive it and forward it to external brokers.
const TypeTurnCompleted = "TURN_COMPLETED"

func NewTurnCompleted(sessionID, question, answer, intent, route string, turn int, profile map[string]string) Event {
	return BaseEvent{
		Type: TypeTurnCompleted,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"question":   question,
			"answer":     answer,
			"intent":     intent,
			"route":      route,
			"turn":       turn,
			"profile":    profile,
		},
		OccurredAt: time.Now(),
	}
}
