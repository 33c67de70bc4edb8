package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

type EventType string

const (
	EventExpenseSaved   EventType = "expense.saved"
	EventExpenseDeleted EventType = "expense.deleted"
)

// ExpenseEvent announces a change to one expense. Consumers read the record
// back from the store; the event carries only its ID.
type ExpenseEvent struct {
	Type      EventType `json:"type"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseEvent(t EventType, id string) *ExpenseEvent {
	return &ExpenseEvent{Type: t, ID: id, Timestamp: time.Now().UTC()}
}

func (m *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseEventFromJSON decodes an event and rejects unknown types and
// missing IDs.
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var msg ExpenseEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Type != EventExpenseSaved && msg.Type != EventExpenseDeleted {
		return nil, fmt.Errorf("unknown event type %q", msg.Type)
	}
	if msg.ID == "" {
		return nil, fmt.Errorf("event %s has no expense id", msg.Type)
	}
	return &msg, nil
}
