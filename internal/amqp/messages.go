package amqp

import (
	"encoding/json"
	"time"
)

// RecordChangedMessage announces one committed record mutation. It
// carries only the coordinates of the change; consumers fetch current
// state from the store, so a stale message can never resurrect old data.
type RecordChangedMessage struct {
	Kind      string    `json:"kind"` // transaction, account, category, objective, loan
	Op        string    `json:"op"`   // insert, update, delete
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordChangedMessage(kind, op string, id int64) *RecordChangedMessage {
	return &RecordChangedMessage{
		Kind:      kind,
		Op:        op,
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *RecordChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecordChangedMessageFromJSON(data []byte) (*RecordChangedMessage, error) {
	var msg RecordChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
