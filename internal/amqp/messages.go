package amqp

import (
	"encoding/json"
	"time"
)

// SnapshotChangedMessage announces that a domain's snapshot row was
// rewritten. It carries only the domain name; the worker reads the
// payload from the database, so a burst of changes collapses into one
// mirror of the latest state.
type SnapshotChangedMessage struct {
	Domain    string    `json:"domain"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSnapshotChangedMessage(domain string) *SnapshotChangedMessage {
	return &SnapshotChangedMessage{
		Domain:    domain,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *SnapshotChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SnapshotChangedMessageFromJSON creates a message from JSON bytes
func SnapshotChangedMessageFromJSON(data []byte) (*SnapshotChangedMessage, error) {
	var msg SnapshotChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
