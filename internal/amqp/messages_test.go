package amqp

import (
	"testing"
	"time"
)

func TestSnapshotChangedMessageRoundTrip(t *testing.T) {
	msg := NewSnapshotChangedMessage("expenses")
	if msg.Domain != "expenses" {
		t.Fatalf("domain = %q", msg.Domain)
	}
	if msg.Timestamp.IsZero() {
		t.Fatal("timestamp not set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	decoded, err := SnapshotChangedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if decoded.Domain != msg.Domain {
		t.Errorf("domain = %q, want %q", decoded.Domain, msg.Domain)
	}
	if !decoded.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("timestamp = %v, want %v", decoded.Timestamp, msg.Timestamp)
	}
}

func TestSnapshotChangedMessageFromJSONInvalid(t *testing.T) {
	if _, err := SnapshotChangedMessageFromJSON([]byte("not json")); err == nil {
		t.Error("expected error for malformed body")
	}
}

func TestSnapshotChangedMessageTimestampSerialization(t *testing.T) {
	msg := &SnapshotChangedMessage{
		Domain:    "rent_payments",
		Timestamp: time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC),
	}
	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	decoded, err := SnapshotChangedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if !decoded.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("timestamp = %v, want %v", decoded.Timestamp, msg.Timestamp)
	}
}
