package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Ramsey-B/sage/pkg/models"
)

const (
	// OpUpsert creates or replaces a reference record
	OpUpsert = "upsert"
	// OpDelete removes a reference record
	OpDelete = "delete"
)

// ReferenceRecordMessage is the wire shape the upstream registry sync
// publishes for each reference record change.
type ReferenceRecordMessage struct {
	Op       string        `json:"op"`
	TenantID string        `json:"tenant_id"`
	ID       string        `json:"id"`
	Record   models.Record `json:"record"`
}

// IncomingMessage wraps a raw Kafka message with parsed headers
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string

	// Parsed content
	RecordMessage *ReferenceRecordMessage
}

// ParseRecordMessage parses the message value as a reference record change
func (m *IncomingMessage) ParseRecordMessage() error {
	var msg ReferenceRecordMessage
	if err := json.Unmarshal(m.Value, &msg); err != nil {
		return err
	}
	if msg.Op != OpUpsert && msg.Op != OpDelete {
		return fmt.Errorf("unknown op %q", msg.Op)
	}
	if msg.ID == "" {
		return fmt.Errorf("message is missing a record id")
	}
	m.RecordMessage = &msg
	return nil
}

// GetTenantID returns the tenant ID from the message body, falling back
// to the header.
func (m *IncomingMessage) GetTenantID() string {
	if m.RecordMessage != nil && m.RecordMessage.TenantID != "" {
		return m.RecordMessage.TenantID
	}
	return m.Headers["tenant_id"]
}
