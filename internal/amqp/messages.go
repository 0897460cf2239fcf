package amqp

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// DatasetUpdatedMessage announces that a new dataset version is available.
// Consumers reload from their own backend; the message carries no rows.
type DatasetUpdatedMessage struct {
	Source    string    `json:"source"`
	Version   int       `json:"version"`
	Records   int       `json:"records"`
	Timestamp time.Time `json:"timestamp"`
}

// NewDatasetUpdatedMessage creates a message stamped with the current time.
func NewDatasetUpdatedMessage(source string, version, records int) *DatasetUpdatedMessage {
	return &DatasetUpdatedMessage{
		Source:    source,
		Version:   version,
		Records:   records,
		Timestamp: time.Now(),
	}
}

// Validate rejects messages that cannot describe a stored version.
func (m *DatasetUpdatedMessage) Validate() error {
	if m.Version < 1 {
		return fmt.Errorf("invalid version %d", m.Version)
	}
	if m.Records < 0 {
		return fmt.Errorf("invalid record count %d", m.Records)
	}
	return nil
}

// ToJSON converts the message to JSON bytes
func (m *DatasetUpdatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// DatasetUpdatedMessageFromJSON decodes and validates a message body.
func DatasetUpdatedMessageFromJSON(data []byte) (*DatasetUpdatedMessage, error) {
	if len(data) == 0 {
		return nil, errors.New("empty message body")
	}
	var msg DatasetUpdatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
