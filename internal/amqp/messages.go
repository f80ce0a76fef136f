package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// LedgerChangedMessage announces that the ledger was mutated and persisted.
// It only carries identifiers; consumers reload the record from the store.
type LedgerChangedMessage struct {
	Version    int64  `json:"version"`
	Month      string `json:"month"` // YYYY-MM of the mutated occurrence
	TemplateID string `json:"template_id"`
	Mutation   string `json:"mutation"`
	// Onward is set when every month after Month may have changed as well.
	Onward    bool      `json:"onward,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerChangedMessage stamps a change event with the current time.
func NewLedgerChangedMessage(version int64, month, templateID, mutation string) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		Version:    version,
		Month:      month,
		TemplateID: templateID,
		Mutation:   mutation,
		Timestamp:  time.Now(),
	}
}

// AndLater marks the change as reaching past Month.
func (m *LedgerChangedMessage) AndLater() *LedgerChangedMessage {
	m.Onward = true
	return m
}

func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangedMessageFromJSON decodes a message and rejects ones without a month.
func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Month == "" {
		return nil, fmt.Errorf("ledger changed message without month")
	}
	return &msg, nil
}
