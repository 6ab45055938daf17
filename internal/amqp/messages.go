package amqp

import (
	"encoding/json"
	"time"
)

// ReportReadyMessage announces a finished audit run to the delivery
// worker. It carries artifact paths rather than report bodies; the
// worker reads the files itself. Recipient lists are passed through
// from the run configuration unaltered.
type ReportReadyMessage struct {
	ReportDate        string    `json:"report_date"`
	DocumentPath      string    `json:"document_path"`
	PlaintextPath     string    `json:"plaintext_path"`
	CampaignCount     int       `json:"campaign_count"`
	ChangesDetected   int       `json:"changes_detected"`
	PrimaryRecipients []string  `json:"primary_recipients"`
	CCRecipients      []string  `json:"cc_recipients"`
	Timestamp         time.Time `json:"timestamp"`
}

// ToJSON converts the message to JSON bytes
func (m *ReportReadyMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportReadyMessageFromJSON creates a message from JSON bytes
func ReportReadyMessageFromJSON(data []byte) (*ReportReadyMessage, error) {
	var msg ReportReadyMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
