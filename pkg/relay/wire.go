// Package relay defines the wire protocol shared by the scan relay server and
// its clients, plus a websocket client implementation for scanning devices and
// display consoles.
package relay

import (
	"encoding/json"
	"time"
)

// Event names exchanged over the relay channel.
const (
	// EventConnected is sent by the server right after the upgrade and carries
	// the connection identifier assigned to the client.
	EventConnected = "connected"
	// EventScan is emitted by a scanning client with the decoded QR content.
	EventScan = "qr-scan"
	// EventScanResult carries the server's processing outcome back to clients.
	EventScanResult = "qr-received"
)

// Scan result statuses. StatusNotFound means the code resolved against
// inventory and matched nothing; StatusError means the lookup itself failed
// and the scan is worth retrying.
const (
	StatusMatched  = "matched"
	StatusNotFound = "not_found"
	StatusInvalid  = "invalid"
	StatusError    = "error"
)

// Envelope frames every message on the relay channel.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope marshals the payload and wraps it with the event name.
func NewEnvelope(event string, payload interface{}) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Event: event, Payload: raw}, nil
}

// ConnectedPayload reports the server-assigned connection identifier.
type ConnectedPayload struct {
	ConnectionID string `json:"connection_id"`
	Mode         string `json:"mode,omitempty"`
}

// ScanEvent is the payload of an EventScan message.
type ScanEvent struct {
	Code      string     `json:"code"`
	DeviceID  string     `json:"device_id,omitempty"`
	ScannedAt *time.Time `json:"scanned_at,omitempty"`
}

// ItemSummary describes the matched inventory item inside a scan result.
type ItemSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Quantity    int    `json:"quantity"`
	Status      string `json:"status"`
	AllotmentNo string `json:"allotment_no,omitempty"`
}

// ScanResult is the payload of an EventScanResult message. A scan always
// produces a result: either a matched item or an explicit error descriptor.
type ScanResult struct {
	Code   string       `json:"code"`
	Status string       `json:"status"`
	Item   *ItemSummary `json:"item,omitempty"`
	Error  string       `json:"error,omitempty"`
}
