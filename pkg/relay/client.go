package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const defaultHandshakeTimeout = 5 * time.Second

// Handlers groups the callbacks a client can register for relay events. Nil
// handlers are skipped.
type Handlers struct {
	OnConnected  func(ConnectedPayload)
	OnScanResult func(ScanResult)
	OnError      func(error)
}

// ClientConfig configures a relay client connection.
type ClientConfig struct {
	// URL is the websocket endpoint, e.g. ws://host:8080/api/v1/relay/ws.
	URL string
	// Token is the bearer token presented during the upgrade.
	Token string
	// Mode selects targeted ("") or display delivery ("display").
	Mode string
	// HandshakeTimeout bounds the dial; defaults to 5s.
	HandshakeTimeout time.Duration
}

// Client is an explicit relay connection with a managed lifecycle. It replaces
// the implicit module-level socket of earlier tooling: construct it where it
// is used, connect, and close when done.
type Client struct {
	cfg      ClientConfig
	handlers Handlers
	logger   zerolog.Logger

	mu   sync.Mutex
	conn *websocket.Conn
	done chan struct{}
}

// NewClient constructs a relay client. Connect must be called before EmitScan.
func NewClient(cfg ClientConfig, handlers Handlers, logger zerolog.Logger) *Client {
	return &Client{
		cfg:      cfg,
		handlers: handlers,
		logger:   logger.With().Str("component", "relay_client").Logger(),
	}
}

// Connect dials the relay endpoint and starts the read loop. It returns once
// the websocket handshake completes; the connected event is delivered through
// the OnConnected handler.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return fmt.Errorf("relay client already connected")
	}

	timeout := c.cfg.HandshakeTimeout
	if timeout <= 0 {
		timeout = defaultHandshakeTimeout
	}

	dialer := websocket.Dialer{HandshakeTimeout: timeout}
	header := http.Header{}
	if c.cfg.Token != "" {
		header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	url := c.cfg.URL
	if c.cfg.Mode != "" {
		url = fmt.Sprintf("%s?mode=%s", url, c.cfg.Mode)
	}

	conn, resp, err := dialer.DialContext(ctx, url, header)
	if resp != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("failed to dial relay: %w", err)
	}

	c.conn = conn
	c.done = make(chan struct{})
	go c.readLoop(conn, c.done)

	return nil
}

// EmitScan sends a scanned code to the server. The result arrives
// asynchronously through the OnScanResult handler.
func (c *Client) EmitScan(event ScanEvent) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return fmt.Errorf("relay client not connected")
	}

	envelope, err := NewEnvelope(EventScan, event)
	if err != nil {
		return fmt.Errorf("failed to encode scan event: %w", err)
	}

	return conn.WriteJSON(envelope)
}

// Close terminates the connection and stops the read loop. Safe to call more
// than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}

	err := c.conn.Close()
	c.conn = nil
	<-c.done

	return err
}

func (c *Client) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)

	for {
		var envelope Envelope
		if err := conn.ReadJSON(&envelope); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.emitError(fmt.Errorf("relay connection lost: %w", err))
			}
			return
		}

		switch envelope.Event {
		case EventConnected:
			var payload ConnectedPayload
			if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
				c.emitError(fmt.Errorf("malformed connected payload: %w", err))
				continue
			}
			c.logger.Debug().Str("connection_id", payload.ConnectionID).Msg("relay connection established")
			if c.handlers.OnConnected != nil {
				c.handlers.OnConnected(payload)
			}
		case EventScanResult:
			var result ScanResult
			if err := json.Unmarshal(envelope.Payload, &result); err != nil {
				c.emitError(fmt.Errorf("malformed scan result payload: %w", err))
				continue
			}
			if c.handlers.OnScanResult != nil {
				c.handlers.OnScanResult(result)
			}
		default:
			c.logger.Debug().Str("event", envelope.Event).Msg("ignoring unknown relay event")
		}
	}
}

func (c *Client) emitError(err error) {
	if c.handlers.OnError != nil {
		c.handlers.OnError(err)
		return
	}
	c.logger.Warn().Err(err).Msg("relay client error")
}
