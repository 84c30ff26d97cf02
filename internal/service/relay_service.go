package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Prym-aero/PRYM-IMS-sub001/internal/models"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/observability"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/repository"
	"github.com/Prym-aero/PRYM-IMS-sub001/pkg/relay"
)

const (
	relaySendBufferSize = 32
	relayKeepalive      = 30 * time.Second
)

// scanEventSchema constrains the raw qr-scan payload before any processing.
const scanEventSchema = `{
	"type": "object",
	"required": ["code"],
	"properties": {
		"code": {"type": "string", "minLength": 1},
		"device_id": {"type": "string"},
		"scanned_at": {"type": "string"}
	},
	"additionalProperties": false
}`

// DisplayMode marks connections that opted into receiving every scan result.
const DisplayMode = "display"

// RelayConnectionOptions wraps metadata extracted during the HTTP upgrade.
type RelayConnectionOptions struct {
	UserID        string
	Role          string
	Mode          string
	CorrelationID string
	Context       context.Context
}

// RelayService owns the scan relay channel: it accepts websocket connections,
// resolves qr-scan events against inventory and always answers with a
// qr-received event, targeted at the scanning connection and broadcast to
// display connections.
type RelayService interface {
	ServeConnection(conn *websocket.Conn, opts RelayConnectionOptions)
	Start(ctx context.Context)
}

type relayService struct {
	items      repository.ItemRepository
	activities ActivityRecorder
	redis      *redis.Client
	redisFan   string
	redisCache string
	cacheTTL   time.Duration
	nats       *nats.Conn
	natsFan    string
	schema     *jsonschema.Schema
	logger     zerolog.Logger
	tracer     trace.Tracer
	hub        *relayHub
	nodeID     string
}

// relayHub tracks active relay connections and handles delivery.
type relayHub struct {
	mu      sync.RWMutex
	clients map[*relayClient]struct{}
	log     zerolog.Logger
}

type relayClient struct {
	id      string
	conn    *websocket.Conn
	send    chan relay.Envelope
	options RelayConnectionOptions
	service *relayService
	closed  chan struct{}
	once    sync.Once
	baseCtx context.Context
}

// relayFanoutEvent carries a scan result between nodes over Redis/NATS so
// display clients attached elsewhere still see broadcasts.
type relayFanoutEvent struct {
	Source string          `json:"source"`
	Result relay.ScanResult `json:"result"`
	SentAt time.Time       `json:"sent_at"`
}

// NewRelayService creates the scan relay service. Redis and NATS handles may
// be nil; fanout and caching degrade to single-node behaviour.
func NewRelayService(
	items repository.ItemRepository,
	activities ActivityRecorder,
	redisClient *redis.Client,
	channelBase string,
	cacheTTL time.Duration,
	natsConn *nats.Conn,
	logger zerolog.Logger,
) RelayService {
	hub := &relayHub{
		clients: make(map[*relayClient]struct{}),
		log:     logger.With().Str("component", "relay_hub").Logger(),
	}

	redisFan := ""
	redisCache := ""
	natsFan := ""
	if channelBase != "" {
		redisFan = channelBase + ":scan"
		redisCache = channelBase + ":scan:last"
		natsFan = strings.ReplaceAll(channelBase, ":", ".") + ".scan"
	}

	return &relayService{
		items:      items,
		activities: activities,
		redis:      redisClient,
		redisFan:   redisFan,
		redisCache: redisCache,
		cacheTTL:   cacheTTL,
		nats:       natsConn,
		natsFan:    natsFan,
		schema:     jsonschema.MustCompileString("scan_event.json", scanEventSchema),
		logger:     logger.With().Str("component", "relay_service").Logger(),
		tracer:     otel.Tracer("github.com/Prym-aero/PRYM-IMS-sub001/internal/service/relay"),
		hub:        hub,
		nodeID:     uuid.NewString(),
	}
}

// Start launches the cross-node fanout consumers.
func (s *relayService) Start(ctx context.Context) {
	if s.redis != nil && s.redisFan != "" {
		go s.consumeRedis(ctx)
	}
	if s.nats != nil && s.natsFan != "" {
		go s.consumeNATS(ctx)
	}
}

// ServeConnection drives one relay connection until it closes. The client is
// told its connection identifier immediately after registration.
func (s *relayService) ServeConnection(conn *websocket.Conn, opts RelayConnectionOptions) {
	baseCtx := opts.Context
	if baseCtx == nil {
		baseCtx = context.Background()
	}

	client := &relayClient{
		id:      uuid.NewString(),
		conn:    conn,
		send:    make(chan relay.Envelope, relaySendBufferSize),
		options: opts,
		service: s,
		closed:  make(chan struct{}),
		baseCtx: baseCtx,
	}

	s.hub.register(client)
	observability.RelayConnections().Inc()

	if envelope, err := relay.NewEnvelope(relay.EventConnected, relay.ConnectedPayload{
		ConnectionID: client.id,
		Mode:         opts.Mode,
	}); err == nil {
		client.send <- envelope
	}

	go client.writer()
	client.reader()
}

// processScan turns one raw qr-scan payload into a result. It never returns
// silence: malformed payloads and unknown codes produce explicit error
// descriptors.
func (s *relayService) processScan(ctx context.Context, actor string, raw json.RawMessage) relay.ScanResult {
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		observability.RelayScans().WithLabelValues(relay.StatusInvalid).Inc()
		return relay.ScanResult{Status: relay.StatusInvalid, Error: "malformed scan payload"}
	}
	if err := s.schema.Validate(decoded); err != nil {
		observability.RelayScans().WithLabelValues(relay.StatusInvalid).Inc()
		return relay.ScanResult{Status: relay.StatusInvalid, Error: "scan payload failed validation"}
	}

	var event relay.ScanEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		observability.RelayScans().WithLabelValues(relay.StatusInvalid).Inc()
		return relay.ScanResult{Status: relay.StatusInvalid, Error: "malformed scan payload"}
	}

	code := strings.TrimSpace(event.Code)
	ctx, span := s.tracer.Start(ctx, "relay.scan", trace.WithAttributes(
		attribute.String("scan.code", code),
		attribute.String("scan.actor", actor),
	))
	defer span.End()

	result := relay.ScanResult{Code: code}

	item, err := s.items.FindByCode(ctx, code)
	switch {
	case errors.Is(err, repository.ErrNoDocument):
		result.Status = relay.StatusNotFound
		result.Error = fmt.Sprintf("no inventory item with code %q", code)
	case err != nil:
		span.RecordError(err)
		s.logger.Error().Err(err).Str("code", code).Msg("item lookup failed")
		result.Status = relay.StatusError
		result.Error = "inventory lookup failed"
	default:
		result.Status = relay.StatusMatched
		result.Item = &relay.ItemSummary{
			ID:          item.ID.Hex(),
			Name:        item.Name,
			Code:        item.Code,
			Quantity:    item.Quantity,
			Status:      string(item.Status),
			AllotmentNo: item.AllotmentNo,
		}
	}

	observability.RelayScans().WithLabelValues(result.Status).Inc()

	if _, err := s.activities.Record(ctx, ActivityEntry{
		Action:     fmt.Sprintf("scanned code %s (%s)", code, result.Status),
		ActionUser: actor,
		Operation:  models.OperationScan,
	}); err != nil {
		s.logger.Warn().Err(err).Str("code", code).Msg("failed to record scan activity")
	}

	s.cacheResult(ctx, result)

	return result
}

func (s *relayService) cacheResult(ctx context.Context, result relay.ScanResult) {
	if s.redis == nil || s.redisCache == "" || result.Code == "" {
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return
	}

	key := fmt.Sprintf("%s:%s", s.redisCache, result.Code)
	if err := s.redis.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache scan result")
	}
}

func (s *relayService) publish(ctx context.Context, result relay.ScanResult) {
	if (s.redis == nil || s.redisFan == "") && (s.nats == nil || s.natsFan == "") {
		return
	}

	payload, err := json.Marshal(relayFanoutEvent{
		Source: s.nodeID,
		Result: result,
		SentAt: time.Now().UTC(),
	})
	if err != nil {
		return
	}

	if s.redis != nil && s.redisFan != "" {
		if err := s.redis.Publish(ctx, s.redisFan, payload).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish scan event to redis")
		}
	}

	if s.nats != nil && s.natsFan != "" {
		if err := s.nats.Publish(s.natsFan, payload); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish scan event to nats")
		}
	}
}

func (s *relayService) consumeRedis(ctx context.Context) {
	pubsub := s.redis.Subscribe(ctx, s.redisFan)
	defer func() {
		_ = pubsub.Close()
	}()
	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Error().Err(err).Msg("relay redis subscription closed")
			return
		}
		s.handleFanout([]byte(msg.Payload))
	}
}

func (s *relayService) consumeNATS(ctx context.Context) {
	sub, err := s.nats.QueueSubscribe(s.natsFan, "ims-relay", func(msg *nats.Msg) {
		s.handleFanout(msg.Data)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to nats relay subject")
		return
	}
	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drain relay nats subscription")
		}
	}()
}

func (s *relayService) handleFanout(data []byte) {
	var event relayFanoutEvent
	if err := json.Unmarshal(data, &event); err != nil {
		s.logger.Warn().Err(err).Msg("invalid relay fanout event")
		return
	}

	if event.Source == s.nodeID {
		return
	}

	envelope, err := relay.NewEnvelope(relay.EventScanResult, event.Result)
	if err != nil {
		return
	}
	s.hub.broadcastDisplays(envelope)
}

func (h *relayHub) register(client *relayClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = struct{}{}
	h.log.Debug().Str("connection_id", client.id).Str("mode", client.options.Mode).Msg("relay client connected")
}

func (h *relayHub) unregister(client *relayClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.clients, client)
	h.log.Debug().Str("connection_id", client.id).Msg("relay client disconnected")
}

// deliver sends targeted to a single connection.
func (h *relayHub) deliver(client *relayClient, envelope relay.Envelope) {
	select {
	case client.send <- envelope:
	default:
		h.log.Warn().Str("connection_id", client.id).Msg("dropping relay message for slow client")
	}
}

// broadcastDisplays fans a scan result out to every display-mode connection.
// The originating connection receives its copy through deliver, not here.
func (h *relayHub) broadcastDisplays(envelope relay.Envelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if client.options.Mode != DisplayMode {
			continue
		}
		select {
		case client.send <- envelope:
		default:
			h.log.Warn().Str("connection_id", client.id).Msg("dropping relay broadcast for slow display")
		}
	}
}

// handleScanEvent resolves one inbound qr-scan. Display connections are
// receive-only: their scans are answered with an explicit error and never
// reach inventory, the audit trail or other clients.
func (s *relayService) handleScanEvent(c *relayClient, raw json.RawMessage) {
	if c.options.Mode == DisplayMode {
		refusal := relay.ScanResult{Status: relay.StatusInvalid, Error: "display connections are receive-only"}
		if response, err := relay.NewEnvelope(relay.EventScanResult, refusal); err == nil {
			s.hub.deliver(c, response)
		}
		return
	}

	actor := c.options.UserID
	if actor == "" {
		actor = c.id
	}

	result := s.processScan(c.baseCtx, actor, raw)

	response, err := relay.NewEnvelope(relay.EventScanResult, result)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode scan result")
		return
	}

	s.hub.deliver(c, response)
	s.hub.broadcastDisplays(response)
	s.publish(c.baseCtx, result)
}

func (c *relayClient) reader() {
	defer c.close()

	for {
		var envelope relay.Envelope
		if err := c.conn.ReadJSON(&envelope); err != nil {
			c.service.logger.Debug().Err(err).Str("connection_id", c.id).Msg("relay read loop ended")
			return
		}

		if envelope.Event != relay.EventScan {
			c.service.logger.Debug().Str("event", envelope.Event).Msg("ignoring unexpected relay event")
			continue
		}

		select {
		case <-c.closed:
			return
		default:
		}

		c.service.handleScanEvent(c, envelope.Payload)
	}
}

func (c *relayClient) writer() {
	defer c.close()

	for {
		select {
		case envelope, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteJSON(envelope); err != nil {
				c.service.logger.Debug().Err(err).Str("connection_id", c.id).Msg("relay write loop terminated")
				return
			}
		case <-time.After(relayKeepalive):
			if err := c.conn.WriteMessage(websocket.PingMessage, []byte("keepalive")); err != nil {
				c.service.logger.Debug().Err(err).Str("connection_id", c.id).Msg("relay ping failed")
				return
			}
		case <-c.closed:
			return
		}
	}
}

func (c *relayClient) close() {
	c.once.Do(func() {
		close(c.closed)
		c.service.hub.unregister(c)
		_ = c.conn.Close()
	})
}
