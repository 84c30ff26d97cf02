package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/Prym-aero/PRYM-IMS-sub001/internal/middleware"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/models"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/service"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/utils"
)

// RelayHandler wires the scan relay websocket upgrade.
type RelayHandler struct {
	service service.RelayService
	logger  zerolog.Logger
}

// NewRelayHandler creates a relay handler instance.
func NewRelayHandler(service service.RelayService, logger zerolog.Logger) *RelayHandler {
	return &RelayHandler{
		service: service,
		logger:  logger.With().Str("component", "relay_handler").Logger(),
	}
}

// scanRoles may emit qr-scan events. Any authenticated account can still
// attach as a display.
var scanRoles = map[string]struct{}{
	string(models.RoleAdmin):     {},
	string(models.RoleScanner):   {},
	string(models.RoleInventory): {},
}

// Register binds relay routes under the provided router group.
func (h *RelayHandler) Register(router fiber.Router) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		if strings.TrimSpace(c.Query("mode")) != service.DisplayMode {
			role, _ := c.Locals("user_role").(string)
			if _, ok := scanRoles[strings.ToLower(strings.TrimSpace(role))]; !ok {
				return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
			}
		}

		ctx := c.UserContext()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx = middleware.ContextWithCorrelation(ctx, middleware.GetCorrelationID(c))
		c.Locals("request_ctx", ctx)
		return c.Next()
	})

	router.Get("/ws", websocket.New(h.handleConnection))
}

func (h *RelayHandler) handleConnection(conn *websocket.Conn) {
	userID := websocketLocalString(conn, "user_id")
	if userID == "" {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(fiber.StatusUnauthorized, "user id missing"))
		_ = conn.Close()
		return
	}

	mode := strings.TrimSpace(conn.Query("mode"))
	if mode != "" && mode != service.DisplayMode {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(fiber.StatusBadRequest, "unknown mode"))
		_ = conn.Close()
		return
	}

	baseCtx, _ := conn.Locals("request_ctx").(context.Context)

	opts := service.RelayConnectionOptions{
		UserID:        userID,
		Role:          websocketLocalString(conn, "user_role"),
		Mode:          mode,
		CorrelationID: websocketLocalString(conn, "correlation_id"),
		Context:       baseCtx,
	}

	h.logger.Info().Str("user_id", userID).Str("mode", mode).Msg("relay websocket connected")
	h.service.ServeConnection(conn, opts)
	h.logger.Info().Str("user_id", userID).Str("mode", mode).Msg("relay websocket disconnected")
}

func websocketLocalString(conn *websocket.Conn, key string) string {
	if value := conn.Locals(key); value != nil {
		switch v := value.(type) {
		case string:
			return strings.TrimSpace(v)
		default:
			return strings.TrimSpace(fmt.Sprint(v))
		}
	}
	return ""
}
