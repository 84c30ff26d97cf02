package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Prym-aero/PRYM-IMS-sub001/internal/dto"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/service"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/utils"
)

// DispatchHandler exposes the dispatch workflow endpoints.
type DispatchHandler struct {
	service service.DispatchService
	logger  zerolog.Logger
}

// NewDispatchHandler constructs a dispatch handler.
func NewDispatchHandler(service service.DispatchService, logger zerolog.Logger) *DispatchHandler {
	return &DispatchHandler{
		service: service,
		logger:  logger.With().Str("component", "dispatch_handler").Logger(),
	}
}

// Register wires dispatch routes.
func (h *DispatchHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("", h.list)
}

func (h *DispatchHandler) create(c *fiber.Ctx) error {
	var req dto.DispatchCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Create(c.UserContext(), actorFromContext(c), req)
	if err != nil {
		h.logger.Warn().Err(err).Str("allotment_no", req.AllotmentNo).Msg("dispatch failed")
		return sendServiceError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "allotment dispatched", response)
}

func (h *DispatchHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size")
	}

	response, err := h.service.List(c.UserContext(), page, pageSize)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "dispatch records", response)
}
