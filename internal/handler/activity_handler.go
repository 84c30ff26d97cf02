package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Prym-aero/PRYM-IMS-sub001/internal/dto"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/service"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/utils"
)

// ActivityHandler exposes the audit trail listing. Entries are only ever
// created by the services themselves; there is no write endpoint.
type ActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityHandler constructs an activity handler.
func NewActivityHandler(service service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register wires activity routes.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size")
	}

	req := dto.ActivityListRequest{
		Page:       page,
		PageSize:   pageSize,
		Operation:  c.Query("operation"),
		ActionUser: c.Query("action_user"),
	}

	response, err := h.service.List(c.UserContext(), req)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "activity log", response)
}
