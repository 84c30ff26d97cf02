package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Prym-aero/PRYM-IMS-sub001/internal/dto"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/middleware"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/models"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/service"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/utils"
)

// ItemHandler exposes inventory item lifecycle endpoints.
type ItemHandler struct {
	service service.ItemService
	logger  zerolog.Logger
}

// NewItemHandler constructs an item handler.
func NewItemHandler(service service.ItemService, logger zerolog.Logger) *ItemHandler {
	return &ItemHandler{
		service: service,
		logger:  logger.With().Str("component", "item_handler").Logger(),
	}
}

// Register wires item routes with their role guards.
func (h *ItemHandler) Register(router fiber.Router) {
	adder := middleware.RequireRole(string(models.RoleAdmin), string(models.RoleAdder))
	keeper := middleware.RequireRole(string(models.RoleAdmin), string(models.RoleInventory))

	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", adder, h.add)
	router.Post("/:id/qr", adder, h.generateQR)
	router.Put("/:id", keeper, h.update)
	router.Delete("/:id", keeper, h.remove)
}

func (h *ItemHandler) add(c *fiber.Ctx) error {
	var req dto.ItemCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Add(c.UserContext(), actorFromContext(c), req)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "item added", response)
}

func (h *ItemHandler) update(c *fiber.Ctx) error {
	var req dto.ItemUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Update(c.UserContext(), actorFromContext(c), c.Params("id"), req)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "item updated", response)
}

func (h *ItemHandler) remove(c *fiber.Ctx) error {
	if err := h.service.Remove(c.UserContext(), actorFromContext(c), c.Params("id")); err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "item removed", nil)
}

func (h *ItemHandler) get(c *fiber.Ctx) error {
	response, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "item", response)
}

func (h *ItemHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size")
	}

	req := dto.ItemListRequest{
		Page:        page,
		PageSize:    pageSize,
		Status:      c.Query("status"),
		AllotmentNo: c.Query("allotment_no"),
	}

	response, err := h.service.List(c.UserContext(), req)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "items", response)
}

func (h *ItemHandler) generateQR(c *fiber.Ctx) error {
	response, err := h.service.GenerateQR(c.UserContext(), actorFromContext(c), c.Params("id"))
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "qr generated", response)
}
