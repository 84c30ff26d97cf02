package handler

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Prym-aero/PRYM-IMS-sub001/internal/service"
	"github.com/Prym-aero/PRYM-IMS-sub001/internal/utils"
)

// DocumentHandler handles ad-hoc document uploads.
type DocumentHandler struct {
	service service.DocumentService
	logger  zerolog.Logger
}

// NewDocumentHandler constructs a document handler.
func NewDocumentHandler(service service.DocumentService, logger zerolog.Logger) *DocumentHandler {
	return &DocumentHandler{
		service: service,
		logger:  logger.With().Str("component", "document_handler").Logger(),
	}
}

// Register wires document routes.
func (h *DocumentHandler) Register(router fiber.Router) {
	router.Post("", h.upload)
}

func (h *DocumentHandler) upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	handle, err := file.Open()
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "failed to open file")
	}
	defer handle.Close()

	payload, err := io.ReadAll(handle)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "failed to read file")
	}

	response, err := h.service.Publish(c.UserContext(), file.Filename, payload)
	if err != nil {
		h.logger.Warn().Err(err).Str("name", file.Filename).Msg("document upload rejected")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "document stored", response)
}
