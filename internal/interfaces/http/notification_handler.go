package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/idcr-client/internal/application/dto"
	"github.com/jhoicas/idcr-client/internal/application/usecase"
)

// NotificationHandler feed de avisos del usuario.
type NotificationHandler struct {
	uc *usecase.NotificationUseCase
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(uc *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

// List godoc
// @Summary      Avisos del usuario
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        page       query  int  false  "página (desde 1)"
// @Param        page_size  query  int  false  "tamaño de página (máx. 100)"
// @Success      200  {object}  dto.NotificationListResponse
// @Router       /api/email-notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "INVALID_PARAMS", "invalid query parameters")
	}
	out, err := h.uc.List(c.Context(), actorFrom(c), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MarkRead PATCH /api/email-notifications/:id/read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.uc.MarkRead(c.Context(), actorFrom(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Notification marked as read"})
}

// UnreadCount GET /api/email-notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	out, err := h.uc.UnreadCount(c.Context(), actorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
