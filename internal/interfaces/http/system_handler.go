package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/idcr-client/internal/application/usecase"
)

// SystemHandler salud y estadísticas de almacenamiento.
type SystemHandler struct {
	uc *usecase.SystemUseCase
}

// NewSystemHandler construye el handler.
func NewSystemHandler(uc *usecase.SystemUseCase) *SystemHandler {
	return &SystemHandler{uc: uc}
}

// Health GET /api/health (público).
func (h *SystemHandler) Health(c *fiber.Ctx) error {
	return c.JSON(h.uc.Health())
}

// Stats GET /api/system/stats.
func (h *SystemHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
