package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/idcr-client/internal/application/usecase"
)

// DashboardHandler indicadores del tablero.
type DashboardHandler struct {
	uc *usecase.StatsUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *usecase.StatsUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetStats devuelve conteos por estado, departamento, tipo y prioridad.
// GET /api/stats
//
// Los indicadores son globales: no dependen del rol del llamador.
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.uc.Dashboard(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(stats)
}
