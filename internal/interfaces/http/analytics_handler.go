package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/idcr-client/internal/application/dto"
	"github.com/jhoicas/idcr-client/internal/application/usecase"
)

// AnalyticsHandler indicadores filtrados por departamento y rango de fechas.
type AnalyticsHandler struct {
	uc *usecase.StatsUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *usecase.StatsUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// GetAnalytics godoc
// @Summary      Analítica de documentos
// @Description  Mismos indicadores que /stats más la tendencia diaria, acotados por departamento y fechas.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        department  query  string  false  "departamento"
// @Param        from        query  string  false  "desde (YYYY-MM-DD)"
// @Param        to          query  string  false  "hasta, inclusive (YYYY-MM-DD)"
// @Success      200  {object}  dto.StatsSnapshot
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/analytics [get]
func (h *AnalyticsHandler) GetAnalytics(c *fiber.Ctx) error {
	var req dto.AnalyticsFilter
	if err := c.QueryParser(&req); err != nil {
		return badRequest(c, "INVALID_PARAMS", "invalid query parameters")
	}
	report, err := h.uc.Analytics(c.Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}
