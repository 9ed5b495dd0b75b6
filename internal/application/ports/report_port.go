package ports

import (
	"context"

	"github.com/jhoicas/idcr-client/internal/application/dto"
)

// ReportGenerator define el puerto de salida para generar el reporte de analítica.
// Cualquier adaptador (maroto, HTML, mock) debe implementar esta interfaz.
type ReportGenerator interface {
	GenerateAnalyticsReport(ctx context.Context, data dto.ReportData) ([]byte, error)
}
