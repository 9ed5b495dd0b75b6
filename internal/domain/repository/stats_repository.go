package repository

import (
	"context"
	"time"

	"github.com/jhoicas/idcr-client/internal/domain/entity"
)

// StatsRepository agregados de documentos para dashboard y analítica.
// now fija el final de la ventana de tendencia.
type StatsRepository interface {
	Aggregate(ctx context.Context, filter entity.StatsFilter, now time.Time) (entity.Stats, error)
}
