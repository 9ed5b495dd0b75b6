// Package analytics contiene los casos de uso de lectura para el dashboard
// y el reporte de analítica.
package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/idcr-client/internal/application/dto"
)

const dashboardRecentDocs = 5 // documentos recientes en el widget del dashboard

// StatsFetcher fuente de los agregados (service.StatsService).
type StatsFetcher interface {
	GetDashboardStats(ctx context.Context) (*dto.StatsSnapshot, error)
}

// DocumentLister fuente del listado (service.DocumentService).
type DocumentLister interface {
	List(ctx context.Context, f dto.DocumentFilter) ([]dto.Document, error)
}

// Dashboard resultado combinado. Cada widget trae su propio error: si uno
// falla el otro se muestra igual.
type Dashboard struct {
	Stats     *dto.StatsSnapshot
	StatsErr  error
	Recent    []dto.Document
	RecentErr error
}

// Err primer error no nil, para llamadores que solo quieren un código de salida.
func (d *Dashboard) Err() error {
	if d.StatsErr != nil {
		return d.StatsErr
	}
	return d.RecentErr
}

// DashboardUseCase arma la vista inicial tras el login.
type DashboardUseCase struct {
	stats StatsFetcher
	docs  DocumentLister
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(stats StatsFetcher, docs DocumentLister) *DashboardUseCase {
	return &DashboardUseCase{stats: stats, docs: docs}
}

// Load lanza en paralelo:
//  1. GetDashboardStats          → Stats
//  2. List(limit 5, más nuevos)  → Recent
func (uc *DashboardUseCase) Load(ctx context.Context) *Dashboard {
	type statsResult struct {
		stats *dto.StatsSnapshot
		err   error
	}
	type recentResult struct {
		docs []dto.Document
		err  error
	}

	statsCh := make(chan statsResult, 1)
	recentCh := make(chan recentResult, 1)

	go func() {
		s, err := uc.stats.GetDashboardStats(ctx)
		statsCh <- statsResult{s, err}
	}()
	go func() {
		docs, err := uc.docs.List(ctx, dto.DocumentFilter{SortBy: "uploaded_at", Limit: dashboardRecentDocs})
		recentCh <- recentResult{docs, err}
	}()

	st := <-statsCh
	rc := <-recentCh

	out := &Dashboard{Stats: st.stats, Recent: rc.docs}
	if st.err != nil {
		out.StatsErr = fmt.Errorf("dashboard: estadísticas: %w", st.err)
	}
	if rc.err != nil {
		out.RecentErr = fmt.Errorf("dashboard: documentos recientes: %w", rc.err)
	}
	return out
}
