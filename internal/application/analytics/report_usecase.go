package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/idcr-client/internal/application/dto"
	"github.com/jhoicas/idcr-client/internal/application/ports"
)

const reportRecentDocs = 10

// AnalyticsFetcher agregados filtrados (service.StatsService).
type AnalyticsFetcher interface {
	GetAnalytics(ctx context.Context, f dto.AnalyticsFilter) (*dto.StatsSnapshot, error)
}

// UserProvider perfil de quien genera el reporte (session.Manager).
type UserProvider interface {
	CurrentUser(ctx context.Context) (*dto.UserProfile, error)
}

// ReportUseCase arma el PDF de analítica con los datos del backend.
type ReportUseCase struct {
	users     UserProvider
	analytics AnalyticsFetcher
	docs      DocumentLister
	gen       ports.ReportGenerator
	now       func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(users UserProvider, analytics AnalyticsFetcher, docs DocumentLister, gen ports.ReportGenerator) *ReportUseCase {
	return &ReportUseCase{users: users, analytics: analytics, docs: docs, gen: gen, now: time.Now}
}

// Generate devuelve los bytes del PDF. A diferencia del dashboard, cualquier
// fallo aborta: un reporte parcial no sirve.
func (uc *ReportUseCase) Generate(ctx context.Context, f dto.AnalyticsFilter) ([]byte, error) {
	user, err := uc.users.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := uc.analytics.GetAnalytics(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("reporte: analítica: %w", err)
	}

	recent, err := uc.docs.List(ctx, dto.DocumentFilter{
		Department: f.Department,
		SortBy:     "uploaded_at",
		Limit:      reportRecentDocs,
	})
	if err != nil {
		return nil, fmt.Errorf("reporte: documentos recientes: %w", err)
	}

	title := "Reporte de analítica"
	if f.Department != "" {
		title += " · " + f.Department
	}

	pdf, err := uc.gen.GenerateAnalyticsReport(ctx, dto.ReportData{
		Title:       title,
		GeneratedAt: uc.now(),
		GeneratedBy: *user,
		Filter:      f,
		Stats:       *stats,
		Recent:      recent,
	})
	if err != nil {
		return nil, fmt.Errorf("reporte: generar pdf: %w", err)
	}
	return pdf, nil
}
