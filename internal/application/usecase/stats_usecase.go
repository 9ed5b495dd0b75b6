package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/idcr-client/internal/application/dto"
	"github.com/jhoicas/idcr-client/internal/domain"
	"github.com/jhoicas/idcr-client/internal/domain/entity"
	"github.com/jhoicas/idcr-client/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// StatsUseCase agregados del dashboard y analítica filtrada.
type StatsUseCase struct {
	stats repository.StatsRepository
	now   func() time.Time
}

// NewStatsUseCase construye el caso de uso.
func NewStatsUseCase(stats repository.StatsRepository) *StatsUseCase {
	return &StatsUseCase{stats: stats, now: time.Now}
}

// Dashboard agregados globales, sin filtro de visibilidad.
func (uc *StatsUseCase) Dashboard(ctx context.Context) (*dto.StatsSnapshot, error) {
	s, err := uc.stats.Aggregate(ctx, entity.StatsFilter{}, uc.now())
	if err != nil {
		return nil, err
	}
	snap := toSnapshot(s)
	return &snap, nil
}

// Analytics agregados por departamento y rango [from, to] inclusivo.
// Las tendencias cubren los 30 días que terminan en to (o hoy).
func (uc *StatsUseCase) Analytics(ctx context.Context, in dto.AnalyticsFilter) (*dto.StatsSnapshot, error) {
	filter, err := parseStatsFilter(in)
	if err != nil {
		return nil, err
	}
	ref := uc.now()
	if filter.To != nil && filter.To.Before(ref) {
		ref = *filter.To
	}
	s, err := uc.stats.Aggregate(ctx, filter, ref)
	if err != nil {
		return nil, err
	}
	snap := toSnapshot(s)
	return &snap, nil
}

// parseStatsFilter To se convierte en el inicio del día siguiente (exclusivo).
func parseStatsFilter(in dto.AnalyticsFilter) (entity.StatsFilter, error) {
	out := entity.StatsFilter{Department: strings.ToLower(strings.TrimSpace(in.Department))}
	if in.From != "" {
		t, err := time.Parse(dateLayout, in.From)
		if err != nil {
			return out, fmt.Errorf("%w: from debe ser YYYY-MM-DD", domain.ErrInvalidInput)
		}
		out.From = &t
	}
	if in.To != "" {
		t, err := time.Parse(dateLayout, in.To)
		if err != nil {
			return out, fmt.Errorf("%w: to debe ser YYYY-MM-DD", domain.ErrInvalidInput)
		}
		end := t.AddDate(0, 0, 1)
		out.To = &end
	}
	if out.From != nil && out.To != nil && !out.From.Before(*out.To) {
		return out, fmt.Errorf("%w: from posterior a to", domain.ErrInvalidInput)
	}
	return out, nil
}

func toSnapshot(s entity.Stats) dto.StatsSnapshot {
	trends := make([]dto.UploadTrend, 0, len(s.UploadTrends))
	for _, t := range s.UploadTrends {
		trends = append(trends, dto.UploadTrend{Date: t.Date, Count: t.Count})
	}
	return dto.StatsSnapshot{
		TotalDocuments:     s.TotalDocuments,
		ProcessedDocuments: s.ProcessedDocuments,
		PendingDocuments:   s.PendingDocuments,
		ErrorDocuments:     s.ErrorDocuments,
		ProcessingRate:     s.ProcessingRate,
		DepartmentStats:    s.DepartmentStats,
		DocumentTypes:      s.DocumentTypes,
		Priorities:         s.Priorities,
		UploadTrends:       trends,
	}
}
