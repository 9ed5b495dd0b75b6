package service

import (
	"context"
	"time"

	"github.com/jhoicas/idcr-client/internal/application/dto"
	"github.com/jhoicas/idcr-client/internal/application/ports"
	"github.com/jhoicas/idcr-client/internal/domain"
)

const dateLayout = "2006-01-02"

// StatsService estadísticas del dashboard y analítica. Nunca cachea.
type StatsService struct {
	api ports.APIClient
}

func NewStatsService(api ports.APIClient) *StatsService {
	return &StatsService{api: api}
}

// GetDashboardStats GET /stats.
func (s *StatsService) GetDashboardStats(ctx context.Context) (*dto.StatsSnapshot, error) {
	var out dto.StatsSnapshot
	if err := s.api.Do(ctx, ports.Request{Method: "GET", Path: "/stats"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAnalytics GET /analytics con departamento y rango opcionales (YYYY-MM-DD).
func (s *StatsService) GetAnalytics(ctx context.Context, f dto.AnalyticsFilter) (*dto.StatsSnapshot, error) {
	from, err := parseDate("from", f.From)
	if err != nil {
		return nil, err
	}
	to, err := parseDate("to", f.To)
	if err != nil {
		return nil, err
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, domain.NewValidationError("to", "anterior a from", domain.ErrInvalidInput)
	}
	var out dto.StatsSnapshot
	if err := s.api.Do(ctx, ports.Request{Method: "GET", Path: "/analytics", Query: f.Query()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func parseDate(field, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "fecha inválida, formato YYYY-MM-DD", domain.ErrInvalidInput)
	}
	return t, nil
}
