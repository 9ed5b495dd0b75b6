package service

import (
	"context"

	"github.com/jhoicas/idcr-client/internal/application/dto"
	"github.com/jhoicas/idcr-client/internal/application/ports"
)

// SystemService salud y métricas del backend.
type SystemService struct {
	api ports.APIClient
}

func NewSystemService(api ports.APIClient) *SystemService {
	return &SystemService{api: api}
}

// Health GET /health (no requiere sesión).
func (s *SystemService) Health(ctx context.Context) (*dto.HealthStatus, error) {
	var out dto.HealthStatus
	if err := s.api.Do(ctx, ports.Request{Method: "GET", Path: "/health"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats GET /system/stats.
func (s *SystemService) Stats(ctx context.Context) (*dto.SystemStats, error) {
	var out dto.SystemStats
	if err := s.api.Do(ctx, ports.Request{Method: "GET", Path: "/system/stats"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
