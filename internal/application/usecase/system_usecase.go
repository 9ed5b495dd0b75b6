package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/idcr-client/internal/application/dto"
	"github.com/jhoicas/idcr-client/internal/domain/repository"
)

// SystemUseCase salud y métricas del proceso.
type SystemUseCase struct {
	service string
	docs    repository.DocumentRepository
	users   repository.UserRepository
	started time.Time
	now     func() time.Time
}

// NewSystemUseCase construye el caso de uso; el uptime cuenta desde aquí.
func NewSystemUseCase(service string, docs repository.DocumentRepository, users repository.UserRepository) *SystemUseCase {
	return &SystemUseCase{service: service, docs: docs, users: users, started: time.Now(), now: time.Now}
}

// Health no toca los repositorios.
func (uc *SystemUseCase) Health() dto.HealthStatus {
	return dto.HealthStatus{Status: "healthy", Service: uc.service, Time: dto.NewTimestamp(uc.now())}
}

// Stats conteos y uptime.
func (uc *SystemUseCase) Stats(ctx context.Context) (*dto.SystemStats, error) {
	docs, err := uc.docs.Count(ctx)
	if err != nil {
		return nil, err
	}
	users, err := uc.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.SystemStats{
		Documents:     docs,
		Users:         users,
		UptimeSeconds: int64(uc.now().Sub(uc.started).Seconds()),
	}, nil
}
