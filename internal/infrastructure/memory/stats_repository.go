package memory

import (
	"context"
	"time"

	"github.com/jhoicas/idcr-client/internal/domain/entity"
	"github.com/jhoicas/idcr-client/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo agrega en memoria sobre cualquier DocumentRepository.
type StatsRepo struct {
	docs repository.DocumentRepository
}

// NewStatsRepository construye el agregador.
func NewStatsRepository(docs repository.DocumentRepository) *StatsRepo {
	return &StatsRepo{docs: docs}
}

func (r *StatsRepo) Aggregate(ctx context.Context, filter entity.StatsFilter, now time.Time) (entity.Stats, error) {
	docs, err := r.docs.List(ctx, entity.DocumentFilter{Department: filter.Department})
	if err != nil {
		return entity.Stats{}, err
	}
	inRange := docs[:0]
	for _, d := range docs {
		if filter.From != nil && d.UploadedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !d.UploadedAt.Before(*filter.To) {
			continue
		}
		inRange = append(inRange, d)
	}
	return entity.ComputeStats(inRange, now), nil
}
