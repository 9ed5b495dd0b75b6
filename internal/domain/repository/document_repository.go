package repository

import (
	"context"

	"github.com/jhoicas/idcr-client/internal/domain/entity"
)

// DocumentRepository persistencia de documentos.
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	// FindByID devuelve (nil, nil) si no existe.
	FindByID(ctx context.Context, id string) (*entity.Document, error)
	List(ctx context.Context, filter entity.DocumentFilter) ([]*entity.Document, error)
	Update(ctx context.Context, doc *entity.Document) error
	// Delete devuelve domain.ErrNotFound si no existe.
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
