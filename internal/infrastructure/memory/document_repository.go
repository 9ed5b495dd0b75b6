package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/idcr-client/internal/domain"
	"github.com/jhoicas/idcr-client/internal/domain/entity"
	"github.com/jhoicas/idcr-client/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo documentos por id.
type DocumentRepo struct {
	mu   sync.RWMutex
	docs map[string]*entity.Document
}

// NewDocumentRepository construye el repositorio vacío.
func NewDocumentRepository() *DocumentRepo {
	return &DocumentRepo{docs: map[string]*entity.Document{}}
}

func (r *DocumentRepo) Create(_ context.Context, doc *entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[doc.ID]; ok {
		return domain.ErrInvalidInput
	}
	r.docs[doc.ID] = copyDoc(doc)
	return nil
}

func (r *DocumentRepo) FindByID(_ context.Context, id string) (*entity.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.docs[id]
	if !ok {
		return nil, nil
	}
	return copyDoc(d), nil
}

func (r *DocumentRepo) List(_ context.Context, filter entity.DocumentFilter) ([]*entity.Document, error) {
	r.mu.RLock()
	out := make([]*entity.Document, 0, len(r.docs))
	for _, d := range r.docs {
		if filter.Matches(d) {
			out = append(out, copyDoc(d))
		}
	}
	r.mu.RUnlock()

	entity.SortDocuments(out, filter.SortBy)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *DocumentRepo) Update(_ context.Context, doc *entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[doc.ID]; !ok {
		return domain.ErrNotFound
	}
	r.docs[doc.ID] = copyDoc(doc)
	return nil
}

func (r *DocumentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

func (r *DocumentRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs), nil
}

// copyDoc copia superficial; Content no se muta nunca después de crear el documento.
func copyDoc(d *entity.Document) *entity.Document {
	cp := *d
	if d.ReviewedAt != nil {
		t := *d.ReviewedAt
		cp.ReviewedAt = &t
	}
	return &cp
}
