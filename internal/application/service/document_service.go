package service

import (
	"context"
	"io"
	"strconv"

	"github.com/jhoicas/idcr-client/internal/application/dto"
	"github.com/jhoicas/idcr-client/internal/application/ports"
	"github.com/jhoicas/idcr-client/internal/domain"
	"github.com/jhoicas/idcr-client/internal/domain/entity"
)

// DocumentService listado, detalle, revisión, borrado y descarga de documentos.
type DocumentService struct {
	api ports.APIClient
}

func NewDocumentService(api ports.APIClient) *DocumentService {
	return &DocumentService{api: api}
}

// List GET /documents con solo los filtros presentes.
func (s *DocumentService) List(ctx context.Context, f dto.DocumentFilter) ([]dto.Document, error) {
	if f.Limit < 0 {
		return nil, domain.NewValidationError("limit", "no puede ser negativo", domain.ErrInvalidInput)
	}
	var out dto.DocumentListResponse
	if err := s.api.Do(ctx, ports.Request{Method: "GET", Path: "/documents", Query: f.Query()}, &out); err != nil {
		return nil, err
	}
	if out.Documents == nil {
		out.Documents = []dto.Document{}
	}
	return out.Documents, nil
}

// Get GET /documents/{id}.
func (s *DocumentService) Get(ctx context.Context, id string) (*dto.Document, error) {
	seg, err := escapeID("id", id)
	if err != nil {
		return nil, err
	}
	var out dto.Document
	if err := s.api.Do(ctx, ports.Request{Method: "GET", Path: "/documents/" + seg}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Review POST /documents/{id}/review. Un estado distinto de approved/rejected
// se rechaza localmente sin petición.
func (s *DocumentService) Review(ctx context.Context, id string, req dto.ReviewRequest) error {
	seg, err := escapeID("id", id)
	if err != nil {
		return err
	}
	if !entity.ValidReviewStatus(req.Status) {
		return domain.NewValidationError("status", "debe ser approved o rejected, no "+strconv.Quote(req.Status), domain.ErrInvalidInput)
	}
	return s.api.Do(ctx, ports.Request{Method: "POST", Path: "/documents/" + seg + "/review", JSON: req}, nil)
}

// Approve atajo de Review con status approved.
func (s *DocumentService) Approve(ctx context.Context, id, comments string) error {
	return s.Review(ctx, id, dto.ReviewRequest{Status: entity.StatusApproved, Comments: comments})
}

// Reject atajo de Review con status rejected.
func (s *DocumentService) Reject(ctx context.Context, id, comments string) error {
	return s.Review(ctx, id, dto.ReviewRequest{Status: entity.StatusRejected, Comments: comments})
}

// Delete DELETE /documents/{id}. La confirmación es responsabilidad del llamador.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	seg, err := escapeID("id", id)
	if err != nil {
		return err
	}
	return s.api.Do(ctx, ports.Request{Method: "DELETE", Path: "/documents/" + seg}, nil)
}

// Download GET /documents/{id}/download escribiendo los bytes originales en w.
func (s *DocumentService) Download(ctx context.Context, id string, w io.Writer) error {
	seg, err := escapeID("id", id)
	if err != nil {
		return err
	}
	return s.api.Do(ctx, ports.Request{Method: "GET", Path: "/documents/" + seg + "/download"}, w)
}

