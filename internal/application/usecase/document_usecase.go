package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/idcr-client/internal/application/dto"
	"github.com/jhoicas/idcr-client/internal/domain"
	"github.com/jhoicas/idcr-client/internal/domain/entity"
	"github.com/jhoicas/idcr-client/internal/domain/repository"
	"github.com/jhoicas/idcr-client/pkg/logger"
)

const maxListLimit = 500

// DocumentUseCase listado, detalle, revisión, borrado y descarga.
type DocumentUseCase struct {
	docs  repository.DocumentRepository
	users repository.UserRepository
	tx    repository.TxRunner
	log   *logger.Logger
	now   func() time.Time
}

// NewDocumentUseCase construye el caso de uso. tx confirma juntas la revisión y su aviso.
func NewDocumentUseCase(docs repository.DocumentRepository, users repository.UserRepository, tx repository.TxRunner, log *logger.Logger) *DocumentUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &DocumentUseCase{docs: docs, users: users, tx: tx, log: log, now: time.Now}
}

// List devuelve los documentos visibles para el actor, más nuevos primero.
func (uc *DocumentUseCase) List(ctx context.Context, actor Actor, in dto.DocumentFilter) ([]dto.Document, error) {
	if !entity.ValidSortBy(in.SortBy) {
		return nil, fmt.Errorf("%w: sort_by %q", domain.ErrInvalidInput, in.SortBy)
	}
	if in.Limit < 0 {
		return nil, fmt.Errorf("%w: limit negativo", domain.ErrInvalidInput)
	}
	limit := in.Limit
	if limit == 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	filter := actor.scope(entity.DocumentFilter{
		Search:     strings.TrimSpace(in.Search),
		Department: strings.ToLower(strings.TrimSpace(in.Department)),
		Status:     in.Status,
		SortBy:     in.SortBy,
		Limit:      limit,
	})
	docs, err := uc.docs.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, ToDocumentDTO(d, false))
	}
	return out, nil
}

// Get detalle con texto extraído. ErrNotFound si no existe o no es visible.
func (uc *DocumentUseCase) Get(ctx context.Context, actor Actor, id string) (*dto.Document, error) {
	d, err := uc.visible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	out := ToDocumentDTO(d, true)
	return &out, nil
}

// Review aplica approved/rejected y avisa al autor de la subida.
func (uc *DocumentUseCase) Review(ctx context.Context, actor Actor, id string, in dto.ReviewRequest) error {
	if !actor.CanReview() {
		return domain.ErrForbidden
	}
	if !entity.ValidReviewStatus(in.Status) {
		return fmt.Errorf("%w: status %q", domain.ErrInvalidInput, in.Status)
	}
	d, err := uc.visible(ctx, actor, id)
	if err != nil {
		return err
	}

	reviewer := actor.UserID
	if u, err := uc.users.FindByID(ctx, actor.UserID); err == nil && u != nil {
		reviewer = u.FullName
	}
	now := uc.now().UTC()
	d.Review(in.Status, reviewer, strings.TrimSpace(in.Comments), now)

	n := &entity.Notification{
		ID:           uuid.New().String(),
		Subject:      fmt.Sprintf("Document Review Complete: %s - %s", d.Filename, strings.ToUpper(in.Status)),
		SentBy:       systemSender,
		RecipientID:  d.UploadedBy,
		SentAt:       now,
		Status:       "delivered",
		DocumentID:   d.ID,
		DocumentName: d.Filename,
		Department:   d.Department,
		Priority:     d.Priority,
		BodyPreview:  fmt.Sprintf("Your document has been %s by %s.", in.Status, reviewer),
	}
	if u, err := uc.users.FindByID(ctx, d.UploadedBy); err == nil && u != nil {
		n.ReceivedBy = u.Email
	}

	err = uc.tx.Run(ctx, func(docs repository.DocumentRepository, notifs repository.NotificationRepository) error {
		if err := docs.Update(ctx, d); err != nil {
			return err
		}
		return notifs.Create(ctx, n)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("doc_id", d.ID).Str("status", in.Status).Str("reviewer", actor.UserID).Msg("documento revisado")
	return nil
}

// Delete elimina un documento visible. Solo admin y manager.
func (uc *DocumentUseCase) Delete(ctx context.Context, actor Actor, id string) error {
	if !actor.CanReview() {
		return domain.ErrForbidden
	}
	if _, err := uc.visible(ctx, actor, id); err != nil {
		return err
	}
	return uc.docs.Delete(ctx, id)
}

// DownloadFile contenido original de un documento.
type DownloadFile struct {
	Filename string
	MimeType string
	Content  []byte
}

// Download devuelve los bytes originales.
func (uc *DocumentUseCase) Download(ctx context.Context, actor Actor, id string) (*DownloadFile, error) {
	d, err := uc.visible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	mt := d.MimeType
	if mt == "" {
		mt = "application/octet-stream"
	}
	return &DownloadFile{Filename: d.Filename, MimeType: mt, Content: d.Content}, nil
}

func (uc *DocumentUseCase) visible(ctx context.Context, actor Actor, id string) (*entity.Document, error) {
	d, err := uc.docs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil || !actor.canSee(d) {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

// ToDocumentDTO proyecta la entidad. withText incluye el texto extraído.
func ToDocumentDTO(d *entity.Document, withText bool) dto.Document {
	out := dto.Document{
		ID:               d.ID,
		Filename:         d.Filename,
		DocumentType:     d.DocumentType,
		Department:       d.Department,
		Status:           d.Status,
		Priority:         d.Priority,
		UploadedBy:       d.UploadedBy,
		UploadedAt:       dto.NewTimestamp(d.UploadedAt),
		FileSize:         d.FileSize,
		Summary:          d.Summary,
		MimeType:         d.MimeType,
		ProcessingStatus: d.ProcessingStatus,
		ClassificationConfidence: decimal.NullDecimal{
			Decimal: d.ClassificationConfidence,
			Valid:   !d.ClassificationConfidence.IsZero(),
		},
		ReviewedBy:     d.ReviewedBy,
		ReviewComments: d.ReviewComments,
	}
	if d.ReviewedAt != nil {
		ts := dto.NewTimestamp(*d.ReviewedAt)
		out.ReviewedAt = &ts
	}
	if withText {
		out.ExtractedText = d.ExtractedText
	}
	return out
}
