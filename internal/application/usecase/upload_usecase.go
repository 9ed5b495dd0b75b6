package usecase

import (
	"context"
	"fmt"
	"path/filepath"
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

// MaxFileSize límite por archivo en el servidor.
const MaxFileSize int64 = 10 << 20

const systemSender = "noreply@idcr-system.com"

var (
	classificationConfidence = decimal.RequireFromString("0.85")

	uploadExtensions = map[string]bool{
		".pdf": true, ".doc": true, ".docx": true, ".txt": true,
		".jpg": true, ".jpeg": true, ".png": true,
	}
)

// IncomingFile archivo recibido en el multipart.
type IncomingFile struct {
	Filename    string
	ContentType string
	Size        int64
	Content     []byte
}

// UploadUseCase carga masiva: valida, clasifica, persiste y avisa.
type UploadUseCase struct {
	docs   repository.DocumentRepository
	users  repository.UserRepository
	notifs repository.NotificationRepository
	log    *logger.Logger
	now    func() time.Time
}

// NewUploadUseCase construye el caso de uso.
func NewUploadUseCase(docs repository.DocumentRepository, users repository.UserRepository, notifs repository.NotificationRepository, log *logger.Logger) *UploadUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UploadUseCase{docs: docs, users: users, notifs: notifs, log: log, now: time.Now}
}

// BulkUpload procesa el lote. Un archivo inválido no aborta el lote: queda en
// results con status failed. Sin archivos o sin departamento → ErrInvalidInput.
func (uc *UploadUseCase) BulkUpload(ctx context.Context, actor Actor, files []IncomingFile, opts dto.UploadOptions) (*dto.UploadResult, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: No files provided", domain.ErrInvalidInput)
	}
	dept := strings.ToLower(strings.TrimSpace(opts.Department))
	if dept == "" {
		return nil, fmt.Errorf("%w: Target department is required", domain.ErrInvalidInput)
	}
	if opts.Priority != "" && !entity.ValidPriority(opts.Priority) {
		return nil, fmt.Errorf("%w: priority %q", domain.ErrInvalidInput, opts.Priority)
	}

	now := uc.now().UTC()
	res := &dto.UploadResult{BatchID: uuid.New().String(), Results: make([]dto.FileResult, 0, len(files))}
	var uploaded []*entity.Document

	for _, f := range files {
		doc, reason := uc.buildDocument(actor, f, dept, opts.Priority, res.BatchID, now)
		if reason != "" {
			res.FailedCount++
			res.Results = append(res.Results, dto.FileResult{Filename: f.Filename, Status: dto.FileFailed, Error: reason})
			continue
		}
		if err := uc.docs.Create(ctx, doc); err != nil {
			uc.log.Error().Err(err).Str("filename", f.Filename).Msg("persistir documento")
			res.FailedCount++
			res.Results = append(res.Results, dto.FileResult{Filename: f.Filename, Status: dto.FileFailed, Error: "storage error"})
			continue
		}
		uploaded = append(uploaded, doc)
		res.UploadedCount++
		res.Results = append(res.Results, dto.FileResult{
			Filename:     doc.Filename,
			Status:       dto.FileUploaded,
			DocID:        doc.ID,
			DocumentType: doc.DocumentType,
			Department:   doc.Department,
			Priority:     doc.Priority,
		})
	}

	res.Message = fmt.Sprintf("Successfully uploaded %d files to %s department", res.UploadedCount, dept)
	if len(uploaded) > 0 {
		uc.notify(ctx, actor, dept, uploaded, now)
	}
	uc.log.Info().
		Str("batch_id", res.BatchID).
		Str("batch_name", opts.BatchName).
		Int("uploaded", res.UploadedCount).
		Int("failed", res.FailedCount).
		Msg("carga masiva procesada")
	return res, nil
}

// buildDocument devuelve el documento o el motivo de rechazo.
func (uc *UploadUseCase) buildDocument(actor Actor, f IncomingFile, dept, priority, batchID string, now time.Time) (*entity.Document, string) {
	name := filepath.Base(strings.TrimSpace(f.Filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, "Missing filename"
	}
	if f.Size > MaxFileSize || int64(len(f.Content)) > MaxFileSize {
		return nil, "File too large"
	}
	if !uploadExtensions[strings.ToLower(filepath.Ext(name))] {
		return nil, "Unsupported file type"
	}

	docType, heuristic := Classify(name)
	if priority == "" {
		priority = heuristic
	}
	text, err := ExtractText(name, f.Content)
	if err != nil {
		text = "Text extraction failed: " + err.Error()
	}
	mt := f.ContentType
	if mt == "" {
		mt = "application/octet-stream"
	}
	return &entity.Document{
		ID:                       uuid.New().String(),
		Filename:                 name,
		DocumentType:             docType,
		Department:               dept,
		Status:                   entity.StatusPending,
		ProcessingStatus:         entity.ProcessingClassified,
		Priority:                 priority,
		UploadedBy:               actor.UserID,
		UploadedAt:               now,
		FileSize:                 int64(len(f.Content)),
		MimeType:                 mt,
		Content:                  f.Content,
		ExtractedText:            text,
		Summary:                  Summarize(text),
		ClassificationConfidence: classificationConfidence,
		BatchID:                  batchID,
	}, ""
}

// notify un aviso por documento al feed del departamento y una confirmación al autor.
func (uc *UploadUseCase) notify(ctx context.Context, actor Actor, dept string, docs []*entity.Document, now time.Time) {
	uploader := actor.UserID
	uploaderEmail := ""
	if u, err := uc.users.FindByID(ctx, actor.UserID); err == nil && u != nil {
		uploader = u.FullName
		uploaderEmail = u.Email
	}

	var batch []*entity.Notification
	for _, d := range docs {
		batch = append(batch, &entity.Notification{
			ID:           uuid.New().String(),
			Subject:      "New Document Uploaded: " + d.Filename,
			SentBy:       systemSender,
			ReceivedBy:   dept + ".manager@company.com",
			SentAt:       now,
			Status:       "delivered",
			DocumentID:   d.ID,
			DocumentName: d.Filename,
			Department:   dept,
			Priority:     d.Priority,
			BodyPreview:  fmt.Sprintf("%s uploaded a new document that requires review.", uploader),
		})
	}
	batch = append(batch, &entity.Notification{
		ID:           uuid.New().String(),
		Subject:      fmt.Sprintf("Document Upload Confirmation - %d files processed", len(docs)),
		SentBy:       systemSender,
		ReceivedBy:   uploaderEmail,
		RecipientID:  actor.UserID,
		SentAt:       now,
		Status:       "delivered",
		DocumentID:   docs[0].ID,
		DocumentName: docs[0].Filename,
		Department:   dept,
		Priority:     docs[0].Priority,
		BodyPreview:  fmt.Sprintf("Your %d document(s) were sent to the %s department for review.", len(docs), strings.ToUpper(dept)),
	})

	for _, n := range batch {
		if err := uc.notifs.Create(ctx, n); err != nil {
			uc.log.Warn().Err(err).Str("subject", n.Subject).Msg("no se pudo registrar el aviso")
		}
	}
}
