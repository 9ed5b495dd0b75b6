package service

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jhoicas/idcr-client/internal/application/dto"
	"github.com/jhoicas/idcr-client/internal/application/ports"
	"github.com/jhoicas/idcr-client/internal/domain"
	"github.com/jhoicas/idcr-client/internal/domain/entity"
)

// MaxUploadSize límite por archivo (10 MiB), igual al del servidor.
const MaxUploadSize int64 = 10 << 20

// allowedTypes extensión → tipos MIME aceptados. jpeg es alias de jpg.
var allowedTypes = map[string][]string{
	".pdf":  {"application/pdf"},
	".doc":  {"application/msword"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	".txt":  {"text/plain"},
	".jpg":  {"image/jpeg", "image/jpg"},
	".jpeg": {"image/jpeg", "image/jpg"},
	".png":  {"image/png"},
}

// AllowedExtensions extensiones aceptadas (para mensajes y ayuda del CLI).
func AllowedExtensions() []string {
	return []string{"pdf", "doc", "docx", "txt", "jpg", "png"}
}

// ValidateUploadFile aplica las reglas locales de tipo y tamaño. nil = aceptable.
func ValidateUploadFile(f dto.UploadFile) *domain.ValidationError {
	ext := strings.ToLower(filepath.Ext(f.Name))
	types, ok := allowedTypes[ext]
	if !ok {
		return domain.NewValidationError(f.Name,
			fmt.Sprintf("tipo no soportado (permitidos: %s)", strings.Join(AllowedExtensions(), ", ")),
			domain.ErrUnsupportedType)
	}
	if f.ContentType != "" {
		mt, _, err := mime.ParseMediaType(f.ContentType)
		if err != nil || !mimeAllowed(mt, types) {
			return domain.NewValidationError(f.Name,
				fmt.Sprintf("tipo MIME %q no corresponde a %s", f.ContentType, ext),
				domain.ErrUnsupportedType)
		}
	}
	if f.Size > MaxUploadSize {
		return domain.NewValidationError(f.Name,
			fmt.Sprintf("archivo demasiado grande (%s, máximo %s)", humanize.IBytes(uint64(f.Size)), humanize.IBytes(uint64(MaxUploadSize))),
			domain.ErrFileTooLarge)
	}
	if f.Size < 0 {
		return domain.NewValidationError(f.Name, "tamaño inválido", domain.ErrInvalidInput)
	}
	return nil
}

func mimeAllowed(mt string, types []string) bool {
	if mt == "application/octet-stream" {
		return true
	}
	for _, t := range types {
		if mt == t {
			return true
		}
	}
	return false
}

// UploadService carga masiva con validación local previa.
type UploadService struct {
	api ports.APIClient
	now func() time.Time
}

func NewUploadService(api ports.APIClient) *UploadService {
	return &UploadService{api: api, now: time.Now}
}

// BulkUpload valida cada archivo y envía solo los aceptables en un único POST /bulk-upload.
// Los rechazados aparecen en Results con status "rejected" y nunca se envían.
// Si ninguno sobrevive no hay petición: se devuelve el resultado junto con un ValidationError.
func (s *UploadService) BulkUpload(ctx context.Context, files []dto.UploadFile, opts dto.UploadOptions) (*dto.UploadResult, error) {
	if len(files) == 0 {
		return nil, domain.NewValidationError("files", "no se seleccionó ningún archivo", domain.ErrInvalidInput)
	}
	opts.Department = strings.TrimSpace(opts.Department)
	if opts.Department == "" {
		return nil, domain.NewValidationError("target_department", "requerido", domain.ErrInvalidInput)
	}
	if opts.Priority != "" && !entity.ValidPriority(opts.Priority) {
		return nil, domain.NewValidationError("priority", "debe ser low, medium, high o urgent", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(opts.BatchName) == "" {
		opts.BatchName = "batch-" + s.now().UTC().Format("20060102-150405")
	}

	var (
		accepted []dto.UploadFile
		rejected []dto.FileResult
	)
	for _, f := range files {
		if vErr := ValidateUploadFile(f); vErr != nil {
			rejected = append(rejected, dto.FileResult{Filename: f.Name, Status: dto.FileRejected, Error: vErr.Reason})
			continue
		}
		accepted = append(accepted, f)
	}

	if len(accepted) == 0 {
		result := &dto.UploadResult{
			Message:     "ningún archivo superó la validación",
			FailedCount: len(rejected),
			Results:     rejected,
		}
		return result, domain.NewValidationError("files", result.Message, domain.ErrUnsupportedType)
	}

	form := &ports.MultipartForm{
		Fields: []ports.FormField{
			{Name: "target_department", Value: opts.Department},
			{Name: "batch_name", Value: opts.BatchName},
		},
	}
	if opts.Priority != "" {
		form.Fields = append(form.Fields, ports.FormField{Name: "priority", Value: opts.Priority})
	}
	for _, f := range accepted {
		form.Files = append(form.Files, ports.FormFile{
			Field:       "files",
			Filename:    filepath.Base(f.Name),
			ContentType: f.ContentType,
			Content:     f.Content,
		})
	}

	var out dto.UploadResult
	if err := s.api.Do(ctx, ports.Request{Method: "POST", Path: "/bulk-upload", Form: form}, &out); err != nil {
		return nil, err
	}
	out.Results = append(out.Results, rejected...)
	out.FailedCount += len(rejected)
	return &out, nil
}
