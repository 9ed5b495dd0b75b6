package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/idcr-client/internal/application/dto"
	"github.com/jhoicas/idcr-client/internal/application/usecase"
)

// UploadHandler carga masiva multipart.
type UploadHandler struct {
	uc *usecase.UploadUseCase
}

// NewUploadHandler construye el handler.
func NewUploadHandler(uc *usecase.UploadUseCase) *UploadHandler {
	return &UploadHandler{uc: uc}
}

// BulkUpload godoc
// @Summary      Carga masiva de documentos
// @Description  Clasifica cada archivo por nombre y lo enruta al departamento destino.
// @Description  Los archivos inválidos quedan en results con status failed; no abortan el lote.
// @Tags         documents
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        files              formData  file    true   "archivos (repetible)"
// @Param        target_department  formData  string  true   "departamento destino"
// @Param        priority           formData  string  false  "low, medium, high, urgent"
// @Param        batch_name         formData  string  false  "nombre del lote"
// @Success      200  {object}  dto.UploadResult
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/bulk-upload [post]
func (h *UploadHandler) BulkUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "INVALID_BODY", "multipart form expected")
	}
	opts := dto.UploadOptions{
		Priority:   firstValue(form.Value["priority"]),
		Department: firstValue(form.Value["target_department"]),
		BatchName:  firstValue(form.Value["batch_name"]),
	}

	headers := form.File["files"]
	files := make([]usecase.IncomingFile, 0, len(headers))
	for _, fh := range headers {
		in := usecase.IncomingFile{Filename: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Size: fh.Size}
		// Los que exceden el límite no se leen: el caso de uso los rechaza por Size.
		if fh.Size <= usecase.MaxFileSize {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, err)
			}
			in.Content, err = io.ReadAll(io.LimitReader(f, usecase.MaxFileSize+1))
			_ = f.Close()
			if err != nil {
				return writeError(c, err)
			}
		}
		files = append(files, in)
	}

	res, err := h.uc.BulkUpload(c.Context(), actorFrom(c), files, opts)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

func firstValue(v []string) string {
	if len(v) == 0 {
		return ""
	}
	return v[0]
}
