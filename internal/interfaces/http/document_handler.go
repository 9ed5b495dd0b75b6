package http

import (
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/idcr-client/internal/application/dto"
	"github.com/jhoicas/idcr-client/internal/application/usecase"
	"github.com/jhoicas/idcr-client/internal/domain/entity"
)

// DocumentHandler listado, detalle, revisión, borrado y descarga.
type DocumentHandler struct {
	uc *usecase.DocumentUseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc *usecase.DocumentUseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc}
}

// List godoc
// @Summary      Listar documentos visibles
// @Description  employee ve sus documentos; manager su departamento (o el filtrado); admin todos.
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        search      query  string  false  "texto en nombre, tipo o contenido"
// @Param        department  query  string  false  "departamento"
// @Param        status      query  string  false  "pending, approved, rejected"
// @Param        sort_by     query  string  false  "uploaded_at, filename, priority, file_size"
// @Param        limit       query  int     false  "máximo de resultados"
// @Success      200  {object}  dto.DocumentListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	var f dto.DocumentFilter
	if err := c.QueryParser(&f); err != nil {
		return badRequest(c, "INVALID_PARAMS", "invalid query parameters")
	}
	docs, err := h.uc.List(c.Context(), actorFrom(c), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DocumentListResponse{Documents: docs})
}

// Get godoc
// @Summary      Detalle de documento (incluye texto extraído)
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id del documento"
// @Success      200  {object}  dto.Document
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [get]
func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	doc, err := h.uc.Get(c.Context(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(doc)
}

// Review godoc
// @Summary      Aprobar o rechazar un documento
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "id del documento"
// @Param        body  body  dto.ReviewRequest  true  "status approved|rejected, comments"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/review [post]
func (h *DocumentHandler) Review(c *fiber.Ctx) error {
	var in dto.ReviewRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "invalid body")
	}
	return h.review(c, in)
}

// Approve alias de Review con status=approved. El cuerpo (comments) es opcional.
func (h *DocumentHandler) Approve(c *fiber.Ctx) error {
	return h.review(c, dto.ReviewRequest{Status: entity.StatusApproved, Comments: optionalComments(c)})
}

// Reject alias de Review con status=rejected.
func (h *DocumentHandler) Reject(c *fiber.Ctx) error {
	return h.review(c, dto.ReviewRequest{Status: entity.StatusRejected, Comments: optionalComments(c)})
}

func (h *DocumentHandler) review(c *fiber.Ctx, in dto.ReviewRequest) error {
	if err := h.uc.Review(c.Context(), actorFrom(c), c.Params("id"), in); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: fmt.Sprintf("Document %s successfully", in.Status)})
}

// Delete godoc
// @Summary      Eliminar documento
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "id del documento"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [delete]
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), actorFrom(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Document deleted successfully"})
}

// Download godoc
// @Summary      Descargar el archivo original
// @Tags         documents
// @Security     Bearer
// @Produce      octet-stream
// @Param        id  path  string  true  "id del documento"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/download [get]
func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	f, err := h.uc.Download(c.Context(), actorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, f.MimeType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename*=UTF-8''%s`, url.PathEscape(f.Filename)))
	return c.Send(f.Content)
}

func optionalComments(c *fiber.Ctx) string {
	if len(c.Body()) == 0 {
		return ""
	}
	var in dto.ReviewRequest
	if err := c.BodyParser(&in); err != nil {
		return ""
	}
	return in.Comments
}
