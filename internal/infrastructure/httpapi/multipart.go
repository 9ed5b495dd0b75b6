package httpapi

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/jhoicas/idcr-client/internal/application/ports"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// multipartBody arma el cuerpo en streaming a través de un pipe. El Content-Type
// devuelto incluye el boundary generado por el writer. Nada se escribe hasta
// llamar a start; sin start no queda ninguna goroutine pendiente del pipe.
func multipartBody(form *ports.MultipartForm) (body *io.PipeReader, contentType string, start func()) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	start = func() {
		go func() {
			// Si el transporte cierra el cuerpo antes de tiempo, las escrituras fallan y la goroutine termina.
			pw.CloseWithError(writeForm(mw, form))
		}()
	}
	return pr, mw.FormDataContentType(), start
}

func writeForm(mw *multipart.Writer, form *ports.MultipartForm) error {
	for _, f := range form.Fields {
		if err := mw.WriteField(f.Name, f.Value); err != nil {
			return fmt.Errorf("campo %s: %w", f.Name, err)
		}
	}
	for _, f := range form.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(f.Field), quoteEscaper.Replace(f.Filename)))
		h.Set("Content-Type", partContentType(f))
		part, err := mw.CreatePart(h)
		if err != nil {
			return fmt.Errorf("parte %s: %w", f.Filename, err)
		}
		if f.Content != nil {
			if _, err := io.Copy(part, f.Content); err != nil {
				return fmt.Errorf("copiar %s: %w", f.Filename, err)
			}
		}
	}
	return mw.Close()
}

func partContentType(f ports.FormFile) string {
	if f.ContentType != "" {
		return f.ContentType
	}
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(f.Filename))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
