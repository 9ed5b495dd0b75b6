package dto

import (
	"encoding/json"
	"io"
	"strings"
)

// Estados por archivo en el resultado de una carga.
const (
	FileUploaded = "uploaded"
	FileRejected = "rejected" // descartado localmente, nunca enviado
	FileFailed   = "failed"   // enviado y rechazado por el servidor
)

// UploadFile archivo seleccionado para carga. Size lo declara el llamador (stat del archivo).
type UploadFile struct {
	Name        string
	Size        int64
	ContentType string // opcional; se valida si viene
	Content     io.Reader
}

// UploadOptions metadatos del lote.
type UploadOptions struct {
	Priority   string `form:"priority"`
	Department string `form:"target_department"`
	BatchName  string `form:"batch_name"`
}

// FileResult resultado por archivo.
type FileResult struct {
	Filename     string `json:"filename"`
	Status       string `json:"status"`
	DocID        string `json:"doc_id,omitempty"`
	DocumentType string `json:"document_type,omitempty"`
	Department   string `json:"department,omitempty"`
	Priority     string `json:"priority,omitempty"`
	Error        string `json:"error,omitempty"`
}

// UploadResult cuerpo de POST /bulk-upload más los rechazos locales.
type UploadResult struct {
	BatchID       string       `json:"batch_id"`
	Message       string       `json:"message"`
	UploadedCount int          `json:"uploaded_count"`
	FailedCount   int          `json:"failed_count"`
	Results       []FileResult `json:"results"`
}

// UnmarshalJSON acepta la forma del backend FastAPI {total_files, failed_files: ["name: reason"]}.
func (r *UploadResult) UnmarshalJSON(b []byte) error {
	type alias UploadResult
	var raw struct {
		alias
		TotalFiles  *int     `json:"total_files"`
		FailedFiles []string `json:"failed_files"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = UploadResult(raw.alias)
	if r.Results == nil && (raw.TotalFiles != nil || len(raw.FailedFiles) > 0) {
		if raw.TotalFiles != nil {
			r.UploadedCount = *raw.TotalFiles
		}
		for _, f := range raw.FailedFiles {
			name, reason, _ := strings.Cut(f, ":")
			r.Results = append(r.Results, FileResult{
				Filename: strings.TrimSpace(name),
				Status:   FileFailed,
				Error:    strings.TrimSpace(reason),
			})
		}
		r.FailedCount = len(raw.FailedFiles)
	}
	return nil
}

// Rejected archivos descartados localmente.
func (r *UploadResult) Rejected() []FileResult {
	var out []FileResult
	for _, fr := range r.Results {
		if fr.Status == FileRejected {
			out = append(out, fr)
		}
	}
	return out
}
