package dto

import (
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
)

// Document documento tal como lo sirve la API.
type Document struct {
	ID                       string              `json:"id"`
	Filename                 string              `json:"filename"`
	DocumentType             string              `json:"document_type"`
	Department               string              `json:"department"`
	Status                   string              `json:"status"`
	Priority                 string              `json:"priority"`
	UploadedBy               string              `json:"uploaded_by"`
	UploadedAt               Timestamp           `json:"uploaded_at"`
	FileSize                 int64               `json:"file_size"`
	ExtractedText            string              `json:"extracted_text,omitempty"`
	Summary                  string              `json:"summary,omitempty"`
	MimeType                 string              `json:"mime_type,omitempty"`
	ProcessingStatus         string              `json:"processing_status,omitempty"`
	ClassificationConfidence decimal.NullDecimal `json:"classification_confidence"`
	ReviewedBy               string              `json:"reviewed_by,omitempty"`
	ReviewedAt               *Timestamp          `json:"reviewed_at,omitempty"`
	ReviewComments           string              `json:"review_comments,omitempty"`
}

// UnmarshalJSON acepta las columnas del backend FastAPI (doc_id, original_name,
// review_status, user_id) cuando faltan los nombres canónicos.
func (d *Document) UnmarshalJSON(b []byte) error {
	type alias Document
	var raw struct {
		alias
		DocID        string `json:"doc_id"`
		OriginalName string `json:"original_name"`
		ReviewStatus string `json:"review_status"`
		UserID       string `json:"user_id"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*d = Document(raw.alias)
	if d.ID == "" {
		d.ID = raw.DocID
	}
	if d.Filename == "" {
		d.Filename = raw.OriginalName
	}
	if d.Status == "" {
		d.Status = raw.ReviewStatus
	}
	if d.UploadedBy == "" {
		d.UploadedBy = raw.UserID
	}
	return nil
}

// DocumentListResponse cuerpo de GET /documents.
type DocumentListResponse struct {
	Documents []Document `json:"documents"`
}

// DocumentFilter filtros de listado. Los campos vacíos (y Limit <= 0) no se envían.
type DocumentFilter struct {
	Search     string `query:"search"`
	Department string `query:"department"`
	Status     string `query:"status"`
	SortBy     string `query:"sort_by"`
	Limit      int    `query:"limit"`
}

// Query codifica solo los filtros presentes.
func (f DocumentFilter) Query() url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Department != "" {
		q.Set("department", f.Department)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.SortBy != "" {
		q.Set("sort_by", f.SortBy)
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// ReviewRequest decisión de revisión.
type ReviewRequest struct {
	Status   string `json:"status"` // approved | rejected
	Comments string `json:"comments,omitempty"`
}
