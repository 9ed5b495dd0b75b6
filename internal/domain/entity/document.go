package entity

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de revisión visibles (campo status).
const (
	StatusPending   = "pending"
	StatusProcessed = "processed"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusFailed    = "failed"
)

// Estados del pipeline de procesamiento (campo processing_status).
const (
	ProcessingUploaded   = "uploaded"
	ProcessingClassified = "classified"
	ProcessingReviewed   = "reviewed"
	ProcessingFailed     = "failed"
)

// Prioridades.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// ValidPriority indica si p es una prioridad conocida.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ValidReviewStatus solo approved y rejected son decisiones de revisión.
func ValidReviewStatus(s string) bool {
	return s == StatusApproved || s == StatusRejected
}

// Document documento subido, clasificado y enrutado a un departamento.
type Document struct {
	ID                       string
	Filename                 string
	DocumentType             string
	Department               string
	Status                   string
	ProcessingStatus         string
	Priority                 string
	UploadedBy               string // id del usuario
	UploadedAt               time.Time
	FileSize                 int64
	MimeType                 string
	Content                  []byte // bytes originales (solo sandbox)
	ExtractedText            string
	Summary                  string
	ClassificationConfidence decimal.Decimal
	BatchID                  string
	ReviewedBy               string
	ReviewedAt               *time.Time
	ReviewComments           string
}

// Review aplica una decisión de revisión.
func (d *Document) Review(status, reviewer, comments string, at time.Time) {
	d.Status = status
	d.ProcessingStatus = ProcessingReviewed
	d.ReviewedBy = reviewer
	d.ReviewComments = comments
	d.ReviewedAt = &at
}

// DocumentFilter criterios de listado. Campos vacíos no filtran.
type DocumentFilter struct {
	Search     string
	Department string
	Status     string
	SortBy     string // uploaded_at (defecto), filename, priority, file_size
	Limit      int
	UploadedBy string // restringe a documentos propios (visibilidad employee)
}

// Matches indica si d cumple el filtro (sin Limit ni SortBy).
func (f DocumentFilter) Matches(d *Document) bool {
	if f.Department != "" && !strings.EqualFold(d.Department, f.Department) {
		return false
	}
	if f.Status != "" && d.Status != f.Status {
		return false
	}
	if f.UploadedBy != "" && d.UploadedBy != f.UploadedBy {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(d.Filename), q) &&
			!strings.Contains(strings.ToLower(d.DocumentType), q) &&
			!strings.Contains(strings.ToLower(d.ExtractedText), q) {
			return false
		}
	}
	return true
}

var priorityRank = map[string]int{PriorityUrgent: 0, PriorityHigh: 1, PriorityMedium: 2, PriorityLow: 3}

// SortDocuments ordena in situ. uploaded_at (defecto) y file_size descendentes,
// filename ascendente, priority de urgent a low. Empates: más nuevo primero.
func SortDocuments(docs []*Document, sortBy string) {
	newer := func(i, j int) bool { return docs[i].UploadedAt.After(docs[j].UploadedAt) }
	var less func(i, j int) bool
	switch sortBy {
	case "filename":
		less = func(i, j int) bool {
			a, b := strings.ToLower(docs[i].Filename), strings.ToLower(docs[j].Filename)
			if a != b {
				return a < b
			}
			return newer(i, j)
		}
	case "priority":
		less = func(i, j int) bool {
			a, b := rankOf(docs[i].Priority), rankOf(docs[j].Priority)
			if a != b {
				return a < b
			}
			return newer(i, j)
		}
	case "file_size":
		less = func(i, j int) bool {
			if docs[i].FileSize != docs[j].FileSize {
				return docs[i].FileSize > docs[j].FileSize
			}
			return newer(i, j)
		}
	default:
		less = newer
	}
	sort.SliceStable(docs, less)
}

// ValidSortBy columnas de orden aceptadas ("" = uploaded_at).
func ValidSortBy(s string) bool {
	switch s {
	case "", "uploaded_at", "filename", "priority", "file_size":
		return true
	}
	return false
}

func rankOf(p string) int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return len(priorityRank)
}
