package dto

import (
	"net/url"

	"github.com/shopspring/decimal"
)

// StatsSnapshot agregados del dashboard. Nunca se cachea en el cliente.
type StatsSnapshot struct {
	TotalDocuments     int             `json:"total_documents"`
	ProcessedDocuments int             `json:"processed_documents"`
	PendingDocuments   int             `json:"pending_documents"`
	ErrorDocuments     int             `json:"error_documents"`
	ProcessingRate     decimal.Decimal `json:"processing_rate"` // porcentaje
	DepartmentStats    map[string]int  `json:"department_stats"`
	DocumentTypes      map[string]int  `json:"document_types"`
	Priorities         map[string]int  `json:"priorities"`
	UploadTrends       []UploadTrend   `json:"upload_trends"`
}

// UploadTrend subidas por día.
type UploadTrend struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// AnalyticsFilter parámetros de GET /analytics. Fechas YYYY-MM-DD.
type AnalyticsFilter struct {
	Department string `query:"department"`
	From       string `query:"from"`
	To         string `query:"to"`
}

// Query codifica solo los filtros presentes.
func (f AnalyticsFilter) Query() url.Values {
	q := url.Values{}
	if f.Department != "" {
		q.Set("department", f.Department)
	}
	if f.From != "" {
		q.Set("from", f.From)
	}
	if f.To != "" {
		q.Set("to", f.To)
	}
	return q
}
