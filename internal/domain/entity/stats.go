package entity

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Stats agregados del dashboard y analytics.
type Stats struct {
	TotalDocuments     int
	ProcessedDocuments int
	PendingDocuments   int
	ErrorDocuments     int
	ProcessingRate     decimal.Decimal // porcentaje, 1 decimal
	DepartmentStats    map[string]int
	DocumentTypes      map[string]int
	Priorities         map[string]int
	UploadTrends       []UploadTrend
}

// UploadTrend subidas por día.
type UploadTrend struct {
	Date  string // YYYY-MM-DD
	Count int
}

// StatsFilter restringe analytics a un departamento y rango de fechas.
type StatsFilter struct {
	Department string
	From       *time.Time
	To         *time.Time
}

// ComputeStats agrega docs. Los conteos siguen las columnas del pipeline:
// processed = processing_status classified o reviewed, error = processing_status failed,
// pending = status pending. Trends cubren los últimos 30 días respecto de now.
func ComputeStats(docs []*Document, now time.Time) Stats {
	s := Stats{
		DepartmentStats: map[string]int{},
		DocumentTypes:   map[string]int{},
		Priorities:      map[string]int{},
		UploadTrends:    []UploadTrend{},
	}
	trend := map[string]int{}
	since := TrendSince(now)
	for _, d := range docs {
		s.TotalDocuments++
		switch d.ProcessingStatus {
		case ProcessingClassified, ProcessingReviewed:
			s.ProcessedDocuments++
		case ProcessingFailed:
			s.ErrorDocuments++
		}
		if d.Status == StatusPending {
			s.PendingDocuments++
		}
		s.DepartmentStats[d.Department]++
		s.DocumentTypes[d.DocumentType]++
		s.Priorities[d.Priority]++
		if !d.UploadedAt.Before(since) {
			trend[d.UploadedAt.UTC().Format("2006-01-02")]++
		}
	}
	s.ProcessingRate = ProcessingRate(s.ProcessedDocuments, s.TotalDocuments)
	for date, n := range trend {
		s.UploadTrends = append(s.UploadTrends, UploadTrend{Date: date, Count: n})
	}
	sort.Slice(s.UploadTrends, func(i, j int) bool {
		return s.UploadTrends[i].Date < s.UploadTrends[j].Date
	})
	return s
}

// TrendDays ventana de la tendencia de subidas.
const TrendDays = 30

// TrendSince inicio de la ventana de tendencia que termina en now.
func TrendSince(now time.Time) time.Time { return now.AddDate(0, 0, -TrendDays) }

// ProcessingRate porcentaje processed/total con un decimal; 0 sin documentos.
func ProcessingRate(processed, total int) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(processed)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(1)
}
