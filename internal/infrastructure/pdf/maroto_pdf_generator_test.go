package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/idcr-client/internal/application/dto"
	"github.com/jhoicas/idcr-client/internal/infrastructure/pdf"
)

func TestGenerateAnalyticsReport_ProducePDF(t *testing.T) {
	data := dto.ReportData{
		Title:       "Reporte de analítica",
		GeneratedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		GeneratedBy: dto.UserProfile{FullName: "Admin User", Email: "admin@company.com", Role: "admin", Department: "administration"},
		Filter:      dto.AnalyticsFilter{Department: "finance", From: "2026-02-01"},
		Stats: dto.StatsSnapshot{
			TotalDocuments:     4,
			ProcessedDocuments: 3,
			PendingDocuments:   1,
			ProcessingRate:     decimal.RequireFromString("75.0"),
			DepartmentStats:    map[string]int{"finance": 3, "human resources": 1},
			DocumentTypes:      map[string]int{"financial_document": 3, "hr_document": 1},
			Priorities:         map[string]int{"high": 3, "medium": 1},
			UploadTrends:       []dto.UploadTrend{{Date: "2026-02-27", Count: 0}, {Date: "2026-02-28", Count: 4}},
		},
		Recent: []dto.Document{
			{ID: "d-1", Filename: "invoice_march.pdf", DocumentType: "financial_document", Department: "finance", Status: "pending", Priority: "high"},
		},
	}

	out, err := pdf.NewMarotoPDFGenerator().GenerateAnalyticsReport(context.Background(), data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateAnalyticsReport_SinDatos(t *testing.T) {
	out, err := pdf.NewMarotoPDFGenerator().GenerateAnalyticsReport(context.Background(), dto.ReportData{Title: "Vacío"})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGenerateAnalyticsReport_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pdf.NewMarotoPDFGenerator().GenerateAnalyticsReport(ctx, dto.ReportData{})
	assert.ErrorIs(t, err, context.Canceled)
}
