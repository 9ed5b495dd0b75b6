package dto_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/idcr-client/internal/application/dto"
)

func TestDocument_AceptaColumnasDelBackendFastAPI(t *testing.T) {
	body := `{
		"doc_id": "d-1", "user_id": "u-9", "original_name": "invoice_march.pdf",
		"review_status": "pending", "processing_status": "classified",
		"document_type": "financial_document", "department": "finance", "priority": "high",
		"file_size": 2048, "uploaded_at": "2024-05-01T10:20:30.123456",
		"classification_confidence": 0.85
	}`

	var d dto.Document
	require.NoError(t, json.Unmarshal([]byte(body), &d))

	assert.Equal(t, "d-1", d.ID)
	assert.Equal(t, "u-9", d.UploadedBy)
	assert.Equal(t, "invoice_march.pdf", d.Filename)
	assert.Equal(t, "pending", d.Status)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 20, 30, 123456000, time.UTC), d.UploadedAt.Time)
	assert.True(t, d.ClassificationConfidence.Valid)
	assert.Equal(t, "0.85", d.ClassificationConfidence.Decimal.String())
}

func TestDocument_NombresCanonicosTienenPrioridad(t *testing.T) {
	body := `{"id": "a", "doc_id": "b", "status": "approved", "review_status": "pending", "uploaded_at": "2024-05-01T10:20:30Z"}`

	var d dto.Document
	require.NoError(t, json.Unmarshal([]byte(body), &d))
	assert.Equal(t, "a", d.ID)
	assert.Equal(t, "approved", d.Status)
}

func TestUserProfile_AceptaUserID(t *testing.T) {
	var u dto.UserProfile
	require.NoError(t, json.Unmarshal([]byte(`{"user_id":"u-1","full_name":"Ana","role":"admin"}`), &u))
	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, "Ana", u.FullName)
}

func TestLoginResponse_BearerToken(t *testing.T) {
	var r dto.LoginResponse
	require.NoError(t, json.Unmarshal([]byte(`{"access_token":"abc","token_type":"bearer","user":{"id":"1"}}`), &r))
	assert.Equal(t, "abc", r.BearerToken())

	r.Token = "xyz"
	assert.Equal(t, "xyz", r.BearerToken())
}

func TestDocumentFilter_OmiteCamposVacios(t *testing.T) {
	assert.Equal(t, "department=hr", dto.DocumentFilter{Department: "hr"}.Query().Encode())
	assert.Equal(t, "", dto.DocumentFilter{}.Query().Encode())
	assert.Equal(t, "limit=5&search=contrato&sort_by=priority",
		dto.DocumentFilter{Search: "contrato", SortBy: "priority", Limit: 5}.Query().Encode())
}

func TestUploadResult_FormaFastAPI(t *testing.T) {
	body := `{"batch_id":"b-1","message":"ok","total_files":2,"failed_files":["big.pdf: File too large"]}`

	var r dto.UploadResult
	require.NoError(t, json.Unmarshal([]byte(body), &r))
	assert.Equal(t, 2, r.UploadedCount)
	assert.Equal(t, 1, r.FailedCount)
	require.Len(t, r.Results, 1)
	assert.Equal(t, dto.FileResult{Filename: "big.pdf", Status: dto.FileFailed, Error: "File too large"}, r.Results[0])
}

func TestTimestamp_NullYVacio(t *testing.T) {
	var n dto.Notification
	require.NoError(t, json.Unmarshal([]byte(`{"sent_at": null}`), &n))
	assert.True(t, n.SentAt.IsZero())

	out, err := json.Marshal(dto.HealthStatus{Status: "ok"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","service":"","time":null}`, string(out))
}

func TestPageRequest_DefaultPage(t *testing.T) {
	p := dto.PageRequest{}
	p.DefaultPage()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, 0, p.Offset())

	p = dto.PageRequest{Page: 3, PageSize: 500}
	p.DefaultPage()
	assert.Equal(t, 100, p.PageSize)
	assert.Equal(t, 200, p.Offset())
}
