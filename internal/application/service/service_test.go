package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/idcr-client/internal/application/dto"
	"github.com/jhoicas/idcr-client/internal/application/ports"
	"github.com/jhoicas/idcr-client/internal/application/service"
	"github.com/jhoicas/idcr-client/internal/application/session"
	"github.com/jhoicas/idcr-client/internal/domain"
	"github.com/jhoicas/idcr-client/internal/infrastructure/httpapi"
	"github.com/jhoicas/idcr-client/internal/infrastructure/sessionstore"
)

// ── Backend falso ─────────────────────────────────────────────────────────────

type recorded struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   []byte
	Header http.Header
}

type fakeBackend struct {
	t        *testing.T
	mu       sync.Mutex
	requests []recorded
	routes   map[string]http.HandlerFunc // "METHOD /path"
	srv      *httptest.Server
}

func newBackend(t *testing.T) *fakeBackend {
	b := &fakeBackend{t: t, routes: map[string]http.HandlerFunc{}}
	b.srv = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))
	b.mu.Lock()
	b.requests = append(b.requests, recorded{
		Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery,
		Auth: r.Header.Get("Authorization"), Body: body, Header: r.Header.Clone(),
	})
	h, ok := b.routes[r.Method+" "+r.URL.Path]
	b.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
		return
	}
	h(w, r)
}

func (b *fakeBackend) on(method, path string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[method+" "+path] = h
}

func (b *fakeBackend) reply(method, path string, status int, body any) {
	b.on(method, path, func(w http.ResponseWriter, _ *http.Request) { writeJSON(w, status, body) })
}

func (b *fakeBackend) calls() []recorded {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]recorded(nil), b.requests...)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// stack cliente completo (transporte + sesión + fachadas) contra el backend falso.
type stack struct {
	storage *sessionstore.MemoryStorage
	sess    *session.Session
	manager *session.Manager
	client  *httpapi.Client
	docs    *service.DocumentService
	upload  *service.UploadService
	stats   *service.StatsService
	notif   *service.NotificationService
	system  *service.SystemService
	auth    *service.AuthService
}

func newStack(t *testing.T, b *fakeBackend) *stack {
	t.Helper()
	storage := sessionstore.NewMemoryStorage()
	sess := session.New(storage, nil)
	client, err := httpapi.New(httpapi.Config{BaseURL: b.srv.URL + "/api", Timeout: 2 * time.Second}, sess, nil)
	require.NoError(t, err)
	auth := service.NewAuthService(client)
	return &stack{
		storage: storage,
		sess:    sess,
		manager: session.NewManager(sess, auth),
		client:  client,
		docs:    service.NewDocumentService(client),
		upload:  service.NewUploadService(client),
		stats:   service.NewStatsService(client),
		notif:   service.NewNotificationService(client),
		system:  service.NewSystemService(client),
		auth:    auth,
	}
}

var adminUser = dto.UserProfile{ID: "u-1", FullName: "Admin User", Email: "admin@company.com", Role: "admin", Department: "administration"}

func (s *stack) login(t *testing.T, b *fakeBackend) {
	t.Helper()
	b.reply("POST", "/api/login", 200, map[string]any{"access_token": "admin-token", "token_type": "bearer", "user": adminUser})
	_, err := s.manager.Login(context.Background(), "admin@company.com", "admin123")
	require.NoError(t, err)
}

// ── Escenarios ────────────────────────────────────────────────────────────────

func TestEscenario_AdminLoginYListadoConBearer(t *testing.T) {
	b := newBackend(t)
	b.reply("GET", "/api/documents", 200, map[string]any{"documents": []map[string]any{
		{"id": "d-1", "filename": "invoice.pdf", "status": "pending", "priority": "high", "department": "finance"},
	}})
	s := newStack(t, b)

	s.login(t, b)
	u, err := s.manager.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Role)

	docs, err := s.docs.List(context.Background(), dto.DocumentFilter{})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "invoice.pdf", docs[0].Filename)

	calls := b.calls()
	require.Len(t, calls, 2, "login + listado, sin /me")
	assert.Empty(t, calls[0].Auth, "login va sin bearer")
	assert.Equal(t, "Bearer admin-token", calls[1].Auth)
}

func TestListDocuments_FiltroDepartamentoExacto(t *testing.T) {
	b := newBackend(t)
	b.reply("GET", "/api/documents", 200, map[string]any{"documents": []any{}})
	s := newStack(t, b)

	docs, err := s.docs.List(context.Background(), dto.DocumentFilter{Department: "hr"})
	require.NoError(t, err)
	assert.Empty(t, docs)

	calls := b.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "department=hr", calls[0].Query)
}

func TestListDocuments_401VaciaSesionYSlots(t *testing.T) {
	b := newBackend(t)
	s := newStack(t, b)
	s.login(t, b)
	b.reply("GET", "/api/documents", 401, map[string]string{"detail": "Token expired"})

	_, err := s.docs.List(context.Background(), dto.DocumentFilter{})

	assert.True(t, errors.Is(err, domain.ErrUnauthenticated))
	assert.False(t, s.manager.IsAuthenticated())
	_, ok, _ := s.storage.Get(context.Background(), ports.SlotAuthToken)
	assert.False(t, ok)
	_, ok, _ = s.storage.Get(context.Background(), ports.SlotUser)
	assert.False(t, ok)
}

func TestReview_200EsNil(t *testing.T) {
	b := newBackend(t)
	b.reply("POST", "/api/documents/d-7/review", 200, map[string]string{"message": "Document approved successfully"})
	s := newStack(t, b)

	require.NoError(t, s.docs.Approve(context.Background(), "d-7", "ok"))

	calls := b.calls()
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"status":"approved","comments":"ok"}`, string(calls[0].Body))
}

func TestReview_404EsClientErrorConMensaje(t *testing.T) {
	b := newBackend(t)
	b.reply("POST", "/api/documents/missing/review", 404, map[string]string{"detail": "Document not found"})
	s := newStack(t, b)

	err := s.docs.Reject(context.Background(), "missing", "")

	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, domain.KindClient, apiErr.Kind)
	assert.Equal(t, "Document not found", apiErr.Message)
}

func TestReview_EstadoInvalidoNoHacePeticion(t *testing.T) {
	b := newBackend(t)
	s := newStack(t, b)

	err := s.docs.Review(context.Background(), "d-1", dto.ReviewRequest{Status: "maybe"})

	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Empty(t, b.calls())
}

func TestGetDeleteDownload(t *testing.T) {
	b := newBackend(t)
	b.reply("GET", "/api/documents/d-1", 200, map[string]any{"id": "d-1", "filename": "a.txt", "extracted_text": "hola"})
	b.reply("DELETE", "/api/documents/d-1", 200, map[string]string{"message": "deleted"})
	b.on("GET", "/api/documents/d-1/download", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "hola")
	})
	s := newStack(t, b)

	doc, err := s.docs.Get(context.Background(), "d-1")
	require.NoError(t, err)
	assert.Equal(t, "hola", doc.ExtractedText)

	var buf bytes.Buffer
	require.NoError(t, s.docs.Download(context.Background(), "d-1", &buf))
	assert.Equal(t, "hola", buf.String())

	require.NoError(t, s.docs.Delete(context.Background(), "d-1"))

	_, err = s.docs.Get(context.Background(), "  ")
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

// ── BulkUpload ────────────────────────────────────────────────────────────────

func TestBulkUpload_NuncaEnviaArchivosInvalidos(t *testing.T) {
	b := newBackend(t)
	var sent []string
	b.on("POST", "/api/bulk-upload", func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		for _, fh := range r.MultipartForm.File["files"] {
			sent = append(sent, fh.Filename)
		}
		assert.Equal(t, "finance", r.FormValue("target_department"))
		assert.Equal(t, "high", r.FormValue("priority"))
		assert.Equal(t, "Q1", r.FormValue("batch_name"))
		writeJSON(w, 200, dto.UploadResult{
			BatchID: "b-1", Message: "ok", UploadedCount: 2,
			Results: []dto.FileResult{
				{Filename: "invoice.pdf", Status: dto.FileUploaded, DocID: "d-1"},
				{Filename: "notes.txt", Status: dto.FileUploaded, DocID: "d-2"},
			},
		})
	})
	s := newStack(t, b)

	files := []dto.UploadFile{
		{Name: "invoice.pdf", Size: 1024, Content: strings.NewReader("%PDF")},
		{Name: "virus.exe", Size: 10, Content: strings.NewReader("MZ")},
		{Name: "huge.pdf", Size: service.MaxUploadSize + 1, Content: strings.NewReader("x")},
		{Name: "notes.txt", Size: 4, ContentType: "text/plain", Content: strings.NewReader("hola")},
	}
	res, err := s.upload.BulkUpload(context.Background(), files, dto.UploadOptions{Priority: "high", Department: "finance", BatchName: "Q1"})

	require.NoError(t, err)
	assert.Equal(t, []string{"invoice.pdf", "notes.txt"}, sent)
	assert.Equal(t, "b-1", res.BatchID)
	assert.Equal(t, 2, res.UploadedCount)
	assert.Equal(t, 2, res.FailedCount)
	rejected := res.Rejected()
	require.Len(t, rejected, 2)
	assert.Equal(t, "virus.exe", rejected[0].Filename)
	assert.Contains(t, rejected[0].Error, "tipo no soportado")
	assert.Equal(t, "huge.pdf", rejected[1].Filename)
	assert.Contains(t, rejected[1].Error, "demasiado grande")
}

func TestBulkUpload_NadaValidoNoHacePeticion(t *testing.T) {
	b := newBackend(t)
	s := newStack(t, b)

	res, err := s.upload.BulkUpload(context.Background(), []dto.UploadFile{
		{Name: "a.exe", Size: 1},
		{Name: "b.gif", Size: 1},
	}, dto.UploadOptions{Department: "hr"})

	assert.True(t, errors.Is(err, domain.ErrValidation))
	require.NotNil(t, res)
	assert.Len(t, res.Rejected(), 2)
	assert.Empty(t, b.calls())
}

func TestBulkUpload_ValidacionDeOpciones(t *testing.T) {
	b := newBackend(t)
	s := newStack(t, b)
	ok := []dto.UploadFile{{Name: "a.pdf", Size: 1, Content: strings.NewReader("x")}}

	_, err := s.upload.BulkUpload(context.Background(), nil, dto.UploadOptions{Department: "hr"})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = s.upload.BulkUpload(context.Background(), ok, dto.UploadOptions{})
	assert.True(t, errors.Is(err, domain.ErrValidation), "departamento requerido")

	_, err = s.upload.BulkUpload(context.Background(), ok, dto.UploadOptions{Department: "hr", Priority: "asap"})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	assert.Empty(t, b.calls())
}

func TestValidateUploadFile(t *testing.T) {
	cases := []struct {
		file  dto.UploadFile
		valid bool
	}{
		{dto.UploadFile{Name: "a.PDF", Size: 1}, true},
		{dto.UploadFile{Name: "photo.jpeg", Size: 1, ContentType: "image/jpeg"}, true},
		{dto.UploadFile{Name: "scan.png", Size: 1, ContentType: "application/octet-stream"}, true},
		{dto.UploadFile{Name: "report.docx", Size: service.MaxUploadSize}, true},
		{dto.UploadFile{Name: "report.docx", Size: service.MaxUploadSize + 1}, false},
		{dto.UploadFile{Name: "a.pdf", Size: 1, ContentType: "image/png"}, false},
		{dto.UploadFile{Name: "archive.zip", Size: 1}, false},
		{dto.UploadFile{Name: "noext", Size: 1}, false},
	}
	for _, tc := range cases {
		err := service.ValidateUploadFile(tc.file)
		if tc.valid {
			assert.Nil(t, err, tc.file.Name)
		} else {
			assert.NotNil(t, err, tc.file.Name)
		}
	}
}

// ── Stats, notificaciones, sistema ────────────────────────────────────────────

func TestGetDashboardStats(t *testing.T) {
	b := newBackend(t)
	b.reply("GET", "/api/stats", 200, map[string]any{
		"total_documents": 10, "processed_documents": 7, "pending_documents": 3, "error_documents": 0,
		"processing_rate": 70.0, "department_stats": map[string]int{"finance": 6, "hr": 4},
		"upload_trends": []map[string]any{{"date": "2026-01-02", "count": 3}},
	})
	s := newStack(t, b)

	st, err := s.stats.GetDashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, st.TotalDocuments)
	assert.Equal(t, "70", st.ProcessingRate.String())
	assert.Equal(t, 6, st.DepartmentStats["finance"])
	assert.Equal(t, []dto.UploadTrend{{Date: "2026-01-02", Count: 3}}, st.UploadTrends)
}

func TestGetAnalytics_ValidaFechas(t *testing.T) {
	b := newBackend(t)
	b.reply("GET", "/api/analytics", 200, map[string]any{"total_documents": 1})
	s := newStack(t, b)

	_, err := s.stats.GetAnalytics(context.Background(), dto.AnalyticsFilter{From: "01/02/2026"})
	assert.True(t, errors.Is(err, domain.ErrValidation))
	_, err = s.stats.GetAnalytics(context.Background(), dto.AnalyticsFilter{From: "2026-02-01", To: "2026-01-01"})
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Empty(t, b.calls())

	st, err := s.stats.GetAnalytics(context.Background(), dto.AnalyticsFilter{Department: "finance", From: "2026-01-01"})
	require.NoError(t, err)
	assert.Equal(t, 1, st.TotalDocuments)
	assert.Equal(t, "department=finance&from=2026-01-01", b.calls()[0].Query)
}

func TestNotifications(t *testing.T) {
	b := newBackend(t)
	b.reply("GET", "/api/email-notifications", 200, map[string]any{"emails": []map[string]any{
		{"id": "n-1", "subject": "New Document Uploaded: a.pdf", "read": false, "sent_at": "2026-01-02T10:00:00"},
	}})
	b.reply("PATCH", "/api/email-notifications/n-1/read", 200, map[string]string{"message": "ok"})
	b.reply("GET", "/api/email-notifications/unread-count", 200, map[string]int{"count": 4})
	s := newStack(t, b)

	list, err := s.notif.List(context.Background(), dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "n-1", list[0].ID)
	assert.Equal(t, "page=1&page_size=10", b.calls()[0].Query)

	require.NoError(t, s.notif.MarkAsRead(context.Background(), "n-1"))

	n, err := s.notif.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestSystem(t *testing.T) {
	b := newBackend(t)
	b.reply("GET", "/api/health", 200, map[string]any{"status": "healthy", "service": "idcr", "time": "2026-01-02T10:00:00Z"})
	b.reply("GET", "/api/system/stats", 200, map[string]any{"documents": 3, "users": 2, "uptime_seconds": 60})
	s := newStack(t, b)

	h, err := s.system.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", h.Status)

	st, err := s.system.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, st.Documents)
}

func TestRegister(t *testing.T) {
	b := newBackend(t)
	b.reply("POST", "/api/register", 200, map[string]string{"message": "User registered successfully", "user_id": "u-9"})
	s := newStack(t, b)

	_, err := s.auth.Register(context.Background(), dto.RegisterRequest{Email: "bad", Password: "secret1", FullName: "X", Department: "hr"})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	out, err := s.auth.Register(context.Background(), dto.RegisterRequest{Email: "new@company.com", Password: "secret1", FullName: "New", Department: "hr"})
	require.NoError(t, err)
	assert.Equal(t, "u-9", out.UserID)
	require.Len(t, b.calls(), 1)
}

func TestFachadas_PropaganErrorSinReclasificar(t *testing.T) {
	b := newBackend(t)
	b.reply("GET", "/api/stats", 500, map[string]string{"detail": "db down"})
	s := newStack(t, b)

	_, err := s.stats.GetDashboardStats(context.Background())

	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, domain.KindServer, apiErr.Kind)
	assert.Equal(t, "db down", apiErr.Message)
	assert.Len(t, b.calls(), 1, "sin reintentos")
}
