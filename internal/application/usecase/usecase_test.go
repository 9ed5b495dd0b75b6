package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/idcr-client/internal/application/dto"
	"github.com/jhoicas/idcr-client/internal/application/usecase"
	"github.com/jhoicas/idcr-client/internal/domain"
	"github.com/jhoicas/idcr-client/internal/domain/entity"
	"github.com/jhoicas/idcr-client/internal/infrastructure/memory"
)

// ── Fixture ───────────────────────────────────────────────────────────────────

type fixture struct {
	users  *memory.UserRepo
	docs   *memory.DocumentRepo
	notifs *memory.NotificationRepo

	documents     *usecase.DocumentUseCase
	upload        *usecase.UploadUseCase
	stats         *usecase.StatsUseCase
	notifications *usecase.NotificationUseCase
	system        *usecase.SystemUseCase
}

var (
	admin    = usecase.Actor{UserID: "u-admin", Role: entity.RoleAdmin, Department: "administration"}
	manager  = usecase.Actor{UserID: "u-manager", Role: entity.RoleManager, Department: "finance"}
	employee = usecase.Actor{UserID: "u-employee", Role: entity.RoleEmployee, Department: "finance"}
	other    = usecase.Actor{UserID: "u-other", Role: entity.RoleEmployee, Department: "legal"}
)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:  memory.NewUserRepository(),
		docs:   memory.NewDocumentRepository(),
		notifs: memory.NewNotificationRepository(),
	}
	ctx := context.Background()
	for _, u := range []*entity.User{
		{ID: admin.UserID, Email: "admin@company.com", FullName: "Admin User", Role: admin.Role, Department: admin.Department},
		{ID: manager.UserID, Email: "manager@company.com", FullName: "Finance Manager", Role: manager.Role, Department: manager.Department},
		{ID: employee.UserID, Email: "employee@company.com", FullName: "Finance Employee", Role: employee.Role, Department: employee.Department},
		{ID: other.UserID, Email: "other@company.com", FullName: "Legal Employee", Role: other.Role, Department: other.Department},
	} {
		require.NoError(t, f.users.Create(ctx, u))
	}
	f.documents = usecase.NewDocumentUseCase(f.docs, f.users, memory.NewTxRunner(f.docs, f.notifs), nil)
	f.upload = usecase.NewUploadUseCase(f.docs, f.users, f.notifs, nil)
	f.stats = usecase.NewStatsUseCase(memory.NewStatsRepository(f.docs))
	f.notifications = usecase.NewNotificationUseCase(f.notifs)
	f.system = usecase.NewSystemUseCase("idcr-sandbox", f.docs, f.users)
	return f
}

func (f *fixture) uploadAs(t *testing.T, actor usecase.Actor, dept string, names ...string) *dto.UploadResult {
	t.Helper()
	files := make([]usecase.IncomingFile, 0, len(names))
	for _, n := range names {
		content := []byte("contenido de " + n)
		files = append(files, usecase.IncomingFile{Filename: n, Size: int64(len(content)), Content: content, ContentType: "text/plain"})
	}
	res, err := f.upload.BulkUpload(context.Background(), actor, files, dto.UploadOptions{Department: dept})
	require.NoError(t, err)
	return res
}

func ids(docs []dto.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Filename)
	}
	return out
}

// ── Clasificación ─────────────────────────────────────────────────────────────

func TestClassify_PalabrasClave(t *testing.T) {
	cases := map[string][2]string{
		"Invoice_2026.pdf":    {usecase.TypeFinancial, entity.PriorityHigh},
		"receipt.png":         {usecase.TypeFinancial, entity.PriorityHigh},
		"signed-contract.pdf": {usecase.TypeLegal, entity.PriorityHigh},
		"legal_memo.docx":     {usecase.TypeLegal, entity.PriorityHigh},
		"employee_list.txt":   {usecase.TypeHR, entity.PriorityMedium},
		"notes.txt":           {usecase.TypeGeneral, entity.PriorityMedium},
	}
	for name, want := range cases {
		typ, prio := usecase.Classify(name)
		assert.Equal(t, want[0], typ, name)
		assert.Equal(t, want[1], prio, name)
	}
}

func TestExtractText_TxtYLatin1(t *testing.T) {
	txt, err := usecase.ExtractText("a.txt", []byte("hola"))
	require.NoError(t, err)
	assert.Equal(t, "hola", txt)

	txt, err = usecase.ExtractText("b.TXT", []byte{'a', 0xF1, 'o'}) // "año" en ISO-8859-1
	require.NoError(t, err)
	assert.Equal(t, "año", txt)

	txt, err = usecase.ExtractText("c.pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.Empty(t, txt)
}

func TestSummarize_200Runas(t *testing.T) {
	long := strings.Repeat("ñ", 250)
	assert.Equal(t, 200, len([]rune(usecase.Summarize(long))))
	assert.Equal(t, "a b", usecase.Summarize("  a \n b "))
}

// ── Carga ─────────────────────────────────────────────────────────────────────

func TestBulkUpload_ClasificaYPersiste(t *testing.T) {
	f := newFixture(t)

	res := f.uploadAs(t, employee, "Finance", "invoice_march.txt", "photo.png")

	assert.Equal(t, 2, res.UploadedCount)
	assert.Zero(t, res.FailedCount)
	require.Len(t, res.Results, 2)
	assert.Equal(t, usecase.TypeFinancial, res.Results[0].DocumentType)
	assert.Equal(t, "finance", res.Results[0].Department)
	assert.Contains(t, res.Message, "2 files")

	d, err := f.documents.Get(context.Background(), employee, res.Results[0].DocID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, d.Status)
	assert.Equal(t, entity.ProcessingClassified, d.ProcessingStatus)
	assert.Equal(t, "contenido de invoice_march.txt", d.ExtractedText)
	assert.Equal(t, "0.85", d.ClassificationConfidence.Decimal.String())
}

func TestBulkUpload_ArchivosInvalidosNoAbortanElLote(t *testing.T) {
	f := newFixture(t)
	files := []usecase.IncomingFile{
		{Filename: "ok.pdf", Size: 3, Content: []byte("pdf")},
		{Filename: "virus.exe", Size: 3, Content: []byte("exe")},
		{Filename: "big.pdf", Size: usecase.MaxFileSize + 1},
	}

	res, err := f.upload.BulkUpload(context.Background(), employee, files, dto.UploadOptions{Department: "finance", Priority: entity.PriorityUrgent})
	require.NoError(t, err)

	assert.Equal(t, 1, res.UploadedCount)
	assert.Equal(t, 2, res.FailedCount)
	assert.Equal(t, entity.PriorityUrgent, res.Results[0].Priority, "la prioridad explícita gana a la heurística")
	assert.Equal(t, "Unsupported file type", res.Results[1].Error)
	assert.Equal(t, "File too large", res.Results[2].Error)
}

func TestBulkUpload_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	file := []usecase.IncomingFile{{Filename: "a.txt", Content: []byte("a")}}

	_, err := f.upload.BulkUpload(ctx, employee, nil, dto.UploadOptions{Department: "finance"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.upload.BulkUpload(ctx, employee, file, dto.UploadOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.upload.BulkUpload(ctx, employee, file, dto.UploadOptions{Department: "finance", Priority: "asap"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── Visibilidad ───────────────────────────────────────────────────────────────

func TestList_VisibilidadPorRol(t *testing.T) {
	f := newFixture(t)
	f.uploadAs(t, employee, "finance", "mine.txt")
	f.uploadAs(t, other, "legal", "contract.pdf")
	f.uploadAs(t, admin, "hr", "hr_policy.pdf")
	ctx := context.Background()

	got, err := f.documents.List(ctx, employee, dto.DocumentFilter{Department: "legal"})
	require.NoError(t, err)
	assert.Equal(t, []string{"mine.txt"}, ids(got), "employee solo ve lo suyo aunque filtre")

	got, err = f.documents.List(ctx, manager, dto.DocumentFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"mine.txt"}, ids(got), "manager ve su departamento por defecto")

	got, err = f.documents.List(ctx, manager, dto.DocumentFilter{Department: "legal"})
	require.NoError(t, err)
	assert.Equal(t, []string{"contract.pdf"}, ids(got))

	got, err = f.documents.List(ctx, admin, dto.DocumentFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestList_BusquedaOrdenYLimite(t *testing.T) {
	f := newFixture(t)
	f.uploadAs(t, admin, "finance", "b_invoice.pdf")
	f.uploadAs(t, admin, "finance", "a_invoice.pdf")
	f.uploadAs(t, admin, "finance", "notes.txt")
	ctx := context.Background()

	got, err := f.documents.List(ctx, admin, dto.DocumentFilter{Search: "INVOICE", SortBy: "filename"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a_invoice.pdf", "b_invoice.pdf"}, ids(got))

	got, err = f.documents.List(ctx, admin, dto.DocumentFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = f.documents.List(ctx, admin, dto.DocumentFilter{SortBy: "random"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGet_AjenoEsNotFound(t *testing.T) {
	f := newFixture(t)
	res := f.uploadAs(t, other, "legal", "contract.pdf")

	_, err := f.documents.Get(context.Background(), employee, res.Results[0].DocID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.documents.Get(context.Background(), admin, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Revisión ──────────────────────────────────────────────────────────────────

func TestReview_AplicaYAvisaAlAutor(t *testing.T) {
	f := newFixture(t)
	res := f.uploadAs(t, employee, "finance", "invoice.pdf")
	id := res.Results[0].DocID
	ctx := context.Background()

	require.NoError(t, f.documents.Review(ctx, manager, id, dto.ReviewRequest{Status: entity.StatusApproved, Comments: "ok"}))

	d, err := f.documents.Get(ctx, employee, id)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, d.Status)
	assert.Equal(t, entity.ProcessingReviewed, d.ProcessingStatus)
	assert.Equal(t, "Finance Manager", d.ReviewedBy)
	require.NotNil(t, d.ReviewedAt)

	feed, err := f.notifications.List(ctx, employee, dto.PageRequest{})
	require.NoError(t, err)
	var subjects []string
	for _, n := range feed.Emails {
		subjects = append(subjects, n.Subject)
	}
	assert.Contains(t, subjects, "Document Review Complete: invoice.pdf - APPROVED")
}

func TestReview_ReglasDeAcceso(t *testing.T) {
	f := newFixture(t)
	res := f.uploadAs(t, employee, "finance", "invoice.pdf")
	id := res.Results[0].DocID
	ctx := context.Background()

	err := f.documents.Review(ctx, employee, id, dto.ReviewRequest{Status: entity.StatusApproved})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = f.documents.Review(ctx, admin, id, dto.ReviewRequest{Status: "maybe"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = f.documents.Review(ctx, admin, "missing", dto.ReviewRequest{Status: entity.StatusRejected})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteYDownload(t *testing.T) {
	f := newFixture(t)
	res := f.uploadAs(t, employee, "finance", "notes.txt")
	id := res.Results[0].DocID
	ctx := context.Background()

	file, err := f.documents.Download(ctx, employee, id)
	require.NoError(t, err)
	assert.Equal(t, "contenido de notes.txt", string(file.Content))
	assert.Equal(t, "text/plain", file.MimeType)

	assert.ErrorIs(t, f.documents.Delete(ctx, employee, id), domain.ErrForbidden)
	require.NoError(t, f.documents.Delete(ctx, admin, id))
	assert.ErrorIs(t, f.documents.Delete(ctx, admin, id), domain.ErrNotFound)
}

// ── Avisos ────────────────────────────────────────────────────────────────────

func TestNotifications_FeedPorRolYLectura(t *testing.T) {
	f := newFixture(t)
	f.uploadAs(t, employee, "finance", "a.txt", "b.txt")
	f.uploadAs(t, other, "legal", "c.txt")
	ctx := context.Background()

	// employee: solo su confirmación
	cnt, err := f.notifications.UnreadCount(ctx, employee)
	require.NoError(t, err)
	assert.Equal(t, 1, cnt.Count)

	// manager finance: dos avisos del departamento
	feed, err := f.notifications.List(ctx, manager, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, feed.Emails, 2)

	// admin: avisos de todos los departamentos
	cnt, err = f.notifications.UnreadCount(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 3, cnt.Count)

	require.NoError(t, f.notifications.MarkRead(ctx, manager, feed.Emails[0].ID))
	cnt, err = f.notifications.UnreadCount(ctx, manager)
	require.NoError(t, err)
	assert.Equal(t, 1, cnt.Count)

	err = f.notifications.MarkRead(ctx, other, feed.Emails[1].ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound), "un aviso ajeno no se puede marcar")
}

func TestNotifications_Paginacion(t *testing.T) {
	f := newFixture(t)
	f.uploadAs(t, employee, "finance", "a.txt", "b.txt", "c.txt")
	ctx := context.Background()

	p1, err := f.notifications.List(ctx, manager, dto.PageRequest{Page: 1, PageSize: 2})
	require.NoError(t, err)
	p2, err := f.notifications.List(ctx, manager, dto.PageRequest{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, p1.Emails, 2)
	assert.Len(t, p2.Emails, 1)
}

// ── Stats ─────────────────────────────────────────────────────────────────────

func TestStats_DashboardYAnalytics(t *testing.T) {
	f := newFixture(t)
	res := f.uploadAs(t, employee, "finance", "invoice.pdf", "notes.txt")
	f.uploadAs(t, other, "legal", "contract.pdf")
	ctx := context.Background()
	require.NoError(t, f.documents.Review(ctx, admin, res.Results[0].DocID, dto.ReviewRequest{Status: entity.StatusApproved}))

	snap, err := f.stats.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.TotalDocuments)
	assert.Equal(t, 3, snap.ProcessedDocuments)
	assert.Equal(t, 2, snap.PendingDocuments)
	assert.Equal(t, "100", snap.ProcessingRate.String())
	assert.Equal(t, 2, snap.DepartmentStats["finance"])

	snap, err = f.stats.Analytics(ctx, dto.AnalyticsFilter{Department: "legal"})
	require.NoError(t, err)
	assert.Equal(t, 1, snap.TotalDocuments)

	today := time.Now().UTC().Format("2006-01-02")
	snap, err = f.stats.Analytics(ctx, dto.AnalyticsFilter{From: today, To: today})
	require.NoError(t, err)
	assert.Equal(t, 3, snap.TotalDocuments)

	_, err = f.stats.Analytics(ctx, dto.AnalyticsFilter{From: "2026-02-10", To: "2026-02-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.stats.Analytics(ctx, dto.AnalyticsFilter{From: "10/02/2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSystem_HealthYStats(t *testing.T) {
	f := newFixture(t)
	f.uploadAs(t, admin, "it", "a.txt")

	h := f.system.Health()
	assert.Equal(t, "healthy", h.Status)
	assert.Equal(t, "idcr-sandbox", h.Service)

	s, err := f.system.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, s.Documents)
	assert.Equal(t, 4, s.Users)
}
