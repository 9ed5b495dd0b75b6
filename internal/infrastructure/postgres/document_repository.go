package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/idcr-client/internal/domain"
	"github.com/jhoicas/idcr-client/internal/domain/entity"
	"github.com/jhoicas/idcr-client/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo documentos sobre PostgreSQL (pool o tx).
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const documentColumns = `id, filename, document_type, department, status, processing_status, priority,
	uploaded_by, uploaded_at, file_size, mime_type, content, extracted_text, summary,
	classification_confidence, batch_id, reviewed_by, reviewed_at, review_comments`

// Orden por columna; el desempate siempre es uploaded_at DESC.
var documentOrder = map[string]string{
	"":            "uploaded_at DESC",
	"uploaded_at": "uploaded_at DESC",
	"filename":    "lower(filename) ASC, uploaded_at DESC",
	"priority": `CASE priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 WHEN 'low' THEN 3 ELSE 4 END ASC, uploaded_at DESC`,
	"file_size": "file_size DESC, uploaded_at DESC",
}

func (r *DocumentRepo) Create(ctx context.Context, d *entity.Document) error {
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.Filename, d.DocumentType, d.Department, d.Status, d.ProcessingStatus, d.Priority,
		d.UploadedBy, d.UploadedAt, d.FileSize, d.MimeType, d.Content, d.ExtractedText, d.Summary,
		d.ClassificationConfidence, d.BatchID, d.ReviewedBy, d.ReviewedAt, d.ReviewComments,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: documento %s duplicado", domain.ErrInvalidInput, d.ID)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: usuario %s inexistente", domain.ErrInvalidInput, d.UploadedBy)
		}
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// FindByID devuelve (nil, nil) si no existe.
func (r *DocumentRepo) FindByID(ctx context.Context, id string) (*entity.Document, error) {
	row := r.q.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	d, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return d, nil
}

func (r *DocumentRepo) List(ctx context.Context, filter entity.DocumentFilter) ([]*entity.Document, error) {
	query, args := buildListQuery(filter)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []*entity.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Update reescribe los campos mutables (revisión y estado).
func (r *DocumentRepo) Update(ctx context.Context, d *entity.Document) error {
	query := `
		UPDATE documents SET
			status = $2, processing_status = $3, priority = $4, department = $5,
			reviewed_by = $6, reviewed_at = $7, review_comments = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		d.ID, d.Status, d.ProcessingStatus, d.Priority, d.Department,
		d.ReviewedBy, d.ReviewedAt, d.ReviewComments,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DocumentRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

// buildListQuery traduce el filtro a SQL parametrizado. Misma semántica que
// entity.DocumentFilter.Matches y entity.SortDocuments.
func buildListQuery(f entity.DocumentFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Department != "" {
		where = append(where, "lower(department) = lower("+arg(f.Department)+")")
	}
	if f.Status != "" {
		where = append(where, "status = "+arg(f.Status))
	}
	if f.UploadedBy != "" {
		where = append(where, "uploaded_by = "+arg(f.UploadedBy))
	}
	if f.Search != "" {
		p := arg("%" + escapeLike(f.Search) + "%")
		where = append(where, "(filename ILIKE "+p+" OR document_type ILIKE "+p+" OR extracted_text ILIKE "+p+")")
	}

	var b strings.Builder
	b.WriteString("SELECT " + documentColumns + " FROM documents")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	order, ok := documentOrder[f.SortBy]
	if !ok {
		order = documentOrder[""]
	}
	b.WriteString(" ORDER BY " + order)
	if f.Limit > 0 {
		b.WriteString(" LIMIT " + arg(f.Limit))
	}
	return b.String(), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var d entity.Document
	err := row.Scan(
		&d.ID, &d.Filename, &d.DocumentType, &d.Department, &d.Status, &d.ProcessingStatus, &d.Priority,
		&d.UploadedBy, &d.UploadedAt, &d.FileSize, &d.MimeType, &d.Content, &d.ExtractedText, &d.Summary,
		&d.ClassificationConfidence, &d.BatchID, &d.ReviewedBy, &d.ReviewedAt, &d.ReviewComments,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
