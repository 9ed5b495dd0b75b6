package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/idcr-client/internal/domain"
	"github.com/jhoicas/idcr-client/internal/domain/entity"
	"github.com/jhoicas/idcr-client/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo feed de avisos sobre PostgreSQL.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

const notificationColumns = `id, subject, sent_by, received_by, recipient_id, sent_at, status, read,
	document_id, document_name, department, priority, body_preview`

// feedClause condición de visibilidad. $1 = usuario, $2 = incluir feed, $3 = departamento.
const feedClause = `(recipient_id = $1 OR ($2 AND recipient_id = '' AND ($3 = '' OR lower(department) = lower($3))))`

func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		n.ID, n.Subject, n.SentBy, n.ReceivedBy, n.RecipientID, n.SentAt, n.Status, n.Read,
		n.DocumentID, n.DocumentName, n.Department, n.Priority, n.BodyPreview,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepo) ListFor(ctx context.Context, userID, department string, includeDepartment bool, limit, offset int) ([]*entity.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications
		WHERE ` + feedClause + `
		ORDER BY sent_at DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, userID, includeDepartment, department, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(
			&n.ID, &n.Subject, &n.SentBy, &n.ReceivedBy, &n.RecipientID, &n.SentAt, &n.Status, &n.Read,
			&n.DocumentID, &n.DocumentName, &n.Department, &n.Priority, &n.BodyPreview,
		); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

func (r *NotificationRepo) CountUnread(ctx context.Context, userID, department string, includeDepartment bool) (int, error) {
	var n int
	query := `SELECT count(*) FROM notifications WHERE NOT read AND ` + feedClause
	if err := r.q.QueryRow(ctx, query, userID, includeDepartment, department).Scan(&n); err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return n, nil
}

// MarkRead solo marca avisos del feed del usuario.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID, department string, includeDepartment bool) error {
	query := `UPDATE notifications SET read = true WHERE id = $4 AND ` + feedClause
	tag, err := r.q.Exec(ctx, query, userID, includeDepartment, department, id)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
