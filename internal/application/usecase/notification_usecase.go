package usecase

import (
	"context"

	"github.com/jhoicas/idcr-client/internal/application/dto"
	"github.com/jhoicas/idcr-client/internal/domain/repository"
)

// NotificationUseCase feed de avisos del actor.
type NotificationUseCase struct {
	repo repository.NotificationRepository
}

// NewNotificationUseCase construye el caso de uso.
func NewNotificationUseCase(repo repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{repo: repo}
}

// List página del feed, más reciente primero.
func (uc *NotificationUseCase) List(ctx context.Context, actor Actor, page dto.PageRequest) (*dto.NotificationListResponse, error) {
	page.DefaultPage()
	dept, include := actor.feed()
	items, err := uc.repo.ListFor(ctx, actor.UserID, dept, include, page.PageSize, page.Offset())
	if err != nil {
		return nil, err
	}
	out := &dto.NotificationListResponse{Emails: make([]dto.Notification, 0, len(items))}
	for _, n := range items {
		out.Emails = append(out.Emails, dto.Notification{
			ID:           n.ID,
			Subject:      n.Subject,
			SentBy:       n.SentBy,
			ReceivedBy:   n.ReceivedBy,
			SentAt:       dto.NewTimestamp(n.SentAt),
			Status:       n.Status,
			Read:         n.Read,
			DocumentID:   n.DocumentID,
			DocumentName: n.DocumentName,
			Department:   n.Department,
			Priority:     n.Priority,
			BodyPreview:  n.BodyPreview,
		})
	}
	return out, nil
}

// MarkRead marca un aviso del feed como leído. ErrNotFound si no es del actor.
// Los avisos de departamento comparten el flag entre los managers que los ven.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, actor Actor, id string) error {
	dept, include := actor.feed()
	return uc.repo.MarkRead(ctx, id, actor.UserID, dept, include)
}

// UnreadCount avisos sin leer del feed.
func (uc *NotificationUseCase) UnreadCount(ctx context.Context, actor Actor) (*dto.UnreadCountResponse, error) {
	dept, include := actor.feed()
	n, err := uc.repo.CountUnread(ctx, actor.UserID, dept, include)
	if err != nil {
		return nil, err
	}
	return &dto.UnreadCountResponse{Count: n}, nil
}
