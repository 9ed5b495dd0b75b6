package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/idcr-client/internal/domain"
	"github.com/jhoicas/idcr-client/internal/domain/entity"
	"github.com/jhoicas/idcr-client/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo avisos en orden de inserción.
type NotificationRepo struct {
	mu    sync.RWMutex
	items []*entity.Notification
}

// NewNotificationRepository construye el repositorio vacío.
func NewNotificationRepository() *NotificationRepo {
	return &NotificationRepo{}
}

func (r *NotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *n
	r.items = append(r.items, &cp)
	return nil
}

func (r *NotificationRepo) ListFor(_ context.Context, userID, department string, includeDepartment bool, limit, offset int) ([]*entity.Notification, error) {
	r.mu.RLock()
	var out []*entity.Notification
	for _, n := range r.items {
		if visible(n, userID, department, includeDepartment) {
			cp := *n
			out = append(out, &cp)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].SentAt.After(out[j].SentAt) })
	if offset >= len(out) {
		return []*entity.Notification{}, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *NotificationRepo) CountUnread(_ context.Context, userID, department string, includeDepartment bool) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, it := range r.items {
		if !it.Read && visible(it, userID, department, includeDepartment) {
			n++
		}
	}
	return n, nil
}

func (r *NotificationRepo) MarkRead(_ context.Context, id, userID, department string, includeDepartment bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.ID == id && visible(it, userID, department, includeDepartment) {
			it.Read = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func visible(n *entity.Notification, userID, department string, includeDepartment bool) bool {
	if n.RecipientID != "" {
		return n.RecipientID == userID
	}
	return includeDepartment && (department == "" || strings.EqualFold(n.Department, department))
}
