package repository

import (
	"context"

	"github.com/jhoicas/idcr-client/internal/domain/entity"
)

// NotificationRepository feed de avisos por usuario.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	// ListFor devuelve los avisos dirigidos a userID más, si includeDepartment,
	// los del feed de managers de department (department vacío = todos los
	// departamentos). Orden: más reciente primero.
	ListFor(ctx context.Context, userID, department string, includeDepartment bool, limit, offset int) ([]*entity.Notification, error)
	CountUnread(ctx context.Context, userID, department string, includeDepartment bool) (int, error)
	// MarkRead devuelve domain.ErrNotFound si no existe o no pertenece al feed del usuario.
	MarkRead(ctx context.Context, id, userID, department string, includeDepartment bool) error
}
