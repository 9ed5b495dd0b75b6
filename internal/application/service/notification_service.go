package service

import (
	"context"
	"net/url"
	"strconv"

	"github.com/jhoicas/idcr-client/internal/application/dto"
	"github.com/jhoicas/idcr-client/internal/application/ports"
)

// NotificationService feed de avisos del usuario.
type NotificationService struct {
	api ports.APIClient
}

func NewNotificationService(api ports.APIClient) *NotificationService {
	return &NotificationService{api: api}
}

// List GET /email-notifications?page&page_size.
func (s *NotificationService) List(ctx context.Context, page dto.PageRequest) ([]dto.Notification, error) {
	page.DefaultPage()
	q := url.Values{}
	q.Set("page", strconv.Itoa(page.Page))
	q.Set("page_size", strconv.Itoa(page.PageSize))

	var out dto.NotificationListResponse
	if err := s.api.Do(ctx, ports.Request{Method: "GET", Path: "/email-notifications", Query: q}, &out); err != nil {
		return nil, err
	}
	if out.Emails == nil {
		out.Emails = []dto.Notification{}
	}
	return out.Emails, nil
}

// MarkAsRead PATCH /email-notifications/{id}/read.
func (s *NotificationService) MarkAsRead(ctx context.Context, id string) error {
	seg, err := escapeID("id", id)
	if err != nil {
		return err
	}
	return s.api.Do(ctx, ports.Request{Method: "PATCH", Path: "/email-notifications/" + seg + "/read"}, nil)
}

// UnreadCount GET /email-notifications/unread-count.
func (s *NotificationService) UnreadCount(ctx context.Context) (int, error) {
	var out dto.UnreadCountResponse
	if err := s.api.Do(ctx, ports.Request{Method: "GET", Path: "/email-notifications/unread-count"}, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}
