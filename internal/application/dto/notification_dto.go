package dto

// Notification aviso del feed (forma del feed de correos del backend FastAPI).
type Notification struct {
	ID           string    `json:"id"`
	Subject      string    `json:"subject"`
	SentBy       string    `json:"sent_by"`
	ReceivedBy   string    `json:"received_by"`
	SentAt       Timestamp `json:"sent_at"`
	Status       string    `json:"status"`
	Read         bool      `json:"read"`
	DocumentID   string    `json:"document_id,omitempty"`
	DocumentName string    `json:"document_name"`
	Department   string    `json:"department"`
	Priority     string    `json:"priority"`
	BodyPreview  string    `json:"body_preview"`
}

// NotificationListResponse cuerpo de GET /email-notifications.
type NotificationListResponse struct {
	Emails []Notification `json:"emails"`
}

// UnreadCountResponse cuerpo de GET /email-notifications/unread-count.
type UnreadCountResponse struct {
	Count int `json:"count"`
}
