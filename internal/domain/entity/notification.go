package entity

import "time"

// Notification aviso registrado al subir o revisar un documento.
// Se direcciona a un usuario concreto (RecipientID) o a los responsables de un departamento.
type Notification struct {
	ID           string
	Subject      string
	SentBy       string
	ReceivedBy   string
	RecipientID  string // vacío = feed de managers del departamento
	SentAt       time.Time
	Status       string // delivered
	Read         bool
	DocumentID   string
	DocumentName string
	Department   string
	Priority     string
	BodyPreview  string
}
