package repository

import "context"

// TxRunner ejecuta fn en una transacción con repositorios atados a ella.
// Si fn devuelve error no se confirma nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(docs DocumentRepository, notifs NotificationRepository) error) error
}
