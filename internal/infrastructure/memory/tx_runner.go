package memory

import (
	"context"

	"github.com/jhoicas/idcr-client/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner sin transacción real: en memoria las escrituras no fallan a mitad.
type TxRunner struct {
	docs   *DocumentRepo
	notifs *NotificationRepo
}

// NewTxRunner ata el runner a los repositorios.
func NewTxRunner(docs *DocumentRepo, notifs *NotificationRepo) *TxRunner {
	return &TxRunner{docs: docs, notifs: notifs}
}

func (r *TxRunner) Run(ctx context.Context, fn func(repository.DocumentRepository, repository.NotificationRepository) error) error {
	return fn(r.docs, r.notifs)
}
