package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Lo usan las operaciones bulk del repositorio de usuarios para que un
// borrado/cambio de rol masivo sea una sola transición de estado.
type TxRunner struct {
	db DB
}

// NewTxRunner construye el runner sobre la conexión dada.
func NewTxRunner(db DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run abre una transacción, ejecuta fn y hace commit; ante cualquier error
// hace rollback y lo propaga.
func (r *TxRunner) Run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // no-op si ya hubo commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
