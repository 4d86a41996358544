package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lromero/cpr-api/internal/application/picking"
	"github.com/lromero/cpr-api/internal/domain/repository"
)

var _ picking.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con los
// repositorios del libro de picking atados a la tx.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	ofRepo repository.OFRepository,
	asignacionRepo repository.AsignacionRepository,
	contenedorRepo repository.ContenedorRepository,
	pickingRepo repository.PickingStateRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ofRepo := NewOFRepository(tx)
	asignacionRepo := NewAsignacionRepository(tx)
	contenedorRepo := NewContenedorRepository(tx)
	pickingRepo := NewPickingStateRepository(tx)

	if err := fn(ofRepo, asignacionRepo, contenedorRepo, pickingRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
