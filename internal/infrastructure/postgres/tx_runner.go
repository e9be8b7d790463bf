package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dulceria-lilis/erp-api/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con los repos atados a la tx y hace
// Commit o Rollback según el resultado.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	pgxTx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = pgxTx.Rollback(ctx) }()

	if err := fn(&txBundle{q: pgxTx}); err != nil {
		return err
	}
	if err := pgxTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txBundle implementa repository.Tx sobre una transacción abierta.
type txBundle struct {
	q Querier
}

func (t *txBundle) Products() repository.ProductRepository   { return NewProductRepository(t.q) }
func (t *txBundle) Suppliers() repository.SupplierRepository { return NewSupplierRepository(t.q) }
func (t *txBundle) Relations() repository.RelationRepository { return NewRelationRepository(t.q) }
func (t *txBundle) Movements() repository.MovementRepository { return NewMovementRepository(t.q) }
func (t *txBundle) Users() repository.UserRepository         { return NewUserRepository(t.q) }
