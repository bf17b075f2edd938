package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stockwise/internal/application/inventory"
	"github.com/jhoicas/stockwise/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner registra movimientos de stock dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
	opts pgx.TxOptions
}

// NewTxRunner construye el runner con el pool. READ COMMITTED basta porque el
// producto se bloquea con SELECT ... FOR UPDATE.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool, opts: pgx.TxOptions{IsoLevel: pgx.ReadCommitted}}
}

// Run ejecuta fn con los repositorios de productos y movimientos atados a la tx.
// Si fn devuelve error se hace rollback y el error se propaga sin envolver.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	txRepo repository.TransactionRepository,
) error) error {
	var fnErr error
	err := pgx.BeginTxFunc(ctx, r.pool, r.opts, func(tx pgx.Tx) error {
		fnErr = fn(NewProductRepository(tx), NewTransactionRepository(tx))
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return fmt.Errorf("transacción de inventario: %w", err)
	}
	return nil
}
