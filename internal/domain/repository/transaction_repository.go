package repository

import (
	"context"

	"github.com/jhoicas/stockwise/internal/domain/entity"
)

// TransactionRepository puerto del libro de movimientos de inventario.
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	// ListByProduct devuelve los movimientos de los últimos lookbackDays, ordenados por fecha ascendente.
	ListByProduct(ctx context.Context, productID string, lookbackDays int) ([]entity.Transaction, error)
}
