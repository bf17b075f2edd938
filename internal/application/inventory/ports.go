package inventory

import (
	"context"

	"github.com/jhoicas/stockwise/internal/domain/entity"
	"github.com/jhoicas/stockwise/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad entre la actualización de stock y el registro del movimiento.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		txRepo repository.TransactionRepository,
	) error) error
}

// StockChecker re-evalúa el umbral de un producto después de un movimiento.
type StockChecker interface {
	CheckProduct(ctx context.Context, productID string) (*entity.Alert, error)
}

// ForecastInvalidator descarta pronósticos cacheados cuando cambia el historial del producto.
type ForecastInvalidator interface {
	InvalidateProduct(ctx context.Context, productID string)
}
