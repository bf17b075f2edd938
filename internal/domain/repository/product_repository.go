package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockwise/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetForUpdate devuelven nil, nil cuando el producto no existe.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]*entity.Product, error)
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE); solo tiene sentido dentro de una tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	UpdateStock(ctx context.Context, id string, quantity int) error
	UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error
}
