// Package inventory registra movimientos de stock de forma transaccional.
package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockwise/internal/domain"
	"github.com/jhoicas/stockwise/internal/domain/entity"
	"github.com/jhoicas/stockwise/internal/domain/inventory"
	"github.com/jhoicas/stockwise/internal/domain/repository"
)

const (
	defaultHistoryDays = 30
	maxHistoryDays     = 365
)

// TransactionUseCase registra movimientos (in, out, adjustment, return, damaged, transfer, restock)
// con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
type TransactionUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	txRepo      repository.TransactionRepository
	checker     StockChecker
	forecasts   ForecastInvalidator
	log         zerolog.Logger
	now         func() time.Time
}

// NewTransactionUseCase construye el caso de uso. checker puede ser nil.
func NewTransactionUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	txRepo repository.TransactionRepository,
	checker StockChecker,
	log zerolog.Logger,
) *TransactionUseCase {
	return &TransactionUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		txRepo:      txRepo,
		checker:     checker,
		log:         log.With().Str("component", "transactions").Logger(),
		now:         time.Now,
	}
}

// WithForecastInvalidator invalida la caché de pronósticos tras cada movimiento.
func (uc *TransactionUseCase) WithForecastInvalidator(inv ForecastInvalidator) *TransactionUseCase {
	uc.forecasts = inv
	return uc
}

// TransactionInput entrada para registrar un movimiento.
// Quantity es positiva salvo en adjustment, donde el signo indica la dirección.
type TransactionInput struct {
	UserID    string
	ProductID string
	Type      string
	Quantity  int
	UnitPrice *decimal.Decimal
	Notes     string
}

// RecordTransaction valida la entrada, bloquea el producto, calcula la nueva cantidad
// (nunca negativa), actualiza stock y costo y guarda el movimiento en la misma tx.
// Después del commit re-evalúa el umbral del producto; un fallo ahí solo se registra.
func (uc *TransactionUseCase) RecordTransaction(ctx context.Context, in TransactionInput) (*entity.Transaction, error) {
	if in.ProductID == "" || !entity.IsValidTransactionType(in.Type) {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity == 0 || (in.Quantity < 0 && in.Type != entity.TransactionTypeAdjustment) {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	now := uc.now()
	var recorded *entity.Transaction
	err = uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, txRepo repository.TransactionRepository) error {
		// Bloquea la fila en products (SELECT FOR UPDATE) para evitar condiciones de carrera
		locked, err := productRepo.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		newQty, err := inventory.ApplyTransaction(locked.Quantity, in.Quantity, in.Type)
		if err != nil {
			return err
		}

		unitPrice := locked.Cost
		if in.UnitPrice != nil {
			unitPrice = *in.UnitPrice
		}
		if inventory.UpdatesCost(in.Type) && in.UnitPrice != nil {
			newCost := inventory.WeightedAverageCost(locked.Quantity, locked.Cost, in.Quantity, unitPrice)
			if err := productRepo.UpdateCost(ctx, in.ProductID, newCost); err != nil {
				return err
			}
		}
		if newQty != locked.Quantity {
			if err := productRepo.UpdateStock(ctx, in.ProductID, newQty); err != nil {
				return err
			}
		}

		recorded = &entity.Transaction{
			ID:               uuid.New().String(),
			ProductID:        in.ProductID,
			Type:             in.Type,
			Quantity:         in.Quantity,
			PreviousQuantity: locked.Quantity,
			NewQuantity:      newQty,
			UnitPrice:        unitPrice,
			TotalValue:       unitPrice.Mul(decimal.NewFromInt(int64(abs(in.Quantity)))),
			Notes:            in.Notes,
			CreatedBy:        in.UserID,
			CreatedAt:        now,
		}
		return txRepo.Create(ctx, recorded)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("transaction_id", recorded.ID).Str("product_id", recorded.ProductID).
		Str("type", recorded.Type).Int("previous", recorded.PreviousQuantity).Int("new", recorded.NewQuantity).
		Msg("movimiento registrado")

	if uc.forecasts != nil {
		uc.forecasts.InvalidateProduct(ctx, in.ProductID)
	}
	if uc.checker != nil {
		if _, err := uc.checker.CheckProduct(ctx, in.ProductID); err != nil {
			uc.log.Error().Err(err).Str("product_id", in.ProductID).Msg("error re-evaluando alertas del producto")
		}
	}
	return recorded, nil
}

// ListTransactions historial de un producto en los últimos days días (ascendente).
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, productID string, days int) ([]entity.Transaction, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	if days <= 0 {
		days = defaultHistoryDays
	}
	if days > maxHistoryDays {
		days = maxHistoryDays
	}
	list, err := uc.txRepo.ListByProduct(ctx, productID, days)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos: %w", err)
	}
	return list, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
