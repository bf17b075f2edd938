package inventory

import (
	"fmt"

	"github.com/jhoicas/stockwise/internal/domain"
	"github.com/jhoicas/stockwise/internal/domain/entity"
)

// ApplyTransaction calcula la nueva cantidad de stock a partir de la anterior.
// in/return/restock suman; out/damaged restan con piso en cero; adjustment suma un delta
// firmado (también con piso en cero); transfer no altera la cantidad.
func ApplyTransaction(previous, quantity int, txType string) (int, error) {
	if txType != entity.TransactionTypeAdjustment && quantity < 0 {
		return 0, fmt.Errorf("%w: cantidad negativa para %q", domain.ErrInvalidInput, txType)
	}
	switch txType {
	case entity.TransactionTypeIn, entity.TransactionTypeReturn, entity.TransactionTypeRestock:
		return previous + quantity, nil
	case entity.TransactionTypeOut, entity.TransactionTypeDamaged:
		return floorZero(previous - quantity), nil
	case entity.TransactionTypeAdjustment:
		return floorZero(previous + quantity), nil
	case entity.TransactionTypeTransfer:
		return previous, nil
	}
	return 0, fmt.Errorf("%w: tipo de transacción %q", domain.ErrInvalidInput, txType)
}

// UpdatesCost indica si el tipo de transacción recalcula el costo promedio del producto.
func UpdatesCost(txType string) bool {
	return txType == entity.TransactionTypeIn || txType == entity.TransactionTypeRestock
}

func floorZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
