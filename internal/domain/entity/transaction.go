package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción de inventario.
const (
	TransactionTypeIn         = "in"         // entrada
	TransactionTypeOut        = "out"        // salida / venta
	TransactionTypeAdjustment = "adjustment" // ajuste con delta firmado
	TransactionTypeReturn     = "return"     // devolución de cliente
	TransactionTypeDamaged    = "damaged"    // merma
	TransactionTypeTransfer   = "transfer"   // traslado, no altera la cantidad
	TransactionTypeRestock    = "restock"    // reposición de proveedor

	// Etiquetas de salida heredadas del ledger; solo se leen para pronóstico.
	TransactionTypeSold        = "sold"
	TransactionTypeTransferOut = "transfer_out"
)

// Transaction es un movimiento de stock inmutable del ledger.
// Quantity es no negativa salvo en "adjustment", donde representa un delta firmado.
type Transaction struct {
	ID               string
	ProductID        string
	Type             string
	Quantity         int
	PreviousQuantity int
	NewQuantity      int
	UnitPrice        decimal.Decimal
	TotalValue       decimal.Decimal
	Notes            string
	CreatedBy        string
	CreatedAt        time.Time
}

// IsOutbound indica si la transacción cuenta como demanda para los modelos de pronóstico.
func (t *Transaction) IsOutbound() bool {
	switch t.Type {
	case TransactionTypeOut, TransactionTypeSold, TransactionTypeTransferOut:
		return true
	}
	return false
}

// IsValidTransactionType valida los tipos que se pueden registrar.
func IsValidTransactionType(t string) bool {
	switch t {
	case TransactionTypeIn, TransactionTypeOut, TransactionTypeAdjustment, TransactionTypeReturn,
		TransactionTypeDamaged, TransactionTypeTransfer, TransactionTypeRestock:
		return true
	}
	return false
}
