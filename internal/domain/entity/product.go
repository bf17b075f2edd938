package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultReorderThreshold umbral de stock bajo cuando el producto no tiene reorder_level configurado.
const DefaultReorderThreshold = 5

// Product representa un producto del inventario. Solo lectura para el motor de alertas;
// Quantity y Cost se modifican únicamente vía transacciones.
type Product struct {
	ID            string
	Name          string
	SKU           string
	Quantity      int             // stock actual
	ReorderLevel  int             // 0 = sin configurar
	MaxStockLevel int             // 0 = sin límite (no genera overstock)
	Price         decimal.Decimal // precio de venta
	Cost          decimal.Decimal // costo promedio ponderado
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Threshold devuelve el umbral de stock bajo: ReorderLevel si es > 0, si no def.
func (p *Product) Threshold(def int) int {
	if p.ReorderLevel > 0 {
		return p.ReorderLevel
	}
	return def
}
