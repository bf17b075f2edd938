package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockwise/internal/domain/entity"
)

// RecordTransactionRequest body para POST /api/transactions.
type RecordTransactionRequest struct {
	ProductID string           `json:"product_id"`
	Type      string           `json:"type"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Notes     string           `json:"notes,omitempty"`
}

// TransactionResponse movimiento registrado.
type TransactionResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	Type             string          `json:"type"`
	Quantity         int             `json:"quantity"`
	PreviousQuantity int             `json:"previous_quantity"`
	NewQuantity      int             `json:"new_quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	TotalValue       decimal.Decimal `json:"total_value"`
	Notes            string          `json:"notes,omitempty"`
	CreatedBy        string          `json:"created_by,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ToTransactionResponse mapea la entidad al DTO.
func ToTransactionResponse(t *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:               t.ID,
		ProductID:        t.ProductID,
		Type:             t.Type,
		Quantity:         t.Quantity,
		PreviousQuantity: t.PreviousQuantity,
		NewQuantity:      t.NewQuantity,
		UnitPrice:        t.UnitPrice,
		TotalValue:       t.TotalValue,
		Notes:            t.Notes,
		CreatedBy:        t.CreatedBy,
		CreatedAt:        t.CreatedAt,
	}
}
