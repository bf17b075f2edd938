package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/stockwise/internal/domain/entity"
	"github.com/jhoicas/stockwise/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo libro de movimientos sobre PostgreSQL (usable con pool o tx).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create persiste un movimiento.
func (r *TransactionRepo) Create(ctx context.Context, tx *entity.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_transactions (id, product_id, type, quantity, previous_quantity, new_quantity, unit_price, total_value, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		tx.ID, tx.ProductID, tx.Type, tx.Quantity, tx.PreviousQuantity, tx.NewQuantity,
		tx.UnitPrice, tx.TotalValue, nullIfEmpty(tx.Notes), nullIfEmpty(tx.CreatedBy), tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create inventory transaction: %w", err)
	}
	return nil
}

// ListByProduct movimientos de los últimos lookbackDays días, ascendente por fecha.
func (r *TransactionRepo) ListByProduct(ctx context.Context, productID string, lookbackDays int) ([]entity.Transaction, error) {
	query := `
		SELECT id, product_id, type, quantity, previous_quantity, new_quantity, unit_price, total_value, notes, created_by, created_at
		FROM inventory_transactions
		WHERE product_id = $1 AND created_at >= NOW() - make_interval(days => $2::int)
		ORDER BY created_at ASC`
	rows, err := r.q.Query(ctx, query, productID, lookbackDays)
	if err != nil {
		return nil, fmt.Errorf("list transactions by product: %w", err)
	}
	defer rows.Close()
	var list []entity.Transaction
	for rows.Next() {
		var t entity.Transaction
		var notes, createdBy *string
		if err := rows.Scan(&t.ID, &t.ProductID, &t.Type, &t.Quantity, &t.PreviousQuantity, &t.NewQuantity,
			&t.UnitPrice, &t.TotalValue, &notes, &createdBy, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if notes != nil {
			t.Notes = *notes
		}
		if createdBy != nil {
			t.CreatedBy = *createdBy
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
