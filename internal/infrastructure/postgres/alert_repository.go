package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockwise/internal/domain"
	"github.com/jhoicas/stockwise/internal/domain/entity"
	"github.com/jhoicas/stockwise/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

const alertColumns = `id, product_id, type, severity, title, message, status, metadata, created_at,
	acknowledged_by, acknowledged_at, resolved_by, resolved_at`

// AlertRepo implementación del puerto AlertRepository sobre PostgreSQL (tabla stock_alerts).
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

// Create persiste una alerta nueva. La metadata se guarda como JSONB.
func (r *AlertRepo) Create(ctx context.Context, a *entity.Alert) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	metadata, err := marshalMetadata(a.Metadata)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO stock_alerts (id, product_id, type, severity, title, message, status, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.q.Exec(ctx, query,
		a.ID, a.ProductID, a.Type, a.Severity, a.Title, a.Message, a.Status, metadata, a.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// GetByID obtiene una alerta por ID.
func (r *AlertRepo) GetByID(ctx context.Context, id string) (*entity.Alert, error) {
	return r.getOne(ctx, `SELECT `+alertColumns+` FROM stock_alerts WHERE id = $1`, id)
}

// ListActive alertas activas, más recientes primero.
func (r *AlertRepo) ListActive(ctx context.Context) ([]*entity.Alert, error) {
	return r.list(ctx, `SELECT `+alertColumns+` FROM stock_alerts WHERE status = 'active' ORDER BY created_at DESC`)
}

// ListByStatus filtra por estado (vacío = todos) con límite.
func (r *AlertRepo) ListByStatus(ctx context.Context, status string, limit int) ([]*entity.Alert, error) {
	if status == "" {
		return r.list(ctx, `SELECT `+alertColumns+` FROM stock_alerts ORDER BY created_at DESC LIMIT $1`, limit)
	}
	return r.list(ctx, `SELECT `+alertColumns+` FROM stock_alerts WHERE status = $1 ORDER BY created_at DESC LIMIT $2`,
		status, limit)
}

// FindActive alerta abierta (active o acknowledged) del par producto/tipo.
func (r *AlertRepo) FindActive(ctx context.Context, productID, alertType string) (*entity.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM stock_alerts
		WHERE product_id = $1 AND type = $2 AND status IN ('active', 'acknowledged')
		ORDER BY created_at DESC LIMIT 1`
	return r.getOne(ctx, query, productID, alertType)
}

// FindResolvedSince alerta resuelta o descartada del par con resolved_at >= since.
func (r *AlertRepo) FindResolvedSince(ctx context.Context, productID, alertType string, since time.Time) (*entity.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM stock_alerts
		WHERE product_id = $1 AND type = $2 AND resolved_at IS NOT NULL AND resolved_at >= $3
		ORDER BY resolved_at DESC LIMIT 1`
	return r.getOne(ctx, query, productID, alertType, since)
}

// UpdateStatus persiste la transición si el estado almacenado sigue siendo fromStatus.
func (r *AlertRepo) UpdateStatus(ctx context.Context, a *entity.Alert, fromStatus string) error {
	query := `
		UPDATE stock_alerts
		SET status = $3, acknowledged_by = $4, acknowledged_at = $5, resolved_by = $6, resolved_at = $7
		WHERE id = $1 AND status = $2`
	tag, err := r.q.Exec(ctx, query, a.ID, fromStatus, a.Status,
		nullIfEmpty(a.AcknowledgedBy), a.AcknowledgedAt, nullIfEmpty(a.ResolvedBy), a.ResolvedAt)
	if err != nil {
		return fmt.Errorf("update alert status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *AlertRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Alert, error) {
	a, err := scanAlert(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return a, nil
}

func (r *AlertRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Alert, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scanAlert(row pgx.Row) (*entity.Alert, error) {
	var a entity.Alert
	var metadata []byte
	var ackBy, resolvedBy *string
	err := row.Scan(&a.ID, &a.ProductID, &a.Type, &a.Severity, &a.Title, &a.Message, &a.Status, &metadata,
		&a.CreatedAt, &ackBy, &a.AcknowledgedAt, &resolvedBy, &a.ResolvedAt)
	if err != nil {
		return nil, err
	}
	if ackBy != nil {
		a.AcknowledgedBy = *ackBy
	}
	if resolvedBy != nil {
		a.ResolvedBy = *resolvedBy
	}
	md, err := entity.DecodeAlertMetadata(a.Type, metadata)
	if err != nil {
		return nil, err
	}
	a.Metadata = md
	return &a, nil
}

func marshalMetadata(md entity.AlertMetadata) ([]byte, error) {
	if md == nil {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(md)
	if err != nil {
		return nil, fmt.Errorf("marshal alert metadata: %w", err)
	}
	return b, nil
}
